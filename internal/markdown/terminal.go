// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"strings"

	"golang.org/x/net/html"
)

// Styler decorates a run of text, usually with ANSI escapes.
type Styler func(string) string

// TerminalWriter renders HTML fragments as terminal text.
//
// Fragments are tokenized one at a time, the same way a browser treats each
// innerHTML append, so a lone "<" stays literal while a complete tag changes
// the style of what follows. Bold state carries across fragments.
type TerminalWriter struct {
	bold   Styler
	depth  int
	styled strings.Builder
	plain  strings.Builder
}

// NewTerminalWriter returns a writer that applies bold to text inside
// <strong> and <b>. A nil styler leaves bold text unstyled.
func NewTerminalWriter(bold Styler) *TerminalWriter {
	if bold == nil {
		bold = func(s string) string { return s }
	}
	return &TerminalWriter{bold: bold}
}

// Write tokenizes fragment and appends its visible output.
func (w *TerminalWriter) Write(fragment string) {
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return
		case html.TextToken:
			w.text(string(z.Text()))
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "br":
				w.text("\n")
			case "strong", "b":
				w.depth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "strong", "b":
				if w.depth > 0 {
					w.depth--
				}
			}
		}
	}
}

func (w *TerminalWriter) text(s string) {
	w.plain.WriteString(s)
	if w.depth > 0 && s != "\n" {
		w.styled.WriteString(w.bold(s))
		return
	}
	w.styled.WriteString(s)
}

// String returns everything written so far with styling applied.
func (w *TerminalWriter) String() string {
	return w.styled.String()
}

// Text returns everything written so far without styling.
func (w *TerminalWriter) Text() string {
	return w.plain.String()
}

// PlainText renders a complete fragment and returns its visible text.
func PlainText(fragment string) string {
	w := NewTerminalWriter(nil)
	w.Write(fragment)
	return w.Text()
}
