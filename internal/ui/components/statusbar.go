// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/supportchat/internal/ui/styles"
)

// Shortcut is a key hint shown in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// DefaultShortcuts are the hints shown during a conversation.
var DefaultShortcuts = []Shortcut{
	{"enter", "send"},
	{"alt+enter", "newline"},
	{"tab", "suggestions"},
	{"ctrl+y", "copy reply"},
	{"ctrl+o", "contact"},
	{"ctrl+c", "quit"},
}

// StatusBar shows key hints, or a transient notice when one is set.
type StatusBar struct {
	Shortcuts []Shortcut
	Notice    string
	IsError   bool
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a status bar with the default shortcuts.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Shortcuts: DefaultShortcuts, Width: 80, theme: theme}
}

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetNotice shows text in place of the hints until ClearNotice.
func (s *StatusBar) SetNotice(text string, isError bool) {
	s.Notice, s.IsError = text, isError
}

// ClearNotice restores the hints.
func (s *StatusBar) ClearNotice() {
	s.Notice, s.IsError = "", false
}

// View renders the bar. Hints that do not fit are dropped from the end.
func (s *StatusBar) View() string {
	if s.Notice != "" {
		style := s.theme.Notice
		if s.IsError {
			style = s.theme.ErrorText
		}
		return s.theme.StatusBar.Render(style.Render(s.Notice))
	}

	room := s.Width - s.theme.StatusBar.GetHorizontalFrameSize()
	var parts []string
	used := 0
	for _, sc := range s.Shortcuts {
		w := len(sc.Key) + 1 + len(sc.Desc)
		if len(parts) > 0 {
			w += 2
		}
		if used+w > room {
			break
		}
		used += w
		parts = append(parts, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	return s.theme.StatusBar.Render(strings.Join(parts, "  "))
}
