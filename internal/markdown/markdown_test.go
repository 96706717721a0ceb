// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// TO HTML TESTS
// =============================================================================

func TestToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "hello world", "hello world"},
		{"empty", "", ""},
		{"bold", "**bold**", "<strong>bold</strong>"},
		{"bold inside text", "**Hi** there", "<strong>Hi</strong> there"},
		{"two bold spans", "**a** and **b**", "<strong>a</strong> and <strong>b</strong>"},
		{"non greedy", "**a**b**c**", "<strong>a</strong>b<strong>c</strong>"},
		{"empty bold", "****", "<strong></strong>"},
		{"unclosed bold", "**open", "**open"},
		{"newline", "line1\nline2", "line1<br>line2"},
		{"bold does not cross lines", "**a\nb**", "**a<br>b**"},
		{"bold then newline", "**Note:**\nok", "<strong>Note:</strong><br>ok"},
		{"other markdown untouched", "# title _x_ `code`", "# title _x_ `code`"},
		{"html passes through", "a<b>c", "a<b>c"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToHTML(tc.in))
		})
	}
}

func TestToHTML_IdempotentOnPlainText(t *testing.T) {
	for _, s := range []string{"", "hello", "What courses does Rooman offer?", "a * b * c", "<i>x</i>"} {
		once := ToHTML(s)
		assert.Equal(t, s, once)
		assert.Equal(t, once, ToHTML(once))
	}
}

// =============================================================================
// TERMINAL WRITER TESTS
// =============================================================================

func brackets(s string) string { return "[" + s + "]" }

func TestTerminalWriter_Whole(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		text   string
		styled string
	}{
		{"plain", "hello", "hello", "hello"},
		{"strong", "<strong>Hi</strong> there", "Hi there", "[Hi] there"},
		{"b tag", "a<b>c</b>", "ac", "a[c]"},
		{"br", "one<br>two", "one\ntwo", "one\ntwo"},
		{"self closing br", "one<br/>two", "one\ntwo", "one\ntwo"},
		{"entity", "fish &amp; chips", "fish & chips", "fish & chips"},
		{"unknown tags dropped", "<em>x</em>", "x", "x"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := NewTerminalWriter(brackets)
			w.Write(tc.in)
			assert.Equal(t, tc.text, w.Text())
			assert.Equal(t, tc.styled, w.String())
		})
	}
}

func TestTerminalWriter_FragmentsKeepBoldState(t *testing.T) {
	w := NewTerminalWriter(brackets)
	for _, chunk := range []string{"<strong>", "H", "i", "</strong>", " ", "x"} {
		w.Write(chunk)
	}
	assert.Equal(t, "Hi x", w.Text())
	assert.Equal(t, "[H][i] x", w.String())
}

func TestTerminalWriter_LoneAngleBracketIsText(t *testing.T) {
	w := NewTerminalWriter(nil)
	for _, chunk := range []string{"x", "<", "y"} {
		w.Write(chunk)
	}
	assert.Equal(t, "x<y", w.Text())
}

func TestTerminalWriter_UnbalancedCloseIgnored(t *testing.T) {
	w := NewTerminalWriter(brackets)
	w.Write("</strong>a")
	assert.Equal(t, "a", w.String())
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Hi there", PlainText(ToHTML("**Hi** there")))
	assert.Equal(t, "a\nb", PlainText(ToHTML("a\nb")))
}
