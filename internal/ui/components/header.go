// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/supportchat/internal/ui/styles"
	"github.com/jeranaias/supportchat/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar.
type Header struct {
	Title    string
	Subtitle string
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a Header with the default title.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "Rooman Support",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetSubtitle sets the text shown after the title, usually the server URL.
func (h *Header) SetSubtitle(s string) {
	h.Subtitle = s
}

// View renders the header.
func (h *Header) View() string {
	title := h.theme.HeaderTitle.Render(h.Title)
	inner := max(h.Width-h.theme.Header.GetHorizontalFrameSize(), 0)

	var b strings.Builder
	b.WriteString(title)
	if h.Subtitle != "" {
		room := inner - lipgloss.Width(title) - 3
		if room > 3 {
			b.WriteString(" - ")
			b.WriteString(h.theme.HeaderSubtitle.Render(util.TruncateWidth(h.Subtitle, room)))
		}
	}
	return h.theme.Header.Width(inner).Render(b.String())
}
