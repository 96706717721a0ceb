// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/supportchat/internal/ui/styles"
)

// =============================================================================
// PANEL COMPONENT
// =============================================================================

// Panel renders a markdown document inside a bordered box. The welcome and
// contact screens are panels.
type Panel struct {
	Markdown string
	Width    int
	theme    *styles.Theme

	renderer      *glamour.TermRenderer
	rendererWidth int
}

// NewPanel creates a panel for the markdown document md.
func NewPanel(md string, theme *styles.Theme) *Panel {
	return &Panel{Markdown: md, Width: 60, theme: theme}
}

// SetWidth sets the outer panel width.
func (p *Panel) SetWidth(width int) {
	p.Width = width
}

func (p *Panel) contentWidth() int {
	return max(p.Width-p.theme.Panel.GetHorizontalFrameSize(), 10)
}

// render returns the glamour rendering of the document, or the raw text
// when glamour fails.
func (p *Panel) render() string {
	width := p.contentWidth()
	if p.renderer == nil || p.rendererWidth != width {
		style := "light"
		if p.theme.IsDark {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			log.Debug().Err(err).Msg("glamour renderer unavailable")
			return p.Markdown
		}
		p.renderer, p.rendererWidth = r, width
	}

	out, err := p.renderer.Render(p.Markdown)
	if err != nil {
		log.Debug().Err(err).Msg("panel markdown render failed")
		return p.Markdown
	}
	return strings.Trim(out, "\n")
}

// View renders the panel.
func (p *Panel) View() string {
	return p.theme.Panel.Width(p.contentWidth()).Render(p.render())
}
