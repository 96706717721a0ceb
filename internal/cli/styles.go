// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/supportchat/internal/markdown"
	"github.com/jeranaias/supportchat/internal/ui/styles"
)

// init matches the lipgloss profile to what stdout supports.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES FOR LINE-MODE OUTPUT
// =============================================================================

var (
	// UserLabelStyle prefixes the user's turns.
	UserLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Brand)

	// BotLabelStyle prefixes the support agent's turns.
	BotLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Accent)

	// BoldStyle renders <strong> text.
	BoldStyle = lipgloss.NewStyle().Bold(true)

	// DimStyle is used for timestamps and hints.
	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	// ErrorStyle is used for error lines.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose)
)

// boldStyler renders bold reply text with BoldStyle.
func boldStyler() markdown.Styler {
	return func(s string) string {
		return BoldStyle.Render(s)
	}
}
