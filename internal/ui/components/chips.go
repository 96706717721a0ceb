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
// RECOMMENDATION CHIPS
// =============================================================================

// maxChipWidth caps the text width of a single chip.
const maxChipWidth = 40

// Chips is the row of recommended questions. Selected is -1 when no chip
// has keyboard focus.
type Chips struct {
	Questions []string
	Selected  int
	Width     int
	theme     *styles.Theme
}

// NewChips creates an empty chip row.
func NewChips(theme *styles.Theme) *Chips {
	return &Chips{Selected: -1, Width: 80, theme: theme}
}

// SetQuestions replaces the questions and clears the selection.
func (c *Chips) SetQuestions(questions []string) {
	c.Questions = append([]string(nil), questions...)
	c.Selected = -1
}

// Len returns the number of chips.
func (c *Chips) Len() int {
	return len(c.Questions)
}

// Focus selects the first chip. It returns false when there are none.
func (c *Chips) Focus() bool {
	if len(c.Questions) == 0 {
		return false
	}
	c.Selected = 0
	return true
}

// Blur clears the selection.
func (c *Chips) Blur() {
	c.Selected = -1
}

// Focused reports whether a chip is selected.
func (c *Chips) Focused() bool {
	return c.Selected >= 0 && c.Selected < len(c.Questions)
}

// Next moves the selection right, wrapping around.
func (c *Chips) Next() {
	if len(c.Questions) == 0 {
		return
	}
	c.Selected = (c.Selected + 1) % len(c.Questions)
}

// Prev moves the selection left, wrapping around.
func (c *Chips) Prev() {
	if len(c.Questions) == 0 {
		return
	}
	c.Selected = (c.Selected - 1 + len(c.Questions)) % len(c.Questions)
}

// Current returns the selected question.
func (c *Chips) Current() (string, bool) {
	if !c.Focused() {
		return "", false
	}
	return c.Questions[c.Selected], true
}

// View renders the chips, wrapping onto more lines when they do not fit.
func (c *Chips) View() string {
	if len(c.Questions) == 0 {
		return ""
	}

	var lines []string
	var row []string
	rowWidth := 0
	for i, q := range c.Questions {
		style := c.theme.Chip
		if i == c.Selected {
			style = c.theme.ChipSelected
		}
		chip := style.Render(util.TruncateWidth(q, maxChipWidth))
		w := lipgloss.Width(chip)

		if len(row) > 0 && rowWidth+1+w > c.Width {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row, rowWidth = nil, 0
		}
		if len(row) > 0 {
			row = append(row, " ")
			rowWidth++
		}
		row = append(row, chip)
		rowWidth += w
	}
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, row...))

	return c.theme.ChipsLabel.Render("Suggested questions") + "\n" + strings.Join(lines, "\n")
}
