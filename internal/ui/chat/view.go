// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current screen.
func (m Model) View() string {
	switch m.state {
	case StateWelcome:
		return m.panelScreen(m.welcome.View(), "Press enter to start chatting")
	case StateContact:
		return m.panelScreen(m.contact.View(), "Press esc to go back")
	}

	parts := []string{m.header.View(), m.viewport.View()}
	if chips := m.chips.View(); chips != "" {
		parts = append(parts, chips)
	}
	parts = append(parts, m.inputView(), m.status.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// panelScreen centers a panel with a hint below it.
func (m Model) panelScreen(panel, hint string) string {
	header := m.header.View()
	body := lipgloss.JoinVertical(lipgloss.Center, panel, "", m.theme.ShortcutDesc.Render(hint))
	room := max(m.height-lipglossHeight(header), lipglossHeight(body))
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.Place(m.width, room, lipgloss.Center, lipgloss.Center, body),
	)
}

func (m Model) inputView() string {
	return m.theme.InputContainer.Width(max(m.width-m.theme.InputContainer.GetHorizontalFrameSize(), 1)).Render(m.input.View())
}

// lipglossHeight is lipgloss.Height that counts an empty block as zero
// lines.
func lipglossHeight(s string) int {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	return lipgloss.Height(s)
}
