// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the styled pieces of the support chat view.

Components are plain render helpers. They hold no Bubble Tea state of their
own; the chat model owns the state and asks them for strings.

# Key Types

  - Header (header.go) - Title bar with the assistant name and server
  - MessageBubble (message.go) - One transcript entry: label, bubble, cursor
  - Chips (chips.go) - The row of recommended questions
  - Panel (panel.go) - Welcome and contact panels rendered with glamour
  - StatusBar (statusbar.go) - Key hints and transient notices

# Usage

	bubble := components.NewMessageBubble(entry, theme)
	bubble.SetWidth(width)
	bubble.SetSpinnerFrame(spin.View())
	fmt.Println(bubble.View())
*/
package components
