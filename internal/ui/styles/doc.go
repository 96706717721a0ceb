// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the support chat view.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection.

# Color System (colors.go)

  - Brand - header, user label, chips
  - Accent - bot label, spinner, panel borders
  - Rose - errors
  - Amber - notices

# Theme System (theme.go)

	theme := styles.NewTheme()
	theme.SetSize(msg.Width, msg.Height)
	bubble := theme.BotBubble.Width(theme.BubbleWidth())

Theme.BoldStyler renders the <strong> spans of bot replies.

# Animations (animations.go)

SpinnerConfig values convert to bubbles spinners for the pending indicator.
*/
package styles
