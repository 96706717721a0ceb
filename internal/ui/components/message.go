// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/supportchat/internal/model"
	"github.com/jeranaias/supportchat/internal/ui/styles"
)

// PendingLabel is shown next to the spinner while a reply is awaited.
const PendingLabel = "typing"

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one transcript entry.
type MessageBubble struct {
	Entry         *model.Entry
	Width         int
	ShowTimestamp bool

	spinnerFrame string
	theme        *styles.Theme
}

// NewMessageBubble creates a bubble for entry.
func NewMessageBubble(entry *model.Entry, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Entry:         entry,
		Width:         80,
		ShowTimestamp: true,
		spinnerFrame:  styles.DotsSpinner.Frames[2],
		theme:         theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// SetSpinnerFrame sets the frame drawn for pending entries.
func (b *MessageBubble) SetSpinnerFrame(frame string) {
	b.spinnerFrame = frame
}

// View renders the entry.
func (b *MessageBubble) View() string {
	if b.Entry == nil {
		return ""
	}
	if b.Entry.Kind == model.EntryPending {
		return b.renderPending()
	}
	return b.renderMessage()
}

func (b *MessageBubble) renderPending() string {
	label := b.theme.BotLabel.Render(model.SenderBot.DisplayName())
	body := b.theme.Spinner.Render(b.spinnerFrame) + " " + b.theme.Pending.Render(PendingLabel)
	return label + "\n" + b.theme.BotBubble.Render(body)
}

func (b *MessageBubble) renderMessage() string {
	msg := b.Entry.Message

	labelStyle, bubble := b.theme.UserLabel, b.theme.UserBubble
	if msg.IsBot() {
		labelStyle, bubble = b.theme.BotLabel, b.theme.BotBubble
	}

	var header strings.Builder
	header.WriteString(labelStyle.Render(msg.Sender.DisplayName()))
	if b.ShowTimestamp && !msg.Timestamp.IsZero() {
		header.WriteString(" ")
		header.WriteString(b.theme.Timestamp.Render(msg.Timestamp.Format("15:04")))
	}

	body := b.Entry.Styled()
	if !b.Entry.Complete() {
		body += b.theme.Cursor.Render(styles.TypingCursor)
	}
	if body == "" {
		body = " "
	}

	inner := max(b.Width-bubble.GetHorizontalFrameSize(), 1)
	return header.String() + "\n" + bubble.Width(inner).Render(body)
}

// RenderTranscript renders entries top to bottom, separated by blank lines.
func RenderTranscript(entries []*model.Entry, width int, spinnerFrame string, theme *styles.Theme) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		bubble := NewMessageBubble(e, theme)
		bubble.SetWidth(width)
		bubble.SetSpinnerFrame(spinnerFrame)
		parts = append(parts, bubble.View())
	}
	return strings.Join(parts, "\n\n")
}
