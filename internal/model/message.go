// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/supportchat/internal/markdown"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderBot:
		return "Support"
	default:
		return string(s)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is one turn of the conversation. It does not change after it has
// been appended to a transcript.
type Message struct {
	ID           string    `json:"id"`
	Sender       Sender    `json:"sender"`
	RawText      string    `json:"raw_text"`
	RenderedHTML string    `json:"rendered_html"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewMessage creates a message and renders its HTML from raw.
func NewMessage(sender Sender, raw string) *Message {
	return &Message{
		ID:           generateID(),
		Sender:       sender,
		RawText:      raw,
		RenderedHTML: markdown.ToHTML(raw),
		Timestamp:    time.Now(),
	}
}

// IsBot reports whether the bot sent the message.
func (m *Message) IsBot() bool {
	return m.Sender == SenderBot
}

func generateID() string {
	return uuid.NewString()
}
