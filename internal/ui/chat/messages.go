// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/supportchat/internal/api"
)

// =============================================================================
// SERVER RESULTS
// =============================================================================

// ChatResultMsg carries the outcome of one chat request. PendingID is the
// placeholder entry added when the question was submitted. Err is set when
// no well-formed answer came back.
type ChatResultMsg struct {
	PendingID string
	Response  api.ChatResponse
	Err       error
}

// RecommendationsMsg carries the suggested questions.
type RecommendationsMsg struct {
	Questions []string
	Err       error
}

// =============================================================================
// TYPEWRITER
// =============================================================================

// TypeTickMsg advances the reveal of one bot message by a single step.
type TypeTickMsg struct {
	EntryID string
}

// =============================================================================
// CLIPBOARD
// =============================================================================

// CopyResultMsg reports whether the last reply reached the clipboard.
type CopyResultMsg struct {
	Err error
}
