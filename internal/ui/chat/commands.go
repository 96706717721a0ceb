// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/supportchat/internal/api"
)

// ChatClient is the part of the API client the view talks to.
type ChatClient interface {
	Chat(ctx context.Context, message string) (api.ChatResponse, error)
	Recommendations(ctx context.Context) ([]string, error)
}

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// sendCmd posts message to the chat endpoint and reports the outcome
// against the placeholder pendingID.
func sendCmd(client ChatClient, pendingID, message string) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return ChatResultMsg{PendingID: pendingID, Err: errNoClient}
		}
		resp, err := client.Chat(context.Background(), message)
		return ChatResultMsg{PendingID: pendingID, Response: resp, Err: err}
	}
}

// recommendationsCmd fetches the suggested questions.
func recommendationsCmd(client ChatClient) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return RecommendationsMsg{Err: errNoClient}
		}
		questions, err := client.Recommendations(context.Background())
		return RecommendationsMsg{Questions: questions, Err: err}
	}
}

// typeTickCmd schedules the next reveal step of entryID.
func typeTickCmd(entryID string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return TypeTickMsg{EntryID: entryID}
	})
}

// copyCmd places text on the system clipboard.
func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return CopyResultMsg{Err: writeClipboard(text)}
	}
}
