// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "time"

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId,omitempty"`
}

// ChatResponse is the body returned by POST /api/chat. Exactly one of
// Response and Error is set on a well-formed body.
type ChatResponse struct {
	Response *string `json:"response,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// Reply builds a successful chat response.
func Reply(text string) ChatResponse {
	return ChatResponse{Response: &text}
}

// Failure builds an application error response.
func Failure(message string) ChatResponse {
	return ChatResponse{Error: message}
}

// Text returns the reply text, or "" when there is none.
func (r ChatResponse) Text() string {
	if r.Response == nil {
		return ""
	}
	return *r.Response
}

// RecommendationsResponse is the body of GET /api/recommendations.
type RecommendationsResponse struct {
	Questions []string `json:"questions"`
}

// HistoryEntry is one stored exchange.
type HistoryEntry struct {
	UserMessage string    `json:"userMessage"`
	BotResponse string    `json:"botResponse"`
	Timestamp   time.Time `json:"timestamp"`
}

// HistoryResponse is the body of GET /api/history.
type HistoryResponse struct {
	UserID string         `json:"userId"`
	Chats  []HistoryEntry `json:"chats"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Provider string `json:"provider"`
	Storage  string `json:"storage"`
}

// ErrorResponse is the body of non-chat error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}
