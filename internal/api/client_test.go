// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChat_Reply(t *testing.T) {
	var got ChatRequest
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"response":"**Hi** there"}`))
	}).WithUserID("user-1")

	resp, err := client.Chat(context.Background(), "Hello")
	require.NoError(t, err)
	require.NotNil(t, resp.Response)
	assert.Equal(t, "**Hi** there", resp.Text())
	assert.Empty(t, resp.Error)
	assert.Equal(t, ChatRequest{Message: "Hello", UserID: "user-1"}, got)
}

func TestChat_EmptyReplyIsStillAReply(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":""}`))
	})

	resp, err := client.Chat(context.Background(), "x")
	require.NoError(t, err)
	require.NotNil(t, resp.Response)
	assert.Equal(t, "", resp.Text())
}

func TestChat_ApplicationError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"quota exceeded"}`))
	})

	resp, err := client.Chat(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "quota exceeded", resp.Error)
	assert.Nil(t, resp.Response)
}

func TestChat_TransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"Internal Server Error"}`, "Internal Server Error"},
		{"bad request", http.StatusBadRequest, `{"error":"Missing message"}`, "Missing message"},
		{"not json", http.StatusOK, `<html>oops</html>`, "decode body"},
		{"neither field", http.StatusOK, `{"other":1}`, "malformed"},
		{"empty error body", http.StatusBadGateway, ``, "empty body"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			_, err := client.Chat(context.Background(), "x")
			require.Error(t, err)
			assert.True(t, IsTransport(err), "want transport error, got %T", err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestChat_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).Chat(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestChat_ContextCancelled(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Chat(ctx, "x")
	require.Error(t, err)
	assert.True(t, IsTransport(err))
}

func TestChat_ResponseTooLarge(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"`))
		w.Write([]byte(strings.Repeat("a", MaxResponseSize)))
		w.Write([]byte(`"}`))
	})

	_, err := client.Chat(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResponseTooLarge)
}

// =============================================================================
// OTHER ENDPOINT TESTS
// =============================================================================

func TestRecommendations(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/recommendations", r.URL.Path)
		w.Write([]byte(`{"questions":["Q1","Q2"]}`))
	})

	qs, err := client.Recommendations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1", "Q2"}, qs)
}

func TestRecommendations_Failure(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	})

	_, err := client.Recommendations(context.Background())
	require.Error(t, err)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusServiceUnavailable, te.Status)
	assert.Equal(t, "GET /api/recommendations", te.Op)
}

func TestHistory(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/history", r.URL.Path)
		assert.Equal(t, "a b", r.URL.Query().Get("userId"))
		w.Write([]byte(`{"userId":"a b","chats":[{"userMessage":"q","botResponse":"r","timestamp":"2025-01-01T00:00:00Z"}]}`))
	})

	chats, err := client.History(context.Background(), "a b")
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "q", chats[0].UserMessage)
	assert.Equal(t, "r", chats[0].BotResponse)
	assert.Equal(t, 2025, chats[0].Timestamp.Year())
}

func TestHealth(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","provider":"static"}`))
	})

	h, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, "static", h.Provider)
}

func TestNewClient_TrimsSlash(t *testing.T) {
	assert.Equal(t, "http://x:1", NewClient("http://x:1///").BaseURL())
}

func TestTransportError_Message(t *testing.T) {
	err := &TransportError{Op: "GET /health", Status: 500, Err: ErrMalformedBody}
	assert.Equal(t, "GET /health: status 500: malformed response body", err.Error())
	assert.ErrorIs(t, err, ErrMalformedBody)

	err = &TransportError{Op: "GET /health", Err: ErrMalformedBody}
	assert.Equal(t, "GET /health: malformed response body", err.Error())
}

func TestReplyAndFailure(t *testing.T) {
	r := Reply("hi")
	assert.Equal(t, "hi", r.Text())
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"response":"hi"}`, string(data))

	f := Failure("bad")
	assert.Equal(t, "", f.Text())
	data, err = json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"bad"}`, string(data))
}
