// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/supportchat/internal/api"
	"github.com/jeranaias/supportchat/internal/config"
	"github.com/jeranaias/supportchat/internal/llm"
	"github.com/jeranaias/supportchat/internal/server"
	"github.com/jeranaias/supportchat/internal/storage"
	"github.com/jeranaias/supportchat/internal/ui/chat"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// execute runs the command line with args in a fresh home directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var out, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// newChatServer runs a real server answering every question with reply.
func newChatServer(t *testing.T, reply string, store *storage.ChatStore) *httptest.Server {
	t.Helper()
	srv := server.NewServer(config.ServerConfig{}).WithProvider(llm.NewStatic(reply))
	if store != nil {
		srv.WithStore(store)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

type stubClient struct {
	resp api.ChatResponse
	err  error
	got  []string
}

func (s *stubClient) Chat(_ context.Context, message string) (api.ChatResponse, error) {
	s.got = append(s.got, message)
	return s.resp, s.err
}

func (s *stubClient) Recommendations(context.Context) ([]string, error) {
	return nil, nil
}

type scriptedReader struct {
	lines   []string
	history []string
}

func (r *scriptedReader) Prompt(string) (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) AppendHistory(item string) {
	r.history = append(r.history, item)
}

// =============================================================================
// ROOT AND CONFIG
// =============================================================================

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "supportchat "+Version)
	assert.Contains(t, out, "commit:")
}

func TestVersionIgnoresBrokenConfig(t *testing.T) {
	path := writeConfig(t, "this is not toml")
	_, err := execute(t, "--config", path, "version")
	assert.NoError(t, err)
}

func TestConfigShowRedactsKeys(t *testing.T) {
	path := writeConfig(t, `
[provider]
name = "static"
gemini_api_key = "super-secret"
`)
	out, err := execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "static"`)
	assert.Contains(t, out, "[REDACTED]")
	assert.NotContains(t, out, "super-secret")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultPort, cfg.Server.Port)

	_, err = execute(t, "--config", path, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "--config", path, "config", "init", "--force")
	assert.NoError(t, err)
}

func TestInvalidConfigFails(t *testing.T) {
	path := writeConfig(t, "[server]\nport = 0\n")
	_, err := execute(t, "--config", path, "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestBadLogFlag(t *testing.T) {
	_, err := execute(t, "--log-level", "chatty", "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

// =============================================================================
// LOGGING
// =============================================================================

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, InitLogger(LogSettings{Level: "debug", Format: "json"}, &buf))
		log.Debug().Str("k", "v").Msg("hello")

		var event map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
		assert.Equal(t, "hello", event["message"])
		assert.Equal(t, "v", event["k"])
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, InitLogger(LogSettings{Level: "warn", Format: "json"}, &buf))
		log.Info().Msg("hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("quiet with file", func(t *testing.T) {
		var buf bytes.Buffer
		path := filepath.Join(t.TempDir(), "logs", "chat.log")
		require.NoError(t, InitLogger(LogSettings{Level: "info", File: path, Quiet: true}, &buf))
		log.Info().Msg("to file")

		assert.Empty(t, buf.String())
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "to file")
	})

	t.Run("errors", func(t *testing.T) {
		assert.Error(t, InitLogger(LogSettings{Level: "loud"}, io.Discard))
		assert.Error(t, InitLogger(LogSettings{Format: "xml"}, io.Discard))
	})
}

// =============================================================================
// SERVE
// =============================================================================

func TestBuildServer(t *testing.T) {
	cfg := config.Default()
	cfg.Provider.Name = "static"
	cfg.Provider.StaticReply = "Hello from **support**"
	cfg.Storage.Path = storage.MemoryPath

	srv, cleanup, err := buildServer(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	client := api.NewClient(ts.URL).WithUserID("u1")
	resp, err := client.Chat(context.Background(), "Hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello from **support**", resp.Text())

	chats, err := client.History(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "Hi", chats[0].UserMessage)

	questions, err := client.Recommendations(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg.Recommendations, questions)
}

func TestBuildServerWithoutProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Provider.GeminiAPIKey = ""
	cfg.Storage.Enabled = false

	srv, cleanup, err := buildServer(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"Hi"}`))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp api.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, cfg.Provider.FallbackReply, resp.Text())
}

func TestRunServerStopsOnCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Provider.Name = "static"
	cfg.Storage.Enabled = false
	cfg.Server.Port = freePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServer(ctx, cfg) }()

	client := api.NewClient("http://" + cfg.Server.Addr())
	require.Eventually(t, func() bool {
		_, err := client.Health(context.Background())
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

// =============================================================================
// CLIENT COMMANDS
// =============================================================================

func TestAskCommand(t *testing.T) {
	ts := newChatServer(t, "**Hi** there", nil)

	out, err := execute(t, "ask", "--server", ts.URL, "--instant", "Hello")
	require.NoError(t, err)
	assert.Contains(t, out, "Hi")
	assert.Contains(t, out, " there")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestAskAppError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.Failure("Quota exceeded"))
	}))
	defer ts.Close()

	out, err := execute(t, "ask", "--server", ts.URL, "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Error: Quota exceeded\n", out)
}

func TestAskTransportError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := execute(t, "ask", "--server", url, "Hello")
	require.Error(t, err)
	assert.True(t, api.IsTransport(err))
}

func TestHistoryCommand(t *testing.T) {
	store, err := storage.Open(context.Background(), storage.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ts := newChatServer(t, "Sure, **happy** to help", store)

	path := writeConfig(t, "[ui]\nuser_id = \"u1\"\n")

	_, err = execute(t, "--config", path, "ask", "--server", ts.URL, "--instant", "Can you help?")
	require.NoError(t, err)

	out, err := execute(t, "--config", path, "history", "--server", ts.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Can you help?")
	assert.Contains(t, out, "happy")
	assert.NotContains(t, out, "**")

	out, err = execute(t, "history", "--server", ts.URL, "--user", "nobody")
	require.NoError(t, err)
	assert.Contains(t, out, "No chats stored.")
}

func TestHistoryExport(t *testing.T) {
	store, err := storage.Open(context.Background(), storage.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	ts := newChatServer(t, "Use **Settings**", store)

	path := writeConfig(t, "[ui]\nuser_id = \"u2\"\n")
	_, err = execute(t, "--config", path, "ask", "--server", ts.URL, "--instant", "Where?")
	require.NoError(t, err)

	out, err := execute(t, "--config", path, "history", "--server", ts.URL, "--format", "json")
	require.NoError(t, err)
	var doc struct {
		UserID string             `json:"userId"`
		Chats  []api.HistoryEntry `json:"chats"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "u2", doc.UserID)
	require.Len(t, doc.Chats, 1)
	assert.Equal(t, "Use **Settings**", doc.Chats[0].BotResponse)

	dir := t.TempDir()
	out, err = execute(t, "--config", path, "history", "--server", ts.URL, "-f", "html", "-o", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to ")

	files, err := filepath.Glob(filepath.Join(dir, "*.html"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Use <strong>Settings</strong>")

	_, err = execute(t, "--config", path, "history", "--server", ts.URL, "--format", "pdf")
	require.Error(t, err)
}

func TestHistoryNeedsUser(t *testing.T) {
	_, err := execute(t, "history", "--server", "http://127.0.0.1:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no user ID")
}

func TestStatusCommand(t *testing.T) {
	ts := newChatServer(t, "hi", nil)

	out, err := execute(t, "status", "--server", ts.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "static")
	assert.Contains(t, out, ts.URL)
}

func TestModelsNeedsKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("SUPPORTCHAT_PROVIDER_GEMINI_API_KEY", "")
	_, err := execute(t, "models")
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrMissingAPIKey))
}

// =============================================================================
// LINE MODE
// =============================================================================

func TestTypeOut(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, typeOut(context.Background(), &buf, "**Hi** there\nBye", 0))
	out := buf.String()
	assert.Contains(t, out, "Hi")
	assert.Contains(t, out, " there\nBye")
	assert.NotContains(t, out, "<")
}

func TestTypeOutCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := typeOut(ctx, io.Discard, "hello", time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnswer(t *testing.T) {
	tests := []struct {
		name    string
		client  *stubClient
		text    string
		animate bool
		wantErr bool
	}{
		{"reply", &stubClient{resp: api.Reply("Hi")}, "Hi", true, false},
		{"app error", &stubClient{resp: api.Failure("busy")}, "Error: busy", false, false},
		{"transport", &stubClient{err: errors.New("refused")}, chat.ApologyText, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := answer(context.Background(), tt.client, "q")
			assert.Equal(t, tt.text, r.text)
			assert.Equal(t, tt.animate, r.animate)
			assert.Equal(t, tt.wantErr, r.err != nil)
		})
	}
}

func TestREPL(t *testing.T) {
	client := &stubClient{resp: api.Reply("Glad to help")}
	reader := &scriptedReader{lines: []string{"Hello", "   ", "/quit", "never read"}}

	var out bytes.Buffer
	require.NoError(t, runREPL(context.Background(), reader, &out, client, 0))

	assert.Equal(t, []string{"Hello"}, client.got)
	assert.Equal(t, []string{"Hello"}, reader.history)
	assert.Contains(t, out.String(), "Support:")
	assert.Contains(t, out.String(), "Glad to help")
	assert.Equal(t, []string{"never read"}, reader.lines)
}

func TestREPLShowsApologyAndContinues(t *testing.T) {
	client := &stubClient{err: errors.New("connection refused")}
	reader := &scriptedReader{lines: []string{"one", "two"}}

	var out bytes.Buffer
	require.NoError(t, runREPL(context.Background(), reader, &out, client, 0))

	assert.Equal(t, []string{"one", "two"}, client.got)
	assert.Equal(t, 2, strings.Count(out.String(), chat.ApologyText))
	assert.NotContains(t, out.String(), "connection refused")
}
