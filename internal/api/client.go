// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultTimeout bounds calls other than chat.
	DefaultTimeout = 10 * time.Second

	// MaxResponseSize is the largest body the client will read.
	MaxResponseSize = 4 * 1024 * 1024
)

var (
	// ErrMalformedBody means a 2xx body had neither "response" nor "error".
	ErrMalformedBody = errors.New("malformed response body")

	// ErrResponseTooLarge means the body exceeded MaxResponseSize.
	ErrResponseTooLarge = errors.New("response too large")
)

// sharedHTTPClient has no overall timeout: chat calls wait as long as the
// server does, and other calls use a context deadline instead.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// =============================================================================
// ERRORS
// =============================================================================

// TransportError reports a chat or API call that produced no usable body.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is or wraps a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to a supportchat server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userID     string
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: sharedHTTPClient,
	}
}

// WithHTTPClient replaces the HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithUserID tags chat requests with id.
func (c *Client) WithUserID(id string) *Client {
	c.userID = id
	return c
}

// UserID returns the ID sent with chat requests.
func (c *Client) UserID() string {
	return c.userID
}

// BaseURL returns the server URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Chat posts message and returns the decoded body. When err is nil the
// response carries either a reply or an application error.
func (c *Client) Chat(ctx context.Context, message string) (ChatResponse, error) {
	body, err := json.Marshal(ChatRequest{Message: message, UserID: c.userID})
	if err != nil {
		return ChatResponse{}, errors.Wrap(err, "encode chat request")
	}

	var resp ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat", bytes.NewReader(body), &resp); err != nil {
		return ChatResponse{}, err
	}
	if resp.Error == "" && resp.Response == nil {
		return ChatResponse{}, &TransportError{Op: "POST /api/chat", Err: ErrMalformedBody}
	}
	return resp, nil
}

// Recommendations fetches the starter questions.
func (c *Client) Recommendations(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	var resp RecommendationsResponse
	if err := c.do(ctx, http.MethodGet, "/api/recommendations", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

// History fetches the stored exchanges for userID.
func (c *Client) History(ctx context.Context, userID string) ([]HistoryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	var resp HistoryResponse
	path := "/api/history?userId=" + url.QueryEscape(userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Chats, nil
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	var resp HealthResponse
	err := c.do(ctx, http.MethodGet, "/health", nil, &resp)
	return resp, err
}

// do performs one request and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	op := method + " " + strings.SplitN(path, "?", 2)[0]

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := readResponse(resp)
	if err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: errors.New(summarize(data))}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: errors.Wrap(err, "decode body")}
	}
	return nil
}

// readResponse reads at most MaxResponseSize bytes of the body.
func readResponse(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "read body")
	}
	if len(data) > MaxResponseSize {
		return nil, ErrResponseTooLarge
	}
	return data, nil
}

// summarize returns the server's error message when the body has one.
func summarize(data []byte) string {
	var e ErrorResponse
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		return e.Error
	}
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if s == "" {
		return "empty body"
	}
	return s
}
