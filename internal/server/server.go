// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/supportchat/internal/api"
	"github.com/jeranaias/supportchat/internal/config"
	"github.com/jeranaias/supportchat/internal/llm"
	"github.com/jeranaias/supportchat/internal/storage"
	"github.com/jeranaias/supportchat/internal/util"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// MaxRequestBodySize is the maximum size for a request body (1MB).
	MaxRequestBodySize = 1 * 1024 * 1024

	// MaxMessageLength is the maximum length of a chat message in bytes.
	MaxMessageLength = 100000

	// DefaultProviderTimeout bounds a single provider call.
	DefaultProviderTimeout = 60 * time.Second

	// AnonymousUser tags exchanges sent without a user ID.
	AnonymousUser = "anonymous"
)

// Messages returned to clients. Details stay in the log.
const (
	msgMissingMessage = "Missing message"
	msgInvalidRequest = "Invalid request format"
	msgInternal       = "Internal Server Error"
	msgTooLarge       = "Request body too large"
	msgMissingUserID  = "Missing userId"
	msgNoHistory      = "Chat history is not enabled"
)

// ============================================================================
// SERVER STATS
// ============================================================================

// ServerStats tracks server usage counters.
type ServerStats struct {
	ChatRequests int64     `json:"chat_requests"`
	Replies      int64     `json:"replies"`
	AppErrors    int64     `json:"app_errors"`
	Fallbacks    int64     `json:"fallbacks"`
	StoredChats  int64     `json:"stored_chats"`
	StartTime    time.Time `json:"start_time"`
}

// NewServerStats creates a new ServerStats instance.
func NewServerStats() *ServerStats {
	return &ServerStats{StartTime: time.Now()}
}

func (s *ServerStats) recordRequest()  { atomic.AddInt64(&s.ChatRequests, 1) }
func (s *ServerStats) recordReply()    { atomic.AddInt64(&s.Replies, 1) }
func (s *ServerStats) recordAppError() { atomic.AddInt64(&s.AppErrors, 1) }
func (s *ServerStats) recordFallback() { atomic.AddInt64(&s.Fallbacks, 1) }
func (s *ServerStats) recordStored()   { atomic.AddInt64(&s.StoredChats, 1) }

// GetStats returns a copy of the current stats.
func (s *ServerStats) GetStats() ServerStats {
	return ServerStats{
		ChatRequests: atomic.LoadInt64(&s.ChatRequests),
		Replies:      atomic.LoadInt64(&s.Replies),
		AppErrors:    atomic.LoadInt64(&s.AppErrors),
		Fallbacks:    atomic.LoadInt64(&s.Fallbacks),
		StoredChats:  atomic.LoadInt64(&s.StoredChats),
		StartTime:    s.StartTime,
	}
}

// Uptime returns the server uptime duration.
func (s *ServerStats) Uptime() time.Duration {
	return time.Since(s.StartTime)
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the HTTP proxy in front of the generative API.
type Server struct {
	cfg    config.ServerConfig
	router *http.ServeMux
	server *http.Server

	provider        llm.Provider
	store           *storage.ChatStore
	recommendations []string
	fallbackReply   string
	timeout         time.Duration
	version         string

	stats   *ServerStats
	limiter *RateLimiter

	mu sync.RWMutex
}

// NewServer creates a Server from cfg. A zero port uses config.DefaultPort.
func NewServer(cfg config.ServerConfig) *Server {
	if cfg.Port == 0 {
		cfg.Port = config.DefaultPort
	}

	s := &Server{
		cfg:             cfg,
		router:          http.NewServeMux(),
		recommendations: append([]string(nil), config.DefaultRecommendations...),
		fallbackReply:   config.DefaultFallbackReply,
		timeout:         DefaultProviderTimeout,
		version:         "dev",
		stats:           NewServerStats(),
	}
	if cfg.RateLimit > 0 {
		s.limiter = NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	}

	s.setupRoutes()
	return s
}

// WithProvider sets the provider that answers chat messages.
func (s *Server) WithProvider(p llm.Provider) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = p
	return s
}

// WithStore enables chat history.
func (s *Server) WithStore(store *storage.ChatStore) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = store
	return s
}

// WithRecommendations sets the starter questions.
func (s *Server) WithRecommendations(questions []string) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recommendations = append([]string(nil), questions...)
	return s
}

// WithFallbackReply sets the reply sent when every provider fails.
func (s *Server) WithFallbackReply(text string) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	if text != "" {
		s.fallbackReply = text
	}
	return s
}

// WithProviderTimeout bounds each provider call.
func (s *Server) WithProviderTimeout(d time.Duration) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d > 0 {
		s.timeout = d
	}
	return s
}

// WithVersion sets the version reported by /health.
func (s *Server) WithVersion(v string) *Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version = v
	return s
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.cfg.Addr()
}

// Stats returns the server's counters.
func (s *Server) Stats() *ServerStats {
	return s.stats
}

// ============================================================================
// ROUTES
// ============================================================================

func (s *Server) setupRoutes() {
	s.router.HandleFunc("POST /api/chat", s.handleChat)
	s.router.HandleFunc("GET /api/recommendations", s.handleRecommendations)
	s.router.HandleFunc("GET /api/history", s.handleHistory)

	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /stats", s.handleStats)

	if s.cfg.StaticDir != "" {
		dir, err := util.ExpandHome(s.cfg.StaticDir)
		if err != nil {
			dir = s.cfg.StaticDir
		}
		s.router.Handle("GET /", http.FileServer(http.Dir(dir)))
	}
}

// ============================================================================
// CHAT HANDLER
// ============================================================================

// handleChat handles POST /api/chat.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.stats.recordAppError()
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		log.Debug().Err(err).Msg("invalid chat request body")
		s.writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		s.stats.recordAppError()
		s.writeError(w, http.StatusBadRequest, msgMissingMessage)
		return
	}
	if len(message) > MaxMessageLength {
		s.stats.recordAppError()
		s.writeError(w, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	s.stats.recordRequest()

	s.mu.RLock()
	provider, store := s.provider, s.store
	fallbackReply, timeout := s.fallbackReply, s.timeout
	s.mu.RUnlock()

	if provider == nil {
		log.Warn().Msg("no provider configured, sending fallback reply")
		s.stats.recordFallback()
		s.writeJSON(w, http.StatusOK, api.Reply(fallbackReply))
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = AnonymousUser
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	start := time.Now()
	reply, err := provider.Reply(ctx, message)
	if err != nil {
		log.Error().Err(err).
			Str("provider", provider.Name()).
			Str("user", userID).
			Dur("latency", time.Since(start)).
			Msg("provider failed, sending fallback reply")
		s.stats.recordFallback()
		s.writeJSON(w, http.StatusOK, api.Reply(fallbackReply))
		return
	}

	log.Info().
		Str("provider", provider.Name()).
		Str("user", userID).
		Str("query", util.TruncateRunes(message, 50)).
		Dur("latency", time.Since(start)).
		Msg("chat reply")
	s.stats.recordReply()

	if store != nil {
		if _, err := store.Save(r.Context(), userID, message, reply); err != nil {
			log.Warn().Err(err).Str("user", userID).Msg("failed to store chat")
		} else {
			s.stats.recordStored()
		}
	}

	s.writeJSON(w, http.StatusOK, api.Reply(reply))
}

// ============================================================================
// RECOMMENDATIONS AND HISTORY
// ============================================================================

// handleRecommendations handles GET /api/recommendations.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	questions := append([]string{}, s.recommendations...)
	s.mu.RUnlock()

	s.writeJSON(w, http.StatusOK, api.RecommendationsResponse{Questions: questions})
}

// handleHistory handles GET /api/history?userId=.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, msgMissingUserID)
		return
	}

	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()

	if store == nil {
		s.writeError(w, http.StatusNotFound, msgNoHistory)
		return
	}

	records, err := store.History(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user", userID).Msg("failed to load history")
		s.writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	chats := make([]api.HistoryEntry, len(records))
	for i, rec := range records {
		chats[i] = api.HistoryEntry{
			UserMessage: rec.UserMessage,
			BotResponse: rec.BotResponse,
			Timestamp:   rec.Timestamp,
		}
	}
	s.writeJSON(w, http.StatusOK, api.HistoryResponse{UserID: userID, Chats: chats})
}

// ============================================================================
// HEALTH AND STATS HANDLERS
// ============================================================================

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	provider, store, version := s.provider, s.store, s.version
	s.mu.RUnlock()

	resp := api.HealthResponse{
		Status:   "ok",
		Version:  version,
		Provider: "none",
		Storage:  "disabled",
	}
	if provider != nil {
		resp.Provider = provider.Name()
	} else {
		resp.Status = "degraded"
	}
	if store != nil {
		resp.Storage = "enabled"
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// StatsResponse represents the stats endpoint response.
type StatsResponse struct {
	ChatRequests  int64 `json:"chat_requests"`
	Replies       int64 `json:"replies"`
	AppErrors     int64 `json:"app_errors"`
	Fallbacks     int64 `json:"fallbacks"`
	StoredChats   int64 `json:"stored_chats"`
	UptimeSeconds int64 `json:"uptime_seconds"`
}

// handleStats handles GET /stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.stats.GetStats()
	s.writeJSON(w, http.StatusOK, StatsResponse{
		ChatRequests:  stats.ChatRequests,
		Replies:       stats.Replies,
		AppErrors:     stats.AppErrors,
		Fallbacks:     stats.Fallbacks,
		StoredChats:   stats.StoredChats,
		UptimeSeconds: int64(stats.Uptime().Seconds()),
	})
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	middlewares := []func(http.Handler) http.Handler{
		RecoveryMiddleware(),
		SecurityHeadersMiddleware(),
		LoggingMiddleware(),
		CORSMiddleware(NewCORSConfig(s.cfg.CORSOrigins)),
	}
	if s.limiter != nil {
		middlewares = append(middlewares, RateLimitMiddleware(s.limiter))
	}
	return Chain(middlewares...)(s.router)
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return errors.Wrapf(err, "listen on %s", s.Addr())
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  seconds(s.cfg.ReadTimeoutSecs, 30*time.Second),
		WriteTimeout: seconds(s.cfg.WriteTimeoutSecs, 120*time.Second),
		IdleTimeout:  120 * time.Second,
	}
	srv := s.server
	provider := "none"
	if s.provider != nil {
		provider = s.provider.Name()
	}
	version, history := s.version, s.store != nil
	s.mu.Unlock()

	log.Info().
		Str("addr", ln.Addr().String()).
		Str("version", version).
		Str("provider", provider).
		Bool("history", history).
		Msg("server started")
	return srv.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}

	stats := s.stats.GetStats()
	log.Info().
		Int64("chat_requests", stats.ChatRequests).
		Int64("fallbacks", stats.Fallbacks).
		Msg("server shutting down")

	if s.limiter != nil {
		s.limiter.Stop()
	}
	return srv.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("failed to write response")
	}
}

// writeError writes a {"error": message} response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

func seconds(n int, def time.Duration) time.Duration {
	if n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}
