// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the HTTP proxy between the chat client and the
// generative API.
//
// The server keeps API keys off the client: the client posts a message, the
// server forwards it to the configured provider and returns the reply.
//
// # Endpoints
//
//   - POST /api/chat            - Send a message, receive {response} or {error}
//   - GET  /api/recommendations - Starter questions
//   - GET  /api/history         - Stored exchanges for ?userId=
//   - GET  /health              - Health check
//   - GET  /stats               - Usage counters
//   - GET  /                    - Static files, when a static directory is set
//
// # Middleware
//
//   - Panic recovery with stack trace logging
//   - Security headers
//   - Structured request logging (zerolog)
//   - CORS
//   - Per-IP rate limiting (golang.org/x/time/rate)
//
// # Key Types
//
//   - Server: HTTP server with routes and middleware
//   - ServerStats: request counters
//   - RateLimiter: per-IP token buckets
//
// # Usage
//
//	srv := server.NewServer(cfg.Server).
//		WithProvider(provider).
//		WithStore(store).
//		WithRecommendations(cfg.Recommendations)
//	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
//		log.Fatal().Err(err).Msg("server failed")
//	}
package server
