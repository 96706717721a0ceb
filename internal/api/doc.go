// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api defines the JSON wire types of the supportchat HTTP API and a
// client for it.
//
// Endpoints:
//   - POST /api/chat            - {message, userId?} -> {response} or {error}
//   - GET  /api/recommendations - {questions}
//   - GET  /api/history         - {userId, chats}
//   - GET  /health              - {status, provider, storage}
//
// # Error Model
//
// A chat call has three outcomes. A body with "response" is a reply. A body
// with "error" is an application error the user should see. Everything else
// (connection failures, non-2xx status codes, bodies that are not JSON or
// carry neither field) is returned as a *TransportError.
package api
