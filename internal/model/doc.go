// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat messages and the
// transcript that displays them.
//
// # Key Types
//
//   - Message: One finished turn with raw text and its rendered HTML
//   - Sender: Who produced a message (user or bot)
//   - Transcript: Ordered, append-only list of entries shown to the user
//   - Entry: A message or a pending placeholder, plus what is revealed so far
//
// # Usage
//
//	t := model.NewTranscript(bold.Render)
//	t.AppendMessage(model.NewMessage(model.SenderUser, "Hello"), true)
//	pending := t.AppendPending()
//	// ... response arrives
//	t.RemovePending(pending.ID)
//	entry := t.AppendMessage(model.NewMessage(model.SenderBot, reply), false)
//	entry.Append(chunk)
//
// A Transcript is owned by a single event loop and is not safe for
// concurrent use.
package model
