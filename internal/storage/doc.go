// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists chat exchanges in SQLite.
//
// Each exchange (one user message and the reply sent back) is a row in the
// chats table, tagged with the ID of the client that sent it.
//
// # Usage
//
//	store, err := storage.Open(ctx, "~/.supportchat/chat_history.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	id, err := store.Save(ctx, userID, "Hello", "Hi there")
//	records, err := store.History(ctx, userID)
package storage
