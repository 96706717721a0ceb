// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/jeranaias/supportchat/internal/util"
)

var (
	ErrClosed      = errors.New("chat store closed")
	ErrEmptyUserID = errors.New("user id is required")
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// ChatRecord is one stored exchange.
type ChatRecord struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"userId"`
	UserMessage string    `json:"userMessage"`
	BotResponse string    `json:"botResponse"`
	Timestamp   time.Time `json:"timestamp"`
}

// ChatStore is a SQLite-backed chat history. It is safe for concurrent use.
type ChatStore struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (and creates if needed) the database at path.
func Open(ctx context.Context, path string) (*ChatStore, error) {
	if path != MemoryPath {
		expanded, err := util.ExpandHome(path)
		if err != nil {
			return nil, err
		}
		path = expanded
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "create database directory")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	// One connection: SQLite has a single writer, and each :memory:
	// connection would otherwise see its own empty database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, errors.Wrapf(err, "set %s", pragma)
		}
	}

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "initialize schema")
	}

	return &ChatStore{db: db, now: time.Now}, nil
}

// Save stores one exchange and returns its row ID.
func (s *ChatStore) Save(ctx context.Context, userID, userMessage, botResponse string) (int64, error) {
	if s.db == nil {
		return 0, ErrClosed
	}
	if userID == "" {
		return 0, ErrEmptyUserID
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO chats (user_id, user_message, bot_response, timestamp) VALUES (?, ?, ?, ?)`,
		userID, userMessage, botResponse, s.now().UnixMilli(),
	)
	if err != nil {
		return 0, errors.Wrap(err, "save chat")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "save chat")
	}
	return id, nil
}

// History returns every exchange for userID, oldest first.
func (s *ChatStore) History(ctx context.Context, userID string) ([]ChatRecord, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, user_message, bot_response, timestamp
		 FROM chats WHERE user_id = ? ORDER BY timestamp ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "query history")
	}
	defer rows.Close()

	records := []ChatRecord{}
	for rows.Next() {
		var rec ChatRecord
		var ms int64
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.UserMessage, &rec.BotResponse, &ms); err != nil {
			return nil, errors.Wrap(err, "scan history")
		}
		rec.Timestamp = time.UnixMilli(ms)
		records = append(records, rec)
	}
	return records, errors.Wrap(rows.Err(), "read history")
}

// Count returns the number of stored exchanges.
func (s *ChatStore) Count(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chats`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count chats")
	}
	return n, nil
}

// Close closes the database. Further calls return ErrClosed.
func (s *ChatStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
