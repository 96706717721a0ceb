// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *ChatStore {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "chats.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndHistory(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	id1, err := store.Save(ctx, "alice", "Hello", "Hi there")
	require.NoError(t, err)
	id2, err := store.Save(ctx, "alice", "Courses?", "**Many**")
	require.NoError(t, err)
	_, err = store.Save(ctx, "bob", "Other", "Reply")
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	records, err := store.History(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Hello", records[0].UserMessage)
	assert.Equal(t, "Hi there", records[0].BotResponse)
	assert.Equal(t, "Courses?", records[1].UserMessage)
	assert.Equal(t, "alice", records[1].UserID)
	assert.False(t, records[0].Timestamp.IsZero())
}

func TestHistory_OrderedByTimestamp(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	times := []time.Time{base.Add(2 * time.Minute), base, base.Add(time.Minute)}
	i := 0
	store.now = func() time.Time { ts := times[i]; i++; return ts }

	for _, msg := range []string{"third", "first", "second"} {
		_, err := store.Save(ctx, "u", msg, "r")
		require.NoError(t, err)
	}

	records, err := store.History(ctx, "u")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "first", records[0].UserMessage)
	assert.Equal(t, "second", records[1].UserMessage)
	assert.Equal(t, "third", records[2].UserMessage)
	assert.True(t, records[0].Timestamp.Equal(base))
}

func TestHistory_UnknownUserIsEmpty(t *testing.T) {
	store := openTestStore(t)
	records, err := store.History(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestEmptyUserID(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.Save(ctx, "", "a", "b")
	assert.ErrorIs(t, err, ErrEmptyUserID)
	_, err = store.History(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyUserID)
}

func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "chats.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = store.Save(ctx, "u", "q", "a")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, MemoryPath)
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Save(ctx, "u", "q", "a")
	require.NoError(t, err)
	records, err := store.History(ctx, "u")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestClosedStore(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, MemoryPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	_, err = store.Save(ctx, "u", "q", "a")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = store.History(ctx, "u")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = store.Count(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Save(ctx, "u", "q", "a")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}
