// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package typewriter

import (
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSteps(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"plain", "abc", []string{"a", "b", "c"}},
		{"tag emitted whole", "a<b>c", []string{"a", "<b>", "c"}},
		{"strong", "<strong>Hi</strong> there", []string{"<strong>", "H", "i", "</strong>", " ", "t", "h", "e", "r", "e"}},
		{"br", "a<br>b", []string{"a", "<br>", "b"}},
		{"unclosed bracket", "x<y", []string{"x", "<", "y"}},
		{"bracket at end", "x<", []string{"x", "<"}},
		{"bracket runs to next close", "1 < 2<br>", []string{"1", " ", "< 2<br>"}},
		{"multibyte runes", "héllo", []string{"h", "é", "l", "l", "o"}},
		{"emoji", "ok👍", []string{"o", "k", "👍"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := slices.Collect(Steps(tc.in))
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.in, strings.Join(got, ""))
		})
	}
}

func TestSteps_StopsWhenYieldReturnsFalse(t *testing.T) {
	var got []string
	for chunk := range Steps("abcdef") {
		got = append(got, chunk)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func stepCount(html string) int {
	return len(slices.Collect(Steps(html)))
}

func TestSteps_Count(t *testing.T) {
	assert.Equal(t, 0, stepCount(""))
	assert.Equal(t, 3, stepCount("a<b>c"))
	assert.Equal(t, 10, stepCount("<strong>Hi</strong> there"))
}

// =============================================================================
// REVEAL TESTS
// =============================================================================

func TestReveal_MonotonicAndComplete(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"<strong>Hi</strong> there",
		"a<b>c",
		"broken < tag and <br> more",
		"<strong>Bold</strong><br>line two",
	}

	for _, in := range inputs {
		r := NewReveal("entry-1", in)
		shown := ""
		steps := 0
		for !r.Done() {
			chunk, ok := r.Next()
			require.True(t, ok)
			require.NotEmpty(t, chunk)
			next := shown + chunk
			assert.Greater(t, len(next), len(shown))
			assert.True(t, strings.HasPrefix(in, next))
			assert.Equal(t, next, r.Shown())
			shown = next
			steps++
		}
		assert.Equal(t, in, shown)
		assert.Equal(t, stepCount(in), steps)

		_, ok := r.Next()
		assert.False(t, ok, "reveal must not restart")
	}
}

func TestReveal_TagInOneStep(t *testing.T) {
	r := NewReveal("id", "a<b>c")

	chunk, _ := r.Next()
	assert.Equal(t, "a", chunk)
	chunk, _ = r.Next()
	assert.Equal(t, "<b>", chunk)
	assert.Equal(t, "a<b>", r.Shown())
	chunk, _ = r.Next()
	assert.Equal(t, "c", chunk)
	assert.True(t, r.Done())
}

func TestReveal_Accessors(t *testing.T) {
	r := NewReveal("bot-7", "xy")
	assert.Equal(t, "bot-7", r.ID())
	assert.Equal(t, "", r.Shown())
	assert.False(t, r.Done())
}

func TestReveal_IndependentCursors(t *testing.T) {
	a := NewReveal("a", "abc")
	b := NewReveal("b", "xyz")

	a.Next()
	b.Next()
	a.Next()

	assert.Equal(t, "ab", a.Shown())
	assert.Equal(t, "x", b.Shown())
}

// =============================================================================
// PLAY TESTS
// =============================================================================

func TestPlay(t *testing.T) {
	var got []string
	err := Play(context.Background(), "<strong>ok</strong>", 0, func(s string) {
		got = append(got, s)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"<strong>", "o", "k", "</strong>"}, got)
}

func TestPlay_Paced(t *testing.T) {
	start := time.Now()
	var b strings.Builder
	err := Play(context.Background(), "abcd", 5*time.Millisecond, func(s string) { b.WriteString(s) })
	require.NoError(t, err)
	assert.Equal(t, "abcd", b.String())
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestPlay_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var b strings.Builder
	err := Play(ctx, "abcdef", 10*time.Millisecond, func(s string) {
		b.WriteString(s)
		cancel()
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "a", b.String())
}
