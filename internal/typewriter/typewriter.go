// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package typewriter reveals an HTML fragment a piece at a time.
//
// Each step emits either one complete tag or one character. A "<" with no
// closing ">" after it is emitted on its own as literal text, so malformed
// markup never stalls the reveal. Tags appear atomically and the partially
// revealed fragment is always safe to render.
//
// # Usage
//
// Event loops hold a Reveal and advance it once per tick:
//
//	r := typewriter.NewReveal(entryID, html)
//	for !r.Done() {
//	    chunk, _ := r.Next()
//	    target.Append(chunk)
//	}
//
// Code that does not need a cursor can range over Steps:
//
//	for chunk := range typewriter.Steps(html) {
//	    fmt.Print(chunk)
//	}
package typewriter

import (
	"context"
	"iter"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultDelay is the pause between two reveal steps.
const DefaultDelay = 15 * time.Millisecond

// step returns the chunk that starts at offset i and the offset after it.
func step(s string, i int) (string, int) {
	if s[i] == '<' {
		if end := strings.IndexByte(s[i:], '>'); end >= 0 {
			return s[i : i+end+1], i + end + 1
		}
		return "<", i + 1
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	return s[i : i+size], i + size
}

// Steps yields the chunks of html in reveal order. Concatenating every chunk
// gives back html.
func Steps(html string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 0; i < len(html); {
			var chunk string
			chunk, i = step(html, i)
			if !yield(chunk) {
				return
			}
		}
	}
}

// =============================================================================
// REVEAL
// =============================================================================

// Reveal is the cursor for one animating message. It only moves forward and
// cannot be rewound; reveal a message again by creating a new Reveal.
type Reveal struct {
	id     string
	target string
	cursor int
}

// NewReveal starts a reveal of html into the transcript entry id.
func NewReveal(id, html string) *Reveal {
	return &Reveal{id: id, target: html}
}

// ID returns the transcript entry the reveal writes to.
func (r *Reveal) ID() string {
	return r.id
}

// Next advances by one step. It returns false once the end was reached.
func (r *Reveal) Next() (string, bool) {
	if r.Done() {
		return "", false
	}
	chunk, next := step(r.target, r.cursor)
	r.cursor = next
	return chunk, true
}

// Done reports whether the whole fragment has been revealed.
func (r *Reveal) Done() bool {
	return r.cursor >= len(r.target)
}

// Shown returns the prefix revealed so far.
func (r *Reveal) Shown() string {
	return r.target[:r.cursor]
}

// =============================================================================
// PLAYBACK
// =============================================================================

// Play reveals html through emit, waiting delay between steps. The first
// chunk is emitted without waiting. It returns ctx.Err() if ctx ends first.
func Play(ctx context.Context, html string, delay time.Duration, emit func(string)) error {
	var ticker *time.Ticker
	if delay > 0 {
		ticker = time.NewTicker(delay)
		defer ticker.Stop()
	}

	first := true
	for chunk := range Steps(html) {
		if !first && ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		first = false
		emit(chunk)
	}
	return nil
}
