// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"

	"github.com/jeranaias/supportchat/internal/markdown"
)

// =============================================================================
// ENTRY
// =============================================================================

// EntryKind distinguishes messages from loading placeholders.
type EntryKind int

const (
	EntryMessage EntryKind = iota
	EntryPending
)

// String returns the kind name.
func (k EntryKind) String() string {
	switch k {
	case EntryMessage:
		return "message"
	case EntryPending:
		return "pending"
	default:
		return "unknown"
	}
}

// Entry is one row of the transcript. Message entries reveal their HTML
// through Append, either all at once or chunk by chunk.
type Entry struct {
	ID      string
	Kind    EntryKind
	Message *Message

	shown  strings.Builder
	render *markdown.TerminalWriter
}

// Append adds a revealed chunk of HTML to the entry.
func (e *Entry) Append(chunk string) {
	e.shown.WriteString(chunk)
	e.render.Write(chunk)
}

// Shown returns the HTML revealed so far.
func (e *Entry) Shown() string {
	return e.shown.String()
}

// Text returns the visible text revealed so far.
func (e *Entry) Text() string {
	return e.render.Text()
}

// Styled returns the revealed text with terminal styling.
func (e *Entry) Styled() string {
	return e.render.String()
}

// Complete reports whether the whole message HTML is visible.
func (e *Entry) Complete() bool {
	return e.Kind == EntryMessage && e.shown.Len() == len(e.Message.RenderedHTML)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the ordered list of entries. Entries keep insertion order
// and only pending placeholders are ever removed.
type Transcript struct {
	entries []*Entry
	bold    markdown.Styler
}

// NewTranscript creates an empty transcript that styles bold text with bold.
func NewTranscript(bold markdown.Styler) *Transcript {
	return &Transcript{bold: bold}
}

// AppendMessage adds msg at the end. With instant set, the whole rendered
// HTML is visible at once; otherwise the caller reveals it with Append.
func (t *Transcript) AppendMessage(msg *Message, instant bool) *Entry {
	e := &Entry{
		ID:      msg.ID,
		Kind:    EntryMessage,
		Message: msg,
		render:  markdown.NewTerminalWriter(t.bold),
	}
	if instant {
		e.Append(msg.RenderedHTML)
	}
	t.entries = append(t.entries, e)
	return e
}

// AppendPending adds a loading placeholder at the end.
func (t *Transcript) AppendPending() *Entry {
	e := &Entry{
		ID:     "pending-" + generateID(),
		Kind:   EntryPending,
		render: markdown.NewTerminalWriter(t.bold),
	}
	t.entries = append(t.entries, e)
	return e
}

// RemovePending removes the placeholder with the given ID. It returns false
// if no such placeholder is present; message entries are never removed.
func (t *Transcript) RemovePending(id string) bool {
	for i, e := range t.entries {
		if e.ID == id && e.Kind == EntryPending {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Entry returns the entry with the given ID, or nil.
func (t *Transcript) Entry(id string) *Entry {
	for _, e := range t.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Entries returns the entries in display order.
func (t *Transcript) Entries() []*Entry {
	out := make([]*Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Last returns the newest fully revealed message from sender, or nil.
// Messages still being typed out are skipped.
func (t *Transcript) Last(sender Sender) *Message {
	for i := len(t.entries) - 1; i >= 0; i-- {
		e := t.entries[i]
		if e.Kind == EntryMessage && e.Message.Sender == sender && e.Complete() {
			return e.Message
		}
	}
	return nil
}

// PendingCount returns the number of placeholders currently shown.
func (t *Transcript) PendingCount() int {
	n := 0
	for _, e := range t.entries {
		if e.Kind == EntryPending {
			n++
		}
	}
	return n
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.entries)
}
