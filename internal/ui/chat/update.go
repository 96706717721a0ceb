// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/jeranaias/supportchat/internal/api"
	"github.com/jeranaias/supportchat/internal/markdown"
	"github.com/jeranaias/supportchat/internal/model"
	"github.com/jeranaias/supportchat/internal/typewriter"
)

// Update handles messages and user input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case ChatResultMsg:
		return m.handleChatResult(msg)

	case TypeTickMsg:
		return m.handleTypeTick(msg)

	case RecommendationsMsg:
		return m.handleRecommendations(msg)

	case CopyResultMsg:
		if msg.Err != nil {
			log.Warn().Err(msg.Err).Msg("Copy to clipboard failed")
			m.status.SetNotice("Clipboard unavailable", true)
		} else {
			m.status.SetNotice("Reply copied to clipboard", false)
		}
		return m, nil

	case spinner.TickMsg:
		// The spinner only runs while a request is pending.
		if m.transcript.PendingCount() == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd
	}

	return m, nil
}

// =============================================================================
// SUBMIT
// =============================================================================

// Submit sends text as the user's next question. Blank text is ignored.
// The user message and a pending placeholder are in the transcript before
// the returned command runs.
func (m Model) Submit(text string) (Model, tea.Cmd) {
	if strings.TrimSpace(text) == "" {
		return m, nil
	}

	m.transcript.AppendMessage(model.NewMessage(model.SenderUser, text), true)
	m.input.Reset()
	m.chips.Blur()
	m.input.Focus()
	m.layout()

	startSpinner := m.transcript.PendingCount() == 0
	pending := m.transcript.AppendPending()
	m.refresh()

	log.Debug().Str("pending", pending.ID).Int("len", len(text)).Msg("Question submitted")

	cmds := []tea.Cmd{sendCmd(m.client, pending.ID, text)}
	if startSpinner {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

// SelectChip submits the i-th suggested question.
func (m Model) SelectChip(i int) (Model, tea.Cmd) {
	if i < 0 || i >= m.chips.Len() {
		return m, nil
	}
	return m.Submit(m.chips.Questions[i])
}

// LoadRecommendations returns a command that fetches the suggested
// questions.
func (m Model) LoadRecommendations() tea.Cmd {
	return recommendationsCmd(m.client)
}

// =============================================================================
// SERVER RESULTS
// =============================================================================

func (m Model) handleChatResult(msg ChatResultMsg) (tea.Model, tea.Cmd) {
	m.transcript.RemovePending(msg.PendingID)

	switch {
	case msg.Err != nil:
		log.Error().Err(msg.Err).
			Str("pending", msg.PendingID).
			Bool("transport", api.IsTransport(msg.Err)).
			Msg("Chat request failed")
		m.appendInstant(ApologyText)
		return m, nil

	case msg.Response.Error != "":
		m.appendInstant("Error: " + msg.Response.Error)
		return m, nil
	}

	return m.startReveal(msg.Response.Text())
}

func (m Model) handleRecommendations(msg RecommendationsMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		log.Warn().Err(msg.Err).Msg("Loading suggested questions failed")
		m.chips.SetQuestions(nil)
	} else {
		m.chips.SetQuestions(msg.Questions)
	}
	m.layout()
	m.refresh()
	return m, nil
}

// appendInstant adds a bot message that is fully visible at once.
func (m *Model) appendInstant(text string) {
	m.transcript.AppendMessage(model.NewMessage(model.SenderBot, text), true)
	m.refresh()
}

// =============================================================================
// TYPEWRITER
// =============================================================================

// startReveal adds a bot message with nothing visible yet and reveals its
// first step immediately.
func (m Model) startReveal(text string) (tea.Model, tea.Cmd) {
	msg := model.NewMessage(model.SenderBot, text)
	entry := m.transcript.AppendMessage(msg, false)
	r := typewriter.NewReveal(entry.ID, msg.RenderedHTML)
	m.reveals[entry.ID] = r
	return m, m.advance(r)
}

func (m Model) handleTypeTick(msg TypeTickMsg) (tea.Model, tea.Cmd) {
	r, ok := m.reveals[msg.EntryID]
	if !ok {
		return m, nil
	}
	return m, m.advance(r)
}

// advance reveals one step of r and schedules the next one.
func (m *Model) advance(r *typewriter.Reveal) tea.Cmd {
	entry := m.transcript.Entry(r.ID())
	if entry == nil {
		delete(m.reveals, r.ID())
		return nil
	}

	if chunk, ok := r.Next(); ok {
		entry.Append(chunk)
	}
	m.refresh()

	if r.Done() {
		delete(m.reveals, r.ID())
		return nil
	}
	return typeTickCmd(r.ID(), m.typeDelay)
}

// =============================================================================
// KEYBOARD
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	m.status.ClearNotice()

	switch m.state {
	case StateWelcome:
		return m.handleWelcomeKey(msg)
	case StateContact:
		if key.Matches(msg, m.keys.Back, m.keys.Contact) {
			m.state = m.prevState
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Contact):
		m.openContact()
		return m, nil
	case key.Matches(msg, m.keys.CopyReply):
		return m.copyLastReply()
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	if m.chips.Focused() {
		return m.handleChipKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Suggestions):
		if m.chips.Focus() {
			m.input.Blur()
		}
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.Submit(m.input.Value())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.layout()
	return m, cmd
}

func (m Model) handleWelcomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.state = StateChat
		m.layout()
		m.refresh()
		return m, m.LoadRecommendations()
	case key.Matches(msg, m.keys.Contact):
		m.openContact()
	}
	return m, nil
}

func (m Model) handleChipKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ChipLeft):
		m.chips.Prev()
		return m, nil
	case key.Matches(msg, m.keys.ChipRight):
		m.chips.Next()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		q, ok := m.chips.Current()
		if !ok {
			return m, nil
		}
		return m.Submit(q)
	case key.Matches(msg, m.keys.Back, m.keys.Suggestions):
		m.chips.Blur()
		m.input.Focus()
		return m, nil
	}

	// Anything else goes back to typing.
	m.chips.Blur()
	m.input.Focus()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.layout()
	return m, cmd
}

func (m *Model) openContact() {
	if strings.TrimSpace(m.contact.Markdown) == "" {
		m.status.SetNotice("No contact details configured", true)
		return
	}
	m.prevState = m.state
	m.state = StateContact
}

func (m Model) copyLastReply() (tea.Model, tea.Cmd) {
	last := m.transcript.Last(model.SenderBot)
	if last == nil {
		m.status.SetNotice("No reply to copy yet", true)
		return m, nil
	}
	return m, copyCmd(markdown.PlainText(last.RenderedHTML))
}
