// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/jeranaias/supportchat/internal/model"
	"github.com/jeranaias/supportchat/internal/typewriter"
	"github.com/jeranaias/supportchat/internal/ui/components"
	"github.com/jeranaias/supportchat/internal/ui/styles"
)

// ApologyText replaces the reply when the server could not be reached or
// answered with something unreadable.
const ApologyText = "Sorry, something went wrong. Please try again."

const (
	defaultWidth  = 80
	defaultHeight = 24

	// maxInputLines is how tall the input box grows before it scrolls.
	maxInputLines = 6

	maxPanelWidth = 80
)

var errNoClient = errors.New("no chat client configured")

// =============================================================================
// STATE
// =============================================================================

// State is the screen the view is showing.
type State int

const (
	StateWelcome State = iota
	StateChat
	StateContact
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateWelcome:
		return "welcome"
	case StateChat:
		return "chat"
	case StateContact:
		return "contact"
	default:
		return "unknown"
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Deps are the collaborators of the view.
type Deps struct {
	// Client talks to the chat server.
	Client ChatClient

	// Theme styles the view. A nil theme is detected from the terminal.
	Theme *styles.Theme

	// TypeDelay is the pause between typewriter steps. Zero reveals without
	// pausing; a negative value selects typewriter.DefaultDelay.
	TypeDelay time.Duration

	// Welcome and Contact are markdown documents. An empty welcome skips the
	// welcome screen.
	Welcome string
	Contact string

	SkipWelcome bool

	// ServerURL is shown in the header.
	ServerURL string
}

// Model is the Bubble Tea model of the conversation view.
type Model struct {
	client    ChatClient
	theme     *styles.Theme
	keys      KeyMap
	typeDelay time.Duration

	state     State
	prevState State

	// Conversation
	transcript *model.Transcript
	reveals    map[string]*typewriter.Reveal

	// Widgets
	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	header  *components.Header
	chips   *components.Chips
	welcome *components.Panel
	contact *components.Panel
	status  *components.StatusBar

	width  int
	height int
}

// New creates the view. Its size is 80x24 until the first WindowSizeMsg.
func New(deps Deps) Model {
	theme := deps.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	delay := deps.TypeDelay
	if delay < 0 {
		delay = typewriter.DefaultDelay
	}

	keys := DefaultKeyMap()
	m := Model{
		client:     deps.Client,
		theme:      theme,
		keys:       keys,
		typeDelay:  delay,
		state:      StateWelcome,
		transcript: model.NewTranscript(theme.BoldStyler()),
		reveals:    make(map[string]*typewriter.Reveal),
		input:      newInput(theme, keys),
		viewport:   viewport.New(defaultWidth, defaultHeight),
		spinner: spinner.New(
			spinner.WithSpinner(styles.DotsSpinner.Spinner()),
			spinner.WithStyle(theme.Spinner),
		),
		header:  components.NewHeader(theme),
		chips:   components.NewChips(theme),
		welcome: components.NewPanel(deps.Welcome, theme),
		contact: components.NewPanel(deps.Contact, theme),
		status:  components.NewStatusBar(theme),
	}
	m.header.SetSubtitle(deps.ServerURL)
	if deps.SkipWelcome || deps.Welcome == "" {
		m.state = StateChat
	}
	m.resize(defaultWidth, defaultHeight)
	return m
}

// newInput builds the input box. The cursor does not blink, so the view
// never has a timer running while it is idle.
func newInput(theme *styles.Theme, keys KeyMap) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Type your question..."
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.FocusedStyle.Prompt = theme.InputPrompt
	ta.FocusedStyle.Placeholder = theme.InputPlaceholder
	ta.BlurredStyle.Prompt = theme.InputPrompt
	ta.BlurredStyle.Placeholder = theme.InputPlaceholder
	ta.KeyMap.InsertNewline.SetKeys(keys.Newline.Keys()...)
	ta.Cursor.SetMode(cursor.CursorStatic)
	ta.SetHeight(1)
	ta.Focus()
	return ta
}

// Init loads the suggestions right away when the welcome screen is skipped.
func (m Model) Init() tea.Cmd {
	if m.state == StateChat {
		return m.LoadRecommendations()
	}
	return nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the screen being shown.
func (m Model) State() State {
	return m.state
}

// Transcript returns the conversation so far.
func (m Model) Transcript() *model.Transcript {
	return m.transcript
}

// Suggestions returns the suggested questions in display order.
func (m Model) Suggestions() []string {
	return append([]string(nil), m.chips.Questions...)
}

// InputValue returns the text in the input box.
func (m Model) InputValue() string {
	return m.input.Value()
}

// SetInputValue replaces the text in the input box.
func (m *Model) SetInputValue(s string) {
	m.input.SetValue(s)
	m.layout()
}

// Animating returns how many replies are still being revealed.
func (m Model) Animating() int {
	return len(m.reveals)
}

// Notice returns the status bar notice, if any.
func (m Model) Notice() string {
	return m.status.Notice
}

// =============================================================================
// LAYOUT
// =============================================================================

// resize applies a new terminal size to every widget.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.theme.SetSize(width, height)

	m.header.SetWidth(width)
	m.chips.Width = width
	m.status.SetWidth(width)

	panelWidth := min(width-4, maxPanelWidth)
	m.welcome.SetWidth(panelWidth)
	m.contact.SetWidth(panelWidth)

	m.input.SetWidth(max(width-m.theme.InputContainer.GetHorizontalFrameSize(), 10))
	m.viewport.Width = width
	m.layout()
	m.refresh()
}

// layout sizes the input box to its content and gives the viewport the
// remaining height.
func (m *Model) layout() {
	m.input.SetHeight(min(max(m.input.LineCount(), 1), maxInputLines))

	used := lipglossHeight(m.header.View()) +
		lipglossHeight(m.chips.View()) +
		lipglossHeight(m.inputView()) +
		lipglossHeight(m.status.View())
	m.viewport.Height = max(m.height-used, 1)
}

// refresh re-renders the transcript and scrolls to the newest entry.
func (m *Model) refresh() {
	m.viewport.SetContent(components.RenderTranscript(
		m.transcript.Entries(),
		m.theme.BubbleWidth(),
		m.spinner.View(),
		m.theme,
	))
	m.viewport.GotoBottom()
}
