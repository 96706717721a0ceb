// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the conversation view of the support chat client.

The view is a Bubble Tea model. It owns the transcript, the input box and the
row of suggested questions, sends questions to the chat server and renders
both sides of the conversation. All transcript changes happen inside Update;
network calls run as commands and report back as messages.

# Key Components

## Model (model.go)

The Model holds the transcript, the reveal state of every animating reply,
the input box, the viewport and the welcome and contact panels. It is built
once from Deps and never looks anything up globally.

## Submit Flow (update.go)

Submit appends the user's message and a pending placeholder, then returns a
command that posts the text to the server. The result arrives as a
ChatResultMsg:
  - a reply is revealed with the typewriter, one step per TypeTickMsg
  - an application error is shown at once as "Error: <text>"
  - a transport failure is logged and replaced by ApologyText

The placeholder is always removed before the bot message is added.

## Typewriter (update.go)

Each animating reply has its own typewriter.Reveal keyed by entry ID. Ticks
carry that ID, so several replies can animate at the same time without
touching each other's entries.

## View Rendering (view.go)

Header, transcript viewport, suggestion chips, input box and status bar,
stacked vertically. The welcome and contact screens replace the transcript
with a markdown panel.

# Key Types

  - Model: the Bubble Tea model
  - Deps: collaborators injected at construction
  - ChatClient: what the view needs from the API client
  - State: welcome, chat or contact screen

# Usage

	client := api.NewClient(cfg.UI.ServerURL)
	m := chat.New(chat.Deps{
	    Client:    client,
	    Theme:     styles.NewTheme(),
	    TypeDelay: typewriter.DefaultDelay,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
*/
package chat
