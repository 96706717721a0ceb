// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the supportchat command line.
//
// The root command loads the configuration once, sets up logging and hands
// the result to its subcommands. Commands write to the cobra output
// streams so they can be exercised from tests.
//
// # Key Types
//
//   - Options: global flags and the loaded configuration
//   - LogSettings: logger level, format and file
//
// # Usage
//
//	if err := cli.Execute(); err != nil {
//	    os.Exit(1)
//	}
//
// # Commands Overview
//
//   - serve: run the chat proxy server
//   - chat: interactive conversation (terminal UI, or --plain line mode)
//   - ask: one question, reply typed to stdout
//   - history: chat history stored by the server, or exported as md, json or html
//   - status: server health
//   - models: Gemini models usable for chat
//   - config: show or initialise the configuration file
//   - version: build information
package cli
