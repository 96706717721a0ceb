// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes stored chat history to shareable documents.
//
// Three formats are supported: Markdown for reading, JSON for tooling and a
// standalone HTML page. Bot replies keep their bold text in every format;
// the HTML page renders it with the same transform the chat view uses.
//
// # Key Types
//
//   - History: the exchanges of one user
//   - Exporter: one output format
//   - Options: what to include in the document
//
// # Usage
//
//	exp, err := export.ForFormat("md", export.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	path, err := export.ToFile(history, exp, "transcripts")
package export
