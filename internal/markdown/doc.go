// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown converts chat text to the HTML fragments shown in message
// bubbles and renders those fragments back to terminal text.
//
// Only two markdown rules exist: **bold** spans and line breaks. Anything else
// in a reply passes through untouched.
//
// # Key Types
//
//   - TerminalWriter: Incremental HTML fragment renderer for terminals
//   - Styler: Function applied to text inside <strong> or <b>
//
// # Usage
//
//	html := markdown.ToHTML("**Hi** there")
//	// html == "<strong>Hi</strong> there"
//
//	w := markdown.NewTerminalWriter(boldStyle.Render)
//	w.Write(html)
//	fmt.Println(w.String())
package markdown
