// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"regexp"
	"strings"
)

// boldPattern matches the shortest **...** span on a single line.
var boldPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)

// ToHTML wraps every **text** span in <strong> and then turns each newline
// into <br>. The bold rule runs first so a span never crosses a line.
func ToHTML(text string) string {
	html := boldPattern.ReplaceAllString(text, "<strong>$1</strong>")
	return strings.ReplaceAll(html, "\n", "<br>")
}
