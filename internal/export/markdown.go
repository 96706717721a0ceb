// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports history to Markdown. Bot replies are written
// unchanged, so their **bold** markers stay Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts h to Markdown.
func (e *MarkdownExporter) Export(h History) ([]byte, error) {
	if err := validate(h); err != nil {
		return nil, err
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		fmt.Fprintf(&sb, "user: %s\n", escapeYAML(h.UserID))
		fmt.Fprintf(&sb, "chats: %d\n", len(h.Chats))
		fmt.Fprintf(&sb, "exported: %s\n", e.options.now().Format(time.RFC3339))
		sb.WriteString("---\n\n")
	}

	sb.WriteString("# Support Chat History\n\n")

	for i, c := range h.Chats {
		if e.options.IncludeTimestamps && !c.Timestamp.IsZero() {
			fmt.Fprintf(&sb, "## %s\n\n", formatTimestamp(c.Timestamp))
		}
		sb.WriteString("**You:**\n\n")
		sb.WriteString(quote(c.UserMessage))
		sb.WriteString("\n\n**Support:**\n\n")
		sb.WriteString(c.BotResponse)
		sb.WriteString("\n")

		if i < len(h.Chats)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// quote renders s as a Markdown block quote.
func quote(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}

// escapeYAML quotes s when it would not survive as a plain YAML scalar.
func escapeYAML(s string) string {
	if s == "" || strings.ContainsAny(s, ":#\"'\n\\{}[]") {
		r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
		return `"` + r.Replace(s) + `"`
	}
	return s
}
