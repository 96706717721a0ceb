// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/jeranaias/supportchat/internal/markdown"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports history to a self-contained HTML page styled like
// the chat widget.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts h to HTML. Both sides are escaped before the bold and
// line break transform runs, so stored text cannot inject markup.
func (e *HTMLExporter) Export(h History) ([]byte, error) {
	if err := validate(h); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"UTF-8\">\n")
	sb.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString("<title>Support Chat History</title>\n")
	sb.WriteString("<style>\n")
	sb.WriteString(htmlStyles)
	sb.WriteString("</style>\n</head>\n<body>\n<div class=\"chat\">\n")

	if e.options.IncludeMetadata {
		fmt.Fprintf(&sb, "<header><h1>Support Chat History</h1><p class=\"meta\">%s &middot; %d chats &middot; exported %s</p></header>\n",
			html.EscapeString(h.UserID), len(h.Chats), formatTimestamp(e.options.now()))
	}

	for _, c := range h.Chats {
		if e.options.IncludeTimestamps && !c.Timestamp.IsZero() {
			fmt.Fprintf(&sb, "<div class=\"time\">%s</div>\n", formatTimestamp(c.Timestamp))
		}
		fmt.Fprintf(&sb, "<div class=\"message user-message\">%s</div>\n", renderText(c.UserMessage))
		fmt.Fprintf(&sb, "<div class=\"message bot-message\">%s</div>\n", renderText(c.BotResponse))
	}

	sb.WriteString("</div>\n</body>\n</html>\n")
	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

func renderText(s string) string {
	return markdown.ToHTML(html.EscapeString(s))
}

const htmlStyles = `body { font-family: -apple-system, "Segoe UI", sans-serif; background: #f5f5f5; margin: 0; }
.chat { max-width: 640px; margin: 2rem auto; display: flex; flex-direction: column; gap: 8px; }
header h1 { font-size: 1.25rem; margin: 0; }
.meta, .time { color: #777; font-size: 0.8rem; }
.time { align-self: center; }
.message { padding: 10px 14px; border-radius: 12px; max-width: 80%; line-height: 1.4; }
.user-message { align-self: flex-end; background: #0066cc; color: #fff; }
.bot-message { align-self: flex-start; background: #fff; color: #222; }
`
