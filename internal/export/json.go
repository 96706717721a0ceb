// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/supportchat/internal/api"
)

// JSONExporter exports history as JSON in the same shape the server's
// history endpoint returns.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

type jsonDocument struct {
	History
	Exported *time.Time `json:"exported,omitempty"`
}

// Export converts h to indented JSON. Empty histories are allowed.
func (e *JSONExporter) Export(h History) ([]byte, error) {
	doc := jsonDocument{History: h}
	if doc.Chats == nil {
		doc.Chats = []api.HistoryEntry{}
	}
	if e.options.IncludeMetadata {
		now := e.options.now()
		doc.Exported = &now
	}
	return json.MarshalIndent(doc, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}
