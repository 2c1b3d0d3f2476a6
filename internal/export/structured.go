// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter writes the complete transcript as indented JSON.
type JSONExporter struct{}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a transcript to JSON.
func (e *JSONExporter) Export(tr *Transcript) ([]byte, error) {
	if err := tr.validate(); err != nil {
		return nil, err
	}
	out := *tr
	out.ExportedAt = tr.exportedAt()
	return json.MarshalIndent(&out, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}

// =============================================================================
// YAML EXPORTER
// =============================================================================

// YAMLExporter writes the transcript as YAML.
type YAMLExporter struct{}

// NewYAMLExporter creates a YAML exporter.
func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

type yamlMessage struct {
	Sender    string  `yaml:"sender,omitempty"`
	Message   string  `yaml:"message,omitempty"`
	Type      string  `yaml:"type"`
	Timestamp string  `yaml:"timestamp,omitempty"`
	Filename  string  `yaml:"filename,omitempty"`
	SizeKB    float64 `yaml:"size_kb,omitempty"`
}

type yamlTranscript struct {
	Session    map[string]any `yaml:"session"`
	BotName    string         `yaml:"bot_name,omitempty"`
	Summary    string         `yaml:"summary,omitempty"`
	ExportedAt string         `yaml:"exported_at"`
	Messages   []yamlMessage  `yaml:"messages"`
}

// Export converts a transcript to YAML.
func (e *YAMLExporter) Export(tr *Transcript) ([]byte, error) {
	if err := tr.validate(); err != nil {
		return nil, err
	}

	doc := yamlTranscript{
		Session: map[string]any{
			"session_id":     tr.Session.SessionID,
			"start_time":     tr.Session.StartTime,
			"duration":       tr.Session.Duration,
			"total_messages": tr.Session.TotalMessages,
			"user_messages":  tr.Session.UserMessages,
			"bot_messages":   tr.Session.BotMessages,
		},
		BotName:    tr.BotName,
		Summary:    tr.Summary,
		ExportedAt: tr.exportedAt().Format("2006-01-02T15:04:05Z07:00"),
		Messages:   make([]yamlMessage, 0, len(tr.Messages)),
	}
	for _, m := range tr.Messages {
		ym := yamlMessage{
			Sender:   m.Sender,
			Message:  m.Message,
			Type:     string(m.Type),
			Filename: m.Filename,
			SizeKB:   m.SizeKB,
		}
		if !m.Timestamp.IsZero() {
			ym.Timestamp = m.Timestamp.Format("2006-01-02T15:04:05Z07:00")
		}
		doc.Messages = append(doc.Messages, ym)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileExtension returns the file extension for YAML.
func (e *YAMLExporter) FileExtension() string {
	return ".yaml"
}

// MimeType returns the MIME type for YAML.
func (e *YAMLExporter) MimeType() string {
	return "application/yaml"
}
