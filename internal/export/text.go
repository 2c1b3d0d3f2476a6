// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
)

// =============================================================================
// TEXT EXPORTER
// =============================================================================

// TextExporter writes the plain transcript format:
//
//	==================================================
//	CHAT EXPORT - 2025-03-01 12:00:00
//	==================================================
//
//	[09:30] You: hello
//	[ATTACHMENT] notes.txt (1.5 KB)
type TextExporter struct{}

// NewTextExporter creates a plain text exporter.
func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

// Export converts a transcript to plain text.
func (e *TextExporter) Export(tr *Transcript) ([]byte, error) {
	if err := tr.validate(); err != nil {
		return nil, err
	}

	rule := strings.Repeat("=", 50)
	var sb strings.Builder
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "CHAT EXPORT - %s\n", tr.exportedAt().Format("2006-01-02 15:04:05"))
	sb.WriteString(rule + "\n\n")

	for _, msg := range tr.Messages {
		if msg.IsAttachment() {
			fmt.Fprintf(&sb, "[ATTACHMENT] %s (%.1f KB)\n", msg.Filename, msg.SizeKB)
			continue
		}
		clock := ""
		if !msg.Timestamp.IsZero() {
			clock = msg.Timestamp.Format("15:04")
		}
		fmt.Fprintf(&sb, "[%s] %s: %s\n", clock, senderOf(msg), msg.Message)
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for text.
func (e *TextExporter) FileExtension() string {
	return ".txt"
}

// MimeType returns the MIME type for text.
func (e *TextExporter) MimeType() string {
	return "text/plain"
}
