// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/chatbuddy/internal/storage"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown format.
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

// Export converts a transcript to Markdown format.
func (e *MarkdownExporter) Export(tr *Transcript) ([]byte, error) {
	if err := tr.validate(); err != nil {
		return nil, err
	}
	exported := tr.exportedAt()

	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		fmt.Fprintf(&sb, "session: %s\n", escapeYAML(tr.Session.SessionID))
		if tr.Session.StartTime != "" {
			fmt.Fprintf(&sb, "started: %s\n", escapeYAML(tr.Session.StartTime))
		}
		fmt.Fprintf(&sb, "messages: %d\n", len(tr.Messages))
		fmt.Fprintf(&sb, "exported: %s\n", exported.Format(time.RFC3339))
		sb.WriteString("generator: chatbuddy\n")
		sb.WriteString("---\n\n")
	}

	fmt.Fprintf(&sb, "# Chat Export %s\n\n", escapeMarkdown(tr.Session.SessionID))

	if e.options.IncludeMetadata {
		sb.WriteString("## Session Information\n\n")
		fmt.Fprintf(&sb, "- **Duration**: %s\n", tr.Session.Duration)
		fmt.Fprintf(&sb, "- **Messages**: %d (you %d, bot %d)\n",
			tr.Session.TotalMessages, tr.Session.UserMessages, tr.Session.BotMessages)
		if tr.Summary != "" {
			fmt.Fprintf(&sb, "- **Summary**: %s\n", escapeMarkdown(tr.Summary))
		}
		sb.WriteString("\n---\n\n")
	}

	sb.WriteString("## Conversation\n\n")
	for _, msg := range tr.Messages {
		sb.WriteString(e.formatMessage(msg))
	}

	sb.WriteString("\n---\n\n")
	fmt.Fprintf(&sb, "*Exported from chatbuddy on %s*\n", exported.Format("January 2, 2006 at 3:04 PM"))

	return []byte(sb.String()), nil
}

func (e *MarkdownExporter) formatMessage(msg storage.Message) string {
	if msg.IsAttachment() {
		return fmt.Sprintf("> 📎 **Attachment**: `%s` (%.1f KB)\n\n", msg.Filename, msg.SizeKB)
	}

	label := "**" + escapeMarkdown(senderOf(msg)) + "**"
	if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
		label += " <sub>" + msg.Timestamp.Format("15:04:05") + "</sub>"
	}

	body := strings.TrimSpace(msg.Message)
	switch msg.Type {
	case storage.TypeSystem:
		return fmt.Sprintf("_%s: %s_\n\n", senderOf(msg), body)
	case storage.TypeError:
		return fmt.Sprintf("> **Error**: %s\n\n", body)
	default:
		return fmt.Sprintf("%s\n\n%s\n\n", label, body)
	}
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML quotes frontmatter values that YAML would misread.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
