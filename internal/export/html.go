// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/jeranaias/chatbuddy/internal/storage"
	"github.com/jeranaias/chatbuddy/internal/ui/styles"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter exports transcripts to a standalone HTML page styled with
// the selected theme palette.
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

// Export converts a transcript to HTML format.
func (e *HTMLExporter) Export(tr *Transcript) ([]byte, error) {
	if err := tr.validate(); err != nil {
		return nil, err
	}
	title := "Chat Export " + tr.Session.SessionID

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	sb.WriteString("<html lang=\"en\">\n")
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", html.EscapeString(title))
	sb.WriteString("    <meta name=\"generator\" content=\"chatbuddy\">\n")
	sb.WriteString(e.css(styles.PaletteFor(e.options.Theme)))
	sb.WriteString("</head>\n")
	sb.WriteString("<body>\n")
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString("        <header class=\"header\">\n")
		fmt.Fprintf(&sb, "            <h1>%s</h1>\n", html.EscapeString(title))
		fmt.Fprintf(&sb, "            <p>Started %s &middot; %s &middot; %d messages</p>\n",
			html.EscapeString(tr.Session.StartTime), html.EscapeString(tr.Session.Duration), len(tr.Messages))
		if tr.Summary != "" {
			fmt.Fprintf(&sb, "            <p>%s</p>\n", html.EscapeString(tr.Summary))
		}
		sb.WriteString("        </header>\n")
	}

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range tr.Messages {
		sb.WriteString(e.renderMessage(msg))
	}
	sb.WriteString("        </main>\n")

	fmt.Fprintf(&sb, "        <footer class=\"footer\">Exported from <strong>chatbuddy</strong> on %s</footer>\n",
		tr.exportedAt().Format("January 2, 2006 at 3:04 PM"))
	sb.WriteString("    </div>\n")
	sb.WriteString("</body>\n")
	sb.WriteString("</html>\n")

	return []byte(sb.String()), nil
}

// renderMessage renders a single message.
func (e *HTMLExporter) renderMessage(msg storage.Message) string {
	if msg.IsAttachment() {
		return fmt.Sprintf("            <div class=\"message attachment\">[ATTACHMENT] %s (%.1f KB)</div>\n",
			html.EscapeString(msg.Filename), msg.SizeKB)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "            <div class=\"message %s\">\n", msg.Type)
	sb.WriteString("                <div class=\"message-header\">")
	fmt.Fprintf(&sb, "<span class=\"sender\">%s</span>", html.EscapeString(senderOf(msg)))
	if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
		fmt.Fprintf(&sb, " <span class=\"timestamp\">%s</span>", msg.Timestamp.Format("15:04:05"))
	}
	sb.WriteString("</div>\n")

	body := html.EscapeString(msg.Message)
	body = strings.ReplaceAll(body, "\n", "<br>\n")
	fmt.Fprintf(&sb, "                <div class=\"message-content\">%s</div>\n", body)
	sb.WriteString("            </div>\n")
	return sb.String()
}

// css renders the embedded stylesheet from a palette.
func (e *HTMLExporter) css(p styles.Palette) string {
	return fmt.Sprintf(`    <style>
        :root {
            --bg: %s; --fg: %s;
            --user-bg: %s; --user-fg: %s;
            --bot-bg: %s; --bot-fg: %s;
        }
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
            line-height: 1.5; background: var(--bg); color: var(--fg); padding: 20px;
        }
        .container { max-width: 800px; margin: 0 auto; }
        .header { padding: 16px 0; border-bottom: 2px solid var(--user-bg); margin-bottom: 16px; }
        .header h1 { font-size: 24px; }
        .message { margin: 8px 0; padding: 8px 12px; border-radius: 8px; max-width: 80%%; }
        .message.user { background: var(--user-bg); color: var(--user-fg); margin-left: auto; }
        .message.bot { background: var(--bot-bg); color: var(--bot-fg); }
        .message.system { font-style: italic; opacity: 0.8; max-width: 100%%; }
        .message.error { color: #E11D48; font-weight: bold; max-width: 100%%; }
        .message.attachment { font-family: monospace; max-width: 100%%; }
        .message-header { font-size: 12px; opacity: 0.8; }
        .sender { font-weight: bold; }
        .footer { margin-top: 24px; font-size: 12px; opacity: 0.7; }
    </style>
`, p.Bg, p.Fg, p.UserBg, p.UserFg, p.BotBg, p.BotFg)
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}
