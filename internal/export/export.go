// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jeranaias/chatbuddy/internal/session"
	"github.com/jeranaias/chatbuddy/internal/storage"
	"github.com/jeranaias/chatbuddy/internal/util"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is everything an exporter needs about one chat.
type Transcript struct {
	Session    session.Stats     `json:"session" yaml:"session"`
	BotName    string            `json:"bot_name" yaml:"bot_name"`
	Summary    string            `json:"summary" yaml:"summary"`
	Messages   []storage.Message `json:"messages" yaml:"messages"`
	ExportedAt time.Time         `json:"exported_at" yaml:"exported_at"`
}

func (t *Transcript) validate() error {
	if t == nil {
		return fmt.Errorf("transcript is nil")
	}
	if len(t.Messages) == 0 {
		return storage.ErrNoMessages
	}
	return nil
}

func (t *Transcript) exportedAt() time.Time {
	if t.ExportedAt.IsZero() {
		return time.Now()
	}
	return t.ExportedAt
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for transcript exporters.
type Exporter interface {
	// Export converts a transcript to the target format and returns the content.
	Export(tr *Transcript) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md", ".txt").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// Format names accepted by ForFormat.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// Formats lists every supported format name.
var Formats = []string{FormatText, FormatMarkdown, FormatHTML, FormatJSON, FormatYAML}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory used by ExportToFile.
	// Default: current working directory
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// IncludeMetadata adds a session header to Markdown and HTML.
	IncludeMetadata bool

	// IncludeTimestamps adds per-message times to Markdown and HTML.
	IncludeTimestamps bool

	// Theme picks the HTML palette (Light, Dark or Blue).
	Theme string
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		IncludeMetadata:   true,
		IncludeTimestamps: true,
		Theme:             "Light",
	}
}

// ForFormat returns the exporter for a format name.
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatText, "txt", "":
		return NewTextExporter(), nil
	case FormatMarkdown, "md":
		return NewMarkdownExporter(opts), nil
	case FormatHTML, "htm":
		return NewHTMLExporter(opts), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatYAML, "yml":
		return NewYAMLExporter(), nil
	default:
		return nil, fmt.Errorf("unknown export format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// ForPath picks the exporter from the file extension. Unknown extensions
// get the plain text format.
func ForPath(path string, opts *Options) Exporter {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if exp, err := ForFormat(ext, opts); err == nil {
		return exp
	}
	return NewTextExporter()
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// WriteFile exports tr to path, choosing the format from its extension.
func WriteFile(path string, tr *Transcript, opts *Options) error {
	content, err := ForPath(path, opts).Export(tr)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if err := util.AtomicWriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// ExportToFile exports tr into opts.OutputDir under a generated name.
// Returns the output file path or an error.
func ExportToFile(tr *Transcript, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	content, err := exporter.Export(tr)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	filename := fmt.Sprintf("chat_%s_%s%s",
		sanitizeFilename(tr.Session.SessionID),
		tr.exportedAt().Format("20060102_150405"),
		exporter.FileExtension(),
	)
	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	if opts.OpenAfterExport {
		if err := openFile(outputPath); err != nil {
			return outputPath, fmt.Errorf("open %s: %w", outputPath, err)
		}
	}
	return outputPath, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	s = util.TruncateRunes(s, 50)

	var b strings.Builder
	for _, r := range s {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteRune('_')
		case r < 32 || r == 127:
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "session"
	}
	return b.String()
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// senderOf returns the display sender, defaulting to System.
func senderOf(m storage.Message) string {
	if m.Sender == "" {
		return storage.SenderSystem
	}
	return m.Sender
}
