// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export.go - Export a saved session from the history log.
//
// Usage: chatbuddy export SESSION_ID [options]
//
// Options:
//
//	--format FORMAT   text, markdown, html, json or yaml (default: text)
//	--out PATH        Output file, or a directory for a generated name
//	--open            Open the file after export
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatbuddy/internal/export"
	"github.com/jeranaias/chatbuddy/internal/session"
	"github.com/jeranaias/chatbuddy/internal/storage"
	"github.com/jeranaias/chatbuddy/internal/util"
)

var exportCmd = &cobra.Command{
	Use:   "export SESSION_ID",
	Short: "Export a saved session",
	Long:  "Export a session from the chat history log. Formats: " + strings.Join(export.Formats, ", ") + ".",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")
		open, _ := cmd.Flags().GetBool("open")

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		rec, err := getRecord(cmd, app, args[0])
		if err != nil {
			return &CommandError{Command: "export", Err: err}
		}

		opts := export.DefaultOptions()
		opts.Theme = app.Config.UI.Theme
		opts.IncludeTimestamps = app.Config.UI.ShowTimestamps
		opts.OpenAfterExport = open

		exporter, err := export.ForFormat(format, opts)
		if err != nil {
			return &UsageError{Field: "--format", Value: format, Reason: err.Error()}
		}

		path, err := exportRecord(rec, app.Config.Chat.BotName, exporter, opts, out)
		if err != nil {
			return &CommandError{Command: "export", Err: err}
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Chat exported to:", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", export.FormatText, "Export format: "+strings.Join(export.Formats, ", "))
	exportCmd.Flags().StringP("out", "o", "", "Output file or directory (default: current directory)")
	exportCmd.Flags().Bool("open", false, "Open the exported file")
	RootCmd.AddCommand(exportCmd)
}

// exportRecord writes rec with exporter. An out path that is an existing
// directory, or empty, gets a generated file name.
func exportRecord(rec *storage.Record, botName string, exporter export.Exporter, opts *export.Options, out string) (string, error) {
	tr := transcriptFromRecord(rec, botName)

	if out == "" {
		return export.ExportToFile(tr, exporter, opts)
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		opts.OutputDir = out
		return export.ExportToFile(tr, exporter, opts)
	}

	content, err := exporter.Export(tr)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}
	if err := util.AtomicWriteFile(out, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return out, nil
}

// transcriptFromRecord rebuilds the session header for a saved record
// from its messages. Response times are not stored, so the average is
// reported as n/a.
func transcriptFromRecord(rec *storage.Record, botName string) *export.Transcript {
	stats := session.Stats{
		SessionID:       rec.SessionID,
		Duration:        util.FormatClock(0),
		AvgResponseTime: "n/a",
	}

	var first, last time.Time
	for _, m := range rec.Messages {
		switch m.Type {
		case storage.TypeUser:
			stats.UserMessages++
		case storage.TypeBot:
			stats.BotMessages++
		}
		if m.Timestamp.IsZero() {
			continue
		}
		if first.IsZero() {
			first = m.Timestamp.Time
		}
		last = m.Timestamp.Time
	}
	stats.TotalMessages = stats.UserMessages + stats.BotMessages
	if !first.IsZero() {
		stats.StartTime = first.Format("2006-01-02 15:04:05")
		stats.Duration = util.FormatClock(last.Sub(first))
	}

	exportedAt := time.Now()
	if !rec.Timestamp.IsZero() {
		exportedAt = rec.Timestamp.Time
	}
	return &export.Transcript{
		Session:    stats,
		BotName:    botName,
		Messages:   append([]storage.Message(nil), rec.Messages...),
		ExportedAt: exportedAt,
	}
}
