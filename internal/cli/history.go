// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history.go - Browse and clear the chat history log.
//
// Usage:
//
//	chatbuddy history list             List saved sessions, newest last
//	chatbuddy history show SESSION_ID  Print one session (--markdown to render)
//	chatbuddy history clear            Delete every saved session (--yes required when piped)
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/chatbuddy/internal/config"
	"github.com/jeranaias/chatbuddy/internal/export"
	"github.com/jeranaias/chatbuddy/internal/storage"
	"github.com/jeranaias/chatbuddy/internal/ui/styles"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse the chat history log",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		records, err := listRecords(cmd, app)
		if err != nil {
			return &CommandError{Command: "history", Action: "list", Err: err}
		}
		if limit > 0 && len(records) > limit {
			records = records[len(records)-limit:]
		}
		fmt.Fprint(cmd.OutOrStdout(), storage.FormatListing(records, time.Now(), TerminalWidth()))
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show SESSION_ID",
	Short: "Print one saved session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		markdown, _ := cmd.Flags().GetBool("markdown")

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		rec, err := getRecord(cmd, app, args[0])
		if err != nil {
			return &CommandError{Command: "history", Action: "show", Err: err}
		}

		tr := transcriptFromRecord(rec, app.Config.Chat.BotName)
		out := cmd.OutOrStdout()
		if !markdown {
			content, err := export.NewTextExporter().Export(tr)
			if err != nil {
				return &CommandError{Command: "history", Action: "show", Err: err}
			}
			fmt.Fprint(out, string(content))
			return nil
		}

		opts := export.DefaultOptions()
		opts.IncludeTimestamps = app.Config.UI.ShowTimestamps
		content, err := export.NewMarkdownExporter(opts).Export(tr)
		if err != nil {
			return &CommandError{Command: "history", Action: "show", Err: err}
		}
		// Piped output stays plain Markdown.
		if !IsStdoutTTY() {
			fmt.Fprint(out, string(content))
			return nil
		}
		dark := strings.EqualFold(app.Config.UI.Theme, config.ThemeDark)
		fmt.Fprintln(out, styles.RenderMarkdown(string(content), TerminalWidth(), dark))
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if app.History == nil {
			return &CommandError{Command: "history", Action: "clear", Err: errHistoryDisabled}
		}
		if !yes {
			if !IsTerminal(cmd.InOrStdin()) {
				return &UsageError{Field: "--yes", Reason: "required when stdin is not a terminal"}
			}
			if !confirm(cmd, "Clear all chat history?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
		}

		if err := app.History.Clear(cmd.Context()); err != nil {
			return &CommandError{Command: "history", Action: "clear", Err: err}
		}
		fmt.Fprintln(cmd.OutOrStdout(), styles.RenderSuccess("Chat history cleared."))
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 0, "Show only the newest N sessions")
	historyShowCmd.Flags().Bool("markdown", false, "Render the session as Markdown")
	historyClearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyClearCmd)
	RootCmd.AddCommand(historyCmd)
}

var errHistoryDisabled = errors.New("chat history is disabled (history.enabled = false)")

// listRecords returns every record, or none when history is disabled.
func listRecords(cmd *cobra.Command, app *App) ([]storage.Record, error) {
	if app.History == nil {
		return nil, nil
	}
	return app.History.List(cmd.Context())
}

// getRecord looks up a record by ID.
func getRecord(cmd *cobra.Command, app *App, id string) (*storage.Record, error) {
	if app.History == nil {
		return nil, errHistoryDisabled
	}
	rec, err := app.History.Get(cmd.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	return rec, nil
}

// confirm asks a yes/no question on the command's input.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	reader := bufio.NewReader(cmd.InOrStdin())
	answer, err := reader.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
