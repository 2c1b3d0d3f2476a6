// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the chatbuddy command tree.
//
// Running chatbuddy with no subcommand opens the full-screen chat when
// attached to a terminal and the line REPL otherwise.
//
// Commands:
//
//	chatbuddy                     Chat (TUI, or REPL when not a terminal)
//	chatbuddy chat                Chat in the line REPL
//	chatbuddy history list        List saved sessions
//	chatbuddy history show ID     Print one saved session
//	chatbuddy history clear       Delete the history log
//	chatbuddy export ID           Export a saved session
//	chatbuddy config get KEY      Print a config value
//	chatbuddy config set KEY VAL  Change a config value
//	chatbuddy config init         Write the default config and lexicon
//	chatbuddy config path         Print the config file location
//	chatbuddy version             Print version information
//
// Global flags:
//
//	--home DIR        Config directory (default: $CHATBUDDY_HOME or ~/.chatbuddy)
//	--config FILE     Config file (default: DIR/config.toml)
//	--theme NAME      Theme for this run (Light, Dark, Blue)
//	--log-level LVL   Log level for this run
package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatbuddy/internal/ui/chat"
	"github.com/jeranaias/chatbuddy/internal/ui/styles"
)

var (
	homeFlag     string
	configFlag   string
	themeFlag    string
	logLevelFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "chatbuddy",
	Short: "A friendly terminal chat companion",
	Long: "ChatBuddy Pro is a rule-based chat companion with sentiment analysis,\n" +
		"conversation memory, chat history and transcript export.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		if !Interactive() {
			return runREPL(cmd.Context(), app, cmd.InOrStdin(), cmd.OutOrStdout())
		}
		return runTUI(cmd.Context(), app)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "Config directory (default: $CHATBUDDY_HOME or ~/.chatbuddy)")
	RootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default: <home>/config.toml)")
	RootCmd.PersistentFlags().StringVar(&themeFlag, "theme", "", "Theme for this run: Light, Dark or Blue")
	RootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level for this run")
}

// Execute runs the command tree and exits with the mapped exit code on
// failure.
func Execute() {
	if err := RootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, styles.RenderError(err.Error()))
		os.Exit(ExitCode(err))
	}
}

// =============================================================================
// TUI
// =============================================================================

// runTUI runs the full-screen chat until the user quits.
func runTUI(ctx context.Context, app *App) error {
	ctrl := app.Controller()
	defer ctrl.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The TUI still works without live reload.
	updates, err := chat.WatchConfig(ctx, app.Paths.Config)
	if err != nil {
		app.Logger.WithError(err).Warn("Config watch unavailable")
	}

	model := chat.New(chat.Options{
		Controller:    ctrl,
		Theme:         styles.NewTheme(app.Config.UI.Theme, app.Config.UI.FontSize),
		ConfigUpdates: updates,
		Notices:       app.Notices,
	})

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run chat: %w", err)
	}
	return nil
}
