// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatbuddy/internal/config"
	"github.com/jeranaias/chatbuddy/internal/storage"
)

// =============================================================================
// HELPERS
// =============================================================================

const fastConfig = `[chat]
typing_min_ms = 1
typing_max_ms = 1

[notifications]
enabled = false
backend = "none"
`

// newHome returns a config directory holding a config that replies
// instantly and never notifies.
func newHome(t *testing.T) string {
	t.Helper()
	for _, key := range []string{config.EnvHome, config.EnvTheme, config.EnvMaxMemory,
		config.EnvHistoryBackend, config.EnvNotifications, config.EnvLogLevel} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	home := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.toml"), []byte(fastConfig), 0600))
	return home
}

// resetFlags restores every flag in the tree to its default so values
// from one Execute do not leak into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// run executes the command tree against home with stdin set to input.
func run(t *testing.T, home, input string, args ...string) (string, error) {
	t.Helper()
	resetFlags(RootCmd)

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetIn(strings.NewReader(input))
	RootCmd.SetArgs(append([]string{"--home", home}, args...))
	t.Cleanup(func() {
		RootCmd.SetIn(nil)
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
	})

	err := RootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func savedRecords(t *testing.T, home string) []storage.Record {
	t.Helper()
	h, err := storage.NewJSONHistory(filepath.Join(home, "chat_history.json"), 0)
	require.NoError(t, err)
	records, err := h.List(context.Background())
	require.NoError(t, err)
	return records
}

// =============================================================================
// VERSION AND CONFIG
// =============================================================================

func TestVersion(t *testing.T) {
	out, err := run(t, newHome(t), "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "chatbuddy "+Version)
	assert.Contains(t, out, "Commit:")
}

func TestConfigPath(t *testing.T) {
	home := newHome(t)
	out, err := run(t, home, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "config.toml"), strings.TrimSpace(out))
}

func TestConfigPath_ConfigFlag(t *testing.T) {
	home := newHome(t)
	custom := filepath.Join(t.TempDir(), "custom.toml")
	out, err := run(t, home, "", "--config", custom, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, custom, strings.TrimSpace(out))
}

func TestConfigInit(t *testing.T) {
	home := t.TempDir()
	newHome(t) // clears env

	out, err := run(t, home, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "config.toml")
	assert.FileExists(t, filepath.Join(home, "config.toml"))
	assert.FileExists(t, filepath.Join(home, "lexicon.toml"))

	_, err = run(t, home, "", "config", "init")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errFileExists))
	assert.Equal(t, ExitConfigError, ExitCode(err))

	_, err = run(t, home, "", "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigSetGet(t *testing.T) {
	home := newHome(t)

	out, err := run(t, home, "", "config", "set", "ui.theme", "dark")
	require.NoError(t, err)
	assert.Contains(t, out, "ui.theme = Dark")

	out, err = run(t, home, "", "config", "get", "ui.theme")
	require.NoError(t, err)
	assert.Equal(t, "Dark", strings.TrimSpace(out))

	// Settings already in the file survive a set.
	out, err = run(t, home, "", "config", "get", "chat.typing_max_ms")
	require.NoError(t, err)
	assert.Equal(t, "1", strings.TrimSpace(out))
}

func TestConfigSet_Errors(t *testing.T) {
	home := newHome(t)

	_, err := run(t, home, "", "config", "set", "chat.nope", "1")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))

	_, err = run(t, home, "", "config", "set", "chat.max_memory", "5000")
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, ExitCode(err))

	cfg, err := config.ReadFile(filepath.Join(home, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Chat.MaxMemory)
}

func TestConfigSet_DoesNotPersistEnvOverrides(t *testing.T) {
	home := newHome(t)
	t.Setenv(config.EnvTheme, "Blue")

	_, err := run(t, home, "", "config", "set", "chat.bot_name", "Buddy")
	require.NoError(t, err)

	cfg, err := config.ReadFile(filepath.Join(home, "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, "Buddy", cfg.Chat.BotName)
	assert.Equal(t, config.ThemeLight, cfg.UI.Theme)

	out, err := run(t, home, "", "config", "get", "ui.theme")
	require.NoError(t, err)
	assert.Equal(t, "Blue", strings.TrimSpace(out))
}

func TestConfigList(t *testing.T) {
	out, err := run(t, newHome(t), "", "config", "list")
	require.NoError(t, err)
	for _, key := range config.Keys() {
		assert.Contains(t, out, key)
	}
}

func TestGlobalFlags(t *testing.T) {
	home := newHome(t)

	out, err := run(t, home, "", "--theme", "blue", "config", "get", "ui.theme")
	require.NoError(t, err)
	assert.Equal(t, "Blue", strings.TrimSpace(out))

	_, err = run(t, home, "", "--theme", "purple", "config", "get", "ui.theme")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))

	_, err = run(t, home, "", "--log-level", "loud", "config", "get", "ui.theme")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

// =============================================================================
// CHAT REPL
// =============================================================================

func TestChat_ConversationIsSaved(t *testing.T) {
	home := newHome(t)

	out, err := run(t, home, "hello\n\n/stats\n/quit\n", "chat")
	require.NoError(t, err)
	assert.Contains(t, out, "Hello! I'm ChatBuddy Pro")
	assert.Contains(t, out, "ChatBuddy Pro is typing...")
	assert.Contains(t, out, "Session Statistics")
	assert.Contains(t, out, "Total Messages: 2")

	records := savedRecords(t, home)
	require.Len(t, records, 1)
	assert.Equal(t, "hello", records[0].Preview())
	assert.Equal(t, 3, records[0].MessageCount)
}

func TestChat_EndOfInputSaves(t *testing.T) {
	home := newHome(t)

	_, err := run(t, home, "thank you\n", "chat")
	require.NoError(t, err)
	require.Len(t, savedRecords(t, home), 1)
}

func TestChat_CommandErrorsAreShown(t *testing.T) {
	home := newHome(t)

	out, err := run(t, home, "/bogus\n/theme\n/theme dark\n/quit\n", "chat")
	require.NoError(t, err)
	assert.Contains(t, out, "Unknown command: /bogus")
	assert.Contains(t, out, "required argument missing")
	assert.Contains(t, out, "Theme changed to Dark")
}

func TestChat_HistoryDisabled(t *testing.T) {
	home := newHome(t)
	cfg := fastConfig + "\n[history]\nenabled = false\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.toml"), []byte(cfg), 0600))

	_, err := run(t, home, "hello\n/quit\n", "chat")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(home, "chat_history.json"))
}

func TestNewApp_CorruptHistoryStartsEmpty(t *testing.T) {
	home := newHome(t)
	historyPath := filepath.Join(home, "chat_history.json")
	require.NoError(t, os.WriteFile(historyPath, []byte("{not json"), 0600))

	resetFlags(RootCmd)
	homeFlag = home
	t.Cleanup(func() { homeFlag = "" })

	app, err := newApp()
	require.NoError(t, err)
	defer app.Close()

	require.NotNil(t, app.History)
	records, err := app.History.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	require.Len(t, app.Notices, 1)
	assert.Contains(t, app.Notices[0], historyPath+storage.CorruptSuffix)
	assert.FileExists(t, historyPath+storage.CorruptSuffix)
}

func TestChat_CorruptHistoryIsReportedAndReplaced(t *testing.T) {
	home := newHome(t)
	historyPath := filepath.Join(home, "chat_history.json")
	require.NoError(t, os.WriteFile(historyPath, []byte("{not json"), 0600))

	out, err := run(t, home, "hello\n/quit\n", "chat")
	require.NoError(t, err)
	assert.Contains(t, out, "Could not read chat history; starting fresh")

	records := savedRecords(t, home)
	require.Len(t, records, 1)
	assert.Equal(t, "hello", records[0].Preview())

	kept, err := os.ReadFile(historyPath + storage.CorruptSuffix)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(kept))
}

// =============================================================================
// HISTORY AND EXPORT
// =============================================================================

// chatOnce runs one REPL conversation and returns its session ID.
func chatOnce(t *testing.T, home, input string) string {
	t.Helper()
	_, err := run(t, home, input, "chat")
	require.NoError(t, err)
	records := savedRecords(t, home)
	require.NotEmpty(t, records)
	return records[len(records)-1].SessionID
}

func TestHistoryList(t *testing.T) {
	home := newHome(t)

	out, err := run(t, home, "", "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, storage.NoHistoryText)

	id := chatOnce(t, home, "hello there\n/quit\n")
	out, err = run(t, home, "", "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "SESSION")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "hello there")
}

func TestHistoryShow(t *testing.T) {
	home := newHome(t)
	id := chatOnce(t, home, "hello\n/quit\n")

	out, err := run(t, home, "", "history", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "CHAT EXPORT")
	assert.Contains(t, out, "You: hello")

	out, err = run(t, home, "", "history", "show", id, "--markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "# Chat Export")
	assert.Contains(t, out, "session: "+id)
}

func TestHistoryShow_NotFound(t *testing.T) {
	_, err := run(t, newHome(t), "", "history", "show", "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrSessionNotFound))
	assert.Equal(t, ExitNotFoundError, ExitCode(err))
}

func TestHistoryClear(t *testing.T) {
	home := newHome(t)
	chatOnce(t, home, "hello\n/quit\n")

	// Test stdin is never a terminal.
	_, err := run(t, home, "", "history", "clear")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))
	assert.Len(t, savedRecords(t, home), 1)

	out, err := run(t, home, "", "history", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Chat history cleared.")
	assert.Empty(t, savedRecords(t, home))
}

func TestExport(t *testing.T) {
	home := newHome(t)
	id := chatOnce(t, home, "hello\n/quit\n")

	target := filepath.Join(t.TempDir(), "out", "chat.md")
	out, err := run(t, home, "", "export", id, "--format", "markdown", "--out", target)
	require.NoError(t, err)
	assert.Contains(t, out, target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Chat Export")
	assert.Contains(t, string(data), "session: "+id)
}

func TestExport_GeneratedName(t *testing.T) {
	home := newHome(t)
	id := chatOnce(t, home, "hello\n/quit\n")

	dir := t.TempDir()
	_, err := run(t, home, "", "export", id, "--format", "json", "--out", dir)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "chat_*.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestExport_BadFormat(t *testing.T) {
	home := newHome(t)
	id := chatOnce(t, home, "hello\n/quit\n")

	_, err := run(t, home, "", "export", id, "--format", "pdf")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestTranscriptFromRecord(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := &storage.Record{
		SessionID: "20250301_100000",
		Timestamp: storage.NewTimestamp(start.Add(time.Hour)),
		Messages: []storage.Message{
			{Sender: "ChatBuddy Pro", Message: "Hi", Type: storage.TypeBot, Timestamp: storage.NewTimestamp(start)},
			{Sender: storage.SenderUser, Message: "hello", Type: storage.TypeUser, Timestamp: storage.NewTimestamp(start.Add(time.Minute))},
			{Sender: storage.SenderSystem, Message: "note", Type: storage.TypeSystem},
			{Sender: "ChatBuddy Pro", Message: "Hello!", Type: storage.TypeBot, Timestamp: storage.NewTimestamp(start.Add(90 * time.Second))},
		},
	}

	tr := transcriptFromRecord(rec, "ChatBuddy Pro")
	assert.Equal(t, "20250301_100000", tr.Session.SessionID)
	assert.Equal(t, 1, tr.Session.UserMessages)
	assert.Equal(t, 2, tr.Session.BotMessages)
	assert.Equal(t, 3, tr.Session.TotalMessages)
	assert.Equal(t, "2025-03-01 10:00:00", tr.Session.StartTime)
	assert.Equal(t, "n/a", tr.Session.AvgResponseTime)
	assert.Equal(t, start.Add(time.Hour), tr.ExportedAt)
	assert.Len(t, tr.Messages, 4)
}

// =============================================================================
// EXIT CODES
// =============================================================================

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneralError},
		{"usage", &UsageError{Field: "x", Reason: "bad"}, ExitUsageError},
		{"config", &ConfigError{Path: "p", Err: errors.New("bad")}, ExitConfigError},
		{"validation", fmt.Errorf("invalid config: %w", config.ValidateErrors{{Field: "f", Message: "m"}}), ExitConfigError},
		{"not found", &CommandError{Command: "export", Err: storage.ErrSessionNotFound}, ExitNotFoundError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
