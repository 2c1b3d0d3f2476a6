// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatbuddy/internal/commands"
	"github.com/jeranaias/chatbuddy/internal/config"
	"github.com/jeranaias/chatbuddy/internal/engine"
	"github.com/jeranaias/chatbuddy/internal/session"
	"github.com/jeranaias/chatbuddy/internal/storage"
	"github.com/jeranaias/chatbuddy/internal/ui/styles"
)

func newTestModel(t *testing.T, notices ...string) Model {
	t.Helper()

	cfg := config.Default()
	paths := cfg.Paths(t.TempDir())
	history, err := storage.NewJSONHistory(paths.History, 0)
	require.NoError(t, err)

	ctrl := commands.NewContext(commands.Options{
		Config:  cfg,
		Paths:   paths,
		History: history,
		Engine: engine.New(engine.Options{
			Rand:      rand.New(rand.NewSource(7)),
			TypingMin: time.Millisecond,
			TypingMax: time.Millisecond,
		}),
		Clipboard: func(string) error { return nil },
	})
	t.Cleanup(ctrl.Close)

	m := New(Options{
		Controller: ctrl,
		Theme:      styles.NewTheme(cfg.UI.Theme, cfg.UI.FontSize),
		Notices:    notices,
	})
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// collect runs cmd and any batched commands, returning their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func replyFrom(t *testing.T, cmd tea.Cmd) ReplyReadyMsg {
	t.Helper()
	for _, msg := range collect(cmd) {
		if r, ok := msg.(ReplyReadyMsg); ok {
			return r
		}
	}
	t.Fatal("no ReplyReadyMsg scheduled")
	return ReplyReadyMsg{}
}

func send(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m = typeText(t, m, text)
	return updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

// =============================================================================
// TESTS
// =============================================================================

func TestNew_ShowsWelcome(t *testing.T) {
	m := newTestModel(t)

	require.Len(t, m.Entries(), 1)
	assert.Equal(t, commands.OutputBot, m.Entries()[0].Kind)
	assert.Equal(t, commands.WelcomeText, m.Entries()[0].Text)
	assert.Equal(t, "Ready", m.Status())
	assert.NotNil(t, m.Init())
}

func TestNew_ShowsNotices(t *testing.T) {
	m := newTestModel(t, "Could not read chat history; starting fresh.")

	require.Len(t, m.Entries(), 2)
	assert.Equal(t, commands.OutputError, m.Entries()[1].Kind)
	assert.Contains(t, m.View(), "Could not read chat history")
}

func TestResize_SizesViewport(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, 100, m.viewport.Width)
	assert.Equal(t, 40-headerHeight-typingHeight-inputHeight-statusHeight, m.viewport.Height)
	assert.Equal(t, 100, m.theme.Width)
}

func TestTyping_Suggestions(t *testing.T) {
	m := newTestModel(t)

	m = typeText(t, m, "he")
	assert.Equal(t, []string{"hello", "help"}, m.Suggestions())

	m = typeText(t, m, "z")
	assert.Empty(t, m.Suggestions())
}

func TestSubmit_ReplyArrives(t *testing.T) {
	m := newTestModel(t)

	m, cmd := send(t, m, "hello")
	assert.Equal(t, "", m.InputValue())
	require.Len(t, m.Entries(), 2)
	assert.Equal(t, commands.OutputUser, m.Entries()[1].Kind)
	assert.True(t, m.Typing())
	assert.Contains(t, m.View(), "is typing")

	m = update(t, m, replyFrom(t, cmd))
	assert.False(t, m.Typing())
	require.Len(t, m.Entries(), 3)
	assert.Equal(t, commands.OutputBot, m.Entries()[2].Kind)
	assert.Equal(t, 2, m.ctrl.Engine.Stats().TotalMessages)
}

func TestSubmit_BlankDoesNothing(t *testing.T) {
	m := newTestModel(t)
	m, cmd := send(t, m, "   ")
	assert.Nil(t, cmd)
	assert.Len(t, m.Entries(), 1)
}

func TestReplies_CommitInSubmitOrder(t *testing.T) {
	m := newTestModel(t)

	m, first := send(t, m, "hello")
	m, second := send(t, m, "tell me a joke")
	firstReply, secondReply := replyFrom(t, first), replyFrom(t, second)
	require.Len(t, m.Entries(), 3)

	// The second reply finishes typing first and waits.
	m = update(t, m, secondReply)
	assert.Len(t, m.Entries(), 3)
	assert.True(t, m.Typing())
	assert.Equal(t, 0, m.ctrl.Engine.Stats().BotMessages)

	m = update(t, m, firstReply)
	assert.False(t, m.Typing())
	require.Len(t, m.Entries(), 5)
	assert.Equal(t, commands.OutputBot, m.Entries()[3].Kind)
	assert.Equal(t, commands.OutputBot, m.Entries()[4].Kind)

	exchanges := m.ctrl.Engine.Exchanges()
	require.Len(t, exchanges, 2)
	assert.Equal(t, "hello", exchanges[0].UserText)
	assert.Equal(t, "tell me a joke", exchanges[1].UserText)

	// A duplicate delivery changes nothing.
	m = update(t, m, firstReply)
	assert.Len(t, m.Entries(), 5)
}

func TestClear_DropsPendingReply(t *testing.T) {
	m := newTestModel(t)

	m, cmd := send(t, m, "hello")
	reply := replyFrom(t, cmd)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	require.Len(t, m.Entries(), 1)
	assert.Equal(t, "Chat cleared. New session started.", m.Entries()[0].Text)
	assert.False(t, m.Typing())

	m = update(t, m, reply)
	assert.Len(t, m.Entries(), 1)
	assert.Equal(t, 0, m.ctrl.Engine.Stats().BotMessages)
}

func TestCommand_OpensPanel(t *testing.T) {
	m := newTestModel(t)

	m, _ = send(t, m, "/stats")
	require.NotNil(t, m.Panel())
	assert.Equal(t, "Session Statistics", m.Panel().Title)
	assert.Contains(t, m.View(), "Esc to close")
	assert.Len(t, m.Entries(), 1)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.Panel())
}

func TestCommand_HelpRendersMarkdown(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(t, m, "/help")
	require.NotNil(t, m.Panel())
	assert.True(t, m.Panel().Markdown)
	assert.Contains(t, m.View(), "Help Guide")
}

func TestCommand_Theme(t *testing.T) {
	m := newTestModel(t)

	m, _ = send(t, m, "/theme blue")
	assert.Equal(t, config.ThemeBlue, m.theme.Name)
	assert.Equal(t, "Theme changed to Blue", m.Status())
	assert.Contains(t, m.View(), "Theme changed to Blue | Messages: 0")
}

func TestCommand_ErrorShownInline(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(t, m, "/bogus")
	require.Len(t, m.Entries(), 2)
	assert.Equal(t, commands.OutputError, m.Entries()[1].Kind)
}

func TestTabCompletion_Commands(t *testing.T) {
	m := newTestModel(t)

	m = typeText(t, m, "/cl")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "/clear ", m.InputValue())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "/clear-history ", m.InputValue())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, "/clear ", m.InputValue())
}

func TestTabCompletion_Phrase(t *testing.T) {
	m := newTestModel(t)

	m = typeText(t, m, "tell")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "tell me a joke", m.InputValue())
	assert.False(t, m.completion.Visible)
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.Equal(t, "", m.View())
}

func TestConfigReload_AppliesTheme(t *testing.T) {
	m := newTestModel(t)

	cfg := config.Default()
	cfg.UI.Theme = config.ThemeDark
	m = update(t, m, ConfigReloadMsg{Config: cfg})
	assert.Equal(t, config.ThemeDark, m.theme.Name)
	assert.Equal(t, config.ThemeDark, m.ctrl.Config.UI.Theme)
	assert.Equal(t, "Theme changed to Dark", m.Status())

	m = update(t, m, ConfigReloadMsg{Err: assert.AnError})
	assert.Equal(t, "Config reload failed", m.Status())
}

func TestAutoSaveMsg(t *testing.T) {
	m := newTestModel(t)

	m, cmd := send(t, m, "hello")
	m = update(t, m, replyFrom(t, cmd))

	m = update(t, m, session.AutoSaveMsg{})
	assert.Equal(t, "Auto-saved conversation", m.Status())
}

func TestSpinnerTick_IgnoredWhenIdle(t *testing.T) {
	m := newTestModel(t)
	_, cmd := updateCmd(t, m, spinner.TickMsg{})
	assert.Nil(t, cmd)
}

func TestView_Layout(t *testing.T) {
	m := newTestModel(t)
	view := m.View()

	assert.Contains(t, view, "ChatBuddy Pro 🤖")
	assert.Contains(t, view, "Session "+m.ctrl.Engine.SessionID())
	assert.Contains(t, view, "Ready | Messages: 0")
	assert.True(t, strings.Contains(view, "Hello!"))
}

func TestKeysPanel(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyF1})
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyF1})
	assert.NotContains(t, m.View(), "Keyboard Shortcuts")
}
