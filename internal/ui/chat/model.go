// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatbuddy/internal/commands"
	"github.com/jeranaias/chatbuddy/internal/engine"
	"github.com/jeranaias/chatbuddy/internal/session"
	"github.com/jeranaias/chatbuddy/internal/ui/styles"
)

// Layout rows outside the transcript viewport.
const (
	headerHeight = 1
	typingHeight = 1
	inputHeight  = 3 // border + input line + suggestions
	statusHeight = 1
)

// =============================================================================
// MODEL
// =============================================================================

// Options wires a Model.
type Options struct {
	Controller *commands.Context
	Theme      *styles.Theme

	// ConfigUpdates, when set, delivers config file reloads.
	ConfigUpdates <-chan ConfigReloadMsg

	// Notices are shown under the welcome as error messages.
	Notices []string
}

// Model is the chat screen.
type Model struct {
	ctrl  *commands.Context
	theme *styles.Theme
	keys  KeyMap

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	entries []commands.Output
	panel   *commands.Output
	status  string

	// replies holds turns still typing, in submit order. Replies are
	// committed from the front so memory order matches input order.
	replies []queuedReply
	nextSeq uint64

	suggestions []string
	completion  *commands.CompletionState
	showKeys    bool

	configCh <-chan ConfigReloadMsg

	width    int
	height   int
	quitting bool
}

// New creates the chat screen and records the welcome message.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(opts.Controller.Config.UI.Theme, opts.Controller.Config.UI.FontSize)
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message or /help..."
	ti.CharLimit = 4096
	ti.PromptStyle = theme.InputPrompt
	ti.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: styles.DotsSpinner.Frames,
		FPS:    styles.DotsSpinner.Interval(),
	}

	m := Model{
		ctrl:       opts.Controller,
		theme:      theme,
		keys:       DefaultKeyMap(),
		viewport:   vp,
		input:      ti,
		spinner:    sp,
		status:     "Ready",
		completion: commands.NewCompletionState(),
		configCh:   opts.ConfigUpdates,
		width:      80,
		height:     26,
	}
	m.entries = append(m.entries, m.ctrl.Welcome())
	for _, notice := range opts.Notices {
		m.entries = append(m.entries, commands.Output{Kind: commands.OutputError, Text: notice})
	}
	m.refresh()
	return m
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts cursor blink, the session tick and the config watch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		session.TickCmd(),
		waitForConfig(m.configCh),
	)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReplyReadyMsg:
		return m.handleReply(msg)

	case session.TickMsg:
		return m, m.ctrl.AutoSave.HandleTick(msg.Time)

	case session.AutoSaveMsg:
		if status := m.ctrl.RunAutoSave(); status != "" {
			m.status = status
		}
		return m, nil

	case ConfigReloadMsg:
		return m.handleConfigReload(msg)

	case spinner.TickMsg:
		if !m.Typing() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	vpHeight := m.height - headerHeight - typingHeight - inputHeight - statusHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = max(m.width, 1)
	m.viewport.Height = vpHeight

	// Container padding (2) plus the "> " prompt
	m.input.Width = max(m.width-4-len(m.input.Prompt), 10)

	m.refresh()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.applyResult(m.ctrl.Execute("/quit"))

	case m.panel != nil && (key.Matches(msg, m.keys.Dismiss) || key.Matches(msg, m.keys.Submit)):
		m.panel = nil
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		m.completion.Clear()
		m.showKeys = false
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showKeys = !m.showKeys
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		return m.applyResult(m.ctrl.Execute("/clear"))

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Complete):
		return m.complete(true)

	case key.Matches(msg, m.keys.Prev):
		return m.complete(false)

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	m.completion.Clear()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.suggestions = commands.Suggest(m.input.Value())
	return m, cmd
}

// submit routes the input line to a command or to the engine.
func (m Model) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	m.suggestions = nil
	m.completion.Clear()

	if value == "" {
		return m, nil
	}
	if commands.IsCommand(value) {
		return m.applyResult(m.ctrl.Execute(value))
	}

	turn, out, ok := m.ctrl.Submit(value)
	if !ok {
		return m, nil
	}
	m.entries = append(m.entries, out)
	m.refresh()

	m.nextSeq++
	m.replies = append(m.replies[:len(m.replies):len(m.replies)], queuedReply{seq: m.nextSeq, turn: turn})
	cmds := []tea.Cmd{replyCmd(m.nextSeq, turn, m.ctrl.Engine.TypingDelay())}
	if len(m.replies) == 1 {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

// queuedReply is a submitted turn waiting for its typing delay.
type queuedReply struct {
	seq   uint64
	turn  engine.Turn
	ready bool
}

// handleReply marks a reply ready and commits every ready reply at the
// front of the queue. A reply that finishes early waits for the ones
// submitted before it.
func (m Model) handleReply(msg ReplyReadyMsg) (tea.Model, tea.Cmd) {
	idx := -1
	for i, r := range m.replies {
		if r.seq == msg.Seq {
			idx = i
			break
		}
	}
	if idx < 0 {
		// Cleared or reloaded while typing.
		return m, nil
	}

	replies := append([]queuedReply(nil), m.replies...)
	replies[idx].ready = true
	for len(replies) > 0 && replies[0].ready {
		if out, ok := m.ctrl.Complete(replies[0].turn); ok {
			m.entries = append(m.entries, out)
		}
		replies = replies[1:]
	}
	m.replies = replies
	m.refresh()
	return m, nil
}

func (m Model) handleConfigReload(msg ConfigReloadMsg) (tea.Model, tea.Cmd) {
	next := waitForConfig(m.configCh)

	if msg.Err != nil {
		m.ctrl.Logger.WithError(msg.Err).Warn("Config reload failed")
		m.status = "Config reload failed"
		return m, next
	}
	if msg.Config == nil {
		return m, next
	}

	ui := msg.Config.UI
	if ui.Theme != m.theme.Name {
		m.theme.Apply(ui.Theme)
		m.ctrl.Config.UI.Theme = m.theme.Name
		m.status = "Theme changed to " + m.theme.Name
	}
	if ui.FontSize != m.theme.FontSize {
		m.theme.SetFontSize(ui.FontSize)
		m.ctrl.Config.UI.FontSize = ui.FontSize
	}
	m.ctrl.Config.UI.ShowTimestamps = ui.ShowTimestamps
	m.input.PromptStyle = m.theme.InputPrompt
	m.refresh()
	return m, next
}

// applyResult performs a command's action and shows its outputs.
func (m Model) applyResult(res commands.Result) (tea.Model, tea.Cmd) {
	switch res.Action {
	case commands.ActionClear, commands.ActionReload:
		m.entries = nil
		m.panel = nil
		m.replies = nil
	case commands.ActionTheme:
		m.theme.Apply(res.Theme)
		m.input.PromptStyle = m.theme.InputPrompt
	}

	for _, out := range res.Outputs {
		if out.Kind == commands.OutputInfo {
			panel := out
			m.panel = &panel
			continue
		}
		m.entries = append(m.entries, out)
	}
	if res.Status != "" {
		m.status = res.Status
	}
	m.refresh()

	if res.Action == commands.ActionQuit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// complete cycles completions for the input line.
func (m Model) complete(forward bool) (tea.Model, tea.Cmd) {
	if m.completion.Visible {
		if forward {
			m.completion.Next()
		} else {
			m.completion.Prev()
		}
		m.setInput(m.completion.Accept())
		return m, nil
	}

	value := m.input.Value()
	comps := m.ctrl.Completer().Complete(value, m.input.Position())
	if len(comps) == 0 {
		return m, nil
	}
	m.completion.Update(value, comps)
	m.setInput(m.completion.Accept())
	m.suggestions = nil
	if len(comps) == 1 {
		m.completion.Clear()
	}
	return m, nil
}

func (m *Model) setInput(v string) {
	m.input.SetValue(v)
	m.input.CursorEnd()
}

// refresh re-renders the transcript and scrolls to the newest message.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Entries returns the transcript shown on screen.
func (m Model) Entries() []commands.Output { return m.entries }

// Panel returns the open info panel, or nil.
func (m Model) Panel() *commands.Output { return m.panel }

// Status returns the status bar message.
func (m Model) Status() string { return m.status }

// Typing reports whether a reply is pending.
func (m Model) Typing() bool { return len(m.replies) > 0 }

// Suggestions returns the phrase suggestions for the current input.
func (m Model) Suggestions() []string { return m.suggestions }

// InputValue returns the text in the input line.
func (m Model) InputValue() string { return m.input.Value() }
