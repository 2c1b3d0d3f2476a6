// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/chatbuddy/internal/config"
	"github.com/jeranaias/chatbuddy/internal/engine"
	"github.com/jeranaias/chatbuddy/internal/export"
	"github.com/jeranaias/chatbuddy/internal/notify"
	"github.com/jeranaias/chatbuddy/internal/session"
	"github.com/jeranaias/chatbuddy/internal/storage"
)

// WelcomeText is the first bot message of every run.
const WelcomeText = "Hello! I'm ChatBuddy Pro, your enhanced AI assistant! 🤖\nType 'help' to see what I can do."

// DefaultBotName is used when the config leaves chat.bot_name empty.
const DefaultBotName = "ChatBuddy Pro"

// =============================================================================
// OUTPUT
// =============================================================================

// OutputKind tells a frontend how to present an Output.
type OutputKind int

const (
	OutputUser   OutputKind = iota // User bubble
	OutputBot                      // Bot bubble
	OutputSystem                   // Inline system notice
	OutputError                    // Inline error notice
	OutputInfo                     // Popup or boxed panel; never part of the transcript
)

// Output is one thing for a frontend to show.
type Output struct {
	Kind   OutputKind
	Sender string
	Text   string

	// Title heads an OutputInfo panel.
	Title string

	// Markdown marks Text as Markdown that may be rendered.
	Markdown bool

	Time time.Time
}

// Action is a follow-up a frontend must perform after a command.
type Action int

const (
	ActionNone   Action = iota
	ActionClear         // Wipe the transcript, then show Outputs
	ActionReload        // Replace the transcript with Outputs
	ActionTheme         // Apply Result.Theme
	ActionQuit          // Exit after showing Outputs
)

// Result is the outcome of a slash command.
type Result struct {
	Outputs []Output

	// Status is a short line for the status bar.
	Status string

	Action Action
	Theme  string
}

// =============================================================================
// CONTEXT
// =============================================================================

// Options wires a Context. Config and Engine are required.
type Options struct {
	Config   *config.Config
	Paths    config.Paths
	Engine   *engine.Engine
	History  storage.History    // nil disables the history log
	Notifier *notify.Dispatcher // nil disables notifications
	Logger   logrus.FieldLogger
	Version  string

	// Clipboard writes text to the system clipboard. Nil uses the OS clipboard.
	Clipboard func(string) error
}

// Context is the chat controller shared by the TUI and the line REPL. It
// owns the message log and routes user input to the engine or to a
// slash command.
//
// Methods other than Deliver are meant to be called from one goroutine,
// the frontend's event loop.
type Context struct {
	Config   *config.Config
	Paths    config.Paths
	Engine   *engine.Engine
	Log      *storage.MessageLog
	History  storage.History
	Notifier *notify.Dispatcher
	AutoSave *session.AutoSaver
	Logger   logrus.FieldLogger
	Version  string

	registry  *Registry
	parser    *Parser
	completer *Completer
	clipboard func(string) error

	mu        sync.Mutex
	lastReply string
}

// NewContext creates a controller with an empty message log.
func NewContext(opts Options) *Context {
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	clip := opts.Clipboard
	if clip == nil {
		clip = clipboard.WriteAll
	}

	registry := NewRegistry()
	c := &Context{
		Config:    opts.Config,
		Paths:     opts.Paths,
		Engine:    opts.Engine,
		Log:       storage.NewMessageLog(),
		History:   opts.History,
		Notifier:  opts.Notifier,
		Logger:    logger,
		Version:   opts.Version,
		registry:  registry,
		parser:    NewParser(registry),
		completer: NewCompleter(registry),
		clipboard: clip,
	}

	interval := time.Duration(opts.Config.History.AutoSaveSecs) * time.Second
	c.AutoSave = session.NewAutoSaver(interval, func() error {
		return c.SaveHistory(context.Background())
	}, logger)
	c.AutoSave.SetEnabled(c.Config.History.AutoSave && c.historyEnabled())
	return c
}

// Registry returns the command registry.
func (c *Context) Registry() *Registry { return c.registry }

// Completer returns the completer bound to the registry.
func (c *Context) Completer() *Completer { return c.completer }

// BotName is the sender shown on bot messages.
func (c *Context) BotName() string {
	if c.Config.Chat.BotName != "" {
		return c.Config.Chat.BotName
	}
	return DefaultBotName
}

// LastReply returns the text of the newest bot reply.
func (c *Context) LastReply() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastReply
}

func (c *Context) setLastReply(text string) {
	c.mu.Lock()
	c.lastReply = text
	c.mu.Unlock()
}

func (c *Context) historyEnabled() bool {
	return c.History != nil && c.Config.History.Enabled
}

// StatusLine decorates msg with the live message count and duration.
func (c *Context) StatusLine(msg string) string {
	stats := c.Engine.Stats()
	return fmt.Sprintf("%s | Messages: %d | Duration: %s", msg, stats.TotalMessages, stats.Duration)
}

// =============================================================================
// CONVERSATION FLOW
// =============================================================================

// Welcome records and returns the greeting. It is not a counted message.
func (c *Context) Welcome() Output {
	return c.bot(WelcomeText)
}

// Submit records the user's message and asks the engine for a reply. The
// reply is delivered later by Complete or Deliver. ok is false for blank
// input.
func (c *Context) Submit(text string) (turn engine.Turn, out Output, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return engine.Turn{}, Output{}, false
	}
	turn = c.Engine.Submit(text)
	msg := c.Log.Add(storage.SenderUser, turn.Utterance, storage.TypeUser)
	c.AutoSave.MarkDirty()
	return turn, Output{Kind: OutputUser, Sender: msg.Sender, Text: msg.Message, Time: msg.Timestamp.Time}, true
}

// Complete commits turn and returns the bot message to show. ok is false
// when the turn went stale because the chat was cleared or loaded.
func (c *Context) Complete(turn engine.Turn) (Output, bool) {
	return c.finish(turn, c.Engine.Commit(turn))
}

// Deliver completes turn after the typing delay on a background
// goroutine and hands the bot message to fn. Stale or cancelled turns
// never reach fn.
func (c *Context) Deliver(ctx context.Context, turn engine.Turn, fn func(Output)) {
	c.Engine.Deliver(ctx, turn, func(t engine.Turn, committed bool) {
		if out, ok := c.finish(t, committed); ok && fn != nil {
			fn(out)
		}
	})
}

func (c *Context) finish(turn engine.Turn, committed bool) (Output, bool) {
	if !committed {
		return Output{}, false
	}
	text := engine.DisplayReply(turn)
	msg := c.Log.Add(c.BotName(), text, storage.TypeBot)
	c.setLastReply(text)
	c.AutoSave.MarkDirty()

	if c.Notifier != nil {
		c.Notifier.Send(c.BotName(), notify.DefaultBody)
	}
	return Output{Kind: OutputBot, Sender: msg.Sender, Text: msg.Message, Time: msg.Timestamp.Time}, true
}

// Execute runs a slash command. Input that is not a command yields an
// empty Result; frontends send it to Submit instead.
func (c *Context) Execute(input string) Result {
	parsed := c.parser.Parse(input)
	if !parsed.IsCommand {
		return Result{}
	}
	if parsed.Command == nil {
		return c.failure("Unknown command: %s. Type /help for a list of commands.", parsed.CommandName)
	}
	if err := ValidateArgs(parsed.Command, parsed.Args); err != nil {
		return c.failure("%v", err)
	}

	c.Logger.WithFields(logrus.Fields{
		"command": parsed.Command.Name,
		"args":    len(parsed.Args),
	}).Debug("Command executed")
	return parsed.Command.Handler(c, parsed.Args)
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// SaveHistory writes the current messages to the history log under the
// current session ID. It does nothing when history is disabled or the
// log is empty.
func (c *Context) SaveHistory(ctx context.Context) error {
	if !c.historyEnabled() {
		return nil
	}
	messages := c.Log.Messages()
	if len(messages) == 0 {
		return nil
	}
	if err := c.History.Save(ctx, c.Engine.SessionID(), messages); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// RunAutoSave saves pending changes and returns the status text to show,
// or "" when nothing was saved.
func (c *Context) RunAutoSave() string {
	saved, err := c.AutoSave.SaveIfDirty()
	if err != nil {
		c.Logger.WithError(err).Warn("Auto-save failed")
		return "Auto-save failed"
	}
	if !saved {
		return ""
	}
	c.Logger.WithField("session_id", c.Engine.SessionID()).Debug("Auto-saved conversation")
	return "Auto-saved conversation"
}

// Transcript gathers the current chat for export.
func (c *Context) Transcript() *export.Transcript {
	return &export.Transcript{
		Session:    c.Engine.Stats(),
		BotName:    c.BotName(),
		Summary:    c.Engine.Summary(),
		Messages:   c.Log.Messages(),
		ExportedAt: time.Now(),
	}
}

// Close stops auto-save, cancels pending replies and waits for queued
// notifications. The history log is left open for its owner to close.
func (c *Context) Close() {
	if err := c.AutoSave.Stop(); err != nil {
		c.Logger.WithError(err).Debug("Auto-save scheduler stop failed")
	}
	c.Engine.Close()
	if c.Notifier != nil {
		c.Notifier.Wait()
	}
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func (c *Context) system(text string) Output {
	msg := c.Log.Add(storage.SenderSystem, text, storage.TypeSystem)
	return Output{Kind: OutputSystem, Sender: msg.Sender, Text: msg.Message, Time: msg.Timestamp.Time}
}

func (c *Context) bot(text string) Output {
	msg := c.Log.Add(c.BotName(), text, storage.TypeBot)
	return Output{Kind: OutputBot, Sender: msg.Sender, Text: msg.Message, Time: msg.Timestamp.Time}
}

func (c *Context) fail(format string, args ...interface{}) Output {
	text := fmt.Sprintf(format, args...)
	c.Logger.WithField("error", text).Warn("Command failed")
	msg := c.Log.Add(storage.SenderSystem, text, storage.TypeError)
	return Output{Kind: OutputError, Sender: msg.Sender, Text: msg.Message, Time: msg.Timestamp.Time}
}

func (c *Context) failure(format string, args ...interface{}) Result {
	return Result{Outputs: []Output{c.fail(format, args...)}}
}

func info(title, text string) Output {
	return Output{Kind: OutputInfo, Title: title, Text: text}
}

func infoResult(title, text string) Result {
	return Result{Outputs: []Output{info(title, text)}}
}
