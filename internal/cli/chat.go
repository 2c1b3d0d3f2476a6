// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-oriented chat REPL.
//
// Usage: chatbuddy chat
//
// The REPL shares every slash command with the full-screen chat. Input
// history is kept in <home>/repl_history and Tab completes commands,
// file arguments and the suggestion phrases.
//
// Keys:
//
//	Up/Down    Browse input history
//	Tab        Complete
//	Ctrl+C     Quit (history is saved first)
//	Ctrl+D     Quit
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/chatbuddy/internal/commands"
	"github.com/jeranaias/chatbuddy/internal/config"
	"github.com/jeranaias/chatbuddy/internal/engine"
	"github.com/jeranaias/chatbuddy/internal/ui/styles"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat in the line REPL",
	Long:  "Chat without the full-screen interface. Works with pipes and dumb terminals.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()
		return runREPL(cmd.Context(), app, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	RootCmd.AddCommand(chatCmd)
}

// replyGrace is how long past the typing delay the REPL waits for a reply.
const replyGrace = 5 * time.Second

// =============================================================================
// LINE READERS
// =============================================================================

// LineReader reads one line of input per prompt.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// ChatCLI is the terminal line reader with persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI opens the terminal line editor. completer may be nil.
func NewChatCLI(historyFile string, completer liner.Completer) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	if completer != nil {
		line.SetCompleter(completer)
	}
	c := &ChatCLI{line: line, historyFile: historyFile}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if c.historyFile == "" {
		return
	}
	f, err := os.Open(c.historyFile)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = c.line.ReadHistory(f)
}

// Prompt reads one line.
func (c *ChatCLI) Prompt(prompt string) (string, error) {
	return c.line.Prompt(prompt)
}

// AppendHistory records a line for Up/Down browsing.
func (c *ChatCLI) AppendHistory(line string) {
	c.line.AppendHistory(line)
}

// Close writes the input history and restores the terminal.
func (c *ChatCLI) Close() error {
	var saveErr error
	if c.historyFile != "" {
		// SECURITY: input history may hold personal messages
		f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err == nil {
			_, saveErr = c.line.WriteHistory(f)
			f.Close()
		} else {
			saveErr = err
		}
	}
	if err := c.line.Close(); err != nil {
		return err
	}
	return saveErr
}

// scanReader reads lines from a plain reader, echoing nothing.
type scanReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newScanReader(in io.Reader, out io.Writer) *scanReader {
	return &scanReader{scanner: bufio.NewScanner(in), out: out}
}

func (s *scanReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	fmt.Fprintln(s.out)
	return s.scanner.Text(), nil
}

func (s *scanReader) AppendHistory(string) {}

func (s *scanReader) Close() error { return nil }

// =============================================================================
// REPL
// =============================================================================

// REPL drives a chat controller from a LineReader.
type REPL struct {
	ctrl    *commands.Context
	in      LineReader
	out     io.Writer
	theme   string
	width   int
	notices []string
}

// NewREPL creates a REPL over ctrl.
func NewREPL(ctrl *commands.Context, in LineReader, out io.Writer) *REPL {
	return &REPL{
		ctrl:  ctrl,
		in:    in,
		out:   out,
		theme: ctrl.Config.UI.Theme,
		width: TerminalWidth(),
	}
}

// runREPL wires a controller to the line editor when in is a terminal,
// or to a plain line scanner otherwise.
func runREPL(ctx context.Context, app *App, in io.Reader, out io.Writer) error {
	ctrl := app.Controller()
	defer ctrl.Close()

	var reader LineReader
	if IsTerminal(in) {
		reader = NewChatCLI(app.Paths.LineHist, completerFor(ctrl))
	} else {
		reader = newScanReader(in, out)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			app.Logger.WithError(err).Debug("Line history not saved")
		}
	}()

	if err := ctrl.AutoSave.Start(); err != nil {
		app.Logger.WithError(err).Warn("Auto-save scheduler not started")
	}
	repl := NewREPL(ctrl, reader, out)
	repl.notices = app.Notices
	return repl.Run(ctx)
}

// completerFor adapts the command completer to liner.
func completerFor(ctrl *commands.Context) liner.Completer {
	return func(line string) []string {
		completions := ctrl.Completer().Complete(line, len(line))
		lines := make([]string, 0, len(completions))
		for _, c := range completions {
			lines = append(lines, commands.Apply(line, c.Value))
		}
		return lines
	}
}

// Run reads input until /quit, end of input or ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	r.print(r.ctrl.Welcome())
	for _, notice := range r.notices {
		fmt.Fprintln(r.out, styles.RenderError(notice))
	}
	fmt.Fprintln(r.out, DimStyle.Render("Type /help for commands, /quit to leave."))

	prompt := "You> "
	for {
		if ctx.Err() != nil {
			return r.quit()
		}

		line, err := r.in.Prompt(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				return r.quit()
			}
			return fmt.Errorf("read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.in.AppendHistory(line)

		if commands.IsCommand(line) {
			res := r.ctrl.Execute(line)
			r.printResult(res)
			if res.Action == commands.ActionQuit {
				return nil
			}
			continue
		}

		turn, _, ok := r.ctrl.Submit(line)
		if !ok {
			continue
		}
		r.awaitReply(ctx, turn)
	}
}

// quit runs /quit so the conversation reaches the history log.
func (r *REPL) quit() error {
	r.printResult(r.ctrl.Execute("/quit"))
	return nil
}

// awaitReply shows the typing indicator until the reply is delivered.
func (r *REPL) awaitReply(ctx context.Context, turn engine.Turn) {
	// ACCESSIBILITY: the indicator is plain text and is erased in place,
	// so screen readers announce it once.
	indicator := fmt.Sprintf("%s is typing...", r.ctrl.BotName())
	fmt.Fprint(r.out, DimStyle.Render(indicator))

	done := make(chan commands.Output, 1)
	r.ctrl.Deliver(ctx, turn, func(out commands.Output) {
		done <- out
	})

	timer := time.NewTimer(r.ctrl.Engine.TypingDelay() + replyGrace)
	defer timer.Stop()

	select {
	case out := <-done:
		fmt.Fprint(r.out, "\r\033[K")
		r.print(out)
	case <-ctx.Done():
		fmt.Fprintln(r.out)
	case <-timer.C:
		fmt.Fprintln(r.out)
		r.ctrl.Logger.WithField("generation", turn.Generation).Warn("Reply not delivered")
	}
}

// =============================================================================
// OUTPUT
// =============================================================================

func (r *REPL) printResult(res commands.Result) {
	for _, out := range res.Outputs {
		r.print(out)
	}
	if len(res.Outputs) == 0 && res.Status != "" {
		fmt.Fprintln(r.out, DimStyle.Render(res.Status))
	}

	switch res.Action {
	case commands.ActionTheme:
		r.theme = res.Theme
	case commands.ActionClear:
		fmt.Fprintln(r.out, DimStyle.Render(strings.Repeat("-", 40)))
	}
}

func (r *REPL) print(out commands.Output) {
	switch out.Kind {
	case commands.OutputUser, commands.OutputBot:
		stamp := ""
		if r.ctrl.Config.UI.ShowTimestamps && !out.Time.IsZero() {
			stamp = DimStyle.Render(out.Time.Format("15:04")) + " "
		}
		fmt.Fprintf(r.out, "%s%s %s\n", stamp, SenderStyle(r.theme).Render(out.Sender+":"), out.Text)
	case commands.OutputSystem:
		fmt.Fprintln(r.out, SystemStyle.Render(out.Text))
	case commands.OutputError:
		fmt.Fprintln(r.out, styles.RenderError(out.Text))
	case commands.OutputInfo:
		if out.Title != "" {
			fmt.Fprintln(r.out, TitleStyle.Render(out.Title))
		}
		text := out.Text
		if out.Markdown {
			text = styles.RenderMarkdown(text, r.width, r.dark())
		}
		fmt.Fprintln(r.out, text)
	}
}

func (r *REPL) dark() bool {
	name, _ := config.CanonicalTheme(r.theme)
	return name == config.ThemeDark
}
