// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatbuddy/internal/commands"
	"github.com/jeranaias/chatbuddy/internal/config"
	"github.com/jeranaias/chatbuddy/internal/engine"
	"github.com/jeranaias/chatbuddy/internal/logging"
)

// scriptReader replays lines and records what was added to history.
type scriptReader struct {
	lines   []string
	history []string
}

func (s *scriptReader) Prompt(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scriptReader) AppendHistory(line string) { s.history = append(s.history, line) }

func (s *scriptReader) Close() error { return nil }

func newTestController(t *testing.T) *commands.Context {
	t.Helper()
	cfg := config.Default()
	cfg.History.Enabled = false
	cfg.Notifications.Enabled = false

	ctrl := commands.NewContext(commands.Options{
		Config: cfg,
		Engine: engine.New(engine.Options{
			TypingMin: time.Millisecond,
			TypingMax: time.Millisecond,
			Logger:    logging.Discard(),
		}),
		Logger:    logging.Discard(),
		Clipboard: func(string) error { return nil },
	})
	t.Cleanup(ctrl.Close)
	return ctrl
}

func TestREPL_Run(t *testing.T) {
	ctrl := newTestController(t)
	reader := &scriptReader{lines: []string{"hello", "   ", "/mood", "/theme blue", "tell me a joke"}}
	var out bytes.Buffer

	require.NoError(t, NewREPL(ctrl, reader, &out).Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Hello! I'm ChatBuddy Pro")
	assert.Contains(t, text, "Sentiment Analysis:")
	assert.Contains(t, text, "Theme changed to Blue")
	assert.Equal(t, []string{"hello", "/mood", "/theme blue", "tell me a joke"}, reader.history)
	assert.Equal(t, 4, ctrl.Engine.Stats().TotalMessages)
}

func TestREPL_CancelledContextQuits(t *testing.T) {
	ctrl := newTestController(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := &scriptReader{lines: []string{"hello"}}
	require.NoError(t, NewREPL(ctrl, reader, io.Discard).Run(ctx))
	assert.Len(t, reader.lines, 1)
	assert.Equal(t, 0, ctrl.Engine.Stats().TotalMessages)
}

func TestREPL_MarkdownHelp(t *testing.T) {
	ctrl := newTestController(t)
	reader := &scriptReader{lines: []string{"/help"}}
	var out bytes.Buffer

	require.NoError(t, NewREPL(ctrl, reader, &out).Run(context.Background()))
	assert.Contains(t, out.String(), "Slash")
	assert.Contains(t, out.String(), "/clear")
}

func TestCompleterFor(t *testing.T) {
	ctrl := newTestController(t)
	complete := completerFor(ctrl)

	got := complete("/cle")
	require.NotEmpty(t, got)
	assert.Contains(t, got, "/clear ")

	phrases := complete("how")
	assert.Contains(t, phrases, "how are you")

	for _, line := range complete("/theme ") {
		assert.True(t, strings.HasPrefix(line, "/theme "), line)
	}
}
