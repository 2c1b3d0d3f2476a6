// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/chatbuddy/internal/config"
	"github.com/jeranaias/chatbuddy/internal/engine"
)

// =============================================================================
// MESSAGES
// =============================================================================

// ReplyReadyMsg is sent when a turn's typing delay has elapsed. Seq
// orders replies by submission.
type ReplyReadyMsg struct {
	Seq  uint64
	Turn engine.Turn
}

// ConfigReloadMsg carries a config re-read after the file changed.
type ConfigReloadMsg struct {
	Config *config.Config
	Err    error
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// replyCmd delivers turn once delay has passed.
func replyCmd(seq uint64, turn engine.Turn, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ReplyReadyMsg{Seq: seq, Turn: turn}
	})
}

// WatchConfig watches the config file and feeds reloads into a channel
// for the model. Bursts of writes collapse; only pending reloads are kept.
func WatchConfig(ctx context.Context, path string) (<-chan ConfigReloadMsg, error) {
	ch := make(chan ConfigReloadMsg, 1)
	err := config.Watch(ctx, path, func(cfg *config.Config, err error) {
		select {
		case ch <- ConfigReloadMsg{Config: cfg, Err: err}:
		default:
		}
	})
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// waitForConfig blocks on the watcher channel for the next reload.
func waitForConfig(ch <-chan ConfigReloadMsg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
