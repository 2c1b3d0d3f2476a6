// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jeranaias/chatbuddy/internal/config"
	"github.com/jeranaias/chatbuddy/internal/memory"
	"github.com/jeranaias/chatbuddy/internal/session"
	"github.com/jeranaias/chatbuddy/internal/util"
)

// SnapshotExt is the file extension of session snapshots.
const SnapshotExt = ".chat"

// =============================================================================
// SESSION SNAPSHOT
// =============================================================================

// Snapshot is a full session written by /save-session. Config is kept for
// reference only; loading a snapshot never changes the running config.
type Snapshot struct {
	Session  session.Stats     `json:"session"`
	Memory   []memory.Exchange `json:"memory"`
	Config   *config.Config    `json:"config,omitempty"`
	Messages []Message         `json:"messages"`
}

type wireExchange struct {
	UserText   string    `json:"user"`
	BotText    string    `json:"bot"`
	OccurredAt Timestamp `json:"timestamp"`
}

type wireSnapshot struct {
	Session  json.RawMessage `json:"session"`
	Memory   json.RawMessage `json:"memory"`
	Config   json.RawMessage `json:"config"`
	Messages json.RawMessage `json:"messages"`
}

// SaveSnapshot writes snap to path atomically.
func SaveSnapshot(path string, snap *Snapshot) error {
	if snap.Memory == nil {
		snap.Memory = []memory.Exchange{}
	}
	if snap.Messages == nil {
		snap.Messages = []Message{}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	snap, err := DecodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", path, err)
	}
	return snap, nil
}

// DecodeSnapshot parses snapshot JSON. Missing or malformed sections are
// replaced with empty values; only input that is not a JSON object at all
// returns ErrNotSnapshot.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSnapshot, err)
	}

	snap := &Snapshot{
		Memory:   []memory.Exchange{},
		Messages: []Message{},
	}
	if len(w.Session) > 0 {
		// A garbled session block only loses the stats display.
		_ = json.Unmarshal(w.Session, &snap.Session)
	}
	if len(w.Config) > 0 && string(w.Config) != "null" {
		cfg := config.Default()
		if err := json.Unmarshal(w.Config, cfg); err == nil {
			snap.Config = cfg
		}
	}
	for _, raw := range rawItems(w.Memory) {
		var e wireExchange
		if json.Unmarshal(raw, &e) != nil {
			continue
		}
		snap.Memory = append(snap.Memory, memory.Exchange{
			UserText:   e.UserText,
			BotText:    e.BotText,
			OccurredAt: e.OccurredAt.Time,
		})
	}
	for _, raw := range rawItems(w.Messages) {
		var m Message
		if json.Unmarshal(raw, &m) != nil {
			continue
		}
		m.normalize()
		snap.Messages = append(snap.Messages, m)
	}
	return snap, nil
}

// rawItems splits a JSON array into its elements. Anything else yields none.
func rawItems(data json.RawMessage) []json.RawMessage {
	var items []json.RawMessage
	if len(data) == 0 || json.Unmarshal(data, &items) != nil {
		return nil
	}
	return items
}

// =============================================================================
// SAVED CHAT
// =============================================================================

// SavedChat is the document written by /save.
type SavedChat struct {
	SessionInfo session.Stats `json:"session_info"`
	Messages    []Message     `json:"messages"`
	Summary     string        `json:"summary"`
}

// SaveChat writes chat to path as indented JSON.
func SaveChat(path string, chat *SavedChat) error {
	if len(chat.Messages) == 0 {
		return ErrNoMessages
	}
	data, err := json.MarshalIndent(chat, "", "  ")
	if err != nil {
		return fmt.Errorf("encode chat: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("save chat: %w", err)
	}
	return nil
}
