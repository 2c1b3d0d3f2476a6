// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jeranaias/chatbuddy/internal/config"
	"github.com/jeranaias/chatbuddy/internal/util"
)

// DefaultMaxSessions is how many sessions the history log keeps.
const DefaultMaxSessions = 50

// =============================================================================
// HISTORY RECORD
// =============================================================================

// Record is one saved session in the history log.
type Record struct {
	SessionID    string    `json:"session_id"`
	Timestamp    Timestamp `json:"timestamp"`
	MessageCount int       `json:"message_count"`
	Messages     []Message `json:"messages"`
}

// Preview returns the first user message, or "" when there is none.
func (r Record) Preview() string {
	for _, m := range r.Messages {
		if m.Type == TypeUser && m.Message != "" {
			return m.Message
		}
	}
	return ""
}

func newRecord(sessionID string, messages []Message, now time.Time) Record {
	return Record{
		SessionID:    sessionID,
		Timestamp:    NewTimestamp(now),
		MessageCount: len(messages),
		Messages:     append([]Message(nil), messages...),
	}
}

// History is the chat history log. Saving a session that is already in
// the log replaces it and moves it to the newest position; the oldest
// sessions fall off once the cap is reached.
type History interface {
	// Save records messages under sessionID. Empty input returns ErrNoMessages.
	Save(ctx context.Context, sessionID string, messages []Message) error

	// List returns every record, oldest first.
	List(ctx context.Context) ([]Record, error)

	// Get returns one record or ErrSessionNotFound.
	Get(ctx context.Context, sessionID string) (*Record, error)

	// Clear removes every record.
	Clear(ctx context.Context) error

	Close() error
}

// =============================================================================
// JSON FILE BACKEND
// =============================================================================

// JSONHistory keeps the history log in a single JSON array file.
type JSONHistory struct {
	mu          sync.Mutex
	path        string
	maxSessions int
	records     []Record
	now         func() time.Time
	recovered   error
}

// NewJSONHistory opens the history file at path, creating nothing until
// the first save.
//
// RELIABILITY: A file that is not a JSON array is moved to <path>.corrupt
// and the log starts empty. Recovered reports what happened.
func NewJSONHistory(path string, maxSessions int) (*JSONHistory, error) {
	if maxSessions < 1 {
		maxSessions = DefaultMaxSessions
	}
	h := &JSONHistory{path: path, maxSessions: maxSessions, now: time.Now}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return h, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}
	if len(data) == 0 {
		return h, nil
	}
	if err := json.Unmarshal(data, &h.records); err != nil {
		h.records = nil
		h.recovered = fmt.Errorf("%w: %s: %v", ErrCorruptHistory, path, err)
		if renameErr := os.Rename(path, path+CorruptSuffix); renameErr != nil {
			return nil, fmt.Errorf("set aside corrupt history %s: %w", path, renameErr)
		}
		return h, nil
	}
	for i := range h.records {
		for j := range h.records[i].Messages {
			h.records[i].Messages[j].normalize()
		}
	}
	h.trimLocked()
	return h, nil
}

// Path returns the backing file.
func (h *JSONHistory) Path() string { return h.path }

// Recovered returns the decode failure that made the log start empty, or
// nil when the file was read normally.
func (h *JSONHistory) Recovered() error { return h.recovered }

// Save implements History.
func (h *JSONHistory) Save(_ context.Context, sessionID string, messages []Message) error {
	if len(messages) == 0 {
		return ErrNoMessages
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	kept := h.records[:0:0]
	for _, r := range h.records {
		if r.SessionID != sessionID {
			kept = append(kept, r)
		}
	}
	h.records = append(kept, newRecord(sessionID, messages, h.now()))
	h.trimLocked()
	return h.flushLocked()
}

// List implements History.
func (h *JSONHistory) List(_ context.Context) ([]Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Record(nil), h.records...), nil
}

// Get implements History.
func (h *JSONHistory) Get(_ context.Context, sessionID string) (*Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := len(h.records) - 1; i >= 0; i-- {
		if h.records[i].SessionID == sessionID {
			r := h.records[i]
			return &r, nil
		}
	}
	return nil, ErrSessionNotFound
}

// Clear implements History.
func (h *JSONHistory) Clear(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = nil
	return h.flushLocked()
}

// Close implements History.
func (h *JSONHistory) Close() error { return nil }

func (h *JSONHistory) trimLocked() {
	if over := len(h.records) - h.maxSessions; over > 0 {
		h.records = append([]Record(nil), h.records[over:]...)
	}
}

// RELIABILITY: Atomic write with fsync prevents data loss on crash
func (h *JSONHistory) flushLocked() error {
	records := h.records
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := util.AtomicWriteFile(h.path, data, 0600); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// Open returns the history backend selected by cfg.
func Open(cfg config.HistoryConfig, paths config.Paths) (History, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		return NewSQLiteHistory(paths.Database, cfg.MaxSessions)
	case config.BackendJSON, "":
		return NewJSONHistory(paths.History, cfg.MaxSessions)
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}
