// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// savedAtLayout sorts lexically in time order.
const savedAtLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteHistory keeps the history log in a SQLite database.
type SQLiteHistory struct {
	db          *sql.DB
	maxSessions int

	mu      sync.Mutex // guards entropy
	entropy *rand.Rand
	now     func() time.Time
}

// NewSQLiteHistory opens or creates the database at dbPath.
func NewSQLiteHistory(dbPath string, maxSessions int) (*SQLiteHistory, error) {
	if maxSessions < 1 {
		maxSessions = DefaultMaxSessions
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	h := &SQLiteHistory{
		db:          db,
		maxSessions: maxSessions,
		entropy:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
	}
	if err := h.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return h, nil
}

func (h *SQLiteHistory) newID(t time.Time) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), h.entropy).String()
}

func (h *SQLiteHistory) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id            TEXT PRIMARY KEY,
		session_id    TEXT NOT NULL UNIQUE,
		saved_at      TEXT NOT NULL,
		message_count INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_saved ON sessions(saved_at);

	CREATE TABLE IF NOT EXISTS messages (
		id          TEXT PRIMARY KEY,
		session_ref TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		seq         INTEGER NOT NULL,
		msg_id      TEXT,
		sender      TEXT,
		body        TEXT,
		type        TEXT NOT NULL,
		ts          TEXT,
		filename    TEXT,
		path        TEXT,
		size_kb     REAL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_ref, seq);
	`
	_, err := h.db.Exec(schema)
	return err
}

// Save implements History.
func (h *SQLiteHistory) Save(ctx context.Context, sessionID string, messages []Message) error {
	if len(messages) == 0 {
		return ErrNoMessages
	}
	now := h.now().UTC()

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Replacing a session re-inserts it so it becomes the newest.
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}

	ref := h.newID(now)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, session_id, saved_at, message_count) VALUES (?, ?, ?, ?)`,
		ref, sessionID, now.Format(savedAtLayout), len(messages)); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for i, m := range messages {
		var ts *string
		if !m.Timestamp.IsZero() {
			s := m.Timestamp.Format(time.RFC3339Nano)
			ts = &s
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (id, session_ref, seq, msg_id, sender, body, type, ts, filename, path, size_kb)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.newID(now), ref, i, m.ID, m.Sender, m.Message, string(m.Type), ts, m.Filename, m.Path, m.SizeKB); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM sessions WHERE id NOT IN (
			SELECT id FROM sessions ORDER BY saved_at DESC, id DESC LIMIT ?
		)`, h.maxSessions); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}

	return tx.Commit()
}

// List implements History.
func (h *SQLiteHistory) List(ctx context.Context) ([]Record, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, session_id, saved_at, message_count FROM sessions ORDER BY saved_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}

	type head struct {
		ref string
		rec Record
	}
	var heads []head
	for rows.Next() {
		var hd head
		var savedAt string
		if err := rows.Scan(&hd.ref, &hd.rec.SessionID, &savedAt, &hd.rec.MessageCount); err != nil {
			rows.Close()
			return nil, err
		}
		hd.rec.Timestamp = NewTimestamp(parseSavedAt(savedAt))
		heads = append(heads, hd)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(heads))
	for _, hd := range heads {
		msgs, err := h.messages(ctx, hd.ref)
		if err != nil {
			return nil, err
		}
		hd.rec.Messages = msgs
		records = append(records, hd.rec)
	}
	return records, nil
}

// Get implements History.
func (h *SQLiteHistory) Get(ctx context.Context, sessionID string) (*Record, error) {
	var ref, savedAt string
	rec := Record{SessionID: sessionID}
	err := h.db.QueryRowContext(ctx,
		`SELECT id, saved_at, message_count FROM sessions WHERE session_id = ?`, sessionID).
		Scan(&ref, &savedAt, &rec.MessageCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.Timestamp = NewTimestamp(parseSavedAt(savedAt))

	if rec.Messages, err = h.messages(ctx, ref); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (h *SQLiteHistory) messages(ctx context.Context, ref string) ([]Message, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT msg_id, sender, body, type, ts, filename, path, size_kb
		 FROM messages WHERE session_ref = ? ORDER BY seq`, ref)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var (
			m                                    Message
			msgID, sender, body, filename, fpath sql.NullString
			ts                                   sql.NullString
			typ                                  string
			size                                 sql.NullFloat64
		)
		if err := rows.Scan(&msgID, &sender, &body, &typ, &ts, &filename, &fpath, &size); err != nil {
			return nil, err
		}
		m.ID = msgID.String
		m.Sender = sender.String
		m.Message = body.String
		m.Type = MessageType(typ)
		if ts.Valid {
			m.Timestamp = NewTimestamp(ParseTimestamp(ts.String))
		}
		m.Filename = filename.String
		m.Path = fpath.String
		m.SizeKB = size.Float64
		m.normalize()
		out = append(out, m)
	}
	return out, rows.Err()
}

// Clear implements History.
func (h *SQLiteHistory) Clear(ctx context.Context) error {
	_, err := h.db.ExecContext(ctx, `DELETE FROM sessions`)
	return err
}

// Close implements History.
func (h *SQLiteHistory) Close() error {
	return h.db.Close()
}

func parseSavedAt(s string) time.Time {
	t, err := time.Parse(savedAtLayout, s)
	if err != nil {
		return ParseTimestamp(s)
	}
	return t.Local()
}
