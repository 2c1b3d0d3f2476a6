// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// MessageType classifies a displayed message.
type MessageType string

const (
	TypeUser       MessageType = "user"
	TypeBot        MessageType = "bot"
	TypeSystem     MessageType = "system"
	TypeError      MessageType = "error"
	TypeAttachment MessageType = "attachment"
)

// Valid reports whether t is a known message type.
func (t MessageType) Valid() bool {
	switch t {
	case TypeUser, TypeBot, TypeSystem, TypeError, TypeAttachment:
		return true
	}
	return false
}

// Display senders.
const (
	SenderUser   = "You"
	SenderSystem = "System"
)

// Message is one entry of the chat transcript. Attachment records carry
// the file fields instead of sender and text.
type Message struct {
	ID        string      `json:"id,omitempty"`
	Sender    string      `json:"sender,omitempty"`
	Message   string      `json:"message,omitempty"`
	Type      MessageType `json:"type"`
	Timestamp Timestamp   `json:"timestamp"`

	Filename string  `json:"filename,omitempty"`
	Path     string  `json:"path,omitempty"`
	SizeKB   float64 `json:"size,omitempty"`
}

// IsAttachment reports whether m records an attached file.
func (m Message) IsAttachment() bool {
	return m.Type == TypeAttachment
}

// normalize fills gaps left by hand-edited or foreign files.
func (m *Message) normalize() {
	if !m.Type.Valid() {
		m.Type = TypeSystem
	}
	if m.Sender == "" && !m.IsAttachment() {
		switch m.Type {
		case TypeUser:
			m.Sender = SenderUser
		default:
			m.Sender = SenderSystem
		}
	}
	if m.SizeKB < 0 {
		m.SizeKB = 0
	}
}

// =============================================================================
// TIMESTAMP
// =============================================================================

// Timestamp is a time that encodes as ISO-8601 and decodes leniently:
// RFC 3339, ISO-8601 without zone, "YYYY-MM-DD HH:MM:SS" and Unix epoch
// seconds are all accepted. Anything unparseable becomes the zero time.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler. It never fails.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] != '"' {
		if secs, err := strconv.ParseFloat(string(data), 64); err == nil && secs > 0 {
			whole := int64(secs)
			t.Time = time.Unix(whole, int64((secs-float64(whole))*1e9))
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	t.Time = ParseTimestamp(s)
	return nil
}

// ParseTimestamp parses s with the accepted layouts, returning the zero
// time when none match.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// =============================================================================
// MESSAGE LOG
// =============================================================================

// MessageLog records every message shown in the current session. It is
// safe for concurrent use.
type MessageLog struct {
	mu       sync.Mutex
	messages []Message
	now      func() time.Time
}

// NewMessageLog creates an empty log.
func NewMessageLog() *MessageLog {
	return &MessageLog{now: time.Now}
}

// Add appends a message and returns the stored record.
func (l *MessageLog) Add(sender, text string, typ MessageType) Message {
	msg := Message{
		ID:        uuid.New().String(),
		Sender:    sender,
		Message:   text,
		Type:      typ,
		Timestamp: NewTimestamp(l.now()),
	}
	msg.normalize()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
	return msg
}

// Attach records the file at path: a system notice followed by the
// attachment record. The notice text is returned for display.
func (l *MessageLog) Attach(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("attach file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("attach file: %s is a directory", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	name := filepath.Base(path)
	sizeKB := float64(info.Size()) / 1024
	notice := fmt.Sprintf("📎 Attached: %s (%.1f KB)", name, sizeKB)

	l.Add(SenderSystem, notice, TypeSystem)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, Message{
		ID:        uuid.New().String(),
		Type:      TypeAttachment,
		Filename:  name,
		Path:      abs,
		SizeKB:    sizeKB,
		Timestamp: NewTimestamp(l.now()),
	})
	return notice, nil
}

// Messages returns a copy of the log.
func (l *MessageLog) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Message(nil), l.messages...)
}

// Len returns the number of recorded messages.
func (l *MessageLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

// Clear empties the log.
func (l *MessageLog) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = nil
}

// Replace swaps in messages, normalizing each.
func (l *MessageLog) Replace(messages []Message) {
	cp := make([]Message, len(messages))
	for i, m := range messages {
		m.normalize()
		cp[i] = m
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = cp
}

// UserTexts returns the text of every user message in order.
func (l *MessageLog) UserTexts() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, m := range l.messages {
		if m.Type == TypeUser {
			out = append(out, m.Message)
		}
	}
	return out
}

// LastUser returns the newest user message text.
func (l *MessageLog) LastUser() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.messages) - 1; i >= 0; i-- {
		if l.messages[i].Type == TypeUser {
			return l.messages[i].Message, true
		}
	}
	return "", false
}
