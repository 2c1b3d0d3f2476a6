// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package memory implements the bounded short-term conversation window.
//
// Memory is a fixed-capacity ring of exchanges: appending to a full window
// evicts the oldest exchange. It is not safe for concurrent use; the
// engine serializes access.
package memory

import (
	"strings"
	"time"
)

// DefaultCapacity is the window size when none is configured.
const DefaultCapacity = 10

// DefaultMood is the mood before anything has been classified.
const DefaultMood = "neutral"

// Exchange is one user utterance paired with the bot's reply.
type Exchange struct {
	UserText   string    `json:"user"`
	BotText    string    `json:"bot"`
	OccurredAt time.Time `json:"timestamp"`
}

// Clock returns the exchange time as HH:MM:SS.
func (e Exchange) Clock() string {
	return e.OccurredAt.Format("15:04:05")
}

// Memory is the bounded conversation window.
type Memory struct {
	buf   []Exchange
	head  int // index of the oldest exchange
	count int

	// userName is never populated by the chat flow. It exists so a future
	// "call me X" feature has somewhere to live; Clear resets it.
	userName string
	userMood string
}

// New creates a memory window holding at most capacity exchanges. A
// capacity below 1 falls back to DefaultCapacity.
func New(capacity int) *Memory {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Memory{
		buf:      make([]Exchange, capacity),
		userMood: DefaultMood,
	}
}

// Cap returns the window capacity.
func (m *Memory) Cap() int { return len(m.buf) }

// Len returns the number of stored exchanges.
func (m *Memory) Len() int { return m.count }

// Append adds e as the newest exchange, evicting the oldest when full.
func (m *Memory) Append(e Exchange) {
	if m.count < len(m.buf) {
		m.buf[(m.head+m.count)%len(m.buf)] = e
		m.count++
		return
	}
	m.buf[m.head] = e
	m.head = (m.head + 1) % len(m.buf)
}

// Recent returns the last min(k, Len) exchanges, oldest first. k <= 0
// returns nil.
func (m *Memory) Recent(k int) []Exchange {
	if k <= 0 || m.count == 0 {
		return nil
	}
	if k > m.count {
		k = m.count
	}
	out := make([]Exchange, k)
	start := m.count - k
	for i := 0; i < k; i++ {
		out[i] = m.at(start + i)
	}
	return out
}

// All returns every stored exchange, oldest first.
func (m *Memory) All() []Exchange {
	return m.Recent(m.count)
}

// Last returns the newest exchange.
func (m *Memory) Last() (Exchange, bool) {
	if m.count == 0 {
		return Exchange{}, false
	}
	return m.at(m.count - 1), true
}

// Clear empties the window and resets the derived state. Idempotent.
func (m *Memory) Clear() {
	for i := range m.buf {
		m.buf[i] = Exchange{}
	}
	m.head = 0
	m.count = 0
	m.userName = ""
	m.userMood = DefaultMood
}

// Load replaces the contents with exchanges. When more than Cap are
// supplied only the newest Cap are kept. Derived state is left alone.
func (m *Memory) Load(exchanges []Exchange) {
	for i := range m.buf {
		m.buf[i] = Exchange{}
	}
	m.head = 0
	m.count = 0

	if over := len(exchanges) - len(m.buf); over > 0 {
		exchanges = exchanges[over:]
	}
	for _, e := range exchanges {
		m.Append(e)
	}
}

// SetMood records the most recent sentiment label for the user.
func (m *Memory) SetMood(mood string) {
	if mood == "" {
		mood = DefaultMood
	}
	m.userMood = mood
}

// UserMood returns the most recent sentiment label, "neutral" by default.
func (m *Memory) UserMood() string { return m.userMood }

// UserName returns the user's name if one was ever set.
func (m *Memory) UserName() (string, bool) {
	return m.userName, m.userName != ""
}

func (m *Memory) at(i int) Exchange {
	return m.buf[(m.head+i)%len(m.buf)]
}

// =============================================================================
// SUMMARY
// =============================================================================

// topics are checked in this order and reported in this order.
var topics = []struct {
	name  string
	words []string
}{
	{"greeting", []string{"hello", "hi", "hey"}},
	{"mood inquiry", []string{"how are", "how do you"}},
	{"humor", []string{"joke", "funny"}},
	{"farewell", []string{"bye", "goodbye"}},
}

// Summarize lists the topics found in the user side of the window.
func (m *Memory) Summarize() string {
	if m.count == 0 {
		return "No conversation yet"
	}

	found := make([]bool, len(topics))
	for i := 0; i < m.count; i++ {
		text := strings.ToLower(m.at(i).UserText)
		for ti, topic := range topics {
			if found[ti] {
				continue
			}
			for _, w := range topic.words {
				if strings.Contains(text, w) {
					found[ti] = true
					break
				}
			}
		}
	}

	var names []string
	for ti, ok := range found {
		if ok {
			names = append(names, topics[ti].name)
		}
	}
	if len(names) == 0 {
		return "Topics discussed: Various"
	}
	return "Topics discussed: " + strings.Join(names, ", ")
}
