// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/jeranaias/chatbuddy/internal/util"
)

// =============================================================================
// SESSION COUNTERS
// =============================================================================

// Counters tracks one chat session. Counts only ever go up; clearing the
// chat creates a new Counters instead of resetting this one.
type Counters struct {
	mu sync.Mutex

	sessionID string
	startedAt time.Time

	messages     int
	userMessages int
	botMessages  int

	// Reply latency, measured from submit to delivery.
	responseTotal time.Duration
	responses     int
}

// New starts a session at now.
func New(now time.Time) *Counters {
	return &Counters{
		sessionID: FormatSessionID(now),
		startedAt: now,
	}
}

// FormatSessionID renders the session ID for a start time.
func FormatSessionID(t time.Time) string {
	return t.Format("20060102_150405")
}

// SessionID returns the session identifier.
func (c *Counters) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// StartedAt returns when the session began.
func (c *Counters) StartedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startedAt
}

// RecordUser counts one user message.
func (c *Counters) RecordUser() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages++
	c.userMessages++
}

// RecordBot counts one bot message.
func (c *Counters) RecordBot() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages++
	c.botMessages++
}

// RecordResponse adds one reply latency to the running average.
func (c *Counters) RecordResponse(d time.Duration) {
	if d < 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responseTotal += d
	c.responses++
}

// =============================================================================
// STATS
// =============================================================================

// Stats is a display snapshot of the counters.
type Stats struct {
	SessionID       string `json:"session_id"`
	Duration        string `json:"duration"`
	TotalMessages   int    `json:"total_messages"`
	UserMessages    int    `json:"user_messages"`
	BotMessages     int    `json:"bot_messages"`
	StartTime       string `json:"start_time"`
	AvgResponseTime string `json:"avg_response_time"`
}

// Stats snapshots the counters as of now.
func (c *Counters) Stats(now time.Time) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	avg := "n/a"
	if c.responses > 0 {
		mean := c.responseTotal / time.Duration(c.responses)
		avg = fmt.Sprintf("%.1fs", mean.Seconds())
	}

	return Stats{
		SessionID:       c.sessionID,
		Duration:        util.FormatClock(now.Sub(c.startedAt)),
		TotalMessages:   c.messages,
		UserMessages:    c.userMessages,
		BotMessages:     c.botMessages,
		StartTime:       c.startedAt.Format("2006-01-02 15:04:05"),
		AvgResponseTime: avg,
	}
}
