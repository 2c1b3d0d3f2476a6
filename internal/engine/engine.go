// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine ties the conversation core together: it classifies each
// utterance, selects a reply from the memory window and pattern table,
// and commits the exchange once the reply is delivered.
//
// Every clear or load starts a new generation. Turns carry the generation
// they were submitted in, and a turn from an older generation is never
// committed, so a reply still "typing" when the chat is cleared is
// dropped instead of leaking into the fresh conversation.
package engine

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jeranaias/chatbuddy/internal/memory"
	"github.com/jeranaias/chatbuddy/internal/patterns"
	"github.com/jeranaias/chatbuddy/internal/responder"
	"github.com/jeranaias/chatbuddy/internal/sentiment"
	"github.com/jeranaias/chatbuddy/internal/session"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Default typing delay bounds.
const (
	DefaultTypingMin     = 800 * time.Millisecond
	DefaultTypingMax     = 1300 * time.Millisecond
	DefaultContextWindow = 3
)

// Options configures an Engine. Zero values get defaults.
type Options struct {
	// Capacity is the memory window size.
	Capacity int

	// ContextWindow is how many recent exchanges the selector sees.
	ContextWindow int

	// TypingMin and TypingMax bound the simulated typing delay.
	TypingMin time.Duration
	TypingMax time.Duration

	Classifier sentiment.Classifier
	Table      *patterns.Table

	// Rand drives reply choice and typing delay. Nil seeds from the clock.
	Rand responder.Rand

	Logger logrus.FieldLogger

	// Now is the clock. Nil uses time.Now.
	Now func() time.Time
}

func (o *Options) setDefaults() {
	if o.Capacity < 1 {
		o.Capacity = memory.DefaultCapacity
	}
	if o.ContextWindow < 1 {
		o.ContextWindow = DefaultContextWindow
	}
	if o.TypingMin <= 0 && o.TypingMax <= 0 {
		o.TypingMin, o.TypingMax = DefaultTypingMin, DefaultTypingMax
	}
	if o.TypingMax < o.TypingMin {
		o.TypingMax = o.TypingMin
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Table == nil {
		o.Table = patterns.DefaultTable(o.Now())
	}
	if o.Classifier == nil {
		o.Classifier = sentiment.KeywordClassifier{}
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(o.Now().UnixNano()))
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		o.Logger = l
	}
}

// =============================================================================
// ENGINE
// =============================================================================

// Turn is one submitted utterance and its selected reply, not yet
// committed to memory.
type Turn struct {
	Utterance   string
	Sentiment   sentiment.Result
	Reply       string
	Generation  uint64
	SubmittedAt time.Time
}

// Engine owns the conversation state. All methods are safe for
// concurrent use.
type Engine struct {
	mu sync.Mutex

	opts     Options
	memory   *memory.Memory
	counters *session.Counters
	selector *responder.Selector

	generation uint64
	genCtx     context.Context
	genCancel  context.CancelFunc

	closed bool
	wg     sync.WaitGroup
}

// New creates an engine with an empty memory and a fresh session.
func New(opts Options) *Engine {
	opts.setDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		opts:      opts,
		memory:    memory.New(opts.Capacity),
		counters:  session.New(opts.Now()),
		selector:  responder.New(opts.Table, opts.Rand),
		genCtx:    ctx,
		genCancel: cancel,
	}
}

// Submit classifies text and selects a reply using the recent window. The
// user's mood and message counter are updated; memory is not, until the
// turn is committed.
func (e *Engine) Submit(text string) Turn {
	text = strings.TrimSpace(text)
	mood := e.opts.Classifier.Classify(text)

	e.mu.Lock()
	defer e.mu.Unlock()

	window := e.memory.Recent(e.opts.ContextWindow)
	reply := e.selector.SelectReply(text, window, mood)

	e.memory.SetMood(string(mood.Label))
	e.counters.RecordUser()

	e.opts.Logger.WithFields(logrus.Fields{
		"session_id": e.counters.SessionID(),
		"sentiment":  mood.Label,
		"score":      mood.Score,
		"generation": e.generation,
	}).Debug("Utterance submitted")

	return Turn{
		Utterance:   text,
		Sentiment:   mood,
		Reply:       reply,
		Generation:  e.generation,
		SubmittedAt: e.opts.Now(),
	}
}

// Commit appends the turn's exchange and counts the bot message. Turns
// from an earlier generation are discarded and Commit returns false.
func (e *Engine) Commit(turn Turn) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if turn.Generation != e.generation {
		e.opts.Logger.WithFields(logrus.Fields{
			"turn_generation": turn.Generation,
			"generation":      e.generation,
		}).Debug("Discarded stale reply")
		return false
	}

	now := e.opts.Now()
	e.memory.Append(memory.Exchange{
		UserText:   turn.Utterance,
		BotText:    turn.Reply,
		OccurredAt: now,
	})
	e.counters.RecordBot()
	if !turn.SubmittedAt.IsZero() {
		e.counters.RecordResponse(now.Sub(turn.SubmittedAt))
	}
	return true
}

// Deliver commits turn after a random typing delay, without blocking the
// caller, then calls fn with the turn and whether it was committed.
// Cancelling ctx, clearing or loading the chat, or closing the engine
// during the delay stops delivery and fn is not called. A clear that
// lands after the delay but before the commit still calls fn, with
// committed=false.
func (e *Engine) Deliver(ctx context.Context, turn Turn, fn func(Turn, bool)) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	delay := e.typingDelayLocked()
	genCtx := e.genCtx
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-genCtx.Done():
			return
		case <-timer.C:
		}

		committed := e.Commit(turn)
		if fn != nil {
			fn(turn, committed)
		}
	}()
}

// TypingDelay returns a random delay within the configured bounds.
func (e *Engine) TypingDelay() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.typingDelayLocked()
}

func (e *Engine) typingDelayLocked() time.Duration {
	span := e.opts.TypingMax - e.opts.TypingMin
	if span <= 0 {
		return e.opts.TypingMin
	}
	ms := int(span / time.Millisecond)
	if ms <= 0 {
		return e.opts.TypingMin
	}
	return e.opts.TypingMin + time.Duration(e.opts.Rand.Intn(ms+1))*time.Millisecond
}

// Clear empties memory, starts a new session and invalidates every
// pending turn.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.memory.Clear()
	e.counters = session.New(e.opts.Now())
	e.nextGenerationLocked()

	e.opts.Logger.WithField("session_id", e.counters.SessionID()).Info("Chat cleared")
}

// Load replaces memory with exchanges, keeping the newest Capacity of
// them. Pending turns are invalidated as they belong to the replaced
// conversation.
func (e *Engine) Load(exchanges []memory.Exchange) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.memory.Load(exchanges)
	e.nextGenerationLocked()

	e.opts.Logger.WithFields(logrus.Fields{
		"supplied": len(exchanges),
		"kept":     e.memory.Len(),
	}).Info("Memory loaded")
}

func (e *Engine) nextGenerationLocked() {
	e.generation++
	e.genCancel()
	e.genCtx, e.genCancel = context.WithCancel(context.Background())
}

// Close cancels pending deliveries and waits for their goroutines.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.genCancel()
	e.mu.Unlock()

	e.wg.Wait()
}

// =============================================================================
// READ ACCESSORS
// =============================================================================

// DisplayReply returns the reply as shown to the user: the sentiment
// emoji leads unless the utterance was neutral.
func DisplayReply(turn Turn) string {
	if turn.Sentiment.Label == sentiment.Neutral || turn.Sentiment.Label == "" {
		return turn.Reply
	}
	return turn.Sentiment.Emoji + " " + turn.Reply
}

// Classify runs the engine's classifier without touching any state.
func (e *Engine) Classify(text string) sentiment.Result {
	return e.opts.Classifier.Classify(text)
}

// ClassifierName reports the active sentiment strategy.
func (e *Engine) ClassifierName() string {
	return e.opts.Classifier.Name()
}

// Exchanges returns the memory window, oldest first.
func (e *Engine) Exchanges() []memory.Exchange {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.memory.All()
}

// Summary returns the topic summary of the memory window.
func (e *Engine) Summary() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.memory.Summarize()
}

// Mood returns the last classified user mood.
func (e *Engine) Mood() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.memory.UserMood()
}

// MemoryUsage returns the number of stored exchanges and the capacity.
func (e *Engine) MemoryUsage() (used, capacity int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.memory.Len(), e.memory.Cap()
}

// ContextWindow returns how many exchanges the selector sees.
func (e *Engine) ContextWindow() int {
	return e.opts.ContextWindow
}

// SessionID returns the current session ID.
func (e *Engine) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counters.SessionID()
}

// Stats snapshots the current session counters.
func (e *Engine) Stats() session.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counters.Stats(e.opts.Now())
}

// Generation returns the current generation.
func (e *Engine) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}
