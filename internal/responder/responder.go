// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package responder picks the bot's next reply from the pattern table,
// the recent conversation window and the utterance's sentiment.
package responder

import (
	"math/rand"
	"strings"
	"time"

	"github.com/jeranaias/chatbuddy/internal/memory"
	"github.com/jeranaias/chatbuddy/internal/patterns"
	"github.com/jeranaias/chatbuddy/internal/sentiment"
	"github.com/jeranaias/chatbuddy/internal/util"
)

// Reply prefixes and contextual replies.
const (
	FineAfterHowAre = "Glad to hear you're doing well! 😊 "
	PositivePrefix  = "That's wonderful! 😊 "
	NegativePrefix  = "I'm here for you. ❤️ "

	GladReply  = "I'm glad to hear that! 😊 What would you like to talk about?"
	SorryReply = "I'm sorry to hear that. I'm here to chat if you want to talk about it. ❤️"
)

// Fallbacks are used when nothing else applies.
var Fallbacks = []string{
	"That's interesting! Tell me more about it.",
	"I'm not sure I understand. Could you rephrase that?",
	"I'm still learning about that topic. What else would you like to chat about?",
	"Thanks for sharing! How's your day going?",
}

var (
	upbeatWords = []string{"good", "great", "fine", "well"}
	downWords   = []string{"bad", "sad", "not good", "tired"}
)

// Rand is the randomness the selector needs. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Selector chooses replies. It holds no conversation state; everything
// it reads is passed to SelectReply.
type Selector struct {
	table *patterns.Table
	rnd   Rand
}

// New creates a selector over table. A nil rnd gets a time-seeded source.
func New(table *patterns.Table, rnd Rand) *Selector {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{table: table, rnd: rnd}
}

// SelectReply composes the reply to utterance. window is the recent
// conversation, oldest first; only its last exchange is consulted. The
// result is never empty.
//
// A pattern match picks one of the category's replies, optionally
// prefixed: first a context prefix when the user answers "fine" to a
// "how are" question they asked, then a sentiment prefix outside it.
// Without a match, an answer to the bot's own "how are" question gets a
// glad or sorry reply; anything else gets a random fallback.
func (s *Selector) SelectReply(utterance string, window []memory.Exchange, mood sentiment.Result) string {
	lower := strings.ToLower(utterance)

	var last *memory.Exchange
	if len(window) > 0 {
		last = &window[len(window)-1]
	}

	if c, ok := s.table.FindCategory(utterance); ok {
		reply := s.pick(c.Responses)

		if last != nil && strings.Contains(strings.ToLower(last.UserText), "how are") && strings.Contains(lower, "fine") {
			reply = FineAfterHowAre + reply
		}

		switch mood.Label {
		case sentiment.Positive:
			reply = PositivePrefix + reply
		case sentiment.Negative:
			reply = NegativePrefix + reply
		}
		return reply
	}

	if last != nil && strings.Contains(strings.ToLower(last.BotText), "how are") {
		if util.ContainsAny(lower, upbeatWords...) {
			return GladReply
		}
		if util.ContainsAny(lower, downWords...) {
			return SorryReply
		}
	}

	return s.pick(Fallbacks)
}

func (s *Selector) pick(options []string) string {
	if len(options) == 0 {
		return Fallbacks[0]
	}
	i := s.rnd.Intn(len(options))
	if i < 0 || i >= len(options) {
		i = 0
	}
	return options[i]
}
