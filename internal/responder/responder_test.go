// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package responder

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/chatbuddy/internal/memory"
	"github.com/jeranaias/chatbuddy/internal/patterns"
	"github.com/jeranaias/chatbuddy/internal/sentiment"
)

// fixedRand always returns the same index, clamped to n.
type fixedRand int

func (f fixedRand) Intn(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

var (
	now     = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	neutral = sentiment.NeutralResult()
)

func newSelector(r Rand) (*Selector, *patterns.Table) {
	table := patterns.DefaultTable(now)
	return New(table, r), table
}

func responsesFor(t *testing.T, table *patterns.Table, id string) []string {
	t.Helper()
	for _, c := range table.Categories() {
		if c.ID == id {
			return c.Responses
		}
	}
	t.Fatalf("no category %q", id)
	return nil
}

func TestSelectReply_HelloScenario(t *testing.T) {
	s, table := newSelector(nil)
	greetings := responsesFor(t, table, patterns.Greetings)

	for i := 0; i < 50; i++ {
		assert.Contains(t, greetings, s.SelectReply("hello", nil, neutral))
	}
}

func TestSelectReply_Deterministic(t *testing.T) {
	s, _ := newSelector(fixedRand(1))
	assert.Equal(t, "Hi there! 👋 Nice to see you!", s.SelectReply("hello", nil, neutral))
	assert.Equal(t, Fallbacks[1], s.SelectReply("xyzzy", nil, neutral))
}

func TestSelectReply_SentimentPrefix(t *testing.T) {
	s, _ := newSelector(fixedRand(0))

	pos := sentiment.Result{Label: sentiment.Positive, Score: 0.5}
	neg := sentiment.Result{Label: sentiment.Negative, Score: -0.5}

	assert.Equal(t, PositivePrefix+"Hello! 😊 How can I assist you today?", s.SelectReply("hello", nil, pos))
	assert.Equal(t, NegativePrefix+"Hello! 😊 How can I assist you today?", s.SelectReply("hello", nil, neg))
}

func TestSelectReply_ContextPrefixInsideSentiment(t *testing.T) {
	s, _ := newSelector(fixedRand(0))
	window := []memory.Exchange{{UserText: "How are you?", BotText: "All systems go! How about you?"}}

	// "fine, thanks" matches gratitude; the user's previous message asked "how are".
	got := s.SelectReply("fine, thanks", window, sentiment.Result{Label: sentiment.Positive})
	assert.Equal(t, PositivePrefix+FineAfterHowAre+"You're welcome! 😇", got)
}

func TestSelectReply_ThanksAfterHowAreBot(t *testing.T) {
	s, table := newSelector(nil)
	gratitude := responsesFor(t, table, patterns.Gratitude)
	window := []memory.Exchange{{UserText: "hello", BotText: "Hey! How are you today?"}}

	for i := 0; i < 20; i++ {
		assert.Contains(t, gratitude, s.SelectReply("thanks", window, neutral))
	}
}

func TestSelectReply_SympathyOnlyAfterHowAre(t *testing.T) {
	s, _ := newSelector(fixedRand(0))
	const utterance = "I am so tired and sad today"
	negative := sentiment.Result{Label: sentiment.Negative, Score: -0.5}

	asked := []memory.Exchange{{UserText: "hello", BotText: "All systems go! How are things with you?"}}
	assert.Equal(t, SorryReply, s.SelectReply(utterance, asked, negative))

	notAsked := []memory.Exchange{{UserText: "hello", BotText: "Hi there! 👋 Nice to see you!"}}
	assert.Contains(t, Fallbacks, s.SelectReply(utterance, notAsked, negative))
	assert.Contains(t, Fallbacks, s.SelectReply(utterance, nil, negative))
}

func TestSelectReply_GladAfterHowAre(t *testing.T) {
	s, _ := newSelector(fixedRand(0))
	window := []memory.Exchange{{UserText: "yo", BotText: "How are you doing?"}}
	assert.Equal(t, GladReply, s.SelectReply("pretty good", window, neutral))
}

func TestSelectReply_OnlyLastExchangeCounts(t *testing.T) {
	s, _ := newSelector(fixedRand(0))
	window := []memory.Exchange{
		{UserText: "yo", BotText: "How are you doing?"},
		{UserText: "meh", BotText: "That's interesting! Tell me more about it."},
	}
	assert.Equal(t, Fallbacks[0], s.SelectReply("pretty good", window, neutral))
}

// Every reply is a category response with at most one context prefix and
// at most one sentiment prefix, sentiment outermost.
func TestSelectReply_CandidateMembership(t *testing.T) {
	table := patterns.DefaultTable(now)
	s := New(table, rand.New(rand.NewSource(42)))

	var candidates []string
	for _, c := range table.Categories() {
		candidates = append(candidates, c.Responses...)
	}
	candidates = append(candidates, Fallbacks...)
	candidates = append(candidates, GladReply, SorryReply)

	utterances := []string{"hello", "fine thanks", "bye", "tell me a joke", "what time", "I'm fine", "asdf", "sad", "good"}
	windows := [][]memory.Exchange{
		nil,
		{{UserText: "how are you", BotText: "how are you?"}},
		{{UserText: "x", BotText: "y"}},
	}
	moods := []sentiment.Result{
		neutral,
		{Label: sentiment.Positive, Score: 0.5},
		{Label: sentiment.Negative, Score: -0.5},
	}

	for _, u := range utterances {
		for _, w := range windows {
			for _, mood := range moods {
				reply := s.SelectReply(u, w, mood)
				require.NotEmpty(t, reply)

				rest := reply
				for _, p := range []string{PositivePrefix, NegativePrefix} {
					rest = strings.TrimPrefix(rest, p)
				}
				rest = strings.TrimPrefix(rest, FineAfterHowAre)

				assert.Contains(t, candidates, rest, "reply %q", reply)
				assert.False(t, strings.HasPrefix(rest, PositivePrefix) || strings.HasPrefix(rest, NegativePrefix))
				assert.False(t, strings.HasPrefix(rest, FineAfterHowAre))
			}
		}
	}
}

func TestNew_NilTable(t *testing.T) {
	s := New(nil, fixedRand(2))
	assert.Equal(t, Fallbacks[2], s.SelectReply("hello", nil, neutral))
}
