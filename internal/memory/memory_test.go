// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package memory

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exchange(i int) Exchange {
	return Exchange{
		UserText:   fmt.Sprintf("user %d", i),
		BotText:    fmt.Sprintf("bot %d", i),
		OccurredAt: time.Date(2024, 1, 1, 12, 0, i, 0, time.UTC),
	}
}

func userTexts(ex []Exchange) []string {
	out := make([]string, len(ex))
	for i, e := range ex {
		out[i] = e.UserText
	}
	return out
}

func TestNew_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New(0).Cap())
	assert.Equal(t, DefaultCapacity, New(-3).Cap())
	assert.Equal(t, 4, New(4).Cap())
	assert.Equal(t, DefaultMood, New(4).UserMood())
}

func TestAppend_EvictsOldest(t *testing.T) {
	m := New(3)
	for i := 1; i <= 5; i++ {
		m.Append(exchange(i))
		assert.LessOrEqual(t, m.Len(), m.Cap())
	}

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"user 3", "user 4", "user 5"}, userTexts(m.All()))

	last, ok := m.Last()
	require.True(t, ok)
	assert.Equal(t, "user 5", last.UserText)
}

func TestAppend_ElevenIntoTen(t *testing.T) {
	m := New(10)
	for i := 1; i <= 11; i++ {
		m.Append(exchange(i))
	}
	all := m.All()
	require.Len(t, all, 10)
	assert.Equal(t, "user 2", all[0].UserText)
	assert.Equal(t, "user 11", all[9].UserText)
}

func TestRecent(t *testing.T) {
	m := New(10)
	assert.Nil(t, m.Recent(3), "empty window")

	m.Append(exchange(1))
	m.Append(exchange(2))

	assert.Equal(t, []string{"user 1", "user 2"}, userTexts(m.Recent(3)), "short window returns everything")
	assert.Equal(t, []string{"user 2"}, userTexts(m.Recent(1)))
	assert.Nil(t, m.Recent(0))
	assert.Nil(t, m.Recent(-1))
}

func TestRecent_ReturnsCopy(t *testing.T) {
	m := New(2)
	m.Append(exchange(1))
	got := m.Recent(1)
	got[0].UserText = "mutated"
	assert.Equal(t, "user 1", m.All()[0].UserText)
}

func TestClear_Idempotent(t *testing.T) {
	m := New(3)
	m.Append(exchange(1))
	m.SetMood("negative")

	m.Clear()
	assert.Zero(t, m.Len())
	assert.Equal(t, DefaultMood, m.UserMood())
	_, ok := m.UserName()
	assert.False(t, ok)

	m.Clear()
	assert.Zero(t, m.Len())
	assert.Equal(t, DefaultMood, m.UserMood())

	m.Append(exchange(9))
	assert.Equal(t, []string{"user 9"}, userTexts(m.All()))
}

func TestLoad_KeepsNewest(t *testing.T) {
	m := New(10)
	m.Append(exchange(99))

	var in []Exchange
	for i := 1; i <= 15; i++ {
		in = append(in, exchange(i))
	}
	m.Load(in)

	all := m.All()
	require.Len(t, all, 10)
	want := make([]string, 0, 10)
	for i := 6; i <= 15; i++ {
		want = append(want, fmt.Sprintf("user %d", i))
	}
	assert.Equal(t, want, userTexts(all))
}

func TestLoad_Empty(t *testing.T) {
	m := New(3)
	m.Append(exchange(1))
	m.Load(nil)
	assert.Zero(t, m.Len())
}

func TestSetMood(t *testing.T) {
	m := New(3)
	m.SetMood("positive")
	assert.Equal(t, "positive", m.UserMood())
	m.SetMood("")
	assert.Equal(t, DefaultMood, m.UserMood())
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		users []string
		want  string
	}{
		{"empty", nil, "No conversation yet"},
		{"various", []string{"what is the weather"}, "Topics discussed: Various"},
		{"greeting", []string{"Hello!"}, "Topics discussed: greeting"},
		{
			"fixed order",
			[]string{"bye now", "tell me a joke", "how are you", "hey"},
			"Topics discussed: greeting, mood inquiry, humor, farewell",
		},
		{"repeated topic once", []string{"hi", "hello", "hey"}, "Topics discussed: greeting"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(10)
			for _, u := range tt.users {
				m.Append(Exchange{UserText: u, BotText: "ok"})
			}
			assert.Equal(t, tt.want, m.Summarize())
		})
	}
}

func TestExchangeClock(t *testing.T) {
	assert.Equal(t, "12:00:07", exchange(7).Clock())
}
