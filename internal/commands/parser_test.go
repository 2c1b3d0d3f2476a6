// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCommandLine(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"/help", []string{"/help"}},
		{"/save  chat.json", []string{"/save", "chat.json"}},
		{`/save "my chat.json"`, []string{"/save", "my chat.json"}},
		{`/save 'it''s'`, []string{"/save", "its"}},
		{`/save "say \"hi\""`, []string{"/save", `say "hi"`}},
		{`/save ""`, []string{"/save", ""}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, splitCommandLine(tt.input))
		})
	}
}

func TestParser_Parse(t *testing.T) {
	p := NewParser(NewRegistry())

	res := p.Parse("hello")
	assert.False(t, res.IsCommand)

	res = p.Parse("  /Load-Session  notes.chat ")
	require.True(t, res.IsCommand)
	assert.Equal(t, "/load-session", res.CommandName)
	require.NotNil(t, res.Command)
	assert.Equal(t, "/load-session", res.Command.Name)
	assert.Equal(t, []string{"notes.chat"}, res.Args)

	res = p.Parse("/load x")
	require.NotNil(t, res.Command)
	assert.Equal(t, "/load-session", res.Command.Name)

	res = p.Parse(`/Attach "/tmp/my notes.txt"`)
	require.NotNil(t, res.Command)
	assert.Equal(t, "/attach", res.Command.Name)
	assert.Equal(t, []string{"/tmp/my notes.txt"}, res.Args)

	res = p.Parse("/nope")
	assert.True(t, res.IsCommand)
	assert.Nil(t, res.Command)
	assert.Equal(t, "/nope", res.CommandName)
}

func TestValidateArgs(t *testing.T) {
	r := NewRegistry()

	assert.NoError(t, ValidateArgs(r.Get("/theme"), []string{"BLUE"}))
	assert.NoError(t, ValidateArgs(r.Get("/notify"), nil))
	assert.NoError(t, ValidateArgs(nil, nil))

	err := ValidateArgs(r.Get("/theme"), nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Arg)
	assert.Contains(t, err.Error(), "usage: /theme <Light|Dark|Blue>")

	err = ValidateArgs(r.Get("/notify"), []string{"maybe"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "maybe", verr.Got)
	assert.Equal(t, "on, off", verr.Expected)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{
		"/clear", "/stats", "/summary", "/mood", "/sentiment", "/history",
		"/clear-history", "/save", "/export", "/save-session", "/load-session",
		"/attach", "/theme", "/notify", "/autosave", "/help", "/about", "/copy", "/quit",
	} {
		assert.NotNil(t, r.Get(name), name)
	}
	assert.Same(t, r.Get("/quit"), r.Get("/q"))

	all := r.All()
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}

	byCat := r.ByCategory()
	for cat := range byCat {
		assert.Contains(t, Categories, cat)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "chat.json"), expandPath("~/chat.json"))
	assert.Equal(t, "rel/chat.json", expandPath("rel/chat.json"))
	assert.Equal(t, "a.chat", withDefaultExt("a", ".chat"))
	assert.Equal(t, "a.json", withDefaultExt("a.json", ".chat"))
}
