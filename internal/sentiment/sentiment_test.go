// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sentiment

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordClassifier(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		label Label
		score float64
	}{
		{"empty", "", Neutral, 0},
		{"positive", "I love this, it's great", Positive, 0.5},
		{"negative", "I am so tired and sad today", Negative, -0.5},
		{"tie", "good and bad", Neutral, 0},
		{"case insensitive", "AWESOME", Positive, 0.5},
		{"substring counts once", "good good good bad sad", Negative, -0.5},
		{"goodbye contains good", "goodbye", Positive, 0.5},
	}

	c := KeywordClassifier{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			assert.Equal(t, tt.label, got.Label)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, tt.label.Emoji(), got.Emoji)
		})
	}
}

func TestBucket(t *testing.T) {
	assert.Equal(t, Positive, Bucket(0.31).Label)
	assert.Equal(t, Neutral, Bucket(0.3).Label)
	assert.Equal(t, Neutral, Bucket(-0.3).Label)
	assert.Equal(t, Negative, Bucket(-0.31).Label)
	assert.Equal(t, 0.8, Bucket(0.8).Score)
}

func TestBackendClassifier_Degrades(t *testing.T) {
	tests := []struct {
		name   string
		scorer Scorer
	}{
		{"nil scorer", nil},
		{"error", ScorerFunc(func(string) (float64, error) { return 0.9, errors.New("offline") })},
		{"panic", ScorerFunc(func(string) (float64, error) { panic("boom") })},
		{"nan", ScorerFunc(func(string) (float64, error) { return math.NaN(), nil })},
		{"too high", ScorerFunc(func(string) (float64, error) { return 1.5, nil })},
		{"too low", ScorerFunc(func(string) (float64, error) { return -7, nil })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewBackendClassifier("test", tt.scorer, nil)
			var got Result
			require.NotPanics(t, func() { got = c.Classify("anything") })
			assert.Equal(t, NeutralResult(), got)
		})
	}
}

func TestBackendClassifier_Buckets(t *testing.T) {
	c := NewBackendClassifier("test", ScorerFunc(func(text string) (float64, error) {
		if text == "up" {
			return 0.6, nil
		}
		return -0.6, nil
	}), nil)

	assert.Equal(t, Positive, c.Classify("up").Label)
	assert.Equal(t, Negative, c.Classify("down").Label)
	assert.Equal(t, "test", c.Name())
}

func TestLexiconScorer(t *testing.T) {
	s, err := ParseLexicon([]byte("[words]\nhappy = 3\nsad = -2\nterrible = -5\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())

	score, err := s.Score("I'm HAPPY!")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, score, 1e-9)

	score, err = s.Score("sad and terrible")
	require.NoError(t, err)
	assert.InDelta(t, -0.7, score, 1e-9)

	score, err = s.Score("nothing here")
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestParseLexicon_Rejects(t *testing.T) {
	_, err := ParseLexicon([]byte("[words]\n"))
	assert.Error(t, err)

	_, err = ParseLexicon([]byte("[words]\nwow = 9\n"))
	assert.Error(t, err)

	_, err = ParseLexicon([]byte("not toml ==="))
	assert.Error(t, err)
}

func TestDefaultLexicon_Parses(t *testing.T) {
	s, err := ParseLexicon(DefaultLexicon)
	require.NoError(t, err)
	assert.Greater(t, s.Len(), 20)
}

func TestDetect(t *testing.T) {
	assert.Equal(t, "keyword", Detect("", nil).Name())
	assert.Equal(t, "keyword", Detect(filepath.Join(t.TempDir(), "missing.toml"), nil).Name())

	path := filepath.Join(t.TempDir(), "lexicon.toml")
	require.NoError(t, os.WriteFile(path, DefaultLexicon, 0644))

	c := Detect(path, nil)
	assert.Equal(t, "lexicon", c.Name())
	assert.Equal(t, Positive, c.Classify("what a wonderful day").Label)
	assert.Equal(t, Negative, c.Classify("I am so tired and sad today").Label)
}

func TestClassifiersAreTotal(t *testing.T) {
	s, err := ParseLexicon(DefaultLexicon)
	require.NoError(t, err)

	classifiers := []Classifier{KeywordClassifier{}, NewBackendClassifier("lexicon", s, nil)}
	inputs := []string{"", " ", "\x00\xff", "😊😊😊", "こんにちは"}
	for _, c := range classifiers {
		for _, in := range inputs {
			got := c.Classify(in)
			assert.Contains(t, []Label{Positive, Neutral, Negative}, got.Label)
			assert.GreaterOrEqual(t, got.Score, -1.0)
			assert.LessOrEqual(t, got.Score, 1.0)
		}
	}
}
