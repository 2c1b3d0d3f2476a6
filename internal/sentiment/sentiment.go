// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sentiment maps free text to a coarse three-way mood label.
//
// Two strategies share the Classifier interface: a keyword counter that
// needs nothing, and a backend classifier that buckets the continuous
// polarity of a Scorer. Detect picks one at startup and the choice holds
// for the process lifetime.
package sentiment

import (
	"strings"
)

// Label is the coarse sentiment classification.
type Label string

const (
	Positive Label = "positive"
	Neutral  Label = "neutral"
	Negative Label = "negative"
)

// Emoji returns the display glyph for the label.
func (l Label) Emoji() string {
	switch l {
	case Positive:
		return "😊"
	case Negative:
		return "😔"
	default:
		return "😐"
	}
}

// Result is the outcome of classifying one piece of text.
type Result struct {
	Label Label   `json:"label"`
	Score float64 `json:"score"` // in [-1, 1]
	Emoji string  `json:"emoji"`
}

// NeutralResult is returned whenever classification cannot do better.
func NeutralResult() Result {
	return newResult(Neutral, 0)
}

func newResult(label Label, score float64) Result {
	return Result{Label: label, Score: score, Emoji: label.Emoji()}
}

// Classifier turns text into a Result. Implementations never fail and
// never panic; anything unexpected yields NeutralResult.
type Classifier interface {
	Classify(text string) Result
	Name() string
}

// =============================================================================
// KEYWORD FALLBACK
// =============================================================================

var (
	positiveWords = []string{"good", "great", "love", "happy", "excellent", "awesome", "wonderful"}
	negativeWords = []string{"bad", "sad", "hate", "angry", "terrible", "awful", "upset"}
)

// KeywordClassifier counts fixed positive and negative words. Each word
// counts at most once and matches as a substring, so "goodbye" counts as
// "good". The score is a placeholder: +0.5, -0.5 or 0.
type KeywordClassifier struct{}

// Name implements Classifier.
func (KeywordClassifier) Name() string { return "keyword" }

// Classify implements Classifier.
func (KeywordClassifier) Classify(text string) Result {
	lower := strings.ToLower(text)

	pos, neg := 0, 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}

	switch {
	case pos > neg:
		return newResult(Positive, 0.5)
	case neg > pos:
		return newResult(Negative, -0.5)
	default:
		return NeutralResult()
	}
}
