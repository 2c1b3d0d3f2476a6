// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sentiment

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// Polarity thresholds for bucketing a continuous score.
const (
	PositiveThreshold = 0.3
	NegativeThreshold = -0.3
)

// Scorer produces a continuous polarity in [-1, 1] for text.
type Scorer interface {
	Score(text string) (float64, error)
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(text string) (float64, error)

// Score implements Scorer.
func (f ScorerFunc) Score(text string) (float64, error) { return f(text) }

// BackendClassifier buckets a Scorer's polarity into a Label.
type BackendClassifier struct {
	scorer Scorer
	name   string
	logger logrus.FieldLogger
}

// NewBackendClassifier wraps scorer. A nil logger discards.
func NewBackendClassifier(name string, scorer Scorer, logger logrus.FieldLogger) *BackendClassifier {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &BackendClassifier{scorer: scorer, name: name, logger: logger}
}

// Name implements Classifier.
func (b *BackendClassifier) Name() string { return b.name }

// Classify implements Classifier. Scorer errors, panics, NaN and
// out-of-range scores all degrade to NeutralResult.
func (b *BackendClassifier) Classify(text string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.WithField("panic", fmt.Sprint(r)).Debug("Sentiment scorer panicked")
			result = NeutralResult()
		}
	}()

	if b.scorer == nil {
		return NeutralResult()
	}

	score, err := b.scorer.Score(text)
	if err != nil {
		b.logger.WithError(err).Debug("Sentiment scorer failed")
		return NeutralResult()
	}
	if math.IsNaN(score) || score < -1 || score > 1 {
		b.logger.WithField("score", score).Debug("Sentiment score out of range")
		return NeutralResult()
	}

	return Bucket(score)
}

// Bucket maps a polarity onto a Result, keeping the raw score.
func Bucket(score float64) Result {
	switch {
	case score > PositiveThreshold:
		return newResult(Positive, score)
	case score < NegativeThreshold:
		return newResult(Negative, score)
	default:
		return newResult(Neutral, score)
	}
}
