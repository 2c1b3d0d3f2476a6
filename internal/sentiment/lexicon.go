// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sentiment

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// DefaultLexicon is a small starter word list written by `chatbuddy config init`.
//
//go:embed lexicon.toml
var DefaultLexicon []byte

// Lexicon weights are integers or decimals in this range, AFINN style.
const maxWeight = 5.0

// LexiconScorer scores text by the mean weight of the lexicon words it
// contains, scaled into [-1, 1].
type LexiconScorer struct {
	words map[string]float64
}

type lexiconFile struct {
	Words map[string]float64 `toml:"words"`
}

// ParseLexicon decodes a TOML lexicon with a [words] table.
func ParseLexicon(data []byte) (*LexiconScorer, error) {
	var lf lexiconFile
	if _, err := toml.Decode(string(data), &lf); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}
	return newLexiconScorer(lf.Words)
}

// LoadLexicon reads a TOML lexicon from path.
func LoadLexicon(path string) (*LexiconScorer, error) {
	var lf lexiconFile
	if _, err := toml.DecodeFile(path, &lf); err != nil {
		return nil, fmt.Errorf("decode lexicon %s: %w", path, err)
	}
	return newLexiconScorer(lf.Words)
}

func newLexiconScorer(raw map[string]float64) (*LexiconScorer, error) {
	if len(raw) == 0 {
		return nil, errors.New("lexicon has no words")
	}
	words := make(map[string]float64, len(raw))
	for w, weight := range raw {
		if weight < -maxWeight || weight > maxWeight {
			return nil, fmt.Errorf("lexicon word %q: weight %v outside [-5, 5]", w, weight)
		}
		words[strings.ToLower(w)] = weight
	}
	return &LexiconScorer{words: words}, nil
}

// Len returns the number of words in the lexicon.
func (s *LexiconScorer) Len() int { return len(s.words) }

// Score implements Scorer. Text with no lexicon words scores 0.
func (s *LexiconScorer) Score(text string) (float64, error) {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	var sum float64
	matched := 0
	for _, tok := range tokens {
		if w, ok := s.words[strings.Trim(tok, "'")]; ok {
			sum += w
			matched++
		}
	}
	if matched == 0 {
		return 0, nil
	}

	score := sum / float64(matched) / maxWeight
	if score > 1 {
		score = 1
	} else if score < -1 {
		score = -1
	}
	return score, nil
}

// =============================================================================
// STRATEGY SELECTION
// =============================================================================

// Detect chooses the classification strategy once. If a lexicon loads from
// lexiconPath the backend classifier is returned; otherwise the keyword
// fallback. An empty path selects the fallback without touching disk.
func Detect(lexiconPath string, logger logrus.FieldLogger) Classifier {
	if lexiconPath == "" {
		return KeywordClassifier{}
	}

	scorer, err := LoadLexicon(lexiconPath)
	if err != nil {
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"path":  lexiconPath,
				"error": err.Error(),
			}).Info("Sentiment lexicon unavailable, using keyword fallback")
		}
		return KeywordClassifier{}
	}

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"path":  lexiconPath,
			"words": scorer.Len(),
		}).Info("Sentiment lexicon loaded")
	}
	return NewBackendClassifier("lexicon", scorer, logger)
}
