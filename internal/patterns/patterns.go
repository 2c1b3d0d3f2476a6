// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package patterns holds the static table of trigger phrases and canned
// replies the responder draws from.
package patterns

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Category is a named group of trigger phrases sharing candidate replies.
// Categories are immutable once added to a Table.
type Category struct {
	ID        string
	Triggers  []string
	Responses []string
}

// Table is an ordered list of categories. Lookup order is registration
// order, so earlier categories win ties.
type Table struct {
	categories []Category
}

// NewTable builds a table from categories in the given order. Triggers are
// normalized to lowercase NFC; categories without triggers or responses
// are skipped since they could never produce a reply.
func NewTable(categories ...Category) *Table {
	t := &Table{categories: make([]Category, 0, len(categories))}
	for _, c := range categories {
		if len(c.Triggers) == 0 || len(c.Responses) == 0 {
			continue
		}
		triggers := make([]string, 0, len(c.Triggers))
		for _, trig := range c.Triggers {
			if trig = normalize(trig); trig != "" {
				triggers = append(triggers, trig)
			}
		}
		t.categories = append(t.categories, Category{
			ID:        c.ID,
			Triggers:  triggers,
			Responses: append([]string(nil), c.Responses...),
		})
	}
	return t
}

// FindCategory returns the first category with a trigger that occurs in
// utterance as a case-insensitive substring. Matching is plain substring
// matching, so "hi" fires inside "this".
func (t *Table) FindCategory(utterance string) (*Category, bool) {
	if t == nil {
		return nil, false
	}
	text := normalize(utterance)
	if text == "" {
		return nil, false
	}
	for i := range t.categories {
		for _, trig := range t.categories[i].Triggers {
			if strings.Contains(text, trig) {
				return &t.categories[i], true
			}
		}
	}
	return nil, false
}

// Categories returns the categories in lookup order. The slice is a copy;
// the Category values share their backing arrays and must not be modified.
func (t *Table) Categories() []Category {
	if t == nil {
		return nil
	}
	return append([]Category(nil), t.categories...)
}

// Len returns the number of categories.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.categories)
}

func normalize(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
