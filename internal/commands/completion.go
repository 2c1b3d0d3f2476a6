// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands is the chat controller shared by the TUI and the line
// REPL: the slash command registry, argument parsing, completion and the
// handlers that drive the engine and the persistence layer.
package commands

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// =============================================================================
// INPUT SUGGESTIONS
// =============================================================================

// MaxSuggestions is how many phrase suggestions are offered at once.
const MaxSuggestions = 4

// SuggestionPhrases are offered as the user types a chat message.
var SuggestionPhrases = []string{
	"hello",
	"how are you",
	"tell me a joke",
	"what time is it",
	"thank you",
	"goodbye",
	"help",
	"analyze my mood",
}

// Suggest returns up to MaxSuggestions phrases starting with input,
// compared case-insensitively. Blank input and commands get none.
func Suggest(input string) []string {
	prefix := strings.ToLower(input)
	if prefix == "" || strings.HasPrefix(prefix, "/") {
		return nil
	}

	var out []string
	for _, phrase := range SuggestionPhrases {
		if strings.HasPrefix(phrase, prefix) {
			out = append(out, phrase)
			if len(out) == MaxSuggestions {
				break
			}
		}
	}
	return out
}

// =============================================================================
// COMPLETION TYPE
// =============================================================================

// Completion represents a completion suggestion.
type Completion struct {
	// Value to insert
	Value string

	// Display text
	Display string

	// Description shown alongside
	Description string

	// Score for ranking (higher = better match)
	Score int
}

// =============================================================================
// COMPLETER
// =============================================================================

// maxFileCompletions caps directory listings.
const maxFileCompletions = 20

// Completer handles tab completion for commands and arguments.
type Completer struct {
	registry *Registry

	// FilesFn overrides file path completion.
	FilesFn func(prefix string) []string
}

// NewCompleter creates a new completer with the given registry.
func NewCompleter(registry *Registry) *Completer {
	return &Completer{registry: registry}
}

// Complete returns completions for the given input at the cursor position.
// Plain chat input completes against the suggestion phrases.
func (c *Completer) Complete(input string, cursorPos int) []Completion {
	if cursorPos >= 0 && cursorPos < len(input) {
		input = input[:cursorPos]
	}

	if !IsCommand(input) {
		var out []Completion
		for _, s := range Suggest(input) {
			out = append(out, Completion{Value: s, Display: s, Score: calculateScore(s, input)})
		}
		return out
	}

	input = strings.TrimLeft(input, " \t")
	parts := splitCommandLine(input)
	if len(parts) == 0 {
		return c.completeCommands("")
	}

	// Still typing the command name?
	if len(parts) == 1 && !strings.HasSuffix(input, " ") {
		return c.completeCommands(parts[0])
	}

	cmd := c.registry.Get(strings.ToLower(parts[0]))
	if cmd == nil {
		return nil
	}

	argIndex := len(parts) - 2
	partial := ""
	if strings.HasSuffix(input, " ") {
		argIndex++
	} else {
		partial = parts[len(parts)-1]
	}

	return c.completeArg(cmd, argIndex, partial)
}

// completeCommands returns completions for command names.
func (c *Completer) completeCommands(partial string) []Completion {
	var completions []Completion
	partial = strings.ToLower(partial)

	for _, cmd := range c.registry.All() {
		if cmd.Hidden {
			continue
		}

		if strings.HasPrefix(cmd.Name, partial) {
			completions = append(completions, Completion{
				Value:       cmd.Name,
				Display:     cmd.Name,
				Description: cmd.Description,
				Score:       calculateScore(cmd.Name, partial),
			})
		}

		for _, alias := range cmd.Aliases {
			if strings.HasPrefix(alias, partial) {
				completions = append(completions, Completion{
					Value:       alias,
					Display:     alias + " -> " + cmd.Name,
					Description: cmd.Description,
					Score:       calculateScore(alias, partial) - 10,
				})
			}
		}
	}

	sortCompletions(completions)
	return completions
}

// completeArg returns completions for a command argument.
func (c *Completer) completeArg(cmd *Command, argIndex int, partial string) []Completion {
	if argIndex < 0 || argIndex >= len(cmd.Args) {
		return nil
	}

	arg := cmd.Args[argIndex]
	switch arg.Type {
	case ArgTypeFile:
		if c.FilesFn != nil {
			return completeFromList(c.FilesFn(partial), partial)
		}
		return completeFiles(partial)
	case ArgTypeEnum:
		return completeFromList(arg.Values, partial)
	default:
		return nil
	}
}

// completeFiles lists directory entries matching partial.
func completeFiles(partial string) []Completion {
	var completions []Completion

	dir := filepath.Dir(partial)
	prefix := filepath.Base(partial)
	if partial == "" {
		dir, prefix = ".", ""
	} else if strings.HasSuffix(partial, string(os.PathSeparator)) {
		dir, prefix = partial, ""
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	lowerPrefix := strings.ToLower(prefix)
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(strings.ToLower(name), lowerPrefix) {
			continue
		}
		// Skip hidden files unless asked for
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".") {
			continue
		}

		path := name
		if dir != "." {
			path = filepath.Join(dir, name)
		}
		score := calculateScore(name, lowerPrefix)
		desc := ""
		if entry.IsDir() {
			path += string(os.PathSeparator)
			score += 5
			desc = "directory"
		} else if info, err := entry.Info(); err == nil {
			desc = humanize.IBytes(uint64(info.Size()))
		}

		completions = append(completions, Completion{
			Value:       path,
			Display:     name,
			Description: desc,
			Score:       score,
		})
	}

	sortCompletions(completions)
	if len(completions) > maxFileCompletions {
		completions = completions[:maxFileCompletions]
	}
	return completions
}

// completeFromList returns case-insensitive prefix matches from values.
func completeFromList(values []string, partial string) []Completion {
	var completions []Completion
	lower := strings.ToLower(partial)
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), lower) {
			completions = append(completions, Completion{
				Value:   v,
				Display: v,
				Score:   calculateScore(v, partial),
			})
		}
	}
	sortCompletions(completions)
	return completions
}

// calculateScore calculates a match score for completion ranking.
// Higher score = better match.
func calculateScore(value, partial string) int {
	value = strings.ToLower(value)
	partial = strings.ToLower(partial)

	score := 100
	if value == partial {
		return score + 100
	}
	if strings.HasPrefix(value, partial) {
		score += 50
		score += 20 - len(value)
	}
	score -= len(value) / 2
	return score
}

// sortCompletions sorts completions by score (descending), then alphabetically.
func sortCompletions(completions []Completion) {
	sort.SliceStable(completions, func(i, j int) bool {
		if completions[i].Score != completions[j].Score {
			return completions[i].Score > completions[j].Score
		}
		return completions[i].Value < completions[j].Value
	})
}

// =============================================================================
// COMPLETION NAVIGATION
// =============================================================================

// CompletionState holds the state for cycling through completions.
type CompletionState struct {
	OriginalInput string
	Completions   []Completion

	// Selected index (-1 for none)
	Selected int

	Visible bool
}

// NewCompletionState creates a new completion state.
func NewCompletionState() *CompletionState {
	return &CompletionState{Selected: -1}
}

// Update replaces the completions and selects the first one.
func (cs *CompletionState) Update(input string, completions []Completion) {
	cs.OriginalInput = input
	cs.Completions = completions
	cs.Selected = 0
	cs.Visible = len(completions) > 0
}

// Next moves to the next completion.
func (cs *CompletionState) Next() {
	if len(cs.Completions) == 0 {
		return
	}
	cs.Selected = (cs.Selected + 1) % len(cs.Completions)
}

// Prev moves to the previous completion.
func (cs *CompletionState) Prev() {
	if len(cs.Completions) == 0 {
		return
	}
	cs.Selected--
	if cs.Selected < 0 {
		cs.Selected = len(cs.Completions) - 1
	}
}

// Accept returns the input with the selected completion applied.
func (cs *CompletionState) Accept() string {
	if len(cs.Completions) == 0 {
		return cs.OriginalInput
	}
	sel := cs.Selected
	if sel < 0 || sel >= len(cs.Completions) {
		sel = 0
	}
	return Apply(cs.OriginalInput, cs.Completions[sel].Value)
}

// Clear clears the completion state.
func (cs *CompletionState) Clear() {
	cs.OriginalInput = ""
	cs.Completions = nil
	cs.Selected = -1
	cs.Visible = false
}

// Apply replaces the token being completed in input with value. Plain chat
// input is replaced whole.
func Apply(input, value string) string {
	if !IsCommand(input) {
		return value
	}
	i := strings.LastIndexAny(input, " \t")
	if i < 0 {
		return value + " "
	}
	suffix := ""
	if !strings.HasSuffix(value, string(os.PathSeparator)) {
		suffix = " "
	}
	return input[:i+1] + value + suffix
}
