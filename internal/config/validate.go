// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every section and returns all problems at once.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...interface{}) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Chat
	if c.Chat.MaxMemory < 1 || c.Chat.MaxMemory > 1000 {
		add("chat.max_memory", "must be between 1 and 1000, got %d", c.Chat.MaxMemory)
	}
	if c.Chat.TypingMinMs < 0 {
		add("chat.typing_min_ms", "must not be negative, got %d", c.Chat.TypingMinMs)
	}
	if c.Chat.TypingMaxMs < c.Chat.TypingMinMs {
		add("chat.typing_max_ms", "must be >= typing_min_ms (%d), got %d", c.Chat.TypingMinMs, c.Chat.TypingMaxMs)
	}
	if c.Chat.TypingMaxMs > 60000 {
		add("chat.typing_max_ms", "must be at most 60000, got %d", c.Chat.TypingMaxMs)
	}
	if c.Chat.ContextWindow < 1 {
		add("chat.context_window", "must be at least 1, got %d", c.Chat.ContextWindow)
	}

	// UI
	if _, ok := CanonicalTheme(c.UI.Theme); !ok {
		add("ui.theme", "invalid theme '%s', must be one of: Light, Dark, Blue", c.UI.Theme)
	}
	if c.UI.FontSize < 8 || c.UI.FontSize > 20 {
		add("ui.font_size", "must be between 8 and 20, got %d", c.UI.FontSize)
	}

	// History
	switch c.History.Backend {
	case BackendJSON, BackendSQLite:
	default:
		add("history.backend", "invalid backend '%s', must be one of: json, sqlite", c.History.Backend)
	}
	if c.History.MaxSessions < 1 {
		add("history.max_sessions", "must be at least 1, got %d", c.History.MaxSessions)
	}
	if c.History.AutoSaveSecs < 5 {
		add("history.auto_save_secs", "must be at least 5, got %d", c.History.AutoSaveSecs)
	}

	// Notifications
	switch c.Notifications.Backend {
	case NotifyAuto, NotifyDesktop, NotifyBell, NotifyNone:
	default:
		add("notifications.backend", "invalid backend '%s', must be one of: auto, desktop, bell, none", c.Notifications.Backend)
	}

	// Log
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		add("log.level", "invalid level '%s'", c.Log.Level)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
