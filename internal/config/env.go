// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// Environment variables recognized by ApplyEnvOverrides.
const (
	EnvHome           = "CHATBUDDY_HOME"
	EnvTheme          = "CHATBUDDY_THEME"
	EnvMaxMemory      = "CHATBUDDY_MAX_MEMORY"
	EnvHistoryBackend = "CHATBUDDY_HISTORY_BACKEND"
	EnvNotifications  = "CHATBUDDY_NOTIFICATIONS"
	EnvLogLevel       = "CHATBUDDY_LOG_LEVEL"
)

// loadDotEnv loads dir/.env into the process environment. Variables that
// are already set are not overridden.
func loadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - CHATBUDDY_THEME: overrides ui.theme
//   - CHATBUDDY_MAX_MEMORY: overrides chat.max_memory (ignored if not an integer)
//   - CHATBUDDY_HISTORY_BACKEND: overrides history.backend
//   - CHATBUDDY_NOTIFICATIONS: "1"/"true"/"on" enables, "0"/"false"/"off" disables
//   - CHATBUDDY_LOG_LEVEL: overrides log.level
func (c *Config) ApplyEnvOverrides() {
	if theme := os.Getenv(EnvTheme); theme != "" {
		c.UI.Theme = theme
	}

	if raw := os.Getenv(EnvMaxMemory); raw != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			c.Chat.MaxMemory = n
		}
	}

	if backend := os.Getenv(EnvHistoryBackend); backend != "" {
		c.History.Backend = backend
	}

	if raw := os.Getenv(EnvNotifications); raw != "" {
		if enabled, ok := parseSwitch(raw); ok {
			c.Notifications.Enabled = enabled
		}
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
}

// parseSwitch understands the usual on/off spellings.
func parseSwitch(s string) (value bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
