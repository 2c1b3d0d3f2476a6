// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/chatbuddy/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete chatbuddy configuration.
type Config struct {
	Chat          ChatConfig          `toml:"chat" json:"chat" yaml:"chat"`
	UI            UIConfig            `toml:"ui" json:"ui" yaml:"ui"`
	History       HistoryConfig       `toml:"history" json:"history" yaml:"history"`
	Notifications NotificationsConfig `toml:"notifications" json:"notifications" yaml:"notifications"`
	Sentiment     SentimentConfig     `toml:"sentiment" json:"sentiment" yaml:"sentiment"`
	Log           LogConfig           `toml:"log" json:"log" yaml:"log"`
}

// ChatConfig controls the conversation core.
type ChatConfig struct {
	// MaxMemory is the capacity of the conversation memory window.
	MaxMemory int `toml:"max_memory" json:"max_memory" yaml:"max_memory"`

	// TypingMinMs and TypingMaxMs bound the simulated typing delay.
	TypingMinMs int `toml:"typing_min_ms" json:"typing_min_ms" yaml:"typing_min_ms"`
	TypingMaxMs int `toml:"typing_max_ms" json:"typing_max_ms" yaml:"typing_max_ms"`

	// BotName is shown as the sender of bot messages.
	BotName string `toml:"bot_name" json:"bot_name" yaml:"bot_name"`

	// ContextWindow is how many recent exchanges the reply selector sees.
	ContextWindow int `toml:"context_window" json:"context_window" yaml:"context_window"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	Theme          string `toml:"theme" json:"theme" yaml:"theme"`
	FontSize       int    `toml:"font_size" json:"font_size" yaml:"font_size"`
	ShowTimestamps bool   `toml:"show_timestamps" json:"show_timestamps" yaml:"show_timestamps"`
}

// HistoryConfig controls the chat history log and auto-save.
type HistoryConfig struct {
	Enabled      bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	Backend      string `toml:"backend" json:"backend" yaml:"backend"`
	MaxSessions  int    `toml:"max_sessions" json:"max_sessions" yaml:"max_sessions"`
	AutoSave     bool   `toml:"auto_save" json:"auto_save" yaml:"auto_save"`
	AutoSaveSecs int    `toml:"auto_save_secs" json:"auto_save_secs" yaml:"auto_save_secs"`
}

// NotificationsConfig controls reply notifications.
type NotificationsConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	Backend string `toml:"backend" json:"backend" yaml:"backend"`
}

// SentimentConfig points at the optional lexicon used by the backend classifier.
type SentimentConfig struct {
	LexiconPath string `toml:"lexicon_path" json:"lexicon_path" yaml:"lexicon_path"`
}

// LogConfig controls the structured log file.
type LogConfig struct {
	Level string `toml:"level" json:"level" yaml:"level"`
	File  string `toml:"file" json:"file" yaml:"file"`
}

// Theme names accepted by ui.theme.
const (
	ThemeLight = "Light"
	ThemeDark  = "Dark"
	ThemeBlue  = "Blue"
)

// History backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Notification backends.
const (
	NotifyAuto    = "auto"
	NotifyDesktop = "desktop"
	NotifyBell    = "bell"
	NotifyNone    = "none"
)

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Chat: ChatConfig{
			MaxMemory:     10,
			TypingMinMs:   800,
			TypingMaxMs:   1300,
			BotName:       "ChatBuddy Pro",
			ContextWindow: 3,
		},
		UI: UIConfig{
			Theme:          ThemeLight,
			FontSize:       10,
			ShowTimestamps: true,
		},
		History: HistoryConfig{
			Enabled:      true,
			Backend:      BackendJSON,
			MaxSessions:  50,
			AutoSave:     true,
			AutoSaveSecs: 30,
		},
		Notifications: NotificationsConfig{
			Enabled: true,
			Backend: NotifyAuto,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SetDefaults fills zero-valued fields with defaults and canonicalizes
// enumerated values. Booleans are left alone since false is meaningful.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Chat.MaxMemory == 0 {
		c.Chat.MaxMemory = d.Chat.MaxMemory
	}
	if c.Chat.TypingMinMs == 0 && c.Chat.TypingMaxMs == 0 {
		c.Chat.TypingMinMs = d.Chat.TypingMinMs
		c.Chat.TypingMaxMs = d.Chat.TypingMaxMs
	}
	if strings.TrimSpace(c.Chat.BotName) == "" {
		c.Chat.BotName = d.Chat.BotName
	}
	if c.Chat.ContextWindow == 0 {
		c.Chat.ContextWindow = d.Chat.ContextWindow
	}

	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	} else if canonical, ok := CanonicalTheme(c.UI.Theme); ok {
		c.UI.Theme = canonical
	}
	if c.UI.FontSize == 0 {
		c.UI.FontSize = d.UI.FontSize
	}

	c.History.Backend = strings.ToLower(strings.TrimSpace(c.History.Backend))
	if c.History.Backend == "" {
		c.History.Backend = d.History.Backend
	}
	if c.History.MaxSessions == 0 {
		c.History.MaxSessions = d.History.MaxSessions
	}
	if c.History.AutoSaveSecs == 0 {
		c.History.AutoSaveSecs = d.History.AutoSaveSecs
	}

	c.Notifications.Backend = strings.ToLower(strings.TrimSpace(c.Notifications.Backend))
	if c.Notifications.Backend == "" {
		c.Notifications.Backend = d.Notifications.Backend
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// CanonicalTheme maps a case-insensitive theme name to its canonical form.
func CanonicalTheme(name string) (string, bool) {
	for _, t := range []string{ThemeLight, ThemeDark, ThemeBlue} {
		if strings.EqualFold(strings.TrimSpace(name), t) {
			return t, true
		}
	}
	return "", false
}

// Clone returns a copy of the configuration. Config holds only value
// types, so a struct copy is a deep copy.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the chatbuddy configuration directory. CHATBUDDY_HOME wins
// over ~/.chatbuddy.
func Dir() (string, error) {
	if home := os.Getenv("CHATBUDDY_HOME"); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".chatbuddy"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Paths are the file locations chatbuddy reads and writes, resolved
// against the config directory.
type Paths struct {
	Dir      string
	Config   string
	Lexicon  string
	Log      string
	History  string
	Database string
	Sessions string
	LineHist string
}

// Paths resolves every file location used at runtime. Empty lexicon and
// log settings fall back to files inside dir.
func (c *Config) Paths(dir string) Paths {
	p := Paths{
		Dir:      dir,
		Config:   filepath.Join(dir, "config.toml"),
		Lexicon:  c.Sentiment.LexiconPath,
		Log:      c.Log.File,
		History:  filepath.Join(dir, "chat_history.json"),
		Database: filepath.Join(dir, "history.db"),
		Sessions: filepath.Join(dir, "sessions"),
		LineHist: filepath.Join(dir, "repl_history"),
	}
	if p.Lexicon == "" {
		p.Lexicon = filepath.Join(dir, "lexicon.toml")
	}
	if p.Log == "" {
		p.Log = filepath.Join(dir, "chatbuddy.log")
	}
	return p
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default location. A missing file is
// not an error; defaults and environment overrides still apply.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := loadDotEnv(filepath.Dir(path)); err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ReadFile decodes path over the defaults without environment overrides
// or validation. `chatbuddy config set` edits this form so overrides never
// leak into the file. A missing file yields the defaults.
func ReadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode TOML file: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	cfg.SetDefaults()
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to path as TOML.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# chatbuddy configuration file\n")
	buf.WriteString("# Generated by chatbuddy - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
