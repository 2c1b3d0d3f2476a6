// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jeranaias/chatbuddy/internal/commands"
	"github.com/jeranaias/chatbuddy/internal/config"
	"github.com/jeranaias/chatbuddy/internal/engine"
	"github.com/jeranaias/chatbuddy/internal/logging"
	"github.com/jeranaias/chatbuddy/internal/notify"
	"github.com/jeranaias/chatbuddy/internal/sentiment"
	"github.com/jeranaias/chatbuddy/internal/storage"
)

// =============================================================================
// APPLICATION WIRING
// =============================================================================

// App holds the collaborators shared by every command: configuration,
// the log file and the history backend.
type App struct {
	Config  *config.Config
	Paths   config.Paths
	Logger  *logrus.Logger
	History storage.History

	// Notices are shown once as error messages when a chat starts.
	Notices []string

	closers []func() error
}

// resolveConfigPath applies --home and --config. --config wins for the
// file; the directory holding it becomes the data directory unless --home
// is also set.
func resolveConfigPath() (dir, path string, err error) {
	switch {
	case homeFlag != "":
		dir = homeFlag
	default:
		if dir, err = config.Dir(); err != nil {
			return "", "", err
		}
	}
	path = filepath.Join(dir, "config.toml")

	if configFlag != "" {
		path = configFlag
		if homeFlag == "" {
			dir = filepath.Dir(configFlag)
		}
	}
	return dir, path, nil
}

// loadConfig loads the config file and applies the per-run flags.
func loadConfig() (*config.Config, config.Paths, error) {
	dir, path, err := resolveConfigPath()
	if err != nil {
		return nil, config.Paths{}, &ConfigError{Path: "directory", Err: err}
	}

	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, config.Paths{}, &ConfigError{Path: path, Err: err}
	}

	if themeFlag != "" {
		theme, ok := config.CanonicalTheme(themeFlag)
		if !ok {
			return nil, config.Paths{}, &UsageError{Field: "--theme", Value: themeFlag, Reason: "must be Light, Dark or Blue"}
		}
		cfg.UI.Theme = theme
	}
	if logLevelFlag != "" {
		if _, err := logrus.ParseLevel(logLevelFlag); err != nil {
			return nil, config.Paths{}, &UsageError{Field: "--log-level", Value: logLevelFlag, Reason: err.Error()}
		}
		cfg.Log.Level = logLevelFlag
	}

	paths := cfg.Paths(dir)
	paths.Config = path
	return cfg, paths, nil
}

// newApp loads configuration, opens the log file and opens the history
// backend selected by history.backend.
func newApp() (*App, error) {
	cfg, paths, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(paths.Dir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.Log.Level, paths.Log)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Paths: paths, Logger: logger, closers: []func() error{closeLog}}

	if cfg.History.Enabled {
		history, err := storage.Open(cfg.History, paths)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("open history: %w", err)
		}
		app.History = history
		app.closers = append(app.closers, history.Close)

		if jh, ok := history.(*storage.JSONHistory); ok && jh.Recovered() != nil {
			logger.WithError(jh.Recovered()).Warn("History file unreadable, starting empty")
			app.Notices = append(app.Notices, fmt.Sprintf(
				"Could not read chat history; starting fresh. The old file was kept as %s",
				jh.Path()+storage.CorruptSuffix))
		}
	}

	logger.WithFields(logrus.Fields{
		"dir":     paths.Dir,
		"backend": cfg.History.Backend,
		"history": cfg.History.Enabled,
	}).Debug("Application initialized")
	return app, nil
}

// Controller builds a fresh engine and chat controller. Sentiment and
// notification backends are detected here, once per chat.
func (a *App) Controller() *commands.Context {
	eng := engine.New(engine.Options{
		Capacity:      a.Config.Chat.MaxMemory,
		ContextWindow: a.Config.Chat.ContextWindow,
		TypingMin:     time.Duration(a.Config.Chat.TypingMinMs) * time.Millisecond,
		TypingMax:     time.Duration(a.Config.Chat.TypingMaxMs) * time.Millisecond,
		Classifier:    sentiment.Detect(a.Paths.Lexicon, a.Logger),
		Logger:        a.Logger,
	})

	backend := notify.Detect(a.Config.Notifications.Backend, a.Logger)
	return commands.NewContext(commands.Options{
		Config:   a.Config,
		Paths:    a.Paths,
		Engine:   eng,
		History:  a.History,
		Notifier: notify.NewDispatcher(backend, a.Config.Notifications.Enabled, 0, a.Logger),
		Logger:   a.Logger,
		Version:  Version,
	})
}

// Close releases the history backend and the log file, newest first.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
