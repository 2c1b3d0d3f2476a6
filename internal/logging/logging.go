// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging sets up the structured logger shared by chatbuddy
// components. Logs go to a file as JSON lines; the terminal belongs to
// the TUI and REPL.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// New opens (or creates) the log file at path and returns a JSON logger at
// the given level. The returned close function releases the file.
func New(level, path string) (*logrus.Logger, func() error, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := newLogger(f, lvl)
	logger.WithFields(logrus.Fields{
		"pid":   os.Getpid(),
		"level": lvl.String(),
	}).Info("Logger initialized")

	return logger, f.Close, nil
}

// Discard returns a logger that drops everything. Used by tests and by
// callers that have no log file.
func Discard() *logrus.Logger {
	return newLogger(io.Discard, logrus.PanicLevel)
}

func newLogger(w io.Writer, lvl logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(lvl)
	return logger
}
