// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for chatbuddy.
//
// Configuration lives in a TOML file with sensible defaults, optional .env
// file support, environment variable overrides, and validation. There is no
// global instance: callers load a Config once and pass it explicitly.
//
// # Key Types
//
//   - Config: Main configuration structure with all sections
//   - ChatConfig: Memory capacity, typing delay, bot name
//   - UIConfig: Theme, font size, timestamps
//   - HistoryConfig: History log backend and auto-save cadence
//   - Paths: Resolved file locations derived from the config directory
//
// # Configuration Precedence
//
// Values are resolved in this order (later wins):
//   - Built-in defaults
//   - ~/.chatbuddy/config.toml (CHATBUDDY_HOME overrides the directory)
//   - ~/.chatbuddy/.env (never overrides variables already set)
//   - Environment variables (CHATBUDDY_*)
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	paths := cfg.Paths(dir)
package config
