// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import "github.com/jeranaias/chatbuddy/internal/config"

func testPaths(dir string) config.Paths {
	return config.Default().Paths(dir)
}

func historyConfig(backend string) config.HistoryConfig {
	cfg := config.Default().History
	cfg.Backend = backend
	return cfg
}
