// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides chat persistence for chatbuddy.
//
// # Key Types
//
//   - Message: One displayed message (user, bot, system, error, attachment)
//   - MessageLog: The messages of the current session, in display order
//   - History: The chat history log, capped to the most recent sessions
//   - JSONHistory, SQLiteHistory: History backends
//   - Snapshot: A full session written to a .chat file
//
// # Storage Location
//
// Everything lives under the config directory (~/.chatbuddy by default):
// chat_history.json or history.db for the history log, and sessions/ for
// snapshots unless the user names another path.
//
// # Usage
//
//	hist, err := storage.NewJSONHistory(path, 50)
//	err = hist.Save(ctx, sessionID, log.Messages())
//	records, err := hist.List(ctx)
package storage
