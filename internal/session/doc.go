// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides per-run conversation bookkeeping.
//
// # Key Types
//
//   - Counters: Session ID, start time and message counters for display
//   - Stats: Point-in-time snapshot of Counters, formatted for humans
//   - AutoSaver: Dirty tracking plus a periodic save callback
//   - TickMsg, AutoSaveMsg: Bubble Tea messages for the TUI tick loop
//
// # Usage
//
// Track a session:
//
//	c := session.New(time.Now())
//	c.RecordUser()
//	stats := c.Stats(time.Now())
//
// Auto-save on a schedule (REPL):
//
//	saver := session.NewAutoSaver(30*time.Second, saveFn, logger)
//	saver.Start()
//	defer saver.Stop()
//
// The TUI drives the same AutoSaver from its tick loop with HandleTick.
package session
