// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across chatbuddy.
//
// # Key Functions
//
// Text:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth, PadRight: terminal column aware layout (go-runewidth)
//   - ContainsAny: substring scan used by the keyword tables
//
// Time:
//   - FormatClock: HH:MM:SS rendering of a duration
//
// Files:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	line := util.PadRight(id, 16) + util.TruncateWidth(preview, 40)
//	err := util.AtomicWriteFile(path, data, 0644)
package util
