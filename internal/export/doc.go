// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chat transcripts to files.
//
// # Supported Formats
//
//   - Text: the plain "CHAT EXPORT" transcript (default)
//   - Markdown: frontmatter plus a readable conversation
//   - HTML: standalone page styled with the theme palette
//   - JSON and YAML: full structured transcript
//
// # Usage
//
// Pick the format from the file extension:
//
//	err := export.WriteFile("chat.md", transcript, export.DefaultOptions())
//
// Or export into a directory under a generated name:
//
//	exp, _ := export.ForFormat("yaml", nil)
//	path, err := export.ExportToFile(transcript, exp, opts)
package export
