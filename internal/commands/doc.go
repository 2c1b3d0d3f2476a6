// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands is the chat controller shared by the full-screen chat
// and the line REPL. It owns the slash commands, the current-chat message
// log and the glue between the engine, history, notifications and
// auto-save.
//
// # Key Types
//
//   - Context: Per-chat controller. Submit, Complete/Deliver and Execute
//   - Registry: Slash commands with aliases, categories and argument specs
//   - Parser: Splits "/command args" with quoting into a ParseResult
//   - Completer: Tab completion for command names, enum values and paths
//   - Result: Outputs to show, a status line and an Action for the frontend
//   - Output: One transcript entry (user, bot, system, error) or info panel
//
// # Commands
//
//	Conversation   /clear (/new), /mood, /sentiment, /summary, /copy
//	Session        /stats (/status), /history, /clear-history
//	Files          /save-session, /load-session (/load), /save, /export, /attach
//	Settings       /theme, /notify (/notifications), /autosave
//	General        /help (/h, /?), /about, /quit (/exit, /q)
//
// # Usage
//
// A frontend sends plain text to the engine and slash commands to Execute:
//
//	ctrl := commands.NewContext(opts)
//	if commands.IsCommand(line) {
//	    res := ctrl.Execute(line)
//	    // show res.Outputs, then act on res.Action
//	} else if turn, out, ok := ctrl.Submit(line); ok {
//	    // show out, then after the typing delay:
//	    reply, ok := ctrl.Complete(turn)
//	}
//
// Completions:
//
//	ctrl.Completer().Complete("/the", 4)   // "/theme"
//	ctrl.Completer().Complete("/theme d", 8) // "Dark"
package commands
