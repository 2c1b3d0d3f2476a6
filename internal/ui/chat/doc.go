// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea chat screen for chatbuddy.

# Layout

	header       bot name, session ID and theme
	transcript   scrollable viewport of message bubbles, or an info panel
	typing       "ChatBuddy Pro is typing..." while a reply is pending
	input        prompt, text input and phrase suggestions
	status bar   last status, message count and session duration

# Flow

Plain input goes to commands.Context.Submit and the reply is scheduled
with tea.Tick after the engine's typing delay. When ReplyReadyMsg arrives
the turn is committed; a turn from before a /clear or /load-session is
dropped. Slash commands go to commands.Context.Execute and the returned
Action tells the model to wipe, reload or re-theme the transcript.

The model also drives auto-save from session.TickMsg and re-applies the
theme when the config file changes on disk.

# Usage

	m := chat.New(chat.Options{Controller: ctrl, Theme: theme})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
*/
package chat
