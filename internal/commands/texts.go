// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strings"
)

// AboutText is shown by /about.
func AboutText(version string) string {
	if version == "" {
		version = "dev"
	}
	return fmt.Sprintf(`ChatBuddy Pro v2.0 🤖
────────────────────────
An advanced chatbot with professional features:
• Smart conversation memory
• Sentiment analysis
• File attachments
• Multiple themes
• Chat history & export
• Session management
• Typing indicators
• Auto-complete suggestions
• Notifications
────────────────────────
Build: %s`, version)
}

// HelpText is the Markdown shown by /help.
func HelpText(r *Registry, autoSaveSecs int) string {
	var b strings.Builder

	b.WriteString("# 📚 ChatBuddy Pro Help\n\n")
	b.WriteString("## Basic Commands\n\n")
	b.WriteString("- **hello/hi** - Greet the bot\n")
	b.WriteString("- **how are you** - Check bot's mood\n")
	b.WriteString("- **tell me a joke** - Get a funny joke\n")
	b.WriteString("- **what time is it** - Current time\n")
	b.WriteString("- **help** - Ask the bot what it can do\n")
	b.WriteString("- **goodbye** - End conversation\n\n")

	b.WriteString("## Slash Commands\n\n")
	byCategory := r.ByCategory()
	for _, category := range Categories {
		cmds := byCategory[category]
		if len(cmds) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n\n", category)
		for _, cmd := range cmds {
			fmt.Fprintf(&b, "- `%s` - %s\n", cmd.Usage, cmd.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Tips\n\n")
	b.WriteString("- Press Tab for auto-complete\n")
	b.WriteString("- Press Enter to send message\n")
	if autoSaveSecs > 0 {
		fmt.Fprintf(&b, "- Sessions auto-save every %ds\n", autoSaveSecs)
	}
	return b.String()
}
