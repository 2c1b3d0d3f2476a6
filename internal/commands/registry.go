// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"sort"

	"github.com/jeranaias/chatbuddy/internal/config"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/theme <name>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler executes the command against the chat context
	Handler func(ctx *Context, args []string) Result

	// Hidden commands don't appear in help
	Hidden bool

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	Name        string
	Required    bool
	Type        ArgType
	Description string

	// Values for enum types
	Values []string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString ArgType = iota // Free-form string
	ArgTypeFile                  // File path
	ArgTypeEnum                  // One of predefined values
)

// Help categories, in display order.
const (
	CategoryConversation = "Conversation"
	CategorySession      = "Session"
	CategoryFiles        = "Files"
	CategorySettings     = "Settings"
	CategoryGeneral      = "General"
)

// Categories lists the help categories in display order.
var Categories = []string{
	CategoryConversation,
	CategorySession,
	CategoryFiles,
	CategorySettings,
	CategoryGeneral,
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// ByCategory returns visible commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.All() {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = CategoryGeneral
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

var onOff = []string{"on", "off"}

func (r *Registry) registerBuiltins() {
	// Conversation
	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/new"},
		Description: "Save the chat to history and start a new session",
		Usage:       "/clear",
		Handler:     handleClear,
		Category:    CategoryConversation,
	})
	r.Register(&Command{
		Name:        "/mood",
		Description: "Analyze the sentiment of your last message",
		Usage:       "/mood",
		Handler:     handleMood,
		Category:    CategoryConversation,
	})
	r.Register(&Command{
		Name:        "/sentiment",
		Description: "Analyze the sentiment of the whole conversation",
		Usage:       "/sentiment",
		Handler:     handleSentiment,
		Category:    CategoryConversation,
	})
	r.Register(&Command{
		Name:        "/summary",
		Description: "Show what the conversation has been about",
		Usage:       "/summary",
		Handler:     handleSummary,
		Category:    CategoryConversation,
	})
	r.Register(&Command{
		Name:        "/copy",
		Description: "Copy the last reply to the clipboard",
		Usage:       "/copy",
		Handler:     handleCopy,
		Category:    CategoryConversation,
	})

	// Session
	r.Register(&Command{
		Name:        "/stats",
		Aliases:     []string{"/status"},
		Description: "Show session statistics",
		Usage:       "/stats",
		Handler:     handleStats,
		Category:    CategorySession,
	})
	r.Register(&Command{
		Name:        "/history",
		Description: "List the last 10 saved sessions",
		Usage:       "/history",
		Handler:     handleHistory,
		Category:    CategorySession,
	})
	r.Register(&Command{
		Name:        "/clear-history",
		Description: "Delete every saved session",
		Usage:       "/clear-history",
		Handler:     handleClearHistory,
		Category:    CategorySession,
	})
	r.Register(&Command{
		Name:        "/save-session",
		Description: "Save the full session to a .chat file",
		Usage:       "/save-session <file>",
		Args: []ArgDef{
			{Name: "file", Required: true, Type: ArgTypeFile, Description: "Snapshot path"},
		},
		Handler:  handleSaveSession,
		Category: CategorySession,
	})
	r.Register(&Command{
		Name:        "/load-session",
		Aliases:     []string{"/load"},
		Description: "Replace the chat with a saved .chat file",
		Usage:       "/load-session <file>",
		Args: []ArgDef{
			{Name: "file", Required: true, Type: ArgTypeFile, Description: "Snapshot path"},
		},
		Handler:  handleLoadSession,
		Category: CategorySession,
	})

	// Files
	r.Register(&Command{
		Name:        "/save",
		Description: "Save the chat as JSON",
		Usage:       "/save <file>",
		Args: []ArgDef{
			{Name: "file", Required: true, Type: ArgTypeFile, Description: "Output path"},
		},
		Handler:  handleSave,
		Category: CategoryFiles,
	})
	r.Register(&Command{
		Name:        "/export",
		Description: "Export the chat; the format follows the file extension",
		Usage:       "/export <file>",
		Args: []ArgDef{
			{Name: "file", Required: true, Type: ArgTypeFile, Description: "Output path (.txt, .md, .html, .json, .yaml)"},
		},
		Handler:  handleExport,
		Category: CategoryFiles,
	})
	r.Register(&Command{
		Name:        "/attach",
		Description: "Attach a file to the conversation",
		Usage:       "/attach <file>",
		Args: []ArgDef{
			{Name: "file", Required: true, Type: ArgTypeFile, Description: "File to attach"},
		},
		Handler:  handleAttach,
		Category: CategoryFiles,
	})

	// Settings
	r.Register(&Command{
		Name:        "/theme",
		Description: "Change the color theme",
		Usage:       "/theme <Light|Dark|Blue>",
		Args: []ArgDef{
			{Name: "name", Required: true, Type: ArgTypeEnum, Values: []string{config.ThemeLight, config.ThemeDark, config.ThemeBlue}},
		},
		Handler:  handleTheme,
		Category: CategorySettings,
	})
	r.Register(&Command{
		Name:        "/notify",
		Aliases:     []string{"/notifications"},
		Description: "Turn reply notifications on or off",
		Usage:       "/notify [on|off]",
		Args: []ArgDef{
			{Name: "state", Type: ArgTypeEnum, Values: onOff},
		},
		Handler:  handleNotify,
		Category: CategorySettings,
	})
	r.Register(&Command{
		Name:        "/autosave",
		Description: "Turn history auto-save on or off",
		Usage:       "/autosave [on|off]",
		Args: []ArgDef{
			{Name: "state", Type: ArgTypeEnum, Values: onOff},
		},
		Handler:  handleAutoSave,
		Category: CategorySettings,
	})

	// General
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show help and available commands",
		Usage:       "/help",
		Handler:     handleHelp,
		Category:    CategoryGeneral,
	})
	r.Register(&Command{
		Name:        "/about",
		Description: "About ChatBuddy Pro",
		Usage:       "/about",
		Handler:     handleAbout,
		Category:    CategoryGeneral,
	})
	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/exit", "/q"},
		Description: "Save the chat to history and exit",
		Usage:       "/quit",
		Handler:     handleQuit,
		Category:    CategoryGeneral,
	})
}
