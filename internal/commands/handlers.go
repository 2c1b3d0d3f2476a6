// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jeranaias/chatbuddy/internal/config"
	"github.com/jeranaias/chatbuddy/internal/export"
	"github.com/jeranaias/chatbuddy/internal/sentiment"
	"github.com/jeranaias/chatbuddy/internal/storage"
)

// historyListLimit is how many sessions /history shows.
const historyListLimit = 10

const statsRule = "────────────────"

var moodFeedback = map[sentiment.Label]string{
	sentiment.Positive: "Great to see you're in a positive mood! 😊",
	sentiment.Negative: "I'm here if you want to talk. ❤️",
	sentiment.Neutral:  "Keeping things balanced, I see! 😊",
}

var titleCase = cases.Title(language.English)

// =============================================================================
// CONVERSATION
// =============================================================================

func handleClear(c *Context, _ []string) Result {
	var saveErr error
	if c.Log.Len() > 0 {
		saveErr = c.SaveHistory(context.Background())
	}

	c.Log.Clear()
	c.Engine.Clear()
	c.setLastReply("")
	c.AutoSave.MarkClean()

	res := Result{
		Outputs: []Output{c.system("Chat cleared. New session started.")},
		Status:  "Chat cleared | New session",
		Action:  ActionClear,
	}
	if saveErr != nil {
		res.Outputs = append(res.Outputs, c.fail("Failed to save chat history: %v", saveErr))
	}
	return res
}

func handleMood(c *Context, _ []string) Result {
	text, ok := c.Log.LastUser()
	if !ok {
		return infoResult("Sentiment Analysis", "No messages to analyze yet.")
	}

	mood := c.Engine.Classify(text)
	return Result{Outputs: []Output{
		c.system(fmt.Sprintf("Sentiment Analysis: %s %s (Score: %.2f)",
			titleCase.String(string(mood.Label)), mood.Emoji, mood.Score)),
		c.bot(moodFeedback[mood.Label]),
	}}
}

func handleSentiment(c *Context, _ []string) Result {
	texts := c.Log.UserTexts()
	if len(texts) == 0 {
		return infoResult("Sentiment Analysis", "No messages to analyze yet.")
	}

	mood := c.Engine.Classify(strings.Join(texts, " "))
	return infoResult("Sentiment Analysis", fmt.Sprintf(
		"Overall Conversation Sentiment:\n\n"+
			"Mood: %s %s\n"+
			"Score: %.2f\n\n"+
			"Positive: > 0.3\n"+
			"Neutral: -0.3 to 0.3\n"+
			"Negative: < -0.3",
		titleCase.String(string(mood.Label)), mood.Emoji, mood.Score))
}

func handleSummary(c *Context, _ []string) Result {
	return infoResult("Conversation Summary", c.Engine.Summary())
}

func handleCopy(c *Context, _ []string) Result {
	reply := c.LastReply()
	if reply == "" {
		return c.failure("No reply to copy yet.")
	}
	if err := c.clipboard(reply); err != nil {
		return c.failure("Failed to copy to clipboard: %v", err)
	}
	return Result{Status: "Copied last reply to clipboard"}
}

// =============================================================================
// SESSION
// =============================================================================

func handleStats(c *Context, _ []string) Result {
	return infoResult("Session Statistics", StatsText(c))
}

// StatsText renders the session statistics panel.
func StatsText(c *Context) string {
	stats := c.Engine.Stats()
	used, capacity := c.Engine.MemoryUsage()

	var b strings.Builder
	b.WriteString("Session Statistics:\n")
	b.WriteString(statsRule + "\n")
	fmt.Fprintf(&b, "Session ID: %s\n", stats.SessionID)
	fmt.Fprintf(&b, "Start Time: %s\n", stats.StartTime)
	fmt.Fprintf(&b, "Duration: %s\n", stats.Duration)
	b.WriteString(statsRule + "\n")
	fmt.Fprintf(&b, "Total Messages: %d\n", stats.TotalMessages)
	fmt.Fprintf(&b, "- User: %d\n", stats.UserMessages)
	fmt.Fprintf(&b, "- Bot: %d\n", stats.BotMessages)
	fmt.Fprintf(&b, "Avg Response: %s\n", stats.AvgResponseTime)
	b.WriteString(statsRule + "\n")
	fmt.Fprintf(&b, "Memory Usage: %d exchanges\n", used)
	fmt.Fprintf(&b, "Context Window: %d\n", capacity)
	b.WriteString(statsRule)
	return b.String()
}

func handleHistory(c *Context, _ []string) Result {
	if c.History == nil {
		return infoResult("Chat History", storage.NoHistoryText)
	}
	records, err := c.History.List(context.Background())
	if err != nil {
		return c.failure("Failed to load chat history: %v", err)
	}
	return infoResult("Chat History", storage.FormatHistory(records, historyListLimit))
}

func handleClearHistory(c *Context, _ []string) Result {
	if c.History == nil {
		return c.failure("Chat history is disabled.")
	}
	if err := c.History.Clear(context.Background()); err != nil {
		return c.failure("Failed to clear chat history: %v", err)
	}
	return Result{
		Outputs: []Output{info("Success", "Chat history cleared.")},
		Status:  "Chat history cleared",
	}
}

func handleSaveSession(c *Context, args []string) Result {
	path := withDefaultExt(expandPath(args[0]), storage.SnapshotExt)
	snap := &storage.Snapshot{
		Session:  c.Engine.Stats(),
		Memory:   c.Engine.Exchanges(),
		Config:   c.Config.Clone(),
		Messages: c.Log.Messages(),
	}
	if err := storage.SaveSnapshot(path, snap); err != nil {
		return c.failure("Failed to save session: %v", err)
	}
	return Result{
		Outputs: []Output{info("Success", "Session saved successfully!")},
		Status:  "Session saved to " + filepath.Base(path),
	}
}

func handleLoadSession(c *Context, args []string) Result {
	path := expandPath(args[0])
	snap, err := storage.LoadSnapshot(path)
	if err != nil {
		return c.failure("Failed to load session: %v", err)
	}

	c.Log.Replace(snap.Messages)
	c.Engine.Load(snap.Memory)
	c.AutoSave.MarkDirty()

	res := Result{
		Status: "Loaded session from " + filepath.Base(path),
		Action: ActionReload,
	}
	lastReply := ""
	for _, m := range c.Log.Messages() {
		out := Output{Sender: m.Sender, Text: m.Message, Time: m.Timestamp.Time}
		switch m.Type {
		case storage.TypeSystem:
			out.Kind = OutputSystem
		case storage.TypeUser:
			out.Kind = OutputUser
		case storage.TypeBot:
			out.Kind = OutputBot
			lastReply = m.Message
		default:
			continue
		}
		res.Outputs = append(res.Outputs, out)
	}
	c.setLastReply(lastReply)

	c.Logger.WithFields(logrus.Fields{
		"path":     path,
		"messages": c.Log.Len(),
	}).Info("Session loaded")

	res.Outputs = append(res.Outputs, info("Success", "Session loaded successfully!"))
	return res
}

// =============================================================================
// FILES
// =============================================================================

func handleSave(c *Context, args []string) Result {
	if c.Log.Len() == 0 {
		return infoResult("No Messages", "No messages to save.")
	}
	path := withDefaultExt(expandPath(args[0]), ".json")
	chat := &storage.SavedChat{
		SessionInfo: c.Engine.Stats(),
		Messages:    c.Log.Messages(),
		Summary:     c.Engine.Summary(),
	}
	if err := storage.SaveChat(path, chat); err != nil {
		return c.failure("Failed to save chat: %v", err)
	}
	return Result{
		Outputs: []Output{info("Success", "Chat saved to:\n"+path)},
		Status:  "Chat saved to " + filepath.Base(path),
	}
}

func handleExport(c *Context, args []string) Result {
	if c.Log.Len() == 0 {
		return infoResult("No Messages", "No messages to export.")
	}
	path := withDefaultExt(expandPath(args[0]), ".txt")

	opts := export.DefaultOptions()
	opts.Theme = c.Config.UI.Theme
	opts.IncludeTimestamps = c.Config.UI.ShowTimestamps

	if err := export.WriteFile(path, c.Transcript(), opts); err != nil {
		return c.failure("Failed to export chat: %v", err)
	}
	return Result{
		Outputs: []Output{info("Success", "Chat exported to:\n"+path)},
		Status:  "Chat exported to " + filepath.Base(path),
	}
}

func handleAttach(c *Context, args []string) Result {
	path := expandPath(args[0])
	notice, err := c.Log.Attach(path)
	if err != nil {
		return c.failure("Failed to attach file: %v", err)
	}
	c.AutoSave.MarkDirty()
	return Result{
		Outputs: []Output{{Kind: OutputSystem, Sender: storage.SenderSystem, Text: notice}},
		Status:  "Attached " + filepath.Base(path),
	}
}

// =============================================================================
// SETTINGS
// =============================================================================

func handleTheme(c *Context, args []string) Result {
	name, ok := config.CanonicalTheme(args[0])
	if !ok {
		return c.failure("Unknown theme: %s", args[0])
	}
	c.Config.UI.Theme = name
	c.Logger.WithField("theme", name).Info("Theme changed")
	return Result{
		Status: "Theme changed to " + name,
		Action: ActionTheme,
		Theme:  name,
	}
}

func handleNotify(c *Context, args []string) Result {
	on := toggle(args, c.Config.Notifications.Enabled)
	c.Config.Notifications.Enabled = on
	if c.Notifier != nil {
		c.Notifier.SetEnabled(on)
	}
	return Result{Status: "Notifications " + enabledWord(on)}
}

func handleAutoSave(c *Context, args []string) Result {
	on := toggle(args, c.Config.History.AutoSave)
	c.Config.History.AutoSave = on
	c.AutoSave.SetEnabled(on && c.historyEnabled())
	return Result{Status: "Auto-save " + enabledWord(on)}
}

// =============================================================================
// GENERAL
// =============================================================================

func handleHelp(c *Context, _ []string) Result {
	return Result{Outputs: []Output{{
		Kind:     OutputInfo,
		Title:    "Help Guide",
		Text:     HelpText(c.registry, c.Config.History.AutoSaveSecs),
		Markdown: true,
	}}}
}

func handleAbout(c *Context, _ []string) Result {
	return infoResult("About ChatBuddy Pro", AboutText(c.Version))
}

func handleQuit(c *Context, _ []string) Result {
	res := Result{Action: ActionQuit}
	if err := c.SaveHistory(context.Background()); err != nil {
		res.Outputs = append(res.Outputs, c.fail("Failed to save chat history: %v", err))
	}
	return res
}

// =============================================================================
// HELPERS
// =============================================================================

// toggle flips current without an argument, otherwise parses on/off.
func toggle(args []string, current bool) bool {
	if len(args) == 0 {
		return !current
	}
	return strings.EqualFold(args[0], "on")
}

func enabledWord(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}

// expandPath resolves a leading ~ to the home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func withDefaultExt(path, ext string) string {
	if filepath.Ext(path) == "" {
		return path + ext
	}
	return path
}
