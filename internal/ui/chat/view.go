// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatbuddy/internal/commands"
	"github.com/jeranaias/chatbuddy/internal/ui/styles"
	"github.com/jeranaias/chatbuddy/internal/util"
)

// maxHintWidth caps one completion in the hint row.
const maxHintWidth = 40

// View renders the chat screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	body := m.viewport.View()
	switch {
	case m.showKeys:
		body = m.renderBox("Keyboard Shortcuts", m.renderKeys())
	case m.panel != nil:
		body = m.renderPanel(*m.panel)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderTyping(),
		m.renderInput(),
		m.renderStatusBar(),
	)
}

// =============================================================================
// CHROME
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render(m.ctrl.BotName() + " 🤖")
	info := m.theme.HeaderInfo.Render("Session " + m.ctrl.Engine.SessionID() + " | " + m.theme.Name)
	return m.theme.Header.Width(m.width).Render(title + "  " + info)
}

func (m Model) renderTyping() string {
	if !m.Typing() {
		return " "
	}
	// ACCESSIBILITY: the indicator is text, not just animation
	return m.theme.Typing.Render(m.ctrl.BotName() + " is typing" + m.spinner.View())
}

func (m Model) renderInput() string {
	var row []string
	if m.completion.Visible {
		for i, c := range m.completion.Completions {
			style := m.theme.Suggestion
			if i == m.completion.Selected {
				style = m.theme.SuggestionSelected
			}
			// UNICODE: width-aware clip keeps long paths on one row
			row = append(row, style.Render(util.TruncateWidth(c.Display, maxHintWidth)))
		}
	} else {
		for _, s := range m.suggestions {
			row = append(row, m.theme.Suggestion.Render(s))
		}
	}

	hints := strings.Join(row, " ")
	if hints == "" {
		hints = " "
	}

	return m.theme.InputContainer.Width(m.width).Render(m.input.View() + "\n" + hints)
}

func (m Model) renderStatusBar() string {
	var help []string
	for _, b := range m.keys.ShortHelp() {
		help = append(help, b.Help().Key+" "+b.Help().Desc)
	}
	left := m.ctrl.StatusLine(m.status)
	right := m.theme.Hint.Render(strings.Join(help, " • "))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return m.theme.StatusBar.Width(m.width).Render(left)
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderKeys() string {
	var lines []string
	for _, group := range m.keys.FullHelp() {
		for _, b := range group {
			lines = append(lines, util.PadRight(b.Help().Key, 12)+b.Help().Desc)
		}
		lines = append(lines, "")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// =============================================================================
// PANELS
// =============================================================================

func (m Model) renderPanel(p commands.Output) string {
	text := p.Text
	if p.Markdown {
		text = styles.RenderMarkdown(text, m.panelWidth(), m.theme.IsDarkPalette())
	}
	return m.renderBox(p.Title, text)
}

func (m Model) renderBox(title, text string) string {
	content := m.theme.PanelTitle.Render(title) + "\n" + text + "\n\n" + m.theme.Hint.Render("Esc to close")
	box := m.theme.Panel.MaxWidth(m.panelWidth() + 6).Render(content)
	return lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) panelWidth() int {
	return max(m.width-10, 20)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

func (m Model) renderTranscript() string {
	parts := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		parts = append(parts, m.renderEntry(e))
	}
	return strings.Join(parts, "\n\n")
}

func (m Model) renderEntry(e commands.Output) string {
	width := max(m.viewport.Width, 20)

	stamp := ""
	if m.ctrl.Config.UI.ShowTimestamps && !e.Time.IsZero() {
		stamp = " " + m.theme.Timestamp.Render(e.Time.Format("15:04"))
	}

	switch e.Kind {
	case commands.OutputUser:
		head := m.theme.Sender.Render(e.Sender) + stamp
		block := lipgloss.JoinVertical(lipgloss.Right, head, m.bubble(m.theme.UserBubble, e.Text))
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)

	case commands.OutputBot:
		head := m.theme.Sender.Render(e.Sender) + stamp
		return lipgloss.JoinVertical(lipgloss.Left, head, m.bubble(m.theme.BotBubble, e.Text))

	case commands.OutputError:
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			m.theme.ErrorMessage.Width(min(width, m.theme.BubbleWidth())).Render(styles.StatusIndicators.Error+" "+e.Text))

	default:
		style := m.theme.SystemMessage
		if strings.HasPrefix(e.Text, "📎") {
			style = m.theme.Attachment
		}
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Width(min(width, m.theme.BubbleWidth())).Align(lipgloss.Center).Render(e.Text))
	}
}

// bubble wraps text at the bubble width, shrinking to fit short messages.
func (m Model) bubble(style lipgloss.Style, text string) string {
	limit := m.theme.BubbleWidth()
	w := lipgloss.Width(text) + style.GetHorizontalPadding()
	if w < limit {
		limit = w
	}
	return style.Width(limit).Render(text)
}
