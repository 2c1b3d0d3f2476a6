// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/chatbuddy/internal/config"
)

// Theme holds all the styled components for the chat screen.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	Name    string
	Palette Palette

	// FontSize maps to bubble padding; terminals have one font size.
	FontSize int

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER AND STATUS
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderInfo  lipgloss.Style
	StatusBar   lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserBubble    lipgloss.Style
	BotBubble     lipgloss.Style
	SystemMessage lipgloss.Style
	ErrorMessage  lipgloss.Style
	Attachment    lipgloss.Style
	Sender        lipgloss.Style
	Timestamp     lipgloss.Style

	// ==========================================================================
	// INPUT AREA
	// ==========================================================================

	InputContainer     lipgloss.Style
	InputPrompt        lipgloss.Style
	Typing             lipgloss.Style
	Suggestion         lipgloss.Style
	SuggestionSelected lipgloss.Style
	Hint               lipgloss.Style

	// Panel boxes popups such as /stats and /help.
	Panel      lipgloss.Style
	PanelTitle lipgloss.Style
}

// NewTheme creates the theme for name with all styles configured.
func NewTheme(name string, fontSize int) *Theme {
	colorProfile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
		FontSize:     fontSize,
	}
	t.Apply(name)
	return t
}

// Apply switches the palette and rebuilds every style.
func (t *Theme) Apply(name string) {
	t.Palette = PaletteFor(name)
	t.Name = t.Palette.Name
	t.initStyles()
}

// IsDarkPalette reports whether the active palette has a dark background.
func (t *Theme) IsDarkPalette() bool {
	return t.Name == config.ThemeDark
}

// SetFontSize changes bubble padding and rebuilds styles.
func (t *Theme) SetFontSize(size int) {
	t.FontSize = size
	t.initStyles()
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// BubbleWidth is the widest a message bubble may render.
func (t *Theme) BubbleWidth() int {
	w := t.Width * 3 / 4
	if w < 20 {
		w = 20
	}
	return w
}

// bubblePadding turns the font size range 8..20 into 0..3 columns.
func (t *Theme) bubblePadding() int {
	p := (t.FontSize - 8) / 4
	if p < 0 {
		return 0
	}
	if p > 3 {
		return 3
	}
	return p
}

func (t *Theme) initStyles() {
	p := t.Palette
	pad := t.bubblePadding()

	t.Header = lipgloss.NewStyle().
		Background(lipgloss.Color(p.UserBg)).
		Foreground(lipgloss.Color(p.UserFg)).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(p.UserFg))

	t.HeaderInfo = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.UserFg)).
		Italic(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(lipgloss.Color(p.BotBg)).
		Foreground(lipgloss.Color(p.BotFg)).
		Padding(0, 1)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Background(lipgloss.Color(p.UserBg)).
		Foreground(lipgloss.Color(p.UserFg)).
		Padding(0, pad+1).
		MarginLeft(4)

	t.BotBubble = lipgloss.NewStyle().
		Background(lipgloss.Color(p.BotBg)).
		Foreground(lipgloss.Color(p.BotFg)).
		Padding(0, pad+1).
		MarginRight(4)

	t.SystemMessage = lipgloss.NewStyle().
		Foreground(Amber).
		Italic(true)

	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.Attachment = lipgloss.NewStyle().
		Foreground(Emerald).
		Underline(true)

	t.Sender = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(p.Fg))

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(lipgloss.Color(p.UserBg)).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.UserBg)).
		Bold(true)

	t.Typing = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Suggestion = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.BotFg)).
		Background(lipgloss.Color(p.BotBg)).
		Padding(0, 1)

	t.SuggestionSelected = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.UserFg)).
		Background(lipgloss.Color(p.UserBg)).
		Bold(true).
		Padding(0, 1)

	t.Hint = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.UserBg)).
		Padding(0, 2)

	t.PanelTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(p.UserBg)).
		MarginBottom(1)
}

// =============================================================================
// TYPING INDICATOR
// =============================================================================

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Interval returns the duration of each frame.
func (s SpinnerConfig) Interval() time.Duration {
	if s.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(s.FPS)
}

// DotsSpinner is the typing indicator animation.
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}
