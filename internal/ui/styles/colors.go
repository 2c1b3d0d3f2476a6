// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatbuddy/internal/config"
)

// =============================================================================
// THEME PALETTES
// =============================================================================

// Palette is the set of hex colors a theme is built from.
type Palette struct {
	Name    string
	Bg      string
	Fg      string
	UserBg  string
	UserFg  string
	BotBg   string
	BotFg   string
	InputBg string
	InputFg string
}

// LightPalette is the default palette.
var LightPalette = Palette{
	Name:    config.ThemeLight,
	Bg:      "#FFFFFF",
	Fg:      "#000000",
	UserBg:  "#0078D4",
	UserFg:  "#FFFFFF",
	BotBg:   "#F0F0F0",
	BotFg:   "#000000",
	InputBg: "#FFFFFF",
	InputFg: "#000000",
}

// DarkPalette suits dark terminals.
var DarkPalette = Palette{
	Name:    config.ThemeDark,
	Bg:      "#2D2D30",
	Fg:      "#FFFFFF",
	UserBg:  "#0E639C",
	UserFg:  "#FFFFFF",
	BotBg:   "#3E3E42",
	BotFg:   "#FFFFFF",
	InputBg: "#3E3E42",
	InputFg: "#FFFFFF",
}

var BluePalette = Palette{
	Name:    config.ThemeBlue,
	Bg:      "#E3F2FD",
	Fg:      "#0D47A1",
	UserBg:  "#1976D2",
	UserFg:  "#FFFFFF",
	BotBg:   "#BBDEFB",
	BotFg:   "#0D47A1",
	InputBg: "#FFFFFF",
	InputFg: "#000000",
}

// ThemeNames lists the selectable themes in menu order.
var ThemeNames = []string{config.ThemeLight, config.ThemeDark, config.ThemeBlue}

// PaletteFor returns the palette for a theme name (any case). Unknown
// names get the Light palette.
func PaletteFor(name string) Palette {
	canonical, _ := config.CanonicalTheme(name)
	switch canonical {
	case config.ThemeDark:
		return DarkPalette
	case config.ThemeBlue:
		return BluePalette
	default:
		return LightPalette
	}
}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - System notices
var Amber = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}

// Emerald - Success, attachments
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// TextMuted - Hints, timestamps
var TextMuted = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

// =============================================================================
// ACCESSIBILITY: Shape indicators alongside color
// =============================================================================

// StatusIndicatorSet contains text indicators for status states.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
}

// StatusIndicators are ASCII so they render on any terminal.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
}

// RenderSuccess renders a success message with its indicator.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(Emerald).Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error message with its indicator.
func RenderError(message string) string {
	return lipgloss.NewStyle().Foreground(Rose).Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning message with its indicator.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).
		Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders an informational message with its indicator.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().Foreground(TextMuted).
		Render(StatusIndicators.Info + " " + message)
}
