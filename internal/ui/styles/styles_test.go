// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaletteFor(t *testing.T) {
	assert.Equal(t, LightPalette, PaletteFor("Light"))
	assert.Equal(t, DarkPalette, PaletteFor("dark"))
	assert.Equal(t, BluePalette, PaletteFor("BLUE"))
	assert.Equal(t, LightPalette, PaletteFor("neon"))
	assert.Equal(t, LightPalette, PaletteFor(""))
}

func TestPalettes_OriginalColors(t *testing.T) {
	assert.Equal(t, "#0078D4", LightPalette.UserBg)
	assert.Equal(t, "#2D2D30", DarkPalette.Bg)
	assert.Equal(t, "#BBDEFB", BluePalette.BotBg)
	assert.Len(t, ThemeNames, 3)
}

func TestTheme_Apply(t *testing.T) {
	theme := NewTheme("Light", 10)
	assert.Equal(t, "Light", theme.Name)

	theme.Apply("dark")
	assert.Equal(t, "Dark", theme.Name)
	assert.Equal(t, DarkPalette, theme.Palette)
}

func TestTheme_BubblePadding(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{8, 0}, {10, 0}, {12, 1}, {16, 2}, {20, 3}, {4, 0}, {40, 3},
	}
	for _, tt := range tests {
		theme := &Theme{FontSize: tt.size}
		assert.Equal(t, tt.want, theme.bubblePadding(), "font size %d", tt.size)
	}
}

func TestTheme_BubbleWidth(t *testing.T) {
	theme := NewTheme("Blue", 10)
	theme.SetSize(100, 40)
	assert.Equal(t, 75, theme.BubbleWidth())

	theme.SetSize(10, 5)
	assert.Equal(t, 20, theme.BubbleWidth())
}

func TestRenderHelpers_IncludeIndicators(t *testing.T) {
	assert.True(t, strings.Contains(RenderSuccess("saved"), "[OK] saved"))
	assert.True(t, strings.Contains(RenderError("failed"), "[X] failed"))
	assert.True(t, strings.Contains(RenderWarning("careful"), "[!] careful"))
	assert.True(t, strings.Contains(RenderInfo("note"), "[i] note"))
}

func TestSpinnerConfig_Interval(t *testing.T) {
	assert.Equal(t, time.Second/6, DotsSpinner.Interval())
	assert.Equal(t, time.Second, SpinnerConfig{}.Interval())
}

func TestTheme_IsDarkPalette(t *testing.T) {
	theme := NewTheme("dark", 10)
	assert.True(t, theme.IsDarkPalette())

	theme.Apply("Blue")
	assert.False(t, theme.IsDarkPalette())
}

func TestRenderMarkdown_KeepsText(t *testing.T) {
	out := RenderMarkdown("# Title\n\n- **hello** - Greet the bot\n", 60, false)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "Greet")
}
