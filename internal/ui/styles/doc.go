// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the chat screen.

# Palettes (colors.go)

Three palettes are available: Light (default), Dark and Blue. Each names
the background, foreground, user bubble, bot bubble and input colors as
hex strings. PaletteFor resolves a theme name case-insensitively.

# Theme (theme.go)

Theme turns a palette into lipgloss styles:

	theme := styles.NewTheme("Dark", 10)
	theme.SetSize(width, height)
	bubble := theme.UserBubble.Render(text)

Apply switches palettes in place so a running program can re-theme
without rebuilding its model.

# Status helpers

RenderSuccess, RenderError, RenderWarning and RenderInfo prefix an ASCII
shape indicator so status is readable without color.
*/
package styles
