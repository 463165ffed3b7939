// Package app holds GUI-wide application pieces: the fyne theme.
package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ColoringTheme is the default theme with larger touch targets.
type ColoringTheme struct{}

var _ fyne.Theme = (*ColoringTheme)(nil)

func (t *ColoringTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0xF5, G: 0x7C, B: 0x00, A: 0xFF} // Crayon orange
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xFF, G: 0xD6, B: 0x0A, A: 0x80}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *ColoringTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *ColoringTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *ColoringTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 28 // Tool buttons are tapped, not clicked
	default:
		return theme.DefaultTheme().Size(name)
	}
}
