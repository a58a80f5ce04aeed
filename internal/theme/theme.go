// Package theme maps UI elements and syntax scopes to tcell styles.
package theme

import (
	"github.com/gdamore/tcell/v2"

	"github.com/smash-editor/smash/internal/highlight"
	"github.com/smash-editor/smash/internal/logger"
)

// Theme is a named style table. Syntax styles are keyed by scope name
// ("keyword", "string", ...), UI styles by element name ("Default",
// "Gutter", "StatusBar", ...).
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle looks a style up by name, falling back to Default.
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}
	if def, ok := t.Styles["Default"]; ok {
		if name != "Default" {
			logger.Debugf("theme '%s': style %q not found, using Default", t.Name, name)
		}
		return def
	}
	return tcell.StyleDefault
}

// StyleForScope returns the style for a highlight scope.
func (t *Theme) StyleForScope(scope highlight.Scope) tcell.Style {
	return t.GetStyle(scope.String())
}

// ByName returns a built-in theme, defaulting to Dark.
func ByName(name string) *Theme {
	switch name {
	case "light":
		return &Light
	default:
		return &Dark
	}
}

// Dark is the default theme.
var Dark Theme

// Light is a bright-background variant.
var Light Theme

func init() {
	bg := tcell.NewHexColor(0x2a2f38)
	fg := tcell.NewHexColor(0xc5cdd9)
	comment := tcell.NewHexColor(0x5c6370)
	orange := tcell.NewHexColor(0xd19a66)
	yellow := tcell.NewHexColor(0xe5c07b)
	green := tcell.NewHexColor(0x98c379)
	cyan := tcell.NewHexColor(0x56b6c2)
	blue := tcell.NewHexColor(0x61afef)
	magenta := tcell.NewHexColor(0xc678dd)

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(fg)
	Dark = Theme{
		Name:   "dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			"Default":           base,
			"Gutter":            base.Foreground(comment),
			"GutterCurrent":     base.Foreground(fg).Bold(true),
			"Selection":         base.Reverse(true),
			"SearchHighlight":   tcell.StyleDefault.Background(tcell.ColorOrange).Foreground(tcell.ColorBlack),
			"StatusBar":         tcell.StyleDefault.Background(bg).Foreground(fg),
			"StatusBarModified": tcell.StyleDefault.Background(bg).Foreground(yellow),

			"keyword":     base.Foreground(blue).Bold(true),
			"string":      base.Foreground(green),
			"comment":     base.Foreground(comment).Italic(true),
			"number":      base.Foreground(orange),
			"type":        base.Foreground(cyan),
			"function":    base.Foreground(yellow),
			"constant":    base.Foreground(orange),
			"macro":       base.Foreground(magenta),
			"attribute":   base.Foreground(yellow),
			"variable":    base,
			"operator":    base,
			"punctuation": base.Foreground(comment),
			"namespace":   base.Foreground(cyan),
			"label":       base,
			"plain":       base,
		},
	}

	lightBase := tcell.StyleDefault.Background(tcell.ColorWhite).Foreground(tcell.ColorBlack)
	Light = Theme{
		Name:   "light",
		IsDark: false,
		Styles: map[string]tcell.Style{
			"Default":           lightBase,
			"Gutter":            lightBase.Foreground(tcell.ColorGray),
			"GutterCurrent":     lightBase.Bold(true),
			"Selection":         lightBase.Reverse(true),
			"SearchHighlight":   tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack),
			"StatusBar":         tcell.StyleDefault.Background(tcell.ColorSilver).Foreground(tcell.ColorBlack),
			"StatusBarModified": tcell.StyleDefault.Background(tcell.ColorSilver).Foreground(tcell.ColorDarkRed),

			"keyword":   lightBase.Foreground(tcell.ColorBlue).Bold(true),
			"string":    lightBase.Foreground(tcell.ColorDarkGreen),
			"comment":   lightBase.Foreground(tcell.ColorGray).Italic(true),
			"number":    lightBase.Foreground(tcell.ColorDarkOrange),
			"type":      lightBase.Foreground(tcell.ColorTeal),
			"function":  lightBase.Foreground(tcell.ColorDarkGoldenrod),
			"constant":  lightBase.Foreground(tcell.ColorDarkOrange),
			"macro":     lightBase.Foreground(tcell.ColorPurple),
			"attribute": lightBase.Foreground(tcell.ColorDarkGoldenrod),
			"namespace": lightBase.Foreground(tcell.ColorTeal),
			"plain":     lightBase,
		},
	}
}
