// Package style decides whether terminal output is coloured and provides the
// lipgloss styles used by the table renderer.
package style

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorMode is the user's colour preference.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color flag value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(s)); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("invalid color mode %q: must be 'auto', 'always' or 'never'", s)
}

// IsTerminal reports whether w is a file connected to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ShouldUseColor determines if ANSI color codes should be written to w.
// Respects NO_COLOR (https://no-color.org/), CLICOLOR, and CLICOLOR_FORCE
// when the mode is auto.
func ShouldUseColor(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	if _, exists := os.LookupEnv("CLICOLOR_FORCE"); exists {
		return true
	}
	return IsTerminal(w)
}

// NewRenderer returns a lipgloss renderer for w. Without colour the profile
// is plain ASCII so no escape sequences are emitted.
func NewRenderer(w io.Writer, color bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
		return r
	}
	if r.ColorProfile() == termenv.Ascii {
		// Forced colour on a non-TTY: termenv detects Ascii there.
		r.SetColorProfile(termenv.ANSI256)
	}
	return r
}

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	colorWarn   = lipgloss.AdaptiveColor{Light: "#fa8d3e", Dark: "#ffb454"}
)

// Styles groups the styles used when rendering results.
type Styles struct {
	Header   lipgloss.Style
	Round    lipgloss.Style
	Value    lipgloss.Style
	Infinite lipgloss.Style
	Border   lipgloss.Style
	Warning  lipgloss.Style
}

// NewStyles builds the result styles bound to a renderer.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header:   r.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1),
		Round:    r.NewStyle().Foreground(colorMuted).Padding(0, 1).Align(lipgloss.Right),
		Value:    r.NewStyle().Padding(0, 1).Align(lipgloss.Right),
		Infinite: r.NewStyle().Italic(true).Foreground(colorMuted).Padding(0, 1).Align(lipgloss.Right),
		Border:   r.NewStyle().Foreground(colorMuted),
		Warning:  r.NewStyle().Bold(true).Foreground(colorWarn),
	}
}
