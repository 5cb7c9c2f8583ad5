// Package ui holds the styling helpers shared by envdoctor's console output.
package ui

import (
	"os"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/muesli/reflow/wordwrap"
)

// GetFangScheme returns the same light/dark-aware color scheme fang uses.
func GetFangScheme() fang.ColorScheme {
	// This mirrors fang.mustColorscheme(DefaultColorScheme)
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
	return fang.DefaultColorScheme(lipgloss.LightDark(isDark))
}

// Styles renders the transcript's title and section headers. When disabled
// it passes text through untouched, so piped output stays byte-plain.
type Styles struct {
	enabled bool
	title   lipgloss.Style
	header  lipgloss.Style
	ok      lipgloss.Style
	fail    lipgloss.Style
}

// NewStyles builds the transcript styles. Styling only applies when enabled.
func NewStyles(enabled bool) Styles {
	s := Styles{enabled: enabled}
	if !enabled {
		return s
	}

	cs := GetFangScheme()
	s.title = lipgloss.NewStyle().Bold(true).Foreground(cs.QuotedString)
	s.header = lipgloss.NewStyle().Bold(true).Foreground(cs.Program)
	s.ok = lipgloss.NewStyle().Foreground(cs.Flag)
	s.fail = lipgloss.NewStyle().Bold(true)
	return s
}

// Title renders the banner title.
func (s Styles) Title(text string) string {
	if !s.enabled {
		return text
	}
	return s.title.Render(text)
}

// Header renders a section header line.
func (s Styles) Header(text string) string {
	if !s.enabled {
		return text
	}
	return s.header.Render(text)
}

// OK renders a success marker line.
func (s Styles) OK(text string) string {
	if !s.enabled {
		return text
	}
	return s.ok.Render(text)
}

// Fail renders a failure marker line.
func (s Styles) Fail(text string) string {
	if !s.enabled {
		return text
	}
	return s.fail.Render(text)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(f.Fd())
}

// DetectWidth returns the terminal width for f, or 0 when f is not a
// terminal (callers treat 0 as "do not wrap").
func DetectWidth(f *os.File) int {
	if !IsTerminal(f) {
		return 0
	}
	w, _, err := term.GetSize(f.Fd())
	if err != nil || w <= 0 {
		return 0
	}
	return w
}

// Wrap soft-wraps text at the given width. A width of 0 or less disables
// wrapping entirely.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wordwrap.String(text, width)
}
