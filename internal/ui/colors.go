package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#2B6CB0", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Ok renders text in the palette's success style.
func Ok(text string) string { return styles.ok.Render(text) }

// Warn renders text in the palette's warning style.
func Warn(text string) string { return styles.warn.Render(text) }

// Err renders text in the palette's error style.
func Err(text string) string { return styles.err.Render(text) }

// Title renders text in the palette's title style.
func Title(text string) string { return styles.title.Render(text) }
