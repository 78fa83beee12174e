// Package ui provides terminal presentation helpers for the CLI: a lipgloss
// color palette for styled output and a bubbletea spinner shown while the
// login command waits for the OAuth redirect.
package ui
