package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// doneMsg signals that the awaited operation finished.
type doneMsg struct{}

// WaitModel is a minimal spinner shown while the CLI waits for an external
// event, such as the OAuth redirect landing on the callback server.
type WaitModel struct {
	spinner spinner.Model
	message string
	done    <-chan struct{}
}

// NewWaitModel creates a [WaitModel] that quits when done is closed.
func NewWaitModel(message string, done <-chan struct{}) WaitModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.ok
	return WaitModel{spinner: sp, message: message, done: done}
}

func waitFor(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return doneMsg{}
	}
}

func (m WaitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitFor(m.done))
}

func (m WaitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m WaitModel) View() string {
	return fmt.Sprintf("%s %s\n", m.spinner.View(), styles.help.Render(m.message))
}

// Wait displays a spinner with the given message until done is closed.
func Wait(message string, done <-chan struct{}) error {
	p := tea.NewProgram(NewWaitModel(message, done))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("spinner failed: %w", err)
	}
	return nil
}
