package cmd

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))

type workDoneMsg struct {
	err error
}

// waitModel animates a spinner while a background goroutine does the real
// work. The goroutine reports through outcome; the model only waits on it,
// so quitting the program never blocks the work from finishing.
type waitModel struct {
	spinner spinner.Model
	label   string
	outcome <-chan error
	err     error
	done    bool
}

func (m waitModel) awaitOutcome() tea.Msg {
	return workDoneMsg{err: <-m.outcome}
}

func (m waitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.awaitOutcome)
}

func (m waitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case workDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m waitModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.label
}

// runFetchSpinner runs fetch in the background and keeps a spinner on
// output until it settles, then returns the fetch's error.
func runFetchSpinner(ctx context.Context, output io.Writer, label string, fetch func(context.Context) error) error {
	outcome := make(chan error, 1)
	go func() {
		outcome <- fetch(ctx)
	}()

	model := waitModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
		label:   label,
		outcome: outcome,
	}

	program := tea.NewProgram(
		model,
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	final, err := program.Run()
	if err != nil {
		// The program can be torn down by ctx before the work settles;
		// the work's own error still wins when it is already available.
		select {
		case workErr := <-outcome:
			return workErr
		default:
			return err
		}
	}

	return final.(waitModel).err
}
