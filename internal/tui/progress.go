package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trovelib/trovectl/internal/ingest"
)

// percentMsg carries a percentage update from the upload goroutine.
type percentMsg int

// progressTickMsg refreshes the UI periodically while a transfer runs.
type progressTickMsg time.Time

// progressDoneMsg is sent when the progress channel closes.
type progressDoneMsg struct{}

// progressModel renders an upload progress bar fed from a channel of
// percentage values (0–100, or ingest.ProgressIndeterminate).
type progressModel struct {
	progress      progress.Model
	percent       int
	indeterminate bool
	label         string
	done          bool
	cancelled     bool
	ch            <-chan int
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(progressTickCmd(), waitForPercent(m.ch))
}

func progressTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return progressTickMsg(t)
	})
}

func waitForPercent(ch <-chan int) tea.Cmd {
	return func() tea.Msg {
		// Block on channel read — UI stays alive via the tick command.
		p, ok := <-ch
		if !ok {
			return progressDoneMsg{}
		}
		return percentMsg(p)
	}
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		}

	case progressTickMsg:
		if m.done {
			return m, tea.Quit
		}
		return m, progressTickCmd()

	case percentMsg:
		if int(msg) == ingest.ProgressIndeterminate {
			m.indeterminate = true
		} else {
			m.indeterminate = false
			m.percent = int(msg)
			if m.percent >= 100 {
				m.done = true
				return m, tea.Quit
			}
		}
		return m, waitForPercent(m.ch)

	case progressDoneMsg:
		m.done = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		return m, nil
	}

	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	if m.indeterminate {
		return fmt.Sprintf("%s\nuploading… (size unknown)\n", m.label)
	}
	return fmt.Sprintf(
		"%s\n%s %d%%\n",
		m.label,
		m.progress.ViewAs(float64(m.percent)/100),
		m.percent,
	)
}

// ShowProgress displays a progress bar while an upload runs in another
// goroutine, reading percentage updates from ch until it closes or reaches
// 100. Returns an error if cancelled by the user (Ctrl+C).
func ShowProgress(label string, ch <-chan int) error {
	m := progressModel{
		progress: progress.New(progress.WithDefaultGradient()),
		label:    label,
		ch:       ch,
	}

	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := finalModel.(progressModel); ok && fm.cancelled {
		return fmt.Errorf("cancelled by user")
	}
	return nil
}
