package models

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/appsweep/appsweep/internal/leftover"
	"github.com/appsweep/appsweep/internal/progress"
	"github.com/appsweep/appsweep/internal/ui/styles"
)

const progressPollInterval = 200 * time.Millisecond

// ScanViewModel shows scan progress while the engine runs in the background.
type ScanViewModel struct {
	engine   *leftover.Engine
	reporter *progress.Reporter
	spinner  spinner.Model
	latest   *progress.ScanProgress
}

// NewScanViewModel creates a new scan view model
func NewScanViewModel(engine *leftover.Engine, reporter *progress.Reporter) *ScanViewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	return &ScanViewModel{
		engine:   engine,
		reporter: reporter,
		spinner:  s,
	}
}

// Init starts the scan and the progress poll.
func (m *ScanViewModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.performScan, m.pollProgress())
}

func (m *ScanViewModel) performScan() tea.Msg {
	return ScanCompleteMsg{Result: m.engine.Scan(context.Background())}
}

func (m *ScanViewModel) pollProgress() tea.Cmd {
	return tea.Tick(progressPollInterval, func(time.Time) tea.Msg {
		return ScanProgressMsg{Progress: m.reporter.GetScan()}
	})
}

// Update handles messages
func (m *ScanViewModel) Update(msg tea.Msg) (*ScanViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ScanProgressMsg:
		if msg.Progress != nil {
			m.latest = msg.Progress
		}
		return m, m.pollProgress()
	}

	return m, nil
}

// View renders the scan view
func (m *ScanViewModel) View() string {
	status := "Starting scan..."
	if m.latest != nil {
		status = progress.FormatScan(m.latest)
	}

	return fmt.Sprintf("%s\n\n %s %s\n\n%s\n",
		styles.TitleStyle.Render("Scanning for app leftovers"),
		m.spinner.View(),
		status,
		styles.HelpStyle.Render("q: quit"))
}
