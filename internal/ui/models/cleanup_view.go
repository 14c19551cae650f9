package models

import (
	"fmt"
	"time"

	bprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/appsweep/appsweep/internal/cleaner"
	"github.com/appsweep/appsweep/internal/leftover"
	"github.com/appsweep/appsweep/internal/progress"
	"github.com/appsweep/appsweep/internal/ui/styles"
)

// CleanProgressMsg carries a live progress snapshot during removal.
type CleanProgressMsg struct {
	Progress *progress.CleanProgress
}

// CleanupViewModel shows removal progress while the cleaner runs.
type CleanupViewModel struct {
	cleaner  *cleaner.Cleaner
	items    []leftover.Item
	spinner  spinner.Model
	bar      bprogress.Model
	latest   *progress.CleanProgress
	reporter *progress.Reporter
}

// NewCleanupViewModel creates a cleanup view that will remove items.
func NewCleanupViewModel(c *cleaner.Cleaner, items []leftover.Item) *CleanupViewModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SelectedStyle

	return &CleanupViewModel{
		cleaner:  c,
		items:    items,
		spinner:  s,
		bar:      bprogress.New(bprogress.WithDefaultGradient()),
		reporter: c.GetProgressReporter(),
	}
}

// Init starts the removal and the progress poll.
func (m *CleanupViewModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.performClean, m.pollProgress())
}

func (m *CleanupViewModel) performClean() tea.Msg {
	return CleanCompleteMsg{Result: m.cleaner.Clean(m.items)}
}

func (m *CleanupViewModel) pollProgress() tea.Cmd {
	return tea.Tick(progressPollInterval, func(time.Time) tea.Msg {
		return CleanProgressMsg{Progress: m.reporter.GetClean()}
	})
}

// Update handles messages
func (m *CleanupViewModel) Update(msg tea.Msg) (*CleanupViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case CleanProgressMsg:
		if msg.Progress != nil {
			m.latest = msg.Progress
		}
		return m, m.pollProgress()
	}

	return m, nil
}

// View renders the cleanup view
func (m *CleanupViewModel) View() string {
	percent := 0.0
	status := "Preparing..."
	if m.latest != nil {
		if m.latest.Total > 0 {
			percent = float64(m.latest.Removed) / float64(m.latest.Total)
		}
		status = progress.FormatClean(m.latest)
	}

	return fmt.Sprintf("%s\n\n %s %s\n\n%s\n",
		styles.TitleStyle.Render("Removing leftovers"),
		m.spinner.View(),
		status,
		m.bar.ViewAs(percent))
}
