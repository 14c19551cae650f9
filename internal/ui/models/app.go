package models

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/appsweep/appsweep/internal/cleaner"
	"github.com/appsweep/appsweep/internal/config"
	"github.com/appsweep/appsweep/internal/leftover"
	"github.com/appsweep/appsweep/internal/platform"
	"github.com/appsweep/appsweep/internal/progress"
)

// ViewState represents the current view in the app
type ViewState int

const (
	ViewScanning ViewState = iota
	ViewReview
	ViewConfirm
	ViewCleaning
	ViewSummary
)

// AppModel is the root model for the interactive TUI
type AppModel struct {
	state ViewState

	config     *config.Config
	info       *platform.Info
	scanResult *leftover.Result

	scanView    *ScanViewModel
	reviewView  *ReviewViewModel
	confirmView *ConfirmViewModel
	cleanupView *CleanupViewModel
	summaryView *SummaryViewModel

	chosen []leftover.Item

	width  int
	height int
}

// NewAppModel creates a new app model
func NewAppModel(cfg *config.Config, info *platform.Info) *AppModel {
	reporter := progress.NewReporter()
	engine := leftover.NewEngine(cfg, info)
	engine.Reporter = reporter

	return &AppModel{
		state:    ViewScanning,
		config:   cfg,
		info:     info,
		scanView: NewScanViewModel(engine, reporter),
	}
}

// Init initializes the model
func (m *AppModel) Init() tea.Cmd {
	return m.scanView.Init()
}

// Update handles messages
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != ViewCleaning {
				return m, tea.Quit
			}
		case "esc":
			if m.state == ViewConfirm {
				m.state = ViewReview
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.reviewView != nil {
			m.reviewView.SetHeight(m.height)
		}
		return m, nil

	case ScanCompleteMsg:
		m.scanResult = msg.Result
		m.reviewView = NewReviewViewModel(m.scanResult, m.height)
		m.state = ViewReview
		return m, nil

	case ItemsConfirmedMsg:
		if len(msg.Items) == 0 {
			return m, tea.Quit
		}
		m.chosen = msg.Items
		m.confirmView = NewConfirmViewModel(m.chosen, m.config.DryRun)
		m.state = ViewConfirm
		return m, nil

	case ConfirmAnswerMsg:
		if !msg.Confirmed {
			m.state = ViewReview
			return m, nil
		}
		c := cleaner.New(m.config)
		for _, p := range m.info.ProtectedPaths {
			c.Validator().AddProtectedPath(p)
		}
		m.cleanupView = NewCleanupViewModel(c, m.chosen)
		m.state = ViewCleaning
		return m, m.cleanupView.Init()

	case CleanCompleteMsg:
		m.summaryView = NewSummaryViewModel(msg.Result)
		m.state = ViewSummary
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case ViewScanning:
		m.scanView, cmd = m.scanView.Update(msg)
	case ViewReview:
		m.reviewView, cmd = m.reviewView.Update(msg)
	case ViewConfirm:
		m.confirmView, cmd = m.confirmView.Update(msg)
	case ViewCleaning:
		m.cleanupView, cmd = m.cleanupView.Update(msg)
	case ViewSummary:
		m.summaryView, cmd = m.summaryView.Update(msg)
	}
	return m, cmd
}

// View renders the current view
func (m *AppModel) View() string {
	switch m.state {
	case ViewScanning:
		return m.scanView.View()
	case ViewReview:
		return m.reviewView.View()
	case ViewConfirm:
		return m.confirmView.View()
	case ViewCleaning:
		return m.cleanupView.View()
	case ViewSummary:
		return m.summaryView.View()
	default:
		return ""
	}
}
