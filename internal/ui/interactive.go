// Package ui provides the interactive terminal interface for reviewing and
// removing leftovers.
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/appsweep/appsweep/internal/config"
	"github.com/appsweep/appsweep/internal/platform"
	"github.com/appsweep/appsweep/internal/ui/models"
)

// RunInteractive starts the interactive TUI mode
func RunInteractive(cfg *config.Config) error {
	info, err := platform.GetInfo()
	if err != nil {
		return fmt.Errorf("failed to get platform info: %w", err)
	}

	m := models.NewAppModel(cfg, info)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running interactive mode: %w", err)
	}

	return nil
}
