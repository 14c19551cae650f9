package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/appsweep/appsweep/internal/cleaner"
	"github.com/appsweep/appsweep/internal/ui/styles"
	"github.com/appsweep/appsweep/pkg/utils"
)

// SummaryViewModel shows what the clean run did.
type SummaryViewModel struct {
	result *cleaner.CleanResult
}

// NewSummaryViewModel creates a summary view for a finished clean.
func NewSummaryViewModel(result *cleaner.CleanResult) *SummaryViewModel {
	return &SummaryViewModel{result: result}
}

// Update handles messages
func (m *SummaryViewModel) Update(msg tea.Msg) (*SummaryViewModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "enter" {
		return m, tea.Quit
	}
	return m, nil
}

// View renders the summary
func (m *SummaryViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Done"))
	b.WriteString("\n")

	if m.result.DryRun {
		b.WriteString(styles.WarningStyle.Render("DRY RUN - nothing was removed"))
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("%s %d items, %s reclaimed\n",
		styles.SuccessStyle.Render("Removed:"),
		m.result.Removed,
		utils.FormatBytes(m.result.RemovedSize)))

	if m.result.Failed > 0 {
		b.WriteString(fmt.Sprintf("%s %d items\n",
			styles.ErrorStyle.Render("Failed:"),
			m.result.Failed))
		for _, re := range m.result.Errors {
			b.WriteString("  " + styles.DimStyle.Render(re.UserMessage()) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("enter/q: quit"))

	return b.String()
}
