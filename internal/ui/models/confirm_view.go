package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/appsweep/appsweep/internal/leftover"
	"github.com/appsweep/appsweep/internal/ui/styles"
	"github.com/appsweep/appsweep/pkg/utils"
)

// ConfirmAnswerMsg carries the user's yes/no decision.
type ConfirmAnswerMsg struct {
	Confirmed bool
}

// ConfirmViewModel asks for a final go-ahead before removal.
type ConfirmViewModel struct {
	items  []leftover.Item
	dryRun bool
}

// NewConfirmViewModel creates a confirmation view for the chosen items.
func NewConfirmViewModel(items []leftover.Item, dryRun bool) *ConfirmViewModel {
	return &ConfirmViewModel{items: items, dryRun: dryRun}
}

// Update handles messages
func (m *ConfirmViewModel) Update(msg tea.Msg) (*ConfirmViewModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y", "enter":
		return m, func() tea.Msg { return ConfirmAnswerMsg{Confirmed: true} }
	case "N":
		return m, func() tea.Msg { return ConfirmAnswerMsg{Confirmed: false} }
	}

	return m, nil
}

// View renders the confirmation prompt
func (m *ConfirmViewModel) View() string {
	var size int64
	for _, item := range m.items {
		size += item.Size
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Confirm removal"))
	b.WriteString("\n")

	if m.dryRun {
		b.WriteString(styles.WarningStyle.Render("DRY RUN - nothing will be removed"))
		b.WriteString("\n\n")
	}

	b.WriteString(fmt.Sprintf("Remove %s items and reclaim %s?\n\n",
		styles.BoldStyle.Render(fmt.Sprintf("%d", len(m.items))),
		styles.SizeStyle.Render(utils.FormatBytes(size))))

	preview := m.items
	if len(preview) > 8 {
		preview = preview[:8]
	}
	for _, item := range preview {
		b.WriteString("  " + styles.PathStyle.Render(item.Path) + "\n")
	}
	if len(m.items) > len(preview) {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  ... and %d more\n", len(m.items)-len(preview))))
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("y/enter: remove  shift+n: back  esc: back  q: quit"))

	return b.String()
}
