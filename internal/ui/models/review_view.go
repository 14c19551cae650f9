package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/appsweep/appsweep/internal/leftover"
	"github.com/appsweep/appsweep/internal/ui/styles"
	"github.com/appsweep/appsweep/pkg/utils"
)

// ReviewViewModel lets the user toggle which leftover items to remove.
// High and medium confidence items start selected, low confidence off.
type ReviewViewModel struct {
	items    []leftover.Item
	selected []bool
	cursor   int
	height   int
}

// NewReviewViewModel creates a review view over the scan result.
func NewReviewViewModel(result *leftover.Result, height int) *ReviewViewModel {
	selected := make([]bool, len(result.Items))
	for i, item := range result.Items {
		selected[i] = item.Selected
	}
	return &ReviewViewModel{
		items:    result.Items,
		selected: selected,
		height:   height,
	}
}

// SetHeight updates the view height after a resize.
func (m *ReviewViewModel) SetHeight(height int) {
	m.height = height
}

// Update handles messages
func (m *ReviewViewModel) Update(msg tea.Msg) (*ReviewViewModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case " ":
		if len(m.items) > 0 {
			m.selected[m.cursor] = !m.selected[m.cursor]
		}
	case "a":
		for i := range m.selected {
			m.selected[i] = true
		}
	case "n":
		for i := range m.selected {
			m.selected[i] = false
		}
	case "enter":
		chosen := m.SelectedItems()
		return m, func() tea.Msg { return ItemsConfirmedMsg{Items: chosen} }
	}

	return m, nil
}

// SelectedItems returns the currently checked items.
func (m *ReviewViewModel) SelectedItems() []leftover.Item {
	var chosen []leftover.Item
	for i, on := range m.selected {
		if on {
			chosen = append(chosen, m.items[i])
		}
	}
	return chosen
}

// View renders the review list
func (m *ReviewViewModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Review leftovers"))
	b.WriteString("\n")

	if len(m.items) == 0 {
		b.WriteString(styles.SuccessStyle.Render("No leftovers found. Your Library is clean."))
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render("q: quit"))
		return b.String()
	}

	visible := m.height - 8
	if visible < 5 {
		visible = 5
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(m.items) {
		end = len(m.items)
	}

	for i := start; i < end; i++ {
		item := m.items[i]

		box := styles.UncheckedBox()
		if m.selected[i] {
			box = styles.CheckedBox()
		}

		line := fmt.Sprintf("%s %-26s %-16s %-8s %s",
			box,
			truncate(item.Name, 26),
			item.Category,
			utils.FormatBytes(item.Size),
			confidenceLabel(item.Confidence))

		if i == m.cursor {
			line = styles.SelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	var count int
	var size int64
	for i, on := range m.selected {
		if on {
			count++
			size += m.items[i].Size
		}
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Selected: %d of %d items, %s\n",
		count, len(m.items), styles.SizeStyle.Render(utils.FormatBytes(size))))
	b.WriteString(styles.HelpStyle.Render("space: toggle  a: all  n: none  enter: continue  q: quit"))

	return b.String()
}

func confidenceLabel(c leftover.Confidence) string {
	switch c {
	case leftover.ConfidenceHigh:
		return styles.ConfidenceHighStyle.Render("high")
	case leftover.ConfidenceMedium:
		return styles.ConfidenceMediumStyle.Render("medium")
	default:
		return styles.ConfidenceLowStyle.Render("low")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
