package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ldi/planner/pkg/models"
	"github.com/mattn/go-runewidth"
)

var (
	todoChipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("63"))

	inProgressChipStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("231")).
				Background(lipgloss.Color("172"))

	reviewChipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("135"))

	completedChipStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("231")).
				Background(lipgloss.Color("29"))

	grabbedChipStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("16")).
				Background(lipgloss.Color("220")).
				Bold(true)

	legendKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// ChipStyle returns the lipgloss style for a category's task chip.
// Categories carry display styling only.
func ChipStyle(c models.Category) lipgloss.Style {
	switch c {
	case models.CategoryInProgress:
		return inProgressChipStyle
	case models.CategoryReview:
		return reviewChipStyle
	case models.CategoryCompleted:
		return completedChipStyle
	}
	return todoChipStyle
}

// Chip renders a task chip clipped to the given cell width and span.
// Grabbed chips (mid drag) get a highlight style regardless of category.
func Chip(t *models.Task, span, cellWidth int, grabbed bool) string {
	if span < 1 || cellWidth < 1 {
		return ""
	}

	width := span*cellWidth - 1
	if width < 1 {
		width = 1
	}

	// Terminal cells, not bytes: multibyte and double-width names must
	// still line up with the grid columns.
	label := runewidth.FillRight(runewidth.Truncate(" "+t.Name, width, "…"), width)

	style := ChipStyle(t.Category)
	if grabbed {
		style = grabbedChipStyle
	}
	return style.Render(label)
}

// Legend renders one swatch per category, used under the grid.
func Legend() string {
	parts := make([]string, 0, len(models.Categories))
	for _, c := range models.Categories {
		parts = append(parts, ChipStyle(c).Render(" "+c.DisplayName()+" "))
	}
	return strings.Join(parts, legendKeyStyle.Render(" "))
}
