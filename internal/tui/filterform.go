package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ldi/planner/internal/filter"
	"github.com/ldi/planner/internal/ui/components"
	"github.com/ldi/planner/pkg/models"
)

var (
	filterOffStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	bucketStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110")).
			Bold(true)
)

// filterFormModel is the filter modal: a search input, category toggles,
// and a duration bucket cycler. Edits apply to a scratch copy committed
// on enter.
type filterFormModel struct {
	input   textinput.Model
	scratch *filter.Filter
}

func newFilterForm(current *filter.Filter, focusSearch bool) filterFormModel {
	ti := textinput.New()
	ti.Placeholder = "Search tasks"
	ti.CharLimit = 60
	ti.Width = 28
	ti.SetValue(current.Search)
	if focusSearch {
		ti.Focus()
	}

	scratch := filter.New()
	scratch.Search = current.Search
	for c, on := range current.Categories {
		scratch.Categories[c] = on
	}
	scratch.Duration = current.Duration

	return filterFormModel{input: ti, scratch: scratch}
}

func (f filterFormModel) View() string {
	var b strings.Builder
	b.WriteString(formTitleStyle.Render("Filters"))
	b.WriteString("\n\n")
	b.WriteString(formLabelStyle.Render("Search   "))
	b.WriteString(f.input.View())
	b.WriteString("\n")
	b.WriteString(formLabelStyle.Render("Category "))
	for i, c := range models.Categories {
		label := fmt.Sprintf(" %d:%s ", i+1, c.DisplayName())
		if f.scratch.Categories[c] {
			b.WriteString(components.ChipStyle(c).Render(label))
		} else {
			b.WriteString(filterOffStyle.Render(label))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n")
	b.WriteString(formLabelStyle.Render("Starting "))
	b.WriteString(bucketStyle.Render(f.scratch.Duration.Label()))
	b.WriteString(formHelpStyle.Render("  tab to cycle"))
	b.WriteString("\n\n")
	b.WriteString(formHelpStyle.Render("1-4 toggle category • ctrl+r reset • enter apply • esc cancel"))

	return formBoxStyle.Render(b.String())
}

func (m *Model) openFilterForm(focusSearch bool) {
	m.filterForm = newFilterForm(m.filter, focusSearch)
	m.mode = modeFilter
}

func (m *Model) updateFilterForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		return m, nil

	case "enter":
		m.filterForm.scratch.Search = m.filterForm.input.Value()
		m.filter = m.filterForm.scratch
		m.mode = modeNormal
		m.applyFilter()
		m.refreshPanel(m.cursor)
		return m, nil

	case "tab":
		m.filterForm.scratch.Duration = m.filterForm.scratch.Duration.Next()
		return m, nil

	case "ctrl+r":
		m.filterForm.scratch.Reset()
		m.filterForm.input.SetValue("")
		return m, nil

	case "/":
		if !m.filterForm.input.Focused() {
			m.filterForm.input.Focus()
			return m, nil
		}

	case "1", "2", "3", "4":
		if !m.filterForm.input.Focused() {
			idx := int(msg.String()[0] - '1')
			m.filterForm.scratch.Toggle(models.Categories[idx])
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filterForm.input, cmd = m.filterForm.input.Update(msg)
	return m, cmd
}
