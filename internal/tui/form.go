package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-pkgz/lgr"
	"github.com/ldi/planner/internal/ui/components"
	"github.com/ldi/planner/pkg/models"
)

var (
	formBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)

	formTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	formLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	formErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	formHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// formModel is the create/edit modal: a name input plus a category
// picker over a fixed date range.
type formModel struct {
	input    textinput.Model
	category int
	start    time.Time
	end      time.Time
	editID   string
	errMsg   string
}

func newForm(name string, category models.Category, start, end time.Time, editID string) formModel {
	ti := textinput.New()
	ti.Placeholder = "Task name"
	ti.CharLimit = 80
	ti.Width = 32
	ti.SetValue(name)
	ti.Focus()

	catIdx := 0
	for i, c := range models.Categories {
		if c == category {
			catIdx = i
		}
	}

	return formModel{
		input:    ti,
		category: catIdx,
		start:    models.Midnight(start),
		end:      models.Midnight(end),
		editID:   editID,
	}
}

func (f *formModel) editing() bool {
	return f.editID != ""
}

func (f *formModel) task() *models.Task {
	return &models.Task{
		ID:        f.editID,
		Name:      strings.TrimSpace(f.input.Value()),
		Category:  models.Categories[f.category],
		StartDate: f.start,
		EndDate:   f.end,
	}
}

func (f formModel) View() string {
	title := "New task"
	if f.editing() {
		title = "Edit task"
	}

	cat := models.Categories[f.category]
	dates := fmt.Sprintf("%s – %s", f.start.Format("Jan 2"), f.end.Format("Jan 2"))
	if f.start.Equal(f.end) {
		dates = f.start.Format("Jan 2, 2006")
	}

	var b strings.Builder
	b.WriteString(formTitleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(formLabelStyle.Render("Name     "))
	b.WriteString(f.input.View())
	b.WriteString("\n")
	b.WriteString(formLabelStyle.Render("Category "))
	b.WriteString(components.ChipStyle(cat).Render(" " + cat.DisplayName() + " "))
	b.WriteString(formHelpStyle.Render("  ←/→ to change"))
	b.WriteString("\n")
	b.WriteString(formLabelStyle.Render("Dates    "))
	b.WriteString(dates)
	b.WriteString("\n")
	if f.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(formErrorStyle.Render(f.errMsg))
	}
	b.WriteString("\n")
	help := "enter save • esc cancel"
	if f.editing() {
		help = "enter save • ctrl+d delete • esc cancel"
	}
	b.WriteString(formHelpStyle.Render(help))

	return formBoxStyle.Render(b.String())
}

func (m *Model) openCreateForm(start, end time.Time) {
	m.form = newForm("", models.CategoryTodo, start, end, "")
	m.mode = modeForm
}

func (m *Model) openEditForm(t *models.Task) {
	m.form = newForm(t.Name, t.Category, t.StartDate, t.EndDate, t.ID)
	m.mode = modeForm
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeModal()
		return m, nil

	case "enter":
		t := m.form.task()
		if t.Name == "" {
			m.form.errMsg = "Name must not be empty"
			return m, nil
		}

		var err error
		if m.form.editing() {
			err = m.store.UpdateTask(m.ctx, t)
		} else {
			err = m.store.CreateTask(m.ctx, t)
		}
		if err != nil {
			m.form.errMsg = err.Error()
			return m, nil
		}

		lgr.Printf("DEBUG saved task %q (%s)", t.Name, t.Category)
		m.status = "saved " + t.Name
		m.closeModal()
		m.reload()
		return m, nil

	case "ctrl+d":
		if m.form.editing() {
			if err := m.store.DeleteTask(m.ctx, m.form.editID); err != nil {
				m.form.errMsg = err.Error()
				return m, nil
			}
			m.status = "deleted"
			m.closeModal()
			m.reload()
		}
		return m, nil

	case "left":
		if m.form.category > 0 {
			m.form.category--
		} else {
			m.form.category = len(models.Categories) - 1
		}
		return m, nil

	case "right":
		m.form.category = (m.form.category + 1) % len(models.Categories)
		return m, nil
	}

	var cmd tea.Cmd
	m.form.input, cmd = m.form.input.Update(msg)
	return m, cmd
}

func (m *Model) closeModal() {
	m.mode = modeNormal
	m.sel.Clear()
	m.dragTask = nil
}
