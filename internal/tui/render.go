package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ldi/planner/internal/calendar"
	"github.com/ldi/planner/internal/ui/components"
	"github.com/mattn/go-runewidth"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	filterBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("220")).
				Italic(true)

	weekdayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Bold(true)

	dayStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	blankDayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	todayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("16")).
			Background(lipgloss.Color("252")).
			Bold(true)

	selectedDayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("16")).
				Background(lipgloss.Color("110"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading planner..."
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	switch m.mode {
	case modeForm:
		return m.overlay(m.form.View())
	case modeFilter:
		return m.overlay(m.filterForm.View())
	}

	grid := m.renderGrid()
	panel := m.panel.View()
	body := lipgloss.JoinHorizontal(lipgloss.Top, grid, " ", panel)

	return m.renderHeader() + "\n" + body + "\n" + m.renderFooter()
}

func (m *Model) overlay(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderHeader() string {
	title := titleStyle.Render(fmt.Sprintf("%s %d", m.month, m.year))

	badge := ""
	if m.filter.Restrictive() {
		badge = filterBadgeStyle.Render(fmt.Sprintf(" [filtered: %d/%d]", len(m.visible), len(m.tasks)))
	}

	var wd strings.Builder
	for _, name := range weekdayNames {
		wd.WriteString(weekdayStyle.Render(pad(name, m.cellWidth)))
	}

	return title + badge + "\n" + wd.String()
}

func (m *Model) renderGrid() string {
	var b strings.Builder

	for i, row := range m.weeks() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderDayLine(row))

		lanes := m.laneLayout(row)
		for lane := 0; lane < laneCount; lane++ {
			b.WriteString("\n")
			b.WriteString(m.renderLane(lanes[lane]))
		}
	}

	return b.String()
}

func (m *Model) renderDayLine(row []calendar.Cell) string {
	today := m.now()

	var b strings.Builder
	for _, cell := range row {
		label := ""
		style := blankDayStyle
		if !cell.Blank() {
			label = fmt.Sprintf("%2d", cell.Day)
			switch {
			case calendar.SameDay(cell.Date, m.cursor):
				style = cursorStyle
			case m.sel.Contains(cell.Date):
				style = selectedDayStyle
			case calendar.SameDay(cell.Date, today):
				style = todayStyle
			default:
				style = dayStyle
			}
		}
		b.WriteString(style.Render(pad(label, m.cellWidth)))
	}
	return b.String()
}

func (m *Model) renderLane(entries []chipEntry) string {
	var b strings.Builder
	col := 0
	for _, entry := range entries {
		for col < entry.col {
			b.WriteString(strings.Repeat(" ", m.cellWidth))
			col++
		}
		grabbed := m.dragTask != nil && entry.task.ID == m.dragTask.ID
		b.WriteString(components.Chip(entry.task, entry.span, m.cellWidth, grabbed))
		b.WriteString(" ")
		col += entry.span
	}
	for col < calendar.DaysPerWeek {
		b.WriteString(strings.Repeat(" ", m.cellWidth))
		col++
	}
	return b.String()
}

func (m *Model) renderFooter() string {
	legend := components.Legend()

	line := m.status
	style := statusStyle
	if line == "" {
		style = helpStyle
		switch m.mode {
		case modeSelect:
			line = "drag or shift+arrows to extend • enter to create • esc to cancel"
		case modeDrag:
			line = "drag or arrows to move • release/enter to drop • esc to cancel"
		case modeResize:
			line = "drag or arrows to resize • release/enter to drop • esc to cancel"
		default:
			line = "drag days to create • drag chips to move/resize • f filter • [ ] month • q quit"
		}
	}

	return legend + "\n" + style.Render(line)
}

// pad right-pads or clips a label to exactly width terminal cells.
func pad(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}
