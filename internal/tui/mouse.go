package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ldi/planner/internal/calendar"
	"github.com/ldi/planner/internal/db"
)

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeForm || m.mode == modeFilter {
		return m, nil
	}

	switch msg.Type {
	case tea.MouseLeft:
		date, lane, ok := m.cellAt(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.mousePoint(date, lane)

	case tea.MouseRelease:
		m.mouseRelease()

	case tea.MouseMotion:
		if date, _, ok := m.cellAt(msg.X, msg.Y); ok {
			m.refreshPanel(date)
		}

	case tea.MouseWheelUp:
		m.gotoMonth(calendar.PrevMonth(m.year, m.month))
	case tea.MouseWheelDown:
		m.gotoMonth(calendar.NextMonth(m.year, m.month))
	}

	return m, nil
}

// mousePoint handles both the initial press and the held-button motion
// events of a drag gesture; the terminal reports them identically.
func (m *Model) mousePoint(date time.Time, lane int) {
	m.cursor = date

	switch m.mode {
	case modeSelect:
		m.sel.ExtendTo(date)

	case modeDrag:
		calendar.MoveStartTo(m.dragTask, date.AddDate(0, 0, -m.grabOffset))
		if !calendar.SameDay(date, m.pressDate) {
			m.dragMoved = true
		}

	case modeResize:
		m.applyResizePreview(date)
		if !calendar.SameDay(date, m.pressDate) {
			m.dragMoved = true
		}

	case modeNormal:
		m.pressDate = date
		if t := m.chipAt(date, lane); t != nil {
			copied := *t
			m.dragTask = &copied
			m.dragMoved = false

			// Pressing a multi-day chip on its first or last cell grabs
			// that edge; anywhere else grabs the body.
			switch {
			case t.Days() > 1 && calendar.SameDay(date, t.StartDate):
				m.mode = modeResize
				m.dragEdge = db.EdgeStart
			case t.Days() > 1 && calendar.SameDay(date, t.EndDate):
				m.mode = modeResize
				m.dragEdge = db.EdgeEnd
			default:
				m.mode = modeDrag
				m.grabOffset = calendar.DaysBetween(t.StartDate, date)
			}
			return
		}

		m.sel.Start(date)
		m.mode = modeSelect
	}

	m.refreshPanel(date)
}

func (m *Model) mouseRelease() {
	switch m.mode {
	case modeSelect:
		start, end := m.sel.Range()
		m.openCreateForm(start, end)

	case modeDrag, modeResize:
		m.commitDrag()
	}
}
