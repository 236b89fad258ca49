package tui

import (
	"sort"
	"time"

	"github.com/ldi/planner/internal/calendar"
	"github.com/ldi/planner/pkg/models"
)

const (
	headerHeight = 2
	rowHeight    = 1 + laneCount
	minCellWidth = 4
)

// chipEntry is a task chip placed on one week row: starting column and
// the number of cells it spans after clipping.
type chipEntry struct {
	task *models.Task
	col  int
	span int
}

func (m *Model) recalculateLayout() {
	if !m.ready {
		return
	}

	panelWidth := m.width / 4
	if panelWidth < 24 {
		panelWidth = 24
	}
	if panelWidth > m.width/2 {
		panelWidth = m.width / 2
	}

	gridWidth := m.width - panelWidth - 1
	cw := gridWidth / calendar.DaysPerWeek
	if cw < minCellWidth {
		cw = minCellWidth
	}
	m.cellWidth = cw
	m.panelWidth = panelWidth

	panelHeight := m.gridHeight() - 2
	if panelHeight < 4 {
		panelHeight = 4
	}
	m.panel.SetSize(panelWidth-2, panelHeight)
}

func (m *Model) gridHeight() int {
	return len(m.weeks()) * rowHeight
}

func (m *Model) cells() []calendar.Cell {
	return calendar.MonthGrid(m.year, m.month)
}

func (m *Model) weeks() [][]calendar.Cell {
	return calendar.Weeks(m.cells())
}

// renderTasks returns the visible tasks with any in-flight drag preview
// substituted for its stored counterpart.
func (m *Model) renderTasks() []*models.Task {
	if m.dragTask == nil {
		return m.visible
	}
	out := make([]*models.Task, 0, len(m.visible))
	replaced := false
	for _, t := range m.visible {
		if t.ID == m.dragTask.ID {
			out = append(out, m.dragTask)
			replaced = true
		} else {
			out = append(out, t)
		}
	}
	if !replaced {
		out = append(out, m.dragTask)
	}
	return out
}

// laneLayout assigns the chips intersecting one week row to lanes.
// Chips are clipped to the month and to the row per the visible-span
// rule; chips that do not fit any lane are dropped from the grid (they
// remain reachable through the day panel).
func (m *Model) laneLayout(row []calendar.Cell) [][]chipEntry {
	first, last, ok := rowDateBounds(row)
	if !ok {
		return make([][]chipEntry, laneCount)
	}

	tasks := make([]*models.Task, len(m.renderTasks()))
	copy(tasks, m.renderTasks())
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].StartDate.Before(tasks[j].StartDate)
	})

	lanes := make([][]chipEntry, laneCount)
	occupied := make([][calendar.DaysPerWeek]bool, laneCount)

	for _, t := range tasks {
		if t.EndDate.Before(first) || t.StartDate.After(last) {
			continue
		}

		from := models.Midnight(t.StartDate)
		if from.Before(first) {
			from = first
		}
		col := colOf(row, from)
		if col < 0 {
			continue
		}
		span := calendar.VisibleSpan(t, from, m.year, m.month, col)
		if span < 1 {
			continue
		}

		for lane := 0; lane < laneCount; lane++ {
			if laneFree(&occupied[lane], col, span) {
				for c := col; c < col+span; c++ {
					occupied[lane][c] = true
				}
				lanes[lane] = append(lanes[lane], chipEntry{task: t, col: col, span: span})
				break
			}
		}
	}
	return lanes
}

func laneFree(occ *[calendar.DaysPerWeek]bool, col, span int) bool {
	for c := col; c < col+span && c < calendar.DaysPerWeek; c++ {
		if occ[c] {
			return false
		}
	}
	return true
}

// rowDateBounds returns the first and last real dates in a week row.
func rowDateBounds(row []calendar.Cell) (time.Time, time.Time, bool) {
	var first, last time.Time
	found := false
	for _, c := range row {
		if c.Blank() {
			continue
		}
		if !found {
			first = c.Date
			found = true
		}
		last = c.Date
	}
	return first, last, found
}

func colOf(row []calendar.Cell, date time.Time) int {
	for i, c := range row {
		if !c.Blank() && calendar.SameDay(c.Date, date) {
			return i
		}
	}
	return -1
}

// cellAt maps terminal coordinates to a grid date. lane is -1 for the
// day-number line, otherwise the chip lane index within the row.
func (m *Model) cellAt(x, y int) (date time.Time, lane int, ok bool) {
	if !m.ready || m.cellWidth == 0 {
		return time.Time{}, 0, false
	}

	col := x / m.cellWidth
	if col >= calendar.DaysPerWeek || x < 0 {
		return time.Time{}, 0, false
	}

	rowIdx := (y - headerHeight) / rowHeight
	weeks := m.weeks()
	if y < headerHeight || rowIdx >= len(weeks) {
		return time.Time{}, 0, false
	}

	cell := weeks[rowIdx][col]
	if cell.Blank() {
		return time.Time{}, 0, false
	}

	lane = (y-headerHeight)%rowHeight - 1
	return cell.Date, lane, true
}

// chipAt returns the chip occupying the given lane cell, if any.
func (m *Model) chipAt(date time.Time, lane int) *models.Task {
	if lane < 0 || lane >= laneCount {
		return nil
	}

	weeks := m.weeks()
	for _, row := range weeks {
		col := colOf(row, date)
		if col < 0 {
			continue
		}
		for _, entry := range m.laneLayout(row)[lane] {
			if col >= entry.col && col < entry.col+entry.span {
				return entry.task
			}
		}
		return nil
	}
	return nil
}
