// Package tui implements the interactive month-grid planner. Tasks are
// created by dragging across empty days, repositioned by dragging chip
// bodies, and resized by dragging chip edges; a filter modal narrows the
// visible set.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-pkgz/lgr"
	"github.com/ldi/planner/internal/calendar"
	"github.com/ldi/planner/internal/db"
	"github.com/ldi/planner/internal/filter"
	"github.com/ldi/planner/internal/ui/components"
	"github.com/ldi/planner/pkg/models"
)

type mode int

const (
	modeNormal mode = iota
	modeSelect      // accumulating a drag selection over empty days
	modeDrag        // dragging a chip body to another day
	modeResize      // dragging a chip edge
	modeForm        // create/edit modal open
	modeFilter      // filter modal open
)

const laneCount = 2

type Model struct {
	store *db.DB
	ctx   context.Context

	year  int
	month time.Month

	tasks   []*models.Task
	visible []*models.Task
	filter  *filter.Filter

	cursor time.Time
	sel    calendar.Selection
	mode   mode

	// Drag state. dragTask is a working copy; the store is only written
	// on release.
	dragTask   *models.Task
	dragEdge   db.Edge
	grabOffset int
	dragMoved  bool
	pressDate  time.Time

	form       formModel
	filterForm filterFormModel
	panel      *components.DayPanel

	width      int
	height     int
	cellWidth  int
	panelWidth int
	ready      bool

	status   string
	quitting bool
	err      error

	now func() time.Time
}

func NewModel(store *db.DB) *Model {
	now := time.Now()
	m := &Model{
		store:  store,
		ctx:    context.Background(),
		year:   now.Year(),
		month:  now.Month(),
		cursor: models.Midnight(now),
		filter: filter.New(),
		panel:  components.NewDayPanel(0, 0),
		now:    time.Now,
	}
	m.reload()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// reload fetches the tasks overlapping the displayed month and reapplies
// the filter.
func (m *Model) reload() {
	first := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.Local)
	last := time.Date(m.year, m.month, calendar.DaysIn(m.year, m.month), 0, 0, 0, 0, time.Local)

	tasks, err := m.store.ListTasksOverlapping(m.ctx, first, last)
	if err != nil {
		lgr.Printf("WARN failed to load tasks: %v", err)
		m.status = "load failed: " + err.Error()
		return
	}
	m.tasks = tasks
	m.applyFilter()
	m.refreshPanel(m.cursor)
}

func (m *Model) applyFilter() {
	m.filter.Now = m.now
	m.visible = m.filter.Apply(m.tasks)
}

// refreshPanel points the day panel at the tasks covering the date.
func (m *Model) refreshPanel(date time.Time) {
	var covering []*models.Task
	for _, t := range m.visible {
		if t.Covers(date) {
			covering = append(covering, t)
		}
	}
	m.panel.SetDay(date, covering)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.recalculateLayout()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case error:
		m.err = msg
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeFilter:
		return m.updateFilterForm(msg)
	}

	m.status = ""

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-calendar.DaysPerWeek)
	case "down", "j":
		m.moveCursor(calendar.DaysPerWeek)

	case "shift+left", "shift+right", "shift+up", "shift+down":
		if !m.sel.Active() && m.mode == modeNormal {
			m.sel.Start(m.cursor)
			m.mode = modeSelect
		}
		switch msg.String() {
		case "shift+left":
			m.cursor = m.cursor.AddDate(0, 0, -1)
		case "shift+right":
			m.cursor = m.cursor.AddDate(0, 0, 1)
		case "shift+up":
			m.cursor = m.cursor.AddDate(0, 0, -calendar.DaysPerWeek)
		case "shift+down":
			m.cursor = m.cursor.AddDate(0, 0, calendar.DaysPerWeek)
		}
		m.clampCursor()
		m.sel.ExtendTo(m.cursor)

	case "v":
		if m.mode == modeSelect {
			m.cancelGesture()
		} else if m.mode == modeNormal {
			m.sel.Start(m.cursor)
			m.mode = modeSelect
		}

	case "m":
		m.toggleKeyboardDrag(db.Edge(""))
	case "r":
		m.toggleKeyboardDrag(db.EdgeEnd)
	case "R":
		m.toggleKeyboardDrag(db.EdgeStart)

	case "enter":
		switch m.mode {
		case modeSelect:
			start, end := m.sel.Range()
			m.openCreateForm(start, end)
		case modeDrag, modeResize:
			m.commitDrag()
		default:
			if t := m.taskOn(m.cursor); t != nil {
				m.openEditForm(t)
			} else {
				m.openCreateForm(m.cursor, m.cursor)
			}
		}

	case "n":
		m.openCreateForm(m.cursor, m.cursor)

	case "e":
		if t := m.taskOn(m.cursor); t != nil {
			m.openEditForm(t)
		}

	case "d":
		if t := m.taskOn(m.cursor); t != nil {
			if err := m.store.DeleteTask(m.ctx, t.ID); err != nil {
				m.status = "delete failed: " + err.Error()
			} else {
				m.status = "deleted " + t.Name
				m.reload()
			}
		}

	case "f", "/":
		m.openFilterForm(msg.String() == "/")

	case "[", "pgup":
		m.gotoMonth(calendar.PrevMonth(m.year, m.month))
	case "]", "pgdown":
		m.gotoMonth(calendar.NextMonth(m.year, m.month))

	case "t":
		m.cursor = models.Midnight(m.now())
		m.gotoMonth(m.cursor.Year(), m.cursor.Month())

	case "esc":
		m.cancelGesture()
	}

	return m, nil
}

// toggleKeyboardDrag starts or commits a keyboard-driven move/resize of
// the chip under the cursor. An empty edge means move.
func (m *Model) toggleKeyboardDrag(edge db.Edge) {
	if m.mode == modeDrag || m.mode == modeResize {
		m.commitDrag()
		return
	}
	if m.mode != modeNormal {
		return
	}
	t := m.taskOn(m.cursor)
	if t == nil {
		return
	}

	copied := *t
	m.dragTask = &copied
	m.dragMoved = false
	if edge == "" {
		m.mode = modeDrag
		m.grabOffset = calendar.DaysBetween(t.StartDate, m.cursor)
	} else {
		m.mode = modeResize
		m.dragEdge = edge
	}
}

func (m *Model) moveCursor(days int) {
	m.cursor = m.cursor.AddDate(0, 0, days)
	m.clampCursor()

	switch m.mode {
	case modeDrag:
		calendar.MoveStartTo(m.dragTask, m.cursor.AddDate(0, 0, -m.grabOffset))
		m.dragMoved = true
	case modeResize:
		m.applyResizePreview(m.cursor)
	case modeSelect:
		m.sel.ExtendTo(m.cursor)
	}

	m.refreshPanel(m.cursor)
}

// clampCursor follows the cursor across month boundaries.
func (m *Model) clampCursor() {
	if m.cursor.Year() != m.year || m.cursor.Month() != m.month {
		m.gotoMonth(m.cursor.Year(), m.cursor.Month())
	}
}

func (m *Model) gotoMonth(year int, month time.Month) {
	m.year = year
	m.month = month
	if m.cursor.Year() != year || m.cursor.Month() != month {
		day := m.cursor.Day()
		if max := calendar.DaysIn(year, month); day > max {
			day = max
		}
		m.cursor = time.Date(year, month, day, 0, 0, 0, 0, time.Local)
	}
	m.reload()
}

func (m *Model) applyResizePreview(date time.Time) {
	if m.dragEdge == db.EdgeStart {
		calendar.ResizeStart(m.dragTask, date)
	} else {
		calendar.ResizeEnd(m.dragTask, date)
	}
	m.dragMoved = true
}

// commitDrag persists the working copy of a move/resize gesture.
func (m *Model) commitDrag() {
	t := m.dragTask
	movedMode := m.mode
	m.dragTask = nil
	m.mode = modeNormal

	if t == nil {
		return
	}
	if !m.dragMoved {
		// A click without motion opens the edit form instead.
		m.openEditForm(t)
		return
	}

	var err error
	if movedMode == modeDrag {
		_, err = m.store.MoveTask(m.ctx, t.ID, t.StartDate)
	} else {
		date := t.EndDate
		if m.dragEdge == db.EdgeStart {
			date = t.StartDate
		}
		_, err = m.store.ResizeTask(m.ctx, t.ID, m.dragEdge, date)
	}
	if err != nil {
		m.status = "update failed: " + err.Error()
	} else {
		lgr.Printf("DEBUG task %s now %s..%s", t.Name,
			t.StartDate.Format(models.DateLayout), t.EndDate.Format(models.DateLayout))
	}
	m.reload()
}

func (m *Model) cancelGesture() {
	m.sel.Clear()
	m.dragTask = nil
	if m.mode == modeSelect || m.mode == modeDrag || m.mode == modeResize {
		m.mode = modeNormal
	}
}

// taskOn returns the topmost visible task covering the date, if any.
func (m *Model) taskOn(date time.Time) *models.Task {
	for _, t := range m.visible {
		if t.Covers(date) {
			return t
		}
	}
	return nil
}

// Run starts the planner TUI over the given store.
func Run(ctx context.Context, store *db.DB) error {
	m := NewModel(store)
	m.ctx = ctx
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(*Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
