package calendar

import (
	"time"

	"github.com/ldi/planner/pkg/models"
)

// Move shifts both edges of the task's range by delta days, preserving
// its length.
func Move(t *models.Task, delta int) {
	t.StartDate = models.Midnight(t.StartDate).AddDate(0, 0, delta)
	t.EndDate = models.Midnight(t.EndDate).AddDate(0, 0, delta)
}

// MoveStartTo repositions the task so its start lands on the given date,
// preserving its length. Used when a chip body is dropped on another day.
func MoveStartTo(t *models.Task, date time.Time) {
	Move(t, DaysBetween(t.StartDate, date))
}

// ResizeStart drags the left edge of the task to the given date. If the
// edge would cross the right edge, the range collapses to that single day
// rather than inverting.
func ResizeStart(t *models.Task, date time.Time) {
	d := models.Midnight(date)
	t.StartDate = d
	if d.After(models.Midnight(t.EndDate)) {
		t.EndDate = d
	}
}

// ResizeEnd drags the right edge of the task to the given date, with the
// same collapse rule as ResizeStart.
func ResizeEnd(t *models.Task, date time.Time) {
	d := models.Midnight(date)
	t.EndDate = d
	if d.Before(models.Midnight(t.StartDate)) {
		t.StartDate = d
	}
}

// VisibleSpan clips the number of days a task occupies starting from the
// given date so the rendered chip neither runs past the end of the
// displayed month nor past the end of the current week row. weekCol is the
// zero-based column of the date within its row.
func VisibleSpan(t *models.Task, from time.Time, year int, month time.Month, weekCol int) int {
	span := DaysBetween(from, t.EndDate) + 1
	if span < 1 {
		return 0
	}

	if rest := DaysIn(year, month) - from.Day() + 1; span > rest {
		span = rest
	}
	if rest := DaysPerWeek - weekCol; span > rest {
		span = rest
	}
	return span
}
