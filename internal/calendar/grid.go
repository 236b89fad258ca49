// Package calendar holds the pure date arithmetic behind the month grid:
// cell layout, drag selection, and task move/resize rules.
package calendar

import (
	"time"

	"github.com/ldi/planner/pkg/models"
)

// DaysPerWeek is the number of columns in the month grid.
const DaysPerWeek = 7

// Cell is one slot in the month grid. Leading blanks before the first of
// the month have Day == 0.
type Cell struct {
	Day  int
	Date time.Time
}

// Blank reports whether the cell is a leading filler before day 1.
func (c Cell) Blank() bool {
	return c.Day == 0
}

// MonthGrid computes the cells for a month: one blank per weekday before
// the 1st (Sunday-start week), then one cell per day of the month.
func MonthGrid(year int, month time.Month) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	lead := int(first.Weekday())

	cells := make([]Cell, 0, lead+DaysIn(year, month))
	for i := 0; i < lead; i++ {
		cells = append(cells, Cell{})
	}
	for d := 1; d <= DaysIn(year, month); d++ {
		cells = append(cells, Cell{Day: d, Date: first.AddDate(0, 0, d-1)})
	}
	return cells
}

// Weeks groups grid cells into rows of seven, padding the final row with
// trailing blanks so every row has exactly DaysPerWeek cells.
func Weeks(cells []Cell) [][]Cell {
	var rows [][]Cell
	for start := 0; start < len(cells); start += DaysPerWeek {
		end := start + DaysPerWeek
		if end > len(cells) {
			end = len(cells)
		}
		row := make([]Cell, DaysPerWeek)
		copy(row, cells[start:end])
		rows = append(rows, row)
	}
	return rows
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

// DaysBetween returns the signed whole-day distance from a to b, both
// truncated to midnight.
func DaysBetween(a, b time.Time) int {
	am := models.Midnight(a)
	bm := models.Midnight(b)
	return int(bm.Sub(am).Hours() / 24)
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// PrevMonth returns the year and month immediately before the given one.
func PrevMonth(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.Local).AddDate(0, -1, 0)
	return t.Year(), t.Month()
}

// NextMonth returns the year and month immediately after the given one.
func NextMonth(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.Local).AddDate(0, 1, 0)
	return t.Year(), t.Month()
}
