package calendar

import (
	"testing"
	"time"
)

func TestMonthGridLeadingBlanks(t *testing.T) {
	tests := []struct {
		year   int
		month  time.Month
		blanks int
		days   int
	}{
		// June 2024 starts on a Saturday.
		{2024, time.June, 6, 30},
		// September 2024 starts on a Sunday.
		{2024, time.September, 0, 30},
		// February 2024 is a leap month starting on a Thursday.
		{2024, time.February, 4, 29},
		{2023, time.February, 3, 28},
	}

	for _, tt := range tests {
		cells := MonthGrid(tt.year, tt.month)
		if len(cells) != tt.blanks+tt.days {
			t.Errorf("%v %d: expected %d cells, got %d", tt.month, tt.year, tt.blanks+tt.days, len(cells))
		}
		for i := 0; i < tt.blanks; i++ {
			if !cells[i].Blank() {
				t.Errorf("%v %d: cell %d should be blank", tt.month, tt.year, i)
			}
		}
		for i := tt.blanks; i < len(cells); i++ {
			want := i - tt.blanks + 1
			if cells[i].Day != want {
				t.Errorf("%v %d: cell %d expected day %d, got %d", tt.month, tt.year, i, want, cells[i].Day)
			}
		}
	}
}

func TestMonthGridDates(t *testing.T) {
	cells := MonthGrid(2024, time.June)
	first := cells[6]
	if first.Day != 1 {
		t.Fatalf("expected day 1, got %d", first.Day)
	}
	if first.Date.Weekday() != time.Saturday {
		t.Errorf("June 1 2024 should be a Saturday, got %v", first.Date.Weekday())
	}
}

func TestWeeks(t *testing.T) {
	rows := Weeks(MonthGrid(2024, time.June))
	if len(rows) != 6 {
		t.Fatalf("June 2024 should span 6 week rows, got %d", len(rows))
	}
	for i, row := range rows {
		if len(row) != DaysPerWeek {
			t.Errorf("row %d: expected %d cells, got %d", i, DaysPerWeek, len(row))
		}
	}
	// Last row is 30th plus six trailing blanks.
	last := rows[len(rows)-1]
	if last[0].Day != 30 {
		t.Errorf("expected day 30 in the last row, got %d", last[0].Day)
	}
	if !last[1].Blank() {
		t.Errorf("expected trailing blank after day 30")
	}
}

func TestDaysIn(t *testing.T) {
	if got := DaysIn(2024, time.February); got != 29 {
		t.Errorf("Feb 2024: expected 29, got %d", got)
	}
	if got := DaysIn(2023, time.February); got != 28 {
		t.Errorf("Feb 2023: expected 28, got %d", got)
	}
	if got := DaysIn(2024, time.December); got != 31 {
		t.Errorf("Dec 2024: expected 31, got %d", got)
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, time.June, 10, 23, 59, 0, 0, time.Local)
	b := time.Date(2024, time.June, 13, 0, 1, 0, 0, time.Local)
	if got := DaysBetween(a, b); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := DaysBetween(b, a); got != -3 {
		t.Errorf("expected -3, got %d", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestMonthNavigation(t *testing.T) {
	y, m := NextMonth(2024, time.December)
	if y != 2025 || m != time.January {
		t.Errorf("expected 2025 January, got %d %v", y, m)
	}
	y, m = PrevMonth(2024, time.January)
	if y != 2023 || m != time.December {
		t.Errorf("expected 2023 December, got %d %v", y, m)
	}
}
