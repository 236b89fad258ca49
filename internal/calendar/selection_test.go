package calendar

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.Local)
}

func TestSelectionForwardDrag(t *testing.T) {
	var s Selection
	s.Start(day(5))
	s.ExtendTo(day(9))

	start, end := s.Range()
	if !SameDay(start, day(5)) || !SameDay(end, day(9)) {
		t.Errorf("expected 5..9, got %v..%v", start, end)
	}
	if s.Len() != 5 {
		t.Errorf("expected 5 days, got %d", s.Len())
	}
}

func TestSelectionBackwardDragNormalizes(t *testing.T) {
	var s Selection
	s.Start(day(9))
	s.ExtendTo(day(5))

	start, end := s.Range()
	if end.Before(start) {
		t.Fatalf("selection range inverted: %v..%v", start, end)
	}
	if !SameDay(start, day(5)) || !SameDay(end, day(9)) {
		t.Errorf("expected 5..9, got %v..%v", start, end)
	}
}

func TestSelectionContains(t *testing.T) {
	var s Selection
	if s.Contains(day(1)) {
		t.Errorf("inactive selection should contain nothing")
	}

	s.Start(day(3))
	s.ExtendTo(day(6))
	for d := 3; d <= 6; d++ {
		if !s.Contains(day(d)) {
			t.Errorf("expected day %d in selection", d)
		}
	}
	if s.Contains(day(2)) || s.Contains(day(7)) {
		t.Errorf("selection should not contain days outside 3..6")
	}
}

func TestSelectionDates(t *testing.T) {
	var s Selection
	s.Start(day(28))
	s.ExtendTo(day(30))

	dates := s.Dates()
	if len(dates) != 3 {
		t.Fatalf("expected 3 dates, got %d", len(dates))
	}
	for i, d := range dates {
		if !SameDay(d, day(28+i)) {
			t.Errorf("date %d: expected June %d, got %v", i, 28+i, d)
		}
	}
}

func TestSelectionClear(t *testing.T) {
	var s Selection
	s.Start(day(1))
	s.Clear()
	if s.Active() || s.Len() != 0 || s.Dates() != nil {
		t.Errorf("cleared selection should be inactive and empty")
	}
}

func TestSelectionSingleDay(t *testing.T) {
	var s Selection
	s.Start(day(15))
	if s.Len() != 1 {
		t.Errorf("fresh selection should span one day, got %d", s.Len())
	}
	if !s.Contains(day(15)) {
		t.Errorf("fresh selection should contain its anchor")
	}
}
