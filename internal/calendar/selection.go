package calendar

import (
	"time"

	"github.com/ldi/planner/pkg/models"
)

// Selection accumulates a contiguous date range during a drag gesture.
// It lives only for the duration of the gesture and the modal that follows.
// The zero value is inactive.
type Selection struct {
	anchor time.Time
	extent time.Time
	active bool
}

// Start begins a selection anchored at the given date.
func (s *Selection) Start(date time.Time) {
	s.anchor = models.Midnight(date)
	s.extent = s.anchor
	s.active = true
}

// ExtendTo moves the free edge of the selection to the given date. The
// range stays contiguous between the anchor and the extent regardless of
// drag direction. No-op if the selection is inactive.
func (s *Selection) ExtendTo(date time.Time) {
	if !s.active {
		return
	}
	s.extent = models.Midnight(date)
}

// Clear ends the gesture and resets the selection to inactive.
func (s *Selection) Clear() {
	*s = Selection{}
}

// Active reports whether a drag gesture is in progress.
func (s *Selection) Active() bool {
	return s.active
}

// Range returns the normalized (start, end) of the selection.
func (s *Selection) Range() (time.Time, time.Time) {
	if s.extent.Before(s.anchor) {
		return s.extent, s.anchor
	}
	return s.anchor, s.extent
}

// Contains reports whether the date falls inside the active selection.
func (s *Selection) Contains(date time.Time) bool {
	if !s.active {
		return false
	}
	start, end := s.Range()
	d := models.Midnight(date)
	return !d.Before(start) && !d.After(end)
}

// Len returns the number of days in the selection, zero when inactive.
func (s *Selection) Len() int {
	if !s.active {
		return 0
	}
	start, end := s.Range()
	return DaysBetween(start, end) + 1
}

// Dates returns every day in the selection in ascending order.
func (s *Selection) Dates() []time.Time {
	if !s.active {
		return nil
	}
	start, _ := s.Range()
	out := make([]time.Time, s.Len())
	for i := range out {
		out[i] = start.AddDate(0, 0, i)
	}
	return out
}
