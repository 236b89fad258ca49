package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical storage format for calendar dates.
const DateLayout = "2006-01-02"

type Category string

const (
	CategoryTodo       Category = "todo"
	CategoryInProgress Category = "in_progress"
	CategoryReview     Category = "review"
	CategoryCompleted  Category = "completed"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryTodo,
	CategoryInProgress,
	CategoryReview,
	CategoryCompleted,
}

// DisplayName returns the human readable label for a category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryTodo:
		return "To Do"
	case CategoryInProgress:
		return "In Progress"
	case CategoryReview:
		return "Review"
	case CategoryCompleted:
		return "Completed"
	}
	return string(c)
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryTodo, CategoryInProgress, CategoryReview, CategoryCompleted:
		return true
	}
	return false
}

// ParseCategory accepts either the storage form ("in_progress") or the
// display form ("In Progress"), case-insensitively.
func ParseCategory(s string) (Category, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "_")
	c := Category(norm)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category: %q", s)
	}
	return c, nil
}

// Task is a named, categorized, inclusive date range on the calendar.
// StartDate and EndDate are calendar dates (midnight, no time component)
// and satisfy StartDate <= EndDate after normalization.
type Task struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Normalize truncates both dates to midnight and swaps them if the range
// is inverted. An empty category defaults to todo.
func (t *Task) Normalize() {
	t.StartDate = Midnight(t.StartDate)
	t.EndDate = Midnight(t.EndDate)
	if t.EndDate.Before(t.StartDate) {
		t.StartDate, t.EndDate = t.EndDate, t.StartDate
	}
	if t.Category == "" {
		t.Category = CategoryTodo
	}
}

// Validate reports whether the task is acceptable for storage.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("task name must not be empty")
	}
	if !t.Category.Valid() {
		return fmt.Errorf("unknown category: %q", t.Category)
	}
	return nil
}

// Days returns the inclusive length of the task's range in days.
func (t *Task) Days() int {
	return int(Midnight(t.EndDate).Sub(Midnight(t.StartDate)).Hours()/24) + 1
}

// Covers reports whether the given date falls inside the task's range.
func (t *Task) Covers(date time.Time) bool {
	d := Midnight(date)
	return !d.Before(Midnight(t.StartDate)) && !d.After(Midnight(t.EndDate))
}

// Midnight truncates a time to the start of its calendar day, preserving
// the location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
