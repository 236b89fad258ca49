// Package filter implements the predicate applied to the task list before
// rendering: text search, category set, and a relative duration bucket.
package filter

import (
	"strings"
	"time"

	"github.com/ldi/planner/internal/calendar"
	"github.com/ldi/planner/pkg/models"
)

// Bucket is a relative-time window measured in days from today.
// BucketAll disables duration filtering.
type Bucket int

const (
	BucketAll   Bucket = 0
	BucketWeek  Bucket = 7
	BucketTwo   Bucket = 14
	BucketThree Bucket = 21
)

// Buckets lists the selectable buckets in cycle order.
var Buckets = []Bucket{BucketAll, BucketWeek, BucketTwo, BucketThree}

// Label returns the display label for a bucket.
func (b Bucket) Label() string {
	switch b {
	case BucketAll:
		return "All"
	case BucketWeek:
		return "Within 1 week"
	case BucketTwo:
		return "Within 2 weeks"
	case BucketThree:
		return "Within 3 weeks"
	}
	return "All"
}

// Next returns the bucket after b in cycle order, wrapping around.
func (b Bucket) Next() Bucket {
	for i, candidate := range Buckets {
		if candidate == b {
			return Buckets[(i+1)%len(Buckets)]
		}
	}
	return BucketAll
}

// Filter is the transient filter state. The zero value matches nothing
// useful; use New for a filter with every category enabled.
type Filter struct {
	Search     string
	Categories map[models.Category]bool
	Duration   Bucket

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// New returns a filter that passes every task.
func New() *Filter {
	cats := make(map[models.Category]bool, len(models.Categories))
	for _, c := range models.Categories {
		cats[c] = true
	}
	return &Filter{Categories: cats, Duration: BucketAll}
}

// Reset clears search text, re-enables all categories, and selects the
// "all" duration bucket.
func (f *Filter) Reset() {
	f.Search = ""
	for _, c := range models.Categories {
		f.Categories[c] = true
	}
	f.Duration = BucketAll
}

// Toggle flips a category on or off.
func (f *Filter) Toggle(c models.Category) {
	f.Categories[c] = !f.Categories[c]
}

// Restrictive reports whether the filter excludes anything at all.
func (f *Filter) Restrictive() bool {
	if strings.TrimSpace(f.Search) != "" || f.Duration != BucketAll {
		return true
	}
	for _, c := range models.Categories {
		if !f.Categories[c] {
			return true
		}
	}
	return false
}

// Match applies the full predicate to a single task.
func (f *Filter) Match(t *models.Task) bool {
	if s := strings.TrimSpace(f.Search); s != "" {
		if !strings.Contains(strings.ToLower(t.Name), strings.ToLower(s)) {
			return false
		}
	}

	if f.Categories != nil && !f.Categories[t.Category] {
		return false
	}

	if f.Duration != BucketAll {
		days := calendar.DaysBetween(f.now(), t.StartDate)
		if days < 0 {
			days = -days
		}
		if days > int(f.Duration) {
			return false
		}
	}

	return true
}

// Apply returns the tasks that pass the predicate, preserving order.
func (f *Filter) Apply(tasks []*models.Task) []*models.Task {
	out := make([]*models.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

func (f *Filter) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}
