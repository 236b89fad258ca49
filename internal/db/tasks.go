package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ldi/planner/internal/calendar"
	"github.com/ldi/planner/pkg/models"
)

// CreateTask inserts a new task. If t.ID is empty, a new UUID is
// generated. The date range is normalized before the write and empty
// names are rejected.
func (db *DB) CreateTask(ctx context.Context, t *models.Task) error {
	if err := db.createTask(ctx, db.DB, t); err != nil {
		return err
	}

	db.triggerChange(ctx)
	return nil
}

// GetTask retrieves a task by its ID. Returns nil, nil when absent.
func (db *DB) GetTask(ctx context.Context, id string) (*models.Task, error) {
	query := `
		SELECT id, name, category, start_date, end_date, created_at, updated_at
		FROM tasks
		WHERE id = ?
	`
	t, err := scanTask(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// ListTasks returns tasks ordered by start date, optionally restricted to
// a category.
func (db *DB) ListTasks(ctx context.Context, category *models.Category) ([]*models.Task, error) {
	query := `
		SELECT id, name, category, start_date, end_date, created_at, updated_at
		FROM tasks
		WHERE 1=1
	`
	args := []any{}

	if category != nil {
		query += " AND category = ?"
		args = append(args, *category)
	}

	query += " ORDER BY start_date ASC, created_at ASC"

	return db.queryTasks(ctx, query, args...)
}

// ListTasksOverlapping returns tasks whose inclusive range intersects
// [from, to], ordered by start date. Used to load one displayed month.
func (db *DB) ListTasksOverlapping(ctx context.Context, from, to time.Time) ([]*models.Task, error) {
	query := `
		SELECT id, name, category, start_date, end_date, created_at, updated_at
		FROM tasks
		WHERE start_date <= ? AND end_date >= ?
		ORDER BY start_date ASC, created_at ASC
	`
	return db.queryTasks(ctx, query,
		models.Midnight(to).Format(models.DateLayout),
		models.Midnight(from).Format(models.DateLayout),
	)
}

// queryTasks is a helper to execute a query that returns a list of tasks.
func (db *DB) queryTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return tasks, nil
}

// UpdateTask updates an existing task's name, category, and date range.
func (db *DB) UpdateTask(ctx context.Context, t *models.Task) error {
	t.Normalize()
	if err := t.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE tasks
		SET name = ?, category = ?, start_date = ?, end_date = ?
		WHERE id = ?
	`
	res, err := db.ExecContext(ctx, query,
		t.Name, t.Category,
		t.StartDate.Format(models.DateLayout), t.EndDate.Format(models.DateLayout),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if err := requireRow(res, t.ID); err != nil {
		return err
	}

	db.triggerChange(ctx)
	return nil
}

// MoveTask repositions a task so its range starts on the given date,
// preserving its length.
func (db *DB) MoveTask(ctx context.Context, id string, start time.Time) (*models.Task, error) {
	t, err := db.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("task not found: %s", id)
	}

	calendar.MoveStartTo(t, start)
	if err := db.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ResizeTask drags one edge of a task's range to the given date. Dragging
// an edge past the opposite one collapses the range to a single day.
func (db *DB) ResizeTask(ctx context.Context, id string, edge Edge, date time.Time) (*models.Task, error) {
	t, err := db.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("task not found: %s", id)
	}

	switch edge {
	case EdgeStart:
		calendar.ResizeStart(t, date)
	case EdgeEnd:
		calendar.ResizeEnd(t, date)
	default:
		return nil, fmt.Errorf("unknown edge: %q", edge)
	}

	if err := db.UpdateTask(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Edge names a draggable end of a task's date range.
type Edge string

const (
	EdgeStart Edge = "start"
	EdgeEnd   Edge = "end"
)

// DeleteTask deletes a task by its ID.
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	query := `DELETE FROM tasks WHERE id = ?`
	res, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if err := requireRow(res, id); err != nil {
		return err
	}

	db.triggerChange(ctx)
	return nil
}

// CountByCategory returns the number of tasks per category.
func (db *DB) CountByCategory(ctx context.Context) (map[models.Category]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT category, COUNT(*) FROM tasks GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Category]int)
	for rows.Next() {
		var c models.Category
		var n int
		if err := rows.Scan(&c, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[c] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return counts, nil
}

func requireRow(res sql.Result, id string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("task not found: %s", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	t := &models.Task{}
	var start, end string
	if err := row.Scan(&t.ID, &t.Name, &t.Category, &start, &end, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}

	var err error
	if t.StartDate, err = time.ParseInLocation(models.DateLayout, start, time.Local); err != nil {
		return nil, fmt.Errorf("bad start_date %q: %w", start, err)
	}
	if t.EndDate, err = time.ParseInLocation(models.DateLayout, end, time.Local); err != nil {
		return nil, fmt.Errorf("bad end_date %q: %w", end, err)
	}
	return t, nil
}
