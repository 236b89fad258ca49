package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ldi/planner/pkg/models"
)

// CommitBatch inserts every task staged for the session inside a single
// transaction. Either the whole batch lands on the calendar or none of it
// does.
func (db *DB) CommitBatch(ctx context.Context, sessionID string) error {
	items := db.Staging.GetAndClear(sessionID)
	if items == nil || len(items.Tasks) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range items.Tasks {
		if err := db.createTask(ctx, tx, t); err != nil {
			return fmt.Errorf("failed to create staged task %s: %w", t.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	db.triggerChange(ctx)
	return nil
}

func (db *DB) createTask(ctx context.Context, exec executor, t *models.Task) error {
	t.Normalize()
	if err := t.Validate(); err != nil {
		return err
	}

	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	query := `
		INSERT INTO tasks (id, name, category, start_date, end_date)
		VALUES (?, ?, ?, ?, ?)
		RETURNING created_at, updated_at
	`
	err := exec.QueryRowContext(ctx, query,
		t.ID, t.Name, t.Category,
		t.StartDate.Format(models.DateLayout), t.EndDate.Format(models.DateLayout),
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}
