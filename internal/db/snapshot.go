package db

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ldi/planner/pkg/models"
)

// EnableAutoSnapshot sets up a hook that automatically exports a snapshot
// to the given path after every successful write operation.
func (db *DB) EnableAutoSnapshot(path string) {
	db.SetOnChange(func(ctx context.Context) {
		// Hooks are best-effort: a failed export must never fail the
		// original write operation.
		_ = db.ExportSnapshot(ctx, path)
	})
}

// ExportSnapshot writes every task as one JSON line, atomically via a
// temporary file in the same directory.
func (db *DB) ExportSnapshot(ctx context.Context, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, "snapshot-*.jsonl")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempFile.Name())
		}
	}()

	tasks, err := db.ListTasks(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list tasks for snapshot: %w", err)
	}

	for _, t := range tasks {
		line, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot line: %w", err)
		}
		if _, err := tempFile.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("failed to write snapshot line: %w", err)
		}
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	filename := tempFile.Name()
	tempFile = nil // Prevent defer from removing it

	if err := os.Rename(filename, path); err != nil {
		os.Remove(filename)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// ImportSnapshot reads a JSONL snapshot and inserts every task that is not
// already present, inside a single transaction. Snapshot hooks are
// disabled during the import so restoring does not immediately rewrite
// the file being read.
func (db *DB) ImportSnapshot(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer file.Close()

	db.DisableOnChange()
	defer db.EnableOnChange()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing := make(map[string]bool)
	rows, err := tx.QueryContext(ctx, "SELECT id FROM tasks")
	if err != nil {
		return fmt.Errorf("failed to query tasks: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan task id: %w", err)
		}
		existing[id] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows error: %w", err)
	}

	imported := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var t models.Task
		if err := json.Unmarshal(line, &t); err != nil {
			return fmt.Errorf("failed to parse snapshot line: %w", err)
		}
		if existing[t.ID] {
			continue
		}

		if err := db.createTask(ctx, tx, &t); err != nil {
			return fmt.Errorf("failed to import task %s: %w", t.Name, err)
		}
		existing[t.ID] = true
		imported++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	db.EnableOnChange()
	if imported > 0 {
		db.triggerChange(ctx)
	}
	return nil
}
