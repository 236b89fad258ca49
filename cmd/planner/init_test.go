package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ldi/planner/internal/db"
	"github.com/ldi/planner/pkg/models"
)

func TestInitCreatesWorkspace(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath = ".planner/planner.db"
	snapshotPath = ".planner/snapshot.jsonl"

	output := captureStdout(t, func() error { return runInit([]string{tmpDir}) })

	if !strings.Contains(output, "initialized successfully") {
		t.Errorf("unexpected output: %s", output)
	}

	plannerDir := filepath.Join(tmpDir, ".planner")
	for _, name := range []string{"planner.db", ".gitignore", "config.json"} {
		if _, err := os.Stat(filepath.Join(plannerDir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}

	gitignore, err := os.ReadFile(filepath.Join(plannerDir, ".gitignore"))
	if err != nil {
		t.Fatalf("failed to read .gitignore: %v", err)
	}
	if !strings.Contains(string(gitignore), "planner.db") {
		t.Errorf("expected .gitignore to cover db files, got %q", gitignore)
	}

	database, err := db.Open(filepath.Join(plannerDir, "planner.db"))
	if err != nil {
		t.Fatalf("failed to open initialized db: %v", err)
	}
	defer database.Close()

	// Schema is in place.
	if _, err := database.ListTasks(context.Background(), nil); err != nil {
		t.Errorf("expected migrated schema, got %v", err)
	}
}

func TestInitImportsExistingSnapshot(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath = ".planner/planner.db"
	snapshotPath = ".planner/snapshot.jsonl"

	plannerDir := filepath.Join(tmpDir, ".planner")
	if err := os.MkdirAll(plannerDir, 0755); err != nil {
		t.Fatalf("failed to create .planner dir: %v", err)
	}

	task := models.Task{
		ID:        "11111111-2222-3333-4444-555555555555",
		Name:      "restored",
		Category:  models.CategoryTodo,
		StartDate: time.Date(2026, time.September, 1, 0, 0, 0, 0, time.Local),
		EndDate:   time.Date(2026, time.September, 2, 0, 0, 0, 0, time.Local),
	}
	line, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("failed to marshal task: %v", err)
	}
	snapPath := filepath.Join(plannerDir, "snapshot.jsonl")
	if err := os.WriteFile(snapPath, append(line, '\n'), 0644); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}

	output := captureStdout(t, func() error { return runInit([]string{tmpDir}) })
	if !strings.Contains(output, "Imported snapshot") {
		t.Errorf("expected snapshot import message: %s", output)
	}

	database, err := db.Open(filepath.Join(plannerDir, "planner.db"))
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer database.Close()

	restored, err := database.GetTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("failed to get restored task: %v", err)
	}
	if restored == nil || restored.Name != "restored" {
		t.Fatalf("expected restored task, got %+v", restored)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath = ".planner/planner.db"
	snapshotPath = ".planner/snapshot.jsonl"

	captureStdout(t, func() error { return runInit([]string{tmpDir}) })
	captureStdout(t, func() error { return runInit([]string{tmpDir}) })

	database, err := db.Open(filepath.Join(tmpDir, ".planner", "planner.db"))
	if err != nil {
		t.Fatalf("failed to open db after second init: %v", err)
	}
	defer database.Close()

	if _, err := database.ListTasks(context.Background(), nil); err != nil {
		t.Errorf("expected working schema after re-init, got %v", err)
	}
}
