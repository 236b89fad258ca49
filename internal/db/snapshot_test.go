package db

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ldi/planner/pkg/models"
)

func TestExportImportRoundTrip(t *testing.T) {
	src := openTestDB(t)
	ctx := context.Background()

	tasks := []*models.Task{
		{Name: "Report", Category: models.CategoryTodo, StartDate: testDate(3), EndDate: testDate(5)},
		{Name: "Review PR", Category: models.CategoryReview, StartDate: testDate(10), EndDate: testDate(10)},
	}
	for _, task := range tasks {
		if err := src.CreateTask(ctx, task); err != nil {
			t.Fatalf("Failed to create task: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "snapshot.jsonl")
	if err := src.ExportSnapshot(ctx, path); err != nil {
		t.Fatalf("Failed to export snapshot: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 snapshot lines, got %d", len(lines))
	}

	dst := openTestDB(t)
	if err := dst.ImportSnapshot(ctx, path); err != nil {
		t.Fatalf("Failed to import snapshot: %v", err)
	}

	restored, err := dst.ListTasks(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}
	if len(restored) != 2 {
		t.Fatalf("Expected 2 restored tasks, got %d", len(restored))
	}
	if restored[0].Name != "Report" || !restored[0].StartDate.Equal(testDate(3)) {
		t.Errorf("First task mismatch: %s %v", restored[0].Name, restored[0].StartDate)
	}
	if restored[1].Category != models.CategoryReview {
		t.Errorf("Expected review category, got %s", restored[1].Category)
	}
}

func TestImportSnapshotSkipsExisting(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	task := &models.Task{Name: "Stable", Category: models.CategoryTodo, StartDate: testDate(1), EndDate: testDate(2)}
	if err := db.CreateTask(ctx, task); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	path := filepath.Join(t.TempDir(), "snapshot.jsonl")
	if err := db.ExportSnapshot(ctx, path); err != nil {
		t.Fatalf("Failed to export snapshot: %v", err)
	}

	// Importing into the same database must not duplicate tasks.
	if err := db.ImportSnapshot(ctx, path); err != nil {
		t.Fatalf("Failed to import snapshot: %v", err)
	}
	all, err := db.ListTasks(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 task after re-import, got %d", len(all))
	}
}

func TestImportSnapshotMissingFile(t *testing.T) {
	db := openTestDB(t)
	err := db.ImportSnapshot(context.Background(), filepath.Join(t.TempDir(), "absent.jsonl"))
	if err == nil {
		t.Errorf("Expected error for missing snapshot file")
	}
}

func TestAutoSnapshotOnWrite(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "snapshot.jsonl")
	db.EnableAutoSnapshot(path)

	task := &models.Task{Name: "Mirrored", Category: models.CategoryTodo, StartDate: testDate(1), EndDate: testDate(1)}
	if err := db.CreateTask(ctx, task); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected snapshot written after create: %v", err)
	}
	if !strings.Contains(string(data), "Mirrored") {
		t.Errorf("Snapshot missing task: %s", data)
	}

	if err := db.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("Failed to delete task: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}
	if strings.Contains(string(data), "Mirrored") {
		t.Errorf("Snapshot should be rewritten after delete")
	}
}

func TestAutoSnapshotFailureDoesNotFailWrite(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	// A directory path that cannot be created under an existing file.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write blocker: %v", err)
	}
	db.EnableAutoSnapshot(filepath.Join(blocker, "nested", "snapshot.jsonl"))

	task := &models.Task{Name: "Survives", Category: models.CategoryTodo, StartDate: testDate(1), EndDate: testDate(1)}
	if err := db.CreateTask(ctx, task); err != nil {
		t.Errorf("Write must survive snapshot failure: %v", err)
	}
}
