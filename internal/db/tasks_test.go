package db

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ldi/planner/pkg/models"
)

func testDate(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.Local)
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Init(context.Background()); err != nil {
		t.Fatalf("Failed to init database: %v", err)
	}
	return db
}

func TestTaskCRUD(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	task := &models.Task{
		Name:      "Quarterly Report",
		Category:  models.CategoryTodo,
		StartDate: testDate(10),
		EndDate:   testDate(12),
	}
	if err := db.CreateTask(ctx, task); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	if len(task.ID) != 36 || !strings.Contains(task.ID, "-") {
		t.Errorf("Expected UUID-shaped ID, got %q", task.ID)
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Errorf("Expected CreatedAt and UpdatedAt to be set")
	}

	fetched, err := db.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("Failed to get task: %v", err)
	}
	if fetched == nil {
		t.Fatalf("Task not found")
	}
	if fetched.Name != task.Name {
		t.Errorf("Expected name %s, got %s", task.Name, fetched.Name)
	}
	if fetched.Category != models.CategoryTodo {
		t.Errorf("Expected category todo, got %s", fetched.Category)
	}
	if !fetched.StartDate.Equal(testDate(10)) || !fetched.EndDate.Equal(testDate(12)) {
		t.Errorf("Expected range 10..12, got %v..%v", fetched.StartDate, fetched.EndDate)
	}

	task.Name = "Annual Report"
	task.Category = models.CategoryReview
	if err := db.UpdateTask(ctx, task); err != nil {
		t.Fatalf("Failed to update task: %v", err)
	}
	fetched, err = db.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("Failed to get task: %v", err)
	}
	if fetched.Name != "Annual Report" || fetched.Category != models.CategoryReview {
		t.Errorf("Update not persisted: %s %s", fetched.Name, fetched.Category)
	}

	if err := db.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("Failed to delete task: %v", err)
	}
	fetched, err = db.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("Failed to get task after delete: %v", err)
	}
	if fetched != nil {
		t.Errorf("Expected task to be deleted")
	}
}

func TestCreateTaskRejectsEmptyName(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	task := &models.Task{
		Name:      "   ",
		Category:  models.CategoryTodo,
		StartDate: testDate(1),
		EndDate:   testDate(1),
	}
	if err := db.CreateTask(ctx, task); err == nil {
		t.Errorf("Expected error for blank name")
	}
}

func TestCreateTaskNormalizesRange(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	task := &models.Task{
		Name:      "Backwards",
		Category:  models.CategoryTodo,
		StartDate: testDate(20),
		EndDate:   testDate(15),
	}
	if err := db.CreateTask(ctx, task); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	fetched, err := db.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("Failed to get task: %v", err)
	}
	if fetched.EndDate.Before(fetched.StartDate) {
		t.Errorf("Range inverted in storage: %v..%v", fetched.StartDate, fetched.EndDate)
	}
	if !fetched.StartDate.Equal(testDate(15)) || !fetched.EndDate.Equal(testDate(20)) {
		t.Errorf("Expected 15..20, got %v..%v", fetched.StartDate, fetched.EndDate)
	}
}

func TestListTasksByCategory(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for i, cat := range []models.Category{models.CategoryTodo, models.CategoryReview, models.CategoryTodo} {
		task := &models.Task{
			Name:      "task",
			Category:  cat,
			StartDate: testDate(i + 1),
			EndDate:   testDate(i + 1),
		}
		if err := db.CreateTask(ctx, task); err != nil {
			t.Fatalf("Failed to create task: %v", err)
		}
	}

	all, err := db.ListTasks(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to list tasks: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 tasks, got %d", len(all))
	}

	cat := models.CategoryTodo
	todos, err := db.ListTasks(ctx, &cat)
	if err != nil {
		t.Fatalf("Failed to list todos: %v", err)
	}
	if len(todos) != 2 {
		t.Errorf("Expected 2 todo tasks, got %d", len(todos))
	}
}

func TestListTasksOverlapping(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	ranges := [][2]int{{1, 3}, {5, 10}, {20, 25}}
	for _, r := range ranges {
		task := &models.Task{
			Name:      "task",
			Category:  models.CategoryTodo,
			StartDate: testDate(r[0]),
			EndDate:   testDate(r[1]),
		}
		if err := db.CreateTask(ctx, task); err != nil {
			t.Fatalf("Failed to create task: %v", err)
		}
	}

	got, err := db.ListTasksOverlapping(ctx, testDate(4), testDate(21))
	if err != nil {
		t.Fatalf("Failed to list overlapping: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 overlapping tasks, got %d", len(got))
	}
}

func TestMoveTask(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	task := &models.Task{
		Name:      "Sprint",
		Category:  models.CategoryInProgress,
		StartDate: testDate(5),
		EndDate:   testDate(8),
	}
	if err := db.CreateTask(ctx, task); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	moved, err := db.MoveTask(ctx, task.ID, testDate(12))
	if err != nil {
		t.Fatalf("Failed to move task: %v", err)
	}
	if !moved.StartDate.Equal(testDate(12)) || !moved.EndDate.Equal(testDate(15)) {
		t.Errorf("Expected 12..15, got %v..%v", moved.StartDate, moved.EndDate)
	}
	if moved.Days() != 4 {
		t.Errorf("Move should preserve length, got %d days", moved.Days())
	}
}

func TestResizeTaskCollapse(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	task := &models.Task{
		Name:      "Review window",
		Category:  models.CategoryReview,
		StartDate: testDate(10),
		EndDate:   testDate(14),
	}
	if err := db.CreateTask(ctx, task); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	resized, err := db.ResizeTask(ctx, task.ID, EdgeEnd, testDate(20))
	if err != nil {
		t.Fatalf("Failed to resize task: %v", err)
	}
	if !resized.EndDate.Equal(testDate(20)) {
		t.Errorf("Expected end on 20, got %v", resized.EndDate)
	}

	// Dragging the start past the end collapses to one day.
	resized, err = db.ResizeTask(ctx, task.ID, EdgeStart, testDate(25))
	if err != nil {
		t.Fatalf("Failed to resize task: %v", err)
	}
	if !resized.StartDate.Equal(testDate(25)) || !resized.EndDate.Equal(testDate(25)) {
		t.Errorf("Expected collapse to 25..25, got %v..%v", resized.StartDate, resized.EndDate)
	}
}

func TestResizeTaskUnknownEdge(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	task := &models.Task{
		Name:      "t",
		Category:  models.CategoryTodo,
		StartDate: testDate(1),
		EndDate:   testDate(1),
	}
	if err := db.CreateTask(ctx, task); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}
	if _, err := db.ResizeTask(ctx, task.ID, Edge("middle"), testDate(2)); err == nil {
		t.Errorf("Expected error for unknown edge")
	}
}

func TestDeleteMissingTask(t *testing.T) {
	db := openTestDB(t)
	if err := db.DeleteTask(context.Background(), "nope"); err == nil {
		t.Errorf("Expected error deleting missing task")
	}
}

func TestCountByCategory(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	cats := []models.Category{
		models.CategoryTodo, models.CategoryTodo,
		models.CategoryCompleted,
	}
	for _, cat := range cats {
		task := &models.Task{
			Name:      "t",
			Category:  cat,
			StartDate: testDate(1),
			EndDate:   testDate(2),
		}
		if err := db.CreateTask(ctx, task); err != nil {
			t.Fatalf("Failed to create task: %v", err)
		}
	}

	counts, err := db.CountByCategory(ctx)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if counts[models.CategoryTodo] != 2 || counts[models.CategoryCompleted] != 1 {
		t.Errorf("Unexpected counts: %v", counts)
	}
}

func TestOnChangeHook(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	fired := 0
	db.SetOnChange(func(ctx context.Context) { fired++ })

	task := &models.Task{
		Name:      "hooked",
		Category:  models.CategoryTodo,
		StartDate: testDate(1),
		EndDate:   testDate(2),
	}
	if err := db.CreateTask(ctx, task); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}
	if fired != 1 {
		t.Errorf("Expected hook to fire once on create, fired %d", fired)
	}

	db.DisableOnChange()
	if err := db.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("Failed to delete task: %v", err)
	}
	if fired != 1 {
		t.Errorf("Expected hook suppressed while disabled, fired %d", fired)
	}

	db.EnableOnChange()
	if err := db.CreateTask(ctx, &models.Task{
		Name: "again", Category: models.CategoryTodo,
		StartDate: testDate(3), EndDate: testDate(3),
	}); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}
	if fired != 2 {
		t.Errorf("Expected hook re-enabled, fired %d", fired)
	}
}
