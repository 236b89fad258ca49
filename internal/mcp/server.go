package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ldi/planner/internal/db"
	"github.com/ldi/planner/pkg/models"
)

// NewServer creates a new MCP server.
func NewServer(database *db.DB) *server.MCPServer {
	s := server.NewMCPServer("Planner", "0.1.0")

	s.AddTool(mcp.NewTool("create_task",
		mcp.WithDescription("Propose a new calendar task. Changes are staged and must be committed to take effect."),
		mcp.WithString("name", mcp.Description("Task name"), mcp.Required()),
		mcp.WithString("category", mcp.Description("Category (todo|in_progress|review|completed), defaults to todo")),
		mcp.WithString("start_date", mcp.Description("Start date (YYYY-MM-DD)"), mcp.Required()),
		mcp.WithString("end_date", mcp.Description("End date (YYYY-MM-DD), defaults to start_date")),
		mcp.WithString("session_id", mcp.Description("Session ID for staging changes (defaults to 'default').")),
	), createTaskHandler(database))

	s.AddTool(mcp.NewTool("update_task",
		mcp.WithDescription("Update an existing task."),
		mcp.WithString("id", mcp.Description("Task ID"), mcp.Required()),
		mcp.WithString("name", mcp.Description("New name")),
		mcp.WithString("category", mcp.Description("New category (todo|in_progress|review|completed)")),
		mcp.WithString("start_date", mcp.Description("New start date (YYYY-MM-DD)")),
		mcp.WithString("end_date", mcp.Description("New end date (YYYY-MM-DD)")),
	), updateTaskHandler(database))

	s.AddTool(mcp.NewTool("move_task",
		mcp.WithDescription("Move a task to a new start date, preserving its length."),
		mcp.WithString("id", mcp.Description("Task ID"), mcp.Required()),
		mcp.WithString("start_date", mcp.Description("New start date (YYYY-MM-DD)"), mcp.Required()),
	), moveTaskHandler(database))

	s.AddTool(mcp.NewTool("resize_task",
		mcp.WithDescription("Drag one edge of a task to a new date. The range collapses to a single day rather than inverting."),
		mcp.WithString("id", mcp.Description("Task ID"), mcp.Required()),
		mcp.WithString("edge", mcp.Description("Which edge to move (start|end)"), mcp.Required()),
		mcp.WithString("date", mcp.Description("New date for the edge (YYYY-MM-DD)"), mcp.Required()),
	), resizeTaskHandler(database))

	s.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task."),
		mcp.WithString("id", mcp.Description("Task ID"), mcp.Required()),
	), deleteTaskHandler(database))

	s.AddTool(mcp.NewTool("get_task",
		mcp.WithDescription("Get a single task by ID."),
		mcp.WithString("id", mcp.Description("Task ID"), mcp.Required()),
	), getTaskHandler(database))

	s.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks with optional filters."),
		mcp.WithString("category", mcp.Description("Filter by category (todo|in_progress|review|completed)")),
		mcp.WithString("from", mcp.Description("Only tasks overlapping the range starting here (YYYY-MM-DD)")),
		mcp.WithString("to", mcp.Description("Only tasks overlapping the range ending here (YYYY-MM-DD)")),
	), listTasksHandler(database))

	// Staging Management
	s.AddTool(mcp.NewTool("commit_staged_changes",
		mcp.WithDescription("Commit all staged changes for a session. This applies all proposed tasks at once."),
		mcp.WithString("session_id", mcp.Description("Session ID (defaults to 'default').")),
	), commitStagedChangesHandler(database))

	s.AddTool(mcp.NewTool("list_staged_changes",
		mcp.WithDescription("List all staged changes for a session. Use this to review a proposed plan before committing."),
		mcp.WithString("session_id", mcp.Description("Session ID (defaults to 'default').")),
	), listStagedChangesHandler(database))

	return s
}

// Serve starts the MCP server on stdio.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(models.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func createTaskHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := mcp.ParseString(request, "name", "")
		category := mcp.ParseString(request, "category", string(models.CategoryTodo))
		startDate := mcp.ParseString(request, "start_date", "")
		endDate := mcp.ParseString(request, "end_date", startDate)
		sessionID := mcp.ParseString(request, "session_id", "default")

		cat, err := models.ParseCategory(category)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		start, err := parseDate(startDate)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		end, err := parseDate(endDate)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		t := &models.Task{
			Name:      name,
			Category:  cat,
			StartDate: start,
			EndDate:   end,
		}
		if err := t.Validate(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		database.Staging.AddTask(sessionID, t)
		return mcp.NewToolResultText(fmt.Sprintf("Task '%s' staged for session '%s'. Propose another or call 'commit_staged_changes' to apply.", name, sessionID)), nil
	}
}

func updateTaskHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")

		t, err := database.GetTask(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if t == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Task with ID '%s' not found", id)), nil
		}

		args, _ := request.Params.Arguments.(map[string]any)
		if name, ok := args["name"].(string); ok {
			t.Name = name
		}
		if category, ok := args["category"].(string); ok {
			cat, err := models.ParseCategory(category)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			t.Category = cat
		}
		if startDate, ok := args["start_date"].(string); ok {
			start, err := parseDate(startDate)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			t.StartDate = start
		}
		if endDate, ok := args["end_date"].(string); ok {
			end, err := parseDate(endDate)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			t.EndDate = end
		}

		if err := database.UpdateTask(ctx, t); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText("Task updated successfully"), nil
	}
}

func moveTaskHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")
		startDate := mcp.ParseString(request, "start_date", "")

		start, err := parseDate(startDate)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		t, err := database.MoveTask(ctx, id, start)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Task '%s' moved to %s..%s", t.Name,
			t.StartDate.Format(models.DateLayout), t.EndDate.Format(models.DateLayout))), nil
	}
}

func resizeTaskHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")
		edge := mcp.ParseString(request, "edge", "")
		dateStr := mcp.ParseString(request, "date", "")

		if edge != string(db.EdgeStart) && edge != string(db.EdgeEnd) {
			return mcp.NewToolResultError(fmt.Sprintf("invalid edge %q, expected start or end", edge)), nil
		}
		date, err := parseDate(dateStr)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		t, err := database.ResizeTask(ctx, id, db.Edge(edge), date)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Task '%s' now spans %s..%s", t.Name,
			t.StartDate.Format(models.DateLayout), t.EndDate.Format(models.DateLayout))), nil
	}
}

func deleteTaskHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")

		if err := database.DeleteTask(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText("Task deleted successfully"), nil
	}
}

func getTaskHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")

		t, err := database.GetTask(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if t == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Task with ID '%s' not found", id)), nil
		}

		data, err := json.Marshal(t)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	}
}

func listTasksHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var tasks []*models.Task

		from := mcp.ParseString(request, "from", "")
		to := mcp.ParseString(request, "to", "")
		if from != "" || to != "" {
			if from == "" || to == "" {
				return mcp.NewToolResultError("both from and to are required for a range query"), nil
			}
			fromDate, err := parseDate(from)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			toDate, err := parseDate(to)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if tasks, err = database.ListTasksOverlapping(ctx, fromDate, toDate); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		} else {
			var category *models.Category
			if c := mcp.ParseString(request, "category", ""); c != "" {
				cat, err := models.ParseCategory(c)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				category = &cat
			}
			list, err := database.ListTasks(ctx, category)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			tasks = list
		}

		data, err := json.Marshal(map[string]interface{}{"tasks": tasks})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	}
}

func commitStagedChangesHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID := mcp.ParseString(request, "session_id", "default")

		staged := database.Staging.Peek(sessionID)
		count := len(staged.Tasks)
		if count == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No staged changes for session '%s'", sessionID)), nil
		}

		if err := database.CommitBatch(ctx, sessionID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Commit failed, changes rolled back: %v", err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Committed %d task(s) for session '%s'", count, sessionID)), nil
	}
}

func listStagedChangesHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID := mcp.ParseString(request, "session_id", "default")

		staged := database.Staging.Peek(sessionID)
		data, err := json.Marshal(map[string]interface{}{"tasks": staged.Tasks})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(string(data)), nil
	}
}
