package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/ldi/planner/internal/db"
	"github.com/ldi/planner/internal/filter"
	"github.com/ldi/planner/internal/mcp"
	"github.com/ldi/planner/internal/tui"
	"github.com/ldi/planner/internal/ui"
	"github.com/ldi/planner/pkg/models"
)

var (
	dbPath       string
	snapshotPath string
	verbose      bool
)

func main() {
	flag.StringVar(&dbPath, "db-path", ".planner/planner.db", "Path to database file")
	flag.StringVar(&snapshotPath, "snapshot-path", ".planner/snapshot.jsonl", "Path to snapshot file")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	var command string
	var args []string

	if flag.NArg() == 0 {
		selected, err := ui.RunMenu()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running menu: %v\n", err)
			os.Exit(1)
		}
		if selected == "" {
			os.Exit(0)
		}
		command = selected
		args = []string{}
	} else {
		command = flag.Arg(0)
		args = flag.Args()[1:]
	}

	var err error
	switch command {
	case "init":
		err = runInit(args)
	case "cal":
		err = runCal(args)
	case "add":
		err = runAdd(args)
	case "list":
		err = runList(args)
	case "status":
		err = runStatus(args)
	case "mcp":
		err = runMCP(args)
	case "db":
		err = runDB(args)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging routes lgr to a file next to the database. The calendar
// owns the terminal, so nothing may log to stdout or stderr while it
// runs.
func setupLogging(cfg *configDefaults) {
	opts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if verbose {
		opts = append(opts, lgr.Debug)
	}

	logPath := cfg.LogPath
	if logPath == "" {
		logPath = filepath.Join(filepath.Dir(dbPath), "planner.log")
	}
	if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
		opts = append(opts, lgr.Out(f), lgr.Err(f))
	}

	lgr.Setup(opts...)
}

// openStore opens the database, runs migrations, and turns on automatic
// snapshotting to the configured path.
func openStore(ctx context.Context) (*db.DB, error) {
	database, err := db.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := database.Init(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	database.EnableAutoSnapshot(snapshotPath)
	return database, nil
}

func runInit(args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	plannerDir := filepath.Join(targetDir, ".planner")
	if err := os.MkdirAll(plannerDir, 0755); err != nil {
		return fmt.Errorf("failed to create .planner directory: %w", err)
	}
	fmt.Println("✓ Created .planner/ directory")

	gitignorePath := filepath.Join(plannerDir, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("planner.db*\nplanner.log\n"), 0644); err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}
	fmt.Println("✓ Created .planner/.gitignore")

	// Default paths if not overridden by flags
	finalDbPath := dbPath
	if dbPath == ".planner/planner.db" {
		finalDbPath = filepath.Join(plannerDir, "planner.db")
	}

	finalSnapshotPath := snapshotPath
	if snapshotPath == ".planner/snapshot.jsonl" {
		finalSnapshotPath = filepath.Join(plannerDir, "snapshot.jsonl")
	}

	database, err := db.Open(finalDbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	if err := database.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	fmt.Printf("✓ Initialized database at %s\n", finalDbPath)

	if _, err := os.Stat(finalSnapshotPath); err == nil {
		if err := database.ImportSnapshot(ctx, finalSnapshotPath); err != nil {
			return fmt.Errorf("failed to import snapshot: %w", err)
		}
		fmt.Printf("✓ Imported snapshot from %s\n", finalSnapshotPath)
	}

	configPath := filepath.Join(plannerDir, "config.json")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := writeDefaultConfig(configPath); err != nil {
			return fmt.Errorf("failed to write default config: %w", err)
		}
		fmt.Println("✓ Created .planner/config.json")
	}

	fmt.Println("✓ Planner initialized successfully")
	return nil
}

func runCal(args []string) error {
	cfg, err := loadConfigDefaults()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	lgr.Printf("INFO calendar started, db %s", dbPath)
	return tui.Run(ctx, database)
}

func runAdd(args []string) error {
	cfg, err := loadConfigDefaults()
	if err != nil {
		return err
	}

	addFlags := flag.NewFlagSet("add", flag.ContinueOnError)
	name := addFlags.String("name", "", "Task name (required)")
	category := addFlags.String("category", cfg.DefaultCategory, "Category (todo|in_progress|review|completed)")
	start := addFlags.String("start", "", "Start date (YYYY-MM-DD, defaults to today)")
	end := addFlags.String("end", "", "End date (YYYY-MM-DD, defaults to start)")
	if err := addFlags.Parse(args); err != nil {
		return err
	}

	if *name == "" {
		return fmt.Errorf("-name is required")
	}
	cat, err := models.ParseCategory(*category)
	if err != nil {
		return err
	}

	startDate := models.Midnight(time.Now())
	if *start != "" {
		if startDate, err = time.ParseInLocation(models.DateLayout, *start, time.Local); err != nil {
			return fmt.Errorf("invalid start date %q: %w", *start, err)
		}
	}
	endDate := startDate
	if *end != "" {
		if endDate, err = time.ParseInLocation(models.DateLayout, *end, time.Local); err != nil {
			return fmt.Errorf("invalid end date %q: %w", *end, err)
		}
	}

	ctx := context.Background()
	database, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	task := &models.Task{
		Name:      *name,
		Category:  cat,
		StartDate: startDate,
		EndDate:   endDate,
	}
	if err := database.CreateTask(ctx, task); err != nil {
		return err
	}

	fmt.Printf("Created task %s (%s, %s..%s)\n", task.Name, task.Category,
		task.StartDate.Format(models.DateLayout), task.EndDate.Format(models.DateLayout))
	return nil
}

func runList(args []string) error {
	listFlags := flag.NewFlagSet("list", flag.ContinueOnError)
	categoryFilter := listFlags.String("category", "", "Filter by category (todo|in_progress|review|completed)")
	search := listFlags.String("search", "", "Filter by name substring (case-insensitive)")
	within := listFlags.Int("within", 0, "Only tasks starting within N days of today (7, 14 or 21; 0 for all)")
	if err := listFlags.Parse(args); err != nil {
		return err
	}

	var category *models.Category
	if *categoryFilter != "" {
		cat, err := models.ParseCategory(*categoryFilter)
		if err != nil {
			return err
		}
		category = &cat
	}

	switch *within {
	case 0, 7, 14, 21:
	default:
		return fmt.Errorf("invalid -within %d, expected 7, 14 or 21", *within)
	}

	ctx := context.Background()
	database, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	tasks, err := database.ListTasks(ctx, category)
	if err != nil {
		return err
	}

	f := filter.New()
	f.Search = *search
	f.Duration = filter.Bucket(*within)
	tasks = f.Apply(tasks)

	fmt.Printf("%-36s %-30s %-12s %-12s %-12s %s\n", "ID", "NAME", "CATEGORY", "START", "END", "DAYS")
	fmt.Println("--------------------------------------------------------------------------------------------------------------")
	for _, t := range tasks {
		fmt.Printf("%-36s %-30s %-12s %-12s %-12s %d\n", t.ID, t.Name, t.Category,
			t.StartDate.Format(models.DateLayout), t.EndDate.Format(models.DateLayout), t.Days())
	}
	return nil
}

func runStatus(args []string) error {
	ctx := context.Background()
	database, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	tasks, err := database.ListTasks(ctx, nil)
	if err != nil {
		return err
	}

	counts, err := database.CountByCategory(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Planner Status")
	fmt.Println("==============")
	fmt.Printf("Total Tasks:     %d\n", len(tasks))

	fmt.Println("\nTask Breakdown:")
	fmt.Printf("  Todo:        %d\n", counts[models.CategoryTodo])
	fmt.Printf("  In Progress: %d\n", counts[models.CategoryInProgress])
	fmt.Printf("  Review:      %d\n", counts[models.CategoryReview])
	fmt.Printf("  Completed:   %d\n", counts[models.CategoryCompleted])

	today := models.Midnight(time.Now())
	var current []*models.Task
	for _, t := range tasks {
		if t.Covers(today) {
			current = append(current, t)
		}
	}
	if len(current) > 0 {
		fmt.Println("\nToday:")
		for i, t := range current {
			if i >= 5 {
				break
			}
			fmt.Printf("  - %s (%s)\n", t.Name, t.Category)
		}
	}

	return nil
}

func runMCP(args []string) error {
	ctx := context.Background()
	database, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	s := mcp.NewServer(database)
	return mcp.Serve(s)
}

func runDB(args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: planner db <command> [arguments]")
		fmt.Println("\nCommands:")
		fmt.Println("  status    Show database status")
		return nil
	}

	command := args[0]
	subArgs := args[1:]

	switch command {
	case "status":
		return runStatus(subArgs)
	default:
		return fmt.Errorf("unknown db command: %s", command)
	}
}
