package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ldi/planner/pkg/models"
)

const defaultCategory = string(models.CategoryTodo)

// configDefaults are optional user defaults read from config.json next
// to the database. Flags still win over anything set here.
type configDefaults struct {
	DefaultCategory string `json:"default_category"`
	SnapshotPath    string `json:"snapshot_path"`
	LogPath         string `json:"log_path"`
}

// loadConfigDefaults reads .planner/config.json if present. A missing
// file is not an error; the built-in defaults apply.
func loadConfigDefaults() (*configDefaults, error) {
	cfg := &configDefaults{DefaultCategory: defaultCategory}

	configPath := filepath.Join(filepath.Dir(dbPath), "config.json")
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}

	if cfg.DefaultCategory == "" {
		cfg.DefaultCategory = defaultCategory
	}
	if _, err := models.ParseCategory(cfg.DefaultCategory); err != nil {
		return nil, fmt.Errorf("invalid default_category in %s: %w", configPath, err)
	}
	// Flags win over the config file.
	if cfg.SnapshotPath != "" && snapshotPath == ".planner/snapshot.jsonl" {
		snapshotPath = cfg.SnapshotPath
	}

	return cfg, nil
}

func writeDefaultConfig(path string) error {
	cfg := configDefaults{DefaultCategory: defaultCategory}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
