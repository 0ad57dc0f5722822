package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/storage"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to migrate data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized habitline storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

// reset removes a file-backed store. Server-backed stores are left alone.
func (c *InitCmd) reset(ctx *cli.Context) error {
	dbPath, ok := ctx.SQLitePath()
	if !ok {
		if js, isJSON := ctx.Store.(*storage.JSONStore); isJSON {
			dbPath, ok = js.GetConfigPath(), true
		}
	}
	if !ok {
		return fmt.Errorf("--force is only supported for file-based stores")
	}

	if c.Source != "" {
		absDB, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDB
		}
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context, source string) error {
	sourceStore, err := storage.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer sourceStore.Close()

	fmt.Println("  Migrating settings...")
	settings, err := sourceStore.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	fmt.Println("  Migrating habits...")
	habits, err := sourceStore.LoadHabits()
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}
	if err := ctx.Store.SaveHabits(habits); err != nil {
		return fmt.Errorf("failed to save habits to destination: %w", err)
	}

	checkIns := 0
	for _, h := range habits {
		checkIns += len(h.CheckIns)
	}
	fmt.Printf("    Migrated %s with %s\n", cli.Pluralize(len(habits), "habit"), cli.Pluralize(checkIns, "check-in"))

	return nil
}
