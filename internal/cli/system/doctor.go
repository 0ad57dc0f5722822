package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitline/internal/backup"
	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/keyring"
	"github.com/julianstephens/habitline/internal/storage"
	"github.com/julianstephens/habitline/internal/storage/sqlite"
	"github.com/julianstephens/habitline/internal/utils"
	"github.com/julianstephens/habitline/internal/validation"
)

// errSkipped marks a check that does not apply to the current store.
var errSkipped = errors.New("not applicable")

type doctorCheck struct {
	name     string
	run      func(ctx *cli.Context) error
	needsDB  bool
	warnOnly bool
}

var doctorChecks = []doctorCheck{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Settings", run: checkSettings, needsDB: true},
	{name: "Habit integrity", run: checkHabitIntegrity, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "OS keyring", run: checkKeyring, warnOnly: true},
	{name: "Clock/timezone", run: checkClockTimezone},
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true

	if err := checkDBReachable(ctx); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range doctorChecks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errSkipped):
			fmt.Printf("⊘ %s: SKIPPED (%v)\n", c.name, err)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if s, ok := ctx.Store.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func schemaVersions(ctx *cli.Context) (int, int, error) {
	v, ok := ctx.Store.(storage.Versioned)
	if !ok {
		return 0, 0, fmt.Errorf("%w: store has no schema", errSkipped)
	}
	return v.SchemaVersion()
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := schemaVersions(ctx)
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, err := schemaVersions(ctx)
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings = settings.WithDefaults()

	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("unknown timezone %q", settings.Timezone)
	}
	if !utils.ValidateTimeFormat(settings.ReminderTime) {
		return fmt.Errorf("invalid reminder time %q (expected HH:MM)", settings.ReminderTime)
	}
	return nil
}

// checkHabitIntegrity validates the stored collection, not the tracker's
// in-memory copy, so that problems written by other processes show up.
func checkHabitIntegrity(ctx *cli.Context) error {
	stored, err := ctx.Store.LoadHabits()
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}

	result := validation.New(ctx.Tracker.Location()).ValidateHabits(stored)
	if result.HasConflicts() {
		return fmt.Errorf("%d problem(s) found, run 'habitline validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	path, ok := ctx.SQLitePath()
	if !ok {
		return fmt.Errorf("%w: backups are SQLite only", errSkipped)
	}

	backups, err := backup.NewManager(path).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitline backup create'")
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return fmt.Errorf("OS keyring is not available; --config keyring will not work")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
