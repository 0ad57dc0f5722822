package system

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/habits"
	"github.com/julianstephens/habitline/internal/models"
)

type DebugCmd struct {
	DBPath    DebugDBPathCmd    `cmd:"" name:"db-path" help:"Show database path."`
	DumpHabit DebugDumpHabitCmd `cmd:"" help:"Dump a stored habit and its live status as JSON."`
	Schema    DebugSchemaCmd    `cmd:"" help:"Show the schema version."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit name, ID, or ID prefix."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Tracker.Resolve(cmd.Habit)
	if err != nil {
		return err
	}

	return printJSON(struct {
		Habit  models.Habit  `json:"habit"`
		Status habits.Status `json:"status"`
	}{
		Habit:  h,
		Status: ctx.Tracker.Status(h),
	})
}

type DebugSchemaCmd struct{}

func (cmd *DebugSchemaCmd) Run(ctx *cli.Context) error {
	current, latest, err := schemaVersions(ctx)
	if err != nil {
		return err
	}
	return printJSON(map[string]int{
		"current": current,
		"latest":  latest,
	})
}

func printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}
