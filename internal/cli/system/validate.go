package system

import (
	"fmt"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Repair streak fields that can be rebuilt from check-in history."`
}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	habits := ctx.Tracker.List()
	validator := validation.New(ctx.Tracker.Location())

	fmt.Println("Validating habits...")
	result := validator.ValidateHabits(habits)

	fmt.Println()
	fmt.Println(result.FormatReport())

	if !result.HasConflicts() || !cmd.Fix {
		return nil
	}

	fixed, actions := validation.AutoFixStreaks(result.Conflicts, habits)
	if len(actions) == 0 {
		fmt.Println("Nothing could be fixed automatically.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Tracker.Replace(fixed); err != nil {
		return fmt.Errorf("failed to apply fixes: %w", err)
	}

	fmt.Println("Applied fixes:")
	for _, a := range actions {
		fmt.Printf("  ✓ %s\n", a.Action)
	}

	remaining := validator.ValidateHabits(ctx.Tracker.List())
	if remaining.HasConflicts() {
		fmt.Printf("\n%d problem(s) need manual attention.\n", len(remaining.Conflicts))
	}
	return ctx.SaveError()
}
