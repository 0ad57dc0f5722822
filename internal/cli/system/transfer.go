package system

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/models"
	"github.com/julianstephens/habitline/internal/storage"
	"github.com/julianstephens/habitline/internal/utils"
)

type ExportCmd struct {
	Output string `short:"o" help:"File to write (default: stdout)."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	doc := storage.NewDocument()
	doc.Settings = ctx.Settings
	doc.Habits = ctx.Tracker.List()

	if c.Output == "" || c.Output == "-" {
		return storage.EncodeDocument(os.Stdout, doc)
	}

	path, err := utils.ExpandPath(c.Output)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, func(w io.Writer) error { return storage.EncodeDocument(w, doc) }); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Exported %s to %s\n", cli.Pluralize(len(doc.Habits), "habit"), path)
	return nil
}

type ImportCmd struct {
	File     string `arg:"" help:"Export file to read."`
	Merge    bool   `help:"Add habits whose IDs are not present instead of replacing the collection."`
	Settings bool   `help:"Also import settings from the file."`
	Yes      bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	path, err := utils.ExpandPath(c.File)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	doc, err := storage.DecodeDocument(f)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	current := ctx.Tracker.List()
	next, added, skipped := mergeHabits(current, doc.Habits, c.Merge)

	if !c.Merge && len(current) > 0 && !c.Yes {
		fmt.Printf("⚠️  This replaces %s with %s from %s.\n",
			cli.Pluralize(len(current), "habit"), cli.Pluralize(len(doc.Habits), "habit"), filepath.Base(path))
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Import cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Tracker.Replace(next); err != nil {
		return fmt.Errorf("failed to import habits: %w", err)
	}
	if err := ctx.SaveError(); err != nil {
		return err
	}

	if c.Settings {
		settings := doc.Settings.WithDefaults()
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to import settings: %w", err)
		}
		ctx.Settings = settings
	}

	if c.Merge {
		fmt.Printf("✓ Imported %s (%d already present)\n", cli.Pluralize(added, "habit"), skipped)
	} else {
		fmt.Printf("✓ Imported %s\n", cli.Pluralize(len(next), "habit"))
	}
	return nil
}

// mergeHabits returns the collection after an import. In merge mode the
// current habits win on ID collisions and incoming ones are appended.
func mergeHabits(current, incoming []models.Habit, merge bool) (next []models.Habit, added, skipped int) {
	if !merge {
		return incoming, len(incoming), 0
	}

	seen := make(map[string]bool, len(current)+len(incoming))
	next = make([]models.Habit, 0, len(current)+len(incoming))
	for _, h := range current {
		seen[h.ID] = true
		next = append(next, h)
	}
	for _, h := range incoming {
		if seen[h.ID] {
			skipped++
			continue
		}
		seen[h.ID] = true
		next = append(next, h)
		added++
	}
	return next, added, skipped
}

func writeFileAtomic(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
