package habit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/constants"
	apperrors "github.com/julianstephens/habitline/internal/errors"
	"github.com/julianstephens/habitline/internal/habits"
	"github.com/julianstephens/habitline/internal/models"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits with their streaks."`
	CheckIn HabitCheckInCmd `cmd:"" name:"checkin" aliases:"done" help:"Check in a habit for today."`
	Edit    HabitEditCmd    `cmd:"" help:"Rename a habit or change its description."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit and its history."`
	Show    HabitShowCmd    `cmd:"" help:"Show a habit's streaks and recent history."`
	Today   HabitTodayCmd   `cmd:"" help:"Show today's check-in status."`
	Log     HabitLogCmd     `cmd:"" help:"Show habit log (ASCII history)."`
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `short:"d" help:"Optional description."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Tracker.Create(c.Name, c.Description)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Added habit: %s (%s)\n", h.Name, shortID(h.ID))
	return ctx.SaveError()
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	list := ctx.Tracker.List()
	if len(list) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, h := range list {
		st := ctx.Tracker.Status(h)
		mark := "○"
		if st.CheckedInToday {
			mark = "✓"
		}
		fmt.Printf("%s %-*s  %s  streak %-3d best %-3d\n", mark, nameWidth, truncate(h.Name, nameWidth), shortID(h.ID), st.CurrentStreak, st.BestStreak)
	}
	return nil
}

type HabitCheckInCmd struct {
	Habit string `arg:"" help:"Habit name, ID, or ID prefix."`
}

func (c *HabitCheckInCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Tracker.Resolve(c.Habit)
	if err != nil {
		return err
	}

	before := len(h.CheckIns)
	h, err = ctx.Tracker.CheckIn(h.ID)
	if err != nil {
		return err
	}

	if len(h.CheckIns) == before {
		fmt.Printf("%s is already checked in today.\n", h.Name)
		return nil
	}

	fmt.Printf("✓ Checked in %s. Current streak: %s\n", h.Name, cli.Pluralize(h.CurrentStreak, "day"))
	if h.CurrentStreak > 0 && h.CurrentStreak >= h.BestStreak {
		fmt.Println("You're at your best!")
	} else {
		fmt.Printf("Best streak: %s\n", cli.Pluralize(h.BestStreak, "day"))
	}
	return ctx.SaveError()
}

type HabitEditCmd struct {
	Habit       string  `arg:"" help:"Habit name, ID, or ID prefix."`
	Name        *string `help:"New name."`
	Description *string `short:"d" help:"New description (empty to clear)."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	if c.Name == nil && c.Description == nil {
		return errors.New("nothing to change, pass --name or --description")
	}

	h, err := ctx.Tracker.Resolve(c.Habit)
	if err != nil {
		return err
	}

	updated, err := ctx.Tracker.Update(h.ID, habits.Patch{Name: c.Name, Description: c.Description})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Updated habit: %s\n", updated.Name)
	return ctx.SaveError()
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit name, ID, or ID prefix."`
	Yes   bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Tracker.Resolve(c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		fmt.Printf("⚠️  This permanently deletes %q and %s.\n", h.Name, cli.Pluralize(len(h.CheckIns), "check-in"))
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Tracker.Delete(h.ID); err != nil {
		return err
	}

	fmt.Printf("✓ Deleted habit: %s\n", h.Name)
	return ctx.SaveError()
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit name, ID, or ID prefix."`
	Days  int    `help:"Number of days in the history strip." default:"14"`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		return &apperrors.ValidationError{Field: "days", Message: "must be at least 1"}
	}

	h, err := ctx.Tracker.Resolve(c.Habit)
	if err != nil {
		return err
	}

	now := ctx.Tracker.Now()
	st := habits.Summarize(h, now)

	fmt.Printf("%s\n", h.Name)
	if h.Description != "" {
		fmt.Printf("  %s\n", h.Description)
	}
	fmt.Printf("  ID:              %s\n", h.ID)
	fmt.Printf("  Created:         %s\n", h.CreatedAt.In(now.Location()).Format(constants.DateFormat))
	fmt.Printf("  Check-ins:       %d (%s)\n", st.TotalCheckIns, cli.Pluralize(st.DistinctDays, "day"))
	fmt.Printf("  Current streak:  %s\n", cli.Pluralize(st.CurrentStreak, "day"))
	fmt.Printf("  Best streak:     %s\n", cli.Pluralize(st.BestStreak, "day"))
	fmt.Printf("  Longest run:     %s\n", cli.Pluralize(st.LongestStreak, "day"))
	if h.LastCheckIn != nil {
		fmt.Printf("  Last check-in:   %s\n", h.LastCheckIn.In(now.Location()).Format(constants.DateFormat+" "+constants.TimeFormat))
	}

	switch {
	case st.AtRisk:
		fmt.Println("\n  Not checked in yet today. Check in to keep the streak alive.")
	case st.AtBest:
		fmt.Println("\n  You're at your best!")
	}

	fmt.Printf("\n  %s\n", renderStrip(habits.Strip(h, now, c.Days)))
	return nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	list := ctx.Tracker.List()
	if len(list) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	now := ctx.Tracker.Now()
	fmt.Printf("Habits for %s:\n\n", now.Format(constants.DateFormat))
	recorded := 0
	for _, h := range list {
		st := habits.Summarize(h, now)
		status := "[ ]"
		note := ""
		if st.CheckedInToday {
			status = "[x]"
			recorded++
		} else if st.AtRisk {
			note = fmt.Sprintf("  (%s streak at risk)", cli.Pluralize(st.CurrentStreak, "day"))
		}
		fmt.Printf("%s %s%s\n", status, h.Name, note)
	}

	fmt.Printf("\nRecorded: %d/%d\n", recorded, len(list))
	return nil
}

type HabitLogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for specific habit only."`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		return &apperrors.ValidationError{Field: "days", Message: "must be at least 1"}
	}

	var selected []models.Habit
	if c.Habit != "" {
		h, err := ctx.Tracker.Resolve(c.Habit)
		if err != nil {
			return err
		}
		selected = []models.Habit{h}
	} else {
		selected = ctx.Tracker.List()
	}

	if len(selected) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	now := ctx.Tracker.Now()
	fmt.Printf("Habit log (last %s):\n\n", cli.Pluralize(c.Days, "day"))

	header := habits.Strip(models.Habit{}, now, c.Days)
	fmt.Print(strings.Repeat(" ", nameWidth))
	for _, d := range header {
		fmt.Printf(" %5s", d.Date.Format("01/02"))
	}
	fmt.Println()
	fmt.Println(strings.Repeat("-", nameWidth+6*c.Days))

	for _, h := range selected {
		fmt.Printf("%-*s", nameWidth, truncate(h.Name, nameWidth))
		for _, d := range habits.Strip(h, now, c.Days) {
			if d.Checked {
				fmt.Print("     x")
			} else {
				fmt.Print("     .")
			}
		}
		fmt.Println()
	}
	return nil
}

const nameWidth = 20

func renderStrip(marks []habits.DayMark) string {
	var b strings.Builder
	for _, m := range marks {
		if m.Checked {
			b.WriteString("■")
		} else {
			b.WriteString("□")
		}
	}
	if len(marks) > 0 {
		fmt.Fprintf(&b, "  %s → %s", marks[0].Date.Format("01/02"), marks[len(marks)-1].Date.Format("01/02"))
	}
	return b.String()
}

// truncate shortens s to width runes, ending in "..." when cut.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width < 5 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
