package system

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/habitline/internal/cli"
	"github.com/julianstephens/habitline/internal/habits"
	"github.com/julianstephens/habitline/internal/logger"
	"github.com/julianstephens/habitline/internal/notifier"
	"github.com/julianstephens/habitline/internal/utils"
)

// Sender delivers a reminder message.
type Sender interface {
	Notify(ctx context.Context, text string) error
}

var newSender = func() Sender { return notifier.New() }

type RemindCmd struct {
	DryRun bool `help:"Print the reminder instead of sending it."`
	Force  bool `help:"Send even before the configured reminder time."`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	now := ctx.Tracker.Now()
	due := habits.DueReminders(ctx.Tracker.List(), now)
	if len(due) == 0 {
		fmt.Println("No streaks at risk today.")
		return nil
	}

	text := habits.ReminderText(due)
	fmt.Println(text)

	if c.DryRun {
		return nil
	}

	if !ctx.Settings.NotificationsEnabled {
		logger.Debug("Notifications disabled, not sending reminder")
		return nil
	}

	if !c.Force {
		past, err := utils.IsPastTimeOfDay(now, ctx.Settings.ReminderTime)
		if err != nil {
			return fmt.Errorf("invalid reminder_time setting: %w", err)
		}
		if !past {
			fmt.Printf("Reminder not sent before %s (use --force to send now).\n", ctx.Settings.ReminderTime)
			return nil
		}
	}

	if err := newSender().Notify(context.Background(), text); err != nil {
		if errors.Is(err, notifier.ErrTrayNotRunning) {
			fmt.Println("ℹ habitline-tray is not running; reminder not delivered.")
			return nil
		}
		return fmt.Errorf("failed to send reminder: %w", err)
	}

	fmt.Println("✓ Reminder sent")
	return nil
}
