package settings

import (
	"fmt"

	"github.com/julianstephens/habitline/internal/cli"
	apperrors "github.com/julianstephens/habitline/internal/errors"
	"github.com/julianstephens/habitline/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone             *string `help:"IANA timezone that defines the calendar day, or Local."`
	NotificationsEnabled *bool   `help:"Enable or disable reminder notifications."`
	ReminderTime         *string `help:"Earliest time of day (HH:MM) for reminders."`
	StrictDaily          *bool   `help:"Ignore repeat check-ins on the same day."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings = settings.WithDefaults()

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Timezone:              %s\n", settings.Timezone)
		fmt.Printf("  Strict Daily:          %v\n", settings.StrictDaily)
		fmt.Println("\nNotification Settings:")
		fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		fmt.Printf("  Reminder Time:         %s\n", settings.ReminderTime)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return &apperrors.ValidationError{Field: "timezone", Message: fmt.Sprintf("unknown timezone %q", *c.Timezone)}
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.ReminderTime != nil {
		if !utils.ValidateTimeFormat(*c.ReminderTime) {
			return &apperrors.ValidationError{Field: "reminder_time", Message: fmt.Sprintf("%q is not HH:MM", *c.ReminderTime)}
		}
		settings.ReminderTime = *c.ReminderTime
		updated = true
	}
	if c.StrictDaily != nil {
		settings.StrictDaily = *c.StrictDaily
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Settings = settings
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
