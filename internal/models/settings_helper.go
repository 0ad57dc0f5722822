package models

import "github.com/julianstephens/habitline/internal/constants"

// DefaultSettings returns the settings written by a fresh store.
func DefaultSettings() Settings {
	return Settings{
		Timezone:             constants.DefaultTimezone,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		ReminderTime:         constants.DefaultReminderTime,
		StrictDaily:          constants.DefaultStrictDaily,
	}
}

// WithDefaults fills zero-valued string fields with their defaults.
func (s Settings) WithDefaults() Settings {
	if s.Timezone == "" {
		s.Timezone = constants.DefaultTimezone
	}
	if s.ReminderTime == "" {
		s.ReminderTime = constants.DefaultReminderTime
	}
	return s
}
