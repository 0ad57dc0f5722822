package storage

import "github.com/julianstephens/habitline/internal/models"

// Provider is a habit store. The Tracker only needs LoadHabits and
// SaveHabits; the rest serves the CLI.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits, always the full collection
	LoadHabits() ([]models.Habit, error)
	SaveHabits([]models.Habit) error

	// Utils
	GetConfigPath() string
}

// Versioned is implemented by stores with a migrated schema.
type Versioned interface {
	SchemaVersion() (current, latest int, err error)
}
