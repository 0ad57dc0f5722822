package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

// ConflictType represents the type of integrity conflict found in the habit collection
type ConflictType string

const (
	AppName            = "habitline"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/habitline/habitline.db"
	Version            = "v0.1.0"

	// ConnectionEnvVar overrides the configured store with a PostgreSQL connection string
	ConnectionEnvVar = "HABITLINE_DB_CONNECTION"
	// KeyringConfigValue tells main to read the connection string from the OS keyring
	KeyringConfigValue = "keyring"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// TimestampFormat is the textual form used to persist check-ins and creation times
	TimestampFormat = time.RFC3339Nano

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitline-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "habitline-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitline"
	TrayExecutableName     = "habitline-tray"
	NotifySecretHeader     = "X-Habitline-Secret"

	// LogDays is the default width of the check-in strip in reports
	LogDays = 14

	// Conflict Types
	ConflictDuplicateID      ConflictType = "duplicate_id"
	ConflictEmptyName        ConflictType = "empty_name"
	ConflictNegativeStreak   ConflictType = "negative_streak"
	ConflictBestBelowCurrent ConflictType = "best_below_current"
	ConflictBestAboveHistory ConflictType = "best_above_history"
	ConflictLastCheckIn      ConflictType = "last_check_in_mismatch"
	ConflictCheckInBeforeNew ConflictType = "check_in_before_creation"
)

// Session States
const (
	StateHabits SessionState = iota
	StateAddHabit
	StateEditHabit
	StateConfirmDelete
)
