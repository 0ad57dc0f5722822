package constants

const (
	// Setting keys
	SettingTimezone             = "timezone"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingReminderTime         = "reminder_time"
	SettingStrictDaily          = "strict_daily"

	// Default Settings Values
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultNotificationsEnabled = true
	DefaultReminderTime         = "20:00"
	DefaultStrictDaily          = false
)
