package models

// Settings represents application-wide settings
type Settings struct {
	Timezone             string `json:"timezone"`              // IANA timezone name (e.g. "America/New_York", or "Local" for system timezone)
	NotificationsEnabled bool   `json:"notifications_enabled"` // whether streak reminders are sent to the tray app
	ReminderTime         string `json:"reminder_time"`         // earliest time of day (HH:MM) at which reminders fire
	StrictDaily          bool   `json:"strict_daily"`          // ignore repeat check-ins on the same calendar day
}
