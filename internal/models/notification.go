// internal/models/notification.go
package models

// ReminderTier labels how far ahead of the deadline a reminder fires.
type ReminderTier struct {
	DaysAhead int
	Label     string
}

// ReminderTiers lists the supported reminder horizons. A job is notified
// only when its deadline lands exactly on one of these offsets from today.
var ReminderTiers = []ReminderTier{
	{DaysAhead: 1, Label: "1 Day Reminder"},
	{DaysAhead: 3, Label: "3 Day Reminder"},
	{DaysAhead: 7, Label: "7 Day Reminder"},
}

// SweepOutcome is the terminal result of one deadline-reminder sweep.
type SweepOutcome struct {
	Status  string `json:"status"` // "completed" or "error"
	Message string `json:"message"`
}

// SweepStats carries the per-run counters reported alongside the outcome.
type SweepStats struct {
	NotificationsSent int `json:"notifications_sent"`
	Errors            int `json:"errors"`
}
