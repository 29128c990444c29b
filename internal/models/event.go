package models

import "time"

// Event represents a scheduled occurrence owned by a single user.
// ReminderAt is derived: always Start minus ReminderMinutes, recomputed
// whenever those fields are set and never accepted from the client.
type Event struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Start           time.Time  `json:"start"`
	End             *time.Time `json:"end,omitempty"` // Nullable for open-ended events
	ReminderMinutes int        `json:"reminderMinutes"`
	ReminderAt      time.Time  `json:"reminderAt"`
	ReminderSent    bool       `json:"reminderSent"`
	UserID          string     `json:"userId"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// ComputeReminderAt derives the reminder trigger time from the start time
// and the lead minutes.
func (e *Event) ComputeReminderAt() {
	e.ReminderAt = e.Start.Add(-time.Duration(e.ReminderMinutes) * time.Minute)
}
