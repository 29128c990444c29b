package websocket

import (
	"encoding/json"

	"github.com/remindly/remindly-be/internal/models"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewReminderMessage builds the notification sent when an event's
// reminder time arrives.
func NewReminderMessage(event models.Event) []byte {
	msg := Message{Action: "reminder", Payload: event}
	b, _ := json.Marshal(msg)
	return b
}
