package tracker

import "time"

// EventType defines the type of tracker event.
type EventType string

const (
	// EventStatus is emitted once per tick with the current activity signal.
	EventStatus EventType = "status"
	// EventReminder is emitted when continuous active time crosses the
	// reminder threshold.
	EventReminder EventType = "reminder"
	// EventLogError is emitted when a ping could not be recorded.
	EventLogError EventType = "log_error"
)

// Event represents a tracker update for observers.
type Event struct {
	Type         EventType
	Active       bool
	MediaPlaying bool
	Timestamp    int64
	Message      string
	At           time.Time
}
