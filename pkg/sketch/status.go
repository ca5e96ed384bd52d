package sketch

import "time"

// Status represents the current state of a Sketch.
type Status struct {
	// Running indicates if the sketch is currently active.
	Running bool
	// StartTime is when the sketch was last started (zero if never started).
	StartTime time.Time
	// RenderCount is the number of successful renders since creation.
	RenderCount uint64
	// LastRender is when the current snapshot was produced.
	LastRender time.Time
	// LastRenderDuration is how long the last successful render took.
	LastRenderDuration time.Duration
	// LastError is the most recent render error (nil if none).
	LastError error
	// Source describes where the script comes from.
	Source string
}

// ErrorHandler is a callback for runtime errors.
// It is called asynchronously; do not block in the handler.
type ErrorHandler func(err error)

// EventHandler is a callback for lifecycle events.
// It is called asynchronously; do not block in the handler.
type EventHandler func(event Event)

// Event represents a lifecycle event.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Message   string
}

// EventType enumerates lifecycle event types.
type EventType int

const (
	// EventStarted is emitted when the sketch starts successfully.
	EventStarted EventType = iota
	// EventStopped is emitted when the sketch stops.
	EventStopped
	// EventRendered is emitted after every successful render.
	EventRendered
	// EventReloaded is emitted after a reload replaced the snapshot.
	EventReloaded
	// EventError is emitted when a recoverable error occurs.
	EventError
)

// String returns a human-readable representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventRendered:
		return "rendered"
	case EventReloaded:
		return "reloaded"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}
