package sketch

import "time"

// DefaultShutdownTimeout is the default timeout for graceful shutdown.
// This can be overridden via Options.ShutdownTimeout.
const DefaultShutdownTimeout = 5 * time.Second

// Options configures the Sketch instance behavior.
type Options struct {
	// Headless renders without opening a window.
	Headless bool

	// WindowTitle overrides the title from the sketch table.
	WindowTitle string

	// ShowStatus adds a status line below the canvas in the window.
	ShowStatus bool

	// WatchScript re-renders the sketch whenever its file changes on disk.
	// Only sketches created with New can be watched.
	WatchScript bool

	// WatchDebounce sets the debounce interval for file change events.
	// Zero means use DefaultWatchDebounce.
	WatchDebounce time.Duration

	// LuaCPULimit overrides the Lua CPU instruction limit per render phase.
	// Zero means use the default (10 million instructions).
	LuaCPULimit uint64

	// LuaMemoryLimit overrides the Lua memory limit in bytes.
	// Zero means use the default (50 MB).
	LuaMemoryLimit uint64

	// ShutdownTimeout sets the maximum time to wait for graceful shutdown.
	// Zero means use DefaultShutdownTimeout (5 seconds).
	ShutdownTimeout time.Duration

	// Logger receives debug and info messages, including anything the
	// script prints. If nil, no logging is performed.
	Logger Logger

	// Metrics sets a custom metrics collector.
	// If nil, a new collector is created for the instance.
	Metrics *Metrics
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		ShowStatus:    true,
		WatchDebounce: DefaultWatchDebounce,
	}
}

// Logger interface for custom logging.
// It follows the slog-style signature for compatibility with Go's structured logging.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, args ...any)
	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, args ...any)
	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, args ...any)
}
