package sketch

import "errors"

var (
	// ErrAlreadyRunning is returned by Start on a running sketch.
	ErrAlreadyRunning = errors.New("sketch already running")

	// ErrNotRunning is returned by Reload on a stopped sketch.
	ErrNotRunning = errors.New("sketch not running")

	// ErrNoDrawFunction is returned when a script does not define draw().
	ErrNoDrawFunction = errors.New("script does not define a draw function")

	// ErrScript wraps compile and runtime errors raised by the script.
	ErrScript = errors.New("script error")

	// ErrConfig wraps invalid sketch tables.
	ErrConfig = errors.New("invalid sketch configuration")
)
