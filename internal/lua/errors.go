package lua

import "errors"

var (
	// ErrNilRuntime is returned when bindings are created without a runtime.
	ErrNilRuntime = errors.New("runtime cannot be nil")

	// ErrNilCanvas is returned when bindings are created without a canvas.
	ErrNilCanvas = errors.New("canvas cannot be nil")

	// ErrCompile wraps Lua syntax errors.
	ErrCompile = errors.New("failed to compile script")

	// ErrExecution wraps Lua runtime errors, including exhausted limits.
	ErrExecution = errors.New("script execution error")

	// ErrLimitExceeded is returned when a script exhausts its CPU or
	// memory budget.
	ErrLimitExceeded = errors.New("script resource limit exceeded")

	// ErrFunctionNotFound is returned by CallFunction for a missing global.
	ErrFunctionNotFound = errors.New("function not found")
)
