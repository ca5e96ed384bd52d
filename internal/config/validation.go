package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opd-ai/go-pixelcanvas/pkg/canvas"
)

// ErrInvalidConfig is wrapped by every error returned from Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError describes one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// Validate checks that every field is within its supported range and
// reports all problems at once.
func (c Config) Validate() error {
	var errs []ValidationError
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Width <= 0 || c.Width > MaxDimension {
		add("width", "must be in (0, %d], got %d", MaxDimension, c.Width)
	}
	if c.Height <= 0 || c.Height > MaxDimension {
		add("height", "must be in (0, %d], got %d", MaxDimension, c.Height)
	}
	if c.Scale < 1 || c.Scale > MaxScale {
		add("scale", "must be in [1, %d], got %d", MaxScale, c.Scale)
	}
	switch c.NegativeY {
	case canvas.NegativeSkip, canvas.NegativeClamp:
	default:
		add("negative_y", "unknown policy %d", int(c.NegativeY))
	}

	if len(errs) == 0 {
		return nil
	}
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Error())
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(messages, "; "))
}
