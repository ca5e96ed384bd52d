package canvas

import "fmt"

// NegativePolicy selects what happens to a computed coordinate (a rounded
// line y or circle root) that falls below zero.
type NegativePolicy int

const (
	// NegativeSkip leaves the coordinate negative so SetPixel drops it.
	NegativeSkip NegativePolicy = iota
	// NegativeClamp pins the coordinate to 0, drawing on the bottom row.
	NegativeClamp
)

// String returns the configuration name of the policy.
func (p NegativePolicy) String() string {
	switch p {
	case NegativeSkip:
		return "skip"
	case NegativeClamp:
		return "clamp"
	default:
		return "unknown"
	}
}

// ParseNegativePolicy parses "skip" or "clamp". The empty string selects
// NegativeSkip.
func ParseNegativePolicy(s string) (NegativePolicy, error) {
	switch s {
	case "skip", "":
		return NegativeSkip, nil
	case "clamp":
		return NegativeClamp, nil
	default:
		return NegativeSkip, fmt.Errorf("unknown negative coordinate policy: %q", s)
	}
}

// Option configures a Canvas at construction time.
type Option func(*options)

type options struct {
	negative NegativePolicy
}

func defaultOptions() options {
	return options{negative: NegativeSkip}
}

// WithNegativePolicy sets the policy for computed coordinates below zero.
func WithNegativePolicy(p NegativePolicy) Option {
	return func(o *options) {
		o.negative = p
	}
}
