package config

import (
	"errors"
	"fmt"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-pixelcanvas/pkg/canvas"
)

// GlobalName is the Lua global holding the sketch configuration table.
const GlobalName = "sketch"

// ErrNotTable is returned when the sketch global is set to something
// other than a table.
var ErrNotTable = errors.New("sketch is not a table")

// FromValue builds a Config from the value of the sketch global. A nil
// value yields the defaults. The result is environment-expanded and
// validated.
func FromValue(v rt.Value) (*Config, error) {
	cfg := DefaultConfig()

	if v == rt.NilValue {
		return &cfg, nil
	}
	table, ok := v.TryTable()
	if !ok {
		return nil, fmt.Errorf("%w (got %s)", ErrNotTable, v.TypeName())
	}

	if err := extractConfigTable(&cfg, table); err != nil {
		return nil, err
	}
	ExpandEnvConfig(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// extractConfigTable copies recognised keys from table into cfg.
func extractConfigTable(cfg *Config, table *rt.Table) error {
	if val, err := getTableInt(table, "width"); err != nil {
		return err
	} else if val != nil {
		cfg.Width = *val
	}
	if val, err := getTableInt(table, "height"); err != nil {
		return err
	} else if val != nil {
		cfg.Height = *val
	}
	if val, err := getTableInt(table, "scale"); err != nil {
		return err
	} else if val != nil {
		cfg.Scale = *val
	}

	if val, err := getTableString(table, "title"); err != nil {
		return err
	} else if val != nil {
		cfg.Title = *val
	}

	if val, err := getTableString(table, "background"); err != nil {
		return err
	} else if val != nil {
		c, err := canvas.ParseRGB(*val)
		if err != nil {
			return fmt.Errorf("invalid background: %w", err)
		}
		cfg.Background = c
	}

	if val, err := getTableString(table, "negative_y"); err != nil {
		return err
	} else if val != nil {
		p, err := canvas.ParseNegativePolicy(*val)
		if err != nil {
			return fmt.Errorf("invalid negative_y: %w", err)
		}
		cfg.NegativeY = p
	}

	return nil
}

// getTableString retrieves a string value from a Lua table.
// Returns nil if the key doesn't exist.
func getTableString(table *rt.Table, key string) (*string, error) {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil, nil
	}

	if s, ok := val.TryString(); ok {
		return &s, nil
	}
	return nil, fmt.Errorf("%s must be a string, got %s", key, val.TypeName())
}

// getTableInt retrieves an int value from a Lua table. Floats must be
// integral. Returns nil if the key doesn't exist.
func getTableInt(table *rt.Table, key string) (*int, error) {
	val := table.Get(rt.StringValue(key))
	if val == rt.NilValue {
		return nil, nil
	}

	if n, ok := val.TryInt(); ok {
		i := int(n)
		return &i, nil
	}
	if f, ok := val.TryFloat(); ok && f == float64(int64(f)) {
		i := int(f)
		return &i, nil
	}
	return nil, fmt.Errorf("%s must be an integer, got %s", key, val.TypeName())
}
