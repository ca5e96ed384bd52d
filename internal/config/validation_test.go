package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/opd-ai/go-pixelcanvas/pkg/canvas"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		fields []string
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, []string{"width"}},
		{"huge height", func(c *Config) { c.Height = MaxDimension + 1 }, []string{"height"}},
		{"max dims ok", func(c *Config) { c.Width, c.Height = MaxDimension, MaxDimension }, nil},
		{"zero scale", func(c *Config) { c.Scale = 0 }, []string{"scale"}},
		{"max scale ok", func(c *Config) { c.Scale = MaxScale }, nil},
		{"bad policy", func(c *Config) { c.NegativeY = canvas.NegativePolicy(7) }, []string{"negative_y"}},
		{"several", func(c *Config) { c.Width, c.Scale = -1, 100 }, []string{"width", "scale"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()

			if len(tt.fields) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			for _, f := range tt.fields {
				if !strings.Contains(err.Error(), f+":") {
					t.Errorf("error %q does not mention %s", err, f)
				}
			}
		})
	}
}
