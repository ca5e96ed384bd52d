package config

import "github.com/opd-ai/go-pixelcanvas/pkg/canvas"

// Default values for configuration options.
const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 256
	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 256
	// DefaultScale is the default display magnification.
	DefaultScale = 2
	// DefaultTitle is the default window title.
	DefaultTitle = "pixelcanvas"

	// MaxDimension bounds width and height.
	MaxDimension = 8192
	// MaxScale bounds the display magnification.
	MaxScale = 16
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Title:      DefaultTitle,
		Scale:      DefaultScale,
		Background: canvas.Black,
		NegativeY:  canvas.NegativeSkip,
	}
}
