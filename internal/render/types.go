// Package render displays canvas snapshots in an Ebiten window.
package render

import (
	"fmt"
	"image/color"
	"math"
)

// StatusBarHeight is the height in screen pixels of the status strip
// below the canvas.
var StatusBarHeight = int(math.Ceil(defaultFontSize * 1.2))

// Config holds the viewer configuration.
type Config struct {
	// Width is the canvas width in pixels.
	Width int
	// Height is the canvas height in pixels.
	Height int
	// Scale is the integer magnification applied to every canvas pixel.
	Scale int
	// Title is the window title.
	Title string
	// ShowStatus adds a one-line status strip below the canvas.
	ShowStatus bool
	// StatusColor is the status text color.
	StatusColor color.RGBA
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Width:       256,
		Height:      256,
		Scale:       2,
		Title:       "pixelcanvas",
		ShowStatus:  true,
		StatusColor: color.RGBA{R: 200, G: 200, B: 200, A: 255},
	}
}

// CanvasSize returns the size of the upscaled canvas in screen pixels.
func (c Config) CanvasSize() (int, int) {
	return c.Width * c.Scale, c.Height * c.Scale
}

// WindowSize returns the window size in screen pixels: the canvas plus
// the status strip when it is shown.
func (c Config) WindowSize() (int, int) {
	w, h := c.CanvasSize()
	if c.ShowStatus {
		h += StatusBarHeight
	}
	return w, h
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", c.Width)
	}
	if c.Height <= 0 {
		return fmt.Errorf("height must be positive, got %d", c.Height)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %d", c.Scale)
	}
	return nil
}
