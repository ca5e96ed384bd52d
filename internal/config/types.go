// Package config parses the scene configuration of a pixelcanvas sketch.
// A sketch declares its canvas in a global Lua table:
//
//	sketch = {
//	    width      = 320,
//	    height     = 200,
//	    scale      = 3,
//	    title      = "rings ${USER}",
//	    background = "#101020",
//	    negative_y = "clamp",
//	}
//
// Every field is optional; missing fields keep their defaults.
package config

import (
	"fmt"

	"github.com/opd-ai/go-pixelcanvas/pkg/canvas"
)

// Config is the scene configuration of one sketch.
type Config struct {
	// Width is the canvas width in pixels.
	Width int
	// Height is the canvas height in pixels.
	Height int
	// Title is the viewer window title, after environment expansion.
	Title string
	// Scale is the integer display magnification.
	Scale int
	// Background fills the canvas before draw() runs.
	Background canvas.RGB
	// NegativeY selects how computed coordinates below zero are handled.
	NegativeY canvas.NegativePolicy
}

// CanvasOptions returns the canvas options implied by the configuration.
func (c Config) CanvasOptions() []canvas.Option {
	return []canvas.Option{canvas.WithNegativePolicy(c.NegativeY)}
}

// NewCanvas allocates a canvas sized and configured for the sketch and
// paints the background when it is not black.
func (c Config) NewCanvas() *canvas.Canvas {
	cv := canvas.New(c.Width, c.Height, c.CanvasOptions()...)
	if c.Background != (canvas.RGB{}) {
		for y := 0; y < c.Height; y++ {
			for x := 0; x < c.Width; x++ {
				cv.SetPixel(x, y, c.Background)
			}
		}
	}
	return cv
}

// String returns a compact description for logs.
func (c Config) String() string {
	return fmt.Sprintf("%dx%d@%dx bg=%s negative_y=%s", c.Width, c.Height, c.Scale, c.Background, c.NegativeY)
}
