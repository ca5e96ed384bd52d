// Package sketch runs pixelcanvas drawing scripts.
//
// A sketch is a Lua script that optionally declares a sketch table with
// the canvas size and display settings, and defines a draw function that
// paints the canvas with the drawing primitives:
//
//	sketch = { width = 64, height = 64, scale = 4, background = "#101018" }
//
//	function draw()
//	    for r = 4, 28, 6 do
//	        circle(32, 32, r, "white")
//	    end
//	    line(0, 0, 63, 63, 255, 0, 0)
//	end
//
// Every render evaluates the script from scratch: a fresh Lua runtime runs
// the top level, the sketch table is read, a canvas of the declared size is
// allocated and painted with the background, and draw() is called. Canvas
// functions are available at the top level but the canvas there has no
// pixels, so drawing outside draw() has no effect.
//
// The result is an immutable canvas.Snapshot. In windowed mode it is shown
// in an Ebiten window; in headless mode it is only available through
// Snapshot and Render.
//
// Basic usage:
//
//	s, err := sketch.New("rings.lua", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := s.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Stop()
//
// Scripts can be loaded from disk (New), an fs.FS such as embed.FS
// (NewFromFS) or any io.Reader (NewFromReader). With Options.WatchScript,
// a sketch loaded from disk re-renders whenever the file is saved.
//
// Build with -tags noebiten to exclude the windowed display; sketches then
// always run headless.
package sketch
