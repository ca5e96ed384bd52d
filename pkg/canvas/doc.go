// Package canvas provides a minimal CPU rasterizer over a fixed-size RGB
// pixel buffer.
//
// # Coordinates
//
// Drawing calls take logical coordinates in a bottom-up Cartesian system:
// (0, 0) is the bottom-left pixel and y grows upward. Storage is top-down
// row-major, so every write maps y to height-y-1 before indexing. A
// [Snapshot] exposes the buffer in storage order, which is the order image
// consumers expect.
//
// # Clipping
//
// The canvas never fails. Writes outside [0, width) x [0, height) are
// dropped by [Canvas.SetPixel], which is the only bounds check; every other
// primitive draws through it.
//
// # Basic Usage
//
//	c := canvas.New(64, 64)
//	c.LineFromTo(canvas.Pt(0, 0), canvas.Pt(63, 40), canvas.RGB{R: 255})
//	c.LineTo(canvas.Pt(10, 60), canvas.RGB{G: 255})
//	c.Circle(canvas.Pt(32, 32), 10, canvas.RGB{B: 255})
//	snap := c.Snapshot()
//
// A Canvas is not safe for concurrent use; callers serialize access.
package canvas
