package canvas

import "math"

// maxCoord bounds rounded coordinates before int conversion. Anything past
// it is off every canvas anyway.
const maxCoord = 1 << 30

// Point is an integer position in logical coordinates.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Canvas is a fixed-size RGB pixel buffer with a drawing cursor.
type Canvas struct {
	width    int
	height   int
	pix      []RGB // top-down, row-major
	cursor   Point
	negative NegativePolicy
}

// New creates a canvas with every pixel set to the zero color and the
// cursor at (0, 0). Negative dimensions are treated as zero; a zero-sized
// canvas accepts every call and draws nothing.
func New(width, height int, opts ...Option) *Canvas {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	width = max(width, 0)
	height = max(height, 0)
	return &Canvas{
		width:    width,
		height:   height,
		pix:      make([]RGB, width*height),
		negative: o.negative,
	}
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.height
}

// Cursor returns the end point of the most recent line or circle call.
func (c *Canvas) Cursor() Point {
	return c.cursor
}

// NegativePolicy returns the policy the canvas was built with.
func (c *Canvas) NegativePolicy() NegativePolicy {
	return c.negative
}

// SetPixel writes col at logical (x, y). Out-of-range coordinates are
// silently ignored.
func (c *Canvas) SetPixel(x, y int, col RGB) {
	i, ok := c.index(x, y)
	if !ok {
		return
	}
	c.pix[i] = col
}

// At returns the color at logical (x, y) and whether the position is on
// the canvas.
func (c *Canvas) At(x, y int) (RGB, bool) {
	i, ok := c.index(x, y)
	if !ok {
		return RGB{}, false
	}
	return c.pix[i], true
}

// index maps a logical position to its storage index.
func (c *Canvas) index(x, y int) (int, bool) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return 0, false
	}
	row := c.height - y - 1
	return row*c.width + x, true
}

// LineFromTo draws from start toward end and leaves the cursor at end.
//
// The far endpoint on the iterated axis is not plotted: a vertical line
// covers y in [min, max) and any other line covers x in [min, max), with
// y computed from the slope-intercept form and rounded half away from
// zero. The iterated range is clipped to the canvas before the loop, so
// the cost is bounded by the canvas size whatever the endpoints.
func (c *Canvas) LineFromTo(start, end Point, col RGB) {
	c.cursor = end
	if start.X == end.X {
		lo := max(min(start.Y, end.Y), 0)
		hi := min(max(start.Y, end.Y), c.height)
		for y := lo; y < hi; y++ {
			c.SetPixel(start.X, y, col)
		}
		return
	}

	// Deltas in float64: int subtraction overflows for extreme endpoints.
	m := (float64(end.Y) - float64(start.Y)) / (float64(end.X) - float64(start.X))
	b := float64(start.Y) - m*float64(start.X)
	lo := max(min(start.X, end.X), 0)
	hi := min(max(start.X, end.X), c.width)
	for x := lo; x < hi; x++ {
		c.SetPixel(x, c.round(m*float64(x)+b), col)
	}
}

// LineTo draws from the cursor to end.
func (c *Canvas) LineTo(end Point, col RGB) {
	c.LineFromTo(c.cursor, end, col)
}

// MoveTo places the cursor at p without drawing.
func (c *Canvas) MoveTo(p Point) {
	c.cursor = p
}

// Circle draws an approximate disk around center.
//
// Each column i in [max(0, trunc(cx-r)), min(width, round(cx+r))) gets two
// vertical segments: one joining the upper boundary crossings at the
// column edges i-0.5 and i+0.5, and one joining the lower crossings. The
// segments go through LineFromTo, so their far ends are not plotted and
// the result has small gaps. Edges outside the circle cross at the center
// row. The cursor is left at center.
func (c *Canvas) Circle(center Point, radius float64, col RGB) {
	defer c.MoveTo(center)

	lo, hi, ok := c.columns(center, radius)
	if !ok {
		return
	}
	r2 := radius * radius
	for i := lo; i < hi; i++ {
		leftUp, leftDown := roots(float64(i)-0.5, center, r2)
		rightUp, rightDown := roots(float64(i)+0.5, center, r2)
		c.LineFromTo(Pt(i, c.round(leftUp)), Pt(i, c.round(rightUp)), col)
		c.LineFromTo(Pt(i, c.round(leftDown)), Pt(i, c.round(rightDown)), col)
	}
}

// FillCircle draws a solid disk around center. Unlike Circle, the column
// range is symmetric, [ceil(cx-r), floor(cx+r)], and each column is filled
// between the boundary crossings at its center with both ends included.
// The cursor is left at center.
func (c *Canvas) FillCircle(center Point, radius float64, col RGB) {
	defer c.MoveTo(center)

	if math.IsNaN(radius) || radius < 0 {
		return
	}
	cx := float64(center.X)
	left := math.Max(0, math.Ceil(cx-radius))
	right := math.Min(float64(c.width-1), math.Floor(cx+radius))
	if right < left {
		return
	}
	r2 := radius * radius
	for i := int(left); i <= int(right); i++ {
		up, down := roots(float64(i), center, r2)
		top := min(c.round(up), c.height-1)
		for y := max(c.round(down), 0); y <= top; y++ {
			c.SetPixel(i, y, col)
		}
	}
}

// columns returns the clipped column range covered by a circle.
func (c *Canvas) columns(center Point, radius float64) (lo, hi int, ok bool) {
	if math.IsNaN(radius) {
		return 0, 0, false
	}
	cx := float64(center.X)
	left := math.Max(0, math.Trunc(cx-radius))
	right := math.Min(float64(c.width), math.Round(cx+radius))
	if right <= left {
		return 0, 0, false
	}
	return int(left), int(right), true
}

// roots solves (x-h)^2 + (y-k)^2 = r^2 for y. Outside the circle the
// discriminant is clamped to zero so both roots collapse onto k.
func roots(x float64, center Point, r2 float64) (up, down float64) {
	dx := x - float64(center.X)
	d := math.Sqrt(math.Max(0, r2-dx*dx))
	k := float64(center.Y)
	return k + d, k - d
}

// round converts a computed coordinate to an int, rounding half away from
// zero and applying the canvas NegativePolicy below zero.
func (c *Canvas) round(v float64) int {
	v = math.Round(v)
	switch {
	case math.IsNaN(v):
		return -1
	case v < 0:
		if c.negative == NegativeClamp {
			return 0
		}
		return int(math.Max(v, -maxCoord))
	case v > maxCoord:
		return maxCoord
	}
	return int(v)
}

// Snapshot returns an immutable copy of the current buffer.
func (c *Canvas) Snapshot() *Snapshot {
	pix := make([]RGB, len(c.pix))
	copy(pix, c.pix)
	return &Snapshot{width: c.width, height: c.height, pix: pix}
}
