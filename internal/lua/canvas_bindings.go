package lua

import (
	"fmt"
	"sync"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-pixelcanvas/pkg/canvas"
)

// CanvasBindings exposes a canvas.Canvas to Lua as global functions:
//
//	canvas_width()                  -> w
//	canvas_height()                 -> h
//	set_pixel(x, y, color...)
//	get_pixel(x, y)                 -> r, g, b | nil
//	line(x1, y1, x2, y2, color...)
//	line_to(x, y, color...)
//	move_to(x, y)
//	cursor()                        -> x, y
//	circle(x, y, radius, color...)
//	fill_circle(x, y, radius, color...)
//	rgb(name)                       -> r, g, b
//
// color... is either three integers r, g, b in [0, 255] or one color
// string accepted by canvas.ParseRGB.
type CanvasBindings struct {
	runtime *ScriptRuntime
	canvas  *canvas.Canvas
	mu      sync.Mutex
}

// NewCanvasBindings registers the drawing functions in runtime, targeting c.
func NewCanvasBindings(runtime *ScriptRuntime, c *canvas.Canvas) (*CanvasBindings, error) {
	if runtime == nil {
		return nil, ErrNilRuntime
	}
	if c == nil {
		return nil, ErrNilCanvas
	}

	cb := &CanvasBindings{
		runtime: runtime,
		canvas:  c,
	}
	cb.registerFunctions()
	return cb, nil
}

// Canvas returns the current drawing target.
func (cb *CanvasBindings) Canvas() *canvas.Canvas {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.canvas
}

// SetCanvas retargets the bindings, e.g. for a fresh render of the same
// script. A nil canvas is ignored.
func (cb *CanvasBindings) SetCanvas(c *canvas.Canvas) {
	if c == nil {
		return
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.canvas = c
}

func (cb *CanvasBindings) registerFunctions() {
	cb.runtime.SetGoFunction("canvas_width", cb.width, 0, false)
	cb.runtime.SetGoFunction("canvas_height", cb.height, 0, false)

	cb.runtime.SetGoFunction("set_pixel", cb.setPixel, 2, true)
	cb.runtime.SetGoFunction("get_pixel", cb.getPixel, 2, false)

	cb.runtime.SetGoFunction("line", cb.line, 4, true)
	cb.runtime.SetGoFunction("line_to", cb.lineTo, 2, true)
	cb.runtime.SetGoFunction("move_to", cb.moveTo, 2, false)
	cb.runtime.SetGoFunction("cursor", cb.cursor, 0, false)

	cb.runtime.SetGoFunction("circle", cb.circle, 3, true)
	cb.runtime.SetGoFunction("fill_circle", cb.fillCircle, 3, true)

	cb.runtime.SetGoFunction("rgb", cb.rgb, 1, false)
}

// getAllArgs combines Args() and Etc() to get all arguments including varargs
func getAllArgs(c *rt.GoCont) []rt.Value {
	return append(c.Args(), c.Etc()...)
}

// getFloatArg gets a float argument from the combined args slice
func getFloatArg(args []rt.Value, idx int) (float64, error) {
	if idx >= len(args) {
		return 0, fmt.Errorf("argument %d out of range (have %d)", idx, len(args))
	}
	if f, ok := args[idx].TryFloat(); ok {
		return f, nil
	}
	if i, ok := args[idx].TryInt(); ok {
		return float64(i), nil
	}
	return 0, fmt.Errorf("argument %d is not a number", idx)
}

// getIntArg gets an int argument; floats are truncated toward zero.
func getIntArg(args []rt.Value, idx int) (int, error) {
	if idx >= len(args) {
		return 0, fmt.Errorf("argument %d out of range (have %d)", idx, len(args))
	}
	if i, ok := args[idx].TryInt(); ok {
		return int(i), nil
	}
	if f, ok := args[idx].TryFloat(); ok {
		return int(f), nil
	}
	return 0, fmt.Errorf("argument %d is not an integer", idx)
}

// getPointArg reads two consecutive integer arguments as a point.
func getPointArg(args []rt.Value, idx int) (canvas.Point, error) {
	x, err := getIntArg(args, idx)
	if err != nil {
		return canvas.Point{}, fmt.Errorf("x: %w", err)
	}
	y, err := getIntArg(args, idx+1)
	if err != nil {
		return canvas.Point{}, fmt.Errorf("y: %w", err)
	}
	return canvas.Pt(x, y), nil
}

// getColorArg reads a color starting at idx: a string, or r, g, b.
func getColorArg(args []rt.Value, idx int) (canvas.RGB, error) {
	if idx >= len(args) {
		return canvas.RGB{}, fmt.Errorf("missing color argument %d", idx)
	}
	if s, ok := args[idx].TryString(); ok {
		return canvas.ParseRGB(s)
	}
	var ch [3]uint8
	for i := range ch {
		v, err := getIntArg(args, idx+i)
		if err != nil {
			return canvas.RGB{}, fmt.Errorf("color: %w", err)
		}
		if v < 0 || v > 255 {
			return canvas.RGB{}, fmt.Errorf("color component %d out of range [0, 255]", v)
		}
		ch[i] = uint8(v)
	}
	return canvas.RGB{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// width handles canvas_width()
func (cb *CanvasBindings) width(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	return c.PushingNext1(t.Runtime, rt.IntValue(int64(cb.Canvas().Width()))), nil
}

// height handles canvas_height()
func (cb *CanvasBindings) height(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	return c.PushingNext1(t.Runtime, rt.IntValue(int64(cb.Canvas().Height()))), nil
}

// setPixel handles set_pixel(x, y, color...)
func (cb *CanvasBindings) setPixel(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	args := getAllArgs(c)

	p, err := getPointArg(args, 0)
	if err != nil {
		return nil, fmt.Errorf("set_pixel: %w", err)
	}
	col, err := getColorArg(args, 2)
	if err != nil {
		return nil, fmt.Errorf("set_pixel: %w", err)
	}

	cb.Canvas().SetPixel(p.X, p.Y, col)
	return c.Next(), nil
}

// getPixel handles get_pixel(x, y) and returns r, g, b, or nil off-canvas.
func (cb *CanvasBindings) getPixel(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	p, err := getPointArg(getAllArgs(c), 0)
	if err != nil {
		return nil, fmt.Errorf("get_pixel: %w", err)
	}

	col, ok := cb.Canvas().At(p.X, p.Y)
	if !ok {
		return c.PushingNext1(t.Runtime, rt.NilValue), nil
	}
	return c.PushingNext(t.Runtime,
		rt.IntValue(int64(col.R)),
		rt.IntValue(int64(col.G)),
		rt.IntValue(int64(col.B)),
	), nil
}

// line handles line(x1, y1, x2, y2, color...)
func (cb *CanvasBindings) line(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	args := getAllArgs(c)

	start, err := getPointArg(args, 0)
	if err != nil {
		return nil, fmt.Errorf("line: start: %w", err)
	}
	end, err := getPointArg(args, 2)
	if err != nil {
		return nil, fmt.Errorf("line: end: %w", err)
	}
	col, err := getColorArg(args, 4)
	if err != nil {
		return nil, fmt.Errorf("line: %w", err)
	}

	cb.Canvas().LineFromTo(start, end, col)
	return c.Next(), nil
}

// lineTo handles line_to(x, y, color...)
func (cb *CanvasBindings) lineTo(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	args := getAllArgs(c)

	end, err := getPointArg(args, 0)
	if err != nil {
		return nil, fmt.Errorf("line_to: %w", err)
	}
	col, err := getColorArg(args, 2)
	if err != nil {
		return nil, fmt.Errorf("line_to: %w", err)
	}

	cb.Canvas().LineTo(end, col)
	return c.Next(), nil
}

// moveTo handles move_to(x, y)
func (cb *CanvasBindings) moveTo(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	p, err := getPointArg(getAllArgs(c), 0)
	if err != nil {
		return nil, fmt.Errorf("move_to: %w", err)
	}

	cb.Canvas().MoveTo(p)
	return c.Next(), nil
}

// cursor handles cursor() and returns x, y.
func (cb *CanvasBindings) cursor(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	p := cb.Canvas().Cursor()
	return c.PushingNext(t.Runtime,
		rt.IntValue(int64(p.X)),
		rt.IntValue(int64(p.Y)),
	), nil
}

// circle handles circle(x, y, radius, color...)
func (cb *CanvasBindings) circle(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	center, radius, col, err := circleArgs(getAllArgs(c))
	if err != nil {
		return nil, fmt.Errorf("circle: %w", err)
	}

	cb.Canvas().Circle(center, radius, col)
	return c.Next(), nil
}

// fillCircle handles fill_circle(x, y, radius, color...)
func (cb *CanvasBindings) fillCircle(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	center, radius, col, err := circleArgs(getAllArgs(c))
	if err != nil {
		return nil, fmt.Errorf("fill_circle: %w", err)
	}

	cb.Canvas().FillCircle(center, radius, col)
	return c.Next(), nil
}

func circleArgs(args []rt.Value) (canvas.Point, float64, canvas.RGB, error) {
	center, err := getPointArg(args, 0)
	if err != nil {
		return canvas.Point{}, 0, canvas.RGB{}, err
	}
	radius, err := getFloatArg(args, 2)
	if err != nil {
		return canvas.Point{}, 0, canvas.RGB{}, fmt.Errorf("radius: %w", err)
	}
	col, err := getColorArg(args, 3)
	if err != nil {
		return canvas.Point{}, 0, canvas.RGB{}, err
	}
	return center, radius, col, nil
}

// rgb handles rgb(name) and returns the parsed r, g, b.
func (cb *CanvasBindings) rgb(t *rt.Thread, c *rt.GoCont) (rt.Cont, error) {
	col, err := getColorArg(getAllArgs(c), 0)
	if err != nil {
		return nil, fmt.Errorf("rgb: %w", err)
	}
	return c.PushingNext(t.Runtime,
		rt.IntValue(int64(col.R)),
		rt.IntValue(int64(col.G)),
		rt.IntValue(int64(col.B)),
	), nil
}
