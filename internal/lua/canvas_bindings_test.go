package lua

import (
	"errors"
	"strings"
	"testing"
	"time"

	rt "github.com/arnodel/golua/runtime"

	"github.com/opd-ai/go-pixelcanvas/pkg/canvas"
)

func newTestBindings(t *testing.T, w, h int) (*ScriptRuntime, *CanvasBindings) {
	t.Helper()
	runtime := newTestRuntime(t)
	cb, err := NewCanvasBindings(runtime, canvas.New(w, h))
	if err != nil {
		t.Fatalf("NewCanvasBindings() error: %v", err)
	}
	return runtime, cb
}

func pixelAt(t *testing.T, c *canvas.Canvas, x, y int) canvas.RGB {
	t.Helper()
	col, ok := c.At(x, y)
	if !ok {
		t.Fatalf("(%d, %d) is off-canvas", x, y)
	}
	return col
}

func TestNewCanvasBindingsNil(t *testing.T) {
	if _, err := NewCanvasBindings(nil, canvas.New(1, 1)); !errors.Is(err, ErrNilRuntime) {
		t.Errorf("expected ErrNilRuntime, got %v", err)
	}
	runtime := newTestRuntime(t)
	if _, err := NewCanvasBindings(runtime, nil); !errors.Is(err, ErrNilCanvas) {
		t.Errorf("expected ErrNilCanvas, got %v", err)
	}
}

func TestBindingsRegistered(t *testing.T) {
	runtime, _ := newTestBindings(t, 4, 4)

	for _, name := range []string{
		"canvas_width", "canvas_height", "set_pixel", "get_pixel",
		"line", "line_to", "move_to", "cursor", "circle", "fill_circle", "rgb",
	} {
		if !runtime.HasFunction(name) {
			t.Errorf("%s is not registered", name)
		}
	}
}

func TestSetPixelBinding(t *testing.T) {
	runtime, cb := newTestBindings(t, 4, 3)

	_, err := runtime.ExecuteString("pixels", `
		set_pixel(1, 0, 255, 0, 0)
		set_pixel(2, 2, "#00ff00")
		set_pixel(3, 1, "blue")
		set_pixel(-1, 0, "white")
		set_pixel(9, 9, "white")
	`)
	if err != nil {
		t.Fatalf("script error: %v", err)
	}

	c := cb.Canvas()
	if got := pixelAt(t, c, 1, 0); got != canvas.Red {
		t.Errorf("(1,0) = %v, want red", got)
	}
	if got := pixelAt(t, c, 2, 2); got != canvas.Green {
		t.Errorf("(2,2) = %v, want green", got)
	}
	if got := pixelAt(t, c, 3, 1); got != canvas.Blue {
		t.Errorf("(3,1) = %v, want blue", got)
	}
	if n := c.Snapshot().Count(); n != 3 {
		t.Errorf("expected 3 lit pixels, got %d", n)
	}
}

func TestLineBindings(t *testing.T) {
	runtime, cb := newTestBindings(t, 8, 8)

	_, err := runtime.ExecuteString("lines", `
		line(3, 2, 3, 5, "red")
		move_to(0, 7)
		line_to(4, 7, 0, 0, 255)
		local x, y = cursor()
		return x * 10 + y
	`)
	if err != nil {
		t.Fatalf("script error: %v", err)
	}

	c := cb.Canvas()
	for y := 2; y < 5; y++ {
		if got := pixelAt(t, c, 3, y); got != canvas.Red {
			t.Errorf("(3,%d) = %v, want red", y, got)
		}
	}
	if got := pixelAt(t, c, 3, 5); got != (canvas.RGB{}) {
		t.Errorf("far endpoint (3,5) should be unlit, got %v", got)
	}
	for x := 0; x < 4; x++ {
		if got := pixelAt(t, c, x, 7); got != canvas.Blue {
			t.Errorf("(%d,7) = %v, want blue", x, got)
		}
	}
	if c.Cursor() != canvas.Pt(4, 7) {
		t.Errorf("cursor = %v, want (4,7)", c.Cursor())
	}
}

func TestLineBindingExtremeCoordinates(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []canvas.Point
	}{
		{
			name: "integer extremes",
			code: `line(math.mininteger, 0, math.maxinteger, 0, 255, 0, 0)`,
			want: []canvas.Point{canvas.Pt(0, 0), canvas.Pt(1, 0), canvas.Pt(2, 0), canvas.Pt(3, 0)},
		},
		{
			name: "billion pixel vertical",
			code: `line(1, 0, 1, 1000000000, 255, 0, 0)`,
			want: []canvas.Point{canvas.Pt(1, 0), canvas.Pt(1, 1), canvas.Pt(1, 2), canvas.Pt(1, 3)},
		},
		{
			name: "line_to from far away",
			code: `move_to(0, math.maxinteger) line_to(0, math.mininteger, "red")`,
			want: []canvas.Point{canvas.Pt(0, 0), canvas.Pt(0, 1), canvas.Pt(0, 2), canvas.Pt(0, 3)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runtime, cb := newTestBindings(t, 4, 4)

			start := time.Now()
			if _, err := runtime.ExecuteString(tt.name, tt.code); err != nil {
				t.Fatalf("script error: %v", err)
			}
			if elapsed := time.Since(start); elapsed > time.Second {
				t.Errorf("line took %v on a 4x4 canvas", elapsed)
			}

			c := cb.Canvas()
			for _, p := range tt.want {
				if got := pixelAt(t, c, p.X, p.Y); got != canvas.Red {
					t.Errorf("%v = %v, want red", p, got)
				}
			}
			if n := c.Snapshot().Count(); n != len(tt.want) {
				t.Errorf("expected %d lit pixels, got %d", len(tt.want), n)
			}
		})
	}
}

func TestCursorBindingResult(t *testing.T) {
	runtime, _ := newTestBindings(t, 8, 8)

	result, err := runtime.ExecuteString("cursor", `
		line(1, 1, 6, 2, "white")
		local x, y = cursor()
		return x * 10 + y
	`)
	if err != nil {
		t.Fatalf("script error: %v", err)
	}
	if got, _ := rt.ToInt(result); got != 62 {
		t.Errorf("expected cursor (6,2), got %v", result)
	}
}

func TestCircleBindings(t *testing.T) {
	runtime, cb := newTestBindings(t, 11, 11)

	if _, err := runtime.ExecuteString("circles", `circle(5, 5, 3, "white")`); err != nil {
		t.Fatalf("script error: %v", err)
	}
	want := canvas.New(11, 11)
	want.Circle(canvas.Pt(5, 5), 3, canvas.White)
	if !cb.Canvas().Snapshot().Equal(want.Snapshot()) {
		t.Error("circle binding differs from Canvas.Circle")
	}

	cb.SetCanvas(canvas.New(11, 11))
	if _, err := runtime.ExecuteString("disk", `fill_circle(5, 5, 2.5, 255, 255, 255)`); err != nil {
		t.Fatalf("script error: %v", err)
	}
	want = canvas.New(11, 11)
	want.FillCircle(canvas.Pt(5, 5), 2.5, canvas.White)
	if !cb.Canvas().Snapshot().Equal(want.Snapshot()) {
		t.Error("fill_circle binding differs from Canvas.FillCircle")
	}
}

func TestQueryBindings(t *testing.T) {
	runtime, _ := newTestBindings(t, 5, 3)

	result, err := runtime.ExecuteString("query", `
		set_pixel(1, 1, 10, 20, 30)
		local r, g, b = get_pixel(1, 1)
		local off = get_pixel(7, 7)
		local yr, yg, yb = rgb("yellow")
		assert(off == nil, "off-canvas get_pixel should be nil")
		assert(yr == 255 and yg == 255 and yb == 0, "rgb('yellow')")
		return canvas_width() * 1000000 + canvas_height() * 100000 + r * 1000 + g * 10 + b // 10
	`)
	if err != nil {
		t.Fatalf("script error: %v", err)
	}
	got, ok := rt.ToInt(result)
	if !ok || got != 5_310_203 {
		t.Errorf("expected 5310203, got %v", result)
	}
}

func TestBindingErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"missing color", `set_pixel(1, 1)`, "set_pixel"},
		{"bad coordinate", `set_pixel("a", 1, "red")`, "set_pixel: x"},
		{"component range", `set_pixel(1, 1, 256, 0, 0)`, "out of range"},
		{"unknown color", `line(0, 0, 1, 1, "mauve-ish")`, "line"},
		{"bad radius", `circle(1, 1, "big", "red")`, "circle: radius"},
		{"short move", `move_to(1)`, "move_to"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runtime, cb := newTestBindings(t, 4, 4)
			_, err := runtime.ExecuteString(tt.name, tt.code)
			if !errors.Is(err, ErrExecution) {
				t.Fatalf("expected ErrExecution, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
			if n := cb.Canvas().Snapshot().Count(); n != 0 {
				t.Errorf("failed call drew %d pixels", n)
			}
		})
	}
}

func TestSetCanvas(t *testing.T) {
	runtime, cb := newTestBindings(t, 2, 2)
	first := cb.Canvas()

	second := canvas.New(6, 6)
	cb.SetCanvas(second)
	cb.SetCanvas(nil)
	if cb.Canvas() != second {
		t.Fatal("SetCanvas should retarget and ignore nil")
	}

	if _, err := runtime.ExecuteString("retarget", `set_pixel(5, 5, "red")`); err != nil {
		t.Fatalf("script error: %v", err)
	}
	if got := pixelAt(t, second, 5, 5); got != canvas.Red {
		t.Errorf("draw did not reach the new canvas: %v", got)
	}
	if first.Snapshot().Count() != 0 {
		t.Error("old canvas should be untouched")
	}
}
