package canvas

import (
	"image"
	"image/color"
	"testing"
)

var _ image.Image = (*Snapshot)(nil)

func TestSnapshotIdempotent(t *testing.T) {
	c := New(8, 6)
	c.LineFromTo(Pt(0, 0), Pt(7, 5), Red)

	a := c.Snapshot()
	b := c.Snapshot()
	if !a.Equal(b) {
		t.Error("two snapshots without intervening writes should be equal")
	}
}

func TestSnapshotDoesNotAlias(t *testing.T) {
	c := New(4, 4)
	c.SetPixel(1, 1, Red)
	s := c.Snapshot()

	c.SetPixel(2, 2, Blue)
	if got := s.RGBAt(2, 1); got != (RGB{}) {
		t.Errorf("snapshot observed a later write: %v", got)
	}

	pix := s.Pix()
	for i := range pix {
		pix[i] = 0xff
	}
	if got := s.RGBAt(1, 2); got != Red {
		t.Errorf("mutating Pix() changed the snapshot: %v", got)
	}
	if got, _ := c.At(1, 1); got != Red {
		t.Errorf("mutating Pix() changed the canvas: %v", got)
	}
}

func TestSnapshotPix(t *testing.T) {
	c := New(2, 2)
	c.SetPixel(0, 1, RGB{R: 1, G: 2, B: 3})
	c.SetPixel(1, 0, RGB{R: 4, G: 5, B: 6})

	want := []uint8{
		1, 2, 3, 0, 0, 0,
		0, 0, 0, 4, 5, 6,
	}
	got := c.Snapshot().Pix()
	if len(got) != len(want) {
		t.Fatalf("expected %d bytes, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSnapshotImage(t *testing.T) {
	c := New(3, 2)
	c.SetPixel(2, 1, RGB{R: 10, G: 20, B: 30})
	s := c.Snapshot()

	if s.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Errorf("unexpected bounds %v", s.Bounds())
	}
	r, g, b, a := s.At(2, 0).RGBA()
	if r != 10*0x101 || g != 20*0x101 || b != 30*0x101 || a != 0xffff {
		t.Errorf("At(2,0).RGBA() = (%d, %d, %d, %d)", r, g, b, a)
	}
	if got := s.RGBAt(-1, 0); got != (RGB{}) {
		t.Errorf("out-of-range RGBAt should be black, got %v", got)
	}

	converted := s.ColorModel().Convert(color.NRGBA{R: 7, G: 8, B: 9, A: 255})
	if converted != (RGB{R: 7, G: 8, B: 9}) {
		t.Errorf("ColorModel().Convert() = %v", converted)
	}
}

func TestSnapshotToRGBA(t *testing.T) {
	c := New(3, 3)
	c.SetPixel(0, 0, Green)
	img := c.Snapshot().ToRGBA()

	if got := img.RGBAAt(0, 2); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("bottom-left pixel = %v", got)
	}
	if got := img.RGBAAt(1, 1); got != (color.RGBA{A: 255}) {
		t.Errorf("blank pixel should be opaque black, got %v", got)
	}
}

func TestSnapshotColoredBounds(t *testing.T) {
	c := New(10, 10)
	if r := c.Snapshot().ColoredBounds(); !r.Empty() {
		t.Errorf("blank canvas should have empty bounds, got %v", r)
	}

	c.SetPixel(2, 1, Red)
	c.SetPixel(6, 4, Red)
	want := image.Rect(2, 5, 7, 9)
	if got := c.Snapshot().ColoredBounds(); got != want {
		t.Errorf("ColoredBounds() = %v, want %v", got, want)
	}
}

func TestSnapshotEqual(t *testing.T) {
	a := New(2, 2).Snapshot()
	b := New(2, 3).Snapshot()
	if a.Equal(b) {
		t.Error("snapshots of different sizes should differ")
	}
	var nilSnap *Snapshot
	if a.Equal(nilSnap) || !nilSnap.Equal(nil) {
		t.Error("nil handling mismatch")
	}
}
