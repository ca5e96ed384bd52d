package canvas

import (
	"image"
	"image/color"
)

// Snapshot is an immutable copy of a canvas buffer, taken by
// Canvas.Snapshot. Pixels are addressed in storage order: row 0 is the
// top of the image.
//
// Snapshot implements image.Image.
type Snapshot struct {
	width  int
	height int
	pix    []RGB
}

// Width returns the snapshot width in pixels.
func (s *Snapshot) Width() int {
	return s.width
}

// Height returns the snapshot height in pixels.
func (s *Snapshot) Height() int {
	return s.height
}

// RGBAt returns the color at column x of storage row y. Out-of-range
// positions return black.
func (s *Snapshot) RGBAt(x, y int) RGB {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return RGB{}
	}
	return s.pix[y*s.width+x]
}

// Pix returns a fresh copy of the pixels as packed R, G, B bytes in
// top-down row-major order; len is 3*Width()*Height().
func (s *Snapshot) Pix() []uint8 {
	out := make([]uint8, 0, len(s.pix)*3)
	for _, p := range s.pix {
		out = append(out, p.R, p.G, p.B)
	}
	return out
}

// Equal reports whether two snapshots have the same size and pixels.
func (s *Snapshot) Equal(o *Snapshot) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.width != o.width || s.height != o.height {
		return false
	}
	for i := range s.pix {
		if s.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// Count returns how many pixels differ from the zero color.
func (s *Snapshot) Count() int {
	n := 0
	for _, p := range s.pix {
		if p != (RGB{}) {
			n++
		}
	}
	return n
}

// ColoredBounds returns the smallest storage-order rectangle holding every
// pixel that differs from the zero color, or an empty rectangle.
func (s *Snapshot) ColoredBounds() image.Rectangle {
	r := image.Rectangle{}
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			if s.pix[y*s.width+x] == (RGB{}) {
				continue
			}
			r = r.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return r
}

// ToRGBA converts the snapshot to an opaque *image.RGBA.
func (s *Snapshot) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	for i, p := range s.pix {
		j := i * 4
		img.Pix[j+0] = p.R
		img.Pix[j+1] = p.G
		img.Pix[j+2] = p.B
		img.Pix[j+3] = 0xff
	}
	return img
}

// At implements the image.Image interface.
func (s *Snapshot) At(x, y int) color.Color {
	return s.RGBAt(x, y)
}

// Bounds implements the image.Image interface.
func (s *Snapshot) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

// ColorModel implements the image.Image interface.
func (s *Snapshot) ColorModel() color.Model {
	return RGBModel
}
