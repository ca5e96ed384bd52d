package render

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/opd-ai/go-pixelcanvas/pkg/canvas"
)

// UpscaleSnapshot returns s magnified by scale with nearest-neighbour
// sampling, so every canvas pixel becomes a scale×scale block. A scale
// below 1 is treated as 1. A nil snapshot yields an empty image.
func UpscaleSnapshot(s *canvas.Snapshot, scale int) *image.RGBA {
	if s == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	if scale < 1 {
		scale = 1
	}

	src := s.ToRGBA()
	if scale == 1 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, s.Width()*scale, s.Height()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
