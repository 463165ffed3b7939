package image

import (
	"image"
	"image/color"

	"coloring-canvas/pkg/geometry"

	"golang.org/x/image/draw"
)

// FitInto renders img into a width x height frame with the same aspect-fit
// placement the coordinate mapper inverts. The uncovered margin is filled
// with pad.
func FitInto(img image.Image, width, height int, pad color.Color) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: pad}, image.Point{}, draw.Src)
	if img == nil {
		return dst
	}
	r, ok := geometry.FitRect(geometry.SizeOf(img.Bounds()), geometry.NewSize(float64(width), float64(height)))
	if !ok {
		return dst
	}
	draw.ApproxBiLinear.Scale(dst, r.Image().Intersect(dst.Bounds()), img, img.Bounds(), draw.Over, nil)
	return dst
}
