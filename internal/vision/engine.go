// Package vision defines the image-processing collaborator the canvas
// delegates segmentation, stroke rasterization and flood fill to.
package vision

import (
	"errors"
	"image"

	cimage "coloring-canvas/internal/image"
	"coloring-canvas/internal/tool"
	"coloring-canvas/pkg/colorutil"
	"coloring-canvas/pkg/geometry"
)

// DefaultThreshold is the gray level below which a source pixel counts as
// line art.
const DefaultThreshold = 128

// ErrEmptySource is returned by LoadSource when there is nothing to segment.
var ErrEmptySource = errors.New("empty source image")

// Engine extracts the line-art mask from an outline image and rasterizes
// strokes and fills against it. Stroke calls are stateful: SeedStroke starts
// a stroke, ExtendStroke adds points and EndStroke releases whatever the
// stroke holds. Rasterize methods return a transient layer the size of the
// loaded source, or nil when nothing can be drawn.
type Engine interface {
	LoadSource(src *cimage.Source, threshold int) (background, lineArt *image.RGBA, err error)

	SeedStroke(p geometry.Point2D)
	ExtendStroke(p geometry.Point2D)
	EndStroke()

	Erase(size float64) *image.RGBA
	Crayon(size float64, c colorutil.RGB) *image.RGBA
	Line(size float64, c colorutil.RGB) *image.RGBA
	Brush(size float64, c colorutil.RGB) *image.RGBA

	// FloodFill paints the region under p and returns a new background.
	// The passed background is never modified.
	FloodFill(background *image.RGBA, p geometry.Point2D, c colorutil.RGB) *image.RGBA
}

// Rasterizer renders the current stroke for one continuous tool.
type Rasterizer func(e Engine, size float64, c colorutil.RGB) *image.RGBA

var rasterizers = map[tool.Kind]Rasterizer{
	tool.Eraser: func(e Engine, size float64, _ colorutil.RGB) *image.RGBA { return e.Erase(size) },
	tool.Crayon: func(e Engine, size float64, c colorutil.RGB) *image.RGBA { return e.Crayon(size, c) },
	tool.Line:   func(e Engine, size float64, c colorutil.RGB) *image.RGBA { return e.Line(size, c) },
	tool.Brush:  func(e Engine, size float64, c colorutil.RGB) *image.RGBA { return e.Brush(size, c) },
}

// RasterizerFor returns the rasterize function for k. Fill has none.
func RasterizerFor(k tool.Kind) (Rasterizer, bool) {
	fn, ok := rasterizers[k]
	return fn, ok
}

// Rasterize renders the current stroke with tool k.
func Rasterize(e Engine, k tool.Kind, size float64, c colorutil.RGB) *image.RGBA {
	fn, ok := rasterizers[k]
	if !ok || e == nil {
		return nil
	}
	return fn(e, size, c)
}
