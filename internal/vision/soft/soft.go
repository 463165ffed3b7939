// Package soft is a pure-Go vision engine. Line art is extracted with a
// luminance threshold, paintable regions are the 4-connected components of
// the remaining pixels, and strokes are rasterized with rasterx and clipped
// to the region they were seeded in.
package soft

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	cimage "coloring-canvas/internal/image"
	"coloring-canvas/internal/vision"
	"coloring-canvas/pkg/colorutil"
	"coloring-canvas/pkg/geometry"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Engine implements vision.Engine without native dependencies.
type Engine struct {
	mu sync.Mutex

	width, height int
	labels        []int32 // Region per pixel, 0 for line art
	regions       int
	initial       *image.RGBA // Background produced by the last load

	points []geometry.Point2D
	region int32 // Region the current stroke was seeded in; 0 means unclipped
}

var _ vision.Engine = (*Engine)(nil)

// New returns an engine with nothing loaded.
func New() *Engine {
	return &Engine{}
}

// LoadSource thresholds src into line art and labels the paintable regions.
// The returned background is opaque white.
func (e *Engine) LoadSource(src *cimage.Source, threshold int) (*image.RGBA, *image.RGBA, error) {
	if src == nil || src.Image == nil || src.Width() == 0 || src.Height() == 0 {
		return nil, nil, vision.ErrEmptySource
	}
	if threshold < 0 || threshold > 255 {
		return nil, nil, fmt.Errorf("threshold %d out of range 0-255", threshold)
	}
	w, h := src.Width(), src.Height()

	lineArt := cimage.NewLayer(w, h)
	line := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(src.Image.At(x, y)).(color.NRGBA)
			if luminance(c) < threshold {
				line[y*w+x] = true
				lineArt.SetRGBA(x, y, color.RGBA{A: 0xff})
			}
		}
	}
	labels, n := labelRegions(line, w, h)

	background := cimage.NewLayer(w, h)
	for i := range background.Pix {
		background.Pix[i] = 0xff
	}

	e.mu.Lock()
	e.width, e.height = w, h
	e.labels = labels
	e.regions = n
	e.initial = background
	e.points = nil
	e.region = 0
	e.mu.Unlock()

	return cimage.Clone(background), lineArt, nil
}

// Regions returns the number of paintable regions found by the last load.
func (e *Engine) Regions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.regions
}

// SeedStroke starts a stroke at p and locks it to the region under p.
func (e *Engine) SeedStroke(p geometry.Point2D) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.points = append(e.points[:0], p)
	e.region = e.labelAt(p)
}

// ExtendStroke appends p to the current stroke.
func (e *Engine) ExtendStroke(p geometry.Point2D) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.points) == 0 {
		return
	}
	e.points = append(e.points, p)
}

// EndStroke discards the current stroke.
func (e *Engine) EndStroke() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.points = nil
	e.region = 0
}

// Erase paints the loaded background back under the stroke.
func (e *Engine) Erase(size float64) *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	mask := e.stroke(size*vision.EraserWidth, color.White)
	if mask == nil {
		return nil
	}
	for i := 0; i < len(mask.Pix); i += 4 {
		a := uint32(mask.Pix[i+3])
		for j := 0; j < 4; j++ {
			mask.Pix[i+j] = uint8(uint32(e.initial.Pix[i+j]) * a / 0xff)
		}
	}
	return mask
}

// Crayon paints a grainy stroke.
func (e *Engine) Crayon(size float64, c colorutil.RGB) *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	layer := e.stroke(size*vision.CrayonWidth, c.RGBA())
	if layer == nil {
		return nil
	}
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			if vision.Grain(x, y) < vision.CrayonGrain {
				i := layer.PixOffset(x, y)
				layer.Pix[i], layer.Pix[i+1], layer.Pix[i+2], layer.Pix[i+3] = 0, 0, 0, 0
			}
		}
	}
	return layer
}

// Line paints a thin pen stroke.
func (e *Engine) Line(size float64, c colorutil.RGB) *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stroke(size*vision.LineWidth, c.RGBA())
}

// Brush paints a full-width stroke.
func (e *Engine) Brush(size float64, c colorutil.RGB) *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stroke(size*vision.BrushWidth, c.RGBA())
}

// FloodFill paints the whole region under p. Points on the line art or
// outside the image fill nothing.
func (e *Engine) FloodFill(background *image.RGBA, p geometry.Point2D, c colorutil.RGB) *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	if background == nil || background.Bounds() != image.Rect(0, 0, e.width, e.height) {
		return nil
	}
	region := e.labelAt(p)
	if region == 0 {
		return nil
	}
	out := cimage.Clone(background)
	for i, l := range e.labels {
		if l == region {
			o := i * 4
			out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = c.R, c.G, c.B, 0xff
		}
	}
	return out
}

// stroke rasterizes the current points with round caps and joins, then
// clears every pixel outside the seeded region. Must be called with e.mu
// held.
func (e *Engine) stroke(width float64, c color.Color) *image.RGBA {
	if len(e.points) == 0 || e.width == 0 || width <= 0 {
		return nil
	}
	layer := cimage.NewLayer(e.width, e.height)
	scanner := rasterx.NewScannerGV(e.width, e.height, layer, layer.Bounds())
	dasher := rasterx.NewDasher(e.width, e.height, scanner)
	dasher.SetStroke(fixed.Int26_6(width*64), 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.ArcClip, nil, 0)
	dasher.SetColor(c)

	first := e.points[0]
	dasher.Start(rasterx.ToFixedP(first.X, first.Y))
	if len(e.points) == 1 {
		// A zero-length segment still gets its round caps.
		dasher.Line(rasterx.ToFixedP(first.X+0.01, first.Y))
	}
	for _, p := range e.points[1:] {
		dasher.Line(rasterx.ToFixedP(p.X, p.Y))
	}
	dasher.Stop(false)
	dasher.Draw()

	if e.region != 0 {
		for i, l := range e.labels {
			if l != e.region {
				o := i * 4
				layer.Pix[o], layer.Pix[o+1], layer.Pix[o+2], layer.Pix[o+3] = 0, 0, 0, 0
			}
		}
	}
	return layer
}

// labelAt must be called with e.mu held.
func (e *Engine) labelAt(p geometry.Point2D) int32 {
	ip := p.ImagePoint()
	if ip.X < 0 || ip.Y < 0 || ip.X >= e.width || ip.Y >= e.height {
		return 0
	}
	return e.labels[ip.Y*e.width+ip.X]
}

// luminance returns the Rec. 601 gray level of c composited over white.
func luminance(c color.NRGBA) int {
	a := int(c.A)
	r := (int(c.R)*a + 255*(255-a)) / 255
	g := (int(c.G)*a + 255*(255-a)) / 255
	b := (int(c.B)*a + 255*(255-a)) / 255
	return (299*r + 587*g + 114*b) / 1000
}
