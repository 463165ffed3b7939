// Package cv is the OpenCV-backed vision engine.
package cv

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	cimage "coloring-canvas/internal/image"
	"coloring-canvas/internal/vision"
	"coloring-canvas/pkg/colorutil"
	"coloring-canvas/pkg/geometry"

	"gocv.io/x/gocv"
)

// Engine implements vision.Engine with gocv. Line art is an inverted binary
// threshold of the grayscale source; regions come from connected components
// of the non-line pixels.
type Engine struct {
	mu sync.Mutex

	width, height int
	labels        []int32
	initial       *image.RGBA

	points []image.Point
	region int32
}

var _ vision.Engine = (*Engine)(nil)

// New returns an engine with nothing loaded.
func New() *Engine {
	return &Engine{}
}

// LoadSource extracts the line-art mask and region labels from src.
func (e *Engine) LoadSource(src *cimage.Source, threshold int) (*image.RGBA, *image.RGBA, error) {
	if src == nil || src.Image == nil || src.Width() == 0 || src.Height() == 0 {
		return nil, nil, vision.ErrEmptySource
	}
	if threshold < 0 || threshold > 255 {
		return nil, nil, fmt.Errorf("threshold %d out of range 0-255", threshold)
	}
	w, h := src.Width(), src.Height()

	mat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC4, src.Pixels())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create mat: %w", err)
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorRGBAToGray)

	// Line pixels become 255 in lines, paintable pixels 255 in open.
	lines := gocv.NewMat()
	defer lines.Close()
	gocv.Threshold(gray, &lines, float32(threshold-1), 255, gocv.ThresholdBinaryInv)

	open := gocv.NewMat()
	defer open.Close()
	gocv.BitwiseNot(lines, &open)

	labelMat := gocv.NewMat()
	defer labelMat.Close()
	// 4-connectivity: a diagonal gap in a line does not join regions.
	gocv.ConnectedComponentsWithParams(open, &labelMat, 4, gocv.MatTypeCV32S, gocv.CCL_DEFAULT)

	data, err := labelMat.DataPtrInt32()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read labels: %w", err)
	}
	labels := make([]int32, len(data))
	copy(labels, data)

	mask := lines.ToBytes()
	lineArt := cimage.NewLayer(w, h)
	for i, v := range mask {
		if v != 0 {
			lineArt.Pix[i*4+3] = 0xff
		}
	}

	background := cimage.NewLayer(w, h)
	for i := range background.Pix {
		background.Pix[i] = 0xff
	}

	e.mu.Lock()
	e.width, e.height = w, h
	e.labels = labels
	e.initial = background
	e.points = nil
	e.region = 0
	e.mu.Unlock()

	return cimage.Clone(background), lineArt, nil
}

// SeedStroke starts a stroke in the region under p.
func (e *Engine) SeedStroke(p geometry.Point2D) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ip := p.ImagePoint()
	e.points = append(e.points[:0], ip)
	e.region = e.labelAt(ip)
}

// ExtendStroke appends p to the current stroke.
func (e *Engine) ExtendStroke(p geometry.Point2D) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.points) == 0 {
		return
	}
	e.points = append(e.points, p.ImagePoint())
}

// EndStroke discards the current stroke.
func (e *Engine) EndStroke() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.points = nil
	e.region = 0
}

// Erase returns the stroke painted with the initial background.
func (e *Engine) Erase(size float64) *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	layer := e.stroke(size*vision.EraserWidth, colorutil.White)
	if layer == nil {
		return nil
	}
	for i := 0; i < len(layer.Pix); i += 4 {
		if layer.Pix[i+3] != 0 {
			copy(layer.Pix[i:i+4], e.initial.Pix[i:i+4])
		}
	}
	return layer
}

// Crayon returns the stroke with a grain texture.
func (e *Engine) Crayon(size float64, c colorutil.RGB) *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	layer := e.stroke(size*vision.CrayonWidth, c)
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

// Line returns a thin stroke.
func (e *Engine) Line(size float64, c colorutil.RGB) *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stroke(size*vision.LineWidth, c)
}

// Brush returns a full-width stroke.
func (e *Engine) Brush(size float64, c colorutil.RGB) *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stroke(size*vision.BrushWidth, c)
}

// FloodFill returns a copy of background with the region under p painted c.
func (e *Engine) FloodFill(background *image.RGBA, p geometry.Point2D, c colorutil.RGB) *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	if background == nil || background.Bounds() != image.Rect(0, 0, e.width, e.height) {
		return nil
	}
	region := e.labelAt(p.ImagePoint())
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

// stroke draws the polyline into an RGBA mat and clips it to the seeded
// region. Must be called with e.mu held.
func (e *Engine) stroke(width float64, c colorutil.RGB) *image.RGBA {
	if len(e.points) == 0 || e.width == 0 || width <= 0 {
		return nil
	}
	mat := gocv.NewMatWithSize(e.height, e.width, gocv.MatTypeCV8UC4)
	defer mat.Close()
	mat.SetTo(gocv.NewScalar(0, 0, 0, 0))

	// gocv passes color.RGBA as BGRA; the mat holds RGBA bytes.
	paint := color.RGBA{R: c.B, G: c.G, B: c.R, A: 0xff}
	thickness := int(math.Max(1, math.Round(width)))
	if len(e.points) == 1 {
		gocv.Circle(&mat, e.points[0], int(math.Max(1, math.Round(width/2))), paint, -1)
	}
	for i := 1; i < len(e.points); i++ {
		gocv.Line(&mat, e.points[i-1], e.points[i], paint, thickness)
	}

	layer := cimage.NewLayer(e.width, e.height)
	copy(layer.Pix, mat.ToBytes())

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
func (e *Engine) labelAt(p image.Point) int32 {
	if p.X < 0 || p.Y < 0 || p.X >= e.width || p.Y >= e.height {
		return 0
	}
	return e.labels[p.Y*e.width+p.X]
}
