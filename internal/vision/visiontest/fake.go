// Package visiontest provides a recording vision engine for tests.
package visiontest

import (
	"image"
	"image/color"
	"sync"

	cimage "coloring-canvas/internal/image"
	"coloring-canvas/internal/tool"
	"coloring-canvas/pkg/colorutil"
	"coloring-canvas/pkg/geometry"
)

// Engine records every call and returns small synthetic layers. Stroke
// layers carry one pixel of the paint color per forwarded point; fills
// paint the whole background.
type Engine struct {
	mu sync.Mutex

	// LoadErr, when set, is returned by LoadSource.
	LoadErr error
	// NoLayer makes the rasterize methods return nil.
	NoLayer bool
	// NoFill makes FloodFill return nil.
	NoFill bool
	// LoadStarted, when set, receives a value as LoadSource starts.
	LoadStarted chan struct{}
	// LoadGate, when set, holds LoadSource until it is closed.
	LoadGate chan struct{}

	width, height int
	points        []geometry.Point2D

	Loads      int
	Seeds      []geometry.Point2D
	Extends    []geometry.Point2D
	Ends       int
	Rasterized map[tool.Kind]int
	Fills      []geometry.Point2D
}

// New returns an empty recording engine.
func New() *Engine {
	return &Engine{Rasterized: map[tool.Kind]int{}}
}

func (e *Engine) LoadSource(src *cimage.Source, threshold int) (*image.RGBA, *image.RGBA, error) {
	if e.LoadStarted != nil {
		e.LoadStarted <- struct{}{}
	}
	if e.LoadGate != nil {
		<-e.LoadGate
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Loads++
	if e.LoadErr != nil {
		return nil, nil, e.LoadErr
	}
	e.width, e.height = src.Width(), src.Height()
	bg := cimage.NewLayer(e.width, e.height)
	for i := range bg.Pix {
		bg.Pix[i] = 0xff
	}
	return bg, cimage.NewLayer(e.width, e.height), nil
}

func (e *Engine) SeedStroke(p geometry.Point2D) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Seeds = append(e.Seeds, p)
	e.points = []geometry.Point2D{p}
}

func (e *Engine) ExtendStroke(p geometry.Point2D) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Extends = append(e.Extends, p)
	e.points = append(e.points, p)
}

func (e *Engine) EndStroke() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Ends++
	e.points = nil
}

func (e *Engine) Erase(size float64) *image.RGBA {
	return e.rasterize(tool.Eraser, colorutil.White)
}

func (e *Engine) Crayon(size float64, c colorutil.RGB) *image.RGBA {
	return e.rasterize(tool.Crayon, c)
}

func (e *Engine) Line(size float64, c colorutil.RGB) *image.RGBA {
	return e.rasterize(tool.Line, c)
}

func (e *Engine) Brush(size float64, c colorutil.RGB) *image.RGBA {
	return e.rasterize(tool.Brush, c)
}

func (e *Engine) FloodFill(background *image.RGBA, p geometry.Point2D, c colorutil.RGB) *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Fills = append(e.Fills, p)
	if e.NoFill || background == nil {
		return nil
	}
	out := cimage.NewLayer(background.Bounds().Dx(), background.Bounds().Dy())
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = c.R, c.G, c.B, 0xff
	}
	return out
}

func (e *Engine) rasterize(k tool.Kind, c colorutil.RGB) *image.RGBA {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Rasterized[k]++
	if e.NoLayer || e.width == 0 {
		return nil
	}
	layer := cimage.NewLayer(e.width, e.height)
	for _, p := range e.points {
		ip := p.ImagePoint()
		layer.SetRGBA(ip.X, ip.Y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	}
	return layer
}

// RasterizeCount returns the total number of rasterize calls.
func (e *Engine) RasterizeCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, v := range e.Rasterized {
		n += v
	}
	return n
}

// SeedCount returns the number of SeedStroke calls.
func (e *Engine) SeedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Seeds)
}

// ExtendCount returns the number of ExtendStroke calls.
func (e *Engine) ExtendCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Extends)
}

// EndCount returns the number of EndStroke calls.
func (e *Engine) EndCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Ends
}

// FillCount returns the number of FloodFill calls.
func (e *Engine) FillCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Fills)
}
