package image

import (
	"image"

	"golang.org/x/image/draw"
)

// Merge draws top over a copy of bottom using normal alpha blending. Both
// images must have identical bounds; otherwise Merge returns nil.
func Merge(bottom, top *image.RGBA) *image.RGBA {
	if bottom == nil || top == nil || bottom.Bounds() != top.Bounds() {
		return nil
	}
	dst := Clone(bottom)
	draw.Draw(dst, dst.Bounds(), top, top.Bounds().Min, draw.Over)
	return dst
}

// Composite produces the displayed image: background first, foreground on
// top.
func Composite(background, foreground *image.RGBA) *image.RGBA {
	return Merge(background, foreground)
}

// PreviewMerge layers a transient stroke between background and foreground.
// Neither input is modified.
func PreviewMerge(background, stroke, foreground *image.RGBA) *image.RGBA {
	painted := Merge(background, stroke)
	if painted == nil {
		return nil
	}
	return Composite(painted, foreground)
}

// CommitMerge returns the background with the stroke painted into it.
func CommitMerge(background, stroke *image.RGBA) *image.RGBA {
	return Merge(background, stroke)
}

// Layers holds the fixed foreground (line art) and the current background
// (paint). Neither image is ever written in place: every change swaps in a
// new background.
type Layers struct {
	foreground *image.RGBA
	background *image.RGBA
}

// NewLayers creates a layer pair. It returns nil when the layers are missing
// or their sizes differ.
func NewLayers(background, foreground *image.RGBA) *Layers {
	if background == nil || foreground == nil || background.Bounds() != foreground.Bounds() {
		return nil
	}
	return &Layers{foreground: foreground, background: background}
}

// Foreground returns the line-art layer.
func (l *Layers) Foreground() *image.RGBA { return l.foreground }

// Background returns the current paint layer.
func (l *Layers) Background() *image.RGBA { return l.background }

// Bounds returns the shared bounds of both layers.
func (l *Layers) Bounds() image.Rectangle { return l.foreground.Bounds() }

// Composite blends the current background with the foreground.
func (l *Layers) Composite() *image.RGBA {
	return Composite(l.background, l.foreground)
}

// Preview returns the composite with a transient stroke layered in. The
// stored background is untouched.
func (l *Layers) Preview(stroke *image.RGBA) *image.RGBA {
	return PreviewMerge(l.background, stroke, l.foreground)
}

// Commit paints the stroke into the background and returns the new
// background and composite. On size mismatch nothing changes and both
// results are nil.
func (l *Layers) Commit(stroke *image.RGBA) (background, composite *image.RGBA) {
	bg := CommitMerge(l.background, stroke)
	if bg == nil {
		return nil, nil
	}
	return l.Replace(bg)
}

// Replace installs a whole new background, as produced by a flood fill or
// restored from history.
func (l *Layers) Replace(background *image.RGBA) (*image.RGBA, *image.RGBA) {
	if background == nil || background.Bounds() != l.foreground.Bounds() {
		return nil, nil
	}
	composite := Composite(background, l.foreground)
	l.background = background
	return background, composite
}
