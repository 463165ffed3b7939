// Package mapper converts display-surface coordinates into image pixel
// coordinates under the aspect-fit transform used to draw the canvas.
package mapper

import (
	"coloring-canvas/pkg/geometry"
)

// Mapper maps points from a display of the given size onto an image of the
// given size. The zero Mapper maps nothing.
type Mapper struct {
	Display geometry.Size
	Image   geometry.Size
}

// New creates a Mapper.
func New(display, img geometry.Size) Mapper {
	return Mapper{Display: display, Image: img}
}

// Map converts a raw display point to image space. It reports false when
// the display or image size is empty.
func (m Mapper) Map(raw geometry.Point2D) (geometry.Point2D, bool) {
	fit, ok := geometry.AspectFit(m.Image, m.Display)
	if !ok {
		return geometry.Point2D{}, false
	}
	inv, ok := fit.Inverse()
	if !ok {
		return geometry.Point2D{}, false
	}
	return inv.Apply(raw), true
}

// Inside reports whether an image-space point lies on the paintable area.
// The far edges are inclusive.
func (m Mapper) Inside(p geometry.Point2D) bool {
	if p.X < 0 || p.Y < 0 {
		return false
	}
	return p.X <= m.Image.Width && p.Y <= m.Image.Height
}

// Filter drops image-space points outside the paintable area, keeping the
// order of the rest.
func (m Mapper) Filter(points []geometry.Point2D) []geometry.Point2D {
	out := make([]geometry.Point2D, 0, len(points))
	for _, p := range points {
		if m.Inside(p) {
			out = append(out, p)
		}
	}
	return out
}

// MapAll maps every raw point and filters the result.
func (m Mapper) MapAll(raw []geometry.Point2D) []geometry.Point2D {
	fit, ok := geometry.AspectFit(m.Image, m.Display)
	if !ok {
		return nil
	}
	inv, ok := fit.Inverse()
	if !ok {
		return nil
	}
	out := make([]geometry.Point2D, 0, len(raw))
	for _, r := range raw {
		if p := inv.Apply(r); m.Inside(p) {
			out = append(out, p)
		}
	}
	return out
}
