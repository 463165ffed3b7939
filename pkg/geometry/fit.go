package geometry

import "math"

// AspectFit returns the transform that draws content of size c inside a
// container of size box: uniform scale so the whole content is visible,
// centered on both axes. It reports false when either size is empty.
func AspectFit(c, box Size) (AffineTransform, bool) {
	if c.Empty() || box.Empty() {
		return AffineTransform{}, false
	}
	s := math.Min(box.Width/c.Width, box.Height/c.Height)
	tx := (box.Width - c.Width*s) / 2
	ty := (box.Height - c.Height*s) / 2
	return Translation(tx, ty).Compose(Scale(s, s)), true
}

// FitRect returns where content of size c lands inside box under AspectFit.
func FitRect(c, box Size) (Rect, bool) {
	t, ok := AspectFit(c, box)
	if !ok {
		return Rect{}, false
	}
	return Rect{X: t.TX, Y: t.TY, Width: c.Width * t.A, Height: c.Height * t.D}, true
}
