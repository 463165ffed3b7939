package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAspectFit(t *testing.T) {
	tests := []struct {
		name    string
		content Size
		box     Size
		want    Rect
	}{
		{"same size", NewSize(100, 100), NewSize(100, 100), Rect{0, 0, 100, 100}},
		{"letterbox", NewSize(200, 100), NewSize(100, 100), Rect{0, 25, 100, 50}},
		{"pillarbox", NewSize(100, 200), NewSize(100, 100), Rect{25, 0, 50, 100}},
		{"upscale", NewSize(50, 50), NewSize(200, 100), Rect{50, 0, 100, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FitRect(tt.content, tt.box)
			require.True(t, ok)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
			assert.InDelta(t, tt.want.Width, got.Width, 1e-9)
			assert.InDelta(t, tt.want.Height, got.Height, 1e-9)
		})
	}
}

func TestAspectFitEmpty(t *testing.T) {
	_, ok := AspectFit(NewSize(0, 10), NewSize(10, 10))
	assert.False(t, ok)
	_, ok = AspectFit(NewSize(10, 10), Size{})
	assert.False(t, ok)
}

func TestAffineInverseRoundTrip(t *testing.T) {
	fit, ok := AspectFit(NewSize(300, 150), NewSize(640, 480))
	require.True(t, ok)
	inv, ok := fit.Inverse()
	require.True(t, ok)

	p := NewPoint2D(123.5, 77.25)
	back := inv.Apply(fit.Apply(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestPointImagePoint(t *testing.T) {
	assert.Equal(t, 3, NewPoint2D(3.99, -0.5).ImagePoint().X)
	assert.Equal(t, -1, NewPoint2D(3.99, -0.5).ImagePoint().Y)
}
