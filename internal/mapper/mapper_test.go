package mapper

import (
	"testing"

	"coloring-canvas/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

func TestMapIdentity(t *testing.T) {
	m := New(geometry.NewSize(100, 100), geometry.NewSize(100, 100))
	got, ok := m.Map(pt(12, 34))
	require.True(t, ok)
	assert.InDelta(t, 12, got.X, 1e-9)
	assert.InDelta(t, 34, got.Y, 1e-9)
}

func TestMapLetterboxed(t *testing.T) {
	// A 200x100 image drawn into a 400x400 view is scaled by 2 and
	// centered vertically with a 100px band above and below.
	m := New(geometry.NewSize(400, 400), geometry.NewSize(200, 100))

	got, ok := m.Map(pt(0, 100))
	require.True(t, ok)
	assert.InDelta(t, 0, got.X, 1e-9)
	assert.InDelta(t, 0, got.Y, 1e-9)

	got, ok = m.Map(pt(400, 300))
	require.True(t, ok)
	assert.InDelta(t, 200, got.X, 1e-9)
	assert.InDelta(t, 100, got.Y, 1e-9)

	got, ok = m.Map(pt(200, 50))
	require.True(t, ok)
	assert.Less(t, got.Y, 0.0)
}

func TestMapEmptySizes(t *testing.T) {
	_, ok := Mapper{}.Map(pt(1, 1))
	assert.False(t, ok)
	assert.Nil(t, Mapper{}.MapAll([]geometry.Point2D{pt(1, 1)}))
}

func TestFilter(t *testing.T) {
	m := New(geometry.NewSize(100, 100), geometry.NewSize(100, 100))
	in := []geometry.Point2D{
		pt(-0.1, 5), pt(5, -1), pt(0, 0), pt(100, 100), pt(100.5, 3), pt(3, 101), pt(50, 50),
	}
	got := m.Filter(in)
	assert.Equal(t, []geometry.Point2D{pt(0, 0), pt(100, 100), pt(50, 50)}, got)
}

func TestMapAllKeepsOrder(t *testing.T) {
	m := New(geometry.NewSize(200, 200), geometry.NewSize(100, 100))
	got := m.MapAll([]geometry.Point2D{pt(20, 20), pt(-10, 0), pt(10, 10), pt(200, 200)})
	require.Len(t, got, 3)
	assert.Equal(t, pt(10, 10), got[0])
	assert.Equal(t, pt(5, 5), got[1])
	assert.Equal(t, pt(100, 100), got[2])
}
