package stroke

import (
	"testing"
	"time"

	"coloring-canvas/internal/tool"
	"coloring-canvas/internal/vision/visiontest"
	"coloring-canvas/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

func newSession() (*Session, *visiontest.Engine, *fakeClock) {
	eng := visiontest.New()
	clk := &fakeClock{t: time.Unix(1000, 0)}
	return New(eng, WithClock(clk.now)), eng, clk
}

type finishes struct {
	calls []tool.Kind
	last  geometry.Point2D
}

func (f *finishes) finish(k tool.Kind, p geometry.Point2D) {
	f.calls = append(f.calls, k)
	f.last = p
}

func TestBeginRequiresSingleTouch(t *testing.T) {
	s, eng, _ := newSession()
	assert.False(t, s.Begin(tool.Brush, pt(1, 1), 2))
	assert.False(t, s.Begin(tool.Brush, pt(1, 1), 0))
	assert.False(t, s.Active())

	f := &finishes{}
	assert.False(t, s.Extend([]geometry.Point2D{pt(2, 2)}, 2))
	assert.False(t, s.End(f.finish))
	assert.Zero(t, eng.SeedCount())
	assert.Zero(t, eng.ExtendCount())
	assert.Zero(t, eng.EndCount(), "an ignored gesture holds nothing")
	assert.Empty(t, f.calls)
}

func TestThrottle(t *testing.T) {
	s, eng, clk := newSession()
	require.True(t, s.Begin(tool.Line, pt(1, 1), 1))
	assert.Equal(t, 1, eng.SeedCount())

	assert.True(t, s.Extend([]geometry.Point2D{pt(2, 2)}, 1), "first move always previews")
	clk.advance(10 * time.Millisecond)
	assert.False(t, s.Extend([]geometry.Point2D{pt(3, 3), pt(4, 4)}, 1))
	clk.advance(10 * time.Millisecond)
	assert.False(t, s.Extend([]geometry.Point2D{pt(5, 5)}, 1))
	clk.advance(s.Interval())
	assert.True(t, s.Extend([]geometry.Point2D{pt(6, 6)}, 1))

	assert.Equal(t, 5, eng.ExtendCount(), "throttling never drops samples")
	last, ok := s.LastPoint()
	require.True(t, ok)
	assert.Equal(t, pt(6, 6), last)
}

func TestFirstMoveAfterBeginPreviewsAgain(t *testing.T) {
	s, _, _ := newSession()
	f := &finishes{}
	require.True(t, s.Begin(tool.Brush, pt(1, 1), 1))
	require.True(t, s.Extend([]geometry.Point2D{pt(2, 2)}, 1))
	s.End(f.finish)

	require.True(t, s.Begin(tool.Brush, pt(1, 1), 1))
	assert.True(t, s.Extend([]geometry.Point2D{pt(2, 2)}, 1), "clock has not moved but a new gesture started")
}

func TestEndWithoutMoveCommitsNothing(t *testing.T) {
	s, eng, _ := newSession()
	f := &finishes{}
	require.True(t, s.Begin(tool.Brush, pt(1, 1), 1))
	assert.False(t, s.End(f.finish))
	assert.Empty(t, f.calls)
	assert.Equal(t, 1, eng.EndCount())
	assert.False(t, s.Active())
}

func TestEndAfterMoveFinishesOnce(t *testing.T) {
	s, eng, _ := newSession()
	f := &finishes{}
	require.True(t, s.Begin(tool.Crayon, pt(1, 1), 1))
	s.Extend([]geometry.Point2D{pt(2, 2), pt(3, 3)}, 1)

	assert.True(t, s.Cancel(f.finish))
	assert.Equal(t, []tool.Kind{tool.Crayon}, f.calls)
	assert.Equal(t, pt(3, 3), f.last)
	assert.Equal(t, 3, eng.ExtendCount(), "last point forwarded once more")
	assert.Equal(t, 1, eng.EndCount())

	assert.False(t, s.End(f.finish), "nothing left to end")
	assert.Equal(t, 1, eng.EndCount())
}

func TestSecondContactAbandons(t *testing.T) {
	s, eng, _ := newSession()
	f := &finishes{}
	require.True(t, s.Begin(tool.Brush, pt(1, 1), 1))
	s.Extend([]geometry.Point2D{pt(2, 2)}, 1)

	assert.False(t, s.Extend([]geometry.Point2D{pt(3, 3)}, 2))
	assert.True(t, s.Abandoned())
	assert.False(t, s.Extend([]geometry.Point2D{pt(4, 4)}, 1), "stays abandoned")
	assert.Equal(t, 1, eng.ExtendCount())

	assert.False(t, s.End(f.finish))
	assert.Empty(t, f.calls)
	assert.Equal(t, 1, eng.EndCount(), "resources still released")
	assert.False(t, s.Abandoned())
}

func TestFillIgnoresExtensions(t *testing.T) {
	s, eng, _ := newSession()
	f := &finishes{}
	require.True(t, s.Begin(tool.Fill, pt(4, 5), 1))
	assert.False(t, s.Extend([]geometry.Point2D{pt(7, 7)}, 1))
	assert.Zero(t, eng.SeedCount())
	assert.Zero(t, eng.ExtendCount())

	assert.True(t, s.End(f.finish))
	assert.Equal(t, []tool.Kind{tool.Fill}, f.calls)
	assert.Equal(t, pt(4, 5), f.last)
}

func TestCancelledFillDoesNotFinish(t *testing.T) {
	s, eng, _ := newSession()
	f := &finishes{}
	require.True(t, s.Begin(tool.Fill, pt(4, 5), 1))

	assert.False(t, s.Cancel(f.finish))
	assert.Empty(t, f.calls)
	assert.False(t, s.Active())
	assert.Equal(t, 1, eng.EndCount())
}

func TestAbortReleasesWithoutFinish(t *testing.T) {
	s, eng, _ := newSession()
	require.True(t, s.Begin(tool.Line, pt(1, 1), 1))
	s.Extend([]geometry.Point2D{pt(2, 2)}, 1)
	s.Abort()
	assert.False(t, s.Active())
	assert.Equal(t, 1, eng.EndCount())
	s.Abort()
	assert.Equal(t, 1, eng.EndCount())
}

func TestBeginWhileActiveAbortsPrevious(t *testing.T) {
	s, eng, _ := newSession()
	require.True(t, s.Begin(tool.Line, pt(1, 1), 1))
	require.True(t, s.Begin(tool.Brush, pt(2, 2), 1))
	assert.Equal(t, 1, eng.EndCount())
	assert.Equal(t, 2, eng.SeedCount())
	assert.Equal(t, tool.Brush, s.Tool())
}

func TestWithFPS(t *testing.T) {
	s := New(visiontest.New(), WithFPS(10))
	assert.Equal(t, 100*time.Millisecond, s.Interval())
	s = New(visiontest.New(), WithFPS(0))
	assert.Equal(t, time.Second/DefaultFPS, s.Interval())
}
