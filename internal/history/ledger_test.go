package history

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// entry builds a distinguishable 1x1 entry; the pixel's red channel carries n.
func entry(n int) Entry {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Pix[0] = uint8(n)
	return NewEntry(img, img)
}

func tag(e Entry) int { return int(e.Composite.Pix[0]) }

type recorder struct {
	calls []Navigation
}

func (r *recorder) listen(n Navigation) { r.calls = append(r.calls, n) }

func (r *recorder) last() Navigation { return r.calls[len(r.calls)-1] }

func TestResetSingleEntry(t *testing.T) {
	l := New(DefaultDepth)
	rec := &recorder{}
	l.OnChange(rec.listen)

	l.Reset(entry(0))
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 0, l.Cursor())
	assert.False(t, l.CanStepBack())
	assert.False(t, l.CanStepForward())
	assert.False(t, l.Modified())
	require.Len(t, rec.calls, 1)
	assert.Equal(t, Navigation{}, rec.last())
}

func TestLengthNeverExceedsWindow(t *testing.T) {
	for _, depth := range []int{1, 2, 5, 8} {
		l := New(depth)
		l.Reset(entry(0))
		for i := 1; i <= 40; i++ {
			l.Commit(entry(i))
			require.LessOrEqual(t, l.Len(), l.Window(), "depth %d commit %d", depth, i)
			require.Equal(t, l.Len()-1, l.Cursor(), "cursor at newest after commit")
			cur, ok := l.Current()
			require.True(t, ok)
			require.Equal(t, i, tag(cur), "commit is never trimmed")
		}
		assert.Equal(t, depth+1, l.Len())
		assert.True(t, l.Dropped())
	}
}

func TestCommitTruncatesForward(t *testing.T) {
	l := New(DefaultDepth)
	l.Reset(entry(0))
	for i := 1; i <= 4; i++ {
		l.Commit(entry(i))
	}
	_, ok := l.StepBack()
	require.True(t, ok)
	_, ok = l.StepBack()
	require.True(t, ok)
	c := l.Cursor()
	require.Equal(t, 2, c)

	l.Commit(entry(99))
	assert.Equal(t, c+2, l.Len())
	assert.False(t, l.CanStepForward())
	cur, _ := l.Current()
	assert.Equal(t, 99, tag(cur))
}

func TestDepthOneKeepsFreshCommit(t *testing.T) {
	l := New(1)
	l.Reset(entry(0))
	l.Commit(entry(1))
	l.Commit(entry(2))

	e, ok := l.Current()
	require.True(t, ok)
	assert.Equal(t, 2, tag(e))
	assert.Equal(t, 2, l.Len())
	assert.True(t, l.Dropped())

	require.True(t, l.CanStepBack())
	_, ok = l.StepBack()
	require.True(t, ok)
	l.Commit(entry(3))
	e, _ = l.Current()
	assert.Equal(t, 3, tag(e), "commit after undo survives the back clamp")
	assert.Equal(t, 2, l.Len())
	assert.False(t, l.CanStepForward())
}

func TestStepRoundTrip(t *testing.T) {
	l := New(DefaultDepth)
	l.Reset(entry(0))
	l.Commit(entry(1))
	l.Commit(entry(2))

	before, _ := l.Current()
	_, ok := l.StepBack()
	require.True(t, ok)
	after, ok := l.StepForward()
	require.True(t, ok)
	assert.Same(t, before.Composite, after.Composite)
	assert.Equal(t, before.ID, after.ID)
}

func TestNavigationFlags(t *testing.T) {
	l := New(DefaultDepth)
	rec := &recorder{}
	l.OnChange(rec.listen)

	l.Reset(entry(0))
	l.Commit(entry(1))
	l.Commit(entry(2))
	assert.Equal(t, Navigation{Back: true}, rec.last())

	l.StepBack()
	assert.Equal(t, Navigation{Back: true, Forward: true}, rec.last())
	l.StepBack()
	assert.Equal(t, Navigation{Forward: true}, rec.last())

	for i := 0; i < 3; i++ {
		assert.Equal(t, l.Cursor() != 0, l.CanStepBack())
		assert.Equal(t, l.Cursor() != l.Len()-1, l.CanStepForward())
		l.StepForward()
	}
	assert.Equal(t, Navigation{Back: true}, rec.last())
}

func TestBoundsAreNoOps(t *testing.T) {
	l := New(DefaultDepth)
	_, ok := l.StepBack()
	assert.False(t, ok, "empty ledger")
	_, ok = l.StepForward()
	assert.False(t, ok, "empty ledger")

	l.Reset(entry(0))
	rec := &recorder{}
	l.OnChange(rec.listen)

	_, ok = l.StepBack()
	assert.False(t, ok)
	_, ok = l.StepForward()
	assert.False(t, ok)
	assert.Empty(t, rec.calls, "failed steps do not signal")
	assert.Equal(t, 0, l.Cursor())
}

func TestSixStrokesThenUndo(t *testing.T) {
	l := New(DefaultDepth)
	l.Reset(entry(0))
	for i := 1; i <= 6; i++ {
		l.Commit(entry(i))
	}
	assert.Equal(t, 6, l.Len())
	assert.Equal(t, 5, l.Cursor())
	assert.True(t, l.Dropped())
	assert.True(t, l.Modified())

	for i := 0; i < 5; i++ {
		_, ok := l.StepBack()
		require.True(t, ok)
	}
	assert.Equal(t, 0, l.Cursor())
	assert.False(t, l.CanStepBack())
	assert.True(t, l.Modified(), "dropped history keeps the canvas modified")

	_, ok := l.StepBack()
	assert.False(t, ok)
	assert.Equal(t, 0, l.Cursor())

	cur, _ := l.Current()
	assert.Equal(t, 1, tag(cur), "the loaded state was evicted")

	l.Commit(entry(7))
	assert.Equal(t, 2, l.Len())
	assert.False(t, l.CanStepForward())
	assert.True(t, l.CanStepBack())
}

func TestClear(t *testing.T) {
	l := New(DefaultDepth)
	l.Reset(entry(0))
	l.Commit(entry(1))
	l.Clear()
	assert.Equal(t, 0, l.Len())
	_, ok := l.Current()
	assert.False(t, ok)
	assert.False(t, l.CanStepBack())
	assert.False(t, l.CanStepForward())
}

func TestNewDepthFallback(t *testing.T) {
	assert.Equal(t, DefaultDepth, New(0).Depth())
	assert.Equal(t, 11, New(-3).Window())
}
