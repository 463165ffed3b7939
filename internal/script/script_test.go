package script

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coloring-canvas/internal/canvas"
	"coloring-canvas/internal/vision/soft"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const session = `
image: page.png
steps:
  - tool: brush
  - brush: 4
  - color: green
  - stroke: {points: [{x: 2, y: 5}, {x: 6, y: 5}]}
  - stroke: {points: [{x: 2, y: 5}]}
  - stroke: {points: [{x: 2, y: 5}, {x: 6, y: 8}], touches: 2}
  - fill: {x: 15, y: 15}
  - undo: 3
  - redo: 1
  - export: {path: out.png}
  - export: {path: lines.pdf, layer: foreground}
`

// writePage writes a 20x20 white page split by a black line at x=10.
func writePage(t *testing.T, dir string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if x == 10 {
				c = color.RGBA{0, 0, 0, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(filepath.Join(dir, "page.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(session))
	require.NoError(t, err)
	assert.Equal(t, "page.png", s.Image)
	require.Len(t, s.Steps, 11)
	assert.Equal(t, 2, s.Steps[5].Stroke.Touches)
	assert.Equal(t, 15.0, s.Steps[6].Fill.X)
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"empty":       ``,
		"no image":    `steps: []`,
		"two actions": "image: a.png\nsteps:\n  - {undo: 1, redo: 1}",
		"no points":   "image: a.png\nsteps:\n  - stroke: {points: []}",
		"bad layer":   "image: a.png\nsteps:\n  - export: {path: x.png, layer: paint}",
		"unknown key": "image: a.png\nsteps:\n  - spray: 1",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writePage(t, dir)
	s, err := Parse(strings.NewReader(session))
	require.NoError(t, err)

	c := canvas.New(soft.New(), canvas.Options{})
	rep, err := Run(context.Background(), c, s, dir)
	require.NoError(t, err)

	assert.Equal(t, 4, rep.Strokes)
	assert.Equal(t, 2, rep.Commits)
	assert.Equal(t, 2, rep.Undos)
	assert.Equal(t, 1, rep.Redos)
	assert.Equal(t, 3, rep.History)
	assert.Equal(t, 1, rep.Cursor)
	assert.True(t, rep.Modified)
	assert.Equal(t, "brush", c.Tool().String(), "fill restores the previous tool")

	require.Len(t, rep.Exports, 2)
	for _, p := range rep.Exports {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}

	f, err := os.Open(filepath.Join(dir, "out.png"))
	require.NoError(t, err)
	defer f.Close()
	out, err := png.Decode(f)
	require.NoError(t, err)
	r, g, b, _ := out.At(4, 5).RGBA()
	assert.Equal(t, [3]uint32{0x3434, 0xc7c7, 0x5959}, [3]uint32{r, g, b}, "green stroke after redo")
	r, g, b, _ = out.At(15, 15).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b}, "fill was undone")
}

func TestRunMissingImage(t *testing.T) {
	c := canvas.New(soft.New(), canvas.Options{})
	_, err := Run(context.Background(), c, &Script{Image: "nope.png"}, t.TempDir())
	assert.Error(t, err)
	assert.Equal(t, canvas.StateEmpty, c.State())
}
