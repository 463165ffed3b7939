package image

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := NewLayer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// lineArt draws a black vertical line at column x on a transparent layer.
func lineArt(w, h, x int) *image.RGBA {
	img := NewLayer(w, h)
	for y := 0; y < h; y++ {
		img.SetRGBA(x, y, black)
	}
	return img
}

func TestCompositeForegroundOnTop(t *testing.T) {
	bg := solid(4, 4, red)
	fg := lineArt(4, 4, 1)

	out := Composite(bg, fg)
	require.NotNil(t, out)
	assert.Equal(t, black, out.RGBAAt(1, 2))
	assert.Equal(t, red, out.RGBAAt(0, 2))
	assert.Equal(t, red, bg.RGBAAt(1, 2), "background must not be modified")
}

func TestMergeSizeMismatch(t *testing.T) {
	assert.Nil(t, Merge(solid(4, 4, red), solid(3, 4, red)))
	assert.Nil(t, Merge(nil, solid(3, 4, red)))
	assert.Nil(t, NewLayers(solid(4, 4, white), lineArt(5, 4, 0)))
}

func TestMergeHalfAlpha(t *testing.T) {
	bg := solid(1, 1, white)
	top := NewLayer(1, 1)
	top.SetRGBA(0, 0, color.RGBA{0, 0, 0, 128}) // premultiplied 50% black
	out := Merge(bg, top)
	require.NotNil(t, out)
	px := out.RGBAAt(0, 0)
	assert.InDelta(t, 127, int(px.R), 1)
	assert.Equal(t, uint8(255), px.A)
}

func TestLayersPreviewDoesNotCommit(t *testing.T) {
	layers := NewLayers(solid(4, 4, white), lineArt(4, 4, 3))
	require.NotNil(t, layers)
	before := layers.Background()

	stroke := NewLayer(4, 4)
	stroke.SetRGBA(0, 0, red)

	preview := layers.Preview(stroke)
	require.NotNil(t, preview)
	assert.Equal(t, red, preview.RGBAAt(0, 0))
	assert.Same(t, before, layers.Background())
	assert.Equal(t, white, layers.Background().RGBAAt(0, 0))
}

func TestLayersCommitReplacesBackground(t *testing.T) {
	layers := NewLayers(solid(4, 4, white), lineArt(4, 4, 3))
	require.NotNil(t, layers)
	old := layers.Background()

	stroke := NewLayer(4, 4)
	stroke.SetRGBA(3, 0, red)
	bg, comp := layers.Commit(stroke)
	require.NotNil(t, bg)
	require.NotNil(t, comp)

	assert.Same(t, bg, layers.Background())
	assert.Equal(t, red, bg.RGBAAt(3, 0))
	assert.Equal(t, black, comp.RGBAAt(3, 0), "line art stays on top of paint")
	assert.Equal(t, white, old.RGBAAt(3, 0), "previous background is never mutated")
}

func TestLayersReplaceRejectsMismatch(t *testing.T) {
	layers := NewLayers(solid(4, 4, white), lineArt(4, 4, 3))
	bg, comp := layers.Replace(solid(2, 2, red))
	assert.Nil(t, bg)
	assert.Nil(t, comp)
	assert.Equal(t, white, layers.Background().RGBAAt(0, 0))
}

func TestLoadAndDecode(t *testing.T) {
	img := solid(8, 6, red)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "outline.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	src, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, src.Path)
	assert.Equal(t, 8, src.Width())
	assert.Equal(t, 6, src.Height())
	assert.Equal(t, 8*4, src.Stride())
	assert.Len(t, src.Pixels(), 8*6*4)

	_, err = Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	_, err = Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestToRGBANormalizesOrigin(t *testing.T) {
	sub := solid(10, 10, red).SubImage(image.Rect(2, 3, 6, 8))
	out := ToRGBA(sub)
	assert.Equal(t, image.Rect(0, 0, 4, 5), out.Bounds())
	assert.Equal(t, red, out.RGBAAt(0, 0))
}

func TestFitInto(t *testing.T) {
	out := FitInto(solid(10, 5, red), 20, 20, white)
	assert.Equal(t, white, out.RGBAAt(10, 2), "letterbox margin")
	assert.Equal(t, red, out.RGBAAt(10, 10))
}

func TestIsSupportedFormat(t *testing.T) {
	assert.True(t, IsSupportedFormat("a/b/page.PNG"))
	assert.True(t, IsSupportedFormat("scan.tif"))
	assert.False(t, IsSupportedFormat("notes.txt"))
}
