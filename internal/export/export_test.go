package export

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

func page(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetRGBA(1, 1, color.RGBA{255, 0, 0, 255})
	return img
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, page(4, 3)))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())

	assert.Error(t, PNG(&buf, nil))
}

func TestPDF(t *testing.T) {
	for _, size := range []image.Point{{40, 60}, {80, 20}} {
		var buf bytes.Buffer
		require.NoError(t, PDF(&buf, page(size.X, size.Y), "page"))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	}
	assert.Error(t, PDF(&bytes.Buffer{}, nil, ""))
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.png", "out.PDF"} {
		path := filepath.Join(dir, name)
		require.NoError(t, File(path, page(10, 10)))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}
	assert.Error(t, File(filepath.Join(dir, "out.gif"), page(10, 10)))
}
