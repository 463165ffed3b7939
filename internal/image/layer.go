// Package image provides source image loading, the two-layer canvas model
// and its compositing.
package image

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Source is a decoded outline image ready for mask extraction.
type Source struct {
	Path  string      // Original file path, empty for in-memory sources
	Image *image.RGBA // Pixels with origin at (0, 0)
}

// NewSource wraps an in-memory image. The pixels are copied so later changes
// to img do not leak into the canvas.
func NewSource(img image.Image) *Source {
	if img == nil {
		return nil
	}
	return &Source{Image: ToRGBA(img)}
}

// Load loads an image from the specified path.
func Load(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	src, err := Decode(file)
	if err != nil {
		return nil, err
	}
	src.Path = path
	return src, nil
}

// Decode reads any registered image format from r.
func Decode(r io.Reader) (*Source, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("failed to decode image: empty bounds")
	}
	return NewSource(img), nil
}

// Width returns the image width in pixels.
func (s *Source) Width() int {
	if s == nil || s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (s *Source) Height() int {
	if s == nil || s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dy()
}

// Stride returns the number of bytes per pixel row.
func (s *Source) Stride() int {
	if s == nil || s.Image == nil {
		return 0
	}
	return s.Image.Stride
}

// Pixels returns the raw RGBA bytes, row-major with Stride bytes per row.
func (s *Source) Pixels() []byte {
	if s == nil || s.Image == nil {
		return nil
	}
	return s.Image.Pix
}

// ToRGBA copies img into a new RGBA image whose bounds start at (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Clone returns a deep copy of img, or nil.
func Clone(img *image.RGBA) *image.RGBA {
	if img == nil {
		return nil
	}
	dst := &image.RGBA{
		Pix:    make([]byte, len(img.Pix)),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	copy(dst.Pix, img.Pix)
	return dst
}

// NewLayer returns a fully transparent layer of the given size.
func NewLayer(width, height int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif", ".bmp", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
