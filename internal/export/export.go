// Package export writes canvas images as PNG files or single-page PDFs.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"coloring-canvas/pkg/geometry"

	"github.com/jung-kurt/gofpdf"
)

// A4 page size and margin in millimetres.
const (
	pageWidth  = 210.0
	pageHeight = 297.0
	margin     = 10.0
)

// PNG encodes img as PNG.
func PNG(w io.Writer, img image.Image) error {
	if img == nil {
		return fmt.Errorf("nothing to export")
	}
	return png.Encode(w, img)
}

// PDF writes img onto one A4 page, scaled to fit inside the margins and
// centered. Landscape is used for images wider than tall.
func PDF(w io.Writer, img image.Image, title string) error {
	if img == nil {
		return fmt.Errorf("nothing to export")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode page image: %w", err)
	}

	orientation, pw, ph := "P", pageWidth, pageHeight
	b := img.Bounds()
	if b.Dx() > b.Dy() {
		orientation, pw, ph = "L", pageHeight, pageWidth
	}
	box := geometry.NewSize(pw-2*margin, ph-2*margin)
	r, ok := geometry.FitRect(geometry.SizeOf(b), box)
	if !ok {
		return fmt.Errorf("image has no area")
	}

	p := gofpdf.New(orientation, "mm", "A4", "")
	if title != "" {
		p.SetTitle(title, true)
	}
	p.SetCreator("coloring-canvas", true)
	p.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("page", opts, &buf)
	p.ImageOptions("page", margin+r.X, margin+r.Y, r.Width, r.Height, false, opts, 0, "")
	if err := p.Error(); err != nil {
		return fmt.Errorf("failed to build pdf: %w", err)
	}
	return p.Output(w)
}

// File writes img to path, choosing the format from the extension.
func File(path string, img image.Image) error {
	var write func(io.Writer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		write = func(w io.Writer) error { return PNG(w, img) }
	case ".pdf":
		title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		write = func(w io.Writer) error { return PDF(w, img, title) }
	default:
		return fmt.Errorf("unsupported export format %q", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
