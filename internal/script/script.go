// Package script replays recorded coloring sessions described in YAML
// against a canvas controller.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"coloring-canvas/pkg/geometry"

	"gopkg.in/yaml.v3"
)

// Script is one replayable session.
type Script struct {
	Image   string         `yaml:"image"`
	Resume  string         `yaml:"resume,omitempty"`
	Display *geometry.Size `yaml:"display,omitempty"`
	Steps   []Step         `yaml:"steps"`
}

// Step is a single action. Exactly one field is set.
type Step struct {
	Tool   string            `yaml:"tool,omitempty"`
	Color  string            `yaml:"color,omitempty"`
	Brush  float64           `yaml:"brush,omitempty"`
	Stroke *Stroke           `yaml:"stroke,omitempty"`
	Fill   *geometry.Point2D `yaml:"fill,omitempty"`
	Undo   int               `yaml:"undo,omitempty"`
	Redo   int               `yaml:"redo,omitempty"`
	Export *Export           `yaml:"export,omitempty"`
}

// Stroke is one gesture in display coordinates.
type Stroke struct {
	Points  []geometry.Point2D `yaml:"points"`
	Touches int                `yaml:"touches,omitempty"` // Defaults to 1
	Cancel  bool               `yaml:"cancel,omitempty"`
}

// Layer names accepted by Export.
const (
	LayerComposite  = "composite"
	LayerBackground = "background"
	LayerForeground = "foreground"
)

// Export writes one layer to a PNG or PDF file.
type Export struct {
	Path  string `yaml:"path"`
	Layer string `yaml:"layer,omitempty"` // Defaults to composite
}

// Load reads a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes and validates a script.
func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty script")
		}
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that the script names an image and every step does
// exactly one thing.
func (s *Script) Validate() error {
	if s.Image == "" {
		return fmt.Errorf("script has no image")
	}
	for i, st := range s.Steps {
		n := 0
		for _, set := range []bool{
			st.Tool != "", st.Color != "", st.Brush != 0, st.Stroke != nil,
			st.Fill != nil, st.Undo != 0, st.Redo != 0, st.Export != nil,
		} {
			if set {
				n++
			}
		}
		if n != 1 {
			return fmt.Errorf("step %d: expected exactly one action, got %d", i+1, n)
		}
		if st.Stroke != nil && len(st.Stroke.Points) == 0 {
			return fmt.Errorf("step %d: stroke has no points", i+1)
		}
		if st.Export != nil {
			switch st.Export.Layer {
			case "", LayerComposite, LayerBackground, LayerForeground:
			default:
				return fmt.Errorf("step %d: unknown layer %q", i+1, st.Export.Layer)
			}
			if st.Export.Path == "" {
				return fmt.Errorf("step %d: export has no path", i+1)
			}
		}
		if st.Undo < 0 || st.Redo < 0 {
			return fmt.Errorf("step %d: negative count", i+1)
		}
	}
	return nil
}
