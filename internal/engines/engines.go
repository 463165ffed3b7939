// Package engines constructs vision engines by configured name.
package engines

import (
	"fmt"

	"coloring-canvas/internal/config"
	"coloring-canvas/internal/vision"
	"coloring-canvas/internal/vision/cv"
	"coloring-canvas/internal/vision/soft"
)

// Names lists the available engines.
func Names() []string {
	return []string{config.EngineSoft, config.EngineCV}
}

// New returns the engine called name.
func New(name string) (vision.Engine, error) {
	switch name {
	case config.EngineSoft, "":
		return soft.New(), nil
	case config.EngineCV:
		return cv.New(), nil
	}
	return nil, fmt.Errorf("unknown engine %q", name)
}
