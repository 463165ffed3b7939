// Package config loads the canvas configuration file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"coloring-canvas/internal/canvas"
	"coloring-canvas/internal/history"
	"coloring-canvas/internal/stroke"
	"coloring-canvas/internal/tool"
	"coloring-canvas/internal/vision"
	"coloring-canvas/pkg/colorutil"
)

// AppName names the per-user configuration directory.
const AppName = "coloring-canvas"

// Engine names accepted in the config file.
const (
	EngineSoft = "soft"
	EngineCV   = "cv"
)

// Config holds canvas configuration.
type Config struct {
	// HistoryDepth is the number of undo steps kept (K).
	HistoryDepth int `json:"history_depth"`

	// PreviewFPS limits how often a stroke preview is recomposed.
	PreviewFPS float64 `json:"preview_fps"`

	// Threshold is the gray level below which a pixel is line art (0-255).
	Threshold int `json:"threshold"`

	// BrushSize is the initial stroke size.
	BrushSize float64 `json:"brush_size"`

	// Tool is the initial tool name ("line", "brush", "crayon", "fill", "eraser").
	Tool string `json:"tool"`

	// Color is the initial paint color, a palette name or #rrggbb.
	Color string `json:"color"`

	// Engine selects the vision engine: "soft" (pure Go) or "cv" (OpenCV).
	Engine string `json:"engine"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		HistoryDepth: history.DefaultDepth,
		PreviewFPS:   stroke.DefaultFPS,
		Threshold:    vision.DefaultThreshold,
		BrushSize:    canvas.DefaultBrushSize,
		Tool:         canvas.DefaultTool.String(),
		Color:        canvas.DefaultColor.Hex(),
		Engine:       EngineSoft,
		LogLevel:     "info",
	}
}

// Dir returns the per-user configuration directory.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// Load loads configuration from baseDir/config.json. Returns the default
// config if the file doesn't exist.
func Load(baseDir string) (*Config, error) {
	return LoadFile(filepath.Join(baseDir, "config.json"))
}

// LoadFile loads configuration from a specific file, merged over defaults,
// and validates the result.
func LoadFile(path string) (*Config, error) {
	overlay, err := loadFileRaw(path)
	if err != nil {
		return nil, err
	}
	cfg := Merge(DefaultConfig(), overlay)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// loadFileRaw returns a zero config if the file doesn't exist.
func loadFileRaw(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to baseDir/config.json.
func (c *Config) Save(baseDir string) error {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(baseDir, "config.json"), data, 0o644)
}

// Merge combines base and overlay configs. Non-zero overlay values win.
func Merge(base, overlay *Config) *Config {
	result := *base
	if overlay.HistoryDepth != 0 {
		result.HistoryDepth = overlay.HistoryDepth
	}
	if overlay.PreviewFPS != 0 {
		result.PreviewFPS = overlay.PreviewFPS
	}
	if overlay.Threshold != 0 {
		result.Threshold = overlay.Threshold
	}
	if overlay.BrushSize != 0 {
		result.BrushSize = overlay.BrushSize
	}
	if overlay.Tool != "" {
		result.Tool = overlay.Tool
	}
	if overlay.Color != "" {
		result.Color = overlay.Color
	}
	if overlay.Engine != "" {
		result.Engine = overlay.Engine
	}
	if overlay.LogLevel != "" {
		result.LogLevel = overlay.LogLevel
	}
	return &result
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.HistoryDepth < 1 {
		return fmt.Errorf("history_depth must be at least 1, got %d", c.HistoryDepth)
	}
	if c.PreviewFPS <= 0 {
		return fmt.Errorf("preview_fps must be positive, got %g", c.PreviewFPS)
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		return fmt.Errorf("threshold must be 0-255, got %d", c.Threshold)
	}
	if c.BrushSize <= 0 {
		return fmt.Errorf("brush_size must be positive, got %g", c.BrushSize)
	}
	if _, err := tool.Parse(c.Tool); err != nil {
		return err
	}
	if _, err := colorutil.Parse(c.Color); err != nil {
		return err
	}
	switch c.Engine {
	case EngineSoft, EngineCV:
	default:
		return fmt.Errorf("unknown engine %q", c.Engine)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return l, nil
}

// CanvasOptions converts the config into controller options.
func (c *Config) CanvasOptions() (canvas.Options, error) {
	k, err := tool.Parse(c.Tool)
	if err != nil {
		return canvas.Options{}, err
	}
	col, err := colorutil.Parse(c.Color)
	if err != nil {
		return canvas.Options{}, err
	}
	return canvas.Options{
		Depth:     c.HistoryDepth,
		FPS:       c.PreviewFPS,
		Threshold: c.Threshold,
		Tool:      &k,
		BrushSize: c.BrushSize,
		Color:     &col,
	}, nil
}
