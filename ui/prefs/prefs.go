// Package prefs stores GUI preferences that outlive a session: the last
// directory browsed and the tool settings in use when the window closed.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"coloring-canvas/internal/config"
	"coloring-canvas/internal/tool"
	"coloring-canvas/pkg/colorutil"
)

const prefsFile = "preferences.json"

// Keys.
const (
	KeyLastDir   = "last_dir"
	KeyTool      = "tool"
	KeyColor     = "color"
	KeyBrushSize = "brush_size"
)

// Prefs is a JSON key-value store.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// Load reads preferences from the user config directory. A missing or
// unreadable file yields empty preferences.
func Load() *Prefs {
	dir, err := config.Dir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config", config.AppName)
	}
	return Open(dir)
}

// Open reads preferences from dir/preferences.json.
func Open(dir string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   filepath.Join(dir, prefsFile),
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.values)
	return p
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// Float returns a float64 preference, or fallback if not set.
func (p *Prefs) Float(key string, fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if n, ok := p.values[key].(float64); ok {
		return n
	}
	return fallback
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.set(key, val)
}

// String returns a string preference, or "" if not set.
func (p *Prefs) String(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, _ := p.values[key].(string)
	return s
}

// SetString stores a string preference.
func (p *Prefs) SetString(key, val string) {
	p.set(key, val)
}

func (p *Prefs) set(key string, val interface{}) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Tool returns the remembered tool, or fallback.
func (p *Prefs) Tool(fallback tool.Kind) tool.Kind {
	k, err := tool.Parse(p.String(KeyTool))
	if err != nil {
		return fallback
	}
	return k
}

// SetTool remembers the tool.
func (p *Prefs) SetTool(k tool.Kind) {
	p.SetString(KeyTool, k.String())
}

// Color returns the remembered paint color, or fallback.
func (p *Prefs) Color(fallback colorutil.RGB) colorutil.RGB {
	c, err := colorutil.Parse(p.String(KeyColor))
	if err != nil {
		return fallback
	}
	return c
}

// SetColor remembers the paint color.
func (p *Prefs) SetColor(c colorutil.RGB) {
	p.SetString(KeyColor, c.Hex())
}

// BrushSize returns the remembered brush size, or fallback.
func (p *Prefs) BrushSize(fallback float64) float64 {
	if v := p.Float(KeyBrushSize, fallback); v > 0 {
		return v
	}
	return fallback
}

// SetBrushSize remembers the brush size.
func (p *Prefs) SetBrushSize(size float64) {
	p.SetFloat(KeyBrushSize, size)
}
