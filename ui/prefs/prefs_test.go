package prefs

import (
	"testing"

	"coloring-canvas/internal/tool"
	"coloring-canvas/pkg/colorutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbacks(t *testing.T) {
	p := Open(t.TempDir())
	assert.Equal(t, tool.Brush, p.Tool(tool.Brush))
	assert.Equal(t, colorutil.Green, p.Color(colorutil.Green))
	assert.Equal(t, 50.0, p.BrushSize(50))
	assert.Empty(t, p.String(KeyLastDir))
}

func TestSaveAndReopen(t *testing.T) {
	dir := t.TempDir()
	p := Open(dir)
	p.SetTool(tool.Crayon)
	p.SetColor(colorutil.Purple)
	p.SetBrushSize(22)
	p.SetString(KeyLastDir, "/tmp/pages")
	require.NoError(t, p.Save())

	q := Open(dir)
	assert.Equal(t, tool.Crayon, q.Tool(tool.Line))
	assert.Equal(t, colorutil.Purple, q.Color(colorutil.Red))
	assert.Equal(t, 22.0, q.BrushSize(50))
	assert.Equal(t, "/tmp/pages", q.String(KeyLastDir))
}

func TestInvalidStoredValues(t *testing.T) {
	p := Open(t.TempDir())
	p.SetString(KeyTool, "spray")
	p.SetString(KeyColor, "nope")
	p.SetBrushSize(-1)
	assert.Equal(t, tool.Line, p.Tool(tool.Line))
	assert.Equal(t, colorutil.Red, p.Color(colorutil.Red))
	assert.Equal(t, 50.0, p.BrushSize(50))
}
