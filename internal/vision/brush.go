package vision

// Stroke width factors relative to the brush size, shared by the engines so
// both render a tool at the same scale.
const (
	LineWidth   = 0.25
	CrayonWidth = 0.6
	BrushWidth  = 1.0
	EraserWidth = 1.0
)

// CrayonGrain is the fraction of pixels a crayon stroke leaves unpainted.
const CrayonGrain = 0.3

// Grain is a deterministic per-pixel hash in [0, 1) used for crayon texture.
func Grain(x, y int) float64 {
	h := uint32(x)*374761393 + uint32(y)*668265263
	h = (h ^ (h >> 13)) * 1274126177
	h ^= h >> 16
	return float64(h&0xffff) / 0x10000
}
