// Package tool defines the closed set of painting tools.
package tool

import (
	"fmt"
	"strings"
)

// Kind identifies a painting tool.
type Kind int

const (
	Eraser Kind = iota
	Crayon
	Line // Autograph pen
	Brush
	Fill
)

func (k Kind) String() string {
	switch k {
	case Eraser:
		return "eraser"
	case Crayon:
		return "crayon"
	case Line:
		return "line"
	case Brush:
		return "brush"
	case Fill:
		return "fill"
	default:
		return "unknown"
	}
}

// Continuous reports whether the tool paints along a stroke. Fill is one-shot.
func (k Kind) Continuous() bool {
	return k != Fill && k.Valid()
}

// Valid reports whether k is one of the defined tools.
func (k Kind) Valid() bool {
	return k >= Eraser && k <= Fill
}

// All returns every tool in picker order.
func All() []Kind {
	return []Kind{Line, Brush, Crayon, Fill, Eraser}
}

// Parse maps a tool name to its Kind. "autograph" and "pen" are accepted as
// aliases for Line.
func Parse(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eraser":
		return Eraser, nil
	case "crayon":
		return Crayon, nil
	case "line", "autograph", "pen":
		return Line, nil
	case "brush":
		return Brush, nil
	case "fill":
		return Fill, nil
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid tool %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
