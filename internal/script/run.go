package script

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"coloring-canvas/internal/canvas"
	"coloring-canvas/internal/export"
	cimage "coloring-canvas/internal/image"
	"coloring-canvas/internal/tool"
	"coloring-canvas/pkg/colorutil"
	"coloring-canvas/pkg/geometry"
)

// Report summarizes a replay.
type Report struct {
	Strokes  int      // Gestures replayed
	Commits  int      // Gestures that recorded a history entry
	Undos    int      // Successful undo steps
	Redos    int      // Successful redo steps
	Exports  []string // Files written
	History  int      // Entries retained at the end
	Cursor   int
	Modified bool
}

// Run loads the script's image into c and replays every step. Relative
// paths are resolved against baseDir.
func Run(ctx context.Context, c *canvas.Controller, s *Script, baseDir string) (*Report, error) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}

	src, err := cimage.Load(resolve(s.Image))
	if err != nil {
		return nil, err
	}
	var saved image.Image
	if s.Resume != "" {
		prev, err := cimage.Load(resolve(s.Resume))
		if err != nil {
			return nil, fmt.Errorf("resume: %w", err)
		}
		saved = prev.Image
	}
	if err := c.LoadImage(ctx, src, saved); err != nil {
		return nil, err
	}
	if s.Display != nil {
		c.SetDisplaySize(s.Display.Width, s.Display.Height)
	}

	rep := &Report{}
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if err := step(c, st, rep, resolve); err != nil {
			return rep, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	rep.History = c.HistoryLen()
	rep.Cursor = c.HistoryCursor()
	rep.Modified = c.Modified()
	return rep, nil
}

func step(c *canvas.Controller, st Step, rep *Report, resolve func(string) string) error {
	switch {
	case st.Tool != "":
		k, err := tool.Parse(st.Tool)
		if err != nil {
			return err
		}
		c.SetTool(k)

	case st.Color != "":
		col, err := colorutil.Parse(st.Color)
		if err != nil {
			return err
		}
		c.SetColor(col.RGBA())

	case st.Brush != 0:
		if !c.SetBrushSize(st.Brush) {
			return fmt.Errorf("invalid brush size %g", st.Brush)
		}

	case st.Stroke != nil:
		rep.Strokes++
		if gesture(c, st.Stroke) {
			rep.Commits++
		}

	case st.Fill != nil:
		prev := c.Tool()
		c.SetTool(tool.Fill)
		rep.Strokes++
		if gesture(c, &Stroke{Points: []geometry.Point2D{*st.Fill}}) {
			rep.Commits++
		}
		c.SetTool(prev)

	case st.Undo != 0:
		for i := 0; i < st.Undo && c.Undo(); i++ {
			rep.Undos++
		}

	case st.Redo != 0:
		for i := 0; i < st.Redo && c.Redo(); i++ {
			rep.Redos++
		}

	case st.Export != nil:
		var img image.Image
		switch st.Export.Layer {
		case LayerBackground:
			img = c.Background()
		case LayerForeground:
			img = c.Foreground()
		default:
			img = c.Composite()
		}
		path := resolve(st.Export.Path)
		if err := export.File(path, img); err != nil {
			return err
		}
		rep.Exports = append(rep.Exports, path)
	}
	return nil
}

// gesture plays one stroke: the first point begins it, every later point is
// a separate move. It reports whether a history entry was recorded.
func gesture(c *canvas.Controller, s *Stroke) bool {
	touches := s.Touches
	if touches == 0 {
		touches = 1
	}
	ev := func(p geometry.Point2D) canvas.TouchEvent {
		return canvas.TouchEvent{Points: []geometry.Point2D{p}, Touches: touches}
	}
	c.TouchesBegan(ev(s.Points[0]))
	for _, p := range s.Points[1:] {
		c.TouchesMoved(ev(p))
	}
	last := ev(s.Points[len(s.Points)-1])
	if s.Cancel {
		return c.TouchesCancelled(last)
	}
	return c.TouchesEnded(last)
}
