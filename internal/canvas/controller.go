// Package canvas is the coloring-book canvas controller. It turns touch
// events into strokes and fills, keeps the line-art and paint layers and
// records every committed state in a bounded undo history.
package canvas

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"coloring-canvas/internal/history"
	cimage "coloring-canvas/internal/image"
	"coloring-canvas/internal/mapper"
	"coloring-canvas/internal/stroke"
	"coloring-canvas/internal/tool"
	"coloring-canvas/internal/vision"
	"coloring-canvas/pkg/colorutil"
	"coloring-canvas/pkg/geometry"
)

// Defaults for a new controller.
const (
	DefaultBrushSize = 50.0
	DefaultTool      = tool.Line
)

// DefaultColor is the initial paint color.
var DefaultColor = colorutil.Red

// State is the controller's lifecycle state.
type State int

const (
	StateEmpty    State = iota // No image loaded
	StateReady                 // Image loaded, no gesture in progress
	StateStroking              // Continuous stroke in progress
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateReady:
		return "ready"
	case StateStroking:
		return "stroking"
	default:
		return "unknown"
	}
}

// TouchEvent is one batch of raw display-space touch samples. Touches is
// the number of contacts currently down.
type TouchEvent struct {
	Points  []geometry.Point2D
	Touches int
}

// Options configures a Controller. Zero fields take their defaults.
type Options struct {
	Depth     int              // History steps kept on each side of the cursor
	FPS       float64          // Preview refresh limit
	Threshold int              // Line-art gray threshold; 0 means the default
	Clock     func() time.Time // Preview throttle clock
	Tool      *tool.Kind
	BrushSize float64
	Color     *colorutil.RGB
}

// Controller owns the canvas. Every exported method except LoadImage holds
// the controller lock for its full duration; events are delivered after it
// is released.
type Controller struct {
	mu     sync.Mutex
	loadMu sync.Mutex // Serializes LoadImage

	engine  vision.Engine
	session *stroke.Session
	ledger  *history.Ledger

	source  *cimage.Source
	layers  *cimage.Layers
	display *image.RGBA
	size    geometry.Size // Display surface, empty means identity mapping
	state   State

	tool      tool.Kind
	brushSize float64
	color     colorutil.RGB
	threshold int

	committed bool // Set by finish during the current End
	loading   bool // Engine is extracting a new image

	listenersMu sync.RWMutex
	listeners   map[EventType][]EventListener
	pending     []event
}

// New creates an empty controller backed by engine.
func New(engine vision.Engine, opts Options) *Controller {
	var sopts []stroke.Option
	if opts.Clock != nil {
		sopts = append(sopts, stroke.WithClock(opts.Clock))
	}
	sopts = append(sopts, stroke.WithFPS(opts.FPS))

	c := &Controller{
		engine:    engine,
		session:   stroke.New(engine, sopts...),
		ledger:    history.New(opts.Depth),
		tool:      DefaultTool,
		brushSize: DefaultBrushSize,
		color:     DefaultColor,
		threshold: vision.DefaultThreshold,
		listeners: make(map[EventType][]EventListener),
	}
	if opts.Tool != nil && opts.Tool.Valid() {
		c.tool = *opts.Tool
	}
	if opts.BrushSize > 0 {
		c.brushSize = opts.BrushSize
	}
	if opts.Color != nil {
		c.color = *opts.Color
	}
	if opts.Threshold > 0 && opts.Threshold <= 255 {
		c.threshold = opts.Threshold
	}

	// Ledger mutations only happen under c.mu.
	c.ledger.OnChange(func(n history.Navigation) {
		c.queue(EventBackwardEnabled, n.Back)
		c.queue(EventForwardEnabled, n.Forward)
	})
	return c
}

// LoadImage installs a new outline image. The engine extracts the line art
// and the initial background; when saved is non-nil and matches the image
// size it is used as the background instead, resuming earlier work. On
// error the previous canvas is left as it was.
//
// Extraction runs without the controller lock, so the display and gestures
// stay responsive. New gestures are ignored until the load finishes, and a
// stroke in progress when it starts is dropped. Loads are serialized.
func (c *Controller) LoadImage(ctx context.Context, src *cimage.Source, saved image.Image) error {
	if src == nil || src.Image == nil || src.Width() == 0 || src.Height() == 0 {
		return ErrNoImage
	}
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCanceled, err)
	}
	prev := c.beginLoad()
	defer c.endLoad()

	bg, fg, err := c.engine.LoadSource(src, c.threshold)
	if err != nil {
		c.restoreEngine(prev)
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}
	if saved != nil {
		resumed := cimage.ToRGBA(saved)
		if resumed.Bounds() == bg.Bounds() {
			bg = resumed
		} else {
			Logger().Warn("saved background ignored",
				"saved", resumed.Bounds().Size(), "image", bg.Bounds().Size())
		}
	}
	layers := cimage.NewLayers(bg, fg)
	if layers == nil {
		c.restoreEngine(prev)
		return fmt.Errorf("%w: layer sizes differ", ErrEngine)
	}
	composite := layers.Composite()

	c.mu.Lock()
	if err := ctx.Err(); err != nil {
		c.unlock()
		c.restoreEngine(prev)
		return fmt.Errorf("%w: %v", ErrCanceled, err)
	}
	defer c.unlock()

	c.session.Abort()
	c.source = src
	c.layers = layers
	c.display = composite
	c.state = StateReady
	c.ledger.Reset(history.NewEntry(bg, composite))

	Logger().Info("image loaded", "path", src.Path, "width", src.Width(), "height", src.Height(), "resumed", saved != nil)
	c.queue(EventImageLoaded, layers.Bounds())
	c.queue(EventDisplayChanged, composite)
	return nil
}

// beginLoad drops any stroke in progress and blocks new gestures while the
// engine is busy. It returns the source to restore if the load fails.
func (c *Controller) beginLoad() *cimage.Source {
	c.mu.Lock()
	defer c.unlock()
	c.resetStroke()
	c.loading = true
	return c.source
}

func (c *Controller) endLoad() {
	c.mu.Lock()
	defer c.unlock()
	c.loading = false
}

// restoreEngine reloads prev after a failed load so the engine's regions
// match the canvas again. Called with c.loadMu held and c.mu released.
func (c *Controller) restoreEngine(prev *cimage.Source) {
	if prev == nil {
		return
	}
	if _, _, err := c.engine.LoadSource(prev, c.threshold); err != nil {
		Logger().Warn("failed to restore previous image in engine", "error", err)
	}
}

// Unload drops the image and its history.
func (c *Controller) Unload() {
	c.mu.Lock()
	defer c.unlock()
	if c.state == StateEmpty {
		return
	}
	c.session.Abort()
	c.source = nil
	c.layers = nil
	c.display = nil
	c.state = StateEmpty
	c.ledger.Clear()
	c.queue(EventDisplayChanged, (*image.RGBA)(nil))
}

// SetDisplaySize sets the size of the surface touches are reported in.
func (c *Controller) SetDisplaySize(width, height float64) {
	c.mu.Lock()
	defer c.unlock()
	c.size = geometry.NewSize(width, height)
}

// SetTool selects the painting tool. A stroke in progress is ended without
// commit.
func (c *Controller) SetTool(k tool.Kind) bool {
	if !k.Valid() {
		return false
	}
	c.mu.Lock()
	defer c.unlock()
	c.resetStroke()
	c.tool = k
	return true
}

// SetBrushSize sets the stroke size. Non-positive sizes are rejected.
func (c *Controller) SetBrushSize(size float64) bool {
	if size <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.unlock()
	c.resetStroke()
	c.brushSize = size
	return true
}

// SetColor sets the paint color. Alpha is discarded.
func (c *Controller) SetColor(col color.Color) {
	c.mu.Lock()
	defer c.unlock()
	c.resetStroke()
	c.color = colorutil.FromColor(col)
}

// resetStroke abandons any gesture and drops its preview. Must be called
// with c.mu held.
func (c *Controller) resetStroke() {
	if !c.session.Active() {
		return
	}
	c.session.Abort()
	c.state = StateReady
	c.showCurrent()
}

// TouchesBegan starts a gesture. Gestures that start with more than one
// contact, or outside the image, are ignored.
func (c *Controller) TouchesBegan(ev TouchEvent) {
	c.mu.Lock()
	defer c.unlock()

	if c.state == StateEmpty || c.display == nil || len(ev.Points) == 0 {
		return
	}
	if c.loading {
		Logger().Debug("gesture ignored while loading")
		return
	}
	if ev.Touches != 1 {
		Logger().Debug("multi-touch gesture ignored", "touches", ev.Touches)
		return
	}
	pts := c.mapper().MapAll(ev.Points[:1])
	if len(pts) == 0 {
		return
	}
	if !c.session.Begin(c.tool, pts[0], ev.Touches) {
		return
	}
	if c.tool.Continuous() {
		c.state = StateStroking
	}
}

// TouchesMoved extends the gesture and refreshes the preview when due.
func (c *Controller) TouchesMoved(ev TouchEvent) {
	c.mu.Lock()
	defer c.unlock()

	if !c.session.Active() {
		return
	}
	pts := c.mapper().MapAll(ev.Points)
	if !c.session.Extend(pts, ev.Touches) {
		if c.session.Abandoned() {
			Logger().Debug("gesture abandoned", "touches", ev.Touches)
		}
		return
	}
	layer := vision.Rasterize(c.engine, c.tool, c.brushSize, c.color)
	if layer == nil {
		return
	}
	if preview := c.layers.Preview(layer); preview != nil {
		c.display = preview
		c.queue(EventDisplayChanged, preview)
	}
}

// TouchesEnded finishes the gesture, committing it when it drew something.
// It reports whether a new history entry was recorded.
func (c *Controller) TouchesEnded(ev TouchEvent) bool {
	return c.endGesture(false)
}

// TouchesCancelled finishes the gesture like TouchesEnded: a stroke that
// already moved is kept. A cancelled fill does nothing.
func (c *Controller) TouchesCancelled(ev TouchEvent) bool {
	return c.endGesture(true)
}

func (c *Controller) endGesture(cancelled bool) bool {
	c.mu.Lock()
	defer c.unlock()

	if !c.session.Active() {
		return false
	}
	c.committed = false
	if cancelled {
		c.session.Cancel(c.finish)
	} else {
		c.session.End(c.finish)
	}
	c.state = StateReady
	if !c.committed {
		c.showCurrent()
	}
	return c.committed
}

// finish rasterizes or fills and commits the result. Runs inside
// endGesture with c.mu held.
func (c *Controller) finish(k tool.Kind, last geometry.Point2D) {
	var bg, composite *image.RGBA
	if k == tool.Fill {
		filled := c.engine.FloodFill(c.layers.Background(), last, c.color)
		if filled == nil {
			Logger().Debug("fill produced nothing", "x", last.X, "y", last.Y)
			return
		}
		bg, composite = c.layers.Replace(filled)
	} else {
		layer := vision.Rasterize(c.engine, k, c.brushSize, c.color)
		if layer == nil {
			Logger().Warn("engine returned no stroke layer", "tool", k)
			return
		}
		bg, composite = c.layers.Commit(layer)
	}
	if bg == nil || composite == nil {
		Logger().Warn("layer size mismatch, stroke dropped", "tool", k)
		return
	}
	entry := history.NewEntry(bg, composite)
	c.ledger.Commit(entry)
	c.display = composite
	c.committed = true

	Logger().Debug("committed", "tool", k, "entry", entry.ID, "cursor", c.ledger.Cursor())
	c.queue(EventDisplayChanged, composite)
	c.queue(EventCommitted, entry.ID)
}

// Undo steps back one history entry.
func (c *Controller) Undo() bool {
	c.mu.Lock()
	defer c.unlock()
	return c.navigate(c.ledger.StepBack)
}

// Redo steps forward one history entry.
func (c *Controller) Redo() bool {
	c.mu.Lock()
	defer c.unlock()
	return c.navigate(c.ledger.StepForward)
}

func (c *Controller) navigate(step func() (history.Entry, bool)) bool {
	if c.state == StateEmpty {
		return false
	}
	c.resetStroke()
	e, ok := step()
	if !ok {
		return false
	}
	_, composite := c.layers.Replace(e.Background)
	if composite == nil {
		return false
	}
	c.display = composite
	c.queue(EventDisplayChanged, composite)
	return true
}

// showCurrent puts the committed composite back on display, dropping any
// preview. Must be called with c.mu held.
func (c *Controller) showCurrent() {
	if c.layers == nil {
		return
	}
	e, ok := c.ledger.Current()
	if !ok || e.Composite == c.display {
		return
	}
	c.display = e.Composite
	c.queue(EventDisplayChanged, e.Composite)
}

// mapper must be called with c.mu held.
func (c *Controller) mapper() mapper.Mapper {
	img := geometry.SizeOf(c.layers.Bounds())
	display := c.size
	if display.Empty() {
		display = img
	}
	return mapper.New(display, img)
}

// Display returns the image currently shown: the committed composite or a
// stroke preview. Nil when no image is loaded.
func (c *Controller) Display() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.display
}

// Composite returns the committed composite at the history cursor.
func (c *Controller) Composite() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.ledger.Current()
	if !ok {
		return nil
	}
	return e.Composite
}

// Background returns the current paint layer.
func (c *Controller) Background() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.layers == nil {
		return nil
	}
	return c.layers.Background()
}

// Foreground returns the line-art layer.
func (c *Controller) Foreground() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.layers == nil {
		return nil
	}
	return c.layers.Foreground()
}

// Modified reports whether the canvas differs, or may differ, from what
// was loaded.
func (c *Controller) Modified() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != StateEmpty && c.ledger.Modified()
}

// CanUndo reports whether Undo would succeed.
func (c *Controller) CanUndo() bool { return c.ledger.CanStepBack() }

// CanRedo reports whether Redo would succeed.
func (c *Controller) CanRedo() bool { return c.ledger.CanStepForward() }

// HistoryLen returns the number of retained history entries.
func (c *Controller) HistoryLen() int { return c.ledger.Len() }

// HistoryCursor returns the position of the current entry.
func (c *Controller) HistoryCursor() int { return c.ledger.Cursor() }

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Tool returns the selected tool.
func (c *Controller) Tool() tool.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tool
}

// BrushSize returns the stroke size.
func (c *Controller) BrushSize() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.brushSize
}

// Color returns the paint color.
func (c *Controller) Color() colorutil.RGB {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.color
}

// ImageSize returns the loaded image size, or the zero size.
func (c *Controller) ImageSize() image.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.layers == nil {
		return image.Point{}
	}
	return c.layers.Bounds().Size()
}
