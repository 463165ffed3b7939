// Package canvas provides the fyne widget that shows the coloring canvas and
// feeds mouse input to the controller as touch events.
package canvas

import (
	"image"
	"image/color"

	cc "coloring-canvas/internal/canvas"
	cimage "coloring-canvas/internal/image"
	"coloring-canvas/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// Margin color around the aspect-fitted page.
var marginColor = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}

// ImageCanvas renders the controller's display image and turns mouse
// gestures into touches. Holding the secondary button while drawing acts as
// a second finger.
type ImageCanvas struct {
	widget.BaseWidget

	ctrl   *cc.Controller
	raster *fynecanvas.Raster

	down      bool
	secondary bool
}

var (
	_ desktop.Mouseable = (*ImageCanvas)(nil)
	_ fyne.Draggable    = (*ImageCanvas)(nil)
)

// NewImageCanvas creates a canvas bound to ctrl. It refreshes itself on
// every display change.
func NewImageCanvas(ctrl *cc.Controller) *ImageCanvas {
	ic := &ImageCanvas{ctrl: ctrl}
	ic.raster = fynecanvas.NewRaster(ic.render)
	ic.ExtendBaseWidget(ic)

	ctrl.On(cc.EventDisplayChanged, func(interface{}) {
		ic.raster.Refresh()
	})
	return ic
}

func (ic *ImageCanvas) render(w, h int) image.Image {
	return cimage.FitInto(ic.ctrl.Display(), w, h, marginColor)
}

// CreateRenderer implements fyne.Widget.
func (ic *ImageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(ic.raster)
}

// MinSize keeps the canvas usable in small windows.
func (ic *ImageCanvas) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

// Resize tells the controller the new touch surface size.
func (ic *ImageCanvas) Resize(size fyne.Size) {
	ic.BaseWidget.Resize(size)
	ic.ctrl.SetDisplaySize(float64(size.Width), float64(size.Height))
}

func (ic *ImageCanvas) touches() int {
	if ic.secondary {
		return 2
	}
	return 1
}

func (ic *ImageCanvas) event(pos fyne.Position) cc.TouchEvent {
	return cc.TouchEvent{
		Points:  []geometry.Point2D{{X: float64(pos.X), Y: float64(pos.Y)}},
		Touches: ic.touches(),
	}
}

// MouseDown implements desktop.Mouseable.
func (ic *ImageCanvas) MouseDown(ev *desktop.MouseEvent) {
	switch ev.Button {
	case desktop.MouseButtonPrimary:
		ic.down = true
		ic.ctrl.TouchesBegan(ic.event(ev.Position))
	case desktop.MouseButtonSecondary:
		ic.secondary = true
	}
}

// MouseUp implements desktop.Mouseable.
func (ic *ImageCanvas) MouseUp(ev *desktop.MouseEvent) {
	switch ev.Button {
	case desktop.MouseButtonPrimary:
		ic.end(ev.Position)
	case desktop.MouseButtonSecondary:
		ic.secondary = false
	}
}

// Dragged implements fyne.Draggable.
func (ic *ImageCanvas) Dragged(ev *fyne.DragEvent) {
	if !ic.down {
		return
	}
	ic.ctrl.TouchesMoved(ic.event(ev.Position))
}

// DragEnd implements fyne.Draggable. MouseUp finishes the gesture; this
// only covers drivers that skip it after a drag.
func (ic *ImageCanvas) DragEnd() {
	if ic.down {
		ic.down = false
		ic.ctrl.TouchesEnded(cc.TouchEvent{Touches: ic.touches()})
	}
}

func (ic *ImageCanvas) end(pos fyne.Position) {
	if !ic.down {
		return
	}
	ic.down = false
	ic.ctrl.TouchesEnded(ic.event(pos))
}

// Cancel abandons mouse tracking and cancels the gesture in progress.
func (ic *ImageCanvas) Cancel() {
	ic.secondary = false
	if ic.down {
		ic.down = false
		ic.ctrl.TouchesCancelled(cc.TouchEvent{Touches: 1})
	}
}
