// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	cc "coloring-canvas/internal/canvas"
	"coloring-canvas/internal/export"
	cimage "coloring-canvas/internal/image"
	"coloring-canvas/internal/tool"
	"coloring-canvas/internal/version"
	"coloring-canvas/pkg/colorutil"
	"coloring-canvas/ui/canvas"
	"coloring-canvas/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	ctrl  *cc.Controller
	prefs *prefs.Prefs

	canvas    *canvas.ImageCanvas
	statusBar *widget.Label
	backBtn   *widget.Button
	fwdBtn    *widget.Button
	toolRadio *widget.RadioGroup
	sizeLabel *widget.Label

	cancelLoad context.CancelFunc
}

// New creates a new main window around ctrl.
func New(fyneApp fyne.App, ctrl *cc.Controller, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Coloring Book")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		ctrl:   ctrl,
		prefs:  p,
	}

	mw.restoreSettings()
	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.Resize(fyne.NewSize(1024, 768))

	return mw
}

// restoreSettings applies the remembered tool settings to the controller.
func (mw *MainWindow) restoreSettings() {
	mw.ctrl.SetTool(mw.prefs.Tool(mw.ctrl.Tool()))
	mw.ctrl.SetColor(mw.prefs.Color(mw.ctrl.Color()).RGBA())
	mw.ctrl.SetBrushSize(mw.prefs.BrushSize(mw.ctrl.BrushSize()))
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewImageCanvas(mw.ctrl)
	mw.statusBar = widget.NewLabel("Open an outline image to start coloring")

	content := container.NewBorder(
		mw.createToolbar(),                // top
		container.NewPadded(mw.statusBar), // bottom
		mw.createToolPanel(),              // left
		nil,                               // right
		mw.canvas,                         // center
	)
	mw.SetContent(content)
}

// createToolbar creates the history and file buttons.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	openBtn := widget.NewButton("Open...", mw.onOpenImage)
	mw.backBtn = widget.NewButton("Back", mw.onUndo)
	mw.fwdBtn = widget.NewButton("Forward", mw.onRedo)
	mw.backBtn.Disable()
	mw.fwdBtn.Disable()
	exportBtn := widget.NewButton("Export...", func() { mw.onExport("coloring.png", mw.ctrl.Composite) })

	return container.NewHBox(openBtn, widget.NewSeparator(), mw.backBtn, mw.fwdBtn, widget.NewSeparator(), exportBtn)
}

// createToolPanel creates the tool picker, palette and brush slider.
func (mw *MainWindow) createToolPanel() fyne.CanvasObject {
	var names []string
	for _, k := range tool.All() {
		names = append(names, k.String())
	}
	mw.toolRadio = widget.NewRadioGroup(names, func(name string) {
		k, err := tool.Parse(name)
		if err != nil {
			return
		}
		mw.ctrl.SetTool(k)
		mw.prefs.SetTool(k)
		mw.updateStatus(fmt.Sprintf("Tool: %s", k))
	})
	mw.toolRadio.SetSelected(mw.ctrl.Tool().String())

	palette := container.NewGridWithColumns(3)
	for _, c := range colorutil.Palette() {
		c := c
		palette.Add(widget.NewButton(paletteName(c), func() {
			mw.ctrl.SetColor(c.RGBA())
			mw.prefs.SetColor(c)
			mw.updateStatus(fmt.Sprintf("Color: %s", c))
		}))
	}

	mw.sizeLabel = widget.NewLabel("")
	slider := widget.NewSlider(2, 120)
	slider.Step = 1
	slider.SetValue(mw.ctrl.BrushSize())
	mw.setSizeLabel(slider.Value)
	slider.OnChanged = func(v float64) {
		mw.ctrl.SetBrushSize(v)
		mw.prefs.SetBrushSize(v)
		mw.setSizeLabel(v)
	}

	return container.NewVBox(
		widget.NewLabel("Tool"),
		mw.toolRadio,
		widget.NewSeparator(),
		widget.NewLabel("Color"),
		palette,
		widget.NewSeparator(),
		mw.sizeLabel,
		slider,
	)
}

func (mw *MainWindow) setSizeLabel(v float64) {
	mw.sizeLabel.SetText(fmt.Sprintf("Brush size: %.0f", v))
}

// paletteName returns the palette name of c, or its hex form.
func paletteName(c colorutil.RGB) string {
	if name, ok := colorutil.Name(c); ok {
		return strings.ToUpper(name[:1]) + name[1:]
	}
	return c.Hex()
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItem("Resume Painting...", mw.onResume),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Picture...", func() { mw.onExport("coloring.png", mw.ctrl.Composite) }),
		fyne.NewMenuItem("Export Picture as PDF...", func() { mw.onExport("coloring.pdf", mw.ctrl.Composite) }),
		fyne.NewMenuItem("Save Paint Layer...", func() { mw.onExport("paint.png", mw.ctrl.Background) }),
		fyne.NewMenuItem("Export Line Art...", func() { mw.onExport("lines.png", mw.ctrl.Foreground) }),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Cancel Stroke", mw.canvas.Cancel),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)
	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, helpMenu))
}

// setupEventHandlers binds controller events to widgets.
func (mw *MainWindow) setupEventHandlers() {
	mw.ctrl.On(cc.EventBackwardEnabled, func(data interface{}) {
		setEnabled(mw.backBtn, data.(bool))
	})
	mw.ctrl.On(cc.EventForwardEnabled, func(data interface{}) {
		setEnabled(mw.fwdBtn, data.(bool))
	})
	mw.ctrl.On(cc.EventImageLoaded, func(data interface{}) {
		r := data.(image.Rectangle)
		mw.updateStatus(fmt.Sprintf("Loaded %dx%d outline", r.Dx(), r.Dy()))
	})

	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			mw.canvas.Cancel()
		}
	})

	mw.SetCloseIntercept(func() {
		if err := mw.prefs.Save(); err != nil {
			fmt.Printf("Failed to save preferences: %v\n", err)
		}
		mw.Close()
	})
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
}

// chooseImage shows an open dialog filtered to supported formats.
func (mw *MainWindow) chooseImage(then func(path string)) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		then(path)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(cimage.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onOpenImage() {
	mw.chooseImage(func(path string) {
		mw.loadImage(path, "")
	})
}

// onResume asks for the outline first, then the saved paint layer.
func (mw *MainWindow) onResume() {
	mw.chooseImage(func(outline string) {
		mw.chooseImage(func(saved string) {
			mw.loadImage(outline, saved)
		})
	})
}

// loadImage loads in the background; a newer load cancels an older one.
func (mw *MainWindow) loadImage(path, savedPath string) {
	if mw.cancelLoad != nil {
		mw.cancelLoad()
	}
	ctx, cancel := context.WithCancel(context.Background())
	mw.cancelLoad = cancel
	mw.updateStatus("Loading " + filepath.Base(path) + "...")

	go func() {
		defer cancel()
		src, err := cimage.Load(path)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		var saved image.Image
		if savedPath != "" {
			s, err := cimage.Load(savedPath)
			if err != nil {
				dialog.ShowError(err, mw.Window)
				return
			}
			saved = s.Image
		}
		if err := mw.ctrl.LoadImage(ctx, src, saved); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.SetTitle("Coloring Book - " + filepath.Base(path))
	}()
}

// onExport saves the image returned by layer after asking for a path.
func (mw *MainWindow) onExport(defaultName string, layer func() *image.RGBA) {
	img := layer()
	if img == nil {
		mw.updateStatus("Nothing to export")
		return
	}
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if ext := strings.ToLower(filepath.Ext(path)); ext != ".png" && ext != ".pdf" {
			path += filepath.Ext(defaultName)
		}
		mw.saveLastDir(path)
		if err := export.File(path, img); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported " + filepath.Base(path))
	}, mw.Window)
	fd.SetFileName(defaultName)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onUndo() {
	if !mw.ctrl.Undo() {
		mw.updateStatus("Nothing to undo")
	}
}

func (mw *MainWindow) onRedo() {
	if !mw.ctrl.Redo() {
		mw.updateStatus("Nothing to redo")
	}
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Coloring Book",
		fmt.Sprintf("Coloring Book %s\n\nPaint inside the lines.", version.String()),
		mw.Window)
}
