// Package main provides the entry point for the Coloring Book application.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"coloring-canvas/internal/app"
	"coloring-canvas/internal/canvas"
	"coloring-canvas/internal/config"
	"coloring-canvas/internal/engines"
	cimage "coloring-canvas/internal/image"
	"coloring-canvas/internal/version"
	"coloring-canvas/ui/mainwindow"
	"coloring-canvas/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appTitle = "Coloring Book"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", appTitle, version.String())

	cfg := loadConfig()
	level, _ := cfg.Level()
	canvas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	eng, err := engines.New(cfg.Engine)
	if err != nil {
		log.Fatalf("Engine %q: %v", cfg.Engine, err)
	}
	opts, err := cfg.CanvasOptions()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	ctrl := canvas.New(eng, opts)

	fyneApp := fyneapp.NewWithID("io.coloring-canvas.colorbook")
	fyneApp.Settings().SetTheme(&app.ColoringTheme{})

	win := mainwindow.New(fyneApp, ctrl, prefs.Load())
	win.SetTitle(appTitle)

	// Handle command line arguments
	if len(os.Args) > 1 {
		path := os.Args[1]
		if src, err := cimage.Load(path); err != nil {
			log.Printf("Failed to open %s: %v", path, err)
		} else if err := ctrl.LoadImage(context.Background(), src, nil); err != nil {
			log.Printf("Failed to load %s: %v", path, err)
		}
	}

	win.ShowAndRun()
}

// loadConfig reads the user config, falling back to defaults.
func loadConfig() *config.Config {
	dir, err := config.Dir()
	if err != nil {
		log.Printf("Config: %v, using defaults", err)
		return config.DefaultConfig()
	}
	cfg, err := config.Load(dir)
	if err != nil {
		log.Printf("Config: %v, using defaults", err)
		return config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("Config: %v, using defaults", err)
		return config.DefaultConfig()
	}
	return cfg
}
