package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"coloring-canvas/internal/canvas"
	"coloring-canvas/internal/config"
	"coloring-canvas/internal/engines"
	"coloring-canvas/internal/export"
	cimage "coloring-canvas/internal/image"
	"coloring-canvas/internal/script"
	"coloring-canvas/internal/version"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "colorbook",
		Usage:   "Headless coloring-book canvas",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Config directory (default: user config dir)"},
			&cli.StringFlag{Name: "engine", Aliases: []string{"e"}, Usage: "Vision engine: " + strings.Join(engines.Names(), "|")},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Debug logging"},
		},
		Commands: []*cli.Command{
			runCmd(),
			maskCmd(),
			infoCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// setup loads the config, applies flag overrides and installs the logger.
func setup(c *cli.Context) (*config.Config, error) {
	dir := c.String("config")
	if dir == "" {
		d, err := config.Dir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate config dir: %w", err)
		}
		dir = d
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	if e := c.String("engine"); e != "" {
		cfg.Engine = e
	}
	if c.Bool("verbose") {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := cfg.Level()
	canvas.SetLogger(slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level})))
	return cfg, nil
}

// runCmd creates the run command.
func runCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Replay a YAML session script and print a JSON report",
		ArgsUsage: "<script.yaml>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected one script path")
			}
			cfg, err := setup(c)
			if err != nil {
				return err
			}
			path := c.Args().First()
			s, err := script.Load(path)
			if err != nil {
				return err
			}
			ctrl, err := newController(cfg)
			if err != nil {
				return err
			}
			rep, err := script.Run(context.Background(), ctrl, s, filepath.Dir(path))
			if err != nil {
				return err
			}
			return outputJSON(c.App.Writer, rep)
		},
	}
}

// maskCmd creates the mask command.
func maskCmd() *cli.Command {
	return &cli.Command{
		Name:      "mask",
		Usage:     "Extract the line art of an outline image",
		ArgsUsage: "<image>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "Output .png or .pdf"},
			&cli.IntFlag{Name: "threshold", Aliases: []string{"t"}, Usage: "Gray threshold 0-255 (default from config)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected one image path")
			}
			cfg, err := setup(c)
			if err != nil {
				return err
			}
			threshold := cfg.Threshold
			if c.IsSet("threshold") {
				threshold = c.Int("threshold")
			}
			src, err := cimage.Load(c.Args().First())
			if err != nil {
				return err
			}
			eng, err := engines.New(cfg.Engine)
			if err != nil {
				return err
			}
			_, lineArt, err := eng.LoadSource(src, threshold)
			if err != nil {
				return err
			}
			if err := export.File(c.String("out"), lineArt); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Wrote %s (%dx%d, threshold %d)\n", c.String("out"), src.Width(), src.Height(), threshold)
			return nil
		},
	}
}

// imageInfo is the JSON shape printed by info.
type imageInfo struct {
	Path      string         `json:"path"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	Supported bool           `json:"supported_extension"`
	Config    *config.Config `json:"config"`
}

// infoCmd creates the info command.
func infoCmd() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Print image dimensions and the effective config",
		ArgsUsage: "<image>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected one image path")
			}
			cfg, err := setup(c)
			if err != nil {
				return err
			}
			path := c.Args().First()
			src, err := cimage.Load(path)
			if err != nil {
				return err
			}
			return outputJSON(c.App.Writer, imageInfo{
				Path:      path,
				Width:     src.Width(),
				Height:    src.Height(),
				Supported: cimage.IsSupportedFormat(path),
				Config:    cfg,
			})
		},
	}
}

func newController(cfg *config.Config) (*canvas.Controller, error) {
	eng, err := engines.New(cfg.Engine)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.CanvasOptions()
	if err != nil {
		return nil, err
	}
	return canvas.New(eng, opts), nil
}

func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
