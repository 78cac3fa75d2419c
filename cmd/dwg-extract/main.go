package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/drawing-extract/internal/batch"
	"github.com/ironsheep/drawing-extract/internal/config"
	"github.com/ironsheep/drawing-extract/internal/extract"
	"github.com/ironsheep/drawing-extract/internal/geom"
	"github.com/ironsheep/drawing-extract/internal/imaging"
	"github.com/ironsheep/drawing-extract/internal/sink"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "dwg-extract - extract pole schedule records from PDF drawing sets")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage: dwg-extract -dir <folder> [options]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	flag.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Environment variables:")
	fmt.Fprintln(out, "  DWG_EXTRACT_DIR, DWG_EXTRACT_FORMAT, DWG_EXTRACT_OUT,")
	fmt.Fprintln(out, "  DWG_EXTRACT_SCALE, DWG_EXTRACT_DEBUG_DIR    Override the config file")
	fmt.Fprintln(out, "  DWG_EXTRACT_LOG_LEVEL=debug                 Log level (debug, info, warn, error)")
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("dwg-extract %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		}
	}

	configPath := flag.String("config", "", "Path to config file (JSON)")
	dir := flag.String("dir", "", "Folder containing the PDF drawings")
	recursive := flag.Bool("recursive", false, "Also search subfolders")
	format := flag.String("format", config.FormatWorkbook, "Output format: xlsx or txt")
	out := flag.String("out", "", "Workbook path (xlsx) or output folder (txt)")
	scale := flag.Float64("scale", 1.0, "Rasterization scale in pixels per point (1.0 = 72 DPI)")
	threshold := flag.Int("threshold", 200, "Intensity below which a pixel counts as dark (0-255)")
	minWidth := flag.Float64("min-width", 0, "Drop regions narrower than this many pixels")
	minHeight := flag.Float64("min-height", 0, "Drop regions shorter than this many pixels")
	debugDir := flag.String("debug-dir", "", "Write a region overlay PNG for every page to this folder")
	flag.Usage = usage
	flag.Parse()

	log := config.NewLogger(os.Stderr)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.WithError(err).Fatal("loading config")
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.WithError(err).Fatal("reading environment")
	}

	// Flags given on the command line win over file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			cfg.Dir = *dir
		case "recursive":
			cfg.Recursive = *recursive
		case "format":
			cfg.Format = strings.ToLower(*format)
		case "out":
			cfg.Out = *out
		case "scale":
			cfg.Scale = *scale
		case "threshold":
			cfg.Threshold = *threshold
		case "min-width":
			cfg.MinWidth = *minWidth
		case "min-height":
			cfg.MinHeight = *minHeight
		case "debug-dir":
			cfg.DebugDir = *debugDir
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "dwg-extract: %v\n\n", err)
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("extraction failed")
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	paths, err := batch.Discover(cfg.Dir, cfg.Recursive)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		log.WithField("dir", cfg.Dir).Warn("no PDF files found")
	}

	out, err := newSink(cfg)
	if err != nil {
		return err
	}

	pipeline := extract.NewPipeline(cfg.Scale, log)
	pipeline.Segment.Threshold = uint8(cfg.Threshold)
	pipeline.Segment.MinWidth = cfg.MinWidth
	pipeline.Segment.MinHeight = cfg.MinHeight

	runner := &batch.Runner{
		Opener:   batch.OpenPDF,
		Pipeline: pipeline,
		Sink:     out,
		Logger:   log,
	}
	if cfg.DebugDir != "" {
		if err := os.MkdirAll(cfg.DebugDir, 0o755); err != nil {
			return fmt.Errorf("creating debug directory: %w", err)
		}
		runner.Inspect = overlayWriter(cfg.DebugDir, log)
	}

	_, stats, runErr := runner.Run(ctx, paths)

	// Records gathered before a failure are still written.
	if err := out.Close(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if runErr != nil {
		return runErr
	}

	log.WithFields(logrus.Fields{
		"documents": stats.Documents,
		"pages":     stats.Pages,
		"records":   stats.Records,
		"aborted":   len(stats.Aborted),
	}).Info("extraction complete")
	return nil
}

func newSink(cfg config.Config) (sink.Sink, error) {
	switch cfg.Format {
	case config.FormatText:
		return sink.NewTextFileSink(cfg.Out), nil
	case config.FormatWorkbook:
		if cfg.Out != "" {
			if err := os.MkdirAll(filepath.Dir(cfg.Out), 0o755); err != nil {
				return nil, fmt.Errorf("creating output directory: %w", err)
			}
		}
		return sink.NewWorkbookSink(cfg.Out), nil
	default:
		return nil, fmt.Errorf("unknown format %q", cfg.Format)
	}
}

// overlayWriter saves "<document>-p<page>.png" into dir for every page.
func overlayWriter(dir string, log logrus.FieldLogger) func(string, int, image.Image, []geom.Rect) {
	return func(path string, page int, img image.Image, regions []geom.Rect) {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		name := filepath.Join(dir, fmt.Sprintf("%s-p%d.png", base, page))
		if err := imaging.SaveOverlay(name, img, regions); err != nil {
			log.WithError(err).WithField("file", name).Warn("debug overlay not written")
		}
	}
}
