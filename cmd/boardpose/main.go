// Command boardpose plays a video and overlays a face doodle on the
// chessboard it finds in each frame, printing the camera position.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayusman/boardpose/internal/app"
	"github.com/ayusman/boardpose/internal/capture"
	"github.com/ayusman/boardpose/internal/config"
	"github.com/ayusman/boardpose/internal/detector"
	"github.com/ayusman/boardpose/internal/display"
	"github.com/ayusman/boardpose/internal/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "boardpose: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("boardpose", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: boardpose [flags] [video]\n\nDefault video: %s\n\nFlags:\n", config.DefaultInput)
		fs.PrintDefaults()
	}
	fs.IntVar(&cfg.KeyDelayMs, "delay", cfg.KeyDelayMs, "key poll timeout per frame, in milliseconds")
	fs.StringVar(&cfg.Window, "window", cfg.Window, "display window title")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "also write logs to this file, with rotation")
	noRefine := fs.Bool("no-refine", !cfg.RefineCorners, "skip sub-pixel corner refinement")
	_ = fs.Parse(os.Args[1:])

	cfg.RefineCorners = !*noRefine
	if fs.NArg() > 0 {
		cfg.Input = fs.Arg(0)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "boardpose: %v\n", err)
		os.Exit(1)
	}

	if _, err := log.Setup(log.Options{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		fmt.Fprintf(os.Stderr, "boardpose: %v\n", err)
		os.Exit(1)
	}

	source := capture.NewVideoFile(cfg.Input)
	if err := source.Open(); err != nil {
		traceID := log.ErrorWithTraceID(log.Fields{"input": source.Path(), "error": err.Error()}, "Cannot open video")
		fmt.Fprintf(os.Stderr, "Error: Could not open video file %q (trace %s)\n", source.Path(), traceID)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	window := display.NewWindow(cfg.Window)
	player := app.New(app.Config{
		Source:     source,
		Detector:   detector.NewChessboardDetector(cfg.DetectorConfig()),
		Sink:       window,
		Board:      cfg.Board,
		Intrinsics: cfg.Intrinsics,
		Distortion: cfg.Distortion,
		KeyDelayMs: cfg.KeyDelayMs,
	})

	log.Info(log.Fields{"input": source.Path(), "window": window.Title()}, "Starting playback")

	err = player.Run(ctx)
	fields := log.Fields{"frames_read": source.FramesRead()}
	if err != nil && !errors.Is(err, context.Canceled) {
		fields["error"] = err.Error()
		stop()
		log.Fatal(fields, "Playback failed")
	}
	log.Info(fields, "Done")
}
