// Package app runs the chessboard pose overlay over a stream of frames.
package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang/geo/r3"
	"gocv.io/x/gocv"

	"github.com/ayusman/boardpose/internal/capture"
	"github.com/ayusman/boardpose/internal/detector"
	"github.com/ayusman/boardpose/internal/display"
	"github.com/ayusman/boardpose/internal/log"
	"github.com/ayusman/boardpose/internal/overlay"
	"github.com/ayusman/boardpose/internal/pose"
)

// DefaultKeyDelayMs is the key poll timeout used when Config leaves it unset.
const DefaultKeyDelayMs = 10

// Config holds the collaborators and calibration of an App.
type Config struct {
	Source   capture.Source
	Detector detector.Detector
	Sink     display.Sink

	Board      detector.Board
	Intrinsics pose.Intrinsics
	Distortion pose.Distortion

	// KeyDelayMs is how long each frame waits for a key press.
	KeyDelayMs int
}

// FrameResult describes what was found and drawn on one frame.
type FrameResult struct {
	Detected bool
	Corners  []pose.Point2
	Solution pose.Solution
	// Position is the camera centre in board coordinates, -R^T t.
	Position r3.Vector
}

// Stats counts processed frames.
type Stats struct {
	Frames   int
	Detected int
}

// App owns the source, detector and sink for one playback session.
type App struct {
	config   Config
	object   []r3.Vector
	renderer *overlay.Renderer
	state    State
	stats    Stats
	mu       sync.RWMutex

	closeOnce sync.Once
	closeErr  error
}

// New creates an App. The board's object points and the face overlay are
// computed once here and shared by every frame.
func New(config Config) *App {
	if config.KeyDelayMs <= 0 {
		config.KeyDelayMs = DefaultKeyDelayMs
	}

	return &App{
		config:   config,
		object:   config.Board.ObjectPoints(),
		renderer: overlay.NewRenderer(config.Intrinsics, config.Distortion, overlay.Face(config.Board.CellSize)),
		state:    Stopped,
	}
}

// Process runs detection, pose estimation and drawing on a single frame.
// The frame is annotated in place only when the board is found. A frame
// without the board is not an error.
func (a *App) Process(frame *gocv.Mat) (FrameResult, error) {
	det, err := a.config.Detector.Detect(frame)
	if err != nil {
		return FrameResult{}, fmt.Errorf("detect board: %w", err)
	}
	if !det.Found || len(det.Corners) != len(a.object) {
		return FrameResult{}, nil
	}

	result := FrameResult{Detected: true, Corners: det.Corners}

	sol, err := pose.SolvePnP(a.object, det.Corners, a.config.Intrinsics, a.config.Distortion)
	if err != nil {
		return result, fmt.Errorf("solve pose: %w", err)
	}
	result.Solution = sol
	if result.Position, err = pose.CameraPosition(sol.Pose); err != nil {
		return result, fmt.Errorf("camera position: %w", err)
	}

	if err := a.renderer.Draw(frame, sol.Pose); err != nil {
		return result, fmt.Errorf("draw overlay: %w", err)
	}

	return result, nil
}

// Close releases the source, detector and sink. Only the first call has
// any effect; later calls return the same error.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		var errs []error
		if a.config.Source != nil {
			if err := a.config.Source.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close source: %w", err))
			}
		}
		if a.config.Detector != nil {
			if err := a.config.Detector.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close detector: %w", err))
			}
		}
		if a.config.Sink != nil {
			if err := a.config.Sink.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close display: %w", err))
			}
		}
		a.closeErr = errors.Join(errs...)
		a.setState(Stopped)

		stats := a.Stats()
		log.Info(log.Fields{"frames": stats.Frames, "detected": stats.Detected}, "Playback resources released")
	})
	return a.closeErr
}

// State returns the current playback state.
func (a *App) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *App) setState(s State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = s
}

// Stats returns the frame counters.
func (a *App) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stats
}

// Renderer returns the overlay renderer.
func (a *App) Renderer() *overlay.Renderer {
	return a.renderer
}

// ObjectPoints returns the board corners in board coordinates.
func (a *App) ObjectPoints() []r3.Vector {
	return a.object
}
