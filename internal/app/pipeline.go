package app

import (
	"context"
	"fmt"

	"github.com/ayusman/boardpose/internal/capture"
	"github.com/ayusman/boardpose/internal/display"
	"github.com/ayusman/boardpose/internal/log"
)

// State is the playback state.
type State int

const (
	Playing State = iota
	Paused
	Stopped
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Run plays the source until it is exhausted, ESC is pressed or ctx is
// cancelled, then releases every resource through Close.
//
// Loop, one frame at a time:
// 1. Read a frame; any read failure ends playback
// 2. Detect the board, solve its pose and draw the overlay
// 3. Show the frame, annotated or not; a display failure ends playback
// 4. Poll the keyboard for KeyDelayMs
// 5. SPACE pauses until the next key; that key is handled like any other
// 6. ESC stops playback
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if !a.config.Source.IsOpen() {
		if err := a.config.Source.Open(); err != nil {
			return err
		}
	}

	a.setState(Playing)
	log.Info(log.Fields{"delay_ms": a.config.KeyDelayMs}, "Playback started")

	for {
		select {
		case <-ctx.Done():
			log.Info(nil, "Playback cancelled")
			return ctx.Err()
		default:
		}

		frame, err := a.config.Source.ReadFrame()
		if err != nil {
			if capture.IsEndOfStream(err) {
				log.Info(nil, "End of video")
			} else {
				log.Warn(log.Fields{"error": err.Error()}, "Stopping on frame read failure")
			}
			return nil
		}

		result, err := a.Process(frame)
		a.record(result.Detected)
		if err != nil {
			log.Warn(log.Fields{"frame": a.Stats().Frames, "error": err.Error()}, "Frame processed without overlay")
		} else if result.Detected {
			log.Debug(log.Fields{
				"frame":  a.Stats().Frames,
				"x":      result.Position.X,
				"y":      result.Position.Y,
				"z":      result.Position.Z,
				"rms_px": result.Solution.RMS,
			}, "Board pose")
		}

		err = a.config.Sink.Show(frame)
		frame.Close()
		if err != nil {
			return fmt.Errorf("show frame: %w", err)
		}

		key := a.config.Sink.WaitKey(a.config.KeyDelayMs)
		if key == display.KeySpace {
			a.setState(Paused)
			key = a.config.Sink.WaitKey(display.WaitForever)
			a.setState(Playing)
		}
		if key == display.KeyEsc {
			log.Info(nil, "Playback stopped by user")
			return nil
		}
	}
}

func (a *App) record(detected bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stats.Frames++
	if detected {
		a.stats.Detected++
	}
}
