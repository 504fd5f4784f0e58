// Package capture provides video frame sources using GoCV (OpenCV).
package capture

import (
	"errors"

	"gocv.io/x/gocv"
)

var (
	// ErrSourceNotOpen is returned when reading from a source that is not open.
	ErrSourceNotOpen = errors.New("source is not open")
	// ErrOpen is returned when the video cannot be opened.
	ErrOpen = errors.New("cannot open video")
	// ErrEndOfStream is returned once every frame has been read.
	ErrEndOfStream = errors.New("end of stream")
	// ErrReadFailed is returned when the decoder fails to produce a frame.
	ErrReadFailed = errors.New("failed to read frame")
)

// Source is a sequential, finite stream of frames.
type Source interface {
	Open() error
	Close() error
	// ReadFrame returns the next frame. The caller is responsible for
	// closing the returned Mat.
	ReadFrame() (*gocv.Mat, error)
	IsOpen() bool
}

// IsEndOfStream reports whether err marks the normal end of a source.
func IsEndOfStream(err error) bool {
	return errors.Is(err, ErrEndOfStream)
}
