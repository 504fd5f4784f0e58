// Package detector locates chessboard calibration patterns in video frames.
package detector

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/boardpose/internal/pose"
)

// Detector defines the interface for calibration pattern detectors.
type Detector interface {
	// Detect looks for the pattern in a frame. A frame without the pattern
	// is not an error: it yields a Detection with Found set to false.
	Detect(frame *gocv.Mat) (Detection, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Detection is the outcome of running a detector on one frame.
type Detection struct {
	Found bool
	// Corners are the inner corners in row-major raster order over the
	// board; len(Corners) == Board.Count() whenever Found is true.
	Corners []pose.Point2
}

// Config holds configuration options for chessboard detection.
type Config struct {
	Board Board

	// Flags are passed to OpenCV's chessboard search.
	Flags gocv.CalibCBFlag

	// Refine enables sub-pixel corner refinement on the grayscale frame.
	Refine bool
}

// DefaultFlags are the detection-quality flags: adaptive thresholding,
// image normalization and a fast rejection check for frames without a board.
const DefaultFlags = gocv.CalibCBAdaptiveThresh | gocv.CalibCBNormalizeImage | gocv.CalibCBFastCheck

// DefaultConfig returns a Config for the 8x6 board with 25 mm cells.
func DefaultConfig() Config {
	return Config{
		Board:  DefaultBoard(),
		Flags:  DefaultFlags,
		Refine: true,
	}
}
