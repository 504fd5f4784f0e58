package detector

import (
	"image"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/boardpose/internal/pose"
)

// Sub-pixel refinement settings.
const (
	SubPixWindow     = 11
	SubPixIterations = 30
	SubPixEpsilon    = 0.001
)

// ChessboardDetector finds the inner corners of a chessboard using OpenCV.
type ChessboardDetector struct {
	config Config
	gray   gocv.Mat
	mu     sync.Mutex
}

// NewChessboardDetector creates a detector for the configured board.
func NewChessboardDetector(config Config) *ChessboardDetector {
	return &ChessboardDetector{
		config: config,
		gray:   gocv.NewMat(),
	}
}

// Detect searches the frame for the board's inner corners.
//
// Algorithm:
// 1. Convert the frame to grayscale
// 2. Run OpenCV's chessboard search with the configured flags
// 3. Optionally refine corners to sub-pixel accuracy
// 4. Reject results whose corner count does not match the board
// 5. Orient the list so it starts at the corner nearest the image origin
func (d *ChessboardDetector) Detect(frame *gocv.Mat) (Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if frame == nil || frame.Empty() {
		return Detection{}, nil
	}

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &d.gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&d.gray)
	}

	corners := gocv.NewMat()
	defer corners.Close()

	if found := gocv.FindChessboardCorners(d.gray, d.config.Board.PatternSize(), &corners, d.config.Flags); !found {
		return Detection{}, nil
	}

	if d.config.Refine {
		criteria := gocv.NewTermCriteria(gocv.Count|gocv.EPS, SubPixIterations, SubPixEpsilon)
		gocv.CornerSubPix(d.gray, &corners, image.Pt(SubPixWindow, SubPixWindow), image.Pt(-1, -1), criteria)
	}

	points := matToPoints(corners)
	if len(points) != d.config.Board.Count() {
		return Detection{}, nil
	}

	return Detection{Found: true, Corners: canonicalOrder(points)}, nil
}

// Close releases the grayscale buffer.
func (d *ChessboardDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.gray.Empty() {
		d.gray.Close()
		d.gray = gocv.NewMat()
	}
	return nil
}

// matToPoints reads an Nx1 CV_32FC2 corner Mat.
func matToPoints(m gocv.Mat) []pose.Point2 {
	n := m.Rows() * m.Cols()
	points := make([]pose.Point2, 0, n)
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			v := m.GetVecfAt(r, c)
			if len(v) < 2 {
				continue
			}
			points = append(points, pose.Point2{X: float64(v[0]), Y: float64(v[1])})
		}
	}
	return points
}

// canonicalOrder reverses the corner list when OpenCV reports it starting
// from the far end of the board, so index 0 is always the corner closest
// to the image origin. The row-major layout is preserved either way.
func canonicalOrder(points []pose.Point2) []pose.Point2 {
	if len(points) < 2 {
		return points
	}
	first, last := points[0], points[len(points)-1]
	if first.X+first.Y <= last.X+last.Y {
		return points
	}
	reversed := make([]pose.Point2, len(points))
	for i, p := range points {
		reversed[len(points)-1-i] = p
	}
	return reversed
}
