package detector

import (
	"image"

	"github.com/golang/geo/r3"
)

// Board describes a chessboard by its inner corner counts and cell size.
type Board struct {
	// Cols and Rows count inner corners, not squares.
	Cols     int     `validate:"min=2"`
	Rows     int     `validate:"min=2"`
	CellSize float64 `validate:"gt=0"`
}

// DefaultBoard returns the 8x6 board with 25 mm cells.
func DefaultBoard() Board {
	return Board{Cols: 8, Rows: 6, CellSize: 0.025}
}

// Count returns the number of inner corners.
func (b Board) Count() int {
	return b.Cols * b.Rows
}

// PatternSize returns the corner grid as OpenCV expects it (width = Cols).
func (b Board) PatternSize() image.Point {
	return image.Pt(b.Cols, b.Rows)
}

// ObjectPoints returns the inner corners on the board's Z=0 plane in the
// same row-major order a detection reports them.
func (b Board) ObjectPoints() []r3.Vector {
	points := make([]r3.Vector, 0, b.Count())
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			points = append(points, r3.Vector{
				X: float64(c) * b.CellSize,
				Y: float64(r) * b.CellSize,
			})
		}
	}
	return points
}
