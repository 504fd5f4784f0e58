// Package testdata renders synthetic frames for detector and pipeline tests.
package testdata

import (
	"image"
	"image/color"

	"github.com/golang/geo/r3"
	"gocv.io/x/gocv"

	"github.com/ayusman/boardpose/internal/pose"
)

// BoardScene describes a chessboard seen by an ideal (distortion-free) camera.
type BoardScene struct {
	Width, Height int
	// Cols and Rows count inner corners; the board has one more square
	// along each axis.
	Cols, Rows int
	CellSize   float64
	Intrinsics pose.Intrinsics
	Pose       pose.Pose
}

// DefaultScene returns a 640x480 view of the 8x6 board, fronto-parallel at
// half a metre and centred in the image.
func DefaultScene() BoardScene {
	return BoardScene{
		Width:      640,
		Height:     480,
		Cols:       8,
		Rows:       6,
		CellSize:   0.025,
		Intrinsics: pose.Intrinsics{Fx: 800, Fy: 800, Cx: 320, Cy: 240},
		Pose:       pose.Pose{Tvec: r3.Vector{X: -0.0875, Y: -0.0625, Z: 0.5}},
	}
}

// Corners returns the ground-truth pixel positions of the inner corners in
// row-major order.
func (s BoardScene) Corners() ([]pose.Point2, error) {
	object := make([]r3.Vector, 0, s.Cols*s.Rows)
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			object = append(object, r3.Vector{X: float64(c) * s.CellSize, Y: float64(r) * s.CellSize})
		}
	}
	return pose.ProjectPoints(object, s.Pose, s.Intrinsics, pose.Distortion{})
}

// RenderBoard draws the scene on a white BGR frame. The caller must close
// the returned Mat.
func RenderBoard(s BoardScene) (gocv.Mat, error) {
	img := gocv.NewMatWithSize(s.Height, s.Width, gocv.MatTypeCV8UC3)
	img.SetTo(gocv.NewScalar(255, 255, 255, 0))

	black := color.RGBA{0, 0, 0, 0}
	for r := -1; r < s.Rows; r++ {
		for c := -1; c < s.Cols; c++ {
			if (r+c)%2 != 0 {
				continue
			}
			x0, y0 := float64(c)*s.CellSize, float64(r)*s.CellSize
			x1, y1 := x0+s.CellSize, y0+s.CellSize
			quad, err := pose.ProjectPoints([]r3.Vector{
				{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
			}, s.Pose, s.Intrinsics, pose.Distortion{})
			if err != nil {
				img.Close()
				return gocv.Mat{}, err
			}

			pts := make([]image.Point, len(quad))
			for i, q := range quad {
				pts[i] = image.Pt(int(q.X+0.5), int(q.Y+0.5))
			}
			pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
			err = gocv.FillPoly(&img, pv, black)
			pv.Close()
			if err != nil {
				img.Close()
				return gocv.Mat{}, err
			}
		}
	}

	return img, nil
}

// BlankFrame returns a frame filled with a single gray level. The caller
// must close the returned Mat.
func BlankFrame(width, height int, level float64) gocv.Mat {
	img := gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3)
	img.SetTo(gocv.NewScalar(level, level, level, 0))
	return img
}
