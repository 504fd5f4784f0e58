// Package pose provides camera models, point projection and planar PnP
// pose estimation for the chessboard overlay.
package pose

import (
	"github.com/golang/geo/r3"
	"gocv.io/x/gocv"
)

// Point2 is a 2D point in pixel or normalized image coordinates.
type Point2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Intrinsics holds the pinhole camera parameters (focal lengths and
// principal point, in pixels). Skew is assumed to be zero.
type Intrinsics struct {
	Fx float64 `json:"fx" validate:"gt=0"`
	Fy float64 `json:"fy" validate:"gt=0"`
	Cx float64 `json:"cx"`
	Cy float64 `json:"cy"`
}

// Matrix returns the 3x3 intrinsic matrix K as a CV_64F Mat. The caller
// must close it.
func (in Intrinsics) Matrix() gocv.Mat {
	return float64Mat(3, 3, []float64{
		in.Fx, 0, in.Cx,
		0, in.Fy, in.Cy,
		0, 0, 1,
	})
}

// Distortion holds the radial (K1, K2, K3) and tangential (P1, P2)
// coefficients of the Brown-Conrady lens model, in OpenCV order.
type Distortion struct {
	K1 float64 `json:"k1"`
	K2 float64 `json:"k2"`
	P1 float64 `json:"p1"`
	P2 float64 `json:"p2"`
	K3 float64 `json:"k3"`
}

// Coefficients returns the coefficients as {k1, k2, p1, p2, k3}.
func (d Distortion) Coefficients() []float64 {
	return []float64{d.K1, d.K2, d.P1, d.P2, d.K3}
}

// Mat returns the coefficients as a 1x5 CV_64F Mat. The caller must close it.
func (d Distortion) Mat() gocv.Mat {
	return float64Mat(1, 5, d.Coefficients())
}

// IsZero reports whether the model applies no distortion.
func (d Distortion) IsZero() bool {
	return d == Distortion{}
}

// Pose is the transform from board coordinates to camera coordinates,
// X_cam = R(Rvec) * X_board + Tvec.
type Pose struct {
	Rvec r3.Vector `json:"rvec"`
	Tvec r3.Vector `json:"tvec"`
}
