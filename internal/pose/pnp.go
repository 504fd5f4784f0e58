package pose

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gocv.io/x/gocv"
)

// MinCorrespondences is the smallest number of 3D-2D matches SolvePnP accepts.
const MinCorrespondences = 4

// pnpIterative selects OpenCV's SOLVEPNP_ITERATIVE: a homography (planar)
// or DLT initialisation refined by Levenberg-Marquardt.
const pnpIterative = 0

var (
	// ErrTooFewPoints is returned when fewer than MinCorrespondences matches are given.
	ErrTooFewPoints = errors.New("pose: too few point correspondences")
	// ErrPointCount is returned when the object and image point lists differ in length.
	ErrPointCount = errors.New("pose: object and image point counts differ")
	// ErrNoSolution is returned when OpenCV reports that no pose was found.
	ErrNoSolution = errors.New("pose: no solution")
)

// Solution is the result of a PnP solve.
type Solution struct {
	Pose Pose
	// RMS is the root-mean-square reprojection error in pixels. It is
	// informational; a large value does not make the solve fail.
	RMS float64
}

// SolvePnP estimates the pose of the object (board) relative to the camera
// from matched object and image points, using OpenCV's iterative solver
// with the full distortion model.
func SolvePnP(object []r3.Vector, image []Point2, in Intrinsics, d Distortion) (Solution, error) {
	if len(object) != len(image) {
		return Solution{}, fmt.Errorf("%w: %d object, %d image", ErrPointCount, len(object), len(image))
	}
	if len(object) < MinCorrespondences {
		return Solution{}, fmt.Errorf("%w: got %d, need %d", ErrTooFewPoints, len(object), MinCorrespondences)
	}

	obj := make([]gocv.Point3f, len(object))
	for i, p := range object {
		obj[i] = gocv.Point3f{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z)}
	}
	img := make([]gocv.Point2f, len(image))
	for i, p := range image {
		img[i] = gocv.Point2f{X: float32(p.X), Y: float32(p.Y)}
	}

	objVec := gocv.NewPoint3fVectorFromPoints(obj)
	defer objVec.Close()
	imgVec := gocv.NewPoint2fVectorFromPoints(img)
	defer imgVec.Close()

	k := in.Matrix()
	defer k.Close()
	dist := d.Mat()
	defer dist.Close()

	rvec := gocv.NewMat()
	defer rvec.Close()
	tvec := gocv.NewMat()
	defer tvec.Close()

	if ok := gocv.SolvePnP(objVec, imgVec, k, dist, &rvec, &tvec, false, pnpIterative); !ok {
		return Solution{}, ErrNoSolution
	}

	var (
		p   Pose
		err error
	)
	if p.Rvec, err = matVector(rvec); err != nil {
		return Solution{}, fmt.Errorf("rvec: %w", err)
	}
	if p.Tvec, err = matVector(tvec); err != nil {
		return Solution{}, fmt.Errorf("tvec: %w", err)
	}

	rms, err := ReprojectionError(object, image, p, in, d)
	if err != nil {
		return Solution{}, err
	}
	return Solution{Pose: p, RMS: rms}, nil
}

// ReprojectionError returns the RMS pixel distance between the observed
// image points and the projection of the object points under p.
func ReprojectionError(object []r3.Vector, image []Point2, p Pose, in Intrinsics, d Distortion) (float64, error) {
	if len(object) == 0 || len(object) != len(image) {
		return 0, nil
	}
	projected, err := ProjectPoints(object, p, in, d)
	if err != nil {
		return 0, err
	}
	var sum float64
	for i := range projected {
		dx := projected[i].X - image[i].X
		dy := projected[i].Y - image[i].Y
		sum += dx*dx + dy*dy
	}
	return math.Sqrt(sum / float64(len(object))), nil
}
