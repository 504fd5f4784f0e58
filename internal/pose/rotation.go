package pose

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

// Rotation returns the 3x3 rotation matrix of the pose's rotation vector.
func (p Pose) Rotation() (*mat.Dense, error) {
	rvec := vectorMat(p.Rvec)
	defer rvec.Close()

	r := gocv.NewMat()
	defer r.Close()
	if err := gocv.Rodrigues(rvec, &r); err != nil {
		return nil, fmt.Errorf("rodrigues: %w", err)
	}
	if r.Rows() != 3 || r.Cols() != 3 {
		return nil, fmt.Errorf("rodrigues: got %dx%d matrix", r.Rows(), r.Cols())
	}

	out := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out.Set(i, j, r.GetDoubleAt(i, j))
		}
	}
	return out, nil
}

// Transform maps a board-space point into camera space.
func (p Pose) Transform(pt r3.Vector) (r3.Vector, error) {
	r, err := p.Rotation()
	if err != nil {
		return r3.Vector{}, err
	}
	return mulVec(r, pt).Add(p.Tvec), nil
}

// CameraPosition returns the camera centre in board coordinates, -R^T t.
func CameraPosition(p Pose) (r3.Vector, error) {
	r, err := p.Rotation()
	if err != nil {
		return r3.Vector{}, err
	}
	return mulVec(r.T(), p.Tvec).Mul(-1), nil
}

func mulVec(m mat.Matrix, v r3.Vector) r3.Vector {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
	return r3.Vector{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// vectorMat returns v as a 3x1 CV_64F Mat. The caller must close it.
func vectorMat(v r3.Vector) gocv.Mat {
	return float64Mat(3, 1, []float64{v.X, v.Y, v.Z})
}

// matVector reads a 3-element CV_64F Mat of either orientation.
func matVector(m gocv.Mat) (r3.Vector, error) {
	if m.Total() != 3 || m.Type() != gocv.MatTypeCV64F {
		return r3.Vector{}, fmt.Errorf("expected 3 doubles, got %d of type %v", m.Total(), m.Type())
	}
	at := func(i int) float64 {
		if m.Rows() == 1 {
			return m.GetDoubleAt(0, i)
		}
		return m.GetDoubleAt(i, 0)
	}
	return r3.Vector{X: at(0), Y: at(1), Z: at(2)}, nil
}

// float64Mat builds a rows x cols CV_64F Mat from row-major values. The
// caller must close it.
func float64Mat(rows, cols int, vals []float64) gocv.Mat {
	m := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV64F)
	for i, v := range vals {
		m.SetDoubleAt(i/cols, i%cols, v)
	}
	return m
}
