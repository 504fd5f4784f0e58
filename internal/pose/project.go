package pose

import (
	"github.com/golang/geo/r3"
)

// Distort applies the lens model to a normalized image point (x/z, y/z).
func (d Distortion) Distort(p Point2) Point2 {
	if d.IsZero() {
		return p
	}
	x, y := p.X, p.Y
	r2 := x*x + y*y
	radial := 1 + r2*(d.K1+r2*(d.K2+r2*d.K3))
	return Point2{
		X: x*radial + 2*d.P1*x*y + d.P2*(r2+2*x*x),
		Y: y*radial + d.P1*(r2+2*y*y) + 2*d.P2*x*y,
	}
}

// ToPixel maps a (distorted) normalized point to pixel coordinates.
func (in Intrinsics) ToPixel(p Point2) Point2 {
	return Point2{X: in.Fx*p.X + in.Cx, Y: in.Fy*p.Y + in.Cy}
}

// ProjectPoints maps board-space points to pixel coordinates through the
// pose, the pinhole model and the distortion model. The result has the
// same length and order as points. Points at or behind the camera plane
// are projected as-is; callers draw them without clipping.
func ProjectPoints(points []r3.Vector, p Pose, in Intrinsics, d Distortion) ([]Point2, error) {
	rot, err := p.Rotation()
	if err != nil {
		return nil, err
	}
	out := make([]Point2, len(points))
	for i, pt := range points {
		c := mulVec(rot, pt).Add(p.Tvec)
		z := c.Z
		if z == 0 {
			z = 1e-12
		}
		out[i] = in.ToPixel(d.Distort(Point2{X: c.X / z, Y: c.Y / z}))
	}
	return out, nil
}
