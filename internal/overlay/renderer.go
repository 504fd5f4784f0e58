package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/golang/geo/r3"
	"gocv.io/x/gocv"

	"github.com/ayusman/boardpose/internal/pose"
)

// Text overlay settings.
const (
	TextScale = 0.6
	TextFont  = gocv.FontHersheyDuplex
)

// TextOrigin is the baseline-left position of the camera position text.
var TextOrigin = image.Pt(10, 25)

// ErrEmptyFrame is returned when asked to draw on an empty image.
var ErrEmptyFrame = errors.New("overlay: empty frame")

// Renderer projects decoration shapes through a camera model and draws
// them onto frames.
type Renderer struct {
	intrinsics pose.Intrinsics
	distortion pose.Distortion
	shapes     []Shape
	textColor  color.RGBA
}

// NewRenderer creates a Renderer for the given camera and shapes.
func NewRenderer(in pose.Intrinsics, d pose.Distortion, shapes []Shape) *Renderer {
	return &Renderer{
		intrinsics: in,
		distortion: d,
		shapes:     shapes,
		textColor:  Green,
	}
}

// Shapes returns the shapes the renderer draws.
func (r *Renderer) Shapes() []Shape {
	return r.shapes
}

// Project maps a shape's points into integer pixel coordinates. Fractions
// are truncated toward zero.
func (r *Renderer) Project(s Shape, p pose.Pose) ([]image.Point, error) {
	projected, err := pose.ProjectPoints(s.Points, p, r.intrinsics, r.distortion)
	if err != nil {
		return nil, err
	}
	pts := make([]image.Point, len(projected))
	for i, q := range projected {
		pts[i] = image.Pt(int(q.X), int(q.Y))
	}
	return pts, nil
}

// Draw renders every shape as a closed polyline and writes the camera
// position, modifying img in place.
func (r *Renderer) Draw(img *gocv.Mat, p pose.Pose) error {
	if img == nil || img.Empty() {
		return ErrEmptyFrame
	}

	for _, s := range r.shapes {
		if len(s.Points) < 2 {
			continue
		}
		if err := r.drawShape(img, s, p); err != nil {
			return fmt.Errorf("shape %s: %w", s.Name, err)
		}
	}

	pos, err := pose.CameraPosition(p)
	if err != nil {
		return err
	}
	if err := gocv.PutText(img, FormatPosition(pos), TextOrigin, TextFont, TextScale, r.textColor, 1); err != nil {
		return fmt.Errorf("position text: %w", err)
	}
	return nil
}

func (r *Renderer) drawShape(img *gocv.Mat, s Shape, p pose.Pose) error {
	pts, err := r.Project(s, p)
	if err != nil {
		return err
	}
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{pts})
	defer pv.Close()
	return gocv.Polylines(img, pv, true, s.Color, s.Thickness)
}

// FormatPosition renders a camera position for the overlay text.
func FormatPosition(v r3.Vector) string {
	return fmt.Sprintf("XYZ: [%.3f %.3f %.3f]", v.X, v.Y, v.Z)
}
