// Package overlay draws the face doodle and the camera position on frames
// in which the board pose is known.
package overlay

import (
	"image/color"

	"github.com/golang/geo/r3"
)

// Stroke colors.
var (
	Black = color.RGBA{0, 0, 0, 0}
	Red   = color.RGBA{255, 0, 0, 0}
	Blue  = color.RGBA{0, 0, 255, 0}
	Green = color.RGBA{0, 255, 0, 0}
)

// StrokeWidth is the line thickness of every decoration.
const StrokeWidth = 4

// Shape is a closed outline in board coordinates.
type Shape struct {
	Name      string
	Points    []r3.Vector
	Color     color.RGBA
	Thickness int
}

// cellPoint is a board position in cell units: column, row, height.
// Negative heights are above the board, towards the camera.
type cellPoint [3]float64

type shapeDef struct {
	name   string
	points []cellPoint
	color  color.RGBA
}

// face is the doodle drawn two cells above the board; the nose rises to
// three cells.
var face = [...]shapeDef{
	{
		name: "outline",
		points: []cellPoint{
			{3, 0, -2}, {4, 0, -2}, {5, 0.5, -2}, {5.5, 1, -2},
			{6, 2, -2}, {6, 3, -2}, {5.5, 4, -2}, {5, 4.5, -2},
			{4, 5, -2}, {3, 5, -2}, {2, 4.5, -2}, {1.5, 4, -2},
			{1, 3, -2}, {1, 2, -2}, {1.5, 1, -2}, {2, 0.5, -2},
		},
		color: Black,
	},
	{name: "left_eye", points: []cellPoint{{2, 1.5, -2}, {3, 2, -2}, {2, 2.5, -2}}, color: Red},
	{name: "right_eye", points: []cellPoint{{5, 1.5, -2}, {4, 2, -2}, {5, 2.5, -2}}, color: Red},
	{name: "mouth", points: []cellPoint{{2.5, 3.5, -2}, {4.5, 3.5, -2}, {3.5, 4.5, -2}}, color: Red},
	{name: "nose_left", points: []cellPoint{{3, 3, -2}, {3.5, 2.5, -2}, {3.5, 3, -3}}, color: Blue},
	{name: "nose_right", points: []cellPoint{{4, 3, -2}, {3.5, 2.5, -2}, {3.5, 3, -3}}, color: Blue},
	{name: "nose_bottom", points: []cellPoint{{3, 3, -2}, {4, 3, -2}, {3.5, 3, -3}}, color: Blue},
}

// Face returns the doodle scaled to a board with the given cell size.
// Each call returns fresh slices.
func Face(cellSize float64) []Shape {
	shapes := make([]Shape, len(face))
	for i, def := range face {
		pts := make([]r3.Vector, len(def.points))
		for j, p := range def.points {
			pts[j] = r3.Vector{X: p[0] * cellSize, Y: p[1] * cellSize, Z: p[2] * cellSize}
		}
		shapes[i] = Shape{
			Name:      def.name,
			Points:    pts,
			Color:     def.color,
			Thickness: StrokeWidth,
		}
	}
	return shapes
}
