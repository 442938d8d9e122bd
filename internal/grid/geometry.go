// Package grid provides the coordinate system, placement planner, and layout
// normalizer for the dashboard canvas.
//
// All functions in this package are pure: they receive a layout snapshot by
// value and return a new position or layout. Ownership of the layout stays with
// the caller.
package grid

import "math"

// Default grid dimensions.
const (
	Cols         = 12 // Columns in the canvas grid
	RowHeight    = 50 // Pixels per grid row
	HeaderHeight = 75 // Header image height in pixels
	HeaderMargin = 5  // Gap between header image and first row in pixels
)

// HeaderSnapTolerance is how far below the header boundary (in rows) a
// dropped widget still snaps onto the boundary.
const HeaderSnapTolerance = 0.5

// Geometry describes the grid a layout lives on.
type Geometry struct {
	Cols         int
	RowHeight    int
	HeaderHeight int
	HeaderMargin int
}

// Default returns the standard 12-column geometry.
func Default() Geometry {
	return Geometry{
		Cols:         Cols,
		RowHeight:    RowHeight,
		HeaderHeight: HeaderHeight,
		HeaderMargin: HeaderMargin,
	}
}

// HeaderUnits returns the number of grid rows reserved for the header band.
// Returns 0 when the header is not reserved.
func (g Geometry) HeaderUnits(reserved bool) int {
	if !reserved || g.RowHeight <= 0 {
		return 0
	}
	px := g.HeaderHeight + g.HeaderMargin
	if px <= 0 {
		return 0
	}
	return int(math.Ceil(float64(px) / float64(g.RowHeight)))
}

// Overflows reports whether a placement extends past the right edge of the grid.
func (g Geometry) Overflows(p Placement) bool {
	return p.Position.X+float64(p.Size.W) > float64(g.Cols)
}

// CellWidth returns the pixel width of one column for a canvas of the given width.
func (g Geometry) CellWidth(canvasWidth int) float64 {
	if g.Cols <= 0 {
		return 0
	}
	return float64(canvasWidth) / float64(g.Cols)
}

// PixelSize converts a grid size to pixels for a canvas of the given width.
func (g Geometry) PixelSize(s Size, canvasWidth int) (w, h float64) {
	return float64(s.W) * g.CellWidth(canvasWidth), float64(s.H * g.RowHeight)
}

// HeaderUnits returns the reserved header rows for the default geometry.
func HeaderUnits(reserved bool) int {
	return Default().HeaderUnits(reserved)
}
