package grid

// Position is a grid-cell coordinate. X may be fractional when a widget was
// placed freely without snapping.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a grid-cell span.
type Size struct {
	W int `json:"width"`
	H int `json:"height"`
}

// Placement is the part of a widget that matters for layout.
type Placement struct {
	ID       string
	Position Position
	Size     Size
}

// Bottom returns the row just below the placement.
func (p Placement) Bottom() float64 {
	return p.Position.Y + float64(p.Size.H)
}

// Right returns the column just right of the placement.
func (p Placement) Right() float64 {
	return p.Position.X + float64(p.Size.W)
}

// FindNextPosition returns where a new widget of the given size should go.
//
// Only the bottommost row is considered: the widget is appended after the
// right-most item of that row if it fits, otherwise it starts a new row below
// every existing placement. Gaps in earlier rows are never filled.
//
// width must not exceed g.Cols. This is not checked; a wider request yields a
// position whose right edge overflows the grid.
func (g Geometry) FindNextPosition(placements []Placement, headerReserved bool, width, height int) Position {
	units := float64(g.HeaderUnits(headerReserved))

	if len(placements) == 0 {
		return Position{X: 0, Y: units}
	}

	currentRowY := placements[0].Position.Y
	for _, p := range placements[1:] {
		currentRowY = max(currentRowY, p.Position.Y)
	}

	// Later entries win ties on X.
	last := -1
	for i, p := range placements {
		if p.Position.Y != currentRowY {
			continue
		}
		if last < 0 || p.Position.X >= placements[last].Position.X {
			last = i
		}
	}

	if last >= 0 {
		end := placements[last].Right()
		if end+float64(width) <= float64(g.Cols) {
			return Position{X: end, Y: currentRowY}
		}
	}

	maxY := placements[0].Bottom()
	for _, p := range placements[1:] {
		maxY = max(maxY, p.Bottom())
	}
	return Position{X: 0, Y: max(maxY, units)}
}

// Arrange re-places every placement in list order as if each had just been
// added to an empty canvas. Sizes and ids are preserved.
func (g Geometry) Arrange(placements []Placement, headerReserved bool) []Placement {
	out := make([]Placement, 0, len(placements))
	for _, p := range placements {
		p.Position = g.FindNextPosition(out, headerReserved, p.Size.W, p.Size.H)
		out = append(out, p)
	}
	return out
}

// FindNextPosition computes a placement on the default geometry.
func FindNextPosition(placements []Placement, headerReserved bool, width, height int) Position {
	return Default().FindNextPosition(placements, headerReserved, width, height)
}

// Arrange re-flows placements on the default geometry.
func Arrange(placements []Placement, headerReserved bool) []Placement {
	return Default().Arrange(placements, headerReserved)
}
