package grid

// LayoutItem is the record exchanged with the grid-rendering front end.
type LayoutItem struct {
	I string  `json:"i"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W int     `json:"w"`
	H int     `json:"h"`
}

// ToLayout converts placements to layout items.
func ToLayout(placements []Placement) []LayoutItem {
	items := make([]LayoutItem, len(placements))
	for i, p := range placements {
		items[i] = LayoutItem{
			I: p.ID,
			X: p.Position.X,
			Y: p.Position.Y,
			W: p.Size.W,
			H: p.Size.H,
		}
	}
	return items
}

// FromLayout converts layout items to placements.
func FromLayout(items []LayoutItem) []Placement {
	placements := make([]Placement, len(items))
	for i, it := range items {
		placements[i] = Placement{
			ID:       it.I,
			Position: Position{X: it.X, Y: it.Y},
			Size:     Size{W: it.W, H: it.H},
		}
	}
	return placements
}
