package grid

import (
	"fmt"
	"math"
)

// CollisionPolicy tells the interaction layer whether overlapping widgets may
// be committed. The normalizer itself never resolves collisions.
type CollisionPolicy string

const (
	CollisionPrevent CollisionPolicy = "prevent"
	CollisionAllow   CollisionPolicy = "allow"
)

// ParseCollisionPolicy parses "prevent" or "allow".
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch CollisionPolicy(s) {
	case CollisionPrevent, CollisionAllow:
		return CollisionPolicy(s), nil
	default:
		return "", fmt.Errorf("collision policy must be 'prevent' or 'allow', got %q", s)
	}
}

// NormalizeLayout rewrites positions reported after a drag or resize.
//
// When the header is reserved, any y at or within HeaderSnapTolerance rows of
// the header boundary is clamped onto it, so nothing starts inside the band.
// When snapToGrid is set, x is rounded to the nearest column; otherwise it is
// kept as is. Ids, sizes, and order are preserved. The input is not modified.
func (g Geometry) NormalizeLayout(layout []Placement, headerReserved, snapToGrid bool) []Placement {
	units := float64(g.HeaderUnits(headerReserved))

	out := make([]Placement, len(layout))
	for i, p := range layout {
		if headerReserved {
			p.Position.Y = clampToHeader(p.Position.Y, units)
		}
		if snapToGrid {
			p.Position.X = math.Round(p.Position.X)
		}
		out[i] = p
	}
	return out
}

func clampToHeader(y, units float64) float64 {
	if y <= units+HeaderSnapTolerance {
		return units
	}
	return y
}

// NormalizeLayout normalizes on the default geometry.
func NormalizeLayout(layout []Placement, headerReserved, snapToGrid bool) []Placement {
	return Default().NormalizeLayout(layout, headerReserved, snapToGrid)
}

// Overlaps reports whether two placements share any area. Touching edges do
// not overlap.
func Overlaps(a, b Placement) bool {
	return a.Position.X < b.Right() &&
		b.Position.X < a.Right() &&
		a.Position.Y < b.Bottom() &&
		b.Position.Y < a.Bottom()
}

// Collisions returns every overlapping pair of ids, each pair once, in layout order.
func Collisions(layout []Placement) [][2]string {
	var pairs [][2]string
	for i := range layout {
		for j := i + 1; j < len(layout); j++ {
			if Overlaps(layout[i], layout[j]) {
				pairs = append(pairs, [2]string{layout[i].ID, layout[j].ID})
			}
		}
	}
	return pairs
}
