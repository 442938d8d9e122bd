package grid

import (
	"encoding/json"
	"reflect"
	"testing"
)

func sampleLayout() []Placement {
	return []Placement{
		place("a", 0, 0, 4, 2),
		place("b", 3.37, 1, 3, 3),
		place("c", 5.5, 2.4, 2, 1),
		place("d", 8.49, 2.6, 4, 5),
		place("e", 1.6, 10, 6, 2),
		place("f", 0, -1, 2, 2),
	}
}

func TestNormalizeLayout_HeaderClamp(t *testing.T) {
	tests := []struct {
		name string
		y    float64
		want float64
	}{
		{"above band", 0, 2},
		{"negative", -3, 2},
		{"inside band", 1.9, 2},
		{"on boundary", 2, 2},
		{"within tolerance", 2.5, 2},
		{"past tolerance", 2.51, 2.51},
		{"well below", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLayout([]Placement{place("a", 0, tt.y, 2, 2)}, true, false)
			if got[0].Position.Y != tt.want {
				t.Errorf("y=%v: got %v, want %v", tt.y, got[0].Position.Y, tt.want)
			}
		})
	}
}

func TestNormalizeLayout_NoHeaderLeavesY(t *testing.T) {
	layout := sampleLayout()
	got := NormalizeLayout(layout, false, false)

	for i := range layout {
		if got[i].Position.Y != layout[i].Position.Y {
			t.Errorf("%s: y changed from %v to %v", layout[i].ID, layout[i].Position.Y, got[i].Position.Y)
		}
	}
}

func TestNormalizeLayout_HeaderReservationNeverViolated(t *testing.T) {
	units := float64(HeaderUnits(true))
	for _, snap := range []bool{false, true} {
		for _, p := range NormalizeLayout(sampleLayout(), true, snap) {
			if p.Position.Y < units {
				t.Errorf("snap=%v: %s has y=%v inside header band (%v rows)", snap, p.ID, p.Position.Y, units)
			}
		}
	}
}

func TestNormalizeLayout_Snap(t *testing.T) {
	tests := []struct {
		x    float64
		want float64
	}{
		{0, 0},
		{3.37, 3},
		{5.5, 6},
		{8.49, 8},
		{1.6, 2},
	}

	for _, tt := range tests {
		got := NormalizeLayout([]Placement{place("a", tt.x, 4, 2, 2)}, false, true)
		if got[0].Position.X != tt.want {
			t.Errorf("x=%v: got %v, want %v", tt.x, got[0].Position.X, tt.want)
		}
	}
}

func TestNormalizeLayout_Idempotent(t *testing.T) {
	for _, header := range []bool{false, true} {
		for _, snap := range []bool{false, true} {
			once := NormalizeLayout(sampleLayout(), header, snap)
			twice := NormalizeLayout(once, header, snap)
			if !reflect.DeepEqual(once, twice) {
				t.Errorf("header=%v snap=%v: not idempotent\nonce:  %+v\ntwice: %+v", header, snap, once, twice)
			}
		}
	}
}

func TestNormalizeLayout_PreservesIDAndSize(t *testing.T) {
	layout := sampleLayout()
	got := NormalizeLayout(layout, true, true)

	if len(got) != len(layout) {
		t.Fatalf("got %d placements, want %d", len(got), len(layout))
	}
	for i := range layout {
		if got[i].ID != layout[i].ID {
			t.Errorf("index %d: id %q, want %q", i, got[i].ID, layout[i].ID)
		}
		if got[i].Size != layout[i].Size {
			t.Errorf("%s: size %+v, want %+v", layout[i].ID, got[i].Size, layout[i].Size)
		}
	}
}

func TestNormalizeLayout_FreePlacementPassthrough(t *testing.T) {
	layout := []Placement{place("free", 3.37, 0, 2, 2)}

	got := NormalizeLayout(layout, true, false)
	if got[0].Position.X != 3.37 {
		t.Errorf("x = %v, want 3.37", got[0].Position.X)
	}
	if got[0].Position.Y != 2 {
		t.Errorf("y = %v, want header clamp to 2", got[0].Position.Y)
	}
}

func TestNormalizeLayout_DoesNotMutateInput(t *testing.T) {
	layout := sampleLayout()
	want := sampleLayout()

	_ = NormalizeLayout(layout, true, true)

	if !reflect.DeepEqual(layout, want) {
		t.Errorf("input mutated: %+v", layout)
	}
}

func TestNormalizeLayout_Empty(t *testing.T) {
	got := NormalizeLayout(nil, true, true)
	if len(got) != 0 {
		t.Errorf("expected empty layout, got %+v", got)
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Placement
		want bool
	}{
		{"disjoint", place("a", 0, 0, 2, 2), place("b", 5, 5, 2, 2), false},
		{"touching edge", place("a", 0, 0, 2, 2), place("b", 2, 0, 2, 2), false},
		{"touching bottom", place("a", 0, 0, 2, 2), place("b", 0, 2, 2, 2), false},
		{"overlap", place("a", 0, 0, 3, 3), place("b", 2, 2, 3, 3), true},
		{"contained", place("a", 0, 0, 6, 6), place("b", 1, 1, 1, 1), true},
		{"fractional overlap", place("a", 0, 0, 2, 2), place("b", 1.5, 0, 2, 2), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Errorf("Overlaps (swapped) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollisions(t *testing.T) {
	layout := []Placement{
		place("a", 0, 0, 4, 4),
		place("b", 2, 2, 4, 4),
		place("c", 8, 0, 4, 4),
		place("d", 3, 3, 1, 1),
	}

	got := Collisions(layout)
	want := [][2]string{{"a", "b"}, {"a", "d"}, {"b", "d"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collisions = %v, want %v", got, want)
	}

	if got := Collisions(layout[2:3]); got != nil {
		t.Errorf("single placement: got %v, want nil", got)
	}
}

func TestParseCollisionPolicy(t *testing.T) {
	for _, s := range []string{"prevent", "allow"} {
		if p, err := ParseCollisionPolicy(s); err != nil || string(p) != s {
			t.Errorf("ParseCollisionPolicy(%q) = %q, %v", s, p, err)
		}
	}
	if _, err := ParseCollisionPolicy("overlap"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	layout := sampleLayout()
	if got := FromLayout(ToLayout(layout)); !reflect.DeepEqual(got, layout) {
		t.Errorf("round trip changed layout: %+v", got)
	}

	data, err := json.Marshal(ToLayout(layout[:1]))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `[{"i":"a","x":0,"y":0,"w":4,"h":2}]`; string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}
