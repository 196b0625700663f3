package wfc

import "testing"

func TestDirectionString(t *testing.T) {
	tests := []struct {
		d    Direction
		want string
	}{
		{Top, "top"},
		{Bottom, "bottom"},
		{North, "north"},
		{South, "south"},
		{East, "east"},
		{West, "west"},
		{Direction(99), "unknown"},
	}

	for _, tc := range tests {
		if got := tc.d.String(); got != tc.want {
			t.Errorf("Direction(%d).String() = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestDirectionOpposite(t *testing.T) {
	tests := []struct {
		d    Direction
		want Direction
	}{
		{Top, Bottom},
		{Bottom, Top},
		{North, South},
		{South, North},
		{East, West},
		{West, East},
	}

	for _, tc := range tests {
		if got := tc.d.Opposite(); got != tc.want {
			t.Errorf("%s.Opposite() = %s, want %s", tc.d, got, tc.want)
		}
		if got := tc.d.Opposite().Opposite(); got != tc.d {
			t.Errorf("%s.Opposite().Opposite() = %s, want %s", tc.d, got, tc.d)
		}
	}
}

func TestDirectionOffset(t *testing.T) {
	tests := []struct {
		d    Direction
		want Offset
	}{
		{Top, Offset{0, 1, 0}},
		{Bottom, Offset{0, -1, 0}},
		{North, Offset{0, 0, 1}},
		{South, Offset{0, 0, -1}},
		{East, Offset{1, 0, 0}},
		{West, Offset{-1, 0, 0}},
		{Direction(-1), Offset{}},
	}

	for _, tc := range tests {
		if got := tc.d.Offset(); got != tc.want {
			t.Errorf("%s.Offset() = %+v, want %+v", tc.d, got, tc.want)
		}
	}

	// Opposite directions cancel out
	for _, d := range AllDirections() {
		a, b := d.Offset(), d.Opposite().Offset()
		if a.X+b.X != 0 || a.Y+b.Y != 0 || a.Z+b.Z != 0 {
			t.Errorf("%s and %s offsets do not cancel", d, d.Opposite())
		}
	}
}

func TestAllDirections(t *testing.T) {
	dirs := AllDirections()
	if len(dirs) != 6 {
		t.Fatalf("AllDirections() returned %d directions, want 6", len(dirs))
	}
	seen := make(map[Direction]bool)
	for _, d := range dirs {
		if !d.IsValid() {
			t.Errorf("AllDirections() contains invalid direction %d", d)
		}
		seen[d] = true
	}
	if len(seen) != 6 {
		t.Errorf("AllDirections() has duplicates: %v", dirs)
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range AllDirections() {
		got, ok := ParseDirection(d.String())
		if !ok || got != d {
			t.Errorf("ParseDirection(%q) = %s, %v; want %s, true", d.String(), got, ok, d)
		}
	}
	if _, ok := ParseDirection("up"); ok {
		t.Error("ParseDirection(\"up\") should fail")
	}
}
