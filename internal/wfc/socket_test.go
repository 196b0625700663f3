package wfc

import "testing"

func TestAreCompatible(t *testing.T) {
	tests := []struct {
		a, b SocketType
		want bool
	}{
		{SocketNone, SocketNone, true},
		{SocketNone, "wall", false},
		{"wall", SocketNone, false},
		{"wall", "wall", true},
		{"wall", "door", false},
	}

	for _, tc := range tests {
		if got := AreCompatible(tc.a, tc.b); got != tc.want {
			t.Errorf("AreCompatible(%s, %s) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
		if got := AreCompatible(tc.b, tc.a); got != tc.want {
			t.Errorf("AreCompatible(%s, %s) = %v, want %v (not symmetric)", tc.b, tc.a, got, tc.want)
		}
	}
}

func TestSocketString(t *testing.T) {
	if got := SocketNone.String(); got != "none" {
		t.Errorf("SocketNone.String() = %q, want %q", got, "none")
	}
	if got := SocketType("stone").String(); got != "stone" {
		t.Errorf("SocketType(stone).String() = %q, want %q", got, "stone")
	}
}

// Placing a beside b in direction d must agree with placing b beside a in
// the opposite direction
func TestCatalogCompatibilitySymmetric(t *testing.T) {
	c := towerCatalog(t)

	for a := 0; a < c.Len(); a++ {
		for b := 0; b < c.Len(); b++ {
			for _, d := range AllDirections() {
				ab := c.Compatible(TileID(a), TileID(b), d)
				ba := c.Compatible(TileID(b), TileID(a), d.Opposite())
				if ab != ba {
					t.Errorf("Compatible(%s, %s, %s) = %v but Compatible(%s, %s, %s) = %v",
						c.Tile(TileID(a)).Name, c.Tile(TileID(b)).Name, d, ab,
						c.Tile(TileID(b)).Name, c.Tile(TileID(a)).Name, d.Opposite(), ba)
				}
				want := AreCompatible(c.Socket(TileID(a), d), c.Socket(TileID(b), d.Opposite()))
				if ab != want {
					t.Errorf("Compatible(%d, %d, %s) = %v, socket rule says %v", a, b, d, ab, want)
				}
			}
		}
	}
}
