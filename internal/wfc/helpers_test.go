package wfc

import "testing"

// tile builds a tile with every socket none and the given overrides
func tile(name string, roof bool, sockets map[Direction]SocketType) TileDefinition {
	t := TileDefinition{Name: name, IsRoofTile: roof}
	for dir, s := range sockets {
		t.Sockets[dir] = s
	}
	return t
}

func mustCatalog(t *testing.T, tiles ...TileDefinition) *Catalog {
	t.Helper()
	c, err := NewCatalog(tiles)
	if err != nil {
		t.Fatalf("NewCatalog() failed: %v", err)
	}
	return c
}

func mustGrid(t *testing.T, x, y, z int, c *Catalog) *Grid {
	t.Helper()
	g, err := NewGrid(x, y, z, c)
	if err != nil {
		t.Fatalf("NewGrid(%d, %d, %d) failed: %v", x, y, z, err)
	}
	return g
}

// fixedRand always returns the same index, clamped to n-1
type fixedRand int

func (r fixedRand) Intn(n int) int {
	if int(r) >= n {
		return n - 1
	}
	return int(r)
}

// towerCatalog is a small socketed set in the shape of a defender tower:
// walls on the outer faces are none, inner faces join on "join", floors
// stack on "stone", and roof tiles close the top
func towerCatalog(t *testing.T) *Catalog {
	t.Helper()
	return mustCatalog(t,
		tile("open", false, nil),
		tile("pillar", false, map[Direction]SocketType{Top: "stone", Bottom: "stone"}),
		tile("base", false, map[Direction]SocketType{Top: "stone"}),
		tile("beam_ew", false, map[Direction]SocketType{East: "join", West: "join"}),
		tile("beam_ns", false, map[Direction]SocketType{North: "join", South: "join"}),
		tile("cap", true, map[Direction]SocketType{Bottom: "stone"}),
		tile("flat_roof", true, nil),
	)
}
