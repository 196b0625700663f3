package wfc

import "fmt"

// MaxTiles is the largest catalog a Domain bitset can hold
const MaxTiles = 64

// TileID identifies a tile by its index in the Catalog
type TileID int

// TileDefinition describes one placeable tile: a socket per face and
// whether it may cap the structure
type TileDefinition struct {
	Name       string
	Sockets    [directionCount]SocketType // indexed by Direction
	IsRoofTile bool
}

// Socket returns the socket on the given face
func (t TileDefinition) Socket(dir Direction) SocketType {
	if !dir.IsValid() {
		return SocketNone
	}
	return t.Sockets[dir]
}

// WithSocket returns a copy of t with the socket on dir replaced
func (t TileDefinition) WithSocket(dir Direction, s SocketType) TileDefinition {
	if dir.IsValid() {
		t.Sockets[dir] = s
	}
	return t
}

// Catalog is the ordered, read-only set of tiles a grid draws from
type Catalog struct {
	tiles []TileDefinition

	// compat[dir][a] is the set of tiles that may sit on the dir side of tile a
	compat [directionCount][]Domain
	all    Domain
}

// NewCatalog builds a catalog from tiles. The slice is copied, so later
// changes by the caller are not seen by the catalog.
func NewCatalog(tiles []TileDefinition) (*Catalog, error) {
	if len(tiles) == 0 {
		return nil, ErrEmptyCatalog
	}
	if len(tiles) > MaxTiles {
		return nil, fmt.Errorf("%w: %d tiles, limit is %d", ErrCatalogTooLarge, len(tiles), MaxTiles)
	}

	c := &Catalog{
		tiles: append([]TileDefinition(nil), tiles...),
		all:   FullDomain(len(tiles)),
	}

	for _, dir := range AllDirections() {
		c.compat[dir] = make([]Domain, len(tiles))
		for a := range c.tiles {
			want := c.tiles[a].Socket(dir)
			var mask Domain
			for b := range c.tiles {
				if AreCompatible(want, c.tiles[b].Socket(dir.Opposite())) {
					mask = mask.With(TileID(b))
				}
			}
			c.compat[dir][a] = mask
		}
	}

	return c, nil
}

// Len returns the number of tiles in the catalog
func (c *Catalog) Len() int {
	return len(c.tiles)
}

// Tile returns the definition for id
func (c *Catalog) Tile(id TileID) TileDefinition {
	return c.tiles[id]
}

// Tiles returns a copy of the tile definitions in catalog order
func (c *Catalog) Tiles() []TileDefinition {
	return append([]TileDefinition(nil), c.tiles...)
}

// Socket returns the socket of tile id on face dir
func (c *Catalog) Socket(id TileID, dir Direction) SocketType {
	return c.tiles[id].Socket(dir)
}

// All returns the domain containing every tile in the catalog
func (c *Catalog) All() Domain {
	return c.all
}

// Compatible returns true if tile b may be placed on the dir side of tile a
func (c *Catalog) Compatible(a, b TileID, dir Direction) bool {
	return c.compat[dir][a].Has(b)
}

// allowedFrom returns every tile that may sit on the dir side of at least
// one tile in d
func (c *Catalog) allowedFrom(d Domain, dir Direction) Domain {
	var allowed Domain
	d.Each(func(id TileID) {
		allowed = allowed.Union(c.compat[dir][id])
	})
	return allowed
}

// Lookup returns the id of the first tile with the given name
func (c *Catalog) Lookup(name string) (TileID, bool) {
	for i, t := range c.tiles {
		if t.Name == name {
			return TileID(i), true
		}
	}
	return 0, false
}
