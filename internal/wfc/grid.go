package wfc

import "fmt"

// Position is an integer grid coordinate
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	Z int `json:"z" yaml:"z"`
}

// Add returns p moved by o
func (p Position) Add(o Offset) Position {
	return Position{p.X + o.X, p.Y + o.Y, p.Z + o.Z}
}

// String returns "x,y,z"
func (p Position) String() string {
	return fmt.Sprintf("%d,%d,%d", p.X, p.Y, p.Z)
}

// Less orders positions lexicographically by x, then y, then z
func (p Position) Less(o Position) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.Z < o.Z
}

// CellState classifies a cell by its domain size
type CellState int

const (
	CellOpen         CellState = iota // more than one tile possible
	CellResolved                      // exactly one tile
	CellContradicted                  // no tile fits
)

// String returns the string representation of a CellState
func (s CellState) String() string {
	switch s {
	case CellOpen:
		return "open"
	case CellResolved:
		return "resolved"
	case CellContradicted:
		return "contradicted"
	default:
		return "unknown"
	}
}

// Cell holds the possibilities left at one grid position
type Cell struct {
	Pos    Position
	Domain Domain
}

// Entropy returns the number of tiles still possible
func (c *Cell) Entropy() int {
	return c.Domain.Len()
}

// State returns the cell's state derived from its domain size
func (c *Cell) State() CellState {
	switch n := c.Domain.Len(); {
	case n == 0:
		return CellContradicted
	case n == 1:
		return CellResolved
	default:
		return CellOpen
	}
}

// Tile returns the resolved tile, or false if the cell is not resolved
func (c *Cell) Tile() (TileID, bool) {
	if c.Domain.Len() != 1 {
		return 0, false
	}
	return c.Domain.First()
}

// MaxCells is the largest grid NewGrid will allocate
const MaxCells = 1 << 24

// CellCount returns sizeX*height*sizeZ, or false if any extent is not
// positive or the product exceeds MaxCells
func CellCount(sizeX, height, sizeZ int) (int, bool) {
	if sizeX <= 0 || height <= 0 || sizeZ <= 0 {
		return 0, false
	}
	// divide before multiplying so a wrapped product never slips through
	if sizeX > MaxCells/height {
		return 0, false
	}
	xy := sizeX * height
	if xy > MaxCells/sizeZ {
		return 0, false
	}
	return xy * sizeZ, true
}

// Grid is a dense sizeX × height × sizeZ array of cells
type Grid struct {
	SizeX, Height, SizeZ int
	Catalog              *Catalog

	cells []Cell
}

// NewGrid creates a grid where every cell may hold any tile of catalog
func NewGrid(sizeX, height, sizeZ int, catalog *Catalog) (*Grid, error) {
	n, ok := CellCount(sizeX, height, sizeZ)
	if !ok {
		return nil, fmt.Errorf("%w: %dx%dx%d", ErrInvalidDimensions, sizeX, height, sizeZ)
	}
	if catalog == nil || catalog.Len() == 0 {
		return nil, ErrEmptyCatalog
	}

	g := &Grid{
		SizeX:   sizeX,
		Height:  height,
		SizeZ:   sizeZ,
		Catalog: catalog,
		cells:   make([]Cell, n),
	}

	all := catalog.All()
	for i := range g.cells {
		g.cells[i] = Cell{Pos: g.position(i), Domain: all}
	}

	return g, nil
}

// Len returns the number of cells in the grid
func (g *Grid) Len() int {
	return len(g.cells)
}

// InBounds returns true if (x, y, z) lies inside the grid
func (g *Grid) InBounds(x, y, z int) bool {
	return x >= 0 && x < g.SizeX && y >= 0 && y < g.Height && z >= 0 && z < g.SizeZ
}

// Contains returns true if p lies inside the grid
func (g *Grid) Contains(p Position) bool {
	return g.InBounds(p.X, p.Y, p.Z)
}

// Get returns the cell at (x, y, z). Out-of-range access is a bug in the
// caller and panics with an error wrapping ErrIndexOutOfRange.
func (g *Grid) Get(x, y, z int) *Cell {
	if !g.InBounds(x, y, z) {
		panic(fmt.Errorf("%w: %d,%d,%d outside %dx%dx%d", ErrIndexOutOfRange, x, y, z, g.SizeX, g.Height, g.SizeZ))
	}
	return &g.cells[g.index(x, y, z)]
}

// At returns the cell at p, with the same panic behavior as Get
func (g *Grid) At(p Position) *Cell {
	return g.Get(p.X, p.Y, p.Z)
}

// Neighbor returns the position next to p in direction dir, or false if it
// falls outside the grid
func (g *Grid) Neighbor(p Position, dir Direction) (Position, bool) {
	n := p.Add(dir.Offset())
	return n, g.Contains(n)
}

// ForEachCell calls fn for every cell in ascending (x, y, z) order
func (g *Grid) ForEachCell(fn func(c *Cell)) {
	for i := range g.cells {
		fn(&g.cells[i])
	}
}

// Snapshot returns every cell's domain size in ascending (x, y, z) order
func (g *Grid) Snapshot() []int {
	sizes := make([]int, len(g.cells))
	for i := range g.cells {
		sizes[i] = g.cells[i].Domain.Len()
	}
	return sizes
}

// Count returns how many cells are in the given state
func (g *Grid) Count(state CellState) int {
	n := 0
	for i := range g.cells {
		if g.cells[i].State() == state {
			n++
		}
	}
	return n
}

// index flattens (x, y, z) so that linear order matches lexicographic order
func (g *Grid) index(x, y, z int) int {
	return (x*g.Height+y)*g.SizeZ + z
}

func (g *Grid) position(i int) Position {
	z := i % g.SizeZ
	i /= g.SizeZ
	y := i % g.Height
	x := i / g.Height
	return Position{x, y, z}
}
