package wfc

// Direction represents one of the six faces of a grid cell
type Direction int

const (
	Top Direction = iota
	Bottom
	North
	South
	East
	West
)

// directionCount is the number of faces a cell has
const directionCount = 6

// Offset is a unit step between adjacent grid positions
type Offset struct {
	X, Y, Z int
}

var (
	directionNames = [directionCount]string{"top", "bottom", "north", "south", "east", "west"}

	opposites = [directionCount]Direction{Bottom, Top, South, North, West, East}

	offsets = [directionCount]Offset{
		{0, 1, 0},
		{0, -1, 0},
		{0, 0, 1},
		{0, 0, -1},
		{1, 0, 0},
		{-1, 0, 0},
	}
)

// String returns the string representation of a Direction
func (d Direction) String() string {
	if !d.IsValid() {
		return "unknown"
	}
	return directionNames[d]
}

// IsValid returns true if d is one of the six faces
func (d Direction) IsValid() bool {
	return d >= Top && d <= West
}

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	if !d.IsValid() {
		return d
	}
	return opposites[d]
}

// Offset returns the unit offset to the neighbor in this direction
func (d Direction) Offset() Offset {
	if !d.IsValid() {
		return Offset{}
	}
	return offsets[d]
}

// AllDirections returns all six directions in propagation order
func AllDirections() []Direction {
	return []Direction{Top, Bottom, North, South, East, West}
}

// ParseDirection converts a lowercase direction name to a Direction
func ParseDirection(s string) (Direction, bool) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), true
		}
	}
	return 0, false
}
