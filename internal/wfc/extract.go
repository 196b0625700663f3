package wfc

// Placement is a resolved cell handed to the placement collaborator
type Placement struct {
	Pos  Position `json:"pos"`
	Tile TileID   `json:"tile"`
}

// Summary counts cells by final state
type Summary struct {
	Resolved     int `json:"resolved"`
	Contradicted int `json:"contradicted"`
	Unresolved   int `json:"unresolved"`
}

// Total returns the number of cells counted
func (s Summary) Total() int {
	return s.Resolved + s.Contradicted + s.Unresolved
}

// Result is the outcome of a generation run
type Result struct {
	State          RunState
	Steps          int
	Events         []Event
	Placements     []Placement
	Summary        Summary
	Contradictions []Contradiction
}

// Extract walks the grid in ascending (x, y, z) order and returns one
// placement per resolved cell. Contradicted and open cells are skipped and
// only counted. Extract does not modify the grid.
func Extract(g *Grid) ([]Placement, Summary) {
	var placements []Placement
	var summary Summary

	g.ForEachCell(func(c *Cell) {
		switch c.State() {
		case CellResolved:
			tile, _ := c.Tile()
			placements = append(placements, Placement{Pos: c.Pos, Tile: tile})
			summary.Resolved++
		case CellContradicted:
			summary.Contradicted++
		default:
			summary.Unresolved++
		}
	})

	return placements, summary
}
