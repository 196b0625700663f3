package catalog

import "github.com/lawnchairsociety/defendertower/internal/wfc"

// Socket tags used by the built-in set
const (
	SocketStone wfc.SocketType = "stone" // vertical load between stacked tiles
	SocketPlate wfc.SocketType = "plate" // floor plate joining neighboring quadrants
)

// Default returns the built-in defender tower tile set. It is shaped for a
// 2-wide, 2-deep tower where each cell is one quadrant of a floor.
func Default() *wfc.Catalog {
	c, err := wfc.NewCatalog(defaultTiles())
	if err != nil {
		panic("catalog: built-in tile set is invalid: " + err.Error())
	}
	return c
}

func defaultTiles() []wfc.TileDefinition {
	stacked := func(name string) wfc.TileDefinition {
		return wfc.TileDefinition{Name: name}.
			WithSocket(wfc.Top, SocketStone).
			WithSocket(wfc.Bottom, SocketStone)
	}

	// floor quadrant: plates on the two inner faces
	quadrant := func(name string, a, b wfc.Direction) wfc.TileDefinition {
		return stacked(name).WithSocket(a, SocketPlate).WithSocket(b, SocketPlate)
	}

	return []wfc.TileDefinition{
		{Name: "empty"},
		stacked("pillar"),
		wfc.TileDefinition{Name: "foundation"}.WithSocket(wfc.Top, SocketStone),
		quadrant("floor_sw", wfc.North, wfc.East),
		quadrant("floor_se", wfc.North, wfc.West),
		quadrant("floor_nw", wfc.South, wfc.East),
		quadrant("floor_ne", wfc.South, wfc.West),
		wfc.TileDefinition{Name: "battlement", IsRoofTile: true}.WithSocket(wfc.Bottom, SocketStone),
		wfc.TileDefinition{Name: "spire", IsRoofTile: true}.WithSocket(wfc.Bottom, SocketStone),
		{Name: "roof_flat", IsRoofTile: true},
	}
}
