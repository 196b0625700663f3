package wfc

// Seed applies the boundary and top-layer restrictions to a fresh grid and
// returns one SeedContradiction for each cell it empties. Seeding always
// runs to completion.
//
// Boundary pass: a cell on the x or z edge drops every tile whose socket on
// the outward face is not none. Top and bottom are not bounded, the top
// layer is handled by the roof pass instead.
//
// Roof pass: the top layer keeps only roof tiles.
func Seed(g *Grid) []Contradiction {
	var found []Contradiction
	report := func(c *Cell, before Domain) {
		if !before.IsEmpty() && c.Domain.IsEmpty() {
			found = append(found, Contradiction{Kind: SeedContradiction, Pos: c.Pos})
		}
	}

	g.ForEachCell(func(c *Cell) {
		before := c.Domain
		c.Domain = c.Domain.Intersect(boundaryMask(g, c.Pos))
		report(c, before)
	})

	roofs := roofMask(g.Catalog)
	top := g.Height - 1
	for x := 0; x < g.SizeX; x++ {
		for z := 0; z < g.SizeZ; z++ {
			c := g.Get(x, top, z)
			before := c.Domain
			c.Domain = c.Domain.Intersect(roofs)
			report(c, before)
		}
	}

	return found
}

// boundaryMask returns the tiles allowed at p by the grid's horizontal edges
func boundaryMask(g *Grid, p Position) Domain {
	cat := g.Catalog
	return cat.All().Filter(func(id TileID) bool {
		if p.X == 0 && !cat.Socket(id, West).IsNone() {
			return false
		}
		if p.X == g.SizeX-1 && !cat.Socket(id, East).IsNone() {
			return false
		}
		if p.Z == 0 && !cat.Socket(id, South).IsNone() {
			return false
		}
		if p.Z == g.SizeZ-1 && !cat.Socket(id, North).IsNone() {
			return false
		}
		return true
	})
}

// roofMask returns the roof tiles of the catalog
func roofMask(cat *Catalog) Domain {
	return cat.All().Filter(func(id TileID) bool {
		return cat.Tile(id).IsRoofTile
	})
}
