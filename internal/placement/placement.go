// Package placement turns resolved grid cells into positioned tile
// instances relative to a parent transform.
package placement

import (
	"math"
	"sort"

	"github.com/lawnchairsociety/defendertower/internal/wfc"
)

// Vec3 is a point in world or local space. Y is up.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Add returns v + o
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Scale returns v scaled by s
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Transform is the parent that owns a generated structure. Yaw is in
// degrees around the up axis, clockwise seen from above. A zero Scale is
// treated as 1.
type Transform struct {
	Position Vec3    `json:"position" yaml:"position"`
	Yaw      float64 `json:"yaw" yaml:"yaw"`
	Scale    float64 `json:"scale,omitempty" yaml:"scale,omitempty"`
}

// Apply maps a local point into the transform's parent space
func (t Transform) Apply(local Vec3) Vec3 {
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	rad := t.Yaw * math.Pi / 180
	sin, cos := math.Sincos(rad)

	p := local.Scale(scale)
	rotated := Vec3{
		X: p.X*cos + p.Z*sin,
		Y: p.Y,
		Z: -p.X*sin + p.Z*cos,
	}
	return rotated.Add(t.Position)
}

// Layout describes how grid cells map to space
type Layout struct {
	TileSize float64
	SizeX    int
	SizeZ    int
	Parent   Transform
}

// LocalPosition centres the grid footprint on the parent origin and stacks
// layers upward from it
func (l Layout) LocalPosition(p wfc.Position) Vec3 {
	halfX := float64(l.SizeX-1) * 0.5
	halfZ := float64(l.SizeZ-1) * 0.5
	return Vec3{
		X: (float64(p.X) - halfX) * l.TileSize,
		Y: float64(p.Y) * l.TileSize,
		Z: (float64(p.Z) - halfZ) * l.TileSize,
	}
}

// WorldPosition returns the position of cell p in the parent's space
func (l Layout) WorldPosition(p wfc.Position) Vec3 {
	return l.Parent.Apply(l.LocalPosition(p))
}

// Instance is one placed tile
type Instance struct {
	Cell     wfc.Position `json:"cell" yaml:"cell"`
	Tile     wfc.TileID   `json:"tile" yaml:"tile"`
	Name     string       `json:"name" yaml:"name"`
	Position Vec3         `json:"position" yaml:"position"`
	Yaw      float64      `json:"yaw" yaml:"yaw"`
}

// Scene holds at most one instance per grid cell
type Scene struct {
	layout    Layout
	catalog   *wfc.Catalog
	instances map[wfc.Position]Instance
}

// NewScene creates an empty scene for layout. catalog may be nil, in which
// case instances carry no tile name.
func NewScene(layout Layout, catalog *wfc.Catalog) *Scene {
	return &Scene{
		layout:    layout,
		catalog:   catalog,
		instances: make(map[wfc.Position]Instance),
	}
}

// Layout returns the scene's layout
func (s *Scene) Layout() Layout {
	return s.layout
}

// Place positions tile at cell p. An instance already at p is replaced.
func (s *Scene) Place(p wfc.Position, tile wfc.TileID) Instance {
	inst := Instance{
		Cell:     p,
		Tile:     tile,
		Position: s.layout.WorldPosition(p),
		Yaw:      s.layout.Parent.Yaw,
	}
	if s.catalog != nil {
		inst.Name = s.catalog.Tile(tile).Name
	}

	s.instances[p] = inst
	return inst
}

// PlaceAll places every placement in order
func (s *Scene) PlaceAll(placements []wfc.Placement) {
	for _, pl := range placements {
		s.Place(pl.Pos, pl.Tile)
	}
}

// Remove drops the instance at p, if any
func (s *Scene) Remove(p wfc.Position) bool {
	if _, ok := s.instances[p]; !ok {
		return false
	}
	delete(s.instances, p)
	return true
}

// Reset clears the scene before a new generation
func (s *Scene) Reset() {
	clear(s.instances)
}

// Len returns the number of placed instances
func (s *Scene) Len() int {
	return len(s.instances)
}

// Get returns the instance at p
func (s *Scene) Get(p wfc.Position) (Instance, bool) {
	inst, ok := s.instances[p]
	return inst, ok
}

// Instances returns every instance in ascending (x, y, z) cell order
func (s *Scene) Instances() []Instance {
	out := make([]Instance, 0, len(s.instances))
	for _, inst := range s.instances {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Cell.Less(out[j].Cell)
	})
	return out
}

// Place maps a full set of placements into instances without keeping a
// scene around
func Place(layout Layout, catalog *wfc.Catalog, placements []wfc.Placement) []Instance {
	s := NewScene(layout, catalog)
	s.PlaceAll(placements)
	return s.Instances()
}
