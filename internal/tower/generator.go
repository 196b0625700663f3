package tower

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/lawnchairsociety/defendertower/internal/catalog"
	"github.com/lawnchairsociety/defendertower/internal/logger"
	"github.com/lawnchairsociety/defendertower/internal/placement"
	"github.com/lawnchairsociety/defendertower/internal/wfc"
)

// Generator builds structures from a tile catalog
type Generator struct {
	catalog     *wfc.Catalog
	fingerprint string
	parent      placement.Transform
	log         *slog.Logger
}

// NewGenerator creates a generator for catalog. A nil catalog uses the
// built-in defender set.
func NewGenerator(c *wfc.Catalog) *Generator {
	if c == nil {
		c = catalog.Default()
	}
	return &Generator{
		catalog:     c,
		fingerprint: catalog.Fingerprint(c),
		log:         logger.With("component", "generator"),
	}
}

// SetParent sets the transform every structure's tiles are placed under
func (g *Generator) SetParent(t placement.Transform) {
	g.parent = t
}

// Catalog returns the generator's tile catalog
func (g *Generator) Catalog() *wfc.Catalog {
	return g.catalog
}

// Fingerprint returns the catalog fingerprint
func (g *Generator) Fingerprint() string {
	return g.fingerprint
}

// Run is a generation in progress. It is driven one collapse at a time by
// Step, which lets callers animate placement.
type Run struct {
	Config StructureConfig
	Index  int

	gen     *Generator
	engine  *wfc.Engine
	scene   *placement.Scene
	started time.Time
}

// Start builds and seeds a grid for cfg
func (g *Generator) Start(cfg StructureConfig) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid, err := wfc.NewGrid(cfg.SizeX, cfg.Height, cfg.SizeZ, g.catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to create grid: %w", err)
	}

	r := &Run{
		Config: cfg,
		gen:    g,
		engine: wfc.NewEngine(grid, rand.New(rand.NewSource(cfg.Seed))),
		scene: placement.NewScene(placement.Layout{
			TileSize: cfg.TileSize,
			SizeX:    cfg.SizeX,
			SizeZ:    cfg.SizeZ,
			Parent:   g.parent,
		}, g.catalog),
		started: time.Now(),
	}

	r.engine.OnContradiction = func(c wfc.Contradiction) {
		logger.Warning("contradiction",
			"kind", c.Kind.String(),
			"pos", c.Pos.String(),
			"step", c.Step,
			"seed", cfg.Seed,
		)
	}

	r.engine.Seed()
	g.log.Debug("grid seeded", "seed", cfg.Seed, "cells", grid.Len(), "open", grid.Count(wfc.CellOpen))
	return r, nil
}

// Step collapses one cell and places its tile. It returns false once
// nothing is left to collapse.
func (r *Run) Step() (wfc.Event, placement.Instance, bool) {
	ev, ok := r.engine.Step()
	if !ok {
		return wfc.Event{}, placement.Instance{}, false
	}
	return ev, r.scene.Place(ev.Pos, ev.Tile), true
}

// Engine exposes the underlying collapse engine
func (r *Run) Engine() *wfc.Engine {
	return r.engine
}

// Finish runs any remaining steps and extracts the structure. Cells that
// resolved by propagation are placed here, and cells emptied after they
// were placed are dropped.
func (r *Run) Finish() *Structure {
	for {
		if _, _, ok := r.Step(); !ok {
			break
		}
	}

	res := r.engine.Result()
	r.scene.Reset()
	r.scene.PlaceAll(res.Placements)

	s := &Structure{
		Index:          r.Index,
		Config:         r.Config,
		Fingerprint:    r.gen.fingerprint,
		State:          res.State,
		Steps:          res.Steps,
		Summary:        res.Summary,
		Events:         res.Events,
		Placements:     res.Placements,
		Contradictions: res.Contradictions,
		Instances:      r.scene.Instances(),
		GeneratedAt:    r.started,
		Duration:       time.Since(r.started),
	}

	r.gen.log.Info("structure generated",
		"seed", r.Config.Seed,
		"state", s.State.String(),
		"steps", s.Steps,
		"resolved", s.Summary.Resolved,
		"contradicted", s.Summary.Contradicted,
	)
	return s
}

// Generate runs the whole pipeline for cfg
func (g *Generator) Generate(cfg StructureConfig) (*Structure, error) {
	r, err := g.Start(cfg)
	if err != nil {
		return nil, err
	}
	return r.Finish(), nil
}

// GenerateBatch generates count structures, structure i using seed
// base.Seed+i
func (g *Generator) GenerateBatch(base StructureConfig, count int) ([]*Structure, error) {
	if count <= 0 {
		return nil, fmt.Errorf("tower: batch count must be positive, got %d", count)
	}

	structures := make([]*Structure, 0, count)
	for i := 0; i < count; i++ {
		r, err := g.Start(base.WithSeed(base.Seed + int64(i)))
		if err != nil {
			return nil, fmt.Errorf("failed to generate structure %d: %w", i, err)
		}
		r.Index = i
		structures = append(structures, r.Finish())
	}
	return structures, nil
}
