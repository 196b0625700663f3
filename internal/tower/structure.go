package tower

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/lawnchairsociety/defendertower/internal/placement"
	"github.com/lawnchairsociety/defendertower/internal/wfc"
)

var ErrInvalidTileSize = errors.New("tower: tile size must be positive")

// StructureConfig holds the settings for one generated structure
type StructureConfig struct {
	SizeX    int     `yaml:"size_x" json:"size_x"`
	Height   int     `yaml:"height" json:"height"`
	SizeZ    int     `yaml:"size_z" json:"size_z"`
	TileSize float64 `yaml:"tile_size" json:"tile_size"`
	Seed     int64   `yaml:"seed" json:"seed"`
}

// DefaultStructureConfig returns the standard 2x4x2 defender tower
func DefaultStructureConfig() StructureConfig {
	return StructureConfig{
		SizeX:    2,
		Height:   4,
		SizeZ:    2,
		TileSize: 2,
	}
}

// Validate checks dimensions and tile size
func (c StructureConfig) Validate() error {
	if _, ok := wfc.CellCount(c.SizeX, c.Height, c.SizeZ); !ok {
		return fmt.Errorf("%w: %dx%dx%d", wfc.ErrInvalidDimensions, c.SizeX, c.Height, c.SizeZ)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTileSize, c.TileSize)
	}
	return nil
}

// Cells returns the number of grid cells the config describes, or
// math.MaxInt if the dimensions are invalid or too large for a grid
func (c StructureConfig) Cells() int {
	n, ok := wfc.CellCount(c.SizeX, c.Height, c.SizeZ)
	if !ok {
		return math.MaxInt
	}
	return n
}

// WithSeed returns a copy of c using seed
func (c StructureConfig) WithSeed(seed int64) StructureConfig {
	c.Seed = seed
	return c
}

// Structure is the finished output of one generation run
type Structure struct {
	Index          int
	Config         StructureConfig
	Fingerprint    string // catalog the structure was generated from
	State          wfc.RunState
	Steps          int
	Summary        wfc.Summary
	Events         []wfc.Event
	Placements     []wfc.Placement
	Contradictions []wfc.Contradiction
	Instances      []placement.Instance
	GeneratedAt    time.Time
	Duration       time.Duration
}

// Converged returns true if every cell resolved without contradiction
func (s *Structure) Converged() bool {
	return s.State == wfc.Converged
}
