package tower

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/defendertower/internal/placement"
	"github.com/lawnchairsociety/defendertower/internal/wfc"
)

// FileData is the serialized form of a batch of structures
type FileData struct {
	SavedAt    time.Time       `yaml:"saved_at"`
	Structures []StructureData `yaml:"structures"`
}

// StructureData represents a serialized structure
type StructureData struct {
	Index          int                  `yaml:"index"`
	Config         StructureConfig      `yaml:"config"`
	Catalog        string               `yaml:"catalog"`
	State          string               `yaml:"state"`
	Steps          int                  `yaml:"steps"`
	Summary        wfc.Summary          `yaml:"summary"`
	GeneratedAt    time.Time            `yaml:"generated_at"`
	DurationMS     int64                `yaml:"duration_ms"`
	Tiles          []TileData           `yaml:"tiles"`
	Contradictions []ContradictionData  `yaml:"contradictions,omitempty"`
	Events         []wfc.Event          `yaml:"events,omitempty"`
	Instances      []placement.Instance `yaml:"instances,omitempty"`
}

// TileData is one resolved cell
type TileData struct {
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Z    int    `yaml:"z"`
	Tile int    `yaml:"tile"`
	Name string `yaml:"name,omitempty"`
}

// ContradictionData is one emptied cell
type ContradictionData struct {
	Kind string `yaml:"kind"`
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Z    int    `yaml:"z"`
	Step int    `yaml:"step,omitempty"`
	From string `yaml:"from,omitempty"`
}

// SaveStructures writes structures to a YAML file. names resolves tile
// names and may be nil.
func SaveStructures(structures []*Structure, names *wfc.Catalog, filename string) error {
	data := FileData{
		SavedAt:    time.Now(),
		Structures: make([]StructureData, 0, len(structures)),
	}

	for _, s := range structures {
		data.Structures = append(data.Structures, serializeStructure(s, names))
	}

	yamlData, err := yaml.Marshal(&data)
	if err != nil {
		return fmt.Errorf("failed to marshal structures: %w", err)
	}

	if err := os.WriteFile(filename, yamlData, 0644); err != nil {
		return fmt.Errorf("failed to write structures file: %w", err)
	}

	return nil
}

func serializeStructure(s *Structure, names *wfc.Catalog) StructureData {
	sd := StructureData{
		Index:       s.Index,
		Config:      s.Config,
		Catalog:     s.Fingerprint,
		State:       s.State.String(),
		Steps:       s.Steps,
		Summary:     s.Summary,
		GeneratedAt: s.GeneratedAt,
		DurationMS:  s.Duration.Milliseconds(),
		Tiles:       make([]TileData, 0, len(s.Placements)),
		Events:      s.Events,
		Instances:   s.Instances,
	}

	for _, p := range s.Placements {
		td := TileData{X: p.Pos.X, Y: p.Pos.Y, Z: p.Pos.Z, Tile: int(p.Tile)}
		if names != nil && int(p.Tile) < names.Len() {
			td.Name = names.Tile(p.Tile).Name
		}
		sd.Tiles = append(sd.Tiles, td)
	}

	for _, c := range s.Contradictions {
		cd := ContradictionData{Kind: c.Kind.String(), X: c.Pos.X, Y: c.Pos.Y, Z: c.Pos.Z}
		if c.Kind == wfc.PropagationContradiction {
			cd.Step = c.Step
			cd.From = c.From.String()
		}
		sd.Contradictions = append(sd.Contradictions, cd)
	}

	return sd
}

// LoadStructures reads structures saved by SaveStructures
func LoadStructures(filename string) ([]*Structure, time.Time, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read structures file: %w", err)
	}

	var file FileData
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to parse structures YAML: %w", err)
	}

	structures := make([]*Structure, 0, len(file.Structures))
	for _, sd := range file.Structures {
		s, err := deserializeStructure(sd)
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to deserialize structure %d: %w", sd.Index, err)
		}
		structures = append(structures, s)
	}

	return structures, file.SavedAt, nil
}

func deserializeStructure(sd StructureData) (*Structure, error) {
	state, ok := wfc.ParseRunState(sd.State)
	if !ok {
		return nil, fmt.Errorf("unknown state %q", sd.State)
	}

	s := &Structure{
		Index:       sd.Index,
		Config:      sd.Config,
		Fingerprint: sd.Catalog,
		State:       state,
		Steps:       sd.Steps,
		Summary:     sd.Summary,
		GeneratedAt: sd.GeneratedAt,
		Duration:    time.Duration(sd.DurationMS) * time.Millisecond,
		Events:      sd.Events,
		Instances:   sd.Instances,
		Placements:  make([]wfc.Placement, 0, len(sd.Tiles)),
	}

	for _, td := range sd.Tiles {
		s.Placements = append(s.Placements, wfc.Placement{
			Pos:  wfc.Position{X: td.X, Y: td.Y, Z: td.Z},
			Tile: wfc.TileID(td.Tile),
		})
	}

	for _, cd := range sd.Contradictions {
		kind, ok := wfc.ParseContradictionKind(cd.Kind)
		if !ok {
			return nil, fmt.Errorf("unknown contradiction kind %q", cd.Kind)
		}
		c := wfc.Contradiction{Kind: kind, Pos: wfc.Position{X: cd.X, Y: cd.Y, Z: cd.Z}, Step: cd.Step}
		if kind == wfc.PropagationContradiction {
			dir, ok := wfc.ParseDirection(cd.From)
			if !ok {
				return nil, fmt.Errorf("unknown direction %q", cd.From)
			}
			c.From = dir
		}
		s.Contradictions = append(s.Contradictions, c)
	}

	return s, nil
}

// StructuresFileExists checks if a structures file exists
func StructuresFileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
