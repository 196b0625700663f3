package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/defendertower/internal/wfc"
)

const sampleYAML = `tiles:
  - name: wall_corner
    roof: false
    sockets: {top: stone, bottom: stone, north: none, south: wall, east: wall}
  - name: open
  - name: cap
    roof: true
    sockets:
      Bottom: stone
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}

	corner := c.Tile(0)
	if corner.Name != "wall_corner" || corner.IsRoofTile {
		t.Errorf("tile 0 = %+v", corner)
	}

	tests := []struct {
		dir  wfc.Direction
		want wfc.SocketType
	}{
		{wfc.Top, "stone"},
		{wfc.Bottom, "stone"},
		{wfc.North, wfc.SocketNone},
		{wfc.South, "wall"},
		{wfc.East, "wall"},
		{wfc.West, wfc.SocketNone},
	}
	for _, tt := range tests {
		if got := corner.Socket(tt.dir); got != tt.want {
			t.Errorf("wall_corner %s socket = %s, want %s", tt.dir, got, tt.want)
		}
	}

	if open := c.Tile(1); open.Sockets != [6]wfc.SocketType{} {
		t.Errorf("open sockets = %v, want all none", open.Sockets)
	}
	if roof := c.Tile(2); !roof.IsRoofTile || roof.Socket(wfc.Bottom) != "stone" {
		t.Errorf("cap = %+v, direction keys should be case-insensitive", roof)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"unknown direction", "tiles:\n  - name: a\n    sockets: {up: stone}\n", ErrUnknownDirection},
		{"duplicate", "tiles:\n  - name: a\n  - name: a\n", ErrDuplicateTile},
		{"unnamed", "tiles:\n  - roof: true\n", ErrUnnamedTile},
		{"empty", "tiles: []\n", wfc.ErrEmptyCatalog},
		{"repeated direction", "tiles:\n  - name: a\n    sockets: {Top: stone, top: wood}\n", ErrRepeatedSocket},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Parse([]byte("tiles: [unclosed")); err == nil {
		t.Error("Parse should fail on malformed YAML")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want ErrNotExist", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.yaml")
	original := Default()

	if err := Save(original, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if Fingerprint(loaded) != Fingerprint(original) {
		t.Error("fingerprint changed after save and load")
	}
	if loaded.Len() != original.Len() {
		t.Errorf("loaded %d tiles, want %d", loaded.Len(), original.Len())
	}
}

func TestFingerprint(t *testing.T) {
	a, _ := Parse([]byte(sampleYAML))
	b, _ := Parse([]byte(sampleYAML))

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("identical catalogs have different fingerprints")
	}
	if len(Fingerprint(a)) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(Fingerprint(a)))
	}

	changed, _ := wfc.NewCatalog(append(a.Tiles()[:2], a.Tile(2).WithSocket(wfc.Top, "flag")))
	if Fingerprint(changed) == Fingerprint(a) {
		t.Error("changing a socket did not change the fingerprint")
	}
}

func TestDefault(t *testing.T) {
	c := Default()

	roofs := 0
	for _, def := range c.Tiles() {
		if def.IsRoofTile {
			roofs++
		}
	}
	if roofs == 0 {
		t.Fatal("default set has no roof tiles")
	}

	// Every quadrant fits its corner of a 2x2 footprint
	g, err := wfc.NewGrid(2, 4, 2, c)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	if found := wfc.Seed(g); len(found) != 0 {
		t.Errorf("seeding the default tower reported %d contradictions", len(found))
	}

	corners := map[string]wfc.Position{
		"floor_sw": {X: 0, Y: 1, Z: 0},
		"floor_se": {X: 1, Y: 1, Z: 0},
		"floor_nw": {X: 0, Y: 1, Z: 1},
		"floor_ne": {X: 1, Y: 1, Z: 1},
	}
	for name, pos := range corners {
		id, ok := c.Lookup(name)
		if !ok {
			t.Fatalf("default set missing %s", name)
		}
		if !g.At(pos).Domain.Has(id) {
			t.Errorf("%s removed from its own corner %s", name, pos)
		}
	}
}
