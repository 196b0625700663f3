package main

import (
	"strings"
	"testing"

	"github.com/gookit/color"

	"github.com/lawnchairsociety/defendertower/internal/catalog"
	"github.com/lawnchairsociety/defendertower/internal/wfc"
)

func TestCellLabel(t *testing.T) {
	color.Enable = false
	t.Cleanup(func() { color.Enable = true })

	tiles := catalog.Default()
	pos := wfc.Position{X: 1, Y: 0, Z: 1}

	tests := []struct {
		name  string
		cells map[wfc.Position]wfc.TileID
		want  string
	}{
		{"missing cell", map[wfc.Position]wfc.TileID{}, "[ ?? ]"},
		{"known tile", map[wfc.Position]wfc.TileID{pos: 3}, "[flsw]"},
		{"id past catalog", map[wfc.Position]wfc.TileID{pos: 99}, "[  99]"},
		{"negative id", map[wfc.Position]wfc.TileID{pos: -2}, "[  -2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cellLabel(tt.cells, pos, tiles); got != tt.want {
				t.Errorf("cellLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAbbrev(t *testing.T) {
	tests := map[string]string{
		"cap":        "cap",
		"floor_sw":   "flsw",
		"battlement": "batt",
		"roof_flat":  "rofl",
	}
	for name, want := range tests {
		if got := abbrev(name); got != want {
			t.Errorf("abbrev(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestLegendListsEveryTile(t *testing.T) {
	tiles := catalog.Default()
	out := legend(tiles)
	for _, def := range tiles.Tiles() {
		if !strings.Contains(out, def.Name) {
			t.Errorf("legend missing %s", def.Name)
		}
	}
}
