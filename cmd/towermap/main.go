package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gookit/color"
	"golang.org/x/term"

	"github.com/lawnchairsociety/defendertower/internal/catalog"
	"github.com/lawnchairsociety/defendertower/internal/tower"
	"github.com/lawnchairsociety/defendertower/internal/wfc"
)

func main() {
	inputFile := flag.String("input", "structures.yaml", "Path to structures YAML file")
	catalogFile := flag.String("catalog", "", "Tile catalog used for names (default: built-in defender set)")
	index := flag.Int("index", -1, "Structure index to display (-1 for all)")
	outputFile := flag.String("output", "", "Output file (empty for stdout)")
	showLegend := flag.Bool("legend", true, "Show legend")
	flag.Parse()

	structures, savedAt, err := tower.LoadStructures(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tiles := catalog.Default()
	if *catalogFile != "" {
		if tiles, err = catalog.Load(*catalogFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Colors only make sense on a terminal
	if *outputFile != "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		color.Enable = false
	}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("Structures (%d, saved %s)\n", len(structures), savedAt.Format("2006-01-02 15:04:05")))
	output.WriteString(strings.Repeat("=", 60) + "\n\n")

	for _, s := range structures {
		if *index >= 0 && s.Index != *index {
			continue
		}
		if s.Fingerprint != "" && s.Fingerprint != catalog.Fingerprint(tiles) {
			output.WriteString(color.Style{color.FgYellow}.Sprint("warning: structure was generated from a different catalog") + "\n")
		}
		renderStructure(&output, s, tiles)
		output.WriteString("\n")
	}

	if *showLegend {
		output.WriteString(legend(tiles))
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output.String()), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Map written to %s\n", *outputFile)
	} else {
		fmt.Print(output.String())
	}
}

var (
	styleTile    = color.Style{color.FgCyan}
	styleRoof    = color.Style{color.FgGreen, color.OpBold}
	styleMissing = color.Style{color.FgRed, color.OpBold}
	styleSubtle  = color.Style{color.FgGray}
)

// renderStructure draws each layer from the top down, one row per z with
// north at the top
func renderStructure(output *strings.Builder, s *tower.Structure, tiles *wfc.Catalog) {
	output.WriteString(fmt.Sprintf("Structure #%d (seed %d, %s, %d steps)\n", s.Index, s.Config.Seed, s.State, s.Steps))

	cells := make(map[wfc.Position]wfc.TileID, len(s.Placements))
	for _, p := range s.Placements {
		cells[p.Pos] = p.Tile
	}

	for y := s.Config.Height - 1; y >= 0; y-- {
		output.WriteString(styleSubtle.Sprintf("  layer %d\n", y))
		for z := s.Config.SizeZ - 1; z >= 0; z-- {
			output.WriteString("    ")
			for x := 0; x < s.Config.SizeX; x++ {
				output.WriteString(cellLabel(cells, wfc.Position{X: x, Y: y, Z: z}, tiles))
				output.WriteString(" ")
			}
			output.WriteString("\n")
		}
	}

	output.WriteString(fmt.Sprintf("  resolved %d, contradicted %d, unresolved %d\n",
		s.Summary.Resolved, s.Summary.Contradicted, s.Summary.Unresolved))
}

func cellLabel(cells map[wfc.Position]wfc.TileID, p wfc.Position, tiles *wfc.Catalog) string {
	id, ok := cells[p]
	if !ok {
		return styleMissing.Sprint("[ ?? ]")
	}
	if id < 0 || int(id) >= tiles.Len() {
		return styleMissing.Sprintf("[%4d]", id)
	}
	label := fmt.Sprintf("[%-4s]", abbrev(tiles.Tile(id).Name))
	if tiles.Tile(id).IsRoofTile {
		return styleRoof.Sprint(label)
	}
	return styleTile.Sprint(label)
}

// abbrev shortens a tile name to four characters, keeping the ends of
// names like floor_sw apart
func abbrev(name string) string {
	if len(name) <= 4 {
		return name
	}
	if head, tail, ok := strings.Cut(name, "_"); ok && head != "" && tail != "" {
		return head[:min(2, len(head))] + tail[:min(2, len(tail))]
	}
	return name[:4]
}

func legend(tiles *wfc.Catalog) string {
	var b strings.Builder
	b.WriteString("Legend:\n")
	for i, def := range tiles.Tiles() {
		kind := ""
		if def.IsRoofTile {
			kind = " (roof)"
		}
		b.WriteString(fmt.Sprintf("  %2d [%-4s] %s%s\n", i, abbrev(def.Name), def.Name, kind))
	}
	b.WriteString("     [ ?? ] no tile (contradiction)\n")
	return b.String()
}
