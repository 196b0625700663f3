// towergen generates a batch of defender towers and writes them to YAML.
//
// Usage:
//
//	go run ./cmd/towergen -seed 42 -count 5 -height 6 -out data/structures.yaml
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lawnchairsociety/defendertower/internal/catalog"
	"github.com/lawnchairsociety/defendertower/internal/config"
	"github.com/lawnchairsociety/defendertower/internal/logger"
	"github.com/lawnchairsociety/defendertower/internal/store"
	"github.com/lawnchairsociety/defendertower/internal/tower"
	"github.com/lawnchairsociety/defendertower/internal/wfc"
)

func main() {
	configFile := flag.String("config", "data/tower.yaml", "Path to config YAML file")
	catalogFile := flag.String("catalog", "", "Path to tile catalog YAML (default: built-in defender set)")
	seed := flag.Int64("seed", 0, "Base seed (default: random based on current time)")
	count := flag.Int("count", 0, "Number of structures to generate (default: from config)")
	height := flag.Int("height", 0, "Tower height in layers (default: from config)")
	outFile := flag.String("out", "", "Output YAML file (default: from config)")
	record := flag.Bool("record", false, "Record runs in the run store")
	dumpCatalog := flag.String("dump-catalog", "", "Write the active tile catalog to this file and exit")
	flag.Parse()

	logConfig, _ := logger.LoadConfig(*configFile)
	logger.Initialize(logConfig)

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *catalogFile != "" {
		cfg.Catalog.Path = *catalogFile
	}
	if *count > 0 {
		cfg.Count = *count
	}
	if *height > 0 {
		cfg.Structure.Height = *height
	}
	if *outFile != "" {
		cfg.Output.Path = *outFile
	}
	if *record {
		cfg.Store.Enabled = true
	}

	cfg.Structure.Seed = *seed
	if cfg.Structure.Seed == 0 {
		cfg.Structure.Seed = time.Now().UnixNano()
		logger.Info("Base seed selected", "seed", cfg.Structure.Seed, "random", true)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tiles, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *dumpCatalog != "" {
		if err := catalog.Save(tiles, *dumpCatalog); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Catalog written to %s\n", *dumpCatalog)
		return
	}

	gen := tower.NewGenerator(tiles)

	fmt.Printf("Generating %d structure(s) %dx%dx%d (base seed: %d)\n",
		cfg.Count, cfg.Structure.SizeX, cfg.Structure.Height, cfg.Structure.SizeZ, cfg.Structure.Seed)
	fmt.Printf("Catalog: %d tiles, fingerprint %s\n\n", tiles.Len(), gen.Fingerprint()[:12])

	structures, err := gen.GenerateBatch(cfg.Structure, cfg.Count)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	exhausted := 0
	for _, s := range structures {
		fmt.Printf("  #%d seed %d: %-9s %2d steps, %d resolved, %d contradicted\n",
			s.Index, s.Config.Seed, s.State, s.Steps, s.Summary.Resolved, s.Summary.Contradicted)
		if s.State == wfc.Exhausted {
			exhausted++
		}
	}

	if dir := filepath.Dir(cfg.Output.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create output directory: %v\n", err)
			os.Exit(1)
		}
	}
	if err := tower.SaveStructures(structures, tiles, cfg.Output.Path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Store.Enabled {
		if err := recordRuns(cfg.Store.Config, structures); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	logger.Always("Batch complete",
		"structures", len(structures),
		"exhausted", exhausted,
		"output", cfg.Output.Path)
	fmt.Printf("\nWrote %d structure(s) to %s (%d with missing tiles)\n", len(structures), cfg.Output.Path, exhausted)
}

func loadCatalog(path string) (*wfc.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}

func recordRuns(cfg store.Config, structures []*tower.Structure) error {
	st, err := store.OpenWithConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to open run store: %w", err)
	}
	defer st.Close()

	for _, s := range structures {
		id, err := st.RecordRun(s)
		if err != nil {
			return fmt.Errorf("failed to record structure %d: %w", s.Index, err)
		}
		logger.Debug("Run recorded", "id", id, "seed", s.Config.Seed)
	}
	return nil
}
