// migrate-runs copies stored generation runs from SQLite to PostgreSQL.
//
// Usage:
//
//	go run ./cmd/migrate-runs \
//	    -sqlite data/runs.db \
//	    -pg-host localhost \
//	    -pg-port 5435 \
//	    -pg-user towergen \
//	    -pg-password towergen \
//	    -pg-database towergen
package main

import (
	"flag"
	"log"

	"github.com/lawnchairsociety/defendertower/internal/store"
	"github.com/lawnchairsociety/defendertower/internal/tower"
)

func main() {
	sqlitePath := flag.String("sqlite", "data/runs.db", "Path to SQLite run store")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5435, "PostgreSQL port")
	pgUser := flag.String("pg-user", "towergen", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "towergen", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "towergen", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Show what would be migrated without making changes")
	flag.Parse()

	log.Println("Run store migration: SQLite to PostgreSQL")
	log.Println("=========================================")

	log.Printf("Opening SQLite store: %s", *sqlitePath)
	src, err := store.Open(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite store: %v", err)
	}
	defer src.Close()

	total, err := src.CountRuns()
	if err != nil {
		log.Fatalf("Failed to count runs: %v", err)
	}
	runs, err := src.ListRuns(total)
	if err != nil {
		log.Fatalf("Failed to list runs: %v", err)
	}
	log.Printf("Found %d runs", len(runs))

	if *dryRun {
		log.Println("DRY RUN - No changes will be made")
		return
	}

	pg := store.DefaultPostgresConfig()
	pg.Host = *pgHost
	pg.Port = *pgPort
	pg.User = *pgUser
	pg.Password = *pgPassword
	pg.Database = *pgDatabase
	pg.SSLMode = *pgSSLMode

	log.Printf("Opening PostgreSQL store: %s@%s:%d/%s", pg.User, pg.Host, pg.Port, pg.Database)
	dst, err := store.OpenWithConfig(store.Config{Driver: string(store.DialectPostgres), Postgres: pg})
	if err != nil {
		log.Fatalf("Failed to open PostgreSQL store: %v", err)
	}
	defer dst.Close()

	// ListRuns is newest first; copy oldest first so ids keep their order
	var migrated int
	for i := len(runs) - 1; i >= 0; i-- {
		s, err := loadStructure(src, runs[i])
		if err != nil {
			log.Fatalf("Failed to read run %d: %v", runs[i].ID, err)
		}
		id, err := dst.RecordRun(s)
		if err != nil {
			log.Fatalf("Failed to write run %d: %v", runs[i].ID, err)
		}
		log.Printf("  run %d -> %d (%d events, %d contradictions)", runs[i].ID, id, len(s.Events), len(s.Contradictions))
		migrated++
	}

	log.Println("=========================================")
	log.Printf("Migration complete! Runs migrated: %d", migrated)
}

// loadStructure rebuilds the parts of a structure the store keeps
func loadStructure(src *store.Store, r store.Run) (*tower.Structure, error) {
	events, err := src.GetRunEvents(r.ID)
	if err != nil {
		return nil, err
	}
	contradictions, err := src.GetRunContradictions(r.ID)
	if err != nil {
		return nil, err
	}
	return &tower.Structure{
		Config:         r.Config,
		Fingerprint:    r.Catalog,
		State:          r.State,
		Steps:          r.Steps,
		Summary:        r.Summary,
		Events:         events,
		Contradictions: contradictions,
		GeneratedAt:    r.GeneratedAt,
		Duration:       r.Duration,
	}, nil
}
