package store

import (
	"os"
	"strconv"
	"testing"
)

// getPostgresTestConfig reads connection settings from TOWER_TEST_POSTGRES_*.
// Tests using it are skipped unless TOWER_TEST_POSTGRES is set.
func getPostgresTestConfig(t *testing.T) Config {
	t.Helper()
	if os.Getenv("TOWER_TEST_POSTGRES") == "" {
		t.Skip("Skipping PostgreSQL test: TOWER_TEST_POSTGRES not set")
	}

	cfg := Config{Driver: string(DialectPostgres), Postgres: DefaultPostgresConfig()}
	if host := os.Getenv("TOWER_TEST_POSTGRES_HOST"); host != "" {
		cfg.Postgres.Host = host
	}
	if port, err := strconv.Atoi(os.Getenv("TOWER_TEST_POSTGRES_PORT")); err == nil {
		cfg.Postgres.Port = port
	}
	cfg.Postgres.User = os.Getenv("TOWER_TEST_POSTGRES_USER")
	cfg.Postgres.Password = os.Getenv("TOWER_TEST_POSTGRES_PASSWORD")
	if db := os.Getenv("TOWER_TEST_POSTGRES_DATABASE"); db != "" {
		cfg.Postgres.Database = db
	}
	return cfg
}

func TestPostgresRecordRun(t *testing.T) {
	cfg := getPostgresTestConfig(t)

	s, err := OpenWithConfig(cfg)
	if err != nil {
		t.Fatalf("Failed to open PostgreSQL store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	id, err := s.RecordRun(sampleStructure(4242))
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	t.Cleanup(func() { s.DeleteRun(id) })

	events, err := s.GetRunEvents(id)
	if err != nil {
		t.Fatalf("GetRunEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("got %d events, want 2", len(events))
	}

	found, err := s.GetRunContradictions(id)
	if err != nil {
		t.Fatalf("GetRunContradictions failed: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("got %d contradictions, want 2", len(found))
	}
}
