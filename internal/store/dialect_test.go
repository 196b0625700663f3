package store

import (
	"errors"
	"testing"

	"github.com/lib/pq"
)

func TestNewDialect(t *testing.T) {
	tests := []struct {
		input DialectType
		want  string
	}{
		{DialectSQLite, "sqlite"},
		{DialectPostgres, "postgres"},
		{"unknown", "sqlite"},
	}

	for _, tt := range tests {
		if got := NewDialect(tt.input).DriverName(); got != tt.want {
			t.Errorf("NewDialect(%q).DriverName() = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	sqlite := &SQLiteDialect{}
	postgres := &PostgresDialect{}

	for _, pos := range []int{1, 2, 10} {
		if got := sqlite.Placeholder(pos); got != "?" {
			t.Errorf("SQLite Placeholder(%d) = %q, want ?", pos, got)
		}
	}
	if got := postgres.Placeholder(3); got != "$3" {
		t.Errorf("Postgres Placeholder(3) = %q, want $3", got)
	}
}

func TestReturning(t *testing.T) {
	if (&SQLiteDialect{}).ReturningClause("id") != "" {
		t.Error("SQLite ReturningClause should be empty")
	}
	if got := (&PostgresDialect{}).ReturningClause("id"); got != " RETURNING id" {
		t.Errorf("Postgres ReturningClause = %q", got)
	}
}

func TestIsDuplicateKeyError(t *testing.T) {
	sqlite := &SQLiteDialect{}
	postgres := &PostgresDialect{}

	tests := []struct {
		name    string
		dialect Dialect
		err     error
		want    bool
	}{
		{"sqlite nil", sqlite, nil, false},
		{"sqlite unique", sqlite, errors.New("UNIQUE constraint failed: run_contradictions.run_id"), true},
		{"sqlite other", sqlite, errors.New("no such table"), false},
		{"postgres unique", postgres, &pq.Error{Code: "23505"}, true},
		{"postgres other", postgres, &pq.Error{Code: "42P01"}, false},
		{"postgres plain", postgres, errors.New("duplicate"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.IsDuplicateKeyError(tt.err); got != tt.want {
				t.Errorf("IsDuplicateKeyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestQueryBuilder(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		query   string
		want    string
	}{
		{"sqlite unchanged", &SQLiteDialect{}, "SELECT * FROM runs WHERE id = ? AND seed = ?", "SELECT * FROM runs WHERE id = ? AND seed = ?"},
		{"postgres numbered", &PostgresDialect{}, "SELECT * FROM runs WHERE id = ? AND seed = ?", "SELECT * FROM runs WHERE id = $1 AND seed = $2"},
		{"postgres quoted", &PostgresDialect{}, "SELECT '?' FROM runs WHERE id = ?", "SELECT '?' FROM runs WHERE id = $1"},
		{"no placeholders", &PostgresDialect{}, "SELECT COUNT(*) FROM runs", "SELECT COUNT(*) FROM runs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewQueryBuilder(tt.dialect).Build(tt.query); got != tt.want {
				t.Errorf("Build() = %q, want %q", got, tt.want)
			}
		})
	}

	pg := NewQueryBuilder(&PostgresDialect{})
	if got := pg.BuildWithReturning("INSERT INTO runs (seed) VALUES (?)", "id"); got != "INSERT INTO runs (seed) VALUES ($1) RETURNING id" {
		t.Errorf("BuildWithReturning() = %q", got)
	}
	sq := NewQueryBuilder(&SQLiteDialect{})
	if got := sq.BuildWithReturning("INSERT INTO runs (seed) VALUES (?)", "id"); got != "INSERT INTO runs (seed) VALUES (?)" {
		t.Errorf("SQLite BuildWithReturning() = %q", got)
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := DefaultPostgresConfig()
	cfg.User = "tower"
	cfg.Password = "secret"

	want := "host=localhost port=5432 user=tower password=secret dbname=towergen sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
