package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lawnchairsociety/defendertower/internal/tower"
	"github.com/lawnchairsociety/defendertower/internal/wfc"
)

// ErrUnknownRun is returned by GetRunEvents for an id with no run.
var ErrUnknownRun = errors.New("store: unknown run")

// Run is a stored generation run.
type Run struct {
	ID          int64
	Config      tower.StructureConfig
	Catalog     string
	State       wfc.RunState
	Steps       int
	Summary     wfc.Summary
	GeneratedAt time.Time
	Duration    time.Duration
}

const runColumns = `id, seed, size_x, height, size_z, tile_size, catalog, state, steps,
	resolved, contradicted, unresolved, generated_at, duration_ms`

// RecordRun stores a structure with its events and contradictions and
// returns the new run id.
func (s *Store) RecordRun(st *tower.Structure) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	query := s.qb.BuildWithReturning(`
		INSERT INTO runs (seed, size_x, height, size_z, tile_size, catalog, state, steps,
			resolved, contradicted, unresolved, generated_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, "id")
	args := []any{
		st.Config.Seed, st.Config.SizeX, st.Config.Height, st.Config.SizeZ, st.Config.TileSize,
		st.Fingerprint, st.State.String(), st.Steps,
		st.Summary.Resolved, st.Summary.Contradicted, st.Summary.Unresolved,
		st.GeneratedAt.UTC(), st.Duration.Milliseconds(),
	}

	var id int64
	if s.dialect.SupportsLastInsertID() {
		res, err := tx.Exec(query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return 0, err
		}
	} else if err := tx.QueryRow(query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	events, err := tx.Prepare(s.qb.Build(`INSERT INTO run_events (run_id, step, x, y, z, tile) VALUES (?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return 0, err
	}
	defer events.Close()
	for _, ev := range st.Events {
		if _, err := events.Exec(id, ev.Step, ev.Pos.X, ev.Pos.Y, ev.Pos.Z, int(ev.Tile)); err != nil {
			return 0, fmt.Errorf("failed to insert event %d: %w", ev.Step, err)
		}
	}

	contradictions, err := tx.Prepare(s.qb.Build(`
		INSERT INTO run_contradictions (run_id, seq, kind, x, y, z, step, from_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return 0, err
	}
	defer contradictions.Close()
	for i, c := range st.Contradictions {
		from := ""
		if c.Kind == wfc.PropagationContradiction {
			from = c.From.String()
		}
		if _, err := contradictions.Exec(id, i, c.Kind.String(), c.Pos.X, c.Pos.Y, c.Pos.Z, c.Step, from); err != nil {
			if s.dialect.IsDuplicateKeyError(err) {
				return 0, fmt.Errorf("contradiction at %s recorded twice: %w", c.Pos, err)
			}
			return 0, fmt.Errorf("failed to insert contradiction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		r          Run
		state      string
		durationMS int64
	)
	err := row.Scan(&r.ID, &r.Config.Seed, &r.Config.SizeX, &r.Config.Height, &r.Config.SizeZ,
		&r.Config.TileSize, &r.Catalog, &state, &r.Steps,
		&r.Summary.Resolved, &r.Summary.Contradicted, &r.Summary.Unresolved,
		&r.GeneratedAt, &durationMS)
	if err != nil {
		return nil, err
	}

	parsed, ok := wfc.ParseRunState(state)
	if !ok {
		return nil, fmt.Errorf("run %d has unknown state %q", r.ID, state)
	}
	r.State = parsed
	r.Duration = time.Duration(durationMS) * time.Millisecond
	return &r, nil
}

// GetRun returns the run with id, or nil if there is none.
func (s *Store) GetRun(id int64) (*Run, error) {
	row := s.db.QueryRow(s.qb.Build(`SELECT `+runColumns+` FROM runs WHERE id = ?`), id)

	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	return s.queryRuns(`SELECT `+runColumns+` FROM runs ORDER BY id DESC LIMIT ?`, limit)
}

// FindRunsBySeed returns every run generated from seed, oldest first.
func (s *Store) FindRunsBySeed(seed int64) ([]Run, error) {
	return s.queryRuns(`SELECT `+runColumns+` FROM runs WHERE seed = ? ORDER BY id ASC`, seed)
}

func (s *Store) queryRuns(query string, args ...any) ([]Run, error) {
	rows, err := s.db.Query(s.qb.Build(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetRunEvents returns a run's collapse events in step order.
func (s *Store) GetRunEvents(id int64) ([]wfc.Event, error) {
	if err := s.requireRun(id); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(s.qb.Build(`
		SELECT step, x, y, z, tile FROM run_events
		WHERE run_id = ?
		ORDER BY step ASC`), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []wfc.Event
	for rows.Next() {
		var ev wfc.Event
		var tile int
		if err := rows.Scan(&ev.Step, &ev.Pos.X, &ev.Pos.Y, &ev.Pos.Z, &tile); err != nil {
			return nil, err
		}
		ev.Tile = wfc.TileID(tile)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// GetRunContradictions returns a run's contradictions in the order they
// happened.
func (s *Store) GetRunContradictions(id int64) ([]wfc.Contradiction, error) {
	if err := s.requireRun(id); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(s.qb.Build(`
		SELECT kind, x, y, z, step, from_dir FROM run_contradictions
		WHERE run_id = ?
		ORDER BY seq ASC`), id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found []wfc.Contradiction
	for rows.Next() {
		var (
			c          wfc.Contradiction
			kind, from string
		)
		if err := rows.Scan(&kind, &c.Pos.X, &c.Pos.Y, &c.Pos.Z, &c.Step, &from); err != nil {
			return nil, err
		}
		k, ok := wfc.ParseContradictionKind(kind)
		if !ok {
			return nil, fmt.Errorf("unknown contradiction kind %q", kind)
		}
		c.Kind = k
		if from != "" {
			if c.From, ok = wfc.ParseDirection(from); !ok {
				return nil, fmt.Errorf("unknown direction %q", from)
			}
		}
		found = append(found, c)
	}
	return found, rows.Err()
}

// DeleteRun removes a run and, by cascade, its events and contradictions.
func (s *Store) DeleteRun(id int64) (bool, error) {
	res, err := s.db.Exec(s.qb.Build(`DELETE FROM runs WHERE id = ?`), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CountRuns returns the number of stored runs.
func (s *Store) CountRuns() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

func (s *Store) requireRun(id int64) error {
	var exists int
	err := s.db.QueryRow(s.qb.Build(`SELECT 1 FROM runs WHERE id = ?`), id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %d", ErrUnknownRun, id)
	}
	return err
}
