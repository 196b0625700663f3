package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lawnchairsociety/defendertower/internal/tower"
	"github.com/lawnchairsociety/defendertower/internal/wfc"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleStructure(seed int64) *tower.Structure {
	return &tower.Structure{
		Config:      tower.StructureConfig{SizeX: 2, Height: 2, SizeZ: 1, TileSize: 1.5, Seed: seed},
		Fingerprint: "abc123",
		State:       wfc.Exhausted,
		Steps:       2,
		Summary:     wfc.Summary{Resolved: 3, Contradicted: 1},
		Events: []wfc.Event{
			{Step: 1, Pos: wfc.Position{X: 0, Y: 0, Z: 0}, Tile: 4},
			{Step: 2, Pos: wfc.Position{X: 1, Y: 0, Z: 0}, Tile: 2},
		},
		Contradictions: []wfc.Contradiction{
			{Kind: wfc.SeedContradiction, Pos: wfc.Position{X: 1, Y: 1, Z: 0}},
			{Kind: wfc.PropagationContradiction, Pos: wfc.Position{X: 0, Y: 1, Z: 0}, Step: 2, From: wfc.Bottom},
		},
		GeneratedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Duration:    42 * time.Millisecond,
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "runs.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open store with nested path: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}

	for _, table := range []string{"runs", "run_events", "run_contradictions"} {
		var count int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
			t.Errorf("Failed to query %s table: %v", table, err)
		}
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := s.RecordRun(sampleStructure(1)); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	if n, err := s.CountRuns(); err != nil || n != 1 {
		t.Errorf("CountRuns() = %d, %v; want 1", n, err)
	}
}

func TestRecordAndGetRun(t *testing.T) {
	s := openTestStore(t)
	st := sampleStructure(77)

	id, err := s.RecordRun(st)
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	run, err := s.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if run == nil {
		t.Fatal("GetRun returned nil for a recorded run")
	}

	if run.Config != st.Config {
		t.Errorf("Config = %+v, want %+v", run.Config, st.Config)
	}
	if run.Catalog != st.Fingerprint || run.State != st.State || run.Steps != st.Steps {
		t.Errorf("run = %+v", run)
	}
	if run.Summary != st.Summary {
		t.Errorf("Summary = %+v, want %+v", run.Summary, st.Summary)
	}
	if !run.GeneratedAt.Equal(st.GeneratedAt) {
		t.Errorf("GeneratedAt = %v, want %v", run.GeneratedAt, st.GeneratedAt)
	}
	if run.Duration != st.Duration {
		t.Errorf("Duration = %v, want %v", run.Duration, st.Duration)
	}
}

func TestGetRunMissing(t *testing.T) {
	s := openTestStore(t)

	run, err := s.GetRun(999)
	if err != nil {
		t.Fatalf("GetRun returned error: %v", err)
	}
	if run != nil {
		t.Errorf("GetRun(999) = %+v, want nil", run)
	}

	if _, err := s.GetRunEvents(999); !errors.Is(err, ErrUnknownRun) {
		t.Errorf("GetRunEvents(999) error = %v, want ErrUnknownRun", err)
	}
}

func TestGetRunEventsAndContradictions(t *testing.T) {
	s := openTestStore(t)
	st := sampleStructure(3)

	id, err := s.RecordRun(st)
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	events, err := s.GetRunEvents(id)
	if err != nil {
		t.Fatalf("GetRunEvents failed: %v", err)
	}
	if len(events) != len(st.Events) {
		t.Fatalf("got %d events, want %d", len(events), len(st.Events))
	}
	for i := range events {
		if events[i] != st.Events[i] {
			t.Errorf("event %d = %+v, want %+v", i, events[i], st.Events[i])
		}
	}

	found, err := s.GetRunContradictions(id)
	if err != nil {
		t.Fatalf("GetRunContradictions failed: %v", err)
	}
	if len(found) != len(st.Contradictions) {
		t.Fatalf("got %d contradictions, want %d", len(found), len(st.Contradictions))
	}
	for i := range found {
		if found[i] != st.Contradictions[i] {
			t.Errorf("contradiction %d = %+v, want %+v", i, found[i], st.Contradictions[i])
		}
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)

	for seed := int64(1); seed <= 5; seed++ {
		if _, err := s.RecordRun(sampleStructure(seed)); err != nil {
			t.Fatalf("RecordRun(%d) failed: %v", seed, err)
		}
	}

	runs, err := s.ListRuns(3)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("ListRuns(3) returned %d runs", len(runs))
	}
	for i, want := range []int64{5, 4, 3} {
		if runs[i].Config.Seed != want {
			t.Errorf("runs[%d].Seed = %d, want %d", i, runs[i].Config.Seed, want)
		}
	}
}

func TestFindRunsBySeed(t *testing.T) {
	s := openTestStore(t)

	for _, seed := range []int64{8, 9, 8} {
		if _, err := s.RecordRun(sampleStructure(seed)); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}

	runs, err := s.FindRunsBySeed(8)
	if err != nil {
		t.Fatalf("FindRunsBySeed failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID >= runs[1].ID {
		t.Errorf("FindRunsBySeed(8) = %+v, want two runs oldest first", runs)
	}
}

func TestDeleteRunCascades(t *testing.T) {
	s := openTestStore(t)

	id, err := s.RecordRun(sampleStructure(1))
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	deleted, err := s.DeleteRun(id)
	if err != nil || !deleted {
		t.Fatalf("DeleteRun = %v, %v; want true", deleted, err)
	}

	var events int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM run_events WHERE run_id = ?", id).Scan(&events); err != nil {
		t.Fatalf("count events failed: %v", err)
	}
	if events != 0 {
		t.Errorf("%d events left after delete", events)
	}

	if deleted, _ := s.DeleteRun(id); deleted {
		t.Error("second DeleteRun reported a deletion")
	}
}

func TestRecordGeneratedStructure(t *testing.T) {
	s := openTestStore(t)
	st, err := tower.NewGenerator(nil).Generate(tower.DefaultStructureConfig().WithSeed(21))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	id, err := s.RecordRun(st)
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	events, err := s.GetRunEvents(id)
	if err != nil {
		t.Fatalf("GetRunEvents failed: %v", err)
	}
	if len(events) != st.Steps {
		t.Errorf("stored %d events for %d steps", len(events), st.Steps)
	}
}
