package results

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInsertAndGetRun(t *testing.T) {
	store := openTestStore(t)

	traversal := 3.25
	rec := RunRecord{
		RunID:         NewRunID(),
		Params:        json.RawMessage(`{"trials_per_speed":30}`),
		BestSpeed:     12.5,
		MetConstraint: true,
		ElapsedMS:     840,
		StartedAt:     time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
	}
	candidates := []CandidateRow{
		{RunID: rec.RunID, Speed: 5, Probability: 1.0, MeanTraversal: &traversal, Trials: 30, Satisfied: 30, ValidTrials: 30},
		{RunID: rec.RunID, Speed: 20, Probability: 0.4, Trials: 30, Satisfied: 12, Degraded: 2},
	}

	if err := store.InsertRun(rec, candidates); err != nil {
		t.Fatalf("inserting run: %v", err)
	}

	got, err := store.GetRun(rec.RunID)
	if err != nil {
		t.Fatalf("getting run: %v", err)
	}
	if got == nil {
		t.Fatal("run not found after insert")
	}
	if got.BestSpeed != 12.5 || !got.MetConstraint || got.ElapsedMS != 840 {
		t.Errorf("run = %+v", got)
	}
	if !got.StartedAt.Equal(rec.StartedAt) {
		t.Errorf("started_at = %v, want %v", got.StartedAt, rec.StartedAt)
	}
	if string(got.Params) != `{"trials_per_speed":30}` {
		t.Errorf("params = %s", got.Params)
	}

	rows, err := store.Candidates(rec.RunID)
	if err != nil {
		t.Fatalf("listing candidates: %v", err)
	}
	if diff := cmp.Diff(candidates, rows); diff != "" {
		t.Errorf("candidate rows mismatch (-want +got):\n%s", diff)
	}
}

func TestGetRunMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.GetRun("no-such-run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("missing run = %+v, want nil", got)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	ids := make([]string, 3)
	for i := range ids {
		ids[i] = NewRunID()
		rec := RunRecord{
			RunID:     ids[i],
			BestSpeed: float64(10 + i),
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := store.InsertRun(rec, nil); err != nil {
			t.Fatalf("inserting run %d: %v", i, err)
		}
	}

	runs, err := store.ListRuns(2)
	if err != nil {
		t.Fatalf("listing runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if runs[0].RunID != ids[2] || runs[1].RunID != ids[1] {
		t.Errorf("unexpected order: %s, %s", runs[0].RunID, runs[1].RunID)
	}
}

func TestDuplicateRunIDRejected(t *testing.T) {
	store := openTestStore(t)

	rec := RunRecord{RunID: NewRunID(), StartedAt: time.Now()}
	if err := store.InsertRun(rec, nil); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := store.InsertRun(rec, nil); err == nil {
		t.Error("duplicate run_id insert should fail")
	}
}
