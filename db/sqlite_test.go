package db

import (
	"path/filepath"
	"testing"
	"time"

	"cry-classification/cry"
)

func newTestStore(t *testing.T) *SQLiteClient {
	t.Helper()

	store, err := NewSQLiteClient(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewSQLiteClient: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteRunRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	run := &RunRecord{
		Timestamp:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		CorpusDir:    "corpus",
		TotalSamples: 457,
		Accuracy:     0.83,
		WeightedF1:   0.81,
		CVScore:      0.79,
		Params:       cry.ForestParams{Trees: 200, MaxDepth: 15, MinSamplesSplit: 2, MinSamplesLeaf: 1},
	}
	if err := store.StoreRun(run); err != nil {
		t.Fatalf("StoreRun: %v", err)
	}
	if run.ID == 0 {
		t.Fatal("StoreRun did not assign an ID")
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}

	got := runs[0]
	if got.ID != run.ID || got.CorpusDir != "corpus" || got.TotalSamples != 457 {
		t.Errorf("run fields mismatch: %+v", got)
	}
	if got.Accuracy != 0.83 || got.WeightedF1 != 0.81 || got.CVScore != 0.79 {
		t.Errorf("run scores mismatch: %+v", got)
	}
	if got.Params != run.Params {
		t.Errorf("params round trip: got %+v want %+v", got.Params, run.Params)
	}
}

func TestSQLitePredictionsNewestFirst(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []PredictionRecord{
		{Timestamp: base, Path: "a.wav", Category: "hungry", Confidence: 0.9},
		{Timestamp: base.Add(time.Minute), Path: "b.wav", Category: "tired", Confidence: 0.7},
		{Timestamp: base.Add(2 * time.Minute), Path: "c.wav", Category: "burping", Confidence: 0.6},
	}
	if err := store.StorePredictions(records); err != nil {
		t.Fatalf("StorePredictions: %v", err)
	}
	for i, rec := range records {
		if rec.ID == 0 {
			t.Fatalf("record %d did not get an ID", i)
		}
	}

	got, err := store.RecentPredictions(2)
	if err != nil {
		t.Fatalf("RecentPredictions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d predictions, want 2", len(got))
	}
	if got[0].Path != "c.wav" || got[1].Path != "b.wav" {
		t.Errorf("expected newest first, got %q then %q", got[0].Path, got[1].Path)
	}

	count, err := store.TotalPredictions()
	if err != nil {
		t.Fatalf("TotalPredictions: %v", err)
	}
	if count != 3 {
		t.Errorf("got %d total predictions, want 3", count)
	}
}

func TestSQLiteEmptyStore(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	runs, err := store.RecentRuns(5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	count, err := store.TotalPredictions()
	if err != nil {
		t.Fatalf("TotalPredictions: %v", err)
	}
	if count != 0 {
		t.Errorf("expected zero predictions, got %d", count)
	}
}
