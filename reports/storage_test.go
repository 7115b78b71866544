package reports

import (
	"path/filepath"
	"testing"
	"time"

	"cry-classification/cry"
)

func TestLogAppendAndLoad(t *testing.T) {
	t.Parallel()

	log := NewLog(filepath.Join(t.TempDir(), "nested", "evaluations.json"))

	first := &cry.EvaluationReport{
		CorpusDir:    "corpus",
		TotalSamples: 10,
		Accuracy:     0.8,
		WeightedF1:   0.78,
		Labels:       []string{"hungry", "tired"},
	}
	if err := log.Append(first); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if first.Timestamp.IsZero() {
		t.Fatal("Append did not set a timestamp")
	}

	second := &cry.EvaluationReport{
		Timestamp:    time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC),
		CorpusDir:    "corpus",
		TotalSamples: 12,
		Accuracy:     0.85,
	}
	if err := log.Append(second); err != nil {
		t.Fatalf("Append second: %v", err)
	}

	all, err := log.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d reports, want 2", len(all))
	}
	if all[0].TotalSamples != 10 || all[1].TotalSamples != 12 {
		t.Errorf("reports out of order: %+v", all)
	}
	if len(all[0].Labels) != 2 || all[0].Labels[0] != "hungry" {
		t.Errorf("labels did not survive round trip: %+v", all[0].Labels)
	}

	latest, ok, err := log.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if !ok {
		t.Fatal("Latest reported no entries")
	}
	if latest.Accuracy != 0.85 {
		t.Errorf("Latest accuracy = %v, want 0.85", latest.Accuracy)
	}
}

func TestLogEmpty(t *testing.T) {
	t.Parallel()

	log := NewLog(filepath.Join(t.TempDir(), "missing.json"))

	all, err := log.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty log, got %d reports", len(all))
	}

	_, ok, err := log.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if ok {
		t.Error("Latest reported an entry in an empty log")
	}
}
