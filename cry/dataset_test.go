package cry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cry-classification/wav"
)

func writeToneWav(t *testing.T, path string, freq float64) {
	t.Helper()
	data := wav.SamplesToWavBytes(sineClip(freq, 8000, 8000))
	if err := wav.WriteWavFile(path, data, 8000, 1, 16); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// buildTestCorpus lays out a folder-per-category corpus of synthetic
// tones, four recordings per category at distinct pitches.
func buildTestCorpus(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	tones := map[string]float64{
		"belly_pain": 250,
		"burping":    400,
		"discomfort": 620,
		"hungry":     900,
		"tired":      1400,
	}
	for category, freq := range tones {
		dir := filepath.Join(root, category)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
		for i := 0; i < 4; i++ {
			writeToneWav(t, filepath.Join(dir, fmt.Sprintf("cry_%02d.wav", i)), freq+float64(i*10))
		}
	}
	return root
}

func TestAssembleDatasetSkipsCorruptFiles(t *testing.T) {
	t.Parallel()

	root := buildTestCorpus(t)

	corrupt := filepath.Join(root, "hungry", "broken.wav")
	if err := os.WriteFile(corrupt, []byte("not a wav file"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, ".cache"), 0o755); err != nil {
		t.Fatalf("failed to create hidden dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "tired", "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write stray file: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "empty_reason"), 0o755); err != nil {
		t.Fatalf("failed to create empty category: %v", err)
	}

	logPath := filepath.Join(t.TempDir(), "failures.log")
	failures, err := OpenFailureLog(logPath)
	if err != nil {
		t.Fatalf("OpenFailureLog returned error: %v", err)
	}

	dataset, stats, err := AssembleDataset(root, newTestExtractor(t), failures)
	if err != nil {
		t.Fatalf("AssembleDataset returned error: %v", err)
	}
	if err := failures.Close(); err != nil {
		t.Fatalf("failed to close failure log: %v", err)
	}

	if len(dataset.Samples) != 20 {
		t.Fatalf("expected 20 samples, got %d", len(dataset.Samples))
	}
	if stats.TotalFiles != 21 || stats.SuccessfulCount != 20 || stats.FailedCount != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if failures.Count() != 1 {
		t.Fatalf("expected 1 recorded failure, got %d", failures.Count())
	}

	raw, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read failure log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 failure line, got %d: %q", len(lines), raw)
	}
	if !strings.Contains(lines[0], corrupt) {
		t.Fatalf("failure line missing path: %q", lines[0])
	}

	for _, s := range dataset.Samples {
		if len(s.Features) != FeatureVectorLen {
			t.Fatalf("sample %s has %d features, want %d", s.Path, len(s.Features), FeatureVectorLen)
		}
	}
	if dataset.Samples[0].Label != "belly_pain" {
		t.Fatalf("categories should be processed in sorted order, first label %q", dataset.Samples[0].Label)
	}
	if _, ok := stats.LabelCounts["empty_reason"]; ok {
		t.Fatal("empty category should not appear in label counts")
	}
	if got := stats.LabelCounts["tired"]; got != 4 {
		t.Fatalf("stray non-wav file should be ignored, tired count %d", got)
	}
}

func TestAssembleDatasetMissingRoot(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "no_such_corpus")
	if _, _, err := AssembleDataset(missing, newTestExtractor(t), nil); err == nil {
		t.Fatal("expected error for missing corpus root")
	}
}

func TestDiscoverCategoriesSortedAndFiltered(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, dir := range []string{"zebra", "alpha", ".hidden"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "stray.wav"), []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write stray file: %v", err)
	}

	categories, err := DiscoverCategories(root)
	if err != nil {
		t.Fatalf("DiscoverCategories returned error: %v", err)
	}
	if len(categories) != 2 || categories[0] != "alpha" || categories[1] != "zebra" {
		t.Fatalf("unexpected categories: %v", categories)
	}
}

func TestListWavFilesFiltering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"a.wav", "B.WAV", "c.mp3", ".hidden.wav"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "nested.wav"), 0o755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	files, err := ListWavFiles(dir)
	if err != nil {
		t.Fatalf("ListWavFiles returned error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 wav files, got %v", files)
	}
	if filepath.Base(files[0]) != "B.WAV" || filepath.Base(files[1]) != "a.wav" {
		t.Fatalf("unexpected order: %v", files)
	}
}
