package cry

import (
	"testing"
)

// tinyDataset mimics a minimal corpus: three hungry recordings and a
// single tired one, in two well-separated clusters.
func tinyDataset() *Dataset {
	return &Dataset{Samples: []Sample{
		{Path: "hungry_1.wav", Label: "hungry", Features: []float64{0.10, 0.20, 0.00, 0.10}},
		{Path: "hungry_2.wav", Label: "hungry", Features: []float64{0.20, 0.10, 0.10, 0.00}},
		{Path: "hungry_3.wav", Label: "hungry", Features: []float64{0.00, 0.15, 0.20, 0.05}},
		{Path: "tired_1.wav", Label: "tired", Features: []float64{8.00, 8.10, 7.90, 8.20}},
	}}
}

func TestTrainTestSplitReproducible(t *testing.T) {
	t.Parallel()

	train1, test1, err := TrainTestSplit(10, 0.2, 42)
	if err != nil {
		t.Fatalf("TrainTestSplit returned error: %v", err)
	}
	train2, test2, err := TrainTestSplit(10, 0.2, 42)
	if err != nil {
		t.Fatalf("TrainTestSplit returned error: %v", err)
	}

	if len(test1) != 2 || len(train1) != 8 {
		t.Fatalf("expected an 8/2 split of 10 rows, got %d/%d", len(train1), len(test1))
	}
	for i := range train1 {
		if train1[i] != train2[i] {
			t.Fatalf("train split differs between identically seeded runs at %d", i)
		}
	}
	for i := range test1 {
		if test1[i] != test2[i] {
			t.Fatalf("test split differs between identically seeded runs at %d", i)
		}
	}

	seen := make(map[int]bool)
	for _, i := range append(append([]int{}, train1...), test1...) {
		if seen[i] {
			t.Fatalf("index %d appears in both splits", i)
		}
		seen[i] = true
	}
	if len(seen) != 10 {
		t.Fatalf("splits cover %d of 10 rows", len(seen))
	}
}

func TestTrainTestSplitValidation(t *testing.T) {
	t.Parallel()

	if _, _, err := TrainTestSplit(1, 0.2, 1); err == nil {
		t.Fatal("expected error for a single row")
	}
	if _, _, err := TrainTestSplit(10, 0, 1); err == nil {
		t.Fatal("expected error for zero test fraction")
	}
	if _, _, err := TrainTestSplit(10, 1, 1); err == nil {
		t.Fatal("expected error for test fraction of 1")
	}
}

func TestTrainTinyCorpus(t *testing.T) {
	t.Parallel()

	dataset := tinyDataset()
	pipeline, report, err := Train(dataset, DefaultTrainConfig())
	if err != nil {
		t.Fatalf("Train returned error: %v", err)
	}

	// Balancing lifts the tired singleton to the hungry count.
	if report.BalancedSamples != 6 {
		t.Fatalf("expected 6 balanced rows, got %d", report.BalancedSamples)
	}
	if report.TrainSamples+report.TestSamples != 6 {
		t.Fatalf("split does not cover the balanced rows: %d + %d", report.TrainSamples, report.TestSamples)
	}
	if report.Accuracy < 0 || report.Accuracy > 1 {
		t.Fatalf("accuracy %v outside [0,1]", report.Accuracy)
	}
	if report.WeightedF1 < 0 || report.WeightedF1 > 1 {
		t.Fatalf("weighted F1 %v outside [0,1]", report.WeightedF1)
	}
	if len(report.Labels) != 2 || report.Labels[0] != "hungry" || report.Labels[1] != "tired" {
		t.Fatalf("unexpected label order: %v", report.Labels)
	}

	matrixTotal := 0
	for _, row := range report.ConfusionMatrix {
		for _, count := range row {
			matrixTotal += count
		}
	}
	if matrixTotal != report.TestSamples {
		t.Fatalf("confusion matrix sums to %d, want %d", matrixTotal, report.TestSamples)
	}

	// The clusters are far apart, so every original recording should
	// come back with its own label.
	for _, sample := range dataset.Samples {
		got, confidence, err := pipeline.PredictVector(sample.Features)
		if err != nil {
			t.Fatalf("PredictVector returned error for %s: %v", sample.Path, err)
		}
		if got != sample.Label {
			t.Fatalf("%s predicted as %q, want %q", sample.Path, got, sample.Label)
		}
		if confidence <= 0 || confidence > 1 {
			t.Fatalf("confidence %v outside (0,1]", confidence)
		}
	}

	t.Logf("tiny corpus: accuracy=%.3f weightedF1=%.3f baseline=%.3f params=%+v",
		report.Accuracy, report.WeightedF1, report.BaselineAccuracy, report.BestParams)
}

func TestTrainRejectsDegenerateDatasets(t *testing.T) {
	t.Parallel()

	if _, _, err := Train(&Dataset{}, DefaultTrainConfig()); err == nil {
		t.Fatal("expected error for empty dataset")
	}

	single := &Dataset{Samples: []Sample{
		{Path: "a.wav", Label: "hungry", Features: []float64{1, 2}},
		{Path: "b.wav", Label: "hungry", Features: []float64{2, 1}},
	}}
	if _, _, err := Train(single, DefaultTrainConfig()); err == nil {
		t.Fatal("expected error for a single-category dataset")
	}
}

func TestTrainSkipSearchUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg := DefaultTrainConfig()
	cfg.SkipSearch = true

	_, report, err := Train(tinyDataset(), cfg)
	if err != nil {
		t.Fatalf("Train returned error: %v", err)
	}
	if report.BestParams != DefaultForestParams() {
		t.Fatalf("expected default parameters, got %+v", report.BestParams)
	}
	if report.BestCVScore != 0 {
		t.Fatalf("skipped search should report no CV score, got %v", report.BestCVScore)
	}
}
