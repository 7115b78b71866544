package cry

import (
	"math/rand"
	"testing"
)

func TestNearestCentroidSeparatesClusters(t *testing.T) {
	t.Parallel()

	// Clusters along distinct axes, since the baseline compares by angle.
	centers := [][]float64{
		{6, 0, 0, 0},
		{0, 6, 0, 0},
		{0, 0, 6, 0},
	}
	rng := rand.New(rand.NewSource(13))
	var features [][]float64
	var labels []int
	for class, center := range centers {
		for _, row := range blobRows(rng, center, 15, 1.0) {
			features = append(features, row)
			labels = append(labels, class)
		}
	}

	baseline := NewNearestCentroid(3)
	if err := baseline.Fit(features, labels); err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}

	preds := baseline.PredictBatch(features)
	if len(preds) != len(features) {
		t.Fatalf("expected %d predictions, got %d", len(features), len(preds))
	}
	if acc := Accuracy(labels, preds); acc < 0.9 {
		t.Fatalf("baseline accuracy %.3f too low for separable clusters", acc)
	}
}

func TestNearestCentroidSkipsEmptyClass(t *testing.T) {
	t.Parallel()

	features := [][]float64{{1, 0}, {0.9, 0.1}, {0, 5}, {0.2, 4.8}}
	labels := []int{0, 0, 2, 2}

	baseline := NewNearestCentroid(3)
	if err := baseline.Fit(features, labels); err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}

	if got := baseline.Predict([]float64{0.1, 5.1}); got != 2 {
		t.Fatalf("expected class 2, got %d", got)
	}
	if got := baseline.Predict([]float64{1.1, -0.1}); got != 0 {
		t.Fatalf("expected class 0, got %d", got)
	}
}

func TestNearestCentroidValidation(t *testing.T) {
	t.Parallel()

	baseline := NewNearestCentroid(2)
	if err := baseline.Fit(nil, nil); err == nil {
		t.Fatal("expected error for empty input")
	}
	if err := baseline.Fit([][]float64{{1}}, []int{0, 1}); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
	if err := baseline.Fit([][]float64{{1}}, []int{7}); err == nil {
		t.Fatal("expected error for out-of-range label")
	}
}
