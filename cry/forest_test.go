package cry

import (
	"math/rand"
	"testing"
)

// separableTrainingSet builds three well-separated clusters in four
// dimensions.
func separableTrainingSet(rng *rand.Rand, perClass int) ([][]float64, []int) {
	centers := [][]float64{
		{0, 0, 0, 0},
		{6, 6, 0, 0},
		{0, 6, 6, 0},
	}

	var features [][]float64
	var labels []int
	for class, center := range centers {
		for _, row := range blobRows(rng, center, perClass, 1.0) {
			features = append(features, row)
			labels = append(labels, class)
		}
	}
	return features, labels
}

func TestForestSeparatesClusters(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	features, labels := separableTrainingSet(rng, 20)

	forest, err := NewForest(ForestParams{Trees: 30, MaxDepth: 10, MinSamplesSplit: 2, MinSamplesLeaf: 1}, 3, 42)
	if err != nil {
		t.Fatalf("NewForest returned error: %v", err)
	}
	if err := forest.Fit(features, labels); err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}

	preds, err := forest.PredictBatch(features)
	if err != nil {
		t.Fatalf("PredictBatch returned error: %v", err)
	}
	if acc := Accuracy(labels, preds); acc < 0.95 {
		t.Fatalf("training accuracy %.3f too low for separable clusters", acc)
	}

	probes := [][]float64{
		{0.5, -0.5, 0, 0},
		{6.5, 5.5, 0.2, 0},
		{0.3, 6.1, 5.8, 0},
	}
	for class, row := range probes {
		got, confidence, err := forest.PredictWithConfidence(row)
		if err != nil {
			t.Fatalf("PredictWithConfidence returned error: %v", err)
		}
		if got != class {
			t.Fatalf("point near center %d classified as %d", class, got)
		}
		if confidence <= 0.5 || confidence > 1 {
			t.Fatalf("confidence %.3f implausible for a clean cluster", confidence)
		}
	}

	votes, err := forest.Votes(probes[0])
	if err != nil {
		t.Fatalf("Votes returned error: %v", err)
	}
	total := 0
	for _, v := range votes {
		total += v
	}
	if total != 30 {
		t.Fatalf("votes should sum to the tree count, got %d", total)
	}
}

func TestForestDeterministicWithSeed(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(5))
	features, labels := separableTrainingSet(rng, 12)

	train := func() []int {
		forest, err := NewForest(ForestParams{Trees: 15, MaxDepth: 8, MinSamplesSplit: 2, MinSamplesLeaf: 1}, 3, 42)
		if err != nil {
			t.Fatalf("NewForest returned error: %v", err)
		}
		if err := forest.Fit(features, labels); err != nil {
			t.Fatalf("Fit returned error: %v", err)
		}
		preds, err := forest.PredictBatch(features)
		if err != nil {
			t.Fatalf("PredictBatch returned error: %v", err)
		}
		return preds
	}

	first := train()
	second := train()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("prediction %d differs between identically seeded forests: %d vs %d", i, first[i], second[i])
		}
	}
}

func TestForestSingleClassTraining(t *testing.T) {
	t.Parallel()

	features := [][]float64{{1, 1}, {1.5, 0.5}, {0.5, 1.5}}
	labels := []int{0, 0, 0}

	forest, err := NewForest(DefaultForestParams(), 2, 42)
	if err != nil {
		t.Fatalf("NewForest returned error: %v", err)
	}
	if err := forest.Fit(features, labels); err != nil {
		t.Fatalf("Fit returned error: %v", err)
	}

	got, err := forest.Predict([]float64{100, -100})
	if err != nil {
		t.Fatalf("Predict returned error: %v", err)
	}
	if got != 0 {
		t.Fatalf("single-class forest must always predict that class, got %d", got)
	}
}

func TestForestValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewForest(ForestParams{Trees: 0, MinSamplesSplit: 2, MinSamplesLeaf: 1}, 2, 1); err == nil {
		t.Fatal("expected error for zero trees")
	}
	if _, err := NewForest(ForestParams{Trees: 5, MinSamplesSplit: 1, MinSamplesLeaf: 1}, 2, 1); err == nil {
		t.Fatal("expected error for min samples split below 2")
	}
	if _, err := NewForest(ForestParams{Trees: 5, MinSamplesSplit: 2, MinSamplesLeaf: 0}, 2, 1); err == nil {
		t.Fatal("expected error for min samples leaf below 1")
	}
	if _, err := NewForest(DefaultForestParams(), 1, 1); err == nil {
		t.Fatal("expected error for a single class")
	}

	forest, err := NewForest(DefaultForestParams(), 2, 1)
	if err != nil {
		t.Fatalf("NewForest returned error: %v", err)
	}
	if _, err := forest.Predict([]float64{1, 2}); err == nil {
		t.Fatal("expected error from unfitted forest")
	}
	if err := forest.Fit([][]float64{{1}}, []int{5}); err == nil {
		t.Fatal("expected error for out-of-range label")
	}
	if err := forest.Fit([][]float64{{1}}, []int{0, 1}); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestGridSearchPicksGridMember(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(9))
	features, labels := separableTrainingSet(rng, 10)

	grid := ParamGrid{
		Trees:           []int{10},
		MaxDepths:       []int{5},
		MinSamplesSplit: []int{2},
		MinSamplesLeaf:  []int{1, 2},
	}

	best, all, err := GridSearch(features, labels, 3, grid, 3, 42)
	if err != nil {
		t.Fatalf("GridSearch returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 scored combinations, got %d", len(all))
	}

	inGrid := false
	for _, res := range all {
		if res.MeanScore < 0 || res.MeanScore > 1 {
			t.Fatalf("mean accuracy %v outside [0,1]", res.MeanScore)
		}
		if res.Params == best.Params {
			inGrid = true
		}
	}
	if !inGrid {
		t.Fatal("best parameters are not a grid member")
	}

	again, _, err := GridSearch(features, labels, 3, grid, 3, 42)
	if err != nil {
		t.Fatalf("second GridSearch returned error: %v", err)
	}
	if again.Params != best.Params || again.MeanScore != best.MeanScore {
		t.Fatalf("grid search not reproducible: %+v vs %+v", again, best)
	}

	t.Logf("best combination: %+v (accuracy %.3f)", best.Params, best.MeanScore)
}

func TestStratifiedKFoldSpreadsClasses(t *testing.T) {
	t.Parallel()

	labels := make([]int, 30)
	for i := range labels {
		labels[i] = i % 3
	}

	folds := stratifiedKFold(labels, 3, 42)
	if len(folds) != 3 {
		t.Fatalf("expected 3 folds, got %d", len(folds))
	}

	seen := make(map[int]bool)
	for f, fold := range folds {
		if len(fold) != 10 {
			t.Fatalf("fold %d has %d rows, want 10", f, len(fold))
		}
		perClass := map[int]int{}
		for _, i := range fold {
			if seen[i] {
				t.Fatalf("index %d assigned to two folds", i)
			}
			seen[i] = true
			perClass[labels[i]]++
		}
		for class, count := range perClass {
			if count < 3 {
				t.Fatalf("fold %d has only %d rows of class %d", f, count, class)
			}
		}
	}
	if len(seen) != len(labels) {
		t.Fatalf("folds cover %d of %d rows", len(seen), len(labels))
	}
}
