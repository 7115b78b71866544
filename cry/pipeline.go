package cry

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"
)

// DefaultSeed drives every randomised stage, so repeated runs over the
// same corpus reproduce the same balancing, split, folds and trees.
const DefaultSeed = 42

// DefaultTestFraction is the held-out share of the balanced dataset.
const DefaultTestFraction = 0.2

// TrainTestSplit shuffles row indices with the seed and carves off the
// leading fraction as the test set. The same seed and row count always
// produce the same split.
func TrainTestSplit(n int, testFraction float64, seed int64) ([]int, []int, error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("need at least 2 rows to split, got %d", n)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("invalid test fraction: %v", testFraction)
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(a, b int) {
		indices[a], indices[b] = indices[b], indices[a]
	})

	testCount := int(math.Ceil(testFraction * float64(n)))
	if testCount >= n {
		testCount = n - 1
	}

	return indices[testCount:], indices[:testCount], nil
}

// Pipeline bundles the fitted scaler, ensemble and label mapping behind
// one prediction surface.
type Pipeline struct {
	Scaler  *StandardScaler
	Forest  *Forest
	Encoder *LabelEncoder
}

// PredictVector classifies one raw feature vector and returns the
// decoded category with the ensemble vote fraction.
func (p *Pipeline) PredictVector(features []float64) (string, float64, error) {
	scaled := p.Scaler.Transform(features)
	code, confidence, err := p.Forest.PredictWithConfidence(scaled)
	if err != nil {
		return "", 0, err
	}
	label, err := p.Encoder.Decode(code)
	if err != nil {
		return "", 0, err
	}
	return label, confidence, nil
}

// TrainConfig controls a full modelling run.
type TrainConfig struct {
	TestFraction float64
	CVFolds      int
	Grid         ParamGrid
	Seed         int64
	SkipSearch   bool // train DefaultForestParams without a grid search
}

// DefaultTrainConfig returns the standard modelling settings.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		TestFraction: DefaultTestFraction,
		CVFolds:      DefaultCVFolds,
		Grid:         DefaultParamGrid(),
		Seed:         DefaultSeed,
	}
}

// Train runs the modelling stage over an assembled dataset: encode
// labels, balance classes, split, select hyperparameters, fit the final
// ensemble and evaluate it on the held-out rows.
func Train(dataset *Dataset, cfg TrainConfig) (*Pipeline, *EvaluationReport, error) {
	start := time.Now()

	if dataset == nil || len(dataset.Samples) == 0 {
		return nil, nil, fmt.Errorf("empty dataset")
	}

	encoder := NewLabelEncoder()
	if err := encoder.Fit(dataset.Labels()); err != nil {
		return nil, nil, err
	}
	if encoder.NumClasses() < 2 {
		return nil, nil, fmt.Errorf("need at least 2 categories to train, got %d", encoder.NumClasses())
	}

	codes, err := encoder.Transform(dataset.Labels())
	if err != nil {
		return nil, nil, err
	}

	balancedX, balancedY, err := Oversample(dataset.FeatureMatrix(), codes, cfg.Seed)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("Balanced dataset: %d -> %d rows across %d categories",
		len(dataset.Samples), len(balancedX), encoder.NumClasses())

	trainIdx, testIdx, err := TrainTestSplit(len(balancedX), cfg.TestFraction, cfg.Seed)
	if err != nil {
		return nil, nil, err
	}

	trainX := make([][]float64, len(trainIdx))
	trainY := make([]int, len(trainIdx))
	for i, idx := range trainIdx {
		trainX[i] = balancedX[idx]
		trainY[i] = balancedY[idx]
	}
	testX := make([][]float64, len(testIdx))
	testY := make([]int, len(testIdx))
	for i, idx := range testIdx {
		testX[i] = balancedX[idx]
		testY[i] = balancedY[idx]
	}

	scaler, err := NewStandardScaler(trainX)
	if err != nil {
		return nil, nil, err
	}
	scaledTrain := scaler.TransformAll(trainX)
	scaledTest := scaler.TransformAll(testX)

	var best SearchResult
	if cfg.SkipSearch {
		best = SearchResult{Params: DefaultForestParams()}
		log.Printf("Skipping grid search, using trees=%d depth=%d split=%d leaf=%d",
			best.Params.Trees, best.Params.MaxDepth, best.Params.MinSamplesSplit, best.Params.MinSamplesLeaf)
	} else {
		combos := cfg.Grid.Combinations()
		log.Printf("Grid search over %d combinations (%d-fold cross-validation)", len(combos), cfg.CVFolds)
		best, _, err = GridSearch(scaledTrain, trainY, encoder.NumClasses(), cfg.Grid, cfg.CVFolds, cfg.Seed)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Best combination: trees=%d depth=%d split=%d leaf=%d (accuracy %.4f)",
			best.Params.Trees, best.Params.MaxDepth, best.Params.MinSamplesSplit, best.Params.MinSamplesLeaf,
			best.MeanScore)
	}

	forest, err := NewForest(best.Params, encoder.NumClasses(), cfg.Seed)
	if err != nil {
		return nil, nil, err
	}
	if err := forest.Fit(scaledTrain, trainY); err != nil {
		return nil, nil, err
	}

	preds, err := forest.PredictBatch(scaledTest)
	if err != nil {
		return nil, nil, err
	}

	matrix := NewConfusionMatrix(testY, preds, encoder.NumClasses())
	classMetrics := ClassificationReport(matrix, encoder.Classes)

	baseline := NewNearestCentroid(encoder.NumClasses())
	baselineAccuracy := 0.0
	if err := baseline.Fit(scaledTrain, trainY); err == nil {
		basePreds := baseline.PredictBatch(scaledTest)
		baselineAccuracy = Accuracy(testY, basePreds)
	}

	report := &EvaluationReport{
		Timestamp:        time.Now(),
		TotalSamples:     len(dataset.Samples),
		BalancedSamples:  len(balancedX),
		TrainSamples:     len(trainIdx),
		TestSamples:      len(testIdx),
		Accuracy:         Accuracy(testY, preds),
		WeightedF1:       WeightedF1(classMetrics),
		BaselineAccuracy: baselineAccuracy,
		BestParams:       best.Params,
		BestCVScore:      best.MeanScore,
		Labels:           encoder.Classes,
		ClassMetrics:     classMetrics,
		ConfusionMatrix:  matrix,
		Misclassified:    collectMisclassified(dataset, testIdx, testY, preds, encoder),
		ProcessingTime:   time.Since(start),
	}

	pipeline := &Pipeline{
		Scaler:  scaler,
		Forest:  forest,
		Encoder: encoder,
	}

	return pipeline, report, nil
}

// collectMisclassified maps wrong test predictions back to their source
// recordings. Rows synthesised during balancing have no file of their
// own and are labelled as synthetic.
func collectMisclassified(dataset *Dataset, testIdx []int, testY, preds []int, encoder *LabelEncoder) []MisclassificationInfo {
	var out []MisclassificationInfo
	for i, idx := range testIdx {
		if testY[i] == preds[i] {
			continue
		}

		path := fmt.Sprintf("synthetic#%d", idx)
		if idx < len(dataset.Samples) {
			path = dataset.Samples[idx].Path
		}

		trueLabel, err := encoder.Decode(testY[i])
		if err != nil {
			continue
		}
		predLabel, err := encoder.Decode(preds[i])
		if err != nil {
			continue
		}

		out = append(out, MisclassificationInfo{
			Path:           path,
			TrueLabel:      trueLabel,
			PredictedLabel: predLabel,
		})
	}
	return out
}
