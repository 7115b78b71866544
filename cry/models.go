package cry

import "time"

// Categories is the closed set of cry reasons, matching the corpus folder
// names. Encoder codes follow the sorted order of the labels actually seen.
var Categories = []string{"belly_pain", "burping", "discomfort", "hungry", "tired"}

// Sample pairs a labelled recording with its extracted feature vector.
type Sample struct {
	Path     string    `json:"path"`
	Label    string    `json:"label"`
	Features []float64 `json:"features"`
}

// Dataset holds the assembled corpus in extraction order.
type Dataset struct {
	Samples []Sample `json:"samples"`
}

// FeatureMatrix returns the feature rows as a matrix, one row per sample.
func (d *Dataset) FeatureMatrix() [][]float64 {
	matrix := make([][]float64, len(d.Samples))
	for i, s := range d.Samples {
		matrix[i] = s.Features
	}
	return matrix
}

// Labels returns the label column aligned with FeatureMatrix.
func (d *Dataset) Labels() []string {
	labels := make([]string, len(d.Samples))
	for i, s := range d.Samples {
		labels[i] = s.Label
	}
	return labels
}

// AssemblyStats tracks the dataset assembly process.
type AssemblyStats struct {
	TotalFiles       int            `json:"totalFiles"`
	SuccessfulCount  int            `json:"successfulCount"`
	FailedCount      int            `json:"failedCount"`
	LabelCounts      map[string]int `json:"labelCounts"`
	ProcessingTimeMs float64        `json:"processingTimeMs"`
}

// Prediction is the decoded classifier output for one file.
type Prediction struct {
	Path       string      `json:"path"`
	Category   string      `json:"category"`
	Confidence float64     `json:"confidence"`
	Advice     *CareAdvice `json:"advice,omitempty"`
}

// ClassMetrics tracks per-class evaluation results.
type ClassMetrics struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// MisclassificationInfo stores details of an incorrect test prediction.
type MisclassificationInfo struct {
	Path           string `json:"path"`
	TrueLabel      string `json:"trueLabel"`
	PredictedLabel string `json:"predictedLabel"`
}

// EvaluationReport contains the held-out evaluation results for one run.
type EvaluationReport struct {
	Timestamp        time.Time               `json:"timestamp"`
	CorpusDir        string                  `json:"corpusDir"`
	TotalSamples     int                     `json:"totalSamples"`
	BalancedSamples  int                     `json:"balancedSamples"`
	TrainSamples     int                     `json:"trainSamples"`
	TestSamples      int                     `json:"testSamples"`
	Accuracy         float64                 `json:"accuracy"`
	WeightedF1       float64                 `json:"weightedF1"`
	BaselineAccuracy float64                 `json:"baselineAccuracy"`
	BestParams       ForestParams            `json:"bestParams"`
	BestCVScore      float64                 `json:"bestCvScore"`
	Labels           []string                `json:"labels"`
	ClassMetrics     []ClassMetrics          `json:"classMetrics"`
	ConfusionMatrix  [][]int                 `json:"confusionMatrix"`
	Misclassified    []MisclassificationInfo `json:"misclassified,omitempty"`
	ProcessingTime   time.Duration           `json:"processingTime"`
}
