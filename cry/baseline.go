package cry

import (
	"fmt"
	"math"
)

// NearestCentroid is a sanity baseline: one centroid per class in scaled
// feature space, classification by cosine similarity. The ensemble has
// to beat this for its complexity to pay off.
type NearestCentroid struct {
	NumClasses int
	Centroids  [][]float64
	Counts     []int
}

// NewNearestCentroid returns an untrained baseline.
func NewNearestCentroid(numClasses int) *NearestCentroid {
	return &NearestCentroid{NumClasses: numClasses}
}

// Fit averages the rows of each class into its centroid.
func (nc *NearestCentroid) Fit(features [][]float64, labels []int) error {
	if len(features) == 0 {
		return fmt.Errorf("no training rows")
	}
	if len(features) != len(labels) {
		return fmt.Errorf("feature and label counts differ: %d vs %d", len(features), len(labels))
	}

	dims := len(features[0])
	centroids := make([][]float64, nc.NumClasses)
	counts := make([]int, nc.NumClasses)
	for i := range centroids {
		centroids[i] = make([]float64, dims)
	}

	for i, row := range features {
		label := labels[i]
		if label < 0 || label >= nc.NumClasses {
			return fmt.Errorf("label code %d out of range [0,%d)", label, nc.NumClasses)
		}
		for j, val := range row {
			centroids[label][j] += val
		}
		counts[label]++
	}

	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for j := range centroids[c] {
			centroids[c][j] /= float64(counts[c])
		}
	}

	nc.Centroids = centroids
	nc.Counts = counts
	return nil
}

// Predict returns the class whose centroid is most similar to the row.
// Classes without training rows never win.
func (nc *NearestCentroid) Predict(features []float64) int {
	best := 0
	bestSim := math.Inf(-1)
	for c, centroid := range nc.Centroids {
		if nc.Counts[c] == 0 {
			continue
		}
		sim := cosineSimilarity(features, centroid)
		if sim > bestSim {
			bestSim = sim
			best = c
		}
	}
	return best
}

// PredictBatch classifies every row.
func (nc *NearestCentroid) PredictBatch(rows [][]float64) []int {
	out := make([]int, len(rows))
	for i, row := range rows {
		out[i] = nc.Predict(row)
	}
	return out
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Zero vectors score zero.
func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
