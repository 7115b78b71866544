package cry

// Feature standardization.
//
// Statistics are fitted on the training rows only and then applied
// unchanged to held-out rows and to prediction input, so no information
// leaks from the test split into training.

import (
	"errors"
	"math"
)

// minStddev floors near-zero deviations so constant columns pass through
// unscaled instead of dividing by zero.
const minStddev = 1e-10

// StandardScaler standardizes features using z-score normalization. Each
// column is transformed to mean 0 and unit deviation, using statistics
// from the rows it was fitted on.
type StandardScaler struct {
	Mean   []float64 `json:"mean"`
	Stddev []float64 `json:"stddev"`
}

// NewStandardScaler computes column statistics from the given rows.
func NewStandardScaler(rows [][]float64) (*StandardScaler, error) {
	if len(rows) == 0 {
		return nil, errors.New("no rows provided")
	}

	featureCount := len(rows[0])
	if featureCount == 0 {
		return nil, errors.New("rows have no features")
	}

	mean := make([]float64, featureCount)
	for _, row := range rows {
		if len(row) != featureCount {
			return nil, errors.New("inconsistent feature dimensions")
		}
		for i, val := range row {
			mean[i] += val
		}
	}
	for i := range mean {
		mean[i] /= float64(len(rows))
	}

	stddev := make([]float64, featureCount)
	for _, row := range rows {
		for i, val := range row {
			diff := val - mean[i]
			stddev[i] += diff * diff
		}
	}
	for i := range stddev {
		stddev[i] = math.Sqrt(stddev[i] / float64(len(rows)))
		// Constant columns pass through unscaled.
		if stddev[i] < minStddev {
			stddev[i] = 1.0
		}
	}

	return &StandardScaler{Mean: mean, Stddev: stddev}, nil
}

// Transform applies z-score standardization to one vector. Vectors with
// a different dimension are returned unchanged.
func (s *StandardScaler) Transform(features []float64) []float64 {
	if len(features) != len(s.Mean) {
		return features
	}

	scaled := make([]float64, len(features))
	for i, val := range features {
		scaled[i] = (val - s.Mean[i]) / s.Stddev[i]
	}

	return scaled
}

// TransformAll standardizes a batch of rows.
func (s *StandardScaler) TransformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = s.Transform(row)
	}
	return out
}
