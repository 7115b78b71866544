package cry

import (
	"fmt"
	"math"
)

// FeatureScaleAnalysis summarises the raw scale of every feature column
// before standardization, to spot columns that are near-constant or
// wildly spread.
type FeatureScaleAnalysis struct {
	FeatureNames []string
	MinValues    []float64
	MaxValues    []float64
	MeanValues   []float64
	StdValues    []float64
}

// FeatureNames returns the 35 column names in vector order.
func FeatureNames() []string {
	names := make([]string, 0, FeatureVectorLen)
	for i := 1; i <= NumMFCC; i++ {
		names = append(names, fmt.Sprintf("mfcc_mean_%d", i))
	}
	for i := 1; i <= NumChroma; i++ {
		names = append(names, fmt.Sprintf("chroma_mean_%d", i))
	}
	names = append(names, "zcr_mean")
	for i := 1; i <= NumContrastBands; i++ {
		names = append(names, fmt.Sprintf("contrast_mean_%d", i))
	}
	names = append(names, "rolloff_mean", "centroid_mean", "rms_mean")
	return names
}

// AnalyzeFeatureScales examines the assembled dataset column by column.
func AnalyzeFeatureScales(dataset *Dataset) FeatureScaleAnalysis {
	if dataset == nil || len(dataset.Samples) == 0 {
		return FeatureScaleAnalysis{}
	}

	featureCount := len(dataset.Samples[0].Features)
	analysis := FeatureScaleAnalysis{
		FeatureNames: FeatureNames(),
		MinValues:    make([]float64, featureCount),
		MaxValues:    make([]float64, featureCount),
		MeanValues:   make([]float64, featureCount),
		StdValues:    make([]float64, featureCount),
	}

	for i := range analysis.MinValues {
		analysis.MinValues[i] = math.MaxFloat64
		analysis.MaxValues[i] = -math.MaxFloat64
	}

	for _, sample := range dataset.Samples {
		for i, val := range sample.Features {
			if i >= featureCount {
				break
			}
			if val < analysis.MinValues[i] {
				analysis.MinValues[i] = val
			}
			if val > analysis.MaxValues[i] {
				analysis.MaxValues[i] = val
			}
			analysis.MeanValues[i] += val
		}
	}
	for i := range analysis.MeanValues {
		analysis.MeanValues[i] /= float64(len(dataset.Samples))
	}

	for _, sample := range dataset.Samples {
		for i, val := range sample.Features {
			if i >= featureCount {
				break
			}
			diff := val - analysis.MeanValues[i]
			analysis.StdValues[i] += diff * diff
		}
	}
	for i := range analysis.StdValues {
		analysis.StdValues[i] = math.Sqrt(analysis.StdValues[i] / float64(len(dataset.Samples)))
	}

	return analysis
}

// PrintFeatureScaleReport prints a per-column scale table.
func (f *FeatureScaleAnalysis) PrintFeatureScaleReport() {
	fmt.Println("\n=== Feature Scale Analysis ===")
	fmt.Printf("%-18s %12s %12s %12s %12s %12s\n", "Feature", "Min", "Max", "Mean", "Std", "Range")
	fmt.Println("--------------------------------------------------------------------------------")

	for i, name := range f.FeatureNames {
		if i >= len(f.MinValues) {
			break
		}
		rangeVal := f.MaxValues[i] - f.MinValues[i]
		fmt.Printf("%-18s %12.6f %12.6f %12.6f %12.6f %12.6f\n",
			name, f.MinValues[i], f.MaxValues[i], f.MeanValues[i], f.StdValues[i], rangeVal)
	}
	fmt.Println()
}

// CheckScaleIssues flags columns the standardizer will struggle with.
func (f *FeatureScaleAnalysis) CheckScaleIssues() []string {
	issues := []string{}

	for i, name := range f.FeatureNames {
		if i >= len(f.StdValues) {
			break
		}
		if f.StdValues[i] < minStddev {
			issues = append(issues, fmt.Sprintf(
				"Feature '%s' is near-constant (std %.2e), standardization will pass it through unscaled",
				name, f.StdValues[i]))
			continue
		}
		if math.Abs(f.MeanValues[i]) > 1e-9 {
			coeffVar := f.StdValues[i] / math.Abs(f.MeanValues[i])
			if coeffVar > 2.0 {
				issues = append(issues, fmt.Sprintf(
					"Feature '%s' has high coefficient of variation (%.2f), indicating high variability",
					name, coeffVar))
			}
		}
	}

	return issues
}
