package cry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cry-classification/utils"
)

// Print writes the full evaluation to stdout.
func (r *EvaluationReport) Print() {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 64))
	fmt.Println("EVALUATION REPORT")
	fmt.Println(strings.Repeat("=", 64))
	fmt.Printf("Timestamp:          %s\n", r.Timestamp.Format("2006-01-02 15:04:05"))
	if r.CorpusDir != "" {
		fmt.Printf("Corpus:             %s\n", r.CorpusDir)
	}
	fmt.Printf("Samples:            %d (balanced to %d)\n", r.TotalSamples, r.BalancedSamples)
	fmt.Printf("Train / test split: %d / %d\n", r.TrainSamples, r.TestSamples)
	fmt.Printf("Best parameters:    trees=%d depth=%d split=%d leaf=%d\n",
		r.BestParams.Trees, r.BestParams.MaxDepth, r.BestParams.MinSamplesSplit, r.BestParams.MinSamplesLeaf)
	if r.BestCVScore > 0 {
		fmt.Printf("CV accuracy:        %.2f%%\n", r.BestCVScore*100)
	}
	fmt.Printf("Test accuracy:      %.2f%%\n", r.Accuracy*100)
	fmt.Printf("Weighted F1:        %.4f\n", r.WeightedF1)
	fmt.Printf("Centroid baseline:  %.2f%%\n", r.BaselineAccuracy*100)
	fmt.Printf("Processing time:    %s\n", r.ProcessingTime.Round(time.Millisecond))

	fmt.Println()
	fmt.Print(FormatClassificationReport(r.ClassMetrics))
	fmt.Println()
	fmt.Print(FormatConfusionMatrix(r.ConfusionMatrix, r.Labels))

	if len(r.Misclassified) > 0 {
		fmt.Println("\nMisclassified recordings:")
		for _, m := range r.Misclassified {
			fmt.Printf("  %s: '%s' -> predicted as '%s'\n", m.Path, m.TrueLabel, m.PredictedLabel)
		}
	}

	fmt.Println()
	r.printVerdict()
	fmt.Println(strings.Repeat("=", 64))
}

// printVerdict summarises the accuracy in one line.
func (r *EvaluationReport) printVerdict() {
	switch {
	case r.Accuracy >= 0.9:
		fmt.Println("Verdict: EXCELLENT - model is ready for use")
	case r.Accuracy >= 0.8:
		fmt.Println("Verdict: GOOD - model performs well")
	case r.Accuracy >= 0.7:
		fmt.Println("Verdict: FAIR - consider adding more recordings")
	default:
		fmt.Println("Verdict: POOR - model needs more or cleaner data")
	}
}

// Save writes the report as indented JSON, creating the parent directory
// when needed.
func (r *EvaluationReport) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := utils.CreateFolder(dir); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
