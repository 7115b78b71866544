package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"cry-classification/cry"
)

// Verify the pipeline is deterministic: repeated extraction of the same
// recording must match to the last bit, and two identically seeded
// training runs must agree on every score.
func main() {
	runs := flag.Int("runs", 5, "How many times to re-extract the recording")
	corpusDir := flag.String("corpus", "", "Optional corpus; trains twice with the same seed and compares")
	search := flag.Bool("search", false, "Include the grid search in the double-training check (slow)")
	flag.Parse()

	if flag.NArg() < 1 && *corpusDir == "" {
		log.Fatal("Usage: verify_determinism [-runs n] [-corpus dir] [-search] <recording.wav>")
	}

	failed := false
	if flag.NArg() >= 1 {
		if !verifyExtraction(flag.Arg(0), *runs) {
			failed = true
		}
	}
	if *corpusDir != "" {
		if !verifyTraining(*corpusDir, *search) {
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

func verifyExtraction(testFile string, numRuns int) bool {
	log.Printf("Testing extraction determinism with: %s\n", testFile)

	var featureSets [][]float64
	for i := 0; i < numRuns; i++ {
		// Fresh extractor per run so no cached state can leak between runs.
		extractor, err := cry.NewExtractor(cry.DefaultExtractorConfig())
		if err != nil {
			log.Fatalf("Run %d failed: %v", i+1, err)
		}
		features, err := extractor.ExtractFile(testFile)
		if err != nil {
			log.Fatalf("Run %d failed: %v", i+1, err)
		}
		featureSets = append(featureSets, features)
		log.Printf("Run %d: First 5 features: %.10f, %.10f, %.10f, %.10f, %.10f",
			i+1, features[0], features[1], features[2], features[3], features[4])
	}

	fmt.Println("\n=== Extraction Determinism Check ===")
	allIdentical := true
	maxDiff := 0.0

	for i := 1; i < numRuns; i++ {
		for j := 0; j < len(featureSets[0]); j++ {
			diff := math.Abs(featureSets[0][j] - featureSets[i][j])
			if diff > maxDiff {
				maxDiff = diff
			}
			if diff > 1e-12 {
				allIdentical = false
				fmt.Printf("❌ Feature %d differs between run 1 and run %d: %.15f vs %.15f (diff: %e)\n",
					j, i+1, featureSets[0][j], featureSets[i][j], diff)
			}
		}
	}

	if allIdentical {
		fmt.Printf("✅ All %d runs produced IDENTICAL features (max diff: %e)\n", numRuns, maxDiff)
		return true
	}

	fmt.Printf("❌ Feature extraction is NON-DETERMINISTIC (max diff: %e)\n", maxDiff)
	return false
}

func verifyTraining(corpusDir string, withSearch bool) bool {
	fmt.Println("\n=== Training Reproducibility Check ===")

	first := trainOnce(corpusDir, withSearch)
	second := trainOnce(corpusDir, withSearch)

	ok := true
	if first.Accuracy != second.Accuracy || first.WeightedF1 != second.WeightedF1 {
		fmt.Printf("❌ Identically seeded runs disagree: accuracy %.6f vs %.6f, F1 %.6f vs %.6f\n",
			first.Accuracy, second.Accuracy, first.WeightedF1, second.WeightedF1)
		ok = false
	}
	if first.BestParams != second.BestParams {
		fmt.Printf("❌ Identically seeded runs picked different parameters: %+v vs %+v\n",
			first.BestParams, second.BestParams)
		ok = false
	}
	for i := range first.ConfusionMatrix {
		for j := range first.ConfusionMatrix[i] {
			if first.ConfusionMatrix[i][j] != second.ConfusionMatrix[i][j] {
				fmt.Printf("❌ Confusion matrices differ at [%d][%d]: %d vs %d\n",
					i, j, first.ConfusionMatrix[i][j], second.ConfusionMatrix[i][j])
				ok = false
			}
		}
	}

	if ok {
		fmt.Printf("✅ Two runs with seed %d produced identical results (accuracy %.4f)\n",
			cry.DefaultSeed, first.Accuracy)
	}
	return ok
}

func trainOnce(corpusDir string, withSearch bool) *cry.EvaluationReport {
	extractor, err := cry.NewExtractor(cry.DefaultExtractorConfig())
	if err != nil {
		log.Fatalf("Failed to build extractor: %v", err)
	}

	dataset, _, err := cry.AssembleDataset(corpusDir, extractor, nil)
	if err != nil {
		log.Fatalf("Failed to assemble dataset: %v", err)
	}

	cfg := cry.DefaultTrainConfig()
	cfg.SkipSearch = !withSearch
	_, report, err := cry.Train(dataset, cfg)
	if err != nil {
		log.Fatalf("Training failed: %v", err)
	}
	return report
}
