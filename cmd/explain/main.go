package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"sort"

	"cry-classification/cry"

	"github.com/joho/godotenv"
)

// Explain WHY a recording gets classified the way it does: the raw
// feature vector, the per-tree vote split, and the matching care advice.
func main() {
	corpusDir := flag.String("corpus", "corpus", "Corpus directory used to train the model")
	search := flag.Bool("search", false, "Run the full grid search before explaining (slow)")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("Usage: explain [-corpus dir] [-search] <recording.wav>")
	}
	testFile := flag.Arg(0)
	_ = godotenv.Load()

	fmt.Printf("=== Explaining Classification for: %s ===\n\n", filepath.Base(testFile))

	extractor, err := cry.NewExtractor(cry.DefaultExtractorConfig())
	if err != nil {
		log.Fatalf("Failed to build extractor: %v", err)
	}

	dataset, stats, err := cry.AssembleDataset(*corpusDir, extractor, nil)
	if err != nil {
		log.Fatalf("Failed to assemble dataset: %v", err)
	}

	fmt.Printf("📊 Corpus Overview:\n")
	fmt.Printf("   Total recordings: %d\n", stats.SuccessfulCount)
	labels := make([]string, 0, len(stats.LabelCounts))
	for label := range stats.LabelCounts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Printf("   - %s: %d samples\n", label, stats.LabelCounts[label])
	}
	fmt.Println()

	cfg := cry.DefaultTrainConfig()
	cfg.SkipSearch = !*search
	pipeline, _, err := cry.Train(dataset, cfg)
	if err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	clip, err := cry.LoadClip(testFile)
	if err != nil {
		log.Fatalf("Failed to load recording: %v", err)
	}
	features, err := extractor.Extract(clip.Samples, clip.SampleRate)
	if err != nil {
		log.Fatalf("Feature extraction failed: %v", err)
	}

	fmt.Printf("🔍 Recording:\n")
	fmt.Printf("   Duration: %.2f s at %d Hz\n", clip.Duration, clip.SampleRate)
	fmt.Printf("   Estimated SNR: %.1f dB\n", cry.EstimateSNR(clip.Samples))
	fmt.Println()

	fmt.Printf("🔍 Extracted Features:\n")
	for i, name := range cry.FeatureNames() {
		fmt.Printf("   %2d. %-16s %12.6f\n", i+1, name, features[i])
	}
	fmt.Println()

	scaled := pipeline.Scaler.Transform(features)
	votes, err := pipeline.Forest.Votes(scaled)
	if err != nil {
		log.Fatalf("Vote tally failed: %v", err)
	}

	category, confidence, err := pipeline.PredictVector(features)
	if err != nil {
		log.Fatalf("Classification failed: %v", err)
	}

	totalVotes := 0
	for _, v := range votes {
		totalVotes += v
	}

	type voteTally struct {
		label string
		count int
	}
	tallies := make([]voteTally, 0, len(votes))
	for code, count := range votes {
		label, err := pipeline.Encoder.Decode(code)
		if err != nil {
			log.Fatalf("Unknown class code %d: %v", code, err)
		}
		tallies = append(tallies, voteTally{label: label, count: count})
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].count != tallies[j].count {
			return tallies[i].count > tallies[j].count
		}
		return tallies[i].label < tallies[j].label
	})

	fmt.Printf("🎯 Tree Votes (%d trees):\n", totalVotes)
	for _, t := range tallies {
		marker := " "
		if t.label == category {
			marker = "→"
		}
		fmt.Printf("   %s %-12s %4d votes (%.1f%%)\n",
			marker, t.label, t.count, float64(t.count)/float64(totalVotes)*100)
	}
	fmt.Println()

	fmt.Printf("💡 Why %.1f%% confidence for '%s'?\n\n", confidence*100, category)
	switch {
	case confidence >= 0.9:
		fmt.Printf("   ✅ Nearly every tree agrees. The recording sits well inside\n")
		fmt.Printf("      the '%s' region of the feature space.\n", category)
	case confidence >= 0.6:
		fmt.Printf("   ✅ A clear majority of trees agree, with some competition\n")
		fmt.Printf("      from the runner-up class. Typical for real-world cries.\n")
	default:
		fmt.Printf("   ⚠️  The trees are split. The recording is acoustically\n")
		fmt.Printf("      ambiguous, or this reason is under-represented in the corpus.\n")
	}

	if advice := cry.CareAdviceFor(category); advice != nil {
		fmt.Println()
		fmt.Printf("🍼 Care Guidance:\n")
		fmt.Printf("   %s\n", advice.Summary)
		for _, s := range advice.Suggestions {
			fmt.Printf("   - %s\n", s)
		}
		if advice.SeekHelp != "" {
			fmt.Printf("   ! %s\n", advice.SeekHelp)
		}
	}
}
