package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"cry-classification/cry"

	"gonum.org/v1/gonum/stat"
)

// Inspect a corpus before training: per-category counts, durations,
// sample rates, SNR estimates and unreadable files, with an optional
// per-column feature scale report.
func main() {
	corpusDir := flag.String("corpus", "corpus", "Corpus directory to inspect")
	features := flag.Bool("features", false, "Also extract features and report per-column scales")
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime)
	log.Println("=== Corpus Inspection ===")
	log.Printf("Corpus: %s\n", *corpusDir)
	log.Println()

	categories, err := cry.DiscoverCategories(*corpusDir)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	if len(categories) == 0 {
		log.Fatalf("ERROR: no category directories found in %s", *corpusDir)
	}

	fmt.Printf("%-15s %7s %10s %10s %11s %8s\n", "Category", "Files", "TotalSec", "MeanSec", "MeanSNR", "Failed")
	fmt.Println(strings.Repeat("-", 68))

	rateCounts := make(map[int]int)
	totalFiles := 0
	totalFailed := 0

	for _, category := range categories {
		files, err := cry.ListWavFiles(filepath.Join(*corpusDir, category))
		if err != nil {
			log.Printf("WARNING: %v\n", err)
			continue
		}
		if len(files) == 0 {
			fmt.Printf("%-15s %7d   (empty, ignored by training)\n", category, 0)
			continue
		}

		var durations, snrs []float64
		failed := 0
		for _, path := range files {
			clip, err := cry.LoadClip(path)
			if err != nil {
				failed++
				log.Printf("WARNING: %s: %v\n", path, err)
				continue
			}
			durations = append(durations, clip.Duration)
			snrs = append(snrs, cry.EstimateSNR(clip.Samples))
			rateCounts[clip.SampleRate]++
		}

		totalFiles += len(files)
		totalFailed += failed

		if len(durations) == 0 {
			fmt.Printf("%-15s %7d   (no readable recordings) %8d\n", category, len(files), failed)
			continue
		}

		totalSec := 0.0
		for _, d := range durations {
			totalSec += d
		}
		fmt.Printf("%-15s %7d %10.1f %10.2f %9.1fdB %8d\n",
			category, len(files), totalSec, stat.Mean(durations, nil), stat.Mean(snrs, nil), failed)
	}

	fmt.Println()
	fmt.Println("Sample rates:")
	rates := make([]int, 0, len(rateCounts))
	for rate := range rateCounts {
		rates = append(rates, rate)
	}
	sort.Ints(rates)
	for _, rate := range rates {
		fmt.Printf("  %6d Hz: %d files\n", rate, rateCounts[rate])
	}

	fmt.Printf("\nTotal: %d files, %d unreadable\n", totalFiles, totalFailed)

	if !*features {
		return
	}

	log.Println()
	log.Println("Extracting features for scale analysis...")
	extractor, err := cry.NewExtractor(cry.DefaultExtractorConfig())
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	dataset, _, err := cry.AssembleDataset(*corpusDir, extractor, nil)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	analysis := cry.AnalyzeFeatureScales(dataset)
	analysis.PrintFeatureScaleReport()

	issues := analysis.CheckScaleIssues()
	if len(issues) == 0 {
		fmt.Println("✓ No scale issues detected")
		return
	}
	fmt.Printf("⚠ %d scale issues:\n", len(issues))
	for _, issue := range issues {
		fmt.Printf("  - %s\n", issue)
	}
}
