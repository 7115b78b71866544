package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"cry-classification/chat"
	"cry-classification/cry"
	"cry-classification/db"
	"cry-classification/tts"
	"cry-classification/utils"
)

// runCommand drives the full pipeline: corpus assembly, balancing and
// training, evaluation, then the interactive predictor.
func runCommand(args []string) {
	runCmd := flag.NewFlagSet("run", flag.ExitOnError)
	corpusDir := runCmd.String("corpus", utils.GetEnv("CORPUS_DIR", "corpus"), "Corpus directory with one folder per cry reason")
	reportPath := runCmd.String("report", "reports/latest.json", "Evaluation report output path")
	heatmapPath := runCmd.String("heatmap", "reports/confusion.png", "Confusion matrix heatmap output path")
	failurePath := runCmd.String("failures", "logs/failures.log", "Append-only log of unreadable recordings")
	skipSearch := runCmd.Bool("skip-search", false, "Train with default parameters instead of running the grid search")
	seed := runCmd.Int64("seed", cry.DefaultSeed, "Seed for splitting, balancing and training")
	noConsole := runCmd.Bool("no-console", false, "Exit after training instead of prompting for recordings")
	advice := runCmd.Bool("advice", false, "Print caregiver advice under each prediction")
	runCmd.Parse(args)

	log.Println("=== Baby Cry Classification Pipeline ===")

	failures, err := cry.OpenFailureLog(*failurePath)
	if err != nil {
		log.Fatalf("failed to open failure log: %v", err)
	}
	defer failures.Close()

	extractor, err := cry.NewExtractor(cry.DefaultExtractorConfig())
	if err != nil {
		log.Fatalf("failed to build extractor: %v", err)
	}

	log.Println("Step 1: Loading corpus and extracting features")
	dataset, stats, err := cry.AssembleDataset(*corpusDir, extractor, failures)
	if err != nil {
		log.Fatalf("failed to assemble dataset: %v", err)
	}
	stats.PrintSummary()
	if failures.Count() > 0 {
		log.Printf("WARNING: %d recordings failed to process, see %s\n", failures.Count(), failures.Path())
	}

	log.Println("Step 2: Training model")
	cfg := cry.DefaultTrainConfig()
	cfg.Seed = *seed
	cfg.SkipSearch = *skipSearch
	pipeline, report, err := cry.Train(dataset, cfg)
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}
	report.CorpusDir = *corpusDir

	log.Println("Step 3: Evaluation")
	report.Print()

	if err := report.Save(*reportPath); err != nil {
		log.Printf("WARNING: failed to save report: %v\n", err)
	} else {
		log.Printf("Report saved to %s\n", *reportPath)
	}
	if err := cry.SaveConfusionHeatmap(report.ConfusionMatrix, report.Labels, *heatmapPath); err != nil {
		log.Printf("WARNING: failed to render heatmap: %v\n", err)
	} else {
		log.Printf("Confusion matrix heatmap saved to %s\n", *heatmapPath)
	}

	store := openHistoryStore()
	if store != nil {
		defer store.Close()
		run := &db.RunRecord{
			Timestamp:    report.Timestamp,
			CorpusDir:    report.CorpusDir,
			TotalSamples: report.TotalSamples,
			Accuracy:     report.Accuracy,
			WeightedF1:   report.WeightedF1,
			CVScore:      report.BestCVScore,
			Params:       report.BestParams,
		}
		if err := store.StoreRun(run); err != nil {
			log.Printf("WARNING: failed to store run history: %v\n", err)
		}
	}

	if *noConsole {
		return
	}

	log.Println("Step 4: Interactive prediction")
	predictor := cry.NewPredictor(pipeline, extractor)
	predictor.ShowAdvice = *advice
	wireCareNotes(predictor)
	wireAnnouncements(predictor)
	wireHistory(predictor, store)

	if err := predictor.RunConsole(os.Stdin, os.Stdout); err != nil {
		log.Fatalf("console error: %v", err)
	}
}

func openHistoryStore() db.HistoryStore {
	store, err := db.NewHistoryStore()
	if err != nil {
		log.Printf("WARNING: history store unavailable: %v\n", err)
		return nil
	}
	return store
}

func wireCareNotes(predictor *cry.Predictor) {
	if os.Getenv("GEMINI_API_KEY") == "" {
		return
	}
	gemini, err := chat.NewGeminiClient()
	if err != nil {
		log.Printf("WARNING: caregiver notes disabled: %v\n", err)
		return
	}
	predictor.Notes = gemini.GenerateCareNote
	log.Println("Caregiver notes enabled (Gemini)")
}

func wireAnnouncements(predictor *cry.Predictor) {
	if !strings.EqualFold(utils.GetEnv("CRY_TTS", "false"), "true") {
		return
	}
	speech, err := tts.NewGoogleTTSClient()
	if err != nil {
		log.Printf("WARNING: spoken announcements disabled: %v\n", err)
		return
	}
	predictor.Announce = speech.Announce
	log.Println("Spoken announcements enabled (Google TTS)")
}

func wireHistory(predictor *cry.Predictor, store db.HistoryStore) {
	if store == nil {
		return
	}
	predictor.Observer = func(pred *cry.Prediction) {
		rec := db.PredictionRecord{
			Timestamp:  time.Now(),
			Path:       pred.Path,
			Category:   pred.Category,
			Confidence: pred.Confidence,
		}
		if err := store.StorePredictions([]db.PredictionRecord{rec}); err != nil {
			log.Printf("WARNING: failed to store prediction history: %v\n", err)
		}
	}
}

// historyCommand lists stored predictions, or training runs with -runs.
func historyCommand(args []string) {
	historyCmd := flag.NewFlagSet("history", flag.ExitOnError)
	limit := historyCmd.Int("n", 20, "How many records to show")
	runsOnly := historyCmd.Bool("runs", false, "Show training runs instead of predictions")
	historyCmd.Parse(args)

	store, err := db.NewHistoryStore()
	if err != nil {
		log.Fatalf("history store unavailable: %v", err)
	}
	if store == nil {
		log.Fatal("history is disabled; set DB_TYPE=sqlite or DB_TYPE=mongo")
	}
	defer store.Close()

	if *runsOnly {
		runs, err := store.RecentRuns(*limit)
		if err != nil {
			log.Fatalf("failed to load runs: %v", err)
		}
		if len(runs) == 0 {
			fmt.Println("No training runs recorded yet.")
			return
		}
		for _, r := range runs {
			fmt.Printf("%s  %-24s samples=%-4d accuracy=%.4f f1=%.4f trees=%d depth=%d\n",
				r.Timestamp.Format("2006-01-02 15:04:05"), r.CorpusDir, r.TotalSamples,
				r.Accuracy, r.WeightedF1, r.Params.Trees, r.Params.MaxDepth)
		}
		return
	}

	total, err := store.TotalPredictions()
	if err != nil {
		log.Fatalf("failed to count predictions: %v", err)
	}
	records, err := store.RecentPredictions(*limit)
	if err != nil {
		log.Fatalf("failed to load predictions: %v", err)
	}
	if len(records) == 0 {
		fmt.Println("No predictions recorded yet.")
		return
	}

	fmt.Printf("Showing %d of %d predictions (newest first):\n", len(records), total)
	for _, rec := range records {
		fmt.Printf("%s  %-12s %.2f  %s\n",
			rec.Timestamp.Format("2006-01-02 15:04:05"), rec.Category, rec.Confidence, rec.Path)
	}
}
