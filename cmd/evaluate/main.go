package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"

	"cry-classification/cry"
	"cry-classification/reports"
	"cry-classification/utils"

	"github.com/joho/godotenv"
)

// EvaluationConfig holds evaluation parameters
type EvaluationConfig struct {
	CorpusDir   string
	ReportPath  string
	HeatmapPath string
	FailurePath string
	LogPath     string
	Seed        int64
	SkipSearch  bool
}

func main() {
	config := parseFlags()
	_ = godotenv.Load()

	log.SetFlags(log.Ldate | log.Ltime)
	log.Println("=== Model Evaluation Pipeline ===")
	log.Printf("Corpus: %s\n", config.CorpusDir)
	log.Printf("Seed: %d\n", config.Seed)
	log.Println()

	failures, err := cry.OpenFailureLog(config.FailurePath)
	if err != nil {
		log.Fatalf("ERROR: Failed to open failure log: %v", err)
	}
	defer failures.Close()

	extractor, err := cry.NewExtractor(cry.DefaultExtractorConfig())
	if err != nil {
		log.Fatalf("ERROR: Failed to build extractor: %v", err)
	}

	log.Println("Assembling dataset...")
	dataset, stats, err := cry.AssembleDataset(config.CorpusDir, extractor, failures)
	if err != nil {
		log.Fatalf("ERROR: Failed to assemble dataset: %v", err)
	}
	stats.PrintSummary()
	if failures.Count() > 0 {
		log.Printf("WARNING: %d recordings failed to process, see %s\n", failures.Count(), failures.Path())
	}
	log.Println()

	log.Println("Training and evaluating...")
	cfg := cry.DefaultTrainConfig()
	cfg.Seed = config.Seed
	cfg.SkipSearch = config.SkipSearch
	_, report, err := cry.Train(dataset, cfg)
	if err != nil {
		log.Fatalf("ERROR: Training failed: %v", err)
	}
	report.CorpusDir = config.CorpusDir

	report.Print()

	if config.ReportPath != "" {
		if err := saveReport(report, config.ReportPath); err != nil {
			log.Printf("WARNING: Failed to save report: %v\n", err)
		} else {
			log.Printf("Report saved to: %s\n", config.ReportPath)
		}
	}

	if config.HeatmapPath != "" {
		if err := cry.SaveConfusionHeatmap(report.ConfusionMatrix, report.Labels, config.HeatmapPath); err != nil {
			log.Printf("WARNING: Failed to render heatmap: %v\n", err)
		} else {
			log.Printf("Confusion matrix heatmap saved to: %s\n", config.HeatmapPath)
		}
	}

	if config.LogPath != "" {
		if err := reports.NewLog(config.LogPath).Append(report); err != nil {
			log.Printf("WARNING: Failed to append to report log: %v\n", err)
		} else {
			log.Printf("Report appended to: %s\n", config.LogPath)
		}
	}
}

func parseFlags() EvaluationConfig {
	config := EvaluationConfig{}

	flag.StringVar(&config.CorpusDir, "corpus", "corpus",
		"Corpus directory with one folder per cry reason")
	flag.StringVar(&config.ReportPath, "report", "evaluation_report.json",
		"Path to save evaluation report (empty to skip)")
	flag.StringVar(&config.HeatmapPath, "heatmap", "confusion_matrix.png",
		"Path to save confusion matrix heatmap (empty to skip)")
	flag.StringVar(&config.FailurePath, "failures", "logs/failures.log",
		"Append-only log of unreadable recordings")
	flag.StringVar(&config.LogPath, "report-log", reports.DefaultLogPath,
		"JSON log the report gets appended to (empty to skip)")
	flag.Int64Var(&config.Seed, "seed", cry.DefaultSeed,
		"Seed for splitting, balancing and training")
	flag.BoolVar(&config.SkipSearch, "skip-search", false,
		"Skip the grid search and train with default parameters")

	flag.Parse()

	return config
}

// saveReport writes atomically so an interrupted run never leaves a
// half-written report behind.
func saveReport(report *cry.EvaluationReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := utils.CreateFolder(dir); err != nil {
			return err
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
