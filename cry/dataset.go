package cry

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"cry-classification/utils"
)

// DiscoverCategories lists the category subdirectories of the corpus root
// in sorted order. Hidden directories are skipped.
func DiscoverCategories(corpusDir string) ([]string, error) {
	entries, err := os.ReadDir(corpusDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus directory %s: %w", corpusDir, err)
	}

	var categories []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		categories = append(categories, entry.Name())
	}
	sort.Strings(categories)

	return categories, nil
}

// ListWavFiles lists the .wav files directly inside dir, sorted by name.
// Hidden files and other extensions are ignored.
func ListWavFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read category directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if strings.ToLower(filepath.Ext(name)) != ".wav" {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)

	return files, nil
}

// FailureLog appends extraction failures to a plain-text file, one line
// per failed recording with its path and error.
type FailureLog struct {
	file  *os.File
	path  string
	count int
}

// OpenFailureLog opens or creates the failure log for appending.
func OpenFailureLog(path string) (*FailureLog, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := utils.CreateFolder(dir); err != nil {
			return nil, err
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open failure log %s: %w", path, err)
	}

	return &FailureLog{file: f, path: path}, nil
}

// Record writes one failure line. A nil log discards the entry.
func (l *FailureLog) Record(path string, cause error) {
	if l == nil || l.file == nil {
		return
	}
	l.count++
	fmt.Fprintf(l.file, "%s\t%v\n", path, cause)
}

// Count reports how many failures this log has recorded.
func (l *FailureLog) Count() int {
	if l == nil {
		return 0
	}
	return l.count
}

// Path returns the log file location.
func (l *FailureLog) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close closes the underlying file.
func (l *FailureLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// AssembleDataset walks the corpus folder by folder and extracts features
// for every .wav file. A file that fails to decode or extract is recorded
// in the failure log and skipped; the run continues. Categories with no
// .wav files are skipped silently.
func AssembleDataset(corpusDir string, extractor *Extractor, failures *FailureLog) (*Dataset, *AssemblyStats, error) {
	start := time.Now()

	categories, err := DiscoverCategories(corpusDir)
	if err != nil {
		return nil, nil, err
	}
	if len(categories) == 0 {
		return nil, nil, fmt.Errorf("no category directories found in %s", corpusDir)
	}

	stats := &AssemblyStats{LabelCounts: make(map[string]int)}
	dataset := &Dataset{}

	for _, category := range categories {
		files, err := ListWavFiles(filepath.Join(corpusDir, category))
		if err != nil {
			return nil, nil, err
		}
		if len(files) == 0 {
			continue
		}

		log.Printf("Processing category '%s' (%d files)", category, len(files))
		for i, path := range files {
			stats.TotalFiles++

			features, err := extractor.ExtractFile(path)
			if err != nil {
				log.Printf("  [%d/%d] ERROR processing %s: %v", i+1, len(files), filepath.Base(path), err)
				failures.Record(path, err)
				stats.FailedCount++
				continue
			}

			log.Printf("  [%d/%d] %s", i+1, len(files), filepath.Base(path))
			dataset.Samples = append(dataset.Samples, Sample{
				Path:     path,
				Label:    category,
				Features: features,
			})
			stats.SuccessfulCount++
			stats.LabelCounts[category]++
		}
	}

	stats.ProcessingTimeMs = float64(time.Since(start).Milliseconds())

	if len(dataset.Samples) == 0 {
		return nil, nil, fmt.Errorf("no usable recordings found in %s", corpusDir)
	}

	return dataset, stats, nil
}

// PrintSummary logs the assembly totals.
func (s *AssemblyStats) PrintSummary() {
	log.Println("=== Dataset Summary ===")
	log.Printf("Total files:     %d", s.TotalFiles)
	log.Printf("Successful:      %d", s.SuccessfulCount)
	log.Printf("Failed:          %d", s.FailedCount)
	log.Printf("Processing time: %.0f ms", s.ProcessingTimeMs)

	labels := make([]string, 0, len(s.LabelCounts))
	for label := range s.LabelCounts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	log.Println("Samples per category:")
	for _, label := range labels {
		log.Printf("  %-20s: %3d", label, s.LabelCounts[label])
	}
}
