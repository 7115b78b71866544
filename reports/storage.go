// Package reports keeps an append-only JSON log of evaluation reports so
// past training runs stay reviewable.
package reports

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"cry-classification/cry"
	"cry-classification/utils"
)

// DefaultLogPath is where the run command appends its reports.
const DefaultLogPath = "reports/evaluations.json"

type Log struct {
	path string
	mu   sync.RWMutex
}

func NewLog(path string) *Log {
	return &Log{path: path}
}

// loadInternal loads all reports from the JSON file (without lock)
func (l *Log) loadInternal() ([]cry.EvaluationReport, error) {
	// Return empty slice if file doesn't exist
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		return []cry.EvaluationReport{}, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("error reading reports file: %v", err)
	}

	if len(data) == 0 {
		return []cry.EvaluationReport{}, nil
	}

	var reports []cry.EvaluationReport
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("error unmarshaling reports: %v", err)
	}

	return reports, nil
}

// All loads every stored report, oldest first.
func (l *Log) All() ([]cry.EvaluationReport, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loadInternal()
}

// Latest returns the most recently appended report, if any.
func (l *Log) Latest() (*cry.EvaluationReport, bool, error) {
	reports, err := l.All()
	if err != nil {
		return nil, false, err
	}
	if len(reports) == 0 {
		return nil, false, nil
	}
	return &reports[len(reports)-1], true, nil
}

// Append adds a new report to the JSON file.
func (l *Log) Append(report *cry.EvaluationReport) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Load existing reports (without lock since we already have write lock)
	reports, err := l.loadInternal()
	if err != nil {
		return err
	}

	if report.Timestamp.IsZero() {
		report.Timestamp = time.Now()
	}

	reports = append(reports, *report)

	// Ensure directory exists
	dir := filepath.Dir(l.path)
	if dir != "." && dir != "" {
		if err := utils.CreateFolder(dir); err != nil {
			return fmt.Errorf("error creating directory: %v", err)
		}
	}

	data, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling reports: %v", err)
	}

	if err := os.WriteFile(l.path, data, 0644); err != nil {
		return fmt.Errorf("error writing reports file: %v", err)
	}

	return nil
}
