// Package db persists classification history. Runs and individual
// predictions are stored through a HistoryStore backed by SQLite or
// MongoDB, selected with the DB_TYPE environment variable. History is
// disabled entirely when DB_TYPE is unset.
package db

import (
	"fmt"
	"strings"
	"time"

	"cry-classification/cry"
	"cry-classification/utils"
)

// RunRecord summarises one training run.
type RunRecord struct {
	ID           uint32           `json:"id" bson:"id"`
	Timestamp    time.Time        `json:"timestamp" bson:"timestamp"`
	CorpusDir    string           `json:"corpusDir" bson:"corpusDir"`
	TotalSamples int              `json:"totalSamples" bson:"totalSamples"`
	Accuracy     float64          `json:"accuracy" bson:"accuracy"`
	WeightedF1   float64          `json:"weightedF1" bson:"weightedF1"`
	CVScore      float64          `json:"cvScore" bson:"cvScore"`
	Params       cry.ForestParams `json:"params" bson:"params"`
}

// PredictionRecord is one classified recording.
type PredictionRecord struct {
	ID         uint32    `json:"id" bson:"id"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
	Path       string    `json:"path" bson:"path"`
	Category   string    `json:"category" bson:"category"`
	Confidence float64   `json:"confidence" bson:"confidence"`
}

type HistoryStore interface {
	Close() error
	StoreRun(run *RunRecord) error
	StorePredictions(records []PredictionRecord) error
	RecentRuns(limit int) ([]RunRecord, error)
	RecentPredictions(limit int) ([]PredictionRecord, error)
	TotalPredictions() (int, error)
}

// NewHistoryStore builds the store selected by the DB_TYPE environment
// variable ("sqlite" or "mongo"). When DB_TYPE is unset or empty it
// returns (nil, nil): history is off and callers should skip persistence.
func NewHistoryStore() (HistoryStore, error) {
	dbType := strings.ToLower(utils.GetEnv("DB_TYPE", ""))
	switch dbType {
	case "":
		return nil, nil
	case "sqlite", "sqlite3":
		return NewSQLiteClient(utils.GetEnv("SQLITE_DB_PATH", "db/history.db"))
	case "mongo", "mongodb":
		return NewMongoClient(utils.GetEnv("MONGO_URI", "mongodb://localhost:27017"))
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q (expected sqlite or mongo)", dbType)
	}
}
