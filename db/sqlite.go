package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"cry-classification/cry"
	"cry-classification/utils"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration
)

type SQLiteClient struct {
	db *sql.DB
}

func NewSQLiteClient(dataSourceName string) (*SQLiteClient, error) {
	// Extract the file path before query parameters
	dbPath := dataSourceName
	if idx := strings.Index(dataSourceName, "?"); idx != -1 {
		dbPath = dataSourceName[:idx]
	}

	// Create the directory if it doesn't exist (cross-platform)
	dbDir := filepath.Dir(dbPath)
	if dbDir != "." && dbDir != "" {
		if err := utils.CreateFolder(dbDir); err != nil {
			return nil, fmt.Errorf("error creating database directory: %s", err)
		}
	}

	// Add busy timeout param to DSN (milliseconds)
	if !strings.Contains(dataSourceName, "_busy_timeout") {
		if strings.Contains(dataSourceName, "?") {
			dataSourceName += "&_busy_timeout=5000" // 5 seconds
		} else {
			dataSourceName += "?_busy_timeout=5000"
		}
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("error connecting to SQLite: %s", err)
	}

	err = createTables(db)
	if err != nil {
		return nil, fmt.Errorf("error creating tables: %s", err)
	}

	return &SQLiteClient{db: db}, nil
}

// createTables creates the required tables if they don't exist
func createTables(db *sql.DB) error {
	createRunsTable := `
    CREATE TABLE IF NOT EXISTS runs (
        id INTEGER PRIMARY KEY,
        timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        corpus_dir TEXT NOT NULL,
        total_samples INTEGER NOT NULL DEFAULT 0,
        accuracy REAL NOT NULL DEFAULT 0,
        weighted_f1 REAL NOT NULL DEFAULT 0,
        cv_score REAL NOT NULL DEFAULT 0,
        params TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
    `

	createPredictionsTable := `
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY,
        timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        path TEXT NOT NULL,
        category TEXT NOT NULL,
        confidence REAL NOT NULL DEFAULT 0
    );
    CREATE INDEX IF NOT EXISTS idx_predictions_timestamp ON predictions(timestamp);
    CREATE INDEX IF NOT EXISTS idx_predictions_category ON predictions(category);
    `

	_, err := db.Exec(createRunsTable)
	if err != nil {
		return fmt.Errorf("error creating runs table: %s", err)
	}

	_, err = db.Exec(createPredictionsTable)
	if err != nil {
		return fmt.Errorf("error creating predictions table: %s", err)
	}

	return nil
}

func (db *SQLiteClient) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// StoreRun stores one training-run summary. The grid-search parameters
// are kept as a JSON blob so the schema survives parameter changes.
func (db *SQLiteClient) StoreRun(run *RunRecord) error {
	if run.ID == 0 {
		run.ID = utils.GenerateUniqueID()
	}

	paramsJSON, err := json.Marshal(run.Params)
	if err != nil {
		return fmt.Errorf("error marshaling params: %s", err)
	}

	_, err = db.db.Exec(`
		INSERT INTO runs (
			id, timestamp, corpus_dir, total_samples,
			accuracy, weighted_f1, cv_score, params
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Timestamp,
		run.CorpusDir,
		run.TotalSamples,
		run.Accuracy,
		run.WeightedF1,
		run.CVScore,
		string(paramsJSON),
	)
	if err != nil {
		return fmt.Errorf("error storing run: %s", err)
	}
	return nil
}

// StorePredictions stores a batch of predictions in one transaction.
func (db *SQLiteClient) StorePredictions(records []PredictionRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %s", err)
	}

	stmt, err := tx.Prepare("INSERT INTO predictions (id, timestamp, path, category, confidence) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("error preparing statement: %s", err)
	}
	defer stmt.Close()

	for i := range records {
		rec := &records[i]
		if rec.ID == 0 {
			rec.ID = utils.GenerateUniqueID()
		}
		if _, err := stmt.Exec(rec.ID, rec.Timestamp, rec.Path, rec.Category, rec.Confidence); err != nil {
			tx.Rollback()
			return fmt.Errorf("error executing statement: %s", err)
		}
	}

	return tx.Commit()
}

// RecentRuns returns run summaries, newest first.
func (db *SQLiteClient) RecentRuns(limit int) ([]RunRecord, error) {
	rows, err := db.db.Query(`
		SELECT id, timestamp, corpus_dir, total_samples, accuracy, weighted_f1, cv_score, params
		FROM runs
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying runs: %s", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var paramsJSON string

		err := rows.Scan(
			&r.ID,
			&r.Timestamp,
			&r.CorpusDir,
			&r.TotalSamples,
			&r.Accuracy,
			&r.WeightedF1,
			&r.CVScore,
			&paramsJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning run: %s", err)
		}

		if err := json.Unmarshal([]byte(paramsJSON), &r.Params); err != nil {
			r.Params = cry.ForestParams{}
		}

		runs = append(runs, r)
	}

	return runs, nil
}

// RecentPredictions returns predictions, newest first.
func (db *SQLiteClient) RecentPredictions(limit int) ([]PredictionRecord, error) {
	rows, err := db.db.Query(`
		SELECT id, timestamp, path, category, confidence
		FROM predictions
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying predictions: %s", err)
	}
	defer rows.Close()

	var records []PredictionRecord
	for rows.Next() {
		var rec PredictionRecord
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Path, &rec.Category, &rec.Confidence); err != nil {
			return nil, fmt.Errorf("error scanning prediction: %s", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func (db *SQLiteClient) TotalPredictions() (int, error) {
	var count int
	err := db.db.QueryRow("SELECT COUNT(*) FROM predictions").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting predictions: %s", err)
	}
	return count, nil
}
