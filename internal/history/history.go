package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/phishguard/phishguard/internal/model"
)

// DB provides SQLite-based storage for training run history.
// It manages connection pooling and provides methods for recording and
// listing runs.
//
// Design decision: One database file for all runs rather than one file per
// run. Listing and comparing runs is the main query pattern, and a single
// file keeps backup and cleanup trivial.
type DB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures DB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// DefaultDir returns the default history database directory under the XDG
// data directory.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "phishguard")
}

// Open opens or creates the history database in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*DB, error) {
	dbPath := filepath.Join(dbDir, "phishguard.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a single pooled connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &DB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *DB) Close() error {
	return hdb.db.Close()
}

// Path returns the path of the database file.
func (hdb *DB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *DB) createTables() error {
	schema := `
	-- Training runs store one row per completed run, with the full run
	-- report as JSON for detail queries.
	CREATE TABLE IF NOT EXISTS training_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		dataset_path TEXT NOT NULL,
		classifier_kind TEXT NOT NULL,
		seed INTEGER NOT NULL,
		test_fraction REAL NOT NULL,
		train_count INTEGER NOT NULL,
		test_count INTEGER NOT NULL,
		accuracy REAL NOT NULL,
		artifact_path TEXT,
		artifact_digest TEXT,
		run_json TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON training_runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_digest ON training_runs(artifact_digest);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun records a completed training run.
func (hdb *DB) SaveRun(ctx context.Context, run *model.TrainingRun) (int64, error) {
	runJSON, err := json.Marshal(run)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize training run: %w", err)
	}

	query := `
	INSERT INTO training_runs
		(dataset_path, classifier_kind, seed, test_fraction, train_count,
		 test_count, accuracy, artifact_path, artifact_digest, run_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		run.DatasetPath,
		run.ClassifierKind,
		run.Seed,
		run.TestFraction,
		run.TrainCount,
		run.TestCount,
		run.Accuracy,
		run.ArtifactPath,
		run.ArtifactDigest,
		string(runJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert training run: %w", err)
	}

	return result.LastInsertId()
}

// RunRecord contains summary information about a stored training run.
// This is used for listing run history without loading the full report.
type RunRecord struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// DatasetPath is the CSV file the run was trained from.
	DatasetPath string

	// ClassifierKind names the fitted ensemble strategy.
	ClassifierKind string

	// Seed and TestFraction reproduce the run.
	Seed         int64
	TestFraction float64

	// TrainCount and TestCount are the partition sizes.
	TrainCount int
	TestCount  int

	// Accuracy is the holdout accuracy.
	Accuracy float64

	// ArtifactPath and ArtifactDigest identify the persisted model.
	ArtifactPath   string
	ArtifactDigest string

	// CreatedAt is when the run was recorded.
	CreatedAt time.Time
}

// ListRuns returns stored runs, newest first. A limit of zero or less
// returns all runs.
func (hdb *DB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, dataset_path, classifier_kind, seed, test_fraction,
	       train_count, test_count, accuracy, artifact_path, artifact_digest,
	       created_at
	FROM training_runs
	ORDER BY created_at DESC, id DESC
	`
	args := make([]interface{}, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list training runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var artifactPath, artifactDigest sql.NullString
		var createdAt string

		err := rows.Scan(
			&rec.ID,
			&rec.DatasetPath,
			&rec.ClassifierKind,
			&rec.Seed,
			&rec.TestFraction,
			&rec.TrainCount,
			&rec.TestCount,
			&rec.Accuracy,
			&artifactPath,
			&artifactDigest,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan training run: %w", err)
		}

		rec.ArtifactPath = artifactPath.String
		rec.ArtifactDigest = artifactDigest.String
		rec.CreatedAt = parseTimestamp(createdAt)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetRun retrieves the full training run report by its database ID.
// Returns nil when no run with that ID exists.
func (hdb *DB) GetRun(ctx context.Context, id int64) (*model.TrainingRun, error) {
	query := `
	SELECT run_json FROM training_runs
	WHERE id = ?
	`

	var runJSON string
	err := hdb.db.QueryRowContext(ctx, query, id).Scan(&runJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get training run: %w", err)
	}

	var run model.TrainingRun
	if err := json.Unmarshal([]byte(runJSON), &run); err != nil {
		return nil, fmt.Errorf("failed to parse training run: %w", err)
	}

	return &run, nil
}

// LatestRun retrieves the most recently recorded training run.
// Returns nil when the history is empty.
func (hdb *DB) LatestRun(ctx context.Context) (*model.TrainingRun, error) {
	query := `
	SELECT run_json FROM training_runs
	ORDER BY created_at DESC, id DESC
	LIMIT 1
	`

	var runJSON string
	err := hdb.db.QueryRowContext(ctx, query).Scan(&runJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest training run: %w", err)
	}

	var run model.TrainingRun
	if err := json.Unmarshal([]byte(runJSON), &run); err != nil {
		return nil, fmt.Errorf("failed to parse training run: %w", err)
	}

	return &run, nil
}

// FindByDigest retrieves run summaries that produced the given artifact
// digest, newest first. This answers "which run trained the model I am
// serving" during an audit.
func (hdb *DB) FindByDigest(ctx context.Context, digest string) ([]RunRecord, error) {
	query := `
	SELECT id, dataset_path, classifier_kind, seed, test_fraction,
	       train_count, test_count, accuracy, artifact_path, artifact_digest,
	       created_at
	FROM training_runs
	WHERE artifact_digest = ?
	ORDER BY created_at DESC, id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, digest)
	if err != nil {
		return nil, fmt.Errorf("failed to query training runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var artifactPath, artifactDigest sql.NullString
		var createdAt string

		err := rows.Scan(
			&rec.ID,
			&rec.DatasetPath,
			&rec.ClassifierKind,
			&rec.Seed,
			&rec.TestFraction,
			&rec.TrainCount,
			&rec.TestCount,
			&rec.Accuracy,
			&artifactPath,
			&artifactDigest,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan training run: %w", err)
		}

		rec.ArtifactPath = artifactPath.String
		rec.ArtifactDigest = artifactDigest.String
		rec.CreatedAt = parseTimestamp(createdAt)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
