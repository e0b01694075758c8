package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/crawldigest/internal/model"
)

// DBFileName is the name of the archive file inside the database directory.
const DBFileName = "crawldigest.db"

var (
	// ErrRunNotFound is returned by ResolveRunID when no run matches.
	ErrRunNotFound = errors.New("run not found")

	// ErrAmbiguousRunID is returned by ResolveRunID when a prefix matches
	// more than one run.
	ErrAmbiguousRunID = errors.New("ambiguous run ID prefix")
)

// CrawlDB is the SQLite archive of finished crawl runs.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the archive in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw prevents creating a new file; mode=rwc allows it.
	mode := "rw"
	if opts.CreateIfNotExists {
		mode = "rwc"
	}
	dsn := dbPath + "?mode=" + mode + "&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// Path returns the path of the database file.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- One row per finished crawl run
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seeds TEXT NOT NULL,
		page_budget INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL,
		pages_crawled INTEGER NOT NULL,
		visited TEXT NOT NULL,
		failures TEXT NOT NULL,
		pending TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Extracted page records in crawl order
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		url TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		content TEXT NOT NULL,
		UNIQUE(run_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id, position);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunSummary describes an archived run without its page records.
type RunSummary struct {
	// ID is the run identifier.
	ID string

	// Seeds are the URLs the run started from.
	Seeds []string

	// PageBudget is the run's page budget.
	PageBudget int

	// StartedAt is when the crawl loop began.
	StartedAt time.Time

	// FinishedAt is when the crawl loop ended.
	FinishedAt time.Time

	// PagesCrawled is the number of records the run produced.
	PagesCrawled int

	// Failures is the number of URLs that failed.
	Failures int
}

// SaveRun stores a finished run and its records in one transaction.
// Saving a run ID that already exists replaces the earlier copy.
func (cdb *CrawlDB) SaveRun(ctx context.Context, report *model.CrawlReport) (err error) {
	seeds, err := marshalList(report.Seeds)
	if err != nil {
		return fmt.Errorf("failed to serialize seeds: %w", err)
	}
	visited, err := marshalList(report.Visited)
	if err != nil {
		return fmt.Errorf("failed to serialize visited URLs: %w", err)
	}
	pending, err := marshalList(report.Pending)
	if err != nil {
		return fmt.Errorf("failed to serialize pending URLs: %w", err)
	}
	failures := report.Failures
	if failures == nil {
		failures = []model.Failure{}
	}
	failuresJSON, err := json.Marshal(failures)
	if err != nil {
		return fmt.Errorf("failed to serialize failures: %w", err)
	}

	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback() //nolint:errcheck // the original error is more useful
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, report.ID); err != nil {
		return fmt.Errorf("failed to replace run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, seeds, page_budget, started_at, finished_at, pages_crawled, visited, failures, pending)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		report.ID,
		seeds,
		report.PageBudget,
		formatTimestamp(report.StartedAt),
		formatTimestamp(report.FinishedAt),
		report.PagesCrawled(),
		visited,
		string(failuresJSON),
		pending,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO pages (run_id, position, url, title, description, content)
	VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare page insert: %w", err)
	}
	defer stmt.Close()

	for i, record := range report.Records {
		content, merr := json.Marshal(record.Content)
		if merr != nil {
			err = fmt.Errorf("failed to serialize content of %s: %w", record.URL, merr)
			return err
		}
		if _, err = stmt.ExecContext(ctx, report.ID, i, record.URL, record.Title, record.Description, string(content)); err != nil {
			return fmt.Errorf("failed to save page %s: %w", record.URL, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit below one returns
// every run.
func (cdb *CrawlDB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
	SELECT id, seeds, page_budget, started_at, finished_at, pages_crawled, failures
	FROM runs
	ORDER BY started_at DESC, id
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunSummary
	for rows.Next() {
		var (
			summary               RunSummary
			seeds, failures       string
			startedAt, finishedAt string
		)
		if err := rows.Scan(&summary.ID, &seeds, &summary.PageBudget, &startedAt, &finishedAt, &summary.PagesCrawled, &failures); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		if err := json.Unmarshal([]byte(seeds), &summary.Seeds); err != nil {
			return nil, fmt.Errorf("failed to parse seeds of run %s: %w", summary.ID, err)
		}
		var failureList []model.Failure
		if err := json.Unmarshal([]byte(failures), &failureList); err != nil {
			return nil, fmt.Errorf("failed to parse failures of run %s: %w", summary.ID, err)
		}
		summary.Failures = len(failureList)
		summary.StartedAt = parseTimestamp(startedAt)
		summary.FinishedAt = parseTimestamp(finishedAt)

		results = append(results, summary)
	}

	return results, rows.Err()
}

// GetRun loads a run with its records in crawl order.
// It returns nil without error when no run has the given ID.
func (cdb *CrawlDB) GetRun(ctx context.Context, id string) (*model.CrawlReport, error) {
	var (
		seeds, visited, failures, pending string
		startedAt, finishedAt             string
		pageBudget                        int
	)
	err := cdb.db.QueryRowContext(ctx, `
	SELECT seeds, page_budget, started_at, finished_at, visited, failures, pending
	FROM runs
	WHERE id = ?
	`, id).Scan(&seeds, &pageBudget, &startedAt, &finishedAt, &visited, &failures, &pending)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	report := model.NewCrawlReport(id, nil, pageBudget)
	report.StartedAt = parseTimestamp(startedAt)
	report.FinishedAt = parseTimestamp(finishedAt)

	for _, field := range []struct {
		raw  string
		into any
	}{
		{seeds, &report.Seeds},
		{visited, &report.Visited},
		{failures, &report.Failures},
		{pending, &report.Pending},
	} {
		if err := json.Unmarshal([]byte(field.raw), field.into); err != nil {
			return nil, fmt.Errorf("failed to parse run %s: %w", id, err)
		}
	}

	records, err := cdb.getPages(ctx, id)
	if err != nil {
		return nil, err
	}
	report.Records = records

	return report, nil
}

func (cdb *CrawlDB) getPages(ctx context.Context, runID string) ([]*model.PageRecord, error) {
	rows, err := cdb.db.QueryContext(ctx, `
	SELECT url, title, description, content
	FROM pages
	WHERE run_id = ?
	ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pages: %w", err)
	}
	defer rows.Close()

	records := make([]*model.PageRecord, 0)
	for rows.Next() {
		var (
			record  model.PageRecord
			content string
		)
		if err := rows.Scan(&record.URL, &record.Title, &record.Description, &content); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		if err := json.Unmarshal([]byte(content), &record.Content); err != nil {
			return nil, fmt.Errorf("failed to parse content of %s: %w", record.URL, err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}

// ResolveRunID expands a unique prefix of a run ID to the full ID.
func (cdb *CrawlDB) ResolveRunID(ctx context.Context, prefix string) (string, error) {
	if prefix == "" {
		return "", ErrRunNotFound
	}

	rows, err := cdb.db.QueryContext(ctx, `
	SELECT id FROM runs
	WHERE substr(id, 1, ?) = ?
	LIMIT 2
	`, len(prefix), prefix)
	if err != nil {
		return "", fmt.Errorf("failed to resolve run ID: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("failed to scan run ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to resolve run ID: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousRunID, prefix)
	}
}

// DeleteRun removes a run and its pages. Deleting an unknown run is not an error.
func (cdb *CrawlDB) DeleteRun(ctx context.Context, id string) error {
	if _, err := cdb.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

// marshalList encodes a string slice as a JSON array; nil becomes [].
func marshalList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,          // written by formatTimestamp
	time.RFC3339,              // Full RFC3339 format
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
