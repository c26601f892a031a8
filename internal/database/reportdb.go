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

	"github.com/nao1215/selfcheck/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "selfcheck.db"

// timeLayout is a fixed-width RFC 3339 layout so that generated_at sorts
// chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrReportNotFound is returned when no report matches the query.
var ErrReportNotFound = errors.New("report not found")

// ReportDB provides SQLite-based storage for generated reports.
//
// Design decision: Reports are stored as one JSON document per row next to
// a few summary columns. The summary columns are enough for listing, and
// the JSON document keeps the archive independent of schema changes in the
// report model.
type ReportDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ReportDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ReportDB in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ReportDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

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

	// mode=rw refuses to create a new file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &ReportDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Path returns the path of the database file.
func (rdb *ReportDB) Path() string {
	return rdb.dbPath
}

// Close closes the database connection.
func (rdb *ReportDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *ReportDB) createTables() error {
	schema := `
	-- Reports store complete assessment reports as JSON
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		title TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		question_count INTEGER NOT NULL,
		answered_count INTEGER NOT NULL,
		totals TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reports_name ON reports(name);
	CREATE INDEX IF NOT EXISTS idx_reports_generated ON reports(generated_at);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// ReportMetadata contains the summary of an archived report.
type ReportMetadata struct {
	// ID is the database ID of the report.
	ID int64

	// Name identifies the source of the report, e.g. the answer file name.
	Name string

	// Title is the report heading.
	Title string

	// GeneratedAt is when the report was built.
	GeneratedAt time.Time

	// QuestionCount and AnsweredCount are copied from the report.
	QuestionCount int
	AnsweredCount int

	// Totals holds the answer count per category wire value.
	Totals map[string]int
}

// Completion returns the answered share in [0, 1].
func (m ReportMetadata) Completion() float64 {
	if m.QuestionCount == 0 {
		return 1
	}
	return float64(m.AnsweredCount) / float64(m.QuestionCount)
}

// SaveReport archives a report under name and returns its ID.
func (rdb *ReportDB) SaveReport(ctx context.Context, name string, report *model.AssessmentReport) (int64, error) {
	if report == nil {
		return 0, errors.New("cannot save nil report")
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	totals := make(map[string]int, len(report.Totals))
	for c, n := range report.Totals {
		totals[c.String()] = n
	}
	totalsJSON, _ := json.Marshal(totals) //nolint:errcheck,errchkjson // totals is a simple map; Marshal won't fail

	query := `
	INSERT INTO reports (name, title, generated_at, question_count, answered_count, totals, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := rdb.db.ExecContext(ctx, query,
		name,
		report.Title,
		report.GeneratedAt.UTC().Format(timeLayout),
		report.QuestionCount,
		report.AnsweredCount,
		string(totalsJSON),
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save report: %w", err)
	}

	return result.LastInsertId()
}

// GetReport retrieves a report by its database ID.
// It returns ErrReportNotFound when the ID does not exist.
func (rdb *ReportDB) GetReport(ctx context.Context, id int64) (*model.AssessmentReport, error) {
	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, `SELECT report_json FROM reports WHERE id = ?`, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrReportNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return decodeReport(reportJSON)
}

// ListReports returns the metadata of archived reports, newest first.
// A non-empty name restricts the result to reports of that source.
// A positive limit bounds the number of rows.
func (rdb *ReportDB) ListReports(ctx context.Context, name string, limit int) ([]ReportMetadata, error) {
	query := `
	SELECT id, name, title, generated_at, question_count, answered_count, totals
	FROM reports
	`
	args := make([]any, 0, 2)
	if name != "" {
		query += " WHERE name = ?"
		args = append(args, name)
	}
	query += " ORDER BY generated_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var results []ReportMetadata
	for rows.Next() {
		var meta ReportMetadata
		var generatedAt string
		var totalsJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.Name, &meta.Title, &generatedAt,
			&meta.QuestionCount, &meta.AnsweredCount, &totalsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.GeneratedAt = parseTimestamp(generatedAt)

		meta.Totals = make(map[string]int)
		if totalsJSON.Valid && totalsJSON.String != "" {
			if err := json.Unmarshal([]byte(totalsJSON.String), &meta.Totals); err != nil {
				meta.Totals = make(map[string]int)
			}
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetLatestReports returns up to n full reports, newest first.
// A non-empty name restricts the result to reports of that source.
func (rdb *ReportDB) GetLatestReports(ctx context.Context, name string, n int) ([]*model.AssessmentReport, error) {
	if n <= 0 {
		return nil, nil
	}

	query := `SELECT report_json FROM reports`
	args := make([]any, 0, 2)
	if name != "" {
		query += " WHERE name = ?"
		args = append(args, name)
	}
	query += " ORDER BY generated_at DESC, id DESC LIMIT ?"
	args = append(args, n)

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest reports: %w", err)
	}
	defer rows.Close()

	var reports []*model.AssessmentReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		r, err := decodeReport(reportJSON)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}

	return reports, rows.Err()
}

// DeleteReport removes a report. Deleting an unknown ID returns
// ErrReportNotFound.
func (rdb *ReportDB) DeleteReport(ctx context.Context, id int64) error {
	result, err := rdb.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", ErrReportNotFound, id)
	}
	return nil
}

func decodeReport(reportJSON string) (*model.AssessmentReport, error) {
	var report model.AssessmentReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	return &report, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timeLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
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
