package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/zcashme/promotebot/internal/model"
)

// Archive keeps a local SQLite history of past runs so drafts can be
// reviewed after the fact. It is strictly local: nothing here touches the
// data source, and it is not used to deduplicate events across runs.
type Archive struct {
	db   *sql.DB
	path string
}

// Open opens or creates an archive at the given path.
func Open(path string) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	a := &Archive{db: db, path: path}
	if err := a.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}
	return a, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp_utc TEXT NOT NULL,
		user_count INTEGER NOT NULL,
		verified_count INTEGER NOT NULL,
		payload TEXT NOT NULL,
		recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp_utc);
	`
	_, err := a.db.ExecContext(context.Background(), schema)
	return err
}

// Run summarizes one archived run.
type Run struct {
	ID            int64
	TimestampUTC  string
	UserCount     int
	VerifiedCount int
	RecordedAt    string
}

// Record stores a completed run.
func (a *Archive) Record(ctx context.Context, rep *model.Report) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	_, err = a.db.ExecContext(ctx,
		`INSERT INTO runs (timestamp_utc, user_count, verified_count, payload) VALUES (?, ?, ?, ?)`,
		rep.TimestampUTC, len(rep.Users), len(rep.Verified), string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (a *Archive) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := a.db.QueryContext(ctx,
		`SELECT id, timestamp_utc, user_count, verified_count, recorded_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.TimestampUTC, &r.UserCount, &r.VerifiedCount, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Payload returns the full structured record of one archived run.
func (a *Archive) Payload(ctx context.Context, id int64) (*model.Report, error) {
	var payload string
	err := a.db.QueryRowContext(ctx, `SELECT payload FROM runs WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query run %d: %w", id, err)
	}

	var rep model.Report
	if err := json.Unmarshal([]byte(payload), &rep); err != nil {
		return nil, fmt.Errorf("decode run %d payload: %w", id, err)
	}
	return &rep, nil
}
