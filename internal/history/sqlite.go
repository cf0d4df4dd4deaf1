package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"go-job-listing-scraper/internal/scraper"
)

// SQLiteStore is a SQLite-backed implementation of Store.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the SQLite database at dbPath and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer at a time; also keeps ":memory:" on a single database.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, now: time.Now}
	if err = s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id            TEXT PRIMARY KEY,
			start_url     TEXT NOT NULL,
			status        TEXT NOT NULL DEFAULT 'running',
			pages_scraped INTEGER NOT NULL DEFAULT 0,
			new_records   INTEGER NOT NULL DEFAULT 0,
			errors        INTEGER NOT NULL DEFAULT 0,
			error         TEXT NOT NULL DEFAULT '',
			started_at    DATETIME NOT NULL,
			finished_at   DATETIME
		);
		CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`)
	return err
}

func (s *SQLiteStore) Start(ctx context.Context, startURL string) (*Run, error) {
	r := &Run{
		ID:        uuid.NewString(),
		StartURL:  startURL,
		Status:    StatusRunning,
		StartedAt: s.now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, start_url, status, started_at) VALUES (?, ?, ?, ?)
	`, r.ID, r.StartURL, r.Status, r.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) Finish(ctx context.Context, id string, status Status, stats scraper.Stats, errMsg string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET status = ?, pages_scraped = ?, new_records = ?, errors = ?, error = ?, finished_at = ?
		WHERE id = ?
	`, status, stats.PagesScraped, stats.NewRecords, stats.Errors, errMsg, s.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run %s: not found", id)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_url, status, pages_scraped, new_records, errors, error, started_at, finished_at
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r := &Run{}
		var finishedAt sql.NullTime
		if err := rows.Scan(
			&r.ID, &r.StartURL, &r.Status, &r.PagesScraped, &r.NewRecords,
			&r.Errors, &r.Error, &r.StartedAt, &finishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if finishedAt.Valid {
			t := finishedAt.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
