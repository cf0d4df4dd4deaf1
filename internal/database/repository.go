package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-job-listing-scraper/internal/models"
)

// Repository mirrors the posting store into Postgres so other tools can
// query it. The spreadsheet stays the source of truth.
type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// Transaction-mode poolers (PgBouncer, Supabase) cannot handle cached prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

const createPostingsTable = `
	CREATE TABLE IF NOT EXISTS postings (
		hash_id         TEXT PRIMARY KEY,
		job_link        TEXT NOT NULL,
		title           TEXT NOT NULL DEFAULT '',
		company         TEXT NOT NULL DEFAULT '',
		location        TEXT NOT NULL DEFAULT '',
		salary_preview  TEXT NOT NULL DEFAULT '',
		description     TEXT NOT NULL DEFAULT '',
		posted_date     TEXT NOT NULL DEFAULT '',
		applied         TEXT NOT NULL DEFAULT 'No',
		search_criteria TEXT NOT NULL DEFAULT '',
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// The record store has already applied the sticky-field rules, so every
// column takes the incoming value.
const upsertPosting = `
	INSERT INTO postings
		(hash_id, job_link, title, company, location, salary_preview, description, posted_date, applied, search_criteria)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (hash_id) DO UPDATE SET
		job_link        = EXCLUDED.job_link,
		title           = EXCLUDED.title,
		company         = EXCLUDED.company,
		location        = EXCLUDED.location,
		salary_preview  = EXCLUDED.salary_preview,
		description     = EXCLUDED.description,
		posted_date     = EXCLUDED.posted_date,
		applied         = EXCLUDED.applied,
		search_criteria = EXCLUDED.search_criteria,
		updated_at      = NOW()`

func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createPostingsTable); err != nil {
		return fmt.Errorf("failed to create postings table: %w", err)
	}
	return nil
}

// SyncPostings upserts every posting in one batch.
func (r *Repository) SyncPostings(ctx context.Context, postings []models.Posting) error {
	if len(postings) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range postings {
		batch.Queue(upsertPosting, postingArgs(p)...)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()
	for range postings {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert posting: %w", err)
		}
	}
	return nil
}

// CountPostings returns how many postings the mirror holds.
func (r *Repository) CountPostings(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM postings").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count postings: %w", err)
	}
	return n, nil
}

func postingArgs(p models.Posting) []any {
	applied := p.Applied
	if applied == "" {
		applied = models.AppliedNo
	}
	return []any{
		p.HashID, p.JobLink, p.Title, p.Company, p.Location,
		p.SalaryPreview, p.Description, p.PostedDate, applied, p.SearchCriteria,
	}
}
