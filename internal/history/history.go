// Package history keeps a log of crawl runs.
package history

import (
	"context"
	"time"

	"go-job-listing-scraper/internal/scraper"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusStopped   Status = "stopped"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Run is one crawl as recorded in the log.
type Run struct {
	ID           string     `json:"id"`
	StartURL     string     `json:"start_url"`
	Status       Status     `json:"status"`
	PagesScraped int        `json:"pages_scraped"`
	NewRecords   int        `json:"new_records"`
	Errors       int        `json:"errors"`
	Error        string     `json:"error,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// Store persists and retrieves runs.
type Store interface {
	Start(ctx context.Context, startURL string) (*Run, error)
	Finish(ctx context.Context, id string, status Status, stats scraper.Stats, errMsg string) error
	// List returns the most recent runs first.
	List(ctx context.Context, limit int) ([]*Run, error)
	Close() error
}
