// Package crawl ties one crawl run to its inputs and side effects: config,
// the persisted spreadsheet, run history, the Postgres mirror and the
// Telegram summary.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-job-listing-scraper/internal/config"
	"go-job-listing-scraper/internal/dedup"
	"go-job-listing-scraper/internal/history"
	"go-job-listing-scraper/internal/logger"
	"go-job-listing-scraper/internal/models"
	"go-job-listing-scraper/internal/reporter"
	"go-job-listing-scraper/internal/scraper"
	"go-job-listing-scraper/internal/scraper/indeed"
	"go-job-listing-scraper/internal/spreadsheet"
)

// ConfigLoader is called at the start of every run so edits between runs
// are picked up.
type ConfigLoader func() (*config.Config, error)

// SourceFactory opens the page source a run crawls with.
type SourceFactory func(ctx context.Context, cfg *config.Config) (scraper.PageSource, error)

type Mirror interface {
	SyncPostings(ctx context.Context, postings []models.Posting) error
}

type Notifier interface {
	SendRunSummary(s reporter.RunSummary) error
}

// Deps are the optional side effects of a run. Nil fields are skipped.
type Deps struct {
	History  history.Store
	Mirror   Mirror
	Notifier Notifier
	Logger   *logger.Logger
}

type Session struct {
	loadConfig ConfigLoader
	openSource SourceFactory
	deps       Deps
	progress   func(scraper.Stats)
	log        *logger.Logger
}

func NewSession(load ConfigLoader, open SourceFactory, deps Deps) *Session {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Session{
		loadConfig: load,
		openSource: open,
		deps:       deps,
		log:        log,
	}
}

// OnProgress registers a callback fired after every scraped page.
func (s *Session) OnProgress(fn func(scraper.Stats)) {
	s.progress = fn
}

// Run performs one full crawl. It satisfies scraper.RunFunc. Only a failure
// to load config, read or write the spreadsheet, or open the page source
// fails the run; history, mirror and notification problems are logged.
func (s *Session) Run(ctx context.Context, stop <-chan struct{}) (scraper.Stats, error) {
	started := time.Now()

	cfg, err := s.loadConfig()
	if err != nil {
		return scraper.Stats{}, fmt.Errorf("load config: %w", err)
	}
	settings := cfg.RunSettings()

	record := s.startHistory(ctx, settings.StartURL)

	stats, store, err := s.crawl(ctx, stop, cfg, settings)

	status := outcome(stop, err)
	s.finishHistory(ctx, record, status, stats, err)
	s.notify(reporter.RunSummary{
		Criteria:    settings.SearchCriteria,
		Status:      string(status),
		Stats:       stats,
		Duration:    time.Since(started),
		Err:         err,
		NewPostings: newPostings(store),
	})
	return stats, err
}

func (s *Session) crawl(ctx context.Context, stop <-chan struct{}, cfg *config.Config, settings scraper.Settings) (scraper.Stats, *dedup.RecordStore, error) {
	path := cfg.Spreadsheet.Path
	postings, err := spreadsheet.Load(path)
	if err != nil {
		return scraper.Stats{}, nil, fmt.Errorf("load spreadsheet: %w", err)
	}
	store := dedup.NewRecordStore(postings)
	s.log.LogInfof("📋 Loaded %d postings from %s", store.Len(), path)

	src, err := s.openSource(ctx, cfg)
	if err != nil {
		return scraper.Stats{}, store, fmt.Errorf("open page source: %w", err)
	}

	runner := scraper.NewRunner(src, store, settings,
		scraper.WithPermalinkCheck(indeed.IsJobPermalink),
		scraper.WithLogger(s.log),
		scraper.WithProgress(s.progress),
	)
	stats, runErr := runner.Run(ctx, stop)

	// Whatever was collected is valid, so a cancelled run is still flushed.
	if cfg.ShouldMaterialize() {
		if err := materialize(path, store, settings.Fields); err != nil {
			return stats, store, fmt.Errorf("materialize: %w", err)
		}
		s.log.LogInfof("💾 Wrote %d postings to %s", store.Len(), path)
	}

	s.mirror(ctx, store)
	return stats, store, runErr
}

func materialize(path string, store *dedup.RecordStore, fields []models.Field) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return spreadsheet.Write(path, spreadsheet.Build(store.Postings(), fields))
}

func (s *Session) mirror(ctx context.Context, store *dedup.RecordStore) {
	if s.deps.Mirror == nil || ctx.Err() != nil {
		return
	}
	if err := s.deps.Mirror.SyncPostings(ctx, store.Postings()); err != nil {
		s.log.LogError("Failed to mirror postings", err)
	}
}

func (s *Session) startHistory(ctx context.Context, startURL string) *history.Run {
	if s.deps.History == nil {
		return nil
	}
	record, err := s.deps.History.Start(ctx, startURL)
	if err != nil {
		s.log.LogError("Failed to record run start", err)
		return nil
	}
	return record
}

func (s *Session) finishHistory(ctx context.Context, record *history.Run, status history.Status, stats scraper.Stats, runErr error) {
	if record == nil {
		return
	}
	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
	}
	// The run may have been cancelled; the record still has to be closed.
	if err := s.deps.History.Finish(context.WithoutCancel(ctx), record.ID, status, stats, errMsg); err != nil {
		s.log.LogError("Failed to record run end", err)
	}
}

func (s *Session) notify(summary reporter.RunSummary) {
	if s.deps.Notifier == nil {
		return
	}
	if err := s.deps.Notifier.SendRunSummary(summary); err != nil {
		s.log.LogError("Failed to send run summary", err)
	}
}

func outcome(stop <-chan struct{}, err error) history.Status {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return history.StatusCancelled
	case err != nil:
		return history.StatusFailed
	}
	select {
	case <-stop:
		return history.StatusStopped
	default:
		return history.StatusSucceeded
	}
}

func newPostings(store *dedup.RecordStore) []models.Posting {
	if store == nil {
		return nil
	}
	return spreadsheet.SortPostings(store.AddedPostings())
}
