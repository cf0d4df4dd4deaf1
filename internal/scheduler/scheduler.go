// Package scheduler wires up the cron job that periodically triggers a crawl.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"

	"go-job-listing-scraper/internal/crawl"
	"go-job-listing-scraper/internal/logger"
	"go-job-listing-scraper/internal/scraper"
)

// Starter launches a crawl; crawl.Manager satisfies it.
type Starter interface {
	Start() (*scraper.Run, error)
}

// Scheduler wraps robfig/cron around a crawl starter.
type Scheduler struct {
	cron    *cron.Cron
	starter Starter
	spec    string // cron spec, e.g. "@every 6h"
	log     *logger.Logger
}

func New(spec string, starter Starter, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		starter: starter,
		spec:    spec,
		log:     log,
	}
}

// Start registers the job and starts the scheduler. One crawl also runs
// immediately so results do not wait for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := cron.ParseStandard(s.spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.spec, err)
	}
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runCrawl(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.LogInfof("⏰ Cron started, spec: %s", s.spec)

	go s.runCrawl(ctx)
	return nil
}

// Stop stops scheduling new crawls and returns a context that is done once
// any job started by cron has returned.
func (s *Scheduler) Stop() context.Context {
	ctx := s.cron.Stop()
	s.log.LogInfof("⏰ Cron stopped")
	return ctx
}

// runCrawl starts a crawl and waits for it. A tick that lands while a crawl
// is still going is skipped.
func (s *Scheduler) runCrawl(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	run, err := s.starter.Start()
	if errors.Is(err, crawl.ErrRunInProgress) {
		s.log.LogInfof("⏭️ Previous crawl still running, skipping tick")
		return
	}
	if err != nil {
		s.log.LogError("Failed to start crawl", err)
		return
	}

	stats, err := run.Wait()
	if err != nil {
		s.log.LogError("Scheduled crawl failed", err)
		return
	}
	s.log.LogInfof("✅ Scheduled crawl done: %d pages, %d new postings", stats.PagesScraped, stats.NewRecords)
}
