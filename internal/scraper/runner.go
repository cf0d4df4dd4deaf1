package scraper

import (
	"context"
	"fmt"

	"go-job-listing-scraper/internal/dedup"
	"go-job-listing-scraper/internal/logger"
)

// Runner drives one crawl over a page source until a termination condition
// is met.
type Runner struct {
	source    PageSource
	store     *dedup.RecordStore
	settings  Settings
	engine    *Engine
	paginator *Paginator
	progress  func(Stats)
	log       *logger.Logger
}

type Option func(*Runner)

// WithPermalinkCheck sets the predicate a canonical link must pass to be kept.
func WithPermalinkCheck(fn func(string) bool) Option {
	return func(r *Runner) { r.engine.isPermalink = fn }
}

// WithProgress registers a callback invoked after every scraped page.
func WithProgress(fn func(Stats)) Option {
	return func(r *Runner) { r.progress = fn }
}

func WithLogger(log *logger.Logger) Option {
	return func(r *Runner) {
		r.log = log
		r.engine.log = log
		r.paginator.log = log
	}
}

func NewRunner(src PageSource, store *dedup.RecordStore, settings Settings, opts ...Option) *Runner {
	log := logger.Nop()
	r := &Runner{
		source:    src,
		store:     store,
		settings:  settings,
		engine:    NewEngine(store, settings, nil, log),
		paginator: NewPaginator(settings.CrawlDelay, log),
		log:       log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run crawls until the page cap is hit, a page repeats the previous one, or
// stop is closed. Closing stop is honored once per page, after extraction.
// Cancelling ctx aborts immediately and is reported as the error; the stats
// gathered so far are returned either way and the source is always closed.
func (r *Runner) Run(ctx context.Context, stop <-chan struct{}) (Stats, error) {
	state := &RunState{Address: r.settings.StartURL}
	defer func() {
		if err := r.source.Close(); err != nil {
			r.log.LogError("Failed to close page source", err)
		}
	}()

	r.log.LogInfof("🔍 Starting crawl at %s", state.Address)
	if err := r.source.Open(ctx, state.Address); err != nil {
		if ctx.Err() != nil {
			return r.stats(state), ctx.Err()
		}
		r.log.LogError("Failed to open start page", err)
	}

	for {
		if r.settings.MaxPages > 0 && state.PagesScraped >= r.settings.MaxPages {
			r.log.LogInfof("✅ Reached page limit (%d)", r.settings.MaxPages)
			break
		}

		current := r.engine.ExtractPage(ctx, r.source, state)
		if ctx.Err() != nil {
			return r.stats(state), ctx.Err()
		}
		if stopRequested(stop) {
			r.log.LogInfof("🛑 Stop requested, finishing")
			break
		}
		if state.PageLoaded {
			state.FailedPages = 0
			if state.Previous != nil && current.Equal(state.Previous) {
				r.log.LogInfof("✅ Page repeated the previous one, no more results")
				break
			}
			state.Previous = current
		} else {
			// A page that failed to load says nothing about the listing's end.
			state.FailedPages++
			if state.FailedPages >= MaxConsecutiveFailedPages {
				r.log.LogWarnf("⚠️ %d pages in a row failed to load, giving up", state.FailedPages)
				break
			}
		}

		if err := r.paginator.Advance(ctx, r.source, state); err != nil {
			if ctx.Err() != nil {
				return r.stats(state), ctx.Err()
			}
			r.log.LogError(fmt.Sprintf("Failed to open %s", state.Address), err)
		}
		state.PagesScraped++
		if r.progress != nil {
			r.progress(r.stats(state))
		}
	}

	stats := r.stats(state)
	r.log.LogInfof("✅ Crawl finished: %d pages, %d new postings, %d errors", stats.PagesScraped, stats.NewRecords, stats.Errors)
	return stats, nil
}

func (r *Runner) stats(state *RunState) Stats {
	return Stats{
		PagesScraped: state.PagesScraped,
		NewRecords:   r.store.Added(),
		Errors:       state.Errors,
	}
}

func stopRequested(stop <-chan struct{}) bool {
	select {
	case <-stop:
		return true
	default:
		return false
	}
}
