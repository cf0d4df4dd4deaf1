package scraper

import (
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"go-job-listing-scraper/internal/models"
)

const (
	DefaultReadyAttempts = 5
	DefaultReadyTimeout  = 5 * time.Second
	// MaxConsecutiveFailedPages ends a run that keeps landing on pages that
	// never render, which would otherwise loop forever without a page cap.
	MaxConsecutiveFailedPages = 3
)

// Settings is the configuration snapshot a run works with. It is captured once
// when the run starts and never changes afterwards.
type Settings struct {
	StartURL string
	// Fields is the configured output column order.
	Fields []models.Field
	// Excluded holds lowercase title phrases; it must not be mutated once the run starts.
	Excluded     mapset.Set[string]
	UserMaxYears string
	// CrawlDelay is the minimum number of seconds between page fetches.
	CrawlDelay int
	// MaxPages caps how many pages are advanced through; 0 means unlimited.
	MaxPages       int
	SearchCriteria string
	ReadyAttempts  int
	ReadyTimeout   time.Duration
}

func (s Settings) readyAttempts() int {
	if s.ReadyAttempts > 0 {
		return s.ReadyAttempts
	}
	return DefaultReadyAttempts
}

func (s Settings) readyTimeout() time.Duration {
	if s.ReadyTimeout > 0 {
		return s.ReadyTimeout
	}
	return DefaultReadyTimeout
}

// Stats is what a run reports back to its caller.
type Stats struct {
	PagesScraped int `json:"pages_scraped"`
	NewRecords   int `json:"new_records"`
	Errors       int `json:"errors"`
}

// RunState is the mutable state of one run, owned by the run loop.
type RunState struct {
	Address  string
	Previous mapset.Set[string]
	// PageLoaded is false when the last extracted page never rendered.
	PageLoaded   bool
	FailedPages  int
	PagesScraped int
	Errors       int
}
