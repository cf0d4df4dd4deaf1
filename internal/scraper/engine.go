package scraper

import (
	"context"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"go-job-listing-scraper/internal/dedup"
	"go-job-listing-scraper/internal/filter"
	"go-job-listing-scraper/internal/logger"
	"go-job-listing-scraper/internal/models"
)

// extractor pulls one configured field out of a card. ok=false marks a field
// failure: the value stays blank and the error counter is bumped.
type extractor func(c Card, now time.Time) (value string, ok bool)

// extractors covers the fields read from card text. Salary is optional on the
// listing, so a missing one is stored as N/A and is not counted as an error.
var extractors = map[models.Field]extractor{
	models.FieldTitle:         required(RoleTitle),
	models.FieldCompany:       required(RoleCompany),
	models.FieldLocation:      required(RoleLocation),
	models.FieldSalaryPreview: optional(RoleSalary),
	models.FieldPostedDate: func(c Card, now time.Time) (string, bool) {
		phrase, ok := c.Text(RolePostedDate)
		if !ok {
			return "", false
		}
		return filter.ParsePostedDate(phrase, now), true
	},
}

func required(role Role) extractor {
	return func(c Card, _ time.Time) (string, bool) {
		return c.Text(role)
	}
}

// optional fields fall back to N/A instead of failing.
func optional(role Role) extractor {
	return func(c Card, _ time.Time) (string, bool) {
		if v, ok := c.Text(role); ok {
			return v, true
		}
		return models.NotAvailable, true
	}
}

// Engine turns the cards of the current page into merged postings.
type Engine struct {
	store       *dedup.RecordStore
	settings    Settings
	isPermalink func(link string) bool
	now         func() time.Time
	log         *logger.Logger
}

func NewEngine(store *dedup.RecordStore, settings Settings, isPermalink func(string) bool, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	if isPermalink == nil {
		isPermalink = func(string) bool { return true }
	}
	return &Engine{
		store:       store,
		settings:    settings,
		isPermalink: isPermalink,
		now:         time.Now,
		log:         log,
	}
}

// ExtractPage processes every card on the page src currently shows and
// returns the hash ids that made it into the store. A page that never
// becomes ready yields an empty set; that is not an error.
func (e *Engine) ExtractPage(ctx context.Context, src PageSource, state *RunState) mapset.Set[string] {
	ids := mapset.NewThreadUnsafeSet[string]()
	state.PageLoaded = false

	if !e.awaitReady(ctx, src) {
		return ids
	}

	cards, err := src.Cards(ctx)
	if err != nil {
		e.log.LogError("Failed to list result cards", err)
		return ids
	}
	state.PageLoaded = true

	now := e.now()
	for _, card := range cards {
		if ctx.Err() != nil {
			break
		}
		posting, errs, ok := e.extractCard(card, now)
		state.Errors += errs
		if !ok {
			continue
		}
		merged := e.store.Merge(posting)
		ids.Add(merged.HashID)
	}

	e.log.LogDebugf("📋 %d of %d cards kept on %s", ids.Cardinality(), len(cards), state.Address)
	return ids
}

// extractCard returns the posting for card, the number of errors to count
// and whether the posting should be stored.
func (e *Engine) extractCard(card Card, now time.Time) (models.Posting, int, bool) {
	link, ok := card.Link()
	if !ok {
		e.log.LogDebugf("⚠️ Card without a link, skipping")
		return models.Posting{}, 1, false
	}

	canonical := dedup.CanonicalizeLink(link)
	p := models.Posting{
		HashID:         dedup.HashID(canonical),
		JobLink:        canonical,
		SearchCriteria: e.settings.SearchCriteria,
		Description:    models.NotAvailable,
	}
	if desc, ok := card.Text(RoleDescription); ok {
		p.Description = desc
	}

	// Sponsored and redirect cards do not point at a posting.
	if !e.isPermalink(canonical) {
		return p, 0, false
	}
	if !filter.MeetsExperienceRequirement(p.Description, e.settings.UserMaxYears) {
		return p, 0, false
	}

	errs := 0
	for _, f := range e.settings.Fields {
		extract, ok := extractors[f]
		if !ok {
			continue
		}
		v, ok := extract(card, now)
		if !ok {
			errs++
			continue
		}
		p.Set(f, v)
		if f == models.FieldTitle && filter.IsExcludedTitle(e.settings.Excluded, v) {
			return p, 0, false
		}
	}
	return p, errs, true
}

func (e *Engine) awaitReady(ctx context.Context, src PageSource) bool {
	attempts := e.settings.readyAttempts()
	timeout := e.settings.readyTimeout()

	for attempt := 1; attempt <= attempts; attempt++ {
		if src.AwaitReady(ctx, timeout) {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		if attempt < attempts {
			e.log.LogWarnf("⚠️ Results not ready (attempt %d/%d), reloading", attempt, attempts)
			if err := src.Reload(ctx); err != nil {
				e.log.LogError("Reload failed", err)
			}
		}
	}

	e.log.LogWarnf("⚠️ Results never became ready after %d attempts, skipping page", attempts)
	if snap, ok := src.(Snapshotter); ok {
		snap.Snapshot("results_not_ready", "Results container missing")
	}
	return false
}
