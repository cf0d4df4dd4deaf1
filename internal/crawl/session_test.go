package crawl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-job-listing-scraper/internal/browser"
	"go-job-listing-scraper/internal/config"
	"go-job-listing-scraper/internal/history"
	"go-job-listing-scraper/internal/models"
	"go-job-listing-scraper/internal/reporter"
	"go-job-listing-scraper/internal/scraper"
	"go-job-listing-scraper/internal/spreadsheet"
)

func card(jk, title, company, posted string) string {
	return fmt.Sprintf(`<div class="job_seen_beacon">
  <h2 class="jobTitle"><a href="/rc/clk?jk=%s&amp;from=serp">%s</a></h2>
  <span data-testid="company-name">%s</span>
  <div data-testid="text-location">Remote</div>
  <span data-testid="myJobsStateDate">%s</span>
</div>`, jk, title, company, posted)
}

var pages = []string{
	"<html><body>" + card("a1", "Go Developer", "Acme", "Posted 2 days ago") + card("a2", "Senior Go Developer", "Acme", "Today") + "</body></html>",
	"<html><body>" + card("b1", "Backend Engineer", "Beta", "Just posted") + "</body></html>",
}

type fakeMirror struct{ synced []models.Posting }

func (f *fakeMirror) SyncPostings(_ context.Context, p []models.Posting) error {
	f.synced = p
	return nil
}

type fakeNotifier struct{ summaries []reporter.RunSummary }

func (f *fakeNotifier) SendRunSummary(s reporter.RunSummary) error {
	f.summaries = append(f.summaries, s)
	return nil
}

func testConfig(t *testing.T, extra string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out", "jobs.xlsx")
	cfg, err := config.Parse([]byte(fmt.Sprintf(`
indeed_criteria: {position: Go, location: Remote, user_years_of_experience: "3"}
excluded_keywords: [senior]
csv_headers: [title, company, job_link, posted_date, applied, hash_id]
csv_settings: {excel_output_path: %q}
crawl_delay: 0
%s`, path, extra)))
	require.NoError(t, err)
	return cfg
}

func replayFactory(t *testing.T) SourceFactory {
	return func(context.Context, *config.Config) (scraper.PageSource, error) {
		return browser.NewReplaySourceFromHTML(pages...)
	}
}

func newTestSession(t *testing.T, cfg *config.Config, deps Deps) *Session {
	return NewSession(func() (*config.Config, error) { return cfg, nil }, replayFactory(t), deps)
}

func TestSession_Run(t *testing.T) {
	cfg := testConfig(t, "")
	hist, err := history.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer hist.Close()
	mirror := &fakeMirror{}
	notifier := &fakeNotifier{}

	stats, err := newTestSession(t, cfg, Deps{History: hist, Mirror: mirror, Notifier: notifier}).Run(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, scraper.Stats{PagesScraped: 2, NewRecords: 2, Errors: 0}, stats)

	postings, err := spreadsheet.Load(cfg.Spreadsheet.Path)
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assert.Equal(t, "Backend Engineer", postings[0].Title)
	assert.Equal(t, "https://www.indeed.com/rc/clk?jk=a1&from", postings[1].JobLink)

	runs, err := hist.List(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, history.StatusSucceeded, runs[0].Status)
	assert.Equal(t, 2, runs[0].NewRecords)

	assert.Len(t, mirror.synced, 2)
	require.Len(t, notifier.summaries, 1)
	assert.Equal(t, "succeeded", notifier.summaries[0].Status)
	assert.Len(t, notifier.summaries[0].NewPostings, 2)
}

func TestSession_RerunKeepsAppliedStatus(t *testing.T) {
	cfg := testConfig(t, "")
	session := newTestSession(t, cfg, Deps{})
	_, err := session.Run(context.Background(), nil)
	require.NoError(t, err)

	postings, err := spreadsheet.Load(cfg.Spreadsheet.Path)
	require.NoError(t, err)
	for i := range postings {
		postings[i].Applied = models.AppliedYes
		postings[i].PostedDate = "01/01/2020"
	}
	require.NoError(t, spreadsheet.Write(cfg.Spreadsheet.Path, spreadsheet.Build(postings, cfg.Fields())))

	stats, err := session.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.NewRecords)

	again, err := spreadsheet.Load(cfg.Spreadsheet.Path)
	require.NoError(t, err)
	require.Len(t, again, 2)
	for _, p := range again {
		assert.Equal(t, models.AppliedYes, p.Applied)
		assert.Equal(t, "01/01/2020", p.PostedDate)
	}
}

func TestSession_SkipsSpreadsheetWhenDisabled(t *testing.T) {
	cfg := testConfig(t, "")
	off := false
	cfg.Spreadsheet.UpdateOnComplete = &off

	_, err := newTestSession(t, cfg, Deps{}).Run(context.Background(), nil)

	require.NoError(t, err)
	_, statErr := os.Stat(cfg.Spreadsheet.Path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSession_MaterializeFailureFailsRun(t *testing.T) {
	cfg := testConfig(t, "")
	notifier := &fakeNotifier{}
	// A directory appearing at the output path makes the final rename fail.
	open := func(context.Context, *config.Config) (scraper.PageSource, error) {
		if err := os.MkdirAll(filepath.Join(cfg.Spreadsheet.Path, "occupied"), 0o755); err != nil {
			return nil, err
		}
		return browser.NewReplaySourceFromHTML(pages...)
	}
	session := NewSession(func() (*config.Config, error) { return cfg, nil }, open, Deps{Notifier: notifier})

	_, err := session.Run(context.Background(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "materialize")
	require.Len(t, notifier.summaries, 1)
	assert.Equal(t, "failed", notifier.summaries[0].Status)
	info, statErr := os.Stat(cfg.Spreadsheet.Path)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestSession_SourceFailure(t *testing.T) {
	cfg := testConfig(t, "")
	session := NewSession(
		func() (*config.Config, error) { return cfg, nil },
		func(context.Context, *config.Config) (scraper.PageSource, error) { return nil, errors.New("no browser") },
		Deps{},
	)

	_, err := session.Run(context.Background(), nil)

	assert.ErrorContains(t, err, "no browser")
}

func TestSession_ConfigFailure(t *testing.T) {
	session := NewSession(
		func() (*config.Config, error) { return nil, errors.New("bad yaml") },
		replayFactory(t),
		Deps{},
	)

	_, err := session.Run(context.Background(), nil)

	assert.ErrorContains(t, err, "bad yaml")
}

func TestOutcome(t *testing.T) {
	stopped := make(chan struct{})
	close(stopped)

	assert.Equal(t, history.StatusSucceeded, outcome(nil, nil))
	assert.Equal(t, history.StatusStopped, outcome(stopped, nil))
	assert.Equal(t, history.StatusCancelled, outcome(nil, context.Canceled))
	assert.Equal(t, history.StatusFailed, outcome(stopped, errors.New("boom")))
}
