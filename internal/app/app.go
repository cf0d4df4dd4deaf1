// Package app builds a crawl session and its side effects from config.
package app

import (
	"context"
	"fmt"

	"go-job-listing-scraper/internal/browser"
	"go-job-listing-scraper/internal/config"
	"go-job-listing-scraper/internal/crawl"
	"go-job-listing-scraper/internal/database"
	"go-job-listing-scraper/internal/history"
	"go-job-listing-scraper/internal/logger"
	"go-job-listing-scraper/internal/reporter"
	"go-job-listing-scraper/internal/scraper"
)

type Options struct {
	ConfigPath string
	// ReplayDir switches the page source from a live browser to saved pages.
	ReplayDir string
}

// App holds everything a command needs to run crawls.
type App struct {
	Config  *config.Config
	Session *crawl.Session
	Manager *crawl.Manager
	History history.Store

	closers []func()
	log     *logger.Logger
}

// New loads config once to wire the long-lived dependencies. Each run
// reloads it so criteria edits apply to the next crawl.
func New(ctx context.Context, opts Options) (*App, error) {
	log := logger.New("Scraper")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, log: log}

	deps := crawl.Deps{Logger: log}

	if cfg.HistoryDBPath != "" {
		store, err := history.NewSQLiteStore(cfg.HistoryDBPath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open run history: %w", err)
		}
		a.History = store
		deps.History = store
		a.closers = append(a.closers, func() { store.Close() })
	}

	if cfg.DatabaseURL != "" {
		repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		if err := repo.Migrate(ctx); err != nil {
			repo.Close()
			a.Close()
			return nil, err
		}
		deps.Mirror = repo
		a.closers = append(a.closers, repo.Close)
		log.LogInfof("🐘 Postgres mirror enabled")
	}

	if cfg.TelegramToken != "" {
		tg, err := reporter.NewTelegramReporter(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			// Notifications are optional; a bad token should not block crawling.
			log.LogError("Telegram disabled", err)
		} else {
			deps.Notifier = tg
			log.LogInfof("🤖 Telegram reporter initialized")
		}
	}

	load := func() (*config.Config, error) { return config.Load(opts.ConfigPath) }
	a.Session = crawl.NewSession(load, sourceFactory(opts.ReplayDir, log), deps)
	a.Manager = crawl.NewManager(ctx, a.Session.Run, log)
	a.Session.OnProgress(a.Manager.Progress)
	return a, nil
}

func sourceFactory(replayDir string, log *logger.Logger) crawl.SourceFactory {
	if replayDir != "" {
		return func(context.Context, *config.Config) (scraper.PageSource, error) {
			log.LogInfof("📼 Replaying saved pages from %s", replayDir)
			return browser.NewReplaySource(replayDir)
		}
	}
	return func(_ context.Context, cfg *config.Config) (scraper.PageSource, error) {
		cookies, err := browser.LoadCookies(cfg.CookiesPath)
		if err != nil {
			log.LogWarnf("⚠️ Could not load cookies: %v. Continuing.", err)
		} else if len(cookies) > 0 {
			log.LogInfof("🍪 Loaded %d cookies", len(cookies))
		}
		return browser.NewPlaywrightSource(browser.PlaywrightOptions{
			Headless:      cfg.Headless == nil || *cfg.Headless,
			Cookies:       cookies,
			ScreenshotDir: cfg.ScreenshotDir,
		}, log)
	}
}

// Close releases databases in reverse order of opening.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
