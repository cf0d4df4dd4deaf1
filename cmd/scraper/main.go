package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go-job-listing-scraper/internal/app"
	"go-job-listing-scraper/internal/config"
	"go-job-listing-scraper/internal/logger"
	"go-job-listing-scraper/internal/scheduler"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	replayDir := flag.String("replay", "", "crawl saved result pages from this directory instead of a live browser")
	flag.Parse()

	log := logger.New("Main")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, app.Options{ConfigPath: *configPath, ReplayDir: *replayDir})
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize")
	}
	defer a.Close()
	log.LogInfof("🔧 Config loaded. Position: %q, location: %q", a.Config.IndeedCriteria.Position, a.Config.IndeedCriteria.Location)

	// First interrupt asks the crawl to wrap up after the current page,
	// the second one cancels it outright.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.LogWarnf("🛑 Interrupt received, finishing current page (press Ctrl+C again to abort)")
		_ = a.Manager.Stop()
		<-sigCh
		log.LogWarnf("🛑 Aborting")
		cancel()
	}()

	if a.Config.Schedule != "" {
		runScheduled(ctx, a, log)
		return
	}

	log.LogInfof("🚀 Starting job listing scraper...")
	run, err := a.Manager.Start()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to start crawl")
	}
	stats, err := run.Wait()
	if err != nil {
		log.LogError("❌ Crawl failed", err)
		a.Close()
		os.Exit(1)
	}
	log.LogInfof("🏁 Execution finished. Pages: %d, new postings: %d, errors: %d", stats.PagesScraped, stats.NewRecords, stats.Errors)
}

func runScheduled(ctx context.Context, a *app.App, log *logger.Logger) {
	// In scheduled mode an interrupt stops the scheduler as well.
	schedCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := scheduler.New(a.Config.Schedule, a.Manager, log)
	if err := s.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to start scheduler")
	}

	<-schedCtx.Done()
	<-s.Stop().Done()
	log.LogInfof("🏁 Scheduler shut down")
}
