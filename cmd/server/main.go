package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"go-job-listing-scraper/internal/app"
	"go-job-listing-scraper/internal/config"
	"go-job-listing-scraper/internal/logger"
	"go-job-listing-scraper/internal/scheduler"
	"go-job-listing-scraper/internal/server"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	replayDir := flag.String("replay", "", "crawl saved result pages from this directory instead of a live browser")
	flag.Parse()

	log := logger.New("Server")
	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, app.Options{ConfigPath: *configPath, ReplayDir: *replayDir})
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to initialize")
	}
	defer a.Close()

	if a.Config.Schedule != "" {
		s := scheduler.New(a.Config.Schedule, a.Manager, log)
		if err := s.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("❌ Failed to start scheduler")
		}
		defer s.Stop()
	}

	addr := a.Config.ServerAddr
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	srv := server.New(a.Manager, a.History, log)
	if err := srv.Run(ctx, addr); err != nil {
		log.LogError("Server stopped", err)
	}

	// Let an in-flight crawl flush its spreadsheet before exiting.
	if err := a.Manager.Stop(); err == nil {
		log.LogInfof("⏳ Waiting for the running crawl to finish")
	}
	a.Manager.Wait()
	log.LogInfof("🏁 Server shut down")
}
