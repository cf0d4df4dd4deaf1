// Package server exposes crawl control over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-job-listing-scraper/internal/crawl"
	"go-job-listing-scraper/internal/history"
	"go-job-listing-scraper/internal/logger"
	"go-job-listing-scraper/internal/scraper"
)

// Controller starts and stops crawls; crawl.Manager satisfies it.
type Controller interface {
	Start() (*scraper.Run, error)
	Stop() error
	Status() crawl.Status
}

type Server struct {
	router     *gin.Engine
	controller Controller
	history    history.Store
	log        *logger.Logger
}

// New builds the router. history may be nil, in which case the run list is
// reported as unavailable.
func New(controller Controller, hist history.Store, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		router:     gin.New(),
		controller: controller,
		history:    hist,
		log:        log,
	}
	s.router.Use(gin.Recovery())

	s.router.GET("/healthz", s.health)
	api := s.router.Group("/api")
	api.POST("/runs", s.startRun)
	api.POST("/runs/stop", s.stopRun)
	api.GET("/runs/current", s.currentRun)
	api.GET("/runs", s.listRuns)
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.LogInfof("🌐 Server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Job listing scraper API is running!",
		"status":  "healthy",
	})
}

func (s *Server) startRun(c *gin.Context) {
	if _, err := s.controller.Start(); err != nil {
		if errors.Is(err, crawl.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		s.log.LogError("Failed to start crawl", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "started"})
}

func (s *Server) stopRun(c *gin.Context) {
	if err := s.controller.Stop(); err != nil {
		if errors.Is(err, crawl.ErrNoActiveRun) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "stopping"})
}

func (s *Server) currentRun(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller.Status())
}

func (s *Server) listRuns(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "run history is not configured"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 200 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 200"})
			return
		}
		limit = n
	}

	runs, err := s.history.List(c.Request.Context(), limit)
	if err != nil {
		s.log.LogError("Failed to list runs", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}
	if runs == nil {
		runs = []*history.Run{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}
