package crawl

import (
	"context"
	"errors"
	"sync"
	"time"

	"go-job-listing-scraper/internal/logger"
	"go-job-listing-scraper/internal/scraper"
)

var (
	ErrRunInProgress = errors.New("a crawl is already running")
	ErrNoActiveRun   = errors.New("no crawl is running")
)

// Status describes the current or most recent run.
type Status struct {
	Running       bool          `json:"running"`
	StopRequested bool          `json:"stop_requested"`
	StartedAt     *time.Time    `json:"started_at,omitempty"`
	FinishedAt    *time.Time    `json:"finished_at,omitempty"`
	Stats         scraper.Stats `json:"stats"`
	LastError     string        `json:"last_error,omitempty"`
}

// Manager allows at most one run at a time and tracks its progress.
type Manager struct {
	ctx    context.Context
	run    scraper.RunFunc
	mu     sync.Mutex
	active *scraper.Run
	status Status
	log    *logger.Logger
}

// NewManager creates a manager whose runs live as long as ctx.
func NewManager(ctx context.Context, run scraper.RunFunc, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{ctx: ctx, run: run, log: log}
}

// Start launches a run in the background.
func (m *Manager) Start() (*scraper.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return nil, ErrRunInProgress
	}

	now := time.Now()
	m.status = Status{Running: true, StartedAt: &now}
	run := scraper.Start(m.ctx, m.run)
	m.active = run
	go m.watch(run)

	m.log.LogInfof("🚀 Crawl started")
	return run, nil
}

func (m *Manager) watch(run *scraper.Run) {
	stats, err := run.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	m.active = nil
	m.status.Running = false
	m.status.FinishedAt = &now
	m.status.Stats = stats
	if err != nil {
		m.status.LastError = err.Error()
		m.log.LogError("Crawl ended with an error", err)
		return
	}
	m.log.LogInfof("✅ Crawl finished")
}

// Stop asks the active run to finish after its current page.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return ErrNoActiveRun
	}
	m.active.Stop()
	m.status.StopRequested = true
	return nil
}

// Wait blocks until the active run, if any, has terminated.
func (m *Manager) Wait() {
	m.mu.Lock()
	run := m.active
	m.mu.Unlock()
	if run != nil {
		_, _ = run.Wait()
	}
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Progress records intermediate stats of the active run.
func (m *Manager) Progress(stats scraper.Stats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status.Running {
		m.status.Stats = stats
	}
}
