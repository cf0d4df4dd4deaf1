package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-job-listing-scraper/internal/logger"
)

// ScreenShotDebugger saves full page screenshots when a page misbehaves.
type ScreenShotDebugger struct {
	outputDir string
	log       *logger.Logger
}

func NewScreenShotDebugger(dir string, log *logger.Logger) *ScreenShotDebugger {
	if dir == "" {
		dir = filepath.Join(".", "logs", "screenshots")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ScreenShotDebugger{
		outputDir: dir,
		log:       log,
	}
}

// Path is where a screenshot named name taken at ts is written.
func (s *ScreenShotDebugger) Path(name string, ts time.Time) string {
	filename := fmt.Sprintf("%s_%s.png", name, ts.Format("2006-01-02_15-04-05"))
	return filepath.Join(s.outputDir, filename)
}

func (s *ScreenShotDebugger) CaptureAndLog(page playwright.Page, name, message string) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create screenshot dir: %w", err)
	}
	path := s.Path(name, time.Now())
	s.log.LogInfof("📸 %s", message)

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		s.log.LogError("Failed to capture screenshot", err)
		return err
	}

	s.log.LogInfof("   Screenshot saved: %s", path)
	return nil
}
