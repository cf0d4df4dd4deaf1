package browser

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-job-listing-scraper/internal/logger"
	"go-job-listing-scraper/internal/scraper"
	"go-job-listing-scraper/internal/scraper/indeed"
	"go-job-listing-scraper/utils"
)

const (
	navigationTimeout = 30 * time.Second
	elementTimeout    = 2 * time.Second
)

// PlaywrightSource is a live Chromium tab over the results listing.
type PlaywrightSource struct {
	manager     *PlaywrightManager
	bctx        playwright.BrowserContext
	page        playwright.Page
	screenshots *utils.ScreenShotDebugger
	log         *logger.Logger
}

type PlaywrightOptions struct {
	Headless      bool
	Cookies       []playwright.OptionalCookie
	ScreenshotDir string
}

func NewPlaywrightSource(opts PlaywrightOptions, log *logger.Logger) (*PlaywrightSource, error) {
	if log == nil {
		log = logger.Nop()
	}
	pm, err := NewPlaywright(opts.Headless)
	if err != nil {
		return nil, err
	}

	bctx, err := pm.NewContext(opts.Cookies)
	if err != nil {
		_ = pm.Close()
		return nil, err
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = pm.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}

	return &PlaywrightSource{
		manager:     pm,
		bctx:        bctx,
		page:        page,
		screenshots: utils.NewScreenShotDebugger(opts.ScreenshotDir, log),
		log:         log,
	}, nil
}

func (s *PlaywrightSource) Open(ctx context.Context, address string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Goto(address, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(navigationTimeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("goto %s: %w", address, err)
	}
	return nil
}

func (s *PlaywrightSource) AwaitReady(ctx context.Context, timeout time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	err := s.page.Locator(indeed.ResultCardSelector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	return err == nil
}

func (s *PlaywrightSource) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(navigationTimeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return nil
}

func (s *PlaywrightSource) Cards(ctx context.Context) ([]scraper.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	locators, err := s.page.Locator(indeed.ResultCardSelector).All()
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	base, _ := url.Parse(s.page.URL())
	cards := make([]scraper.Card, len(locators))
	for i, loc := range locators {
		cards[i] = &playwrightCard{loc: loc, base: base}
	}
	return cards, nil
}

// Snapshot saves a screenshot of the current page. Failures are only logged.
func (s *PlaywrightSource) Snapshot(name, message string) {
	_ = s.screenshots.CaptureAndLog(s.page, name, message)
}

func (s *PlaywrightSource) Close() error {
	if err := s.bctx.Close(); err != nil {
		s.log.LogError("Failed to close browser context", err)
	}
	return s.manager.Close()
}

type playwrightCard struct {
	loc  playwright.Locator
	base *url.URL
}

func (c *playwrightCard) Link() (string, bool) {
	a := c.loc.Locator(indeed.LinkSelector).First()
	if n, err := a.Count(); err != nil || n == 0 {
		return "", false
	}
	href, err := a.GetAttribute("href", playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(float64(elementTimeout.Milliseconds())),
	})
	if err != nil || cleanText(href) == "" {
		return "", false
	}
	return resolveLink(c.base, href), true
}

func (c *playwrightCard) Text(role scraper.Role) (string, bool) {
	selector, ok := indeed.RoleSelectors[role]
	if !ok {
		return "", false
	}
	el := c.loc.Locator(selector).First()
	if n, err := el.Count(); err != nil || n == 0 {
		return "", false
	}
	text, err := el.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(float64(elementTimeout.Milliseconds())),
	})
	if err != nil {
		return "", false
	}
	text = cleanText(text)
	return text, text != ""
}
