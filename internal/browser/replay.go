package browser

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"go-job-listing-scraper/internal/scraper"
	"go-job-listing-scraper/internal/scraper/indeed"
)

// ReplaySource serves previously saved result pages instead of a live browser.
// Page n of the crawl is the n-th document; offsets past the end keep showing
// the last one, which ends the crawl on the repeated-page rule.
type ReplaySource struct {
	pages   []*goquery.Document
	current *goquery.Document
	base    *url.URL
}

// NewReplaySource loads every *.html file in dir, ordered by file name.
func NewReplaySource(dir string) (*ReplaySource, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("list replay pages: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .html pages in %s", dir)
	}
	sort.Strings(paths)

	pages := make([]string, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read replay page: %w", err)
		}
		pages = append(pages, string(data))
	}
	return NewReplaySourceFromHTML(pages...)
}

func NewReplaySourceFromHTML(pages ...string) (*ReplaySource, error) {
	s := &ReplaySource{}
	for i, html := range pages {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return nil, fmt.Errorf("parse replay page %d: %w", i, err)
		}
		s.pages = append(s.pages, doc)
	}
	return s, nil
}

func (s *ReplaySource) Open(ctx context.Context, address string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(s.pages) == 0 {
		return fmt.Errorf("replay source has no pages")
	}
	idx := scraper.PageOffset(address) / scraper.PageSize
	if idx >= len(s.pages) {
		idx = len(s.pages) - 1
	}
	s.current = s.pages[idx]
	s.base, _ = url.Parse(address)
	return nil
}

func (s *ReplaySource) AwaitReady(ctx context.Context, _ time.Duration) bool {
	return ctx.Err() == nil && s.current != nil && s.current.Find(indeed.ResultCardSelector).Length() > 0
}

func (s *ReplaySource) Reload(ctx context.Context) error {
	return ctx.Err()
}

func (s *ReplaySource) Cards(ctx context.Context) ([]scraper.Card, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.current == nil {
		return nil, nil
	}
	var cards []scraper.Card
	s.current.Find(indeed.ResultCardSelector).Each(func(_ int, sel *goquery.Selection) {
		cards = append(cards, &documentCard{sel: sel, base: s.base})
	})
	return cards, nil
}

func (s *ReplaySource) Close() error {
	s.current = nil
	return nil
}

type documentCard struct {
	sel  *goquery.Selection
	base *url.URL
}

func (c *documentCard) Link() (string, bool) {
	href, ok := c.sel.Find(indeed.LinkSelector).First().Attr("href")
	if !ok || cleanText(href) == "" {
		return "", false
	}
	return resolveLink(c.base, href), true
}

func (c *documentCard) Text(role scraper.Role) (string, bool) {
	selector, ok := indeed.RoleSelectors[role]
	if !ok {
		return "", false
	}
	text := cleanText(c.sel.Find(selector).First().Text())
	return text, text != ""
}
