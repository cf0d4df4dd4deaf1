package scraper

import (
	"context"
	"time"
)

type fakeCard struct {
	link  string
	texts map[Role]string
}

func (c fakeCard) Link() (string, bool) { return c.link, c.link != "" }

func (c fakeCard) Text(role Role) (string, bool) {
	v, ok := c.texts[role]
	return v, ok && v != ""
}

// fakeSource serves pages by result offset. Offsets past the last page keep
// returning the last page, like the real listing does.
type fakeSource struct {
	pages      [][]Card
	notReady   map[int]bool
	opened     []string
	reloads    int
	closed     bool
	snapshots  int
	readyCalls int
	onOpen     func(address string)
	current    int
}

func (s *fakeSource) Open(_ context.Context, address string) error {
	s.opened = append(s.opened, address)
	s.current = PageOffset(address) / PageSize
	if s.current >= len(s.pages) {
		s.current = len(s.pages) - 1
	}
	if s.onOpen != nil {
		s.onOpen(address)
	}
	return nil
}

func (s *fakeSource) AwaitReady(_ context.Context, _ time.Duration) bool {
	s.readyCalls++
	return !s.notReady[s.current]
}

func (s *fakeSource) Reload(context.Context) error {
	s.reloads++
	return nil
}

func (s *fakeSource) Cards(context.Context) ([]Card, error) {
	if s.current < 0 {
		return nil, nil
	}
	return s.pages[s.current], nil
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

func (s *fakeSource) Snapshot(string, string) { s.snapshots++ }

func posting(jk, title, company string) Card {
	return fakeCard{
		link: "https://www.indeed.com/rc/clk?jk=" + jk + "&from=vj",
		texts: map[Role]string{
			RoleTitle:      title,
			RoleCompany:    company,
			RoleLocation:   "Remote",
			RolePostedDate: "Posted 2 days ago",
		},
	}
}

func noSleep(context.Context, time.Duration) error { return nil }
