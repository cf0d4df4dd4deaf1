package scraper

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"go-job-listing-scraper/internal/logger"
)

const (
	// PageOffsetParam is the query parameter carrying the result offset.
	PageOffsetParam = "start"
	// PageSize is how far the offset moves per page.
	PageSize = 10
)

// NextPageAddress returns the address of the page after current. The offset
// parameter is added at PageSize when absent and bumped by PageSize otherwise;
// everything else in the address is kept verbatim.
func NextPageAddress(current string) string {
	if start, end, ok := offsetSpan(current); ok {
		n, _ := strconv.Atoi(current[start:end])
		return current[:start] + strconv.Itoa(n+PageSize) + current[end:]
	}
	sep := "&"
	if !strings.Contains(current, "?") {
		sep = "?"
	}
	return current + sep + PageOffsetParam + "=" + strconv.Itoa(PageSize)
}

// PageOffset is the result offset encoded in address, 0 when there is none.
func PageOffset(address string) int {
	start, end, ok := offsetSpan(address)
	if !ok {
		return 0
	}
	n, _ := strconv.Atoi(address[start:end])
	return n
}

// offsetSpan locates the digits of the offset parameter value.
func offsetSpan(address string) (int, int, bool) {
	for _, prefix := range []string{"?" + PageOffsetParam + "=", "&" + PageOffsetParam + "="} {
		idx := strings.Index(address, prefix)
		if idx < 0 {
			continue
		}
		start := idx + len(prefix)
		end := start
		for end < len(address) && address[end] >= '0' && address[end] <= '9' {
			end++
		}
		return start, end, true
	}
	return 0, 0, false
}

// Paginator moves a page source to the next page after a randomized delay.
type Paginator struct {
	delaySeconds int
	intN         func(n int) int
	sleep        func(ctx context.Context, d time.Duration) error
	log          *logger.Logger
}

func NewPaginator(delaySeconds int, log *logger.Logger) *Paginator {
	if log == nil {
		log = logger.Nop()
	}
	if delaySeconds < 0 {
		delaySeconds = 0
	}
	return &Paginator{
		delaySeconds: delaySeconds,
		intN:         rand.Intn,
		sleep:        sleepContext,
		log:          log,
	}
}

// Delay draws a whole number of seconds in [delay, floor(delay*1.5)].
func (p *Paginator) Delay() time.Duration {
	lo := p.delaySeconds
	hi := p.delaySeconds * 3 / 2
	return time.Duration(lo+p.intN(hi-lo+1)) * time.Second
}

// Advance waits out the crawl delay and opens the next page. The delay is
// only cut short by ctx.
func (p *Paginator) Advance(ctx context.Context, src PageSource, state *RunState) error {
	d := p.Delay()
	p.log.LogDebugf("⏳ Waiting %s before next page", d)
	if err := p.sleep(ctx, d); err != nil {
		return err
	}

	state.Address = NextPageAddress(state.Address)
	return src.Open(ctx, state.Address)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
