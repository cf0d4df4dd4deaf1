package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPageAddress(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{"https://www.indeed.com/jobs?q=go&l=Remote", "https://www.indeed.com/jobs?q=go&l=Remote&start=10"},
		{"https://www.indeed.com/jobs?q=go&start=10", "https://www.indeed.com/jobs?q=go&start=20"},
		{"https://www.indeed.com/jobs?start=30&q=go", "https://www.indeed.com/jobs?start=40&q=go"},
		{"https://www.indeed.com/jobs", "https://www.indeed.com/jobs?start=10"},
		{"https://www.indeed.com/jobs?q=go&start=", "https://www.indeed.com/jobs?q=go&start=10"},
		{"https://www.indeed.com/jobs?q=go&restart=5", "https://www.indeed.com/jobs?q=go&restart=5&start=10"},
	}
	for _, tt := range tests {
		t.Run(tt.current, func(t *testing.T) {
			assert.Equal(t, tt.want, NextPageAddress(tt.current))
		})
	}
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, 0, PageOffset("https://www.indeed.com/jobs?q=go"))
	assert.Equal(t, 20, PageOffset("https://www.indeed.com/jobs?q=go&start=20"))
}

func TestPaginator_DelayBounds(t *testing.T) {
	p := NewPaginator(10, nil)

	p.intN = func(int) int { return 0 }
	assert.Equal(t, 10*time.Second, p.Delay())

	var gotN int
	p.intN = func(n int) int { gotN = n; return n - 1 }
	assert.Equal(t, 15*time.Second, p.Delay())
	assert.Equal(t, 6, gotN)

	p = NewPaginator(3, nil)
	p.intN = func(n int) int { return n - 1 }
	assert.Equal(t, 4*time.Second, p.Delay())

	p = NewPaginator(0, nil)
	assert.Equal(t, time.Duration(0), p.Delay())
}

func TestPaginator_Advance(t *testing.T) {
	src := &fakeSource{pages: [][]Card{{}, {}}}
	p := NewPaginator(2, nil)
	var slept time.Duration
	p.sleep = func(_ context.Context, d time.Duration) error { slept = d; return nil }
	state := &RunState{Address: "https://www.indeed.com/jobs?q=go"}

	require.NoError(t, p.Advance(context.Background(), src, state))

	assert.GreaterOrEqual(t, slept, 2*time.Second)
	assert.LessOrEqual(t, slept, 3*time.Second)
	assert.Equal(t, "https://www.indeed.com/jobs?q=go&start=10", state.Address)
	assert.Equal(t, []string{state.Address}, src.opened)
}

func TestPaginator_AdvanceCancelled(t *testing.T) {
	src := &fakeSource{pages: [][]Card{{}}}
	p := NewPaginator(60, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	state := &RunState{Address: "https://www.indeed.com/jobs?q=go"}

	err := p.Advance(ctx, src, state)

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, src.opened)
	assert.Equal(t, "https://www.indeed.com/jobs?q=go", state.Address)
}
