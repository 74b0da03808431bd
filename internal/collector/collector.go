package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"

	"CryptoDashboard/internal/model"
	"CryptoDashboard/internal/retry"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series map[string][]model.OHLCV // keyed by range name
	Errs   map[string]error
	Calls  int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSeries(_ context.Context, _ string, rng model.RangeSpec) ([]model.OHLCV, error) {
	m.Calls++
	if err := m.Errs[rng.Name]; err != nil {
		return nil, err
	}
	bars, ok := m.Series[rng.Name]
	if !ok || len(bars) == 0 {
		return nil, fmt.Errorf("%w: mock: no %s bars", model.ErrDataUnavailable, rng)
	}
	return bars, nil
}

// GenerateBars builds count synthetic bars spaced by step starting at start.
func GenerateBars(start time.Time, step time.Duration, basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   start.Add(time.Duration(i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Snapshot is the pair of series fetched for one selection. Each series is
// fetched independently; a failure of one leaves the other intact.
type Snapshot struct {
	Selection    model.Selection
	Daily        []model.OHLCV
	Intraday     []model.OHLCV
	DailyErr     error
	IntradayErr  error
	DailyTook    time.Duration
	IntradayTook time.Duration
	FetchedAt    time.Time
}

// Collector adds rate limiting and retries to a Fetcher.
type Collector struct {
	Fetcher Fetcher
	Limiter *rate.Limiter
	Retry   retry.Policy
}

// NewCollector creates a Collector allowing ratePerSec requests with the given burst.
func NewCollector(fetcher Fetcher, ratePerSec float64, burst, maxRetries int) *Collector {
	limit := rate.Inf
	if ratePerSec > 0 {
		limit = rate.Limit(ratePerSec)
	}
	if burst <= 0 {
		burst = 1
	}
	p := retry.DefaultPolicy(func(err error) bool { return errors.Is(err, model.ErrRetrieval) })
	p.MaxRetries = maxRetries
	return &Collector{
		Fetcher: fetcher,
		Limiter: rate.NewLimiter(limit, burst),
		Retry:   p,
	}
}

// FetchSeries fetches one range for pair, waiting on the limiter before every attempt.
func (c *Collector) FetchSeries(ctx context.Context, pair string, rng model.RangeSpec) ([]model.OHLCV, error) {
	var bars []model.OHLCV
	op := fmt.Sprintf("%s %s %s", c.Fetcher.Name(), pair, rng)
	err := retry.Do(ctx, op, c.Retry, func(ctx context.Context) error {
		if err := c.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		var err error
		bars, err = c.Fetcher.FetchSeries(ctx, pair, rng)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bars, nil
}

// Collect fetches the daily and intraday series for sel.
func (c *Collector) Collect(ctx context.Context, sel model.Selection) *Snapshot {
	snap := &Snapshot{Selection: sel, FetchedAt: time.Now()}
	pair := sel.Pair()

	start := time.Now()
	snap.Daily, snap.DailyErr = c.FetchSeries(ctx, pair, model.DailyRange)
	snap.DailyTook = time.Since(start)
	if snap.DailyErr != nil {
		log.Printf("[WARN] fetch %s daily: %v", pair, snap.DailyErr)
	}
	start = time.Now()
	snap.Intraday, snap.IntradayErr = c.FetchSeries(ctx, pair, model.IntradayRange)
	snap.IntradayTook = time.Since(start)
	if snap.IntradayErr != nil {
		log.Printf("[WARN] fetch %s intraday: %v", pair, snap.IntradayErr)
	}
	return snap
}
