// Package dashboard composes the listing, collector, calculator and presenter
// stages. The listings table is cached between selections and refreshed on a
// schedule; time series are fetched fresh for every view.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"CryptoDashboard/internal/calculator"
	"CryptoDashboard/internal/collector"
	"CryptoDashboard/internal/listing"
	"CryptoDashboard/internal/model"
	"CryptoDashboard/internal/presenter"
	"CryptoDashboard/internal/recorder"
)

var (
	// ErrInvalidSelection is returned for tokens or fiats that are not offered.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrNoListings is returned before the first successful refresh.
	ErrNoListings = errors.New("listings not loaded")
)

// DefaultViewTimeout bounds the fetches behind one View, retries included.
const DefaultViewTimeout = 20 * time.Second

// DefaultFiats are the quote currencies offered in the selector.
var DefaultFiats = []string{"USD", "EUR", "GBP"}

// TokenOption is one entry of the token selector.
type TokenOption struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// View is everything the shell renders for one selection.
type View struct {
	Selection   model.Selection             `json:"selection"`
	DisplayName string                      `json:"display_name"`
	Summary     presenter.Summary           `json:"summary"`
	Candlestick *presenter.CandlestickChart `json:"candlestick"`
	Trend       *presenter.TrendChart       `json:"trend"`
	Table       *presenter.TableView        `json:"table"`
	Notices     []string                    `json:"notices,omitempty"`
}

// Service runs the pipeline.
type Service struct {
	Source      listing.Source
	Collector   *collector.Collector
	Recorder    recorder.Recorder
	Quote       string
	Windows     []int
	// ViewTimeout caps a whole View. Zero disables the cap.
	ViewTimeout time.Duration

	fiats []string

	mu        sync.RWMutex
	table     *model.ListingTable
	names     model.SymbolNameMap
	listeners []func(*presenter.TableView)
}

// NewService creates a Service. Empty fiats or windows fall back to the defaults.
func NewService(src listing.Source, col *collector.Collector, rec recorder.Recorder, quote string, fiats []string, windows []int) *Service {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if len(fiats) == 0 {
		fiats = DefaultFiats
	}
	if len(windows) == 0 {
		windows = calculator.DefaultWindows
	}
	return &Service{
		Source:      src,
		Collector:   col,
		Recorder:    rec,
		Quote:       quote,
		Windows:     windows,
		ViewTimeout: DefaultViewTimeout,
		fiats:       fiats,
	}
}

// RefreshListings scrapes and normalizes the listings, replacing the cache on
// success. On failure the previous table stays in place.
func (s *Service) RefreshListings(ctx context.Context) error {
	start := time.Now()
	raw, err := s.Source.FetchListings(ctx)
	var table *model.ListingTable
	var names model.SymbolNameMap
	if err == nil {
		table, names, err = listing.Normalize(raw, s.Quote)
	}

	run := &recorder.ScrapeRun{Source: s.Source.Name(), Duration: time.Since(start), Err: err}
	if table != nil {
		run.Rows, run.Skipped = len(table.Rows), table.Skipped
	}
	if recErr := s.Recorder.RecordScrape(run); recErr != nil {
		log.Printf("[ERROR] record scrape: %v", recErr)
	}
	if err != nil {
		return fmt.Errorf("refresh listings: %w", err)
	}

	s.mu.Lock()
	s.table, s.names = table, names
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	log.Printf("[INFO] listings refreshed: %d tokens, %d skipped, took %v", len(table.Rows), table.Skipped, run.Duration.Round(time.Millisecond))

	if len(listeners) > 0 {
		view := presenter.RankedTable(table)
		for _, fn := range listeners {
			fn(view)
		}
	}
	return nil
}

// OnRefresh registers fn to receive the ranked table after every successful refresh.
func (s *Service) OnRefresh(fn func(*presenter.TableView)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Tokens lists the selectable tokens in page order.
func (s *Service) Tokens() []TokenOption {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table == nil {
		return nil
	}
	out := make([]TokenOption, len(s.table.Rows))
	for i, r := range s.table.Rows {
		out[i] = TokenOption{Symbol: r.Symbol, Name: r.Name}
	}
	return out
}

// Fiats lists the selectable quote currencies.
func (s *Service) Fiats() []string {
	return append([]string(nil), s.fiats...)
}

// Lookup returns the display name for symbol.
func (s *Service) Lookup(symbol string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.names[symbol]
	return name, ok
}

// Table renders the cached listings.
func (s *Service) Table() (*presenter.TableView, error) {
	s.mu.RLock()
	table := s.table
	s.mu.RUnlock()
	if table == nil {
		return nil, ErrNoListings
	}
	return presenter.RankedTable(table), nil
}

// Validate checks sel against the current token universe and fiat set.
func (s *Service) Validate(sel model.Selection) (string, error) {
	s.mu.RLock()
	loaded := s.table != nil
	s.mu.RUnlock()
	if !loaded {
		return "", ErrNoListings
	}
	name, ok := s.Lookup(sel.Token)
	if !ok {
		return "", fmt.Errorf("%w: unknown token %q", ErrInvalidSelection, sel.Token)
	}
	for _, f := range s.fiats {
		if f == sel.Fiat {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported fiat %q", ErrInvalidSelection, sel.Fiat)
}

// View fetches both series for sel and builds the three charts. Fetch
// failures are reported as notices next to empty charts.
func (s *Service) View(ctx context.Context, sel model.Selection) (*View, error) {
	name, err := s.Validate(sel)
	if err != nil {
		return nil, err
	}
	table, err := s.Table()
	if err != nil {
		return nil, err
	}

	if s.ViewTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.ViewTimeout)
		defer cancel()
	}
	snap := s.Collector.Collect(ctx, sel)
	s.recordFetch(snap.Selection, model.DailyRange, snap.Daily, snap.DailyTook, snap.DailyErr)
	s.recordFetch(snap.Selection, model.IntradayRange, snap.Intraday, snap.IntradayTook, snap.IntradayErr)

	averages := calculator.MovingAverages(snap.Daily, s.Windows)
	v := &View{
		Selection:   sel,
		DisplayName: name,
		Summary:     presenter.Summarize(name, snap.Daily, s.Windows),
		Candlestick: presenter.Candlestick(name, sel, snap.Daily, averages),
		Trend:       presenter.DailyTrend(name, sel, snap.Intraday),
		Table:       table,
	}
	if snap.DailyErr != nil {
		v.Notices = append(v.Notices, notice("price history", sel, snap.DailyErr))
	}
	if snap.IntradayErr != nil {
		v.Notices = append(v.Notices, notice("today's prices", sel, snap.IntradayErr))
	}
	return v, nil
}

func (s *Service) recordFetch(sel model.Selection, rng model.RangeSpec, bars []model.OHLCV, took time.Duration, err error) {
	evt := &recorder.FetchEvent{
		Provider: s.Collector.Fetcher.Name(),
		Pair:     sel.Pair(),
		Range:    rng.Name,
		Bars:     len(bars),
		Duration: took,
		Err:      err,
	}
	if recErr := s.Recorder.RecordFetch(evt); recErr != nil {
		log.Printf("[ERROR] record fetch: %v", recErr)
	}
}

func notice(what string, sel model.Selection, err error) string {
	if errors.Is(err, model.ErrDataUnavailable) {
		return fmt.Sprintf("No %s available for %s yet.", what, sel.Pair())
	}
	return fmt.Sprintf("Could not load %s for %s. Try again or pick another pair.", what, sel.Pair())
}
