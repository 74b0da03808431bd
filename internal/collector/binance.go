package collector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"

	"CryptoDashboard/internal/model"
)

const (
	binanceKlineLimit     = 1000
	binanceInvalidSymbol  = -1121
	DefaultBinanceBaseURL = "https://api.binance.com"
)

// BinanceFetcher implements Fetcher using Binance spot klines. Binance has no
// USD book, so fiat codes are mapped onto quote assets (USD -> USDT).
type BinanceFetcher struct {
	client   *binance.Client
	QuoteMap map[string]string
	now      func() time.Time
}

// NewBinanceFetcher creates a fetcher for public kline endpoints.
func NewBinanceFetcher(baseURL string, timeout time.Duration, proxyURL string, quoteMap map[string]string) *BinanceFetcher {
	client := binance.NewClient("", "")
	if baseURL == "" {
		baseURL = DefaultBinanceBaseURL
	}
	client.BaseURL = baseURL
	client.HTTPClient = newHTTPClient(timeout, proxyURL)
	if quoteMap == nil {
		quoteMap = map[string]string{"USD": "USDT"}
	}
	return &BinanceFetcher{client: client, QuoteMap: quoteMap, now: time.Now}
}

func (f *BinanceFetcher) Name() string { return "binance" }

// binanceSymbol turns "BTC-USD" into "BTCUSDT".
func (f *BinanceFetcher) binanceSymbol(pair string) (string, error) {
	base, quote, ok := strings.Cut(pair, "-")
	if !ok || base == "" || quote == "" {
		return "", fmt.Errorf("%w: binance: malformed pair %q", model.ErrDataUnavailable, pair)
	}
	if mapped, ok := f.QuoteMap[quote]; ok {
		quote = mapped
	}
	return strings.ToUpper(base + quote), nil
}

func binanceInterval(rng model.RangeSpec) string {
	switch {
	case rng.Granularity <= time.Minute:
		return "1m"
	case rng.Granularity <= time.Hour:
		return "1h"
	default:
		return "1d"
	}
}

// windowStart is the first bar to request: midnight UTC for intraday ranges,
// now minus the span otherwise.
func windowStart(now time.Time, rng model.RangeSpec) time.Time {
	if rng.Span <= 24*time.Hour {
		y, m, d := now.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return now.Add(-rng.Span)
}

func (f *BinanceFetcher) FetchSeries(ctx context.Context, pair string, rng model.RangeSpec) ([]model.OHLCV, error) {
	symbol, err := f.binanceSymbol(pair)
	if err != nil {
		return nil, err
	}
	interval := binanceInterval(rng)
	now := f.now()
	start := windowStart(now, rng).UnixMilli()
	end := now.UnixMilli()

	var bars []model.OHLCV
	for start < end {
		klines, err := f.client.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			StartTime(start).
			EndTime(end).
			Limit(binanceKlineLimit).
			Do(ctx)
		if err != nil {
			return nil, classifyBinanceError(symbol, err)
		}
		for _, k := range klines {
			bar, err := translateKline(k)
			if err != nil {
				return nil, err
			}
			bars = append(bars, bar)
		}
		if len(klines) < binanceKlineLimit {
			break
		}
		start = klines[len(klines)-1].OpenTime + 1
	}

	bars = sortUnique(bars)
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: binance: no klines for %s %s", model.ErrDataUnavailable, symbol, rng)
	}
	return bars, nil
}

func classifyBinanceError(symbol string, err error) error {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == binanceInvalidSymbol {
			return fmt.Errorf("%w: binance: invalid symbol %s", model.ErrDataUnavailable, symbol)
		}
		return fmt.Errorf("%w: binance api error %d: %s", model.ErrRetrieval, apiErr.Code, apiErr.Message)
	}
	return fmt.Errorf("%w: binance klines %s: %v", model.ErrRetrieval, symbol, err)
}

func translateKline(k *binance.Kline) (model.OHLCV, error) {
	vals := [5]float64{}
	for i, s := range []string{k.Open, k.High, k.Low, k.Close, k.Volume} {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.OHLCV{}, fmt.Errorf("%w: binance kline value %q: %v", model.ErrParse, s, err)
		}
		vals[i] = v
	}
	return model.OHLCV{
		Time:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
