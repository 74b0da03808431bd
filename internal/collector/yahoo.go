package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"CryptoDashboard/internal/model"
)

// DefaultYahooBaseURL is the public chart API host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(baseURL string, timeout time.Duration, proxyURL string) *YahooFetcher {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	return &YahooFetcher{
		BaseURL: baseURL,
		Client:  newHTTPClient(timeout, proxyURL),
	}
}

func newHTTPClient(timeout time.Duration, proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the chart API. Quote entries are
// null for minutes without trades.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooParams maps a range spec onto the API's range and interval strings.
func yahooParams(rng model.RangeSpec) (string, string) {
	interval := "1d"
	switch {
	case rng.Granularity <= time.Minute:
		interval = "1m"
	case rng.Granularity <= time.Hour:
		interval = "1h"
	}
	days := int(rng.Span / (24 * time.Hour))
	switch {
	case days <= 1:
		return "1d", interval
	case days <= 5:
		return "5d", interval
	case days <= 31:
		return "1mo", interval
	case days <= 366:
		return "1y", interval
	case days <= 2*366:
		return "2y", interval
	case days <= 5*366:
		return "5y", interval
	default:
		return "max", interval
	}
}

func (f *YahooFetcher) FetchSeries(ctx context.Context, pair string, rng model.RangeSpec) ([]model.OHLCV, error) {
	rangeParam, interval := yahooParams(rng)
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(pair), interval, rangeParam)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo fetch: %v", model.ErrRetrieval, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo read body: %v", model.ErrRetrieval, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: yahoo: unknown pair %s", model.ErrDataUnavailable, pair)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: yahoo: status %d, body: %s", model.ErrRetrieval, resp.StatusCode, truncate(body, 200))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("%w: yahoo decode: %v", model.ErrParse, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: yahoo api error: %s", model.ErrDataUnavailable, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: yahoo: no data returned for %s", model.ErrDataUnavailable, pair)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c := at(quote.Close, i)
		if c == nil {
			continue // no trades in this bar
		}
		o, h, l := at(quote.Open, i), at(quote.High, i), at(quote.Low, i)
		bar := model.OHLCV{Time: time.Unix(ts, 0).UTC(), Open: *c, High: *c, Low: *c, Close: *c}
		if o != nil {
			bar.Open = *o
		}
		if h != nil {
			bar.High = *h
		}
		if l != nil {
			bar.Low = *l
		}
		if v := at(quote.Volume, i); v != nil {
			bar.Volume = *v
		}
		bars = append(bars, bar)
	}

	bars = sortUnique(bars)
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: yahoo: no bars for %s %s", model.ErrDataUnavailable, pair, rng)
	}
	return bars, nil
}

func at(vals []*float64, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
