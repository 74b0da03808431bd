package listing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"CryptoDashboard/internal/model"
	"CryptoDashboard/internal/retry"
)

// Cell labels used by the listings page.
const (
	LabelSymbol    = "Symbol"
	LabelName      = "Name"
	LabelPrice     = "Price (Intraday)"
	LabelChange    = "% Change"
	LabelMarketCap = "Market Cap"
)

const (
	DefaultURL       = "https://finance.yahoo.com/cryptocurrencies?offset=0&count=100"
	DefaultContainer = "div#fin-scr-res-table"
)

// Scraper implements Source by parsing the listings HTML page.
type Scraper struct {
	URL       string
	Container string
	Client    *http.Client
	Retry     retry.Policy
}

// NewScraper creates a scraper with optional proxy support.
func NewScraper(pageURL, container string, timeout time.Duration, maxRetries int, proxyURL string) *Scraper {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if pageURL == "" {
		pageURL = DefaultURL
	}
	if container == "" {
		container = DefaultContainer
	}
	p := retry.DefaultPolicy(func(err error) bool { return errors.Is(err, model.ErrRetrieval) })
	p.MaxRetries = maxRetries
	return &Scraper{
		URL:       pageURL,
		Container: container,
		Client:    &http.Client{Timeout: timeout, Transport: transport},
		Retry:     p,
	}
}

func (s *Scraper) Name() string { return "scraper" }

// FetchListings downloads and parses the listings page, retrying transient failures.
func (s *Scraper) FetchListings(ctx context.Context) (*model.ListingTable, error) {
	var table *model.ListingTable
	err := retry.Do(ctx, "scrape listings", s.Retry, func(ctx context.Context) error {
		doc, err := s.fetchDocument(ctx)
		if err != nil {
			return err
		}
		table, err = ParseDocument(doc, s.Container)
		return err
	})
	if err != nil {
		return nil, err
	}
	if table.Skipped > 0 {
		log.Printf("[WARN] listings: skipped %d malformed rows", table.Skipped)
	}
	return table, nil
}

func (s *Scraper) fetchDocument(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get listings: %v", model.ErrRetrieval, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: listings status %d", model.ErrRetrieval, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read listings html: %v", model.ErrRetrieval, err)
	}
	return doc, nil
}

// ParseDocument extracts listing rows from every container matching the selector.
// Rows lacking a field, with an unreadable % change, or repeating an earlier
// symbol are skipped and counted.
func ParseDocument(doc *goquery.Document, container string) (*model.ListingTable, error) {
	containers := doc.Find(container)
	if containers.Length() == 0 {
		return nil, fmt.Errorf("%w: container %q not found", model.ErrParse, container)
	}

	table := &model.ListingTable{FetchedAt: time.Now()}
	seen := make(map[string]bool)

	containers.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td[aria-label]")
		if cells.Length() == 0 {
			return // header or spacer row
		}
		row, ok := parseRow(tr)
		if !ok || seen[row.Symbol] {
			table.Skipped++
			return
		}
		seen[row.Symbol] = true
		table.Rows = append(table.Rows, row)
	})

	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: no listing rows found (%d skipped)", model.ErrParse, table.Skipped)
	}
	return table, nil
}

func parseRow(tr *goquery.Selection) (model.ListingRow, bool) {
	fields := make(map[string]string, 5)
	tr.Find("td[aria-label]").Each(func(_ int, td *goquery.Selection) {
		label, _ := td.Attr("aria-label")
		if _, dup := fields[label]; !dup {
			fields[label] = strings.TrimSpace(td.Text())
		}
	})
	for _, l := range []string{LabelSymbol, LabelName, LabelPrice, LabelChange, LabelMarketCap} {
		if fields[l] == "" {
			return model.ListingRow{}, false
		}
	}
	pct, err := ParsePercent(fields[LabelChange])
	if err != nil {
		return model.ListingRow{}, false
	}
	return model.ListingRow{
		Symbol:        fields[LabelSymbol],
		Name:          fields[LabelName],
		Price:         fields[LabelPrice],
		PercentChange: pct,
		MarketCap:     fields[LabelMarketCap],
	}, true
}

// ParsePercent reads values such as "+1.25%", "-3.20%" or "1,204.5%".
func ParsePercent(s string) (float64, error) {
	s = strings.NewReplacer("%", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: percent change %q", model.ErrParse, s)
	}
	return v, nil
}
