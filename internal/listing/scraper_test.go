package listing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoDashboard/internal/model"
)

const listingsHTML = `<html><body>
<div id="fin-scr-res-table">
  <table>
    <thead><tr><th>Symbol</th><th>Name</th></tr></thead>
    <tbody>
      <tr>
        <td aria-label="Symbol"><a href="/quote/BTC-USD">BTC-USD</a></td>
        <td aria-label="Name">Bitcoin USD</td>
        <td aria-label="Price (Intraday)"><span>67,012.50</span></td>
        <td aria-label="Change">+1,200.00</td>
        <td aria-label="% Change">+1.85%</td>
        <td aria-label="Market Cap">1.32T</td>
      </tr>
      <tr>
        <td aria-label="Symbol">ETH-USD</td>
        <td aria-label="Name">Ethereum USD</td>
        <td aria-label="Price (Intraday)">3,101.22</td>
        <td aria-label="% Change">-3.20%</td>
        <td aria-label="Market Cap">372.6B</td>
      </tr>
      <tr>
        <td aria-label="Symbol">USDT-USD</td>
        <td aria-label="Name">Tether USDt USD</td>
        <td aria-label="Price (Intraday)">1.0001</td>
        <td aria-label="% Change">0.00%</td>
        <td aria-label="Market Cap">112.4B</td>
      </tr>
      <tr>
        <td aria-label="Symbol">BROKEN-USD</td>
        <td aria-label="Name">Broken USD</td>
        <td aria-label="% Change">+2.00%</td>
      </tr>
      <tr>
        <td aria-label="Symbol">BTC-USD</td>
        <td aria-label="Name">Bitcoin USD</td>
        <td aria-label="Price (Intraday)">67,012.50</td>
        <td aria-label="% Change">+1.85%</td>
        <td aria-label="Market Cap">1.32T</td>
      </tr>
      <tr>
        <td aria-label="Symbol">NAN-USD</td>
        <td aria-label="Name">NaN USD</td>
        <td aria-label="Price (Intraday)">0.1</td>
        <td aria-label="% Change">n/a</td>
        <td aria-label="Market Cap">1M</td>
      </tr>
    </tbody>
  </table>
</div>
</body></html>`

func parse(t *testing.T, html string) (*model.ListingTable, error) {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return ParseDocument(doc, DefaultContainer)
}

func TestParseDocument_ExtractsRowsInPageOrder(t *testing.T) {
	table, err := parse(t, listingsHTML)
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, model.ListingRow{
		Symbol: "BTC-USD", Name: "Bitcoin USD", Price: "67,012.50", PercentChange: 1.85, MarketCap: "1.32T",
	}, table.Rows[0])
	assert.Equal(t, "ETH-USD", table.Rows[1].Symbol)
	assert.InDelta(t, -3.2, table.Rows[1].PercentChange, 1e-9)
	assert.Equal(t, "USDT-USD", table.Rows[2].Symbol)

	// missing fields, duplicate BTC, unparseable percent
	assert.Equal(t, 3, table.Skipped)
}

func TestParseDocument_MultipleContainers(t *testing.T) {
	html := `<div id="fin-scr-res-table"><table><tr>
<td aria-label="Symbol">A-USD</td><td aria-label="Name">A USD</td><td aria-label="Price (Intraday)">1</td><td aria-label="% Change">1%</td><td aria-label="Market Cap">1B</td>
</tr></table></div><div id="fin-scr-res-table"><table><tr>
<td aria-label="Symbol">B-USD</td><td aria-label="Name">B USD</td><td aria-label="Price (Intraday)">2</td><td aria-label="% Change">-1%</td><td aria-label="Market Cap">2B</td>
</tr></table></div>`
	table, err := parse(t, html)
	require.NoError(t, err)
	assert.Equal(t, []string{"A-USD", "B-USD"}, table.Symbols())
}

func TestParseDocument_SkipsNonFinitePercent(t *testing.T) {
	html := `<div id="fin-scr-res-table"><table><tr>
<td aria-label="Symbol">A-USD</td><td aria-label="Name">A USD</td><td aria-label="Price (Intraday)">1</td><td aria-label="% Change">NaN%</td><td aria-label="Market Cap">1B</td>
</tr><tr>
<td aria-label="Symbol">B-USD</td><td aria-label="Name">B USD</td><td aria-label="Price (Intraday)">2</td><td aria-label="% Change">+Inf%</td><td aria-label="Market Cap">2B</td>
</tr><tr>
<td aria-label="Symbol">C-USD</td><td aria-label="Name">C USD</td><td aria-label="Price (Intraday)">3</td><td aria-label="% Change">-0.40%</td><td aria-label="Market Cap">3B</td>
</tr></table></div>`
	table, err := parse(t, html)
	require.NoError(t, err)
	assert.Equal(t, []string{"C-USD"}, table.Symbols())
	assert.Equal(t, 2, table.Skipped)
}

func TestParseDocument_Errors(t *testing.T) {
	_, err := parse(t, `<html><body><p>maintenance</p></body></html>`)
	assert.ErrorIs(t, err, model.ErrParse)

	_, err = parse(t, `<div id="fin-scr-res-table"><table><tr><td aria-label="Symbol">X-USD</td></tr></table></div>`)
	assert.ErrorIs(t, err, model.ErrParse)
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"+1.25%", 1.25},
		{"-3.20%", -3.2},
		{"0.00%", 0},
		{"1,204.5%", 1204.5},
		{" -0.5 % ", -0.5},
	}
	for _, tt := range tests {
		got, err := ParsePercent(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}
	for _, bad := range []string{"--", "NaN%", "Inf%", "-Inf%", "+Infinity%"} {
		_, err := ParsePercent(bad)
		assert.ErrorIs(t, err, model.ErrParse, bad)
	}
}

func TestScraper_FetchListings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(listingsHTML))
	}))
	defer srv.Close()

	s := NewScraper(srv.URL, "", 5*time.Second, 0, "")
	table, err := s.FetchListings(context.Background())
	require.NoError(t, err)
	assert.Len(t, table.Rows, 3)
}

func TestScraper_RetriesServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(listingsHTML))
	}))
	defer srv.Close()

	s := NewScraper(srv.URL, "", 5*time.Second, 2, "")
	s.Retry.Min, s.Retry.Max = time.Millisecond, 2*time.Millisecond
	table, err := s.FetchListings(context.Background())
	require.NoError(t, err)
	assert.Len(t, table.Rows, 3)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestScraper_NonRetryableParseError(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	s := NewScraper(srv.URL, "", 5*time.Second, 3, "")
	_, err := s.FetchListings(context.Background())
	assert.ErrorIs(t, err, model.ErrParse)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestScraper_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewScraper(srv.URL, "", 5*time.Second, 0, "")
	_, err := s.FetchListings(context.Background())
	assert.ErrorIs(t, err, model.ErrRetrieval)
}
