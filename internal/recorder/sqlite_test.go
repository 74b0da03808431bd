package recorder

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteRecorder(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	rec, err := NewSQLiteRecorder(dbPath)
	require.NoError(t, err)
	defer rec.Close()

	require.NoError(t, rec.RecordScrape(&ScrapeRun{Source: "scraper", Rows: 25, Skipped: 1, Duration: 850 * time.Millisecond}))
	require.NoError(t, rec.RecordScrape(&ScrapeRun{Source: "scraper", Err: errors.New("status 503")}))
	require.NoError(t, rec.RecordFetch(&FetchEvent{Provider: "yahoo", Pair: "BTC-USD", Range: "daily", Bars: 1826}))

	total, failed, err := rec.CountScrapes()
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, failed)

	var pair string
	var bars int
	require.NoError(t, rec.db.QueryRow(`SELECT pair, bars FROM fetch_events`).Scan(&pair, &bars))
	assert.Equal(t, "BTC-USD", pair)
	assert.Equal(t, 1826, bars)
}

func TestSQLiteRecorder_ReopenKeepsSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	rec, err := NewSQLiteRecorder(dbPath)
	require.NoError(t, err)
	require.NoError(t, rec.RecordScrape(&ScrapeRun{Source: "static", Rows: 3}))
	require.NoError(t, rec.Close())

	rec, err = NewSQLiteRecorder(dbPath)
	require.NoError(t, err)
	defer rec.Close()
	total, _, err := rec.CountScrapes()
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoopRecorder()
	assert.NoError(t, rec.RecordScrape(&ScrapeRun{}))
	assert.NoError(t, rec.RecordFetch(&FetchEvent{}))
	assert.NoError(t, rec.Close())
}
