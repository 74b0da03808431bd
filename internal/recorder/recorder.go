package recorder

import "time"

// ScrapeRun records one listings refresh.
type ScrapeRun struct {
	Source   string
	Rows     int
	Skipped  int
	Duration time.Duration
	Err      error
}

// FetchEvent records one time-series fetch for a selection.
type FetchEvent struct {
	Provider string
	Pair     string
	Range    string
	Bars     int
	Duration time.Duration
	Err      error
}

// Recorder journals pipeline runs for troubleshooting. It never stores prices.
type Recorder interface {
	RecordScrape(run *ScrapeRun) error
	RecordFetch(evt *FetchEvent) error
	Close() error
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
