package model

import (
	"fmt"
	"time"

	"github.com/guregu/null/v5"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// RangeSpec describes how much history to request and at which bar size.
type RangeSpec struct {
	Name        string
	Span        time.Duration
	Granularity time.Duration
}

var (
	// DailyRange is five years of 1-day bars.
	DailyRange = RangeSpec{Name: "daily", Span: 5 * 365 * 24 * time.Hour, Granularity: 24 * time.Hour}
	// IntradayRange is the current day in 1-minute bars.
	IntradayRange = RangeSpec{Name: "intraday", Span: 24 * time.Hour, Granularity: time.Minute}
)

func (r RangeSpec) String() string { return r.Name }

// Selection is the (token, fiat) pair chosen in the shell.
type Selection struct {
	Token string `json:"token"`
	Fiat  string `json:"fiat"`
}

// Pair returns the provider ticker, e.g. "BTC-USD".
func (s Selection) Pair() string {
	return fmt.Sprintf("%s-%s", s.Token, s.Fiat)
}

// MovingAverageSeries is a trailing SMA aligned to the daily bars.
// Positions before the first full window are null.
type MovingAverageSeries struct {
	Window int          `json:"window"`
	Values []null.Float `json:"values"`
}

// Latest returns the last defined value, if any.
func (m MovingAverageSeries) Latest() null.Float {
	for i := len(m.Values) - 1; i >= 0; i-- {
		if m.Values[i].Valid {
			return m.Values[i]
		}
	}
	return null.Float{}
}
