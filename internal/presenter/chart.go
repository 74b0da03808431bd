// Package presenter turns pipeline data into chart specifications that a
// declarative charting front end can render directly. All functions are
// pure and never modify their inputs.
package presenter

import (
	"time"

	"github.com/guregu/null/v5"

	"CryptoDashboard/internal/model"
)

// Layout carries the options shared by every figure.
type Layout struct {
	Title       string `json:"title,omitempty"`
	YAxisTitle  string `json:"yaxis_title,omitempty"`
	Template    string `json:"template,omitempty"`
	ShowGrid    bool   `json:"show_grid"`
	RangeSlider bool   `json:"rangeslider_visible"`
}

// OHLCSeries is a candlestick trace.
type OHLCSeries struct {
	Name  string      `json:"name"`
	X     []time.Time `json:"x"`
	Open  []float64   `json:"open"`
	High  []float64   `json:"high"`
	Low   []float64   `json:"low"`
	Close []float64   `json:"close"`
}

// LineSeries is a line trace; null points leave gaps.
type LineSeries struct {
	Name  string       `json:"name"`
	Color string       `json:"color"`
	Width int          `json:"width,omitempty"`
	X     []time.Time  `json:"x"`
	Y     []null.Float `json:"y"`
}

// Defined returns the timestamps at which the trace has a value.
func (l LineSeries) Defined() []time.Time {
	var out []time.Time
	for i, y := range l.Y {
		if y.Valid {
			out = append(out, l.X[i])
		}
	}
	return out
}

// HLine is a horizontal reference line.
type HLine struct {
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

func newOHLCSeries(name string, bars []model.OHLCV) OHLCSeries {
	s := OHLCSeries{
		Name:  name,
		X:     make([]time.Time, len(bars)),
		Open:  make([]float64, len(bars)),
		High:  make([]float64, len(bars)),
		Low:   make([]float64, len(bars)),
		Close: make([]float64, len(bars)),
	}
	for i, b := range bars {
		s.X[i] = b.Time
		s.Open[i] = b.Open
		s.High[i] = b.High
		s.Low[i] = b.Low
		s.Close[i] = b.Close
	}
	return s
}

func timeAxis(bars []model.OHLCV) []time.Time {
	x := make([]time.Time, len(bars))
	for i, b := range bars {
		x[i] = b.Time
	}
	return x
}

func priceAxisTitle(fiat string) string {
	return "Price (" + fiat + ")"
}
