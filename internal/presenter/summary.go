package presenter

import (
	"github.com/guregu/null/v5"

	"CryptoDashboard/internal/calculator"
	"CryptoDashboard/internal/model"
)

// Summary is the header line shown above the charts.
type Summary struct {
	DisplayName string             `json:"display_name"`
	LastClose   null.Float         `json:"last_close"`
	Averages    map[string]float64 `json:"averages"`
}

// Summarize reports the last daily close and the latest full-window SMA per window.
func Summarize(displayName string, daily []model.OHLCV, windows []int) Summary {
	s := Summary{DisplayName: displayName, Averages: make(map[string]float64)}
	if len(daily) == 0 {
		return s
	}
	s.LastClose = null.FloatFrom(daily[len(daily)-1].Close)
	closes := calculator.ExtractCloses(daily)
	for _, w := range windows {
		if v, err := calculator.CalculateSMA(closes, w); err == nil {
			s.Averages[averageName(w)] = v
		}
	}
	return s
}
