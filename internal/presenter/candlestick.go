package presenter

import (
	"CryptoDashboard/internal/model"
)

// CandlestickChart is the daily OHLC chart with moving-average overlays.
type CandlestickChart struct {
	Layout   Layout       `json:"layout"`
	Candles  OHLCSeries   `json:"candles"`
	Overlays []LineSeries `json:"overlays"`
}

// Candlestick builds the daily chart. averages must be aligned to daily.
func Candlestick(displayName string, sel model.Selection, daily []model.OHLCV, averages []model.MovingAverageSeries) *CandlestickChart {
	x := timeAxis(daily)
	chart := &CandlestickChart{
		Layout: Layout{
			Title:      displayName + " Price Fluctuation with Moving Averages",
			YAxisTitle: priceAxisTitle(sel.Fiat),
		},
		Candles:  newOHLCSeries(sel.Token, daily),
		Overlays: make([]LineSeries, 0, len(averages)),
	}
	for _, ma := range averages {
		chart.Overlays = append(chart.Overlays, LineSeries{
			Name:  averageName(ma.Window),
			Color: AverageColor(ma.Window),
			Width: 1,
			X:     x,
			Y:     ma.Values,
		})
	}
	return chart
}
