package presenter

import (
	"github.com/guregu/null/v5"

	"CryptoDashboard/internal/model"
)

// TrendChart is the intraday close line split around the day's open price.
type TrendChart struct {
	Layout    Layout     `json:"layout"`
	Up        LineSeries `json:"up"`
	Down      LineSeries `json:"down"`
	Reference *HLine     `json:"reference,omitempty"`
}

// DailyTrend splits intraday closes against the first bar's open. Both traces
// share the full time axis; every bar has a value in exactly one of them:
// Up where close > open, Down where close <= open. An empty series gives two
// empty traces and no reference line.
func DailyTrend(displayName string, sel model.Selection, intraday []model.OHLCV) *TrendChart {
	x := timeAxis(intraday)
	chart := &TrendChart{
		Layout: Layout{
			Title:      displayName + " Daily Trends in Comparison to Open Price",
			YAxisTitle: priceAxisTitle(sel.Fiat),
			Template:   "plotly_dark",
		},
		Up:   LineSeries{Name: "Up trend", Color: ColorUp, X: x, Y: make([]null.Float, len(intraday))},
		Down: LineSeries{Name: "Down trend", Color: ColorDown, X: x, Y: make([]null.Float, len(intraday))},
	}
	if len(intraday) == 0 {
		return chart
	}

	open := intraday[0].Open
	chart.Reference = &HLine{Y: open, Label: "Open"}
	for i, b := range intraday {
		if b.Close > open {
			chart.Up.Y[i] = null.FloatFrom(b.Close)
		} else {
			chart.Down.Y[i] = null.FloatFrom(b.Close)
		}
	}
	return chart
}
