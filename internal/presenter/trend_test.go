package presenter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoDashboard/internal/model"
)

func intradayBars(open float64, closes ...float64) []model.OHLCV {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		o := c
		if i == 0 {
			o = open
		}
		bars[i] = model.OHLCV{Time: start.Add(time.Duration(i) * time.Minute), Open: o, High: c, Low: c, Close: c}
	}
	return bars
}

func TestDailyTrend_PartitionsAroundOpen(t *testing.T) {
	bars := intradayBars(100, 100, 101, 99, 100, 102.5, 98)
	chart := DailyTrend("Bitcoin", model.Selection{Token: "BTC", Fiat: "USD"}, bars)

	require.NotNil(t, chart.Reference)
	assert.Equal(t, 100.0, chart.Reference.Y)
	assert.Equal(t, "Bitcoin Daily Trends in Comparison to Open Price", chart.Layout.Title)
	assert.Equal(t, "plotly_dark", chart.Layout.Template)
	assert.Equal(t, "green", chart.Up.Color)
	assert.Equal(t, "red", chart.Down.Color)

	for i, b := range bars {
		up, down := chart.Up.Y[i], chart.Down.Y[i]
		assert.NotEqual(t, up.Valid, down.Valid, "bar %d must be in exactly one trace", i)
		if b.Close > 100 {
			assert.True(t, up.Valid, "bar %d above open", i)
			assert.Equal(t, b.Close, up.Float64)
		} else {
			assert.True(t, down.Valid, "bar %d at or below open", i)
			assert.Equal(t, b.Close, down.Float64)
		}
	}

	union := append(chart.Up.Defined(), chart.Down.Defined()...)
	assert.ElementsMatch(t, timeAxis(bars), union)
	assert.Len(t, chart.Up.Defined(), 2)
	assert.Len(t, chart.Down.Defined(), 4)
}

func TestDailyTrend_Empty(t *testing.T) {
	var chart *TrendChart
	require.NotPanics(t, func() {
		chart = DailyTrend("Bitcoin", model.Selection{Token: "BTC", Fiat: "USD"}, nil)
	})
	assert.Nil(t, chart.Reference)
	assert.Empty(t, chart.Up.Y)
	assert.Empty(t, chart.Down.Y)
	assert.Empty(t, chart.Up.Defined())
	assert.Empty(t, chart.Down.Defined())
}

func TestDailyTrend_DoesNotMutateInput(t *testing.T) {
	bars := intradayBars(50, 51, 49)
	before := append([]model.OHLCV(nil), bars...)
	DailyTrend("X", model.Selection{Token: "X", Fiat: "USD"}, bars)
	assert.Equal(t, before, bars)
}
