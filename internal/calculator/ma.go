package calculator

import (
	"errors"

	"github.com/guregu/null/v5"
	"github.com/markcheno/go-talib"

	"CryptoDashboard/internal/model"
)

// DefaultWindows are the moving-average lengths drawn on the candlestick chart.
var DefaultWindows = []int{20, 50, 100}

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// RollingSMA returns the trailing simple moving average at every position.
// Position i is defined iff i >= window-1. A non-positive window, or one longer
// than the input, yields an all-null result.
func RollingSMA(closes []float64, window int) []null.Float {
	out := make([]null.Float, len(closes))
	if window <= 0 || len(closes) < window {
		return out
	}
	// talib zero-fills the lookback; those positions stay null.
	sma := talib.Sma(closes, window)
	for i := window - 1; i < len(sma); i++ {
		out[i] = null.FloatFrom(sma[i])
	}
	return out
}

// MovingAverages computes one series per window over the bars' close prices.
func MovingAverages(bars []model.OHLCV, windows []int) []model.MovingAverageSeries {
	closes := ExtractCloses(bars)
	out := make([]model.MovingAverageSeries, 0, len(windows))
	for _, w := range windows {
		out = append(out, model.MovingAverageSeries{Window: w, Values: RollingSMA(closes, w)})
	}
	return out
}

// ExtractCloses returns the close column of bars.
func ExtractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
