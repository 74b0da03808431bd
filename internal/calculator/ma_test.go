package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CryptoDashboard/internal/model"
)

func barsFromCloses(closes []float64) []model.OHLCV {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c}
	}
	return bars
}

func TestCalculateSMA(t *testing.T) {
	v, err := CalculateSMA([]float64{100, 102, 101, 103, 104}, 3)
	require.NoError(t, err)
	assert.InDelta(t, 102.666667, v, 1e-6)

	_, err = CalculateSMA([]float64{1, 2}, 3)
	assert.Error(t, err)
	_, err = CalculateSMA([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestRollingSMA_DefinedFromWindowMinusOne(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 14, 15, 16}
	got := RollingSMA(closes, 3)
	require.Len(t, got, len(closes))

	for i, v := range got {
		if i < 2 {
			assert.False(t, v.Valid, "position %d should be undefined", i)
			continue
		}
		require.True(t, v.Valid, "position %d should be defined", i)
		want, err := CalculateSMA(closes[:i+1], 3)
		require.NoError(t, err)
		assert.InDelta(t, want, v.Float64, 1e-9, "position %d", i)
	}
}

func TestRollingSMA_ShortSeriesIsAllUndefined(t *testing.T) {
	closes := make([]float64, 10)
	for i := range closes {
		closes[i] = 100
	}
	got := RollingSMA(closes, 20)
	require.Len(t, got, 10)
	for i, v := range got {
		assert.False(t, v.Valid, "position %d", i)
	}
}

func TestRollingSMA_EdgeCases(t *testing.T) {
	assert.Empty(t, RollingSMA(nil, 5))
	for _, v := range RollingSMA([]float64{1, 2, 3}, 0) {
		assert.False(t, v.Valid)
	}
	exact := RollingSMA([]float64{2, 4}, 2)
	assert.False(t, exact[0].Valid)
	assert.InDelta(t, 3.0, exact[1].Float64, 1e-12)
}

func TestRollingSMA_LongSeriesStaysAccurate(t *testing.T) {
	closes := make([]float64, 1500)
	for i := range closes {
		closes[i] = 30000 + 500*math.Sin(float64(i)/7)
	}
	got := RollingSMA(closes, 100)
	for i := 99; i < len(closes); i += 97 {
		want, err := CalculateSMA(closes[:i+1], 100)
		require.NoError(t, err)
		assert.InDelta(t, want, got[i].Float64, 1e-6, "position %d", i)
	}
}

func TestMovingAverages_DefaultWindows(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	series := MovingAverages(barsFromCloses(closes), DefaultWindows)
	require.Len(t, series, 3)

	assert.Equal(t, 20, series[0].Window)
	assert.True(t, series[0].Values[19].Valid)
	assert.InDelta(t, 10.5, series[0].Values[19].Float64, 1e-9)

	assert.Equal(t, 50, series[1].Window)
	assert.False(t, series[1].Values[48].Valid)
	assert.InDelta(t, 25.5, series[1].Values[49].Float64, 1e-9)

	assert.Equal(t, 100, series[2].Window)
	for _, v := range series[2].Values {
		assert.False(t, v.Valid)
	}
}
