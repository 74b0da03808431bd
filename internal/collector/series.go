package collector

import (
	"sort"

	"CryptoDashboard/internal/model"
)

// sortUnique orders bars by time and drops repeated timestamps, keeping the
// last occurrence, so the series is strictly increasing.
func sortUnique(bars []model.OHLCV) []model.OHLCV {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
