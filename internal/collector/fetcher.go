package collector

import (
	"context"

	"CryptoDashboard/internal/model"
)

// Fetcher retrieves OHLC bars for a provider pair such as "BTC-USD".
// Implementations return bars in strictly increasing time order and wrap
// failures with the model error classes.
type Fetcher interface {
	FetchSeries(ctx context.Context, pair string, rng model.RangeSpec) ([]model.OHLCV, error)
	Name() string
}
