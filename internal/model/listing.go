package model

import "time"

// ListingRow is one row of the scraped cryptocurrency listings table.
type ListingRow struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         string  `json:"price"`
	PercentChange float64 `json:"percent_change"`
	MarketCap     string  `json:"market_cap"`
}

// Class returns the colour class of the row's percent change.
func (r ListingRow) Class() ColorClass {
	return ClassifyChange(r.PercentChange)
}

// ListingTable holds rows in page order.
type ListingTable struct {
	Rows      []ListingRow `json:"rows"`
	Skipped   int          `json:"skipped"`
	FetchedAt time.Time    `json:"fetched_at"`
}

// Symbols returns the symbol column.
func (t *ListingTable) Symbols() []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Symbol
	}
	return out
}

// Names returns the name column.
func (t *ListingTable) Names() []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Name
	}
	return out
}

// SymbolNameMap maps a normalized symbol to its display name.
type SymbolNameMap map[string]string

// ColorClass is the direction of a price change.
type ColorClass int

const (
	Up ColorClass = iota
	Down
)

func (c ColorClass) String() string {
	if c == Down {
		return "down"
	}
	return "up"
}

// ClassifyChange maps a percent change to a ColorClass; zero counts as up.
func ClassifyChange(pct float64) ColorClass {
	if pct < 0 {
		return Down
	}
	return Up
}
