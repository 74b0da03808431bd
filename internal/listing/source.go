// Package listing scrapes and normalizes the cryptocurrency listings table.
package listing

import (
	"context"

	"CryptoDashboard/internal/model"
)

// Source provides the raw listings table. The scraper is one implementation;
// an official API can replace it without touching downstream code.
type Source interface {
	FetchListings(ctx context.Context) (*model.ListingTable, error)
	Name() string
}

// StaticSource serves a fixed table, for tests and offline runs.
type StaticSource struct {
	Table *model.ListingTable
	Err   error
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) FetchListings(_ context.Context) (*model.ListingTable, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	rows := make([]model.ListingRow, len(s.Table.Rows))
	copy(rows, s.Table.Rows)
	return &model.ListingTable{Rows: rows, Skipped: s.Table.Skipped, FetchedAt: s.Table.FetchedAt}, nil
}
