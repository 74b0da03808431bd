package presenter

import (
	"strconv"

	"CryptoDashboard/internal/model"
)

// Column is one column of the ranked table with per-cell fill colours.
type Column struct {
	Header string   `json:"header"`
	Width  int      `json:"width"`
	Align  string   `json:"align"`
	Values []string `json:"values"`
	Fill   []string `json:"fill"`
}

// TableView is the colour-coded listings table.
type TableView struct {
	Columns    []Column `json:"columns"`
	HeaderFill string   `json:"header_fill"`
	FontColor  string   `json:"font_color"`
	FontSize   int      `json:"font_size"`
	RowHeight  int      `json:"row_height"`
	LineColor  string   `json:"line_color"`
}

const changeHeader = "% Change"

// RankedTable renders rows in page order. Only the % Change column is
// coloured, by each row's ColorClass.
func RankedTable(table *model.ListingTable) *TableView {
	n := len(table.Rows)
	cols := []Column{
		{Header: "Name", Width: 20, Align: "left"},
		{Header: "Token", Width: 15, Align: "left"},
		{Header: "Price", Width: 15, Align: "right"},
		{Header: changeHeader, Width: 15, Align: "right"},
		{Header: "Market Cap", Width: 15, Align: "right"},
	}
	for i := range cols {
		cols[i].Values = make([]string, n)
		cols[i].Fill = make([]string, n)
	}
	for r, row := range table.Rows {
		cells := [...]string{
			row.Name,
			row.Symbol,
			row.Price,
			strconv.FormatFloat(row.PercentChange, 'f', 2, 64),
			row.MarketCap,
		}
		for c := range cols {
			cols[c].Values[r] = cells[c]
			cols[c].Fill[r] = ColorNeutral
		}
		cols[3].Fill[r] = ClassColor(row.Class())
	}
	return &TableView{
		Columns:    cols,
		HeaderFill: ColorHeader,
		FontColor:  ColorText,
		FontSize:   20,
		RowHeight:  30,
		LineColor:  ColorNeutral,
	}
}
