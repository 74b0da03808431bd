package listing

import (
	"fmt"
	"log"
	"strings"

	"CryptoDashboard/internal/model"
)

// DefaultQuote is the currency suffix carried by scraped symbols and names.
const DefaultQuote = "USD"

// NormalizeSymbol strips every trailing "-<quote>" from s. Absent suffix is a no-op.
func NormalizeSymbol(s, quote string) string {
	return trimAll(strings.TrimSpace(s), "-"+quote)
}

// NormalizeName strips every trailing " <quote>" from s. Absent suffix is a no-op.
func NormalizeName(s, quote string) string {
	return trimAll(strings.TrimSpace(s), " "+quote)
}

func trimAll(s, suffix string) string {
	for s != suffix && strings.HasSuffix(s, suffix) {
		s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
	}
	return s
}

// Normalize returns a cleaned copy of table and the symbol to name lookup.
// The input table is not modified. Rows whose symbol collides with an
// earlier row after cleaning are dropped and counted as skipped.
func Normalize(table *model.ListingTable, quote string) (*model.ListingTable, model.SymbolNameMap, error) {
	if quote == "" {
		quote = DefaultQuote
	}
	out := &model.ListingTable{
		Rows:      make([]model.ListingRow, 0, len(table.Rows)),
		Skipped:   table.Skipped,
		FetchedAt: table.FetchedAt,
	}
	seen := make(map[string]bool, len(table.Rows))
	for _, r := range table.Rows {
		r.Symbol = NormalizeSymbol(r.Symbol, quote)
		r.Name = NormalizeName(r.Name, quote)
		if seen[r.Symbol] {
			log.Printf("[WARN] listings: duplicate symbol %q after normalization, dropping", r.Symbol)
			out.Skipped++
			continue
		}
		seen[r.Symbol] = true
		out.Rows = append(out.Rows, r)
	}

	names, err := BuildSymbolNameMap(out.Symbols(), out.Names())
	if err != nil {
		return nil, nil, err
	}
	return out, names, nil
}

// BuildSymbolNameMap pairs the two columns positionally.
func BuildSymbolNameMap(symbols, names []string) (model.SymbolNameMap, error) {
	if len(symbols) != len(names) {
		return nil, fmt.Errorf("%w: %d symbols vs %d names", model.ErrDataIntegrity, len(symbols), len(names))
	}
	m := make(model.SymbolNameMap, len(symbols))
	for i, s := range symbols {
		if _, dup := m[s]; dup {
			return nil, fmt.Errorf("%w: duplicate symbol %q", model.ErrDataIntegrity, s)
		}
		m[s] = names[i]
	}
	return m, nil
}
