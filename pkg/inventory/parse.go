package inventory

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// moneyStripper removes currency symbols and thousands separators before a
// numeric parse. Vendor files mix "$1,200.00", "1 200", and plain numbers.
var moneyStripper = strings.NewReplacer(
	"$", "",
	"€", "",
	"£", "",
	",", "",
	" ", "",
)

// ParseStock parses a raw stock cell into a non-negative integer.
// Floats are truncated; anything unparseable degrades to 0 rather than
// failing the row. Negative values clamp to 0.
func ParseStock(raw string) int {
	s := moneyStripper.Replace(strings.TrimSpace(raw))
	if s == "" {
		return 0
	}

	if n, err := strconv.Atoi(s); err == nil {
		return max(n, 0)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return max(int(f), 0)
	}
	return 0
}

// ParsePrice parses a raw price cell into a decimal, stripping currency
// symbols and thousands separators. Returns nil if the cell is empty or
// unparseable; per-row parse failures never abort a file.
func ParsePrice(raw string) *decimal.Decimal {
	s := moneyStripper.Replace(strings.TrimSpace(raw))
	if s == "" {
		return nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// shipDateLayouts are tried in order. Vendor spreadsheets are inconsistent;
// ISO dates and US-style slashed dates cover what we have seen.
var shipDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
	"2006/01/02",
	"Jan 2, 2006",
	"01-02-2006",
}

// ParseShipDate parses a raw ship-date cell. Returns nil if the cell is
// empty or matches no known layout; the date is simply omitted.
func ParseShipDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	for _, layout := range shipDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
