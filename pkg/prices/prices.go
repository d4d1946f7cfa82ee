// Package prices folds an external catalog price snapshot into a style to
// price lookup used by the variant expansion tiers.
//
// Catalog records carry a SKU and a product title but no clean style field.
// Candidate style keys are mined from both: SKU segments and title tokens
// that contain at least one digit and are not themselves size labels. On a
// key collision the highest price wins, so a style priced differently
// across colorways expands by its most conservative (largest) tier.
package prices

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mydressline-hue/stockpile/pkg/sizes"
)

// Record is one external catalog entry.
type Record struct {
	SKU          string          `json:"sku"`
	Price        decimal.Decimal `json:"price"`
	ProductTitle string          `json:"productTitle"`
}

// Lookup maps a normalized style to its catalog price.
type Lookup map[string]decimal.Decimal

// For returns the catalog price for a style, if one was folded.
func (l Lookup) For(style string) (decimal.Decimal, bool) {
	p, ok := l[normalizeKey(style)]
	return p, ok
}

// Fold builds the style to price lookup from catalog records. Empty and
// non-candidate keys are skipped; collisions keep the highest price.
func Fold(records []Record) Lookup {
	lookup := make(Lookup, len(records))
	for _, r := range records {
		for _, key := range styleCandidates(r) {
			if existing, ok := lookup[key]; !ok || r.Price.GreaterThan(existing) {
				lookup[key] = r.Price
			}
		}
	}
	return lookup
}

// styleCandidates mines possible style identifiers from one record: SKU
// segments and product-title tokens that look like style numbers.
func styleCandidates(r Record) []string {
	seen := make(map[string]bool)
	var keys []string

	add := func(token string) {
		key := normalizeKey(token)
		if key == "" || seen[key] || !isStyleToken(token) {
			return
		}
		seen[key] = true
		keys = append(keys, key)
	}

	for _, seg := range strings.Split(r.SKU, "-") {
		add(seg)
	}
	for _, tok := range strings.Fields(r.ProductTitle) {
		add(tok)
	}
	return keys
}

// isStyleToken reports whether a token can identify a style: it carries at
// least one digit and is not a recognized size label (so "16W" never
// becomes a style key).
func isStyleToken(token string) bool {
	token = strings.TrimSpace(token)
	if token == "" || sizes.IsSizeToken(token) {
		return false
	}
	for _, r := range token {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
