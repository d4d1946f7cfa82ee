// Package inventory defines the canonical variant record produced by the
// normalization pipeline, plus the key and SKU derivation rules shared by
// extraction, expansion, and reconciliation.
//
// A variant is one style+color+size combination with its own stock and
// pricing. The case-insensitive (style, color, size) triple is the natural
// key: after reconciliation exactly one variant exists per key within a
// batch. Variants live for a single import run; durability belongs to the
// caller.
package inventory

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mydressline-hue/stockpile/pkg/errors"
)

// Variant is the canonical unit of normalized inventory.
type Variant struct {
	Style string // vendor item identifier
	Color string
	Size  string // raw size label; "0" and "00" are real sizes
	Stock int    // never negative

	Price     *decimal.Decimal // optional
	Cost      *decimal.Decimal // optional
	SalePrice *decimal.Decimal // optional
	ShipDate  *time.Time       // optional

	SKU string // derived from the key, see DeriveSKU

	Discontinued      bool
	HasFutureStock    bool
	PreserveZeroStock bool
	IsExpandedSize    bool
	StockZeroed       bool // set when future-stock reconciliation forced stock to 0

	// RawData preserves the original column values for traceability.
	RawData map[string]string
}

// Key is the case-insensitive natural key of a variant within a batch.
type Key string

// KeyOf builds the natural key for a (style, color, size) triple.
func KeyOf(style, color, size string) Key {
	return Key(strings.ToLower(style) + "|" + strings.ToLower(color) + "|" + strings.ToLower(size))
}

// Key returns the variant's natural key.
func (v *Variant) Key() Key {
	return KeyOf(v.Style, v.Color, v.Size)
}

// SetStock assigns stock, clamping negatives to zero.
func (v *Variant) SetStock(n int) {
	if n < 0 {
		n = 0
	}
	v.Stock = n
}

// skuSeparator joins the key components of a derived SKU.
const skuSeparator = "-"

// skuCollapseRE matches runs of whitespace and slashes inside a component.
var skuCollapseRE = regexp.MustCompile(`[\s/]+`)

// DeriveSKU builds the deterministic SKU for a (style, color, size) triple:
// components joined by a single separator, with any whitespace or slash runs
// inside each component collapsed to that same separator. Style and color
// are required; size may legitimately be empty for one-size goods.
func DeriveSKU(style, color, size string) (string, error) {
	style = strings.TrimSpace(style)
	color = strings.TrimSpace(color)
	size = strings.TrimSpace(size)

	if style == "" {
		return "", errors.New(errors.ErrCodeInvalidSKU, "cannot derive sku: missing style")
	}
	if color == "" {
		return "", errors.New(errors.ErrCodeInvalidSKU, "cannot derive sku: missing color for style %s", style)
	}

	parts := []string{collapse(style), collapse(color)}
	if size != "" {
		parts = append(parts, collapse(size))
	}
	return strings.Join(parts, skuSeparator), nil
}

func collapse(s string) string {
	return skuCollapseRE.ReplaceAllString(s, skuSeparator)
}

// NormalizeStyle trims a raw style cell and collapses internal whitespace
// runs to single spaces. This is the normalization applied before a style is
// compared against the discontinued registry or used as a grouping key.
func NormalizeStyle(style string) string {
	return strings.Join(strings.Fields(style), " ")
}

// styleHeaderPrefixRE strips leading "STYLE" / "ITEM" tokens and an optional
// leading "#" from a style header cell.
var styleHeaderPrefixRE = regexp.MustCompile(`(?i)^\s*(?:style|item)?[\s#:]*`)

// CleanStyleHeader extracts the style value from a grouped-pivot header cell,
// e.g. "STYLE 100" and "#100" both become "100".
func CleanStyleHeader(cell string) string {
	return NormalizeStyle(styleHeaderPrefixRE.ReplaceAllString(cell, ""))
}
