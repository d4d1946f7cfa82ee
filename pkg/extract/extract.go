// Package extract turns raw spreadsheet rows into canonical inventory
// variants, driven by a validated classification result.
//
// # Architecture
//
// Each layout has its own extractor behind the Extractor interface, mirrored
// on the classifier's closed format set:
//
//   - Row: one variant per data row, fields located by column name.
//   - Pivot: one style+color per row, one stock value per size column.
//   - GroupedPivot: a forward state machine over style-header sections.
//
// A fourth, vendor-specific Interleaved extractor handles feeds whose style
// and color columns drift between rows. It is selected explicitly by the
// caller, not by the classifier.
//
// All extractors are deterministic single passes over the input: emission
// order matches input row order, and an explicit size of "0" or "00" is a
// real size, never absence.
package extract

import (
	"strconv"
	"strings"

	"github.com/mydressline-hue/stockpile/pkg/classify"
	"github.com/mydressline-hue/stockpile/pkg/errors"
	"github.com/mydressline-hue/stockpile/pkg/inventory"
)

// Extractor converts classified spreadsheet rows into variants.
type Extractor interface {
	// Extract processes all rows and returns the variants in row order.
	Extract(rows [][]string) ([]*inventory.Variant, error)
	// Supports reports whether this extractor handles the given format.
	Supports(format classify.Format) bool
	// Format returns the layout tag this extractor implements.
	Format() classify.Format
}

// ForResult builds the extractor matching a validated classification
// result. The result must carry the layout configuration for its format
// tag; Validate guarantees this for results coming from the classifier.
func ForResult(res *classify.Result) (Extractor, error) {
	switch res.Format {
	case classify.FormatRow:
		return NewRow(res.ColumnMapping, res.HeaderRowIndex, res.DataStartRow), nil
	case classify.FormatPivot:
		return NewPivot(res.PivotConfig, res.HeaderRowIndex, res.DataStartRow), nil
	case classify.FormatPivotGrouped:
		return NewGroupedPivot(res.GroupedPivotConfig, res.DataStartRow), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported,
			"no extractor for format %q", res.Format)
	}
}

// cell returns the trimmed cell at column i, or "" when the row is short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// isBlankRow reports whether every cell is empty after trimming.
func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// isEmptyOrZero reports whether a cell is blank or a literal zero quantity.
// This tests stock cells, never size labels; the size "0" is real.
func isEmptyOrZero(c string) bool {
	c = strings.TrimSpace(c)
	return c == "" || c == "0" || c == "0.0" || c == "0.00"
}

// rawData captures the original row under its header names for traceability.
// Columns beyond the header are kept under their numeric position.
func rawData(header, row []string) map[string]string {
	raw := make(map[string]string, len(row))
	for i, c := range row {
		key := ""
		if i < len(header) {
			key = strings.TrimSpace(header[i])
		}
		if key == "" {
			key = "col" + strconv.Itoa(i)
		}
		raw[key] = c
	}
	return raw
}
