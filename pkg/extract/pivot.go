package extract

import (
	"strings"

	"github.com/mydressline-hue/stockpile/pkg/classify"
	"github.com/mydressline-hue/stockpile/pkg/inventory"
)

// Pivot extracts a column-pivot layout: each data row is one style+color
// with one stock value per size column, yielding one variant per
// (row, size column) pair.
type Pivot struct {
	cfg       *classify.PivotConfig
	headerRow int
	dataStart int
}

// NewPivot builds a pivot-format extractor from the classifier's column
// names and row indices.
func NewPivot(cfg *classify.PivotConfig, headerRow, dataStart int) *Pivot {
	return &Pivot{cfg: cfg, headerRow: headerRow, dataStart: dataStart}
}

func (e *Pivot) Format() classify.Format         { return classify.FormatPivot }
func (e *Pivot) Supports(f classify.Format) bool { return f == classify.FormatPivot }

// sizeColumn pairs a size label with the column it was found in.
type sizeColumn struct {
	label string
	index int
}

func (e *Pivot) Extract(rows [][]string) ([]*inventory.Variant, error) {
	if e.headerRow >= len(rows) {
		return nil, nil
	}
	header := rows[e.headerRow]

	styleCol := findColumn(header, e.cfg.StyleColumn)
	colorCol := findColumn(header, e.cfg.ColorColumn)

	// The size column header is the size label itself; "0" and "00"
	// headers are real sizes.
	var sizeCols []sizeColumn
	for _, name := range e.cfg.SizeColumns {
		if idx := findColumn(header, name); idx >= 0 {
			sizeCols = append(sizeCols, sizeColumn{label: strings.TrimSpace(name), index: idx})
		}
	}

	var variants []*inventory.Variant
	for _, row := range rows[min(e.dataStart, len(rows)):] {
		if isBlankRow(row) {
			continue
		}

		style := cell(row, styleCol)
		if style == "" {
			continue
		}
		color := cell(row, colorCol)

		for _, sc := range sizeCols {
			v := &inventory.Variant{
				Style:   style,
				Color:   color,
				Size:    sc.label,
				Stock:   inventory.ParseStock(cell(row, sc.index)),
				RawData: rawData(header, row),
			}
			if sku, err := inventory.DeriveSKU(style, color, sc.label); err == nil {
				v.SKU = sku
			}
			variants = append(variants, v)
		}
	}
	return variants, nil
}

// findColumn locates a header by name, case-insensitively. Returns -1 when
// the classified column name does not appear in the actual header row.
func findColumn(header []string, name string) int {
	name = strings.TrimSpace(name)
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

var _ Extractor = (*Pivot)(nil)
