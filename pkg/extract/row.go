package extract

import (
	"strings"

	"github.com/mydressline-hue/stockpile/pkg/classify"
	"github.com/mydressline-hue/stockpile/pkg/inventory"
)

// Semantic field names a row-format column mapping may assign.
const (
	FieldStyle     = "style"
	FieldColor     = "color"
	FieldSize      = "size"
	FieldStock     = "stock"
	FieldPrice     = "price"
	FieldCost      = "cost"
	FieldSalePrice = "salePrice"
	FieldShipDate  = "shipDate"
	FieldSKU       = "sku"
)

// Row extracts one variant per data row, locating fields through the
// classifier's header-name to field mapping.
type Row struct {
	mapping   map[string]string
	headerRow int
	dataStart int
}

// NewRow builds a row-format extractor from a column mapping and the
// classified header/data row indices.
func NewRow(mapping map[string]string, headerRow, dataStart int) *Row {
	return &Row{mapping: mapping, headerRow: headerRow, dataStart: dataStart}
}

func (e *Row) Format() classify.Format         { return classify.FormatRow }
func (e *Row) Supports(f classify.Format) bool { return f == classify.FormatRow }

// Extract walks the data rows and emits one variant each. Rows with no
// usable style identifier are dropped; unparseable stock, price, or date
// cells degrade to safe defaults rather than failing the file.
func (e *Row) Extract(rows [][]string) ([]*inventory.Variant, error) {
	if e.headerRow >= len(rows) {
		return nil, nil
	}
	header := rows[e.headerRow]
	fields := e.resolveColumns(header)

	var variants []*inventory.Variant
	for _, row := range rows[min(e.dataStart, len(rows)):] {
		if isBlankRow(row) {
			continue
		}

		style := cell(row, fields[FieldStyle])
		if style == "" {
			continue
		}

		v := &inventory.Variant{
			Style:     style,
			Color:     cell(row, fields[FieldColor]),
			Size:      cell(row, fields[FieldSize]),
			Stock:     inventory.ParseStock(cell(row, fields[FieldStock])),
			Price:     inventory.ParsePrice(cell(row, fields[FieldPrice])),
			Cost:      inventory.ParsePrice(cell(row, fields[FieldCost])),
			SalePrice: inventory.ParsePrice(cell(row, fields[FieldSalePrice])),
			ShipDate:  inventory.ParseShipDate(cell(row, fields[FieldShipDate])),
			SKU:       cell(row, fields[FieldSKU]),
			RawData:   rawData(header, row),
		}
		if v.SKU == "" {
			if sku, err := inventory.DeriveSKU(v.Style, v.Color, v.Size); err == nil {
				v.SKU = sku
			}
		}

		variants = append(variants, v)
	}
	return variants, nil
}

// resolveColumns maps semantic fields to column indices by matching the
// mapping's header names against the actual header row. Unmatched fields
// resolve to -1, which cell treats as absent.
func (e *Row) resolveColumns(header []string) map[string]int {
	fields := map[string]int{
		FieldStyle:     -1,
		FieldColor:     -1,
		FieldSize:      -1,
		FieldStock:     -1,
		FieldPrice:     -1,
		FieldCost:      -1,
		FieldSalePrice: -1,
		FieldShipDate:  -1,
		FieldSKU:       -1,
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		for mapped, field := range e.mapping {
			if strings.EqualFold(name, strings.TrimSpace(mapped)) {
				fields[field] = i
			}
		}
	}
	return fields
}

var _ Extractor = (*Row)(nil)
