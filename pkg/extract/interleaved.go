package extract

import (
	"regexp"

	"github.com/charmbracelet/log"

	"github.com/mydressline-hue/stockpile/pkg/classify"
	"github.com/mydressline-hue/stockpile/pkg/inventory"
)

// rowClass is the outcome of classifying one interleaved row.
type rowClass int

const (
	classNormalHeader rowClass = iota
	classMisalignedHeader
	classDataRow
	classOrphan
)

// interleavedStyleRE matches a bare style number in a header row: four to
// six digits with an optional leading "#".
var interleavedStyleRE = regexp.MustCompile(`^#?\d{4,6}$`)

// numericCellRE matches a cell that is purely a number, the signature of a
// style value that drifted into the color column.
var numericCellRE = regexp.MustCompile(`^#?\d+$`)

// InterleavedConfig locates the columns of an interleaved vendor feed.
type InterleavedConfig struct {
	StyleColumn int  `json:"styleColumn"`
	ColorColumn int  `json:"colorColumn"`
	SizeColumn  int  `json:"sizeColumn"`
	StockColumn int  `json:"stockColumn"`
	PriceColumn *int `json:"priceColumn,omitempty"`
	DataStart   int  `json:"dataStart"`
}

// Interleaved handles vendors whose style and color columns are not
// consistently aligned: style numbers appear as their own header rows and
// occasionally land in the color column. Rows are classified one at a time
// with no lookahead; variants are emitted in input order.
type Interleaved struct {
	cfg    InterleavedConfig
	logger *log.Logger
}

// NewInterleaved builds the interleaved vendor extractor.
func NewInterleaved(cfg InterleavedConfig, logger *log.Logger) *Interleaved {
	if logger == nil {
		logger = log.Default()
	}
	return &Interleaved{cfg: cfg, logger: logger}
}

// Format returns the closest classifier tag. The interleaved extractor is
// vendor-selected, not classifier-selected, so Supports always reports
// false.
func (e *Interleaved) Format() classify.Format         { return classify.FormatPivotGrouped }
func (e *Interleaved) Supports(f classify.Format) bool { return false }

func (e *Interleaved) Extract(rows [][]string) ([]*inventory.Variant, error) {
	var (
		variants []*inventory.Variant
		style    string
	)

	for i, row := range rows[min(e.cfg.DataStart, len(rows)):] {
		switch e.classifyRow(row, style != "") {
		case classNormalHeader:
			style = inventory.CleanStyleHeader(cell(row, e.cfg.StyleColumn))

		case classMisalignedHeader:
			style = inventory.CleanStyleHeader(cell(row, e.cfg.ColorColumn))

		case classDataRow:
			v := e.emitDataRow(style, row)
			if v == nil {
				e.logger.Warn("dropping interleaved row with underivable sku",
					"row", e.cfg.DataStart+i, "style", style)
				continue
			}
			variants = append(variants, v)

		case classOrphan:
			// Data before the first style header, or a header-shaped
			// row that carries no usable color. Skipped without state
			// change.
		}
	}
	return variants, nil
}

// classifyRow decides what one row is, in priority order. A row is a style
// header when the style column stands alone or looks like a bare style
// number; a misaligned header when the style number drifted into the color
// column; otherwise a data row, unless no style has been seen yet or the
// color cell is header-like.
func (e *Interleaved) classifyRow(row []string, haveStyle bool) rowClass {
	styleCell := cell(row, e.cfg.StyleColumn)
	colorCell := cell(row, e.cfg.ColorColumn)

	if (styleCell != "" && colorCell == "") || interleavedStyleRE.MatchString(styleCell) {
		return classNormalHeader
	}
	if styleCell == "" && colorCell != "" && numericCellRE.MatchString(colorCell) {
		return classMisalignedHeader
	}
	if !haveStyle {
		return classOrphan
	}
	if colorCell == "" || numericCellRE.MatchString(colorCell) {
		return classOrphan
	}
	return classDataRow
}

// emitDataRow builds the variant for a data row under the current style.
// Returns nil when the SKU cannot be derived; a malformed record is never
// emitted.
func (e *Interleaved) emitDataRow(style string, row []string) *inventory.Variant {
	color := cell(row, e.cfg.ColorColumn)
	size := cell(row, e.cfg.SizeColumn) // "0" stays a real size

	sku, err := inventory.DeriveSKU(style, color, size)
	if err != nil {
		return nil
	}

	v := &inventory.Variant{
		Style: style,
		Color: color,
		Size:  size,
		Stock: inventory.ParseStock(cell(row, e.cfg.StockColumn)),
		SKU:   sku,
		RawData: map[string]string{
			"style": style,
			"color": color,
			"size":  size,
			"stock": cell(row, e.cfg.StockColumn),
		},
	}
	if e.cfg.PriceColumn != nil {
		v.Price = inventory.ParsePrice(cell(row, *e.cfg.PriceColumn))
	}
	return v
}

var _ Extractor = (*Interleaved)(nil)
