package extract

import (
	"regexp"
	"strings"

	"github.com/mydressline-hue/stockpile/pkg/classify"
	"github.com/mydressline-hue/stockpile/pkg/inventory"
)

// groupedState tracks whether the state machine has seen a style header.
type groupedState int

const (
	stateNoStyle groupedState = iota
	stateInStyle
)

// singleCellZeroShare is the share of empty-or-zero size columns required
// for the single_cell header detection method.
const singleCellZeroShare = 0.8

// GroupedPivot extracts layouts where size columns sit under style-header
// rows. A single forward pass: header rows set the current style, subsequent
// color rows emit one variant per configured size label. Data before the
// first header is orphaned and skipped.
type GroupedPivot struct {
	cfg       *classify.GroupedPivotConfig
	dataStart int

	// Compiled from cfg.StylePattern for the pattern detection method.
	// nil means the pattern was invalid and detection falls back to a
	// literal prefix test.
	styleRE *regexp.Regexp
}

// NewGroupedPivot builds a grouped-pivot extractor. An invalid style
// pattern is not an error; pattern detection degrades to a prefix test.
func NewGroupedPivot(cfg *classify.GroupedPivotConfig, dataStart int) *GroupedPivot {
	e := &GroupedPivot{cfg: cfg, dataStart: dataStart}
	if cfg.StyleDetection == classify.DetectPattern && cfg.StylePattern != "" {
		e.styleRE, _ = regexp.Compile(cfg.StylePattern)
	}
	return e
}

func (e *GroupedPivot) Format() classify.Format         { return classify.FormatPivotGrouped }
func (e *GroupedPivot) Supports(f classify.Format) bool { return f == classify.FormatPivotGrouped }

func (e *GroupedPivot) Extract(rows [][]string) ([]*inventory.Variant, error) {
	var (
		variants []*inventory.Variant
		state    = stateNoStyle
		style    string
	)

	for _, row := range rows[min(e.dataStart, len(rows)):] {
		if isBlankRow(row) || e.matchesSkipPattern(row) {
			continue
		}

		if e.isStyleHeader(row) {
			style = inventory.CleanStyleHeader(cell(row, e.cfg.StyleColumn))
			state = stateInStyle
			continue
		}
		if state == stateNoStyle {
			continue
		}

		variants = append(variants, e.emitColorRow(style, row)...)
	}
	return variants, nil
}

// emitColorRow reads one color/data row and emits a variant per size label,
// each label aligned to its column after SizeStartColumn.
func (e *GroupedPivot) emitColorRow(style string, row []string) []*inventory.Variant {
	color := cell(row, e.cfg.ColorColumn)

	var price *string
	if e.cfg.PriceColumn != nil {
		p := cell(row, *e.cfg.PriceColumn)
		price = &p
	}

	variants := make([]*inventory.Variant, 0, len(e.cfg.SizeLabels))
	for i, label := range e.cfg.SizeLabels {
		v := &inventory.Variant{
			Style:   style,
			Color:   color,
			Size:    label,
			Stock:   inventory.ParseStock(cell(row, e.cfg.SizeStartColumn+i)),
			RawData: map[string]string{"color": color, "size": label},
		}
		if price != nil {
			v.Price = inventory.ParsePrice(*price)
		}
		if sku, err := inventory.DeriveSKU(style, color, label); err == nil {
			v.SKU = sku
		}
		variants = append(variants, v)
	}
	return variants
}

// matchesSkipPattern tests the style column against the configured skip
// patterns as case-insensitive substrings ("total", "close out", ...).
func (e *GroupedPivot) matchesSkipPattern(row []string) bool {
	if len(e.cfg.SkipPatterns) == 0 {
		return false
	}
	target := strings.ToLower(cell(row, e.cfg.StyleColumn))
	for _, p := range e.cfg.SkipPatterns {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" && strings.Contains(target, p) {
			return true
		}
	}
	return false
}

// isStyleHeader applies the configured detection method to a row.
func (e *GroupedPivot) isStyleHeader(row []string) bool {
	styleCell := cell(row, e.cfg.StyleColumn)

	switch e.cfg.StyleDetection {
	case classify.DetectSingleCell:
		return styleCell != "" && e.sizeColumnsMostlyEmpty(row)

	case classify.DetectPattern:
		if e.styleRE != nil {
			return e.styleRE.MatchString(styleCell)
		}
		return strings.HasPrefix(styleCell, e.cfg.StylePattern)

	case classify.DetectColumnCount:
		filled := 0
		for _, c := range row {
			if !isEmptyOrZero(c) {
				filled++
			}
		}
		return filled <= 2
	}
	return false
}

// sizeColumnsMostlyEmpty reports whether at least 80% of the row's size
// columns are empty or zero.
func (e *GroupedPivot) sizeColumnsMostlyEmpty(row []string) bool {
	total := len(e.cfg.SizeLabels)
	if total == 0 {
		return true
	}
	empty := 0
	for i := range e.cfg.SizeLabels {
		if isEmptyOrZero(cell(row, e.cfg.SizeStartColumn+i)) {
			empty++
		}
	}
	return float64(empty) >= singleCellZeroShare*float64(total)
}

var _ Extractor = (*GroupedPivot)(nil)
