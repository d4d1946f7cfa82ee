// Package classify determines the layout of a vendor spreadsheet by calling
// an external classification service and validating its answer.
//
// The classifier performs no extraction itself: it returns one of three
// format tags (row, pivot, pivot_grouped) together with the header/data row
// indices and a layout-specific configuration that the extractors consume.
// A malformed, empty, or out-of-vocabulary response is a classification
// failure - the classifier never guesses a layout.
//
// The confidence score in the response is advisory only. No behavior in this
// package branches on its numeric value; trust decisions belong to callers.
package classify

import (
	"strings"

	"github.com/mydressline-hue/stockpile/pkg/errors"
)

// Format identifies a spreadsheet layout.
type Format string

// The closed set of layouts the engine understands.
const (
	// FormatRow: one variant per data row, fields located by column name.
	FormatRow Format = "row"
	// FormatPivot: one style+color per row, one stock value per size column.
	FormatPivot Format = "pivot"
	// FormatPivotGrouped: size columns under style-header rows.
	FormatPivotGrouped Format = "pivot_grouped"
)

// MaxSampleRows bounds how much of a file is sent to the remote service.
const MaxSampleRows = 25

// Request is the classification service request contract.
type Request struct {
	Filename   string `json:"filename"`
	TotalRows  int    `json:"totalRows"`
	SampleRows string `json:"sampleRows"` // delimited table of the first rows
}

// BuildRequest renders up to MaxSampleRows rows as a tab-delimited table and
// packages them with the filename hint.
func BuildRequest(filename string, rows [][]string) Request {
	sample := rows
	if len(sample) > MaxSampleRows {
		sample = sample[:MaxSampleRows]
	}

	lines := make([]string, len(sample))
	for i, row := range sample {
		lines[i] = strings.Join(row, "\t")
	}

	return Request{
		Filename:   filename,
		TotalRows:  len(rows),
		SampleRows: strings.Join(lines, "\n"),
	}
}

// PivotConfig locates the columns of a column-pivot layout by header name.
type PivotConfig struct {
	StyleColumn string   `json:"styleColumn"`
	ColorColumn string   `json:"colorColumn"`
	SizeColumns []string `json:"sizeColumns"`
}

// Style-detection methods for grouped-pivot layouts.
const (
	// DetectSingleCell: style column non-empty and at least 80% of the
	// size columns empty or zero.
	DetectSingleCell = "single_cell"
	// DetectPattern: a configured regular expression matches the style
	// column (literal prefix fallback on an invalid pattern).
	DetectPattern = "pattern"
	// DetectColumnCount: at most two non-empty, non-zero cells in the row.
	DetectColumnCount = "column_count"
)

// GroupedPivotConfig drives the grouped-pivot state machine. This shape is
// persisted configuration and must round-trip exactly.
type GroupedPivotConfig struct {
	StyleDetection  string   `json:"styleDetection"` // single_cell | pattern | column_count
	StylePattern    string   `json:"stylePattern,omitempty"`
	StyleColumn     int      `json:"styleColumn"`
	ColorColumn     int      `json:"colorColumn"`
	SizeStartColumn int      `json:"sizeStartColumn"`
	SizeLabels      []string `json:"sizeLabels"`
	PriceColumn     *int     `json:"priceColumn,omitempty"`
	SkipPatterns    []string `json:"skipPatterns,omitempty"`
}

// Result is the validated classification outcome.
type Result struct {
	Format         Format  `json:"formatType"`
	Confidence     float64 `json:"confidence"` // advisory only
	HeaderRowIndex int     `json:"headerRowIndex"`
	DataStartRow   int     `json:"dataStartRow"`

	// Exactly one of the following is set, matching Format.
	ColumnMapping      map[string]string   `json:"columnMapping,omitempty"`
	PivotConfig        *PivotConfig        `json:"pivotConfig,omitempty"`
	GroupedPivotConfig *GroupedPivotConfig `json:"groupedPivotConfig,omitempty"`
}

// Validate enforces the response contract: a known format tag, sane row
// indices, and exactly one layout configuration matching the tag. Any
// violation is a classification failure.
func (r *Result) Validate() error {
	switch r.Format {
	case FormatRow, FormatPivot, FormatPivotGrouped:
	default:
		return errors.New(errors.ErrCodeClassifyContract, "unknown format tag %q", r.Format)
	}

	if r.HeaderRowIndex < 0 || r.DataStartRow < 0 {
		return errors.New(errors.ErrCodeClassifyContract,
			"negative row index (header=%d, dataStart=%d)", r.HeaderRowIndex, r.DataStartRow)
	}

	configs := 0
	if len(r.ColumnMapping) > 0 {
		configs++
	}
	if r.PivotConfig != nil {
		configs++
	}
	if r.GroupedPivotConfig != nil {
		configs++
	}
	if configs != 1 {
		return errors.New(errors.ErrCodeClassifyContract,
			"expected exactly one layout config, got %d", configs)
	}

	switch r.Format {
	case FormatRow:
		if len(r.ColumnMapping) == 0 {
			return errors.New(errors.ErrCodeClassifyContract, "row format without columnMapping")
		}
	case FormatPivot:
		if r.PivotConfig == nil {
			return errors.New(errors.ErrCodeClassifyContract, "pivot format without pivotConfig")
		}
		if len(r.PivotConfig.SizeColumns) == 0 {
			return errors.New(errors.ErrCodeClassifyContract, "pivotConfig without size columns")
		}
	case FormatPivotGrouped:
		gc := r.GroupedPivotConfig
		if gc == nil {
			return errors.New(errors.ErrCodeClassifyContract, "pivot_grouped format without groupedPivotConfig")
		}
		if len(gc.SizeLabels) == 0 {
			return errors.New(errors.ErrCodeClassifyContract, "groupedPivotConfig without size labels")
		}
		switch gc.StyleDetection {
		case DetectSingleCell, DetectPattern, DetectColumnCount:
		default:
			return errors.New(errors.ErrCodeClassifyContract,
				"unknown style detection method %q", gc.StyleDetection)
		}
	}

	return nil
}

// IsClassificationError reports whether err is a classification failure
// (transport, timeout, or contract violation). Callers treat the file as
// unparsed; the failure is non-fatal to the surrounding import.
func IsClassificationError(err error) bool {
	return errors.Is(err, errors.ErrCodeClassifyFailed) ||
		errors.Is(err, errors.ErrCodeClassifyContract)
}
