package classify

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBuildRequest(t *testing.T) {
	rows := [][]string{
		{"Item", "Color", "Qty"},
		{"1001", "Red", "3"},
	}

	req := BuildRequest("vendor.csv", rows)

	if req.Filename != "vendor.csv" {
		t.Errorf("Filename = %q", req.Filename)
	}
	if req.TotalRows != 2 {
		t.Errorf("TotalRows = %d, want 2", req.TotalRows)
	}
	want := "Item\tColor\tQty\n1001\tRed\t3"
	if req.SampleRows != want {
		t.Errorf("SampleRows = %q, want %q", req.SampleRows, want)
	}
}

func TestBuildRequest_CapsSampleRows(t *testing.T) {
	rows := make([][]string, 100)
	for i := range rows {
		rows[i] = []string{"x"}
	}

	req := BuildRequest("big.csv", rows)

	if req.TotalRows != 100 {
		t.Errorf("TotalRows = %d, want 100", req.TotalRows)
	}
	if got := len(strings.Split(req.SampleRows, "\n")); got != MaxSampleRows {
		t.Errorf("sample has %d rows, want %d", got, MaxSampleRows)
	}
}

func TestResult_Validate(t *testing.T) {
	pivotCfg := &PivotConfig{StyleColumn: "Item", ColorColumn: "Color", SizeColumns: []string{"S", "M"}}
	groupedCfg := &GroupedPivotConfig{
		StyleDetection: DetectSingleCell,
		SizeLabels:     []string{"00", "0", "2"},
	}

	tests := []struct {
		name    string
		result  Result
		wantErr bool
	}{
		{
			name:   "valid row",
			result: Result{Format: FormatRow, ColumnMapping: map[string]string{"Item": "style"}},
		},
		{
			name:   "valid pivot",
			result: Result{Format: FormatPivot, PivotConfig: pivotCfg},
		},
		{
			name:   "valid grouped pivot",
			result: Result{Format: FormatPivotGrouped, GroupedPivotConfig: groupedCfg},
		},
		{
			name:    "unknown format tag",
			result:  Result{Format: "matrix", ColumnMapping: map[string]string{"Item": "style"}},
			wantErr: true,
		},
		{
			name:    "empty response",
			result:  Result{},
			wantErr: true,
		},
		{
			name:    "no config",
			result:  Result{Format: FormatRow},
			wantErr: true,
		},
		{
			name: "two configs",
			result: Result{
				Format:        FormatRow,
				ColumnMapping: map[string]string{"Item": "style"},
				PivotConfig:   pivotCfg,
			},
			wantErr: true,
		},
		{
			name:    "config mismatches format",
			result:  Result{Format: FormatRow, PivotConfig: pivotCfg},
			wantErr: true,
		},
		{
			name:    "negative header index",
			result:  Result{Format: FormatRow, HeaderRowIndex: -1, ColumnMapping: map[string]string{"Item": "style"}},
			wantErr: true,
		},
		{
			name: "pivot without size columns",
			result: Result{
				Format:      FormatPivot,
				PivotConfig: &PivotConfig{StyleColumn: "Item", ColorColumn: "Color"},
			},
			wantErr: true,
		},
		{
			name: "grouped pivot with unknown detection method",
			result: Result{
				Format: FormatPivotGrouped,
				GroupedPivotConfig: &GroupedPivotConfig{
					StyleDetection: "magic",
					SizeLabels:     []string{"2"},
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.result.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsClassificationError(err) {
				t.Errorf("Validate() error should be a classification error, got %v", err)
			}
		})
	}
}

func TestGroupedPivotConfig_JSONRoundTrip(t *testing.T) {
	src := `{"styleDetection":"pattern","stylePattern":"^\\d{4}","styleColumn":0,"colorColumn":0,"sizeStartColumn":1,"sizeLabels":["00","0","2"],"priceColumn":9,"skipPatterns":["total"]}`

	var cfg GroupedPivotConfig
	if err := json.Unmarshal([]byte(src), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg.PriceColumn == nil || *cfg.PriceColumn != 9 {
		t.Fatalf("priceColumn decode: %+v", cfg)
	}

	out, err := json.Marshal(&cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != src {
		t.Errorf("round trip mismatch:\n got  %s\n want %s", out, src)
	}
}
