package inventory

import (
	"testing"
)

func TestParseStock(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"12", 12},
		{" 12 ", 12},
		{"12.9", 12}, // floats truncate
		{"1,234", 1234},
		{"", 0},
		{"n/a", 0},
		{"-5", 0}, // stock is never negative
		{"0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseStock(tt.raw); got != tt.want {
				t.Errorf("ParseStock(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want string // "" means nil
	}{
		{"19.99", "19.99"},
		{"$19.99", "19.99"},
		{"$1,299.50", "1299.5"},
		{"€45", "45"},
		{"1 200", "1200"},
		{"", ""},
		{"call", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParsePrice(tt.raw)
			if tt.want == "" {
				if got != nil {
					t.Errorf("ParsePrice(%q) = %v, want nil", tt.raw, got)
				}
				return
			}
			if got == nil || got.String() != tt.want {
				t.Errorf("ParsePrice(%q) = %v, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseShipDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string // formatted 2006-01-02, "" means nil
	}{
		{"2025-11-30", "2025-11-30"},
		{"11/30/2025", "2025-11-30"},
		{"1/5/2025", "2025-01-05"},
		{"Jan 5, 2025", "2025-01-05"},
		{"", ""},
		{"soon", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseShipDate(tt.raw)
			if tt.want == "" {
				if got != nil {
					t.Errorf("ParseShipDate(%q) = %v, want nil", tt.raw, got)
				}
				return
			}
			if got == nil || got.Format("2006-01-02") != tt.want {
				t.Errorf("ParseShipDate(%q) = %v, want %s", tt.raw, got, tt.want)
			}
		})
	}
}
