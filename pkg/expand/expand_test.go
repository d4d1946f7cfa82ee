package expand

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mydressline-hue/stockpile/pkg/inventory"
	"github.com/mydressline-hue/stockpile/pkg/prices"
	"github.com/mydressline-hue/stockpile/pkg/sizes"
)

func mustConfig(t *testing.T, cfg Config) Config {
	t.Helper()
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func variant(style, color, size string, stock int) *inventory.Variant {
	v := &inventory.Variant{Style: style, Color: color, Size: size}
	v.SetStock(stock)
	return v
}

func sizeSet(batch []*inventory.Variant) map[string]bool {
	set := make(map[string]bool, len(batch))
	for _, v := range batch {
		set[v.Size] = true
	}
	return set
}

func TestExpand_NumericNeighbors(t *testing.T) {
	cfg := mustConfig(t, Config{Down: 2, Up: 1, ExpandedStock: 3})
	e := New(cfg, nil)

	batch := []*inventory.Variant{variant("100", "Red", "8", 5)}
	batch, stats := e.Expand(batch, nil, nil)

	if stats.Sources != 1 || stats.Created != 3 {
		t.Fatalf("stats = %+v, want 1 source, 3 created", stats)
	}

	set := sizeSet(batch)
	for _, size := range []string{"4", "6", "8", "10"} {
		if !set[size] {
			t.Errorf("missing size %q in %v", size, set)
		}
	}

	for _, v := range batch[1:] {
		if !v.IsExpandedSize {
			t.Errorf("synthesized %q not flagged", v.Size)
		}
		if v.Stock != 3 {
			t.Errorf("synthesized %q stock = %d, want 3", v.Size, v.Stock)
		}
		if v.SKU == "" {
			t.Errorf("synthesized %q has no sku", v.Size)
		}
	}
}

func TestExpand_ClampsToSequenceBounds(t *testing.T) {
	cfg := mustConfig(t, Config{Down: 3, Up: 3})
	e := New(cfg, nil)

	batch := []*inventory.Variant{variant("100", "Red", "000", 1)}
	batch, stats := e.Expand(batch, nil, nil)

	// Nothing below 000; three sizes above.
	if stats.Created != 3 {
		t.Fatalf("created = %d, want 3", stats.Created)
	}
	set := sizeSet(batch)
	for _, size := range []string{"00", "0", "2"} {
		if !set[size] {
			t.Errorf("missing size %q", size)
		}
	}
}

func TestExpand_LetterDomainWithAlias(t *testing.T) {
	cfg := mustConfig(t, Config{Down: 1, Up: 1})
	e := New(cfg, nil)

	// XXL folds to 2XL; neighbors are XL and 3XL.
	batch := []*inventory.Variant{variant("100", "Red", "XXL", 2)}
	batch, _ = e.Expand(batch, nil, nil)

	set := sizeSet(batch)
	if !set["XL"] || !set["3XL"] {
		t.Errorf("sizes = %v, want XL and 3XL", set)
	}
}

func TestExpand_BelowThresholdSkipped(t *testing.T) {
	cfg := mustConfig(t, Config{TriggerThreshold: 2, Down: 1, Up: 1})
	e := New(cfg, nil)

	batch := []*inventory.Variant{
		variant("100", "Red", "8", 1),
		variant("100", "Blue", "8", 0),
	}
	batch, stats := e.Expand(batch, nil, nil)

	if stats.Sources != 0 || len(batch) != 2 {
		t.Errorf("stats = %+v, len = %d; nothing should expand", stats, len(batch))
	}
}

func TestExpand_PriceTiers(t *testing.T) {
	cfg := mustConfig(t, Config{
		Down: 1, Up: 0,
		Tiers: []Tier{
			{MinPrice: decimal.NewFromInt(50), Down: 2, Up: 2},
			{MinPrice: decimal.NewFromInt(200), Down: 3, Up: 3},
		},
	})
	e := New(cfg, nil)

	lookup := prices.Lookup{
		"expensive": decimal.NewFromInt(250),
		"mid":       decimal.NewFromInt(80),
	}

	batch := []*inventory.Variant{
		variant("expensive", "Red", "8", 1),
		variant("mid", "Red", "8", 1),
		variant("cheap", "Red", "8", 1), // no price anywhere: defaults
	}
	batch, _ = e.Expand(batch, lookup, nil)

	perStyle := make(map[string]int)
	for _, v := range batch {
		if v.IsExpandedSize {
			perStyle[v.Style]++
		}
	}
	if perStyle["expensive"] != 6 {
		t.Errorf("expensive expanded %d, want 6 (3 down, 3 up)", perStyle["expensive"])
	}
	if perStyle["mid"] != 4 {
		t.Errorf("mid expanded %d, want 4 (2 down, 2 up)", perStyle["mid"])
	}
	if perStyle["cheap"] != 1 {
		t.Errorf("cheap expanded %d, want 1 (defaults)", perStyle["cheap"])
	}
}

func TestExpand_TierFallsBackToVariantPrice(t *testing.T) {
	cfg := mustConfig(t, Config{
		Tiers: []Tier{{MinPrice: decimal.NewFromInt(100), Down: 1, Up: 1}},
	})
	e := New(cfg, nil)

	p := decimal.NewFromInt(120)
	src := variant("900", "Red", "8", 1)
	src.Price = &p

	batch, stats := e.Expand([]*inventory.Variant{src}, nil, nil)
	if stats.Created != 2 {
		t.Errorf("created = %d, want 2 via the variant's own price", stats.Created)
	}
	if len(batch) != 3 {
		t.Errorf("len = %d, want 3", len(batch))
	}
}

func TestExpand_CollisionRaisesZeroStockInPlace(t *testing.T) {
	cfg := mustConfig(t, Config{Down: 1, Up: 0, ExpandedStock: 2})
	e := New(cfg, nil)

	ship := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := variant("100", "Red", "6", 0)
	existing.ShipDate = &ship

	batch := []*inventory.Variant{
		existing,
		variant("100", "Red", "8", 5),
	}
	batch, stats := e.Expand(batch, nil, nil)

	if stats.Raised != 1 || stats.Created != 0 {
		t.Fatalf("stats = %+v, want 1 raised, 0 created", stats)
	}
	if len(batch) != 2 {
		t.Fatalf("len = %d, collision must not duplicate", len(batch))
	}
	if existing.Stock != 2 || existing.ShipDate != nil || !existing.IsExpandedSize {
		t.Errorf("raised variant = %+v", existing)
	}
}

func TestExpand_CollisionLeavesInStockAlone(t *testing.T) {
	cfg := mustConfig(t, Config{Down: 1, Up: 0, ExpandedStock: 2})
	e := New(cfg, nil)

	existing := variant("100", "Red", "6", 9)
	batch := []*inventory.Variant{
		existing,
		variant("100", "Red", "8", 5),
	}
	batch, stats := e.Expand(batch, nil, nil)

	// The in-stock "6" survives the "8" collision untouched and, being a
	// source itself, synthesizes its own "4" neighbor.
	if stats.Raised != 0 || stats.Created != 1 {
		t.Fatalf("stats = %+v, want 0 raised, 1 created", stats)
	}
	if len(batch) != 3 {
		t.Fatalf("len = %d, want 3", len(batch))
	}
	if existing.Stock != 9 || existing.IsExpandedSize {
		t.Errorf("existing in-stock variant changed: %+v", existing)
	}
	created := batch[2]
	if created.Size != "4" || !created.IsExpandedSize {
		t.Errorf("created variant = %+v, want expanded size 4", created)
	}
}

func TestExpand_SecondPassIsNoOp(t *testing.T) {
	cfg := mustConfig(t, Config{Down: 1, Up: 1, ExpandedStock: 5})
	e := New(cfg, nil)

	batch := []*inventory.Variant{variant("100", "Red", "8", 5)}
	batch, _ = e.Expand(batch, nil, nil)
	before := len(batch)

	batch, stats := e.Expand(batch, nil, nil)
	if len(batch) != before {
		t.Errorf("second pass grew the batch from %d to %d", before, len(batch))
	}
	if stats.Created != 0 || stats.Raised != 0 {
		t.Errorf("second pass stats = %+v, want none", stats)
	}
}

func TestExpand_LimitsFilterSynthesizedSizes(t *testing.T) {
	cfg := mustConfig(t, Config{Down: 2, Up: 2})
	e := New(cfg, nil)

	limits := &sizes.LimitConfig{Enabled: true}
	limits.MinSize = strptr("6")
	limits.MaxSize = strptr("10")

	batch := []*inventory.Variant{variant("100", "Red", "8", 1)}
	batch, stats := e.Expand(batch, nil, limits)

	set := sizeSet(batch)
	if set["4"] || set["12"] {
		t.Errorf("out-of-range sizes synthesized: %v", set)
	}
	if !set["6"] || !set["10"] {
		t.Errorf("in-range sizes missing: %v", set)
	}
	if stats.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", stats.Skipped)
	}
}

func TestExpand_UnderivableSKUSkipped(t *testing.T) {
	cfg := mustConfig(t, Config{Down: 1, Up: 1})
	e := New(cfg, nil)

	// No color: synthesized neighbors cannot derive a sku.
	batch := []*inventory.Variant{variant("100", "", "8", 3)}
	batch, stats := e.Expand(batch, nil, nil)

	if len(batch) != 1 {
		t.Errorf("len = %d, want 1 (no malformed records emitted)", len(batch))
	}
	if stats.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", stats.Skipped)
	}
}

func TestExpand_UnrecognizedSizeHasNoNeighbors(t *testing.T) {
	cfg := mustConfig(t, Config{Down: 2, Up: 2})
	e := New(cfg, nil)

	batch := []*inventory.Variant{variant("100", "Red", "OSFA", 4)}
	batch, stats := e.Expand(batch, nil, nil)

	if len(batch) != 1 || stats.Created != 0 {
		t.Errorf("unrecognized size expanded: len %d, stats %+v", len(batch), stats)
	}
}

func TestConfig_ValidateAndSetDefaults(t *testing.T) {
	cfg := Config{
		Tiers: []Tier{
			{MinPrice: decimal.NewFromInt(50)},
			{MinPrice: decimal.NewFromInt(200)},
		},
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if cfg.TriggerThreshold != 1 || cfg.ExpandedStock != 1 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if !cfg.Tiers[0].MinPrice.Equal(decimal.NewFromInt(200)) {
		t.Errorf("tiers not sorted descending: %+v", cfg.Tiers)
	}

	bad := Config{Down: -1}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("negative counts must be rejected")
	}
}

func strptr(s string) *string { return &s }
