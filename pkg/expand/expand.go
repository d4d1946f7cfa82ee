// Package expand synthesizes neighboring sizes for in-stock variants.
//
// A dress confirmed in stock at size 8 is very likely obtainable at 6 and
// 10, so the engine manufactures those neighbors as sellable records. How
// far to reach in each direction is either a flat default or a price tier:
// more expensive styles expand further because a missed sale costs more.
//
// Expansion is a single pass over an in-memory batch. Synthesized variants
// never trigger further expansion, and each source variant expands at most
// once per run, so running the pass over its own output is a no-op.
package expand

import (
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/mydressline-hue/stockpile/pkg/errors"
	"github.com/mydressline-hue/stockpile/pkg/inventory"
	"github.com/mydressline-hue/stockpile/pkg/prices"
	"github.com/mydressline-hue/stockpile/pkg/sizes"
)

// Tier maps a price threshold to expansion counts. Tiers are evaluated from
// the highest MinPrice down; the first tier at or below the style's price
// wins.
type Tier struct {
	MinPrice decimal.Decimal `json:"minPrice"`
	Down     int             `json:"down"`
	Up       int             `json:"up"`
}

// Config controls the expansion pass. The zero value expands nothing; use
// ValidateAndSetDefaults to apply defaults.
type Config struct {
	// TriggerThreshold is the minimum stock for a variant to expand.
	TriggerThreshold int `json:"triggerThreshold"`

	// Down and Up are the default reach when no tier matches.
	Down int `json:"down"`
	Up   int `json:"up"`

	// ExpandedStock is the stock assigned to synthesized variants.
	ExpandedStock int `json:"expandedStock"`

	// Tiers optionally scale the reach by style price.
	Tiers []Tier `json:"tiers,omitempty"`
}

// ValidateAndSetDefaults checks the configuration and fills defaults:
// trigger threshold and expanded stock default to 1. Tiers are sorted by
// MinPrice descending so resolution can take the first match.
func (c *Config) ValidateAndSetDefaults() error {
	if c.TriggerThreshold < 0 || c.Down < 0 || c.Up < 0 || c.ExpandedStock < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "expansion counts cannot be negative")
	}
	for _, t := range c.Tiers {
		if t.Down < 0 || t.Up < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "tier counts cannot be negative")
		}
	}

	if c.TriggerThreshold == 0 {
		c.TriggerThreshold = 1
	}
	if c.ExpandedStock == 0 {
		c.ExpandedStock = 1
	}

	sort.SliceStable(c.Tiers, func(i, j int) bool {
		return c.Tiers[i].MinPrice.GreaterThan(c.Tiers[j].MinPrice)
	})
	return nil
}

// Stats summarizes one expansion pass.
type Stats struct {
	Sources int // variants that triggered expansion
	Created int // new synthesized variants
	Raised  int // existing zero-stock variants raised in place
	Skipped int // synthesized sizes dropped by limits or sku failures
}

// Expander runs the expansion pass.
type Expander struct {
	cfg    Config
	logger *log.Logger
}

// New builds an Expander. The config must already be validated.
func New(cfg Config, logger *log.Logger) *Expander {
	if logger == nil {
		logger = log.Default()
	}
	return &Expander{cfg: cfg, logger: logger}
}

// Expand grows the batch in place and returns the extended slice. Price
// tiers resolve against the catalog lookup first and fall back to the
// variant's own price. Synthesized sizes are clamped to the domain sequence
// and filtered through the size limits; limits may be nil.
func (e *Expander) Expand(
	batch []*inventory.Variant,
	lookup prices.Lookup,
	limits *sizes.LimitConfig,
) ([]*inventory.Variant, Stats) {
	var stats Stats

	// Arena index over the batch. Collision handling mutates through this
	// index rather than holding references, so appended variants and
	// existing ones are addressed the same way.
	index := make(map[inventory.Key]int, len(batch))
	for i, v := range batch {
		index[v.Key()] = i
	}

	expanded := make(map[string]bool, len(batch))

	// Only variants present at the start of the pass are sources.
	for i, n := 0, len(batch); i < n; i++ {
		src := batch[i]
		if src.IsExpandedSize || src.Stock < e.cfg.TriggerThreshold {
			continue
		}

		// At most one expansion per (style, color, raw size) per run.
		onceKey := strings.ToLower(src.Style + "|" + src.Color + "|" + src.Size)
		if expanded[onceKey] {
			continue
		}
		expanded[onceKey] = true

		domain := sizes.DomainOf(src.Size)
		seq := sizes.Sequence(domain)
		pos := sizes.IndexIn(domain, src.Size)
		if pos < 0 {
			continue // unrecognized sizes have no neighbors
		}

		down, up := e.resolveCounts(src, lookup)
		stats.Sources++

		for step := 1; step <= down && pos-step >= 0; step++ {
			batch = e.synthesize(batch, index, src, seq[pos-step], limits, &stats)
		}
		for step := 1; step <= up && pos+step < len(seq); step++ {
			batch = e.synthesize(batch, index, src, seq[pos+step], limits, &stats)
		}
	}

	return batch, stats
}

// resolveCounts picks the down/up reach for a source variant: the first
// matching price tier, or the configured defaults.
func (e *Expander) resolveCounts(src *inventory.Variant, lookup prices.Lookup) (down, up int) {
	if len(e.cfg.Tiers) == 0 {
		return e.cfg.Down, e.cfg.Up
	}

	price, ok := lookup.For(src.Style)
	if !ok && src.Price != nil {
		price, ok = *src.Price, true
	}
	if ok {
		for _, t := range e.cfg.Tiers {
			if t.MinPrice.LessThanOrEqual(price) {
				return t.Down, t.Up
			}
		}
	}
	return e.cfg.Down, e.cfg.Up
}

// synthesize emits one neighboring size for a source variant, honoring the
// collision policy: an existing zero-stock variant at the same key is
// raised in place instead of duplicated, an existing in-stock variant is
// left alone.
func (e *Expander) synthesize(
	batch []*inventory.Variant,
	index map[inventory.Key]int,
	src *inventory.Variant,
	size string,
	limits *sizes.LimitConfig,
	stats *Stats,
) []*inventory.Variant {
	if limits != nil && !limits.IsAllowed(size, src.Style) {
		stats.Skipped++
		return batch
	}

	key := inventory.KeyOf(src.Style, src.Color, size)
	if pos, exists := index[key]; exists {
		existing := batch[pos]
		if existing.Stock == 0 {
			existing.SetStock(e.cfg.ExpandedStock)
			existing.ShipDate = nil
			existing.IsExpandedSize = true
			stats.Raised++
		}
		return batch
	}

	sku, err := inventory.DeriveSKU(src.Style, src.Color, size)
	if err != nil {
		e.logger.Warn("skipping synthesized size with underivable sku",
			"style", src.Style, "size", size, "error", err)
		stats.Skipped++
		return batch
	}

	batch = append(batch, &inventory.Variant{
		Style:          src.Style,
		Color:          src.Color,
		Size:           size,
		Stock:          e.cfg.ExpandedStock,
		Price:          src.Price,
		SKU:            sku,
		IsExpandedSize: true,
	})
	index[key] = len(batch) - 1
	stats.Created++
	return batch
}
