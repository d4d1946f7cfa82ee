package colors

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/mydressline-hue/stockpile/pkg/inventory"
)

// CorrectionStats summarizes one correction pass.
type CorrectionStats struct {
	SuspectCodes int // distinct codes sent to the suggestion service
	NewMappings  int // suggestions persisted this pass
	Corrected    int // variants whose color was rewritten
}

// Corrector applies persisted color mappings to a batch of variants and
// grows the mapping table from remote suggestions.
type Corrector struct {
	store     *Store
	suggester Suggester
	logger    *log.Logger
}

// NewCorrector wires a mapping store and an optional suggestion service.
// A nil suggester disables the remote path; existing mappings still apply.
func NewCorrector(store *Store, suggester Suggester, logger *log.Logger) *Corrector {
	if logger == nil {
		logger = log.Default()
	}
	return &Corrector{store: store, suggester: suggester, logger: logger}
}

// Correct rewrites abbreviated colors in place. Cache errors are fatal for
// the operation; suggestion-service errors fail open with zero new
// mappings.
func (c *Corrector) Correct(ctx context.Context, variants []*inventory.Variant) (CorrectionStats, error) {
	var stats CorrectionStats

	mapping, err := c.store.Load(ctx)
	if err != nil {
		return stats, err
	}

	colorValues := make([]string, len(variants))
	for i, v := range variants {
		colorValues[i] = v.Color
	}

	codes := SuspectCodes(colorValues, mapping)
	stats.SuspectCodes = len(codes)

	if len(codes) > 0 && c.suggester != nil {
		suggestions, err := c.suggester.Suggest(ctx, codes)
		if err != nil {
			// Fail open: an unreachable suggestion service means no new
			// mappings this run, not a failed import.
			c.logger.Warn("color suggestion service unavailable", "error", err)
		} else {
			for _, s := range suggestions {
				if s.Confidence < MinConfidence {
					continue
				}
				if mapping.Add(s.BadColor, s.GoodColor) {
					stats.NewMappings++
				}
			}
		}

		if stats.NewMappings > 0 {
			if err := c.store.Save(ctx, mapping); err != nil {
				return stats, err
			}
		}
	}

	for _, v := range variants {
		if good, ok := mapping.Lookup(v.Color); ok {
			v.Color = good
			stats.Corrected++
		}
	}

	c.logger.Debug("color correction pass",
		"suspects", stats.SuspectCodes,
		"newMappings", stats.NewMappings,
		"corrected", stats.Corrected)
	return stats, nil
}
