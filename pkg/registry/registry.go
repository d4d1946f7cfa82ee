// Package registry tracks which styles are owned by a sale-channel import
// so they can be suppressed in regular-channel inventory.
//
// The registry always reflects the latest sale-file import for a source:
// registering a style set upserts every style as active and soft-deletes
// any previously registered style that is absent from the new set. Records
// are never hard-deleted, so ownership history survives re-registration.
//
// Storage is behind the Store interface. Storage errors are fatal for the
// operation that hit them; discontinued-style correctness must not silently
// degrade.
package registry

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mydressline-hue/stockpile/pkg/errors"
	"github.com/mydressline-hue/stockpile/pkg/inventory"
)

// Record is one registered style for a sale source.
type Record struct {
	SaleSourceID string    `bson:"saleSourceId" json:"saleSourceId"`
	Style        string    `bson:"style" json:"style"` // normalized
	Active       bool      `bson:"active" json:"active"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Store persists registry records. List with an empty sourceID returns
// records across all sale sources.
type Store interface {
	List(ctx context.Context, sourceID string) ([]Record, error)
	Upsert(ctx context.Context, rec Record) error
	Close(ctx context.Context) error
}

// InventoryStore purges persisted inventory rows for a data source. The
// engine does not own inventory durability; this is the narrow slice of the
// caller's store the retroactive purge needs.
type InventoryStore interface {
	DeleteByStyles(ctx context.Context, dataSourceID string, styles []string) (int64, error)
}

// RegisterStats summarizes one registration.
type RegisterStats struct {
	Registered  int // styles active after the import
	Deactivated int // previously active styles absent from the import
}

// FilterResult is the outcome of a discontinued-style filter pass.
type FilterResult struct {
	Kept          []*inventory.Variant
	RemovedCount  int
	MatchedStyles []string
}

// Registry applies sale-file ownership semantics over a Store.
type Registry struct {
	store  Store
	logger *log.Logger

	now func() time.Time
}

// New builds a Registry over a store.
func New(store Store, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{store: store, logger: logger, now: time.Now}
}

// RegisterSaleFileStyles records the styles of one sale-file import.
// Incoming styles are normalized and upserted active; previously registered
// styles for the same source that are absent from the import are
// deactivated, never deleted.
func (r *Registry) RegisterSaleFileStyles(ctx context.Context, saleSourceID string, styles []string) (RegisterStats, error) {
	var stats RegisterStats

	if err := errors.ValidateSourceID(saleSourceID); err != nil {
		return stats, err
	}

	incoming := make(map[string]bool, len(styles))
	for _, s := range styles {
		if normalized := inventory.NormalizeStyle(s); normalized != "" {
			incoming[strings.ToLower(normalized)] = true
		}
	}

	existing, err := r.store.List(ctx, saleSourceID)
	if err != nil {
		return stats, errors.Wrap(errors.ErrCodeStorage, err, "listing registry for %s", saleSourceID)
	}

	now := r.now()

	for _, rec := range existing {
		if rec.Active && !incoming[strings.ToLower(rec.Style)] {
			rec.Active = false
			rec.UpdatedAt = now
			if err := r.store.Upsert(ctx, rec); err != nil {
				return stats, errors.Wrap(errors.ErrCodeStorage, err, "deactivating style %s", rec.Style)
			}
			stats.Deactivated++
		}
	}

	for _, s := range styles {
		normalized := inventory.NormalizeStyle(s)
		if normalized == "" {
			continue
		}
		rec := Record{
			SaleSourceID: saleSourceID,
			Style:        normalized,
			Active:       true,
			UpdatedAt:    now,
		}
		if err := r.store.Upsert(ctx, rec); err != nil {
			return stats, errors.Wrap(errors.ErrCodeStorage, err, "registering style %s", normalized)
		}
	}
	stats.Registered = len(incoming)

	r.logger.Debug("registered sale-file styles",
		"source", saleSourceID,
		"registered", stats.Registered,
		"deactivated", stats.Deactivated)
	return stats, nil
}

// FilterDiscontinuedStyles removes variants whose normalized style matches
// an active registry entry. scopeSourceID limits the match to one sale
// source; empty means any source.
func (r *Registry) FilterDiscontinuedStyles(ctx context.Context, items []*inventory.Variant, scopeSourceID string) (FilterResult, error) {
	active, err := r.activeStyles(ctx, scopeSourceID)
	if err != nil {
		return FilterResult{}, err
	}

	result := FilterResult{Kept: make([]*inventory.Variant, 0, len(items))}
	matched := make(map[string]bool)

	for _, v := range items {
		key := strings.ToLower(inventory.NormalizeStyle(v.Style))
		if active[key] {
			result.RemovedCount++
			if !matched[key] {
				matched[key] = true
				result.MatchedStyles = append(result.MatchedStyles, inventory.NormalizeStyle(v.Style))
			}
			continue
		}
		result.Kept = append(result.Kept, v)
	}
	return result, nil
}

// RemoveDiscontinuedInventoryItems purges already-persisted inventory rows
// of a regular-channel source that match active discontinued styles.
// Returns the number of purged rows.
func (r *Registry) RemoveDiscontinuedInventoryItems(ctx context.Context, inv InventoryStore, dataSourceID, scopeSourceID string) (int64, error) {
	if err := errors.ValidateSourceID(dataSourceID); err != nil {
		return 0, err
	}

	active, err := r.activeStyles(ctx, scopeSourceID)
	if err != nil {
		return 0, err
	}
	if len(active) == 0 {
		return 0, nil
	}

	styles := make([]string, 0, len(active))
	for s := range active {
		styles = append(styles, s)
	}

	purged, err := inv.DeleteByStyles(ctx, dataSourceID, styles)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStorage, err, "purging discontinued inventory for %s", dataSourceID)
	}

	r.logger.Info("purged discontinued inventory",
		"source", dataSourceID, "styles", len(styles), "rows", purged)
	return purged, nil
}

// activeStyles loads the lowercased active style set, optionally scoped to
// one sale source.
func (r *Registry) activeStyles(ctx context.Context, scopeSourceID string) (map[string]bool, error) {
	records, err := r.store.List(ctx, scopeSourceID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "listing registry")
	}

	active := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.Active {
			active[strings.ToLower(rec.Style)] = true
		}
	}
	return active, nil
}
