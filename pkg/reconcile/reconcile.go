// Package reconcile collapses duplicate variants and suppresses stock for
// inventory that has not yet arrived.
//
// Two phases run in order over one in-memory batch:
//
//  1. Future-stock zeroing. A variant whose ship date, shifted by a
//     configurable day offset, is strictly in the future is not yet
//     sellable: its stock is forced to zero and it is flagged.
//  2. Key collapse. Variants are grouped by their case-insensitive
//     (style, color, size) key and each group is reduced to one survivor.
//     Confirmed inventory outranks promised inventory; among promises, the
//     soonest-arriving is the most actionable.
//
// Both phases are hash-keyed single passes; output order follows the first
// appearance of each key in the input.
package reconcile

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/mydressline-hue/stockpile/pkg/inventory"
)

// Config controls the reconciliation pass.
type Config struct {
	// FutureStockOffsetDays shifts every ship date before the future test.
	// A negative offset treats soon-arriving stock as already here.
	FutureStockOffsetDays int `json:"futureStockOffsetDays"`
}

// Stats summarizes one reconciliation pass.
type Stats struct {
	Zeroed     int // variants whose stock was suppressed as future
	Duplicates int // variants dropped by the key collapse
}

// Reconciler runs the two-phase pass.
type Reconciler struct {
	cfg    Config
	logger *log.Logger

	// now is replaceable for tests.
	now func() time.Time
}

// New builds a Reconciler.
func New(cfg Config, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.Default()
	}
	return &Reconciler{cfg: cfg, logger: logger, now: time.Now}
}

// Reconcile zeroes future stock and collapses duplicate keys, returning the
// surviving variants in first-appearance order.
func (r *Reconciler) Reconcile(batch []*inventory.Variant) ([]*inventory.Variant, Stats) {
	var stats Stats

	r.zeroFutureStock(batch, &stats)
	out := r.collapse(batch, &stats)

	r.logger.Debug("reconciliation pass",
		"in", len(batch), "out", len(out),
		"zeroed", stats.Zeroed, "duplicates", stats.Duplicates)
	return out, stats
}

// zeroFutureStock suppresses stock for variants whose shifted ship date is
// strictly after now.
func (r *Reconciler) zeroFutureStock(batch []*inventory.Variant, stats *Stats) {
	now := r.now()
	for _, v := range batch {
		if v.ShipDate == nil {
			continue
		}
		shifted := v.ShipDate.AddDate(0, 0, r.cfg.FutureStockOffsetDays)
		if shifted.After(now) {
			if v.Stock != 0 {
				v.SetStock(0)
			}
			v.StockZeroed = true
			v.HasFutureStock = true
			stats.Zeroed++
		}
	}
}

// collapse reduces each key group to a single survivor.
func (r *Reconciler) collapse(batch []*inventory.Variant, stats *Stats) []*inventory.Variant {
	survivors := make(map[inventory.Key]*inventory.Variant, len(batch))
	order := make([]inventory.Key, 0, len(batch))
	now := r.now()

	for _, v := range batch {
		key := v.Key()
		current, seen := survivors[key]
		if !seen {
			survivors[key] = v
			order = append(order, key)
			continue
		}

		stats.Duplicates++
		if betterSurvivor(v, current, now) {
			survivors[key] = v
		}
	}

	out := make([]*inventory.Variant, len(order))
	for i, key := range order {
		out[i] = survivors[key]
	}
	return out
}

// betterSurvivor reports whether candidate should replace current, in
// priority order: highest positive stock, then soonest still-future ship
// date, then most recent past ship date, then the first encountered.
func betterSurvivor(candidate, current *inventory.Variant, now time.Time) bool {
	if candidate.Stock > 0 || current.Stock > 0 {
		return candidate.Stock > current.Stock
	}

	// All zero stock from here: compare promises.
	candFuture, candHas := futureDate(candidate, now)
	curFuture, curHas := futureDate(current, now)
	switch {
	case candHas && curHas:
		return candFuture.Before(curFuture)
	case candHas != curHas:
		return candHas
	}

	candPast, candHas := pastDate(candidate, now)
	curPast, curHas := pastDate(current, now)
	switch {
	case candHas && curHas:
		return candPast.After(curPast)
	case candHas != curHas:
		return candHas
	}

	return false // keep the first encountered
}

func futureDate(v *inventory.Variant, now time.Time) (time.Time, bool) {
	if v.ShipDate != nil && v.ShipDate.After(now) {
		return *v.ShipDate, true
	}
	return time.Time{}, false
}

func pastDate(v *inventory.Variant, now time.Time) (time.Time, bool) {
	if v.ShipDate != nil && !v.ShipDate.After(now) {
		return *v.ShipDate, true
	}
	return time.Time{}, false
}
