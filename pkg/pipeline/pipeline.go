// Package pipeline provides the core normalization pipeline for Stockpile.
//
// This package implements the complete classify → extract → correct →
// expand → reconcile run over one vendor file, so CLI and worker entry
// points share one code path.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Classify: determine the file layout via the remote classifier
//  2. Extract: turn raw rows into canonical variants for that layout
//  3. Correct: rewrite abbreviated colors from the mapping cache
//  4. Expand: synthesize neighboring sizes for in-stock variants
//  5. Reconcile: zero future stock and collapse duplicate keys
//
// An optional sixth step filters styles owned by a sale-channel import
// through the discontinued-style registry.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(classifier, cache, logger)
//	opts := pipeline.Options{
//	    Filename: "vendor.xlsx",
//	    SourceID: "vendor-1",
//	}
//	result, err := runner.Execute(ctx, rows, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	variants := result.Variants
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mydressline-hue/stockpile/pkg/classify"
	"github.com/mydressline-hue/stockpile/pkg/colors"
	"github.com/mydressline-hue/stockpile/pkg/errors"
	"github.com/mydressline-hue/stockpile/pkg/expand"
	"github.com/mydressline-hue/stockpile/pkg/inventory"
	"github.com/mydressline-hue/stockpile/pkg/reconcile"
	"github.com/mydressline-hue/stockpile/pkg/sizes"
)

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for persisted job configs.
type Options struct {
	// Filename is the vendor file name, used as a classification hint.
	Filename string `json:"filename"`

	// SourceID identifies the data source this file belongs to.
	SourceID string `json:"sourceId"`

	// Expansion configures the size-expansion stage.
	Expansion expand.Config `json:"expansion"`

	// Reconcile configures future-stock zeroing.
	Reconcile reconcile.Config `json:"reconcile"`

	// SizeLimits optionally restricts which sizes survive expansion.
	SizeLimits *sizes.LimitConfig `json:"sizeLimits,omitempty"`

	// SkipColorCorrection disables the color stage.
	SkipColorCorrection bool `json:"skipColorCorrection,omitempty"`

	// SkipExpansion disables the expansion stage.
	SkipExpansion bool `json:"skipExpansion,omitempty"`

	// FilterDiscontinued removes styles owned by a sale-channel import.
	// ScopeSourceID limits the match to one sale source; empty means any.
	FilterDiscontinued bool   `json:"filterDiscontinued,omitempty"`
	ScopeSourceID      string `json:"scopeSourceId,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Filename == "" {
		return errors.New(errors.ErrCodeInvalidInput, "filename is required")
	}
	if err := errors.ValidateSourceID(o.SourceID); err != nil {
		return err
	}
	if err := o.Expansion.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if o.SizeLimits != nil {
		if err := o.SizeLimits.Validate(); err != nil {
			return err
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this run in logs and job records.
	RunID string

	// Classification is the validated layout decision.
	Classification *classify.Result

	// Variants is the normalized batch after all stages.
	Variants []*inventory.Variant

	// DiscontinuedStyles lists styles removed by the registry filter.
	DiscontinuedStyles []string

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TotalRows int
	Extracted int
	Removed   int // variants dropped by the discontinued filter

	Colors    colors.CorrectionStats
	Expansion expand.Stats
	Reconcile reconcile.Stats

	ClassifyTime  time.Duration
	ExtractTime   time.Duration
	ExpandTime    time.Duration
	ReconcileTime time.Duration
}
