package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mydressline-hue/stockpile/pkg/cache"
	"github.com/mydressline-hue/stockpile/pkg/classify"
	"github.com/mydressline-hue/stockpile/pkg/colors"
	"github.com/mydressline-hue/stockpile/pkg/errors"
	"github.com/mydressline-hue/stockpile/pkg/expand"
	"github.com/mydressline-hue/stockpile/pkg/extract"
	"github.com/mydressline-hue/stockpile/pkg/inventory"
	"github.com/mydressline-hue/stockpile/pkg/observability"
	"github.com/mydressline-hue/stockpile/pkg/prices"
	"github.com/mydressline-hue/stockpile/pkg/reconcile"
	"github.com/mydressline-hue/stockpile/pkg/registry"
)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless apart from its collaborators - it does not store
// run results. Multiple goroutines can safely share one Runner with
// different options; serializing imports of the same data source is the
// surrounding orchestrator's responsibility.
type Runner struct {
	Classifier classify.Service
	Cache      cache.Cache
	Suggester  colors.Suggester   // optional, nil disables suggestions
	Registry   *registry.Registry // optional, nil disables filtering
	Logger     *log.Logger
}

// NewRunner creates a runner. A nil cache disables color and price caching
// (NullCache); a nil logger falls back to the default logger.
func NewRunner(classifier classify.Service, c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Classifier: classifier, Cache: c, Logger: logger}
}

// Execute runs the complete pipeline over one file's rows.
//
// A classification failure is returned as-is so callers can detect it with
// classify.IsClassificationError and treat the file as unparsed. Cache and
// registry failures are fatal; color-suggestion failures are not.
func (r *Runner) Execute(ctx context.Context, rows [][]string, opts Options) (*Result, error) {
	logger := r.runLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString()}
	result.Stats.TotalRows = len(rows)
	logger = logger.With("runId", result.RunID, "source", opts.SourceID)

	// Stage 1: Classify
	classifyStart := time.Now()
	observability.Import().OnClassifyStart(ctx, opts.Filename)
	classification, err := r.Classifier.Classify(ctx, classify.BuildRequest(opts.Filename, rows))
	result.Stats.ClassifyTime = time.Since(classifyStart)
	observability.Import().OnClassifyComplete(ctx, opts.Filename, formatOf(classification),
		result.Stats.ClassifyTime, err)
	if err != nil {
		return nil, err
	}
	result.Classification = classification

	logger.Info("classified file",
		"format", classification.Format,
		"confidence", classification.Confidence,
		"duration", result.Stats.ClassifyTime)

	// Stage 2: Extract
	extractStart := time.Now()
	variants, err := r.extractVariants(rows, classification)
	result.Stats.ExtractTime = time.Since(extractStart)
	observability.Import().OnExtractComplete(ctx, string(classification.Format),
		len(variants), result.Stats.ExtractTime, err)
	if err != nil {
		return nil, err
	}
	result.Stats.Extracted = len(variants)

	logger.Info("extracted variants",
		"variants", len(variants),
		"duration", result.Stats.ExtractTime)

	// Stage 3: Correct colors
	if !opts.SkipColorCorrection {
		corrector := colors.NewCorrector(colors.NewStore(r.Cache), r.Suggester, logger)
		colorStats, err := corrector.Correct(ctx, variants)
		if err != nil {
			return nil, err
		}
		result.Stats.Colors = colorStats
	}

	// Stage 4: Expand sizes
	if !opts.SkipExpansion {
		expandStart := time.Now()
		lookup, err := r.priceLookup(ctx, opts.SourceID)
		if err != nil {
			return nil, err
		}

		expander := expand.New(opts.Expansion, logger)
		variants, result.Stats.Expansion = expander.Expand(variants, lookup, opts.SizeLimits)
		result.Stats.ExpandTime = time.Since(expandStart)
		observability.Import().OnExpandComplete(ctx,
			result.Stats.Expansion.Created, result.Stats.Expansion.Raised, result.Stats.ExpandTime)

		logger.Info("expanded sizes",
			"created", result.Stats.Expansion.Created,
			"raised", result.Stats.Expansion.Raised,
			"duration", result.Stats.ExpandTime)
	}

	// Stage 5: Reconcile
	reconcileStart := time.Now()
	reconciler := reconcile.New(opts.Reconcile, logger)
	variants, result.Stats.Reconcile = reconciler.Reconcile(variants)
	result.Stats.ReconcileTime = time.Since(reconcileStart)
	observability.Import().OnReconcileComplete(ctx,
		result.Stats.Reconcile.Zeroed, result.Stats.Reconcile.Duplicates, result.Stats.ReconcileTime)

	// Optional: drop styles owned by a sale-channel import.
	if opts.FilterDiscontinued {
		if r.Registry == nil {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"discontinued filtering requested without a registry")
		}
		filtered, err := r.Registry.FilterDiscontinuedStyles(ctx, variants, opts.ScopeSourceID)
		if err != nil {
			return nil, err
		}
		variants = filtered.Kept
		result.Stats.Removed = filtered.RemovedCount
		result.DiscontinuedStyles = filtered.MatchedStyles
	}

	result.Variants = variants
	logger.Info("pipeline complete",
		"variants", len(variants),
		"zeroed", result.Stats.Reconcile.Zeroed,
		"duplicates", result.Stats.Reconcile.Duplicates,
		"removed", result.Stats.Removed)
	return result, nil
}

// extractVariants builds the extractor for the classified layout and runs it.
func (r *Runner) extractVariants(rows [][]string, res *classify.Result) ([]*inventory.Variant, error) {
	extractor, err := extract.ForResult(res)
	if err != nil {
		return nil, err
	}
	return extractor.Extract(rows)
}

// priceLookup loads and folds the source's price snapshot. A cold cache
// yields an empty lookup; expansion then uses per-variant prices.
func (r *Runner) priceLookup(ctx context.Context, sourceID string) (prices.Lookup, error) {
	records, err := prices.NewStore(r.Cache).Load(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	return prices.Fold(records), nil
}

// runLogger picks the options logger when set, the runner's otherwise.
func (r *Runner) runLogger(opts *Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

func formatOf(res *classify.Result) string {
	if res == nil {
		return ""
	}
	return string(res.Format)
}
