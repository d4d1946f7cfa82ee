package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mydressline-hue/stockpile/pkg/classify"
	"github.com/mydressline-hue/stockpile/pkg/pipeline"
	"github.com/mydressline-hue/stockpile/pkg/sizes"
)

// importOpts holds the command-line flags for the import command.
type importOpts struct {
	source             string // data source the file belongs to
	output             string // output file path (stdout if empty)
	limits             string // size-limit JSON file, overrides the config
	skipColors         bool
	skipExpansion      bool
	filterDiscontinued bool
	scope              string // sale source for discontinued filtering
	noCache            bool
}

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	opts := &importOpts{}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Normalize a vendor inventory file into canonical variants",
		Long: `Import reads a vendor inventory file, classifies its layout, and runs the
full normalization pipeline: extraction, color correction, size expansion,
and stock reconciliation. The resulting variants are written as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.source, "source", "s", "", "data source ID (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file path (default: stdout)")
	cmd.Flags().StringVar(&opts.limits, "limits", "", "size-limit JSON file (overrides the config)")
	cmd.Flags().BoolVar(&opts.skipColors, "skip-colors", false, "skip color correction")
	cmd.Flags().BoolVar(&opts.skipExpansion, "skip-expansion", false, "skip size expansion")
	cmd.Flags().BoolVar(&opts.filterDiscontinued, "filter-discontinued", false, "remove styles owned by a sale channel")
	cmd.Flags().StringVar(&opts.scope, "scope", "", "sale source to scope discontinued filtering to")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the color and price cache")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

// runImport executes the pipeline over one file and reports the results.
func (c *CLI) runImport(cmd *cobra.Command, path string, opts *importOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	rows, err := readRows(path)
	if err != nil {
		return err
	}
	logger.Debugf("Read %d rows from %s", len(rows), path)

	pipeOpts, err := c.pipelineOptions(path, opts)
	if err != nil {
		return err
	}

	runner, cleanup, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer cleanup()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, rows, pipeOpts)
	if err != nil {
		if classify.IsClassificationError(err) {
			printError("File could not be classified")
			printDetail("%v", err)
		}
		return err
	}
	prog.done(fmt.Sprintf("Imported %d variants", len(result.Variants)))

	if err := writeVariants(opts.output, result); err != nil {
		return err
	}

	printSuccess("Import complete")
	printImportStats(result)
	if opts.output != "" {
		printFile(opts.output)
	}
	return nil
}

// pipelineOptions assembles pipeline options from the config and flags.
func (c *CLI) pipelineOptions(path string, opts *importOpts) (pipeline.Options, error) {
	cfg, err := c.config()
	if err != nil {
		return pipeline.Options{}, err
	}

	pipeOpts := pipeline.Options{
		Filename:            filepath.Base(path),
		SourceID:            opts.source,
		Expansion:           cfg.Expansion,
		Reconcile:           cfg.Reconcile,
		SkipColorCorrection: opts.skipColors,
		SkipExpansion:       opts.skipExpansion,
		FilterDiscontinued:  opts.filterDiscontinued,
		ScopeSourceID:       opts.scope,
		Logger:              c.Logger,
	}

	limitsPath := cfg.LimitsFile
	if opts.limits != "" {
		limitsPath = opts.limits
	}
	if limitsPath != "" {
		limits, err := loadLimits(limitsPath)
		if err != nil {
			return pipeline.Options{}, err
		}
		pipeOpts.SizeLimits = limits
	}

	return pipeOpts, nil
}

// loadLimits reads a size-limit config from a JSON file.
func loadLimits(path string) (*sizes.LimitConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read size limits: %w", err)
	}
	var limits sizes.LimitConfig
	if err := json.Unmarshal(data, &limits); err != nil {
		return nil, fmt.Errorf("parse size limits %s: %w", path, err)
	}
	return &limits, nil
}

// readRows reads a delimited vendor file into raw rows. Ragged rows are
// expected; vendors rarely pad short lines.
func readRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// writeVariants marshals the pipeline result to the output path or stdout.
func writeVariants(path string, result *pipeline.Result) error {
	data, err := json.MarshalIndent(result.Variants, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal variants: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// printImportStats prints a run summary to stdout.
func printImportStats(result *pipeline.Result) {
	s := result.Stats
	printKeyValue("format", string(formatName(result)))
	printKeyValue("rows", fmt.Sprintf("%d", s.TotalRows))
	printKeyValue("extracted", fmt.Sprintf("%d", s.Extracted))
	printKeyValue("colors", fmt.Sprintf("%d corrected, %d new mappings", s.Colors.Corrected, s.Colors.NewMappings))
	printKeyValue("expansion", fmt.Sprintf("%d created, %d raised, %d skipped", s.Expansion.Created, s.Expansion.Raised, s.Expansion.Skipped))
	printKeyValue("reconcile", fmt.Sprintf("%d zeroed, %d duplicates", s.Reconcile.Zeroed, s.Reconcile.Duplicates))
	if s.Removed > 0 {
		printKeyValue("discontinued", fmt.Sprintf("%d removed", s.Removed))
	}
	printKeyValue("variants", fmt.Sprintf("%d", len(result.Variants)))
}

// formatName returns the classified format, guarding against a nil result.
func formatName(result *pipeline.Result) classify.Format {
	if result.Classification == nil {
		return ""
	}
	return result.Classification.Format
}
