package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mydressline-hue/stockpile/pkg/classify"
)

// classifyCommand creates the classify command.
func (c *CLI) classifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <file>",
		Short: "Show the layout decision for a file without importing it",
		Long: `Classify sends a sample of the file to the classification service and
prints the validated layout decision as JSON. Use this to inspect how a
problem file would be parsed before running a full import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runClassify(cmd, args[0])
		},
	}
}

// runClassify asks the classification service for a layout decision.
func (c *CLI) runClassify(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.config()
	if err != nil {
		return err
	}

	rows, err := readRows(path)
	if err != nil {
		return err
	}
	logger.Debugf("Read %d rows from %s", len(rows), path)

	client := classify.NewClient(cfg.Classifier.URL,
		classify.WithLogger(logger),
		classify.WithTimeout(cfg.Classifier.Timeout),
	)

	prog := newProgress(logger)
	result, err := client.Classify(ctx, classify.BuildRequest(filepath.Base(path), rows))
	if err != nil {
		if classify.IsClassificationError(err) {
			printError("File could not be classified")
			printDetail("%v", err)
		}
		return err
	}
	prog.done(fmt.Sprintf("Classified as %s", result.Format))

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal classification: %w", err)
	}
	data = append(data, '\n')
	_, err = os.Stdout.Write(data)
	return err
}
