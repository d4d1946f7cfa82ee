package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mydressline-hue/stockpile/pkg/errors"
	"github.com/mydressline-hue/stockpile/pkg/registry"
)

// registryCommand creates the discontinued-style registry command.
func (c *CLI) registryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Maintain sale-channel style ownership",
		Long: `Registry tracks which styles appear in sale-channel files. Styles absent
from the latest sale import are deactivated, and discontinued styles can be
purged from stored inventory.`,
	}

	cmd.AddCommand(c.registryRegisterCommand())
	cmd.AddCommand(c.registryListCommand())
	cmd.AddCommand(c.registryPurgeCommand())

	return cmd
}

// registryRegisterCommand creates the "registry register" subcommand.
func (c *CLI) registryRegisterCommand() *cobra.Command {
	var (
		source string
		column int
	)

	cmd := &cobra.Command{
		Use:   "register <file>",
		Short: "Register a sale file's styles as the source's active set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			rows, err := readRows(args[0])
			if err != nil {
				return err
			}
			styles := columnValues(rows, column)

			store, err := c.newRegistryStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			stats, err := registry.New(store, logger).RegisterSaleFileStyles(ctx, source, styles)
			if err != nil {
				return err
			}

			printSuccess("Registered %d styles for %s", stats.Registered, source)
			if stats.Deactivated > 0 {
				printDetail("%d styles deactivated", stats.Deactivated)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "sale source ID (required)")
	cmd.Flags().IntVar(&column, "column", 0, "zero-based column holding the style")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

// registryListCommand creates the "registry list" subcommand.
func (c *CLI) registryListCommand() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered styles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := c.newRegistryStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			records, err := store.List(ctx, source)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("No styles registered")
				return nil
			}

			for _, rec := range records {
				state := "inactive"
				if rec.Active {
					state = "active"
				}
				printKeyValue(rec.Style, fmt.Sprintf("%s (%s)", state, rec.SaleSourceID))
			}
			printDetail("%d styles", len(records))
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "limit to one sale source")
	return cmd
}

// registryPurgeCommand creates the "registry purge" subcommand.
func (c *CLI) registryPurgeCommand() *cobra.Command {
	var (
		source string
		scope  string
	)

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete stored inventory for styles no sale channel carries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.config()
			if err != nil {
				return err
			}

			store, err := c.newRegistryStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			inv := registry.NewMongoInventoryStore(store, cfg.Registry.Database)
			removed, err := registry.New(store, logger).RemoveDiscontinuedInventoryItems(ctx, inv, source, scope)
			if err != nil {
				return err
			}

			printSuccess("Purged %d inventory items for %s", removed, source)
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "data source whose inventory to purge (required)")
	cmd.Flags().StringVar(&scope, "scope", "", "limit ownership checks to one sale source")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}

// newRegistryStore connects to the configured registry database.
func (c *CLI) newRegistryStore(ctx context.Context) (*registry.MongoStore, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if cfg.Registry.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "registry.uri is not configured")
	}
	return registry.NewMongoStore(ctx, cfg.Registry.URI, cfg.Registry.Database)
}

// columnValues extracts one column from raw rows, dropping short rows.
func columnValues(rows [][]string, column int) []string {
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if column < len(row) {
			values = append(values, row[column])
		}
	}
	return values
}
