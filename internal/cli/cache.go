package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mydressline-hue/stockpile/pkg/cache"
	"github.com/mydressline-hue/stockpile/pkg/colors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the color-mapping and price cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheColorsCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var pricesSource string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cached color mappings or price records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			defer store.Close()

			if pricesSource != "" {
				if err := store.Delete(ctx, cache.PriceRecordsKey(pricesSource)); err != nil {
					return fmt.Errorf("clear price records: %w", err)
				}
				printSuccess("Cleared price records for %s", pricesSource)
				return nil
			}

			if err := store.Delete(ctx, cache.ColorMappingKey()); err != nil {
				return fmt.Errorf("clear color mappings: %w", err)
			}
			printSuccess("Cleared color mappings")
			return nil
		},
	}

	cmd.Flags().StringVar(&pricesSource, "prices", "", "clear price records for this source instead")
	return cmd
}

// cacheColorsCommand creates the "cache colors" subcommand.
func (c *CLI) cacheColorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "colors",
		Short: "List the persisted color mappings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			defer store.Close()

			mapping, err := colors.NewStore(store).Load(ctx)
			if err != nil {
				return err
			}
			if len(mapping) == 0 {
				printInfo("No color mappings persisted")
				return nil
			}

			codes := make([]string, 0, len(mapping))
			for code := range mapping {
				codes = append(codes, code)
			}
			sort.Strings(codes)

			for _, code := range codes {
				printKeyValue(code, mapping[code])
			}
			printDetail("%d mappings", len(mapping))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			dir := cfg.Cache.Dir
			if dir == "" {
				if dir, err = cacheDir(); err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
			}
			fmt.Println(dir)
			return nil
		},
	}
}
