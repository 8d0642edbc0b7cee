package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tiksanauto/cartitle/internal/bootstrap"
)

func newCacheCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the translation cache",
	}

	rootCommand.AddCommand(&cobra.Command{
		Use:   "get <title>",
		Short: "Print the cached translation of a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.URL == "" {
				return errors.New("no cache configured: set cache.url, CARTITLE_CACHE_URL or DATABASE_URL")
			}

			app := bootstrap.New(bootstrap.DefaultShutdownTimeout)
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				cache, err := bootstrap.OpenCache(ctx, app, cfg.Cache, nil)
				if err != nil {
					return err
				}

				source := strings.TrimSpace(args[0])
				translated, ok := cache.Get(ctx, source)
				if !ok {
					_, err := color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "%s is not cached\n", source)
					return err
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), translated); err != nil {
					return fmt.Errorf("fmt.Fprintln > %w", err)
				}
				return nil
			})
		},
	})
	return rootCommand
}
