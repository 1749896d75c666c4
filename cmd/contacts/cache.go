package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DeBrosOfficial/contacts/pkg/config"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
	"github.com/DeBrosOfficial/contacts/pkg/olric"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the shared page cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached page from the olric DMap",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPageStore(cmd, func(ctx context.Context, ps *olric.PageStore) error {
			n, err := ps.Clear(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Removed %d cached pages from %s\n", n, cfg.Cache.DMap)
			return nil
		})
	},
}

var cacheHealthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the olric cluster answers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireOlric(); err != nil {
			return err
		}
		oc, err := newOlricClient()
		if err != nil {
			return err
		}
		defer oc.Close(context.Background())

		if err := oc.Health(cmd.Context()); err != nil {
			return fmt.Errorf("olric unhealthy: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ olric healthy (%v)\n", cfg.Cache.OlricServers)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheHealthCmd)
}

func requireOlric() error {
	if cfg.Cache.Backend != config.CacheBackendOlric {
		return errors.Newf("cache backend is %q; set cache.backend: olric to use a shared cache", cfg.Cache.Backend)
	}
	return nil
}

func withPageStore(cmd *cobra.Command, fn func(context.Context, *olric.PageStore) error) error {
	if err := requireOlric(); err != nil {
		return err
	}
	oc, err := newOlricClient()
	if err != nil {
		return err
	}
	defer oc.Close(context.Background())

	ps, err := oc.PageStore(cfg.Cache.DMap)
	if err != nil {
		return err
	}
	return fn(cmd.Context(), ps)
}
