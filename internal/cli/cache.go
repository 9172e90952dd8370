package cli

import (
	"fmt"

	"github.com/egemengol/subtitles/internal/tmcache"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the translation cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the translation cache location and size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := tmcache.Open(cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		count, err := store.Len(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Cache: %s\n", store.Path())
		fmt.Fprintf(out, "  Enabled: %t\n", cfg.Cache.Enabled)
		fmt.Fprintf(out, "  Translations: %d\n", count)
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every cached translation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := tmcache.Open(cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if err := store.Purge(cmd.Context()); err != nil {
			return err
		}
		logger.Infow("Translation cache purged", "path", store.Path())
		fmt.Fprintf(cmd.OutOrStdout(), "Cache purged: %s\n", store.Path())
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}
