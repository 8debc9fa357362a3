package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dshills/constlist/internal/annotation"
	"github.com/dshills/constlist/internal/cache"
	"github.com/dshills/constlist/internal/config"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the constant list cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all cached constant lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		c, err := cache.NewFile[annotation.Lists](cfg.Cache.Dir)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		if !c.Clear() {
			fail(cmd, fmt.Errorf("clearing cache %s", c.Dir()))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")
		return nil
	},
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		if cfg.Cache.Backend == config.BackendMemory {
			fmt.Fprintln(cmd.OutOrStdout(), "Cache backend is memory; nothing is persisted.")
			return nil
		}
		c, err := cache.NewFile[annotation.Lists](cfg.Cache.Dir)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		stats, err := c.GetStats()
		if err != nil {
			return fmt.Errorf("reading cache stats: %w", err)
		}
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheShowCmd)
}
