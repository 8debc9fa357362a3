package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dshills/constlist/internal/config"
	"github.com/dshills/constlist/internal/output"
	"github.com/spf13/cobra"
)

var flagConfigForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage constlist configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil && !flagConfigForce {
			fmt.Fprintf(cmd.ErrOrStderr(), "Config file already exists at %s (use --force to overwrite)\n", path)
			return nil
		}

		if err := config.Save(config.Default()); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config file written to %s\n", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: "Set one configuration value in the config file.\n\n" +
		"Keys: format, debug, cache.backend, cache.dir, cache.ttlSeconds.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		cfg, err := config.LoadFile()
		if err != nil {
			// An unreadable file is replaced, starting from defaults
			cfg = config.Default()
		}

		if err := config.SetField(&cfg, key, value); err != nil {
			return err
		}
		if key == "format" {
			if _, err := output.GetWriter(value); err != nil {
				return err
			}
		}
		// The file may be partial; check what Load would see.
		if err := cfg.WithDefaults().Validate(); err != nil {
			return err
		}

		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&flagConfigForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}
