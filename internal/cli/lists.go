package cli

import (
	"fmt"
	"strconv"

	"github.com/dshills/constlist/internal/annotation"
	"github.com/dshills/constlist/internal/cache"
	"github.com/dshills/constlist/internal/config"
	"github.com/dshills/constlist/internal/constlist"
	"github.com/dshills/constlist/internal/output"
	"github.com/spf13/cobra"
)

// Shared lookup flags
var (
	flagDir          string
	flagFormat       string
	flagOut          string
	flagDebug        bool
	flagCacheBackend string
	flagCacheDir     string
	flagTTL          int
)

func addLookupFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flagDir, "dir", "C", ".", "Package directory containing the type")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown, yaml)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&flagDebug, "debug", false, "Disable the cache and log every scan")
	cmd.Flags().StringVar(&flagCacheBackend, "cache-backend", "", "Cache backend (memory, file)")
	cmd.Flags().StringVar(&flagCacheDir, "cache-dir", "", "Cache directory for the file backend")
	cmd.Flags().IntVar(&flagTTL, "ttl", 0, "Cache entry lifetime in seconds")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagDebug {
		m["debug"] = "true"
	}
	if flagCacheBackend != "" {
		m["cache.backend"] = flagCacheBackend
	}
	if flagCacheDir != "" {
		m["cache.dir"] = flagCacheDir
	}
	if flagTTL > 0 {
		m["cache.ttlSeconds"] = strconv.Itoa(flagTTL)
	}
	return m
}

// openCache returns the configured cache backend.
func openCache(cfg config.Config) (cache.Cache[annotation.Lists], error) {
	if cfg.Cache.Backend == config.BackendMemory {
		return cache.NewMemory[annotation.Lists](cache.WithCopy(annotation.Lists.Clone)), nil
	}
	c, err := cache.NewFile[annotation.Lists](cfg.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return c, nil
}

func cacheTTL(cfg config.Config) cache.TTL {
	if cfg.Cache.TTLSeconds > 0 {
		return cache.Seconds(cfg.Cache.TTLSeconds)
	}
	return cache.DefaultTTL
}

func newRegistry(cfg config.Config) (*constlist.Registry, error) {
	c, err := openCache(cfg)
	if err != nil {
		return nil, err
	}
	return constlist.New(constlist.Options{
		Cache:  c,
		TTL:    cacheTTL(cfg),
		Debug:  cfg.Debug,
		Logger: newLogger(cfg.Debug),
	}), nil
}

// setup loads the effective config and a registry for it.
func setup() (config.Config, *constlist.Registry, error) {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return config.Config{}, nil, err
	}
	if _, err := output.GetWriter(cfg.Format); err != nil {
		return config.Config{}, nil, err
	}
	r, err := newRegistry(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, r, nil
}

func writeLists(cmd *cobra.Command, lists annotation.Lists, format string) error {
	if flagOut != "" {
		return output.WriteLists(lists, format, flagOut)
	}
	w, err := output.GetWriter(format)
	if err != nil {
		return err
	}
	return w.Write(cmd.OutOrStdout(), lists)
}

var getCmd = &cobra.Command{
	Use:   "get <Type>",
	Short: "Show every constant list of a type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, r, err := setup()
		if err != nil {
			return err
		}
		lists, err := r.Get(cmd.Context(), flagDir, args[0])
		if err != nil {
			fail(cmd, err)
			return nil
		}
		if err := writeLists(cmd, lists, cfg.Format); err != nil {
			fail(cmd, fmt.Errorf("writing output: %w", err))
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list <Type> <list>",
	Short: "Show one constant list of a type",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, r, err := setup()
		if err != nil {
			return err
		}
		l, err := r.List(cmd.Context(), flagDir, args[0], args[1])
		if err != nil {
			fail(cmd, err)
			return nil
		}
		if len(l.Entries) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "No constant list %q in %s\n", args[1], args[0])
			exitCode = ExitNotFound
			return nil
		}
		if err := writeLists(cmd, annotation.Lists{l}, cfg.Format); err != nil {
			fail(cmd, fmt.Errorf("writing output: %w", err))
		}
		return nil
	},
}

var labelCmd = &cobra.Command{
	Use:   "label <Type> <list> <value>",
	Short: "Print the label of a constant value",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, r, err := setup()
		if err != nil {
			return err
		}
		label, ok, err := r.Label(cmd.Context(), flagDir, args[0], args[1], args[2])
		if err != nil {
			fail(cmd, err)
			return nil
		}
		if !ok {
			exitCode = ExitNotFound
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), label)
		return nil
	},
}

var existsCmd = &cobra.Command{
	Use:   "exists <Type> <list> <value>",
	Short: "Report whether a value belongs to a constant list",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, r, err := setup()
		if err != nil {
			return err
		}
		ok, err := r.Exists(cmd.Context(), flagDir, args[0], args[1], args[2])
		if err != nil {
			fail(cmd, err)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), ok)
		if !ok {
			exitCode = ExitNotFound
		}
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{getCmd, listCmd, labelCmd, existsCmd} {
		addLookupFlags(cmd)
	}
}
