package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitNotFound     = 1
	ExitUsageError   = 2
	ExitRuntimeError = 3
)

var rootCmd = &cobra.Command{
	Use:   "constlist",
	Short: "Constant lists from annotated Go constants",
	Long: "Constlist reads the doc comments of Go constants tagged with @ConstantList <name> " +
		"and reports each list's values and labels.",
}

// Run executes the root command and returns an exit code.
func Run() int {
	return run(os.Args[1:])
}

func run(args []string) int {
	exitCode = ExitSuccess
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// fail reports a runtime error and sets the exit code.
func fail(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	exitCode = ExitRuntimeError
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print constlist version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "constlist version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(labelCmd)
	rootCmd.AddCommand(existsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}
