package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/shrek82/tagcheck/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// errCheckFailed is returned once the diagnostics have already been printed.
var errCheckFailed = errors.New("check failed")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tagcheck",
	Short: "Check struct tags against a database schema",
	Long: `tagcheck keeps annotated Go structs consistent with the database
columns they bind to. It is meant to run in CI.

Usage:
  tagcheck check           # Reconcile structs with the schema
  tagcheck check --watch   # Re-check whenever a source file changes
  tagcheck dump            # Print the parsed declarations as JSON
  tagcheck schema export   # Print the schema as JSON
  tagcheck gen users       # Scaffold annotated structs from tables`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath, "config file path")
}

// loadConfig reads the --config file, falling back to defaults when it does not exist.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithFallback(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}
