package main

import (
	"encoding/json"
	"os"

	"github.com/shrek82/tagcheck/report"
	"github.com/shrek82/tagcheck/runner"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the parsed struct declarations as JSON",
	Long: `Parse the configured roots and print every declaration with its
attributes and fields. No schema is loaded.

Examples:
  tagcheck dump
  tagcheck dump --bound`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

var dumpBound bool

func init() {
	rootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().BoolVar(&dumpBound, "bound", false, "only print declarations with a table attribute")
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// warnings go to stderr so stdout stays valid JSON
	r := runner.New(cfg, cfg.Logger(), report.NewPrinter(os.Stderr, report.FormatText, false))
	reg, err := r.LoadRegistry(cmd.Context())
	if err != nil {
		return err
	}

	decls := reg.Declarations()
	if dumpBound {
		decls = reg.Bound()
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(decls)
}
