package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shrek82/tagcheck/config"
	"github.com/shrek82/tagcheck/runner"
	"github.com/shrek82/tagcheck/schema"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect the configured schema source",
}

var schemaExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the schema as a JSON column list",
	Long: `Load the configured schema source and write it in the column list
format accepted by schema.file and schema.url. Run it against a live
database to produce a seed file for CI.

Examples:
  tagcheck schema export > seed.json
  tagcheck schema export --out testdata/seed.json`,
	Args: cobra.NoArgs,
	RunE: runSchemaExport,
}

var schemaExportOut string

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(schemaExportCmd)

	schemaExportCmd.Flags().StringVarP(&schemaExportOut, "out", "o", "", "output file (default stdout)")
}

// loadSchema loads the configured schema through its middleware chain.
func loadSchema(ctx context.Context, cfg *config.Config) (*schema.List, error) {
	src, err := runner.Source(cfg, cfg.Logger())
	if err != nil {
		return nil, err
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(ctx, cfg.Schema.Timeout)
	defer cancel()
	list, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	return list, nil
}

func runSchemaExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	list, err := loadSchema(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if schemaExportOut == "" {
		return schema.Encode(cmd.OutOrStdout(), list)
	}
	f, err := os.Create(schemaExportOut)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := schema.Encode(f, list); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d columns from %d tables to %s\n", list.Len(), len(list.Tables()), schemaExportOut)
	return f.Close()
}
