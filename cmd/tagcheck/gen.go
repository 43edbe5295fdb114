package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shrek82/tagcheck/gen"
	"github.com/spf13/cobra"
)

var genCmd = &cobra.Command{
	Use:   "gen [tables...]",
	Short: "Scaffold annotated structs from schema tables",
	Long: `Generate one Go file with an annotated struct per table. Secret
columns are listed in a comment and never bound. Without arguments every
table in the schema is generated.

Examples:
  tagcheck gen users bots --out types/models_gen.go
  tagcheck gen --package models`,
	RunE: runGen,
}

var (
	genPackage   string
	genOut       string
	genOverwrite bool
)

func init() {
	rootCmd.AddCommand(genCmd)

	genCmd.Flags().StringVarP(&genPackage, "package", "p", "types", "package name of the generated file")
	genCmd.Flags().StringVarP(&genOut, "out", "o", "", "output file (default stdout)")
	genCmd.Flags().BoolVar(&genOverwrite, "overwrite", false, "replace the output file if it exists")
}

func runGen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	list, err := loadSchema(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	tables := args
	if len(tables) == 0 {
		tables = list.Tables()
	}
	opts := gen.Options{
		Package:          genPackage,
		Marker:           cfg.Check.AttributeMarker,
		BindingTag:       cfg.Check.BindingTags[0],
		SerializationTag: cfg.Check.SerializationTag,
	}

	if genOut == "" {
		return gen.Render(cmd.OutOrStdout(), list, tables, opts)
	}
	if _, err := os.Stat(genOut); err == nil && !genOverwrite {
		return fmt.Errorf("%s already exists, use --overwrite to replace it", genOut)
	}
	if err := os.MkdirAll(filepath.Dir(genOut), 0o755); err != nil {
		return err
	}
	f, err := os.Create(genOut)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gen.Render(f, list, tables, opts); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Generated %d structs in %s\n", len(tables), genOut)
	return f.Close()
}
