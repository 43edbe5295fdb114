package model

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// LoadOptions configures which files LoadDirs parses.
type LoadOptions struct {
	ParseOptions
	// Extensions limits parsing to these file suffixes. Defaults to ".go".
	Extensions []string
	// Exclude holds filepath.Match patterns tested against the slash path
	// relative to the root and against the base name.
	Exclude []string
}

// ParseFile reads and parses one source file.
func ParseFile(path string, opts ParseOptions) (*FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileReadFailed, path, err)
	}
	return ParseLines(path, strings.Split(string(data), "\n"), opts)
}

// LoadDirs walks every root in lexical order, parses the matching files and
// accumulates their declarations into one registry. Read failures abort the
// walk; syntax errors are collected and returned joined with the registry.
func LoadDirs(ctx context.Context, roots []string, opts LoadOptions) (*Registry, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = []string{".go"}
	}

	reg := NewRegistry()
	var errs []error

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrFileReadFailed, path, err)
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			rel, _ := filepath.Rel(root, path)
			if excluded(filepath.ToSlash(rel), d.Name(), opts.Exclude) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !slices.Contains(exts, filepath.Ext(path)) {
				return nil
			}

			if opts.Logger != nil {
				opts.Logger.Info("Validating DB fields in: %s", path)
			}

			res, err := ParseFile(path, opts.ParseOptions)
			if err != nil && errors.Is(err, ErrFileReadFailed) {
				return err
			}
			if res != nil {
				reg.AddFile(res)
			}
			if err != nil {
				errs = append(errs, err)
			}
			return nil
		})
		if err != nil {
			return reg, err
		}
	}

	return reg, errors.Join(errs...)
}

func excluded(rel, base string, patterns []string) bool {
	if rel == "." {
		return false
	}
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}
