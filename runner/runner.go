// Package runner wires configuration, source loading, schema sources and
// the checker into the CI pipeline used by the tagcheck command.
package runner

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/shrek82/tagcheck/checker"
	"github.com/shrek82/tagcheck/config"
	"github.com/shrek82/tagcheck/logger"
	"github.com/shrek82/tagcheck/middleware"
	"github.com/shrek82/tagcheck/model"
	"github.com/shrek82/tagcheck/report"
	"github.com/shrek82/tagcheck/schema"
)

// ErrNoSchemaSource is returned when the config names no schema source.
var ErrNoSchemaSource = errors.New("no schema source configured: set schema.url, schema.file or schema.driver")

// Runner runs the parse, load and check pipeline.
type Runner struct {
	Config  *config.Config
	Logger  logger.Logger
	Printer *report.Printer
}

// New creates a runner.
func New(cfg *config.Config, l logger.Logger, p *report.Printer) *Runner {
	return &Runner{Config: cfg, Logger: l, Printer: p}
}

// BaseSource builds the configured schema source without middleware.
func BaseSource(cfg *config.Config, l logger.Logger) (schema.Source, error) {
	s := cfg.Schema
	switch {
	case s.Driver != "":
		return &schema.DBSource{
			Driver: s.Driver,
			DSN:    s.DSN,
			Tables: s.Tables,
			Secret: s.SecretColumns,
			Logger: l,
		}, nil
	case s.File != "":
		return &schema.FileSource{Path: s.File}, nil
	case s.URL != "":
		return &schema.HTTPSource{URL: s.URL, Client: &http.Client{Timeout: s.Timeout}}, nil
	}
	return nil, ErrNoSchemaSource
}

// Source builds the configured schema source behind its middleware. extra
// middlewares run outermost, before the configured cache.
func Source(cfg *config.Config, l logger.Logger, extra ...schema.Middleware) (*schema.Chained, error) {
	base, err := BaseSource(cfg, l)
	if err != nil {
		return nil, err
	}

	mws := append([]schema.Middleware{}, extra...)
	switch cfg.Cache.Kind {
	case "memory":
		mws = append(mws, middleware.NewMemoryCache(cfg.Cache.TTL))
	case "file":
		mws = append(mws, middleware.NewFileCache(cfg.Cache.Dir, cfg.Cache.TTL))
	case "redis":
		rc := middleware.NewRedisCache(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		}, cfg.Cache.TTL)
		rc.Logger = l
		mws = append(mws, rc)
	}
	mws = append(mws, middleware.NewSlowLog(cfg.Schema.SlowThreshold, l))

	return schema.Chain(base, mws...)
}

// LoadRegistry parses every configured root. Warnings and replaced
// declarations go to the printer; duplicates are fatal in strict mode.
func (r *Runner) LoadRegistry(ctx context.Context) (*model.Registry, error) {
	cfg := r.Config
	reg, err := model.LoadDirs(ctx, cfg.Roots, model.LoadOptions{
		ParseOptions: model.ParseOptions{
			Marker: cfg.Check.AttributeMarker,
			Logger: r.Logger,
		},
		Extensions: cfg.Extensions,
		Exclude:    cfg.Exclude,
	})
	if reg == nil {
		return nil, err
	}

	for _, w := range reg.Warnings {
		r.Printer.Warning(w.String())
	}
	for _, d := range reg.Duplicates {
		r.Printer.Warning(fmt.Sprintf("struct %s declared in %s is replaced by the one in %s", d.Name, d.Previous, d.Current))
	}
	if cfg.Check.StrictDuplicates {
		err = errors.Join(err, reg.DuplicateErr())
	}
	return reg, err
}

// Check runs one full pass: parse the roots, load the schema from src and
// reconcile the two. It reports whether the run was clean. The returned
// error is only set when output could not be written.
func (r *Runner) Check(ctx context.Context, src schema.Source) (bool, error) {
	cfg := r.Config

	reg, loadErr := r.LoadRegistry(ctx)
	if loadErr != nil {
		r.Printer.Fatal(report.Collect(loadErr, nil)...)
	}
	if reg == nil || errors.Is(loadErr, model.ErrFileReadFailed) {
		return false, r.Printer.Finish(0)
	}

	bound := reg.Bound()
	names := make([]string, len(bound))
	for i, d := range bound {
		names[i] = d.Name
	}
	r.Printer.Checking(names)

	lctx, cancel := context.WithTimeout(ctx, cfg.Schema.Timeout)
	defer cancel()
	r.Logger.Info("Fetching schema from %s source", src.Name())
	list, err := src.Load(lctx)
	if err != nil {
		r.Printer.Fatal(report.FromError(fmt.Errorf("load schema: %w", err)))
		return false, r.Printer.Finish(len(bound))
	}

	res := checker.Check(reg, list, checker.Options{
		BindingTags:      cfg.Check.BindingTags,
		SerializationTag: cfg.Check.SerializationTag,
		FailFast:         cfg.Check.FailFast,
		Logger:           r.Logger,
	})

	byPass := map[int][]report.Diagnostic{}
	for _, v := range res.Violations {
		byPass[v.Pass()] = append(byPass[v.Pass()], report.FromViolation(v))
	}
	r.Printer.Progress("Check 1: Check fields to ensure they actually exist on db")
	r.Printer.Fatal(byPass[1]...)
	if len(byPass[1]) == 0 || !cfg.Check.FailFast {
		r.Printer.Progress("Check 2: Check db fields to look for missing fields")
		r.Printer.Fatal(byPass[2]...)
	}

	ok := r.Printer.Failed() == 0
	return ok, r.Printer.Finish(len(bound))
}
