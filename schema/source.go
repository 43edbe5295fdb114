package schema

import (
	"context"
	"errors"
	"fmt"
)

// Source loads a schema column list.
type Source interface {
	// Name identifies the source kind in logs, e.g. "http".
	Name() string
	// Key identifies the concrete location the source reads from, used for caching.
	Key() string
	Load(ctx context.Context) (*List, error)
}

// LoadFunc is the function type for the next step in the middleware chain.
type LoadFunc func(ctx context.Context, src Source) (*List, error)

// Component is the base interface for source middleware.
type Component interface {
	Name() string
	Init() error
	Shutdown() error
}

// Middleware intercepts schema loads.
type Middleware interface {
	Component
	Process(ctx context.Context, src Source, next LoadFunc) (*List, error)
}

// Chained is a Source whose loads pass through a middleware chain.
type Chained struct {
	src  Source
	mws  []Middleware
	load LoadFunc
}

// Chain initialises mws and wraps src so that mws[0] runs first.
func Chain(src Source, mws ...Middleware) (*Chained, error) {
	for i, mw := range mws {
		if err := mw.Init(); err != nil {
			for j := i - 1; j >= 0; j-- {
				mws[j].Shutdown()
			}
			return nil, fmt.Errorf("init middleware %s: %w", mw.Name(), err)
		}
	}

	next := func(ctx context.Context, s Source) (*List, error) {
		return s.Load(ctx)
	}
	for i := len(mws) - 1; i >= 0; i-- {
		mw, inner := mws[i], next
		next = func(ctx context.Context, s Source) (*List, error) {
			return mw.Process(ctx, s, inner)
		}
	}
	return &Chained{src: src, mws: mws, load: next}, nil
}

func (c *Chained) Name() string { return c.src.Name() }

func (c *Chained) Key() string { return c.src.Key() }

// Load runs the chain against the wrapped source.
func (c *Chained) Load(ctx context.Context) (*List, error) {
	return c.load(ctx, c.src)
}

// Close shuts the middlewares down in reverse order.
func (c *Chained) Close() error {
	var errs []error
	for i := len(c.mws) - 1; i >= 0; i-- {
		if err := c.mws[i].Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("shutdown middleware %s: %w", c.mws[i].Name(), err))
		}
	}
	return errors.Join(errs...)
}
