package middleware

import (
	"context"
	"time"

	"github.com/shrek82/tagcheck/logger"
	"github.com/shrek82/tagcheck/schema"
)

// SlowLogMiddleware logs schema loads that take longer than the specified threshold.
type SlowLogMiddleware struct {
	Threshold time.Duration
	logger    logger.Logger
}

// NewSlowLog creates a new SlowLogMiddleware.
// threshold: loads taking at least this long are logged; zero logs every load.
func NewSlowLog(threshold time.Duration, l logger.Logger) *SlowLogMiddleware {
	return &SlowLogMiddleware{
		Threshold: threshold,
		logger:    l,
	}
}

// SetLogger sets the logger slow loads are written to.
func (m *SlowLogMiddleware) SetLogger(l logger.Logger) {
	m.logger = l
}

func (m *SlowLogMiddleware) Name() string {
	return "SlowLog"
}

func (m *SlowLogMiddleware) Init() error {
	if m.logger == nil {
		m.logger = logger.NewStdLogger()
	}
	return nil
}

func (m *SlowLogMiddleware) Shutdown() error {
	return nil
}

func (m *SlowLogMiddleware) Process(ctx context.Context, src schema.Source, next schema.LoadFunc) (*schema.List, error) {
	start := time.Now()
	l, err := next(ctx, src)
	duration := time.Since(start)

	if duration >= m.Threshold {
		columns := 0
		if l != nil {
			columns = l.Len()
		}
		m.logger.WithFields(map[string]any{
			"source":   src.Name(),
			"duration": duration.String(),
			"columns":  columns,
		}).Warn("[SLOW SCHEMA] load took %v (err=%v)", duration, err)
	}
	return l, err
}
