package grading

import (
	"time"

	"github.com/abhisek/tinysteps/internal/logger"
)

// DefaultConcurrency bounds the in-flight completion calls of a batch.
const DefaultConcurrency = 4

// Option configures a Grader.
type Option func(*Grader)

// WithConcurrency sets the batch worker limit. Values below 1 mean 1.
func WithConcurrency(n int) Option {
	return func(g *Grader) { g.concurrency = max(n, 1) }
}

// WithLogger sets the grader's logger.
func WithLogger(l *logger.Logger) Option {
	return func(g *Grader) { g.log = logger.OrNop(l) }
}

// WithClock overrides the time source for GradedAt.
func WithClock(now func() time.Time) Option {
	return func(g *Grader) { g.now = now }
}
