package lessons

import (
	"math/rand/v2"

	"github.com/abhisek/tinysteps/internal/logger"
)

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the generator's logger.
func WithLogger(l *logger.Logger) Option {
	return func(g *Generator) { g.log = logger.OrNop(l) }
}

// WithIntn replaces the random source used to pick difficulty words.
// intn must return a value in [0, n).
func WithIntn(intn func(n int) int) Option {
	return func(g *Generator) { g.intn = intn }
}

func defaultIntn(n int) int { return rand.IntN(n) }
