// Package proptest provides seeded random generation for property tests of
// the query builder. A failing property logs its seed; set PROPTEST_SEED to
// replay it.
//
//	func TestBindingsAlign(t *testing.T) {
//	    proptest.QuickCheck(t, "bindings align", func(g *proptest.Generator) bool {
//	        v := g.BindValue()
//	        ...
//	    })
//	}
package proptest

import (
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// Generator wraps a seeded random source. The seed is kept so failures can
// be reproduced.
type Generator struct {
	rng  *rand.Rand
	seed int64
}

// New creates a Generator. A zero seed uses the current time.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the seed used by this generator.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Intn returns a random int in [0, n).
func (g *Generator) Intn(n int) int {
	return g.rng.Intn(n)
}

// IntRange returns a random int in [lo, hi].
func (g *Generator) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.Intn(hi-lo+1)
}

// Bool returns true half of the time.
func (g *Generator) Bool() bool {
	return g.rng.Intn(2) == 1
}

// Float64Range returns a random float in [lo, hi).
func (g *Generator) Float64Range(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// Config controls how many trials a property runs.
type Config struct {
	NumTrials int
	Seed      int64
}

func effectiveSeed(cfg Config) int64 {
	if env := os.Getenv("PROPTEST_SEED"); env != "" {
		if seed, err := strconv.ParseInt(env, 10, 64); err == nil {
			return seed
		}
	}
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return time.Now().UnixNano()
}

// Check runs prop NumTrials times (default 100) against one generator and
// stops at the first failing trial.
func Check(t *testing.T, name string, cfg Config, prop func(g *Generator) bool) {
	t.Helper()

	if cfg.NumTrials <= 0 {
		cfg.NumTrials = 100
	}
	seed := effectiveSeed(cfg)
	g := New(seed)

	for i := 0; i < cfg.NumTrials; i++ {
		if !prop(g) {
			t.Errorf("proptest %q failed on trial %d (seed=%d, use PROPTEST_SEED=%d to reproduce)",
				name, i+1, seed, seed)
			return
		}
	}
}

// QuickCheck runs prop with the default configuration.
func QuickCheck(t *testing.T, name string, prop func(g *Generator) bool) {
	t.Helper()
	Check(t, name, Config{}, prop)
}
