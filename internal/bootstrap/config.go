package bootstrap

import (
	"context"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/newthinker/riskattr/internal/core"
)

const (
	DefaultResamples  = 1000
	DefaultConfidence = 0.95
)

// Config controls a bootstrap run
type Config struct {
	Resamples  int
	Confidence float64
	// Seed fixes the random streams; 0 draws a fresh seed per run
	Seed uint64
	// Workers bounds concurrent replicates; values below 2 run sequentially
	Workers int
}

// Interval is a two-sided confidence interval
type Interval struct {
	Lower float64
	Upper float64
}

// Contains reports whether v lies within the interval, inclusive
func (i Interval) Contains(v float64) bool {
	return v >= i.Lower && v <= i.Upper
}

func (c Config) withDefaults() Config {
	if c.Resamples == 0 {
		c.Resamples = DefaultResamples
	}
	if c.Confidence == 0 {
		c.Confidence = DefaultConfidence
	}
	return c
}

func (c Config) validate() error {
	if c.Resamples < 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("resamples must be positive, got %d", c.Resamples))
	}
	if c.Confidence <= 0 || c.Confidence >= 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("confidence must be in (0, 1), got %v", c.Confidence))
	}
	return nil
}

func (c Config) seed() uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return rand.Uint64()
}

// stream returns the generator for replicate b. Streams depend only on the
// seed and the replicate index, so results do not depend on Workers.
func stream(seed uint64, b int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(b)))
}

// replicate calls fn once per replicate index, concurrently when configured.
// fn must only write state owned by its index.
func (c Config) replicate(ctx context.Context, fn func(b int) error) error {
	if c.Workers < 2 {
		for b := 0; b < c.Resamples; b++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(b); err != nil {
				return err
			}
		}
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Workers)
	for b := 0; b < c.Resamples; b++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(b)
		})
	}
	return g.Wait()
}
