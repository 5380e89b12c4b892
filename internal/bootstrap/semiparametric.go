package bootstrap

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/newthinker/riskattr/internal/regression"
)

// SemiParametric bootstraps an OLS fit by resampling its residuals.
// Each replicate keeps the design fixed and refits y* = ŷ + e*, where e* is
// drawn with replacement from the centred residuals scaled by sqrt(n/(n-p)).
type SemiParametric struct {
	Config
}

// Estimate is the fitted model together with its bootstrap intervals
type Estimate struct {
	Fit *regression.Result
	// Intervals aligns with Fit.Params
	Intervals []Interval
	// Replicates holds one row of refitted params per resample
	Replicates *mat.Dense
}

// Run fits y on x and bootstraps percentile intervals for every parameter
func (s SemiParametric) Run(ctx context.Context, y []float64, x *mat.Dense) (*Estimate, error) {
	cfg := s.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	fit, err := regression.OLS(x, y)
	if err != nil {
		return nil, err
	}

	n := len(y)
	scale := 1.0
	if fit.DoF > 0 {
		scale = math.Sqrt(float64(n) / float64(fit.DoF))
	}
	centre := stat.Mean(fit.Residuals, nil)
	resid := make([]float64, n)
	for i, e := range fit.Residuals {
		resid[i] = (e - centre) * scale
	}

	seed := cfg.seed()
	reps := mat.NewDense(cfg.Resamples, len(fit.Params), nil)
	err = cfg.replicate(ctx, func(b int) error {
		rng := stream(seed, b)
		ystar := make([]float64, n)
		for i := range ystar {
			ystar[i] = fit.Fitted[i] + resid[rng.IntN(n)]
		}
		refit, err := regression.OLS(x, ystar)
		if err != nil {
			return err
		}
		reps.SetRow(b, refit.Params)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Estimate{
		Fit:        fit,
		Intervals:  intervals(fit.Params, reps, cfg.Confidence, Percentile),
		Replicates: reps,
	}, nil
}
