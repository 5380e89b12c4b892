package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/newthinker/riskattr/internal/core"
)

// Method selects how replicate quantiles become an interval
type Method string

const (
	// Basic reflects the quantiles around the point estimate
	Basic Method = "basic"
	// Percentile uses the replicate quantiles directly
	Percentile Method = "percentile"
)

// ParseMethod maps a method name to a Method
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case Basic, Percentile:
		return Method(s), nil
	}
	return "", core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown bootstrap method %q", s))
}

// Statistic maps a data matrix to a vector of estimates
type Statistic func(data *mat.Dense) []float64

// ColumnMean returns the mean of each column
func ColumnMean(data *mat.Dense) []float64 {
	_, c := data.Dims()
	out := make([]float64, c)
	for j := range out {
		out[j] = stat.Mean(mat.Col(nil, j, data), nil)
	}
	return out
}

// IID resamples whole rows with replacement
type IID struct {
	Config
}

// Replicates evaluates stat on Resamples row-resampled copies of data.
// Row b of the result holds replicate b.
func (b IID) Replicates(ctx context.Context, data *mat.Dense, fn Statistic) (*mat.Dense, error) {
	cfg := b.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg.replicates(ctx, cfg.seed(), data, fn)
}

// ConfInt returns one interval per element of stat(data)
func (b IID) ConfInt(ctx context.Context, data *mat.Dense, fn Statistic, method Method) ([]Interval, error) {
	cfg := b.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if method != Basic && method != Percentile {
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown bootstrap method %q", method))
	}

	reps, err := cfg.replicates(ctx, cfg.seed(), data, fn)
	if err != nil {
		return nil, err
	}
	return intervals(fn(data), reps, cfg.Confidence, method), nil
}

func (c Config) replicates(ctx context.Context, seed uint64, data *mat.Dense, fn Statistic) (*mat.Dense, error) {
	n, k := data.Dims()
	if n == 0 {
		return nil, core.WrapError(core.ErrInsufficientData, errors.New("bootstrap needs at least one row"))
	}

	width := len(fn(data))
	if width == 0 {
		return nil, errors.New("bootstrap: statistic returned no values")
	}

	out := mat.NewDense(c.Resamples, width, nil)
	err := c.replicate(ctx, func(b int) error {
		rng := stream(seed, b)
		sample := mat.NewDense(n, k, nil)
		for i := 0; i < n; i++ {
			sample.SetRow(i, data.RawRowView(rng.IntN(n)))
		}
		theta := fn(sample)
		if len(theta) != width {
			return fmt.Errorf("bootstrap: statistic returned %d values, want %d", len(theta), width)
		}
		out.SetRow(b, theta)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// intervals turns the replicate matrix into one interval per column.
// Non-finite replicates are ignored; a column with none left gets NaN bounds.
func intervals(estimate []float64, reps *mat.Dense, confidence float64, method Method) []Interval {
	alpha := 1 - confidence
	_, width := reps.Dims()
	out := make([]Interval, width)
	for j := range out {
		col := finite(mat.Col(nil, j, reps))
		if len(col) == 0 {
			out[j] = Interval{Lower: math.NaN(), Upper: math.NaN()}
			continue
		}
		sort.Float64s(col)
		lo := stat.Quantile(alpha/2, stat.LinInterp, col, nil)
		hi := stat.Quantile(1-alpha/2, stat.LinInterp, col, nil)

		switch method {
		case Basic:
			out[j] = Interval{Lower: 2*estimate[j] - hi, Upper: 2*estimate[j] - lo}
		default:
			out[j] = Interval{Lower: lo, Upper: hi}
		}
	}
	return out
}

func finite(v []float64) []float64 {
	out := v[:0]
	for _, x := range v {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}
