package attribution

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/newthinker/riskattr/internal/bootstrap"
	"github.com/newthinker/riskattr/internal/core"
)

// Bootstrapper produces confidence intervals for a regression's parameters
type Bootstrapper interface {
	Run(ctx context.Context) (*BootstrapRiskAttributionResult, error)
}

var (
	_ Bootstrapper = (*RollingBootstrap)(nil)
	_ Bootstrapper = (*DirectBootstrap)(nil)
)

// RollingBootstrap resamples the per-window outputs of a rolling attribution.
// Each window contributes one row [intercept, coefficients..., averages...];
// rows are resampled i.i.d. and the column means give basic intervals.
type RollingBootstrap struct {
	rolling *Rolling
	cfg     bootstrap.Config
	logger  *zap.Logger
}

// NewRollingBootstrap validates the input and binds it to sources
func NewRollingBootstrap(in RollingRegressionInput, sources Sources, opts Options) (*RollingBootstrap, error) {
	rolling, err := NewRolling(in, sources, opts)
	if err != nil {
		return nil, err
	}
	return &RollingBootstrap{
		rolling: rolling,
		cfg:     opts.bootstrapConfig(),
		logger:  opts.logger("bootstrap.rolling"),
	}, nil
}

// Run executes the rolling attribution and bootstraps its window means
func (b *RollingBootstrap) Run(ctx context.Context) (*BootstrapRiskAttributionResult, error) {
	rolled, err := b.rolling.Run(ctx)
	if err != nil {
		return nil, err
	}

	n := len(rolled.Regressions)
	if n < 2 {
		return nil, core.WrapError(core.ErrInsufficientData,
			fmt.Errorf("%d rolling windows, need at least 2 to resample", n))
	}

	def := b.rolling.def
	k := len(def.independents)
	features := mat.NewDense(n, 1+k+k+1, nil)
	for w := 0; w < n; w++ {
		row := make([]float64, 0, 2*k+2)
		row = append(row, rolled.Regressions[w].Intercept)
		for _, c := range rolled.Regressions[w].Coefficients {
			row = append(row, c.Coef)
		}
		for _, a := range rolled.Averages[w] {
			row = append(row, a.Avg)
		}
		features.SetRow(w, row)
	}

	intervals, err := bootstrap.IID{Config: b.cfg}.ConfInt(ctx, features, bootstrap.ColumnMean, bootstrap.Basic)
	if err != nil {
		return nil, err
	}

	// Intervals past 1+k belong to the averages and are not reported.
	b.logger.Debug("rolling bootstrap done",
		zap.Int("windows", n),
		zap.Int("features", len(intervals)),
	)
	return newBootstrapResult(def.dependent, def.independents, intervals[:1+k]), nil
}

// DirectBootstrap resamples the residuals of the full-history regression
type DirectBootstrap struct {
	def    *Definition
	cfg    bootstrap.Config
	logger *zap.Logger
}

// NewDirectBootstrap validates the input and binds it to sources
func NewDirectBootstrap(in RegressionInput, sources Sources, opts Options) (*DirectBootstrap, error) {
	def, err := NewDefinition(in, sources)
	if err != nil {
		return nil, err
	}
	return &DirectBootstrap{
		def:    def,
		cfg:    opts.bootstrapConfig(),
		logger: opts.logger("bootstrap.direct"),
	}, nil
}

// Run bootstraps percentile intervals for the intercept and every coefficient
func (b *DirectBootstrap) Run(ctx context.Context) (*BootstrapRiskAttributionResult, error) {
	y, err := b.def.AlignedDependent(nil)
	if err != nil {
		return nil, err
	}
	x, err := b.def.AlignedIndependent(nil)
	if err != nil {
		return nil, err
	}

	est, err := bootstrap.SemiParametric{Config: b.cfg}.Run(ctx, y, x)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("direct bootstrap done",
		zap.Int("observations", len(y)),
		zap.Int("rank", est.Fit.Rank),
	)
	return newBootstrapResult(b.def.dependent, b.def.independents, est.Intervals), nil
}
