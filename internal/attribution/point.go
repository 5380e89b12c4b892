package attribution

import (
	"context"

	"go.uber.org/zap"

	"github.com/newthinker/riskattr/internal/regression"
)

// Point attributes the dependent asset's returns over the full shared history
type Point struct {
	def    *Definition
	logger *zap.Logger
}

// NewPoint validates the input and binds it to sources
func NewPoint(in RegressionInput, sources Sources, opts Options) (*Point, error) {
	def, err := NewDefinition(in, sources)
	if err != nil {
		return nil, err
	}
	return &Point{def: def, logger: opts.logger("point")}, nil
}

// Definition returns the validated regression definition
func (p *Point) Definition() *Definition { return p.def }

// Run fits the regression and computes full-history averages
func (p *Point) Run(ctx context.Context) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	y, err := p.def.AlignedDependent(nil)
	if err != nil {
		return nil, err
	}
	x, err := p.def.AlignedIndependent(nil)
	if err != nil {
		return nil, err
	}

	fit, err := regression.OLS(x, y)
	if err != nil {
		return nil, err
	}
	if fit.Rank < len(fit.Params) {
		p.logger.Debug("rank deficient design",
			zap.Int("rank", fit.Rank),
			zap.Int("params", len(fit.Params)),
		)
	}

	dates := p.def.dates
	return &Result{
		Regression: newRegressionResult(fit, p.def.independents),
		Averages:   p.def.averages(y, x),
		MinDate:    dates[0],
		MaxDate:    dates[len(dates)-1],
	}, nil
}
