package attribution

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/newthinker/riskattr/internal/core"
	"github.com/newthinker/riskattr/internal/regression"
)

// Rolling repeats the attribution over trailing windows of fixed length
type Rolling struct {
	def     *Definition
	window  int
	workers int
	logger  *zap.Logger
}

// NewRolling validates the input and binds it to sources. The window length
// is checked when Run starts.
func NewRolling(in RollingRegressionInput, sources Sources, opts Options) (*Rolling, error) {
	def, err := NewDefinition(in.RegressionInput, sources)
	if err != nil {
		return nil, err
	}
	return &Rolling{
		def:     def,
		window:  in.Window,
		workers: opts.Workers,
		logger:  opts.logger("rolling"),
	}, nil
}

// Definition returns the validated regression definition
func (r *Rolling) Definition() *Definition { return r.def }

// Run fits one regression per window, oldest first
func (r *Rolling) Run(ctx context.Context) (*RollingResult, error) {
	it, err := r.def.Windows(r.window)
	if err != nil {
		return nil, err
	}

	n := it.Len()
	res := &RollingResult{
		Regressions: make([]RegressionResult, n),
		Averages:    make([][]Average, n),
		Dates:       make([]core.DayKey, n),
	}

	if r.workers > 1 && n > 1 {
		err = r.runParallel(ctx, n, res)
	} else {
		err = r.runSequential(ctx, it, res)
	}
	if err != nil {
		return nil, err
	}

	if n > 0 {
		res.MinDate = res.Dates[0]
		res.MaxDate = res.Dates[n-1]
	}

	r.logger.Debug("rolling attribution done",
		zap.Int("window", r.window),
		zap.Int("windows", n),
		zap.Int("workers", max(r.workers, 1)),
	)
	return res, nil
}

func (r *Rolling) runSequential(ctx context.Context, it *WindowIterator, res *RollingResult) error {
	for it.Next() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := r.fit(it.Window(), res); err != nil {
			return err
		}
	}
	return it.Err()
}

func (r *Rolling) runParallel(ctx context.Context, n int, res *RollingResult) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w, err := r.def.window(r.window, i)
			if err != nil {
				return err
			}
			return r.fit(w, res)
		})
	}
	return g.Wait()
}

// fit stores window w's regression at its index
func (r *Rolling) fit(w Window, res *RollingResult) error {
	fit, err := regression.OLS(w.Independent, w.Dependent)
	if err != nil {
		return err
	}
	res.Regressions[w.Index] = newRegressionResult(fit, r.def.independents)
	res.Averages[w.Index] = r.def.averages(w.Dependent, w.Independent)
	res.Dates[w.Index] = w.AsOf
	return nil
}
