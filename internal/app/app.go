package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/newthinker/riskattr/internal/attribution"
	"github.com/newthinker/riskattr/internal/config"
	"github.com/newthinker/riskattr/internal/core"
	"github.com/newthinker/riskattr/internal/metrics"
	"github.com/newthinker/riskattr/internal/seriesstore"
	"github.com/newthinker/riskattr/internal/storage/archive"
)

// Run kinds, used as metric labels
const (
	KindPoint            = "point"
	KindRolling          = "rolling"
	KindBootstrapRolling = "bootstrap_rolling"
	KindBootstrapDirect  = "bootstrap_direct"
	KindAnalyze          = "analyze"
)

// BootstrapMethod selects which bootstrap variant to run
type BootstrapMethod string

const (
	// BootstrapRolling resamples per-window rolling regression outputs
	BootstrapRolling BootstrapMethod = "rolling"
	// BootstrapDirect resamples the residuals of the full-history regression
	BootstrapDirect BootstrapMethod = "direct"
)

// ParseBootstrapMethod maps a name to a BootstrapMethod
func ParseBootstrapMethod(s string) (BootstrapMethod, error) {
	switch BootstrapMethod(s) {
	case BootstrapRolling, BootstrapDirect:
		return BootstrapMethod(s), nil
	}
	return "", core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown bootstrap method %q, want rolling or direct", s))
}

// Report bundles the point, rolling and direct bootstrap results of one asset
type Report struct {
	Core      *attribution.Result                         `json:"core"`
	Rolling   *attribution.RollingResult                  `json:"rolling"`
	Bootstrap *attribution.BootstrapRiskAttributionResult `json:"bootstrap"`
}

// App wires storage, the attribution engine and metrics together
type App struct {
	cfg     *config.Config
	logger  *zap.Logger
	storage archive.Storage
	series  *seriesstore.Store
	metrics *metrics.Registry
}

// New creates an App on the storage described by cfg
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	storage, err := OpenStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}
	return NewWithStorage(cfg, storage, logger), nil
}

// NewWithStorage creates an App on an already opened storage
func NewWithStorage(cfg *config.Config, storage archive.Storage, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		cfg:     cfg,
		logger:  logger,
		storage: storage,
		series:  seriesstore.New(storage, logger),
		metrics: metrics.NewRegistry(),
	}
}

// OpenStorage opens the configured storage backend
func OpenStorage(cfg config.StorageConfig) (archive.Storage, error) {
	switch cfg.Type {
	case "localfs":
		return archive.NewLocalFS(cfg.Path)
	case "s3":
		return archive.NewS3(archive.S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
	default:
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown storage type %q", cfg.Type))
	}
}

// Metrics returns the run metrics registry
func (a *App) Metrics() *metrics.Registry { return a.metrics }

// Series returns the series store
func (a *App) Series() *seriesstore.Store { return a.series }

// FlushMetrics writes the metrics textfile when metrics are enabled
func (a *App) FlushMetrics() error {
	if !a.cfg.Metrics.Enabled {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	a.logger.Debug("metrics written", zap.String("path", a.cfg.Metrics.Textfile))
	return nil
}

// Point runs a full-history attribution
func (a *App) Point(ctx context.Context, in attribution.RegressionInput) (*attribution.Result, error) {
	var res *attribution.Result
	err := a.run(KindPoint, func() error {
		var err error
		res, err = a.point(ctx, in)
		return err
	})
	return res, err
}

// Rolling runs a rolling attribution. A zero window uses the configured one.
func (a *App) Rolling(ctx context.Context, in attribution.RollingRegressionInput) (*attribution.RollingResult, error) {
	var res *attribution.RollingResult
	err := a.run(KindRolling, func() error {
		var err error
		res, err = a.rolling(ctx, a.withWindow(in))
		return err
	})
	return res, err
}

// Bootstrap runs one bootstrap variant. The window is only used by
// BootstrapRolling; zero means the configured one.
func (a *App) Bootstrap(ctx context.Context, in attribution.RollingRegressionInput, method BootstrapMethod) (*attribution.BootstrapRiskAttributionResult, error) {
	kind := KindBootstrapDirect
	if method == BootstrapRolling {
		kind = KindBootstrapRolling
	}

	var res *attribution.BootstrapRiskAttributionResult
	err := a.run(kind, func() error {
		var err error
		res, err = a.bootstrap(ctx, a.withWindow(in), method)
		return err
	})
	return res, err
}

// Analyze runs the point, rolling and direct bootstrap attributions over
// the same loaded series
func (a *App) Analyze(ctx context.Context, in attribution.RollingRegressionInput) (*Report, error) {
	var report *Report
	err := a.run(KindAnalyze, func() error {
		in = a.withWindow(in)
		sources, err := a.loadSources(ctx, in.RegressionInput)
		if err != nil {
			return err
		}
		opts := a.options()

		point, err := attribution.NewPoint(in.RegressionInput, sources, opts)
		if err != nil {
			return err
		}
		coreRes, err := point.Run(ctx)
		if err != nil {
			return err
		}

		rolling, err := attribution.NewRolling(in, sources, opts)
		if err != nil {
			return err
		}
		rollingRes, err := rolling.Run(ctx)
		if err != nil {
			return err
		}
		a.metrics.RecordWindows(len(rollingRes.Regressions))

		direct, err := attribution.NewDirectBootstrap(in.RegressionInput, sources, opts)
		if err != nil {
			return err
		}
		bootRes, err := direct.Run(ctx)
		if err != nil {
			return err
		}
		a.metrics.RecordResamples(string(BootstrapDirect), a.cfg.Analysis.Bootstrap.Resamples)

		report = &Report{Core: coreRes, Rolling: rollingRes, Bootstrap: bootRes}
		return nil
	})
	return report, err
}

func (a *App) point(ctx context.Context, in attribution.RegressionInput) (*attribution.Result, error) {
	sources, err := a.loadSources(ctx, in)
	if err != nil {
		return nil, err
	}
	p, err := attribution.NewPoint(in, sources, a.options())
	if err != nil {
		return nil, err
	}
	return p.Run(ctx)
}

func (a *App) rolling(ctx context.Context, in attribution.RollingRegressionInput) (*attribution.RollingResult, error) {
	sources, err := a.loadSources(ctx, in.RegressionInput)
	if err != nil {
		return nil, err
	}
	r, err := attribution.NewRolling(in, sources, a.options())
	if err != nil {
		return nil, err
	}
	res, err := r.Run(ctx)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordWindows(len(res.Regressions))
	return res, nil
}

func (a *App) bootstrap(ctx context.Context, in attribution.RollingRegressionInput, method BootstrapMethod) (*attribution.BootstrapRiskAttributionResult, error) {
	sources, err := a.loadSources(ctx, in.RegressionInput)
	if err != nil {
		return nil, err
	}

	var b attribution.Bootstrapper
	switch method {
	case BootstrapRolling:
		b, err = attribution.NewRollingBootstrap(in, sources, a.options())
	case BootstrapDirect:
		b, err = attribution.NewDirectBootstrap(in.RegressionInput, sources, a.options())
	default:
		_, err = ParseBootstrapMethod(string(method))
	}
	if err != nil {
		return nil, err
	}

	res, err := b.Run(ctx)
	if err != nil {
		return nil, err
	}
	a.metrics.RecordResamples(string(method), a.cfg.Analysis.Bootstrap.Resamples)
	return res, nil
}

// loadSources reads every referenced series, resampling to month ends when
// the analysis runs at monthly frequency
func (a *App) loadSources(ctx context.Context, in attribution.RegressionInput) (attribution.Sources, error) {
	ids := append([]core.AssetID{in.Dependent}, in.Independents...)
	loaded, err := a.series.LoadAll(ctx, ids)
	if err != nil {
		return nil, err
	}

	monthly := a.cfg.Analysis.Frequency == config.FrequencyMonthly
	sources := make(attribution.Sources, len(loaded))
	for id, src := range loaded {
		a.metrics.RecordSeriesLoaded(string(src.Kind()))
		if monthly {
			src = src.ToMonthly()
		}
		sources[id] = src
	}
	return sources, nil
}

func (a *App) withWindow(in attribution.RollingRegressionInput) attribution.RollingRegressionInput {
	if in.Window == 0 {
		in.Window = a.cfg.Analysis.Window
	}
	return in
}

func (a *App) options() attribution.Options {
	b := a.cfg.Analysis.Bootstrap
	return attribution.Options{
		Resamples:  b.Resamples,
		Confidence: b.Confidence,
		Seed:       b.Seed,
		Workers:    a.cfg.Analysis.Workers,
		Logger:     a.logger,
	}
}

// run logs and records one run of kind
func (a *App) run(kind string, fn func() error) error {
	start := time.Now()
	a.logger.Info("run started", zap.String("kind", kind))

	err := fn()
	elapsed := time.Since(start)
	a.metrics.RecordRun(kind, err, elapsed.Seconds())

	if err != nil {
		a.logger.Warn("run failed",
			zap.String("kind", kind),
			zap.String("code", core.Kind(err)),
			zap.Error(err),
		)
		return err
	}
	a.logger.Info("run finished",
		zap.String("kind", kind),
		zap.Duration("elapsed", elapsed),
	)
	return nil
}
