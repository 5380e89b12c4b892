package attribution

import (
	"math"

	"go.uber.org/zap"

	"github.com/newthinker/riskattr/internal/bootstrap"
	"github.com/newthinker/riskattr/internal/core"
	"github.com/newthinker/riskattr/internal/regression"
	"github.com/newthinker/riskattr/internal/timeseries"
)

// StdErrorSentinel replaces a non-finite standard error in results
const StdErrorSentinel = -1.0

// Sources maps each asset to its series
type Sources map[core.AssetID]timeseries.Source

// RegressionInput names the dependent asset and its explanatory assets
type RegressionInput struct {
	Dependent    core.AssetID   `json:"dependent"`
	Independents []core.AssetID `json:"independents"`
}

// RollingRegressionInput adds the trailing window length
type RollingRegressionInput struct {
	RegressionInput
	Window int `json:"window"`
}

// Coefficient is one independent asset's loading and its standard error
type Coefficient struct {
	Asset core.AssetID `json:"asset"`
	Coef  float64      `json:"coef"`
	Error float64      `json:"error"`
}

// RegressionResult is one fitted decomposition
type RegressionResult struct {
	Intercept    float64       `json:"intercept"`
	Coefficients []Coefficient `json:"coefficients"`
}

// Average is the mean return of one asset
type Average struct {
	Asset core.AssetID `json:"asset"`
	Avg   float64      `json:"avg"`
}

// Result is a point attribution over the full history
type Result struct {
	Regression RegressionResult `json:"regression"`
	// Averages lists the independents in input order, then the dependent
	Averages []Average   `json:"averages"`
	MinDate  core.DayKey `json:"minDate"`
	MaxDate  core.DayKey `json:"maxDate"`
}

// RollingResult holds one regression per window, oldest first
type RollingResult struct {
	Regressions []RegressionResult `json:"regressions"`
	Averages    [][]Average        `json:"averages"`
	// Dates holds the date each window reports against
	Dates   []core.DayKey `json:"dates"`
	MinDate core.DayKey   `json:"minDate"`
	MaxDate core.DayKey   `json:"maxDate"`
}

// BootstrapResult is a confidence interval for one asset's parameter
type BootstrapResult struct {
	Asset core.AssetID `json:"asset"`
	Lower float64      `json:"lower"`
	Upper float64      `json:"upper"`
}

// BootstrapRiskAttributionResult holds the intercept interval, keyed by the
// dependent asset, and one interval per independent asset in input order
type BootstrapRiskAttributionResult struct {
	Intercept    BootstrapResult   `json:"intercept"`
	Coefficients []BootstrapResult `json:"coefficients"`
}

// Options tunes execution. The zero value runs sequentially with the
// bootstrap defaults and no logging.
type Options struct {
	Resamples  int
	Confidence float64
	// Seed fixes bootstrap draws; 0 picks a random seed per run
	Seed uint64
	// Workers bounds concurrent window fits and bootstrap replicates
	Workers int
	Logger  *zap.Logger
}

// DefaultOptions returns sequential options with the bootstrap defaults
func DefaultOptions() Options {
	return Options{
		Resamples:  bootstrap.DefaultResamples,
		Confidence: bootstrap.DefaultConfidence,
		Workers:    1,
	}
}

func (o Options) bootstrapConfig() bootstrap.Config {
	return bootstrap.Config{
		Resamples:  o.Resamples,
		Confidence: o.Confidence,
		Seed:       o.Seed,
		Workers:    o.Workers,
	}
}

func (o Options) logger(name string) *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger.Named(name)
}

// newRegressionResult keys a fit by asset, sanitizing standard errors.
// Params are finite here: sources reject non-finite closes and returns, and
// the min-norm solution keeps rank-deficient fits finite.
func newRegressionResult(fit *regression.Result, assets []core.AssetID) RegressionResult {
	coefs := fit.Coefficients()
	out := RegressionResult{
		Intercept:    fit.Intercept(),
		Coefficients: make([]Coefficient, len(assets)),
	}
	for i, id := range assets {
		out.Coefficients[i] = Coefficient{
			Asset: id,
			Coef:  coefs[i],
			Error: sanitize(fit.StdErrors[i+1]),
		}
	}
	return out
}

func sanitize(se float64) float64 {
	if math.IsInf(se, 0) || math.IsNaN(se) {
		return StdErrorSentinel
	}
	return se
}

func newBootstrapResult(dependent core.AssetID, assets []core.AssetID, intervals []bootstrap.Interval) *BootstrapRiskAttributionResult {
	out := &BootstrapRiskAttributionResult{
		Intercept:    BootstrapResult{Asset: dependent, Lower: intervals[0].Lower, Upper: intervals[0].Upper},
		Coefficients: make([]BootstrapResult, len(assets)),
	}
	for i, id := range assets {
		iv := intervals[i+1]
		out.Coefficients[i] = BootstrapResult{Asset: id, Lower: iv.Lower, Upper: iv.Upper}
	}
	return out
}
