package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/newthinker/riskattr/internal/attribution"
	"github.com/newthinker/riskattr/internal/config"
	"github.com/newthinker/riskattr/internal/core"
)

func day(t *testing.T, s string) core.DayKey {
	t.Helper()
	d, err := core.ParseDayKey(s)
	require.NoError(t, err)
	return d
}

func newTestApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	cfg := config.Defaults()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "data")
	cfg.Analysis.Frequency = config.FrequencyDaily
	cfg.Analysis.Window = 60
	cfg.Analysis.Bootstrap.Resamples = 200
	cfg.Analysis.Bootstrap.Seed = 7
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())

	a, err := New(cfg, nil)
	require.NoError(t, err)
	return a
}

var generated = GenerateRequest{
	Dependent: 100,
	Loadings:  []Loading{{Asset: 1, Beta: 0.8}, {Asset: 2, Beta: -0.4}},
	Days:      500,
	Alpha:     0.0001,
	Noise:     0.002,
	Seed:      3,
}

func generate(t *testing.T, a *App, start core.DayKey) {
	t.Helper()
	req := generated
	req.Start = start
	ids, err := a.Generate(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, []core.AssetID{100, 1, 2}, ids)
}

var input = attribution.RegressionInput{Dependent: 100, Independents: []core.AssetID{1, 2}}

func TestApp_AnalyzeGenerated(t *testing.T) {
	a := newTestApp(t, nil)
	generate(t, a, day(t, "2020-01-01"))

	report, err := a.Analyze(context.Background(), attribution.RollingRegressionInput{RegressionInput: input})
	require.NoError(t, err)

	coefs := report.Core.Regression.Coefficients
	require.Len(t, coefs, 2)
	assert.InDelta(t, 0.8, coefs[0].Coef, 0.05)
	assert.InDelta(t, -0.4, coefs[1].Coef, 0.05)
	assert.Len(t, report.Core.Averages, 3)

	assert.Len(t, report.Rolling.Dates, 500-60)
	assert.Equal(t, report.Core.MaxDate, report.Rolling.MaxDate)

	assert.Equal(t, core.AssetID(100), report.Bootstrap.Intercept.Asset)
	require.Len(t, report.Bootstrap.Coefficients, 2)
	for i, c := range report.Bootstrap.Coefficients {
		assert.Equal(t, input.Independents[i], c.Asset)
		assert.LessOrEqual(t, c.Lower, c.Upper)
	}
}

func TestApp_MissingSeries(t *testing.T) {
	a := newTestApp(t, nil)
	generate(t, a, day(t, "2020-01-01"))

	_, err := a.Point(context.Background(), attribution.RegressionInput{
		Dependent:    100,
		Independents: []core.AssetID{1, 999},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMissingIndependent)
	assert.True(t, core.IsUnusableInput(err))
}

func TestApp_MonthlyResample(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) {
		c.Analysis.Frequency = config.FrequencyMonthly
		c.Analysis.Window = 6
	})
	req := generated
	req.Start = day(t, "2020-01-01")
	req.Days = 400
	_, err := a.Generate(context.Background(), req)
	require.NoError(t, err)

	res, err := a.Point(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, day(t, "2020-02-29"), res.MinDate)
	assert.Equal(t, day(t, "2021-02-04"), res.MaxDate)

	rolled, err := a.Rolling(context.Background(), attribution.RollingRegressionInput{RegressionInput: input})
	require.NoError(t, err)
	assert.Len(t, rolled.Dates, 13-6)
}

func TestApp_RollingWindowTooLong(t *testing.T) {
	a := newTestApp(t, nil)
	generate(t, a, day(t, "2020-01-01"))

	_, err := a.Rolling(context.Background(), attribution.RollingRegressionInput{RegressionInput: input, Window: 501})
	assert.ErrorIs(t, err, core.ErrWindowTooLong)
}

func TestApp_BootstrapMethods(t *testing.T) {
	a := newTestApp(t, nil)
	generate(t, a, day(t, "2020-01-01"))
	ctx := context.Background()
	in := attribution.RollingRegressionInput{RegressionInput: input, Window: 100}

	for _, method := range []BootstrapMethod{BootstrapRolling, BootstrapDirect} {
		res, err := a.Bootstrap(ctx, in, method)
		require.NoError(t, err, method)
		require.Len(t, res.Coefficients, 2)
		for _, c := range res.Coefficients {
			assert.LessOrEqual(t, c.Lower, c.Upper)
		}
	}

	_, err := a.Bootstrap(ctx, in, BootstrapMethod("jackknife"))
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestParseBootstrapMethod(t *testing.T) {
	m, err := ParseBootstrapMethod("direct")
	require.NoError(t, err)
	assert.Equal(t, BootstrapDirect, m)

	_, err = ParseBootstrapMethod("pairs")
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestApp_FlushMetrics(t *testing.T) {
	textfile := filepath.Join(t.TempDir(), "riskattr.prom")
	a := newTestApp(t, func(c *config.Config) {
		c.Metrics.Enabled = true
		c.Metrics.Textfile = textfile
	})
	generate(t, a, day(t, "2020-01-01"))

	_, err := a.Point(context.Background(), input)
	require.NoError(t, err)
	_, err = a.Point(context.Background(), attribution.RegressionInput{Dependent: 404, Independents: []core.AssetID{1}})
	require.Error(t, err)

	require.NoError(t, a.FlushMetrics())
	data, err := os.ReadFile(textfile)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `riskattr_runs_total{kind="point",status="ok"} 1`)
	assert.Contains(t, text, `riskattr_runs_total{kind="point",status="MISSING_DEPENDENT"} 1`)
	assert.Contains(t, text, `riskattr_series_loaded_total{kind="price"}`)
}

func TestEncode(t *testing.T) {
	res := &attribution.Result{
		Regression: attribution.RegressionResult{
			Intercept:    0.001,
			Coefficients: []attribution.Coefficient{{Asset: 1, Coef: 0.5, Error: attribution.StdErrorSentinel}},
		},
		MinDate: 18262,
		MaxDate: 18300,
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, config.FormatJSON, res))
	assert.True(t, strings.Contains(buf.String(), `"minDate": 18262`))
	assert.True(t, strings.Contains(buf.String(), `"error": -1`))

	buf.Reset()
	require.NoError(t, Encode(&buf, config.FormatMsgpack, res))
	var decoded map[string]any
	require.NoError(t, msgpack.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "regression")
	assert.Contains(t, decoded, "maxDate")

	assert.ErrorIs(t, Encode(&buf, "yaml", res), core.ErrConfigInvalid)
}

func TestApp_Save(t *testing.T) {
	a := newTestApp(t, func(c *config.Config) { c.Output.Format = config.FormatMsgpack })

	p, err := a.Save(context.Background(), "point-100", map[string]int{"windows": 3})
	require.NoError(t, err)
	assert.Equal(t, "results/point-100.msgpack", p)

	exists, err := a.storage.Exists(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestApp_GenerateValidation(t *testing.T) {
	a := newTestApp(t, nil)

	_, err := a.Generate(context.Background(), GenerateRequest{Dependent: 1, Loadings: []Loading{{Asset: 2, Beta: 1}}})
	assert.ErrorIs(t, err, core.ErrConfigInvalid)

	_, err = a.Generate(context.Background(), GenerateRequest{Dependent: 1, Days: 10})
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestOpenStorage_Unknown(t *testing.T) {
	_, err := OpenStorage(config.StorageConfig{Type: "ftp"})
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}
