package regression

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/newthinker/riskattr/internal/core"
)

func column(values ...float64) *mat.Dense {
	return mat.NewDense(len(values), 1, values)
}

func TestOLS_TextbookLine(t *testing.T) {
	res, err := OLS(column(1, 2, 3, 4, 5), []float64{2, 4, 5, 4, 5})
	require.NoError(t, err)

	assert.InDelta(t, 2.2, res.Intercept(), 1e-12)
	assert.InDelta(t, 0.6, res.Coefficients()[0], 1e-12)
	assert.Equal(t, 2, res.Rank)
	assert.Equal(t, 3, res.DoF)

	// σ² = 2.4/3, Sxx = 10
	assert.InDelta(t, math.Sqrt(0.8*(0.2+0.9)), res.StdErrors[0], 1e-10)
	assert.InDelta(t, math.Sqrt(0.08), res.StdErrors[1], 1e-10)

	assert.InDeltaSlice(t, []float64{-0.8, 0.6, 1.0, -0.6, -0.2}, res.Residuals, 1e-12)
}

func TestOLS_RecoversExactPlane(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	n := 60
	x := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a, b := rng.NormFloat64(), rng.NormFloat64()
		x.Set(i, 0, a)
		x.Set(i, 1, b)
		y[i] = 0.5 + 2*a - b
	}

	res, err := OLS(x, y)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{0.5, 2, -1}, res.Params, 1e-10)
	for _, se := range res.StdErrors {
		assert.False(t, math.IsInf(se, 0))
		assert.InDelta(t, 0, se, 1e-10)
	}
}

func TestOLS_CollinearColumnsAreRankDeficient(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{
		1, 2,
		2, 4,
		3, 6,
		4, 8,
	})
	res, err := OLS(x, []float64{1, 2, 3, 4.5})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Rank)
	for _, p := range res.Params {
		assert.False(t, math.IsNaN(p) || math.IsInf(p, 0))
	}
	for _, se := range res.StdErrors {
		assert.True(t, math.IsInf(se, 1))
	}
}

func TestOLS_ConstantRegressorGivesMinimumNormFit(t *testing.T) {
	n := 100
	x := mat.NewDense(n, 1, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 0.002)
		y[i] = 0.001
	}

	res, err := OLS(x, y)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Rank)
	assert.InDelta(t, 0.001, res.Intercept(), 1e-8)
	assert.InDelta(t, 0, res.Coefficients()[0], 1e-5)
	assert.True(t, math.IsInf(res.StdErrors[1], 1))
}

func TestOLS_NoDegreesOfFreedom(t *testing.T) {
	res, err := OLS(column(1, 2), []float64{3, 5})
	require.NoError(t, err)

	assert.Equal(t, 0, res.DoF)
	assert.InDelta(t, 1, res.Intercept(), 1e-12)
	assert.InDelta(t, 2, res.Coefficients()[0], 1e-12)
	assert.True(t, math.IsInf(res.StdErrors[0], 1))
	assert.True(t, math.IsInf(res.StdErrors[1], 1))
}

func TestOLS_Errors(t *testing.T) {
	_, err := OLS(column(1, 2, 3), []float64{1, 2})
	assert.Error(t, err)

	_, err = OLS(&mat.Dense{}, nil)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}
