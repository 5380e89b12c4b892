package regression

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/newthinker/riskattr/internal/core"
)

// RankTolerance is the singular value cutoff, relative to the largest,
// below which a design direction is treated as degenerate.
const RankTolerance = 1e-12

// Result holds an OLS fit of y on a constant plus the columns of x
type Result struct {
	// Params is the intercept followed by one coefficient per column of x
	Params []float64
	// StdErrors aligns with Params; +Inf when the design is rank deficient
	// or leaves no residual degrees of freedom
	StdErrors []float64
	Fitted    []float64
	Residuals []float64
	Rank      int
	// DoF is the residual degrees of freedom, n - len(Params)
	DoF int
}

// Intercept returns the constant term
func (r *Result) Intercept() float64 { return r.Params[0] }

// Coefficients returns the slope on each column of x
func (r *Result) Coefficients() []float64 { return r.Params[1:] }

// OLS fits y ≈ b0 + x·b by least squares.
//
// x has one row per observation and one column per regressor. The system is
// solved through a thin SVD; when the design is rank deficient the minimum
// norm solution is returned and every standard error is +Inf.
func OLS(x *mat.Dense, y []float64) (*Result, error) {
	n, k := x.Dims()
	if n != len(y) {
		return nil, fmt.Errorf("regression: %d rows in x but %d observations in y", n, len(y))
	}
	if n == 0 {
		return nil, core.WrapError(core.ErrInsufficientData, errors.New("regression needs at least one observation"))
	}

	p := k + 1
	design := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		for j := 0; j < k; j++ {
			design.Set(i, j+1, x.At(i, j))
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(design, mat.SVDThin); !ok {
		return nil, errors.New("regression: SVD factorization failed")
	}
	rank := svd.Rank(RankTolerance)

	params := make([]float64, p)
	if rank > 0 {
		var b mat.Dense
		svd.SolveTo(&b, mat.NewDense(n, 1, copyOf(y)), rank)
		for j := range params {
			params[j] = b.At(j, 0)
		}
	}

	var fittedVec mat.VecDense
	fittedVec.MulVec(design, mat.NewVecDense(p, params))

	fitted := make([]float64, n)
	residuals := make([]float64, n)
	var rss float64
	for i := range fitted {
		fitted[i] = fittedVec.AtVec(i)
		residuals[i] = y[i] - fitted[i]
		rss += residuals[i] * residuals[i]
	}

	res := &Result{
		Params:    params,
		StdErrors: make([]float64, p),
		Fitted:    fitted,
		Residuals: residuals,
		Rank:      rank,
		DoF:       n - p,
	}

	if rank < p || res.DoF <= 0 {
		for j := range res.StdErrors {
			res.StdErrors[j] = math.Inf(1)
		}
		return res, nil
	}

	// cov(b) = σ² (X'X)^-1 = σ² V Σ^-2 V'
	sigma2 := rss / float64(res.DoF)
	values := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)
	for j := 0; j < p; j++ {
		var variance float64
		for i, s := range values {
			vji := v.At(j, i)
			variance += vji * vji / (s * s)
		}
		res.StdErrors[j] = math.Sqrt(sigma2 * variance)
	}

	return res, nil
}

func copyOf(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
