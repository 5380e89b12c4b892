package timeseries

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/newthinker/riskattr/internal/core"
)

// BasePrice is the anchor close of synthetic price series
const BasePrice = 100.0

// Synthetic generates reproducible series on a daily calendar.
// Observations fall on Start+1 ... Start+n; a price series also carries its
// base quote on Start, so price and factor series of equal length align.
type Synthetic struct {
	Start core.DayKey
	Seed  uint64
}

// NormalReturns draws n i.i.d. normal returns from the given stream.
// Each stream is independent and reproducible for a fixed Seed.
func (s Synthetic) NormalReturns(stream uint64, mean, sd float64, n int) []float64 {
	dist := distuv.Normal{Mu: mean, Sigma: sd, Src: rand.NewPCG(s.Seed, stream)}
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}

// Price generates a price series with n normally distributed daily returns
func (s Synthetic) Price(stream uint64, mean, sd float64, n int) (*PriceSource, error) {
	return s.PriceFromReturns(s.NormalReturns(stream, mean, sd, n))
}

// Factor generates a factor series with n normally distributed returns
func (s Synthetic) Factor(stream uint64, mean, sd float64, n int) (*FactorSource, error) {
	return s.FactorFromReturns(s.NormalReturns(stream, mean, sd, n))
}

// PriceFromReturns compounds rets from BasePrice into a price series
func (s Synthetic) PriceFromReturns(rets []float64) (*PriceSource, error) {
	quotes := make([]Quote, len(rets)+1)
	quotes[0] = Quote{Date: s.Start, Close: BasePrice}
	for i, r := range rets {
		quotes[i+1] = Quote{
			Date:  s.Start + core.DayKey(i+1),
			Close: quotes[i].Close * (1 + r),
		}
	}
	return NewPriceSource(quotes)
}

// FactorFromReturns wraps rets as a factor series
func (s Synthetic) FactorFromReturns(rets []float64) (*FactorSource, error) {
	obs := make([]FactorReturn, len(rets))
	for i, r := range rets {
		obs[i] = FactorReturn{Date: s.Start + core.DayKey(i+1), Return: r}
	}
	return NewFactorSource(obs)
}
