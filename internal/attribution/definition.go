package attribution

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/newthinker/riskattr/internal/core"
	"github.com/newthinker/riskattr/internal/timeseries"
)

// Definition binds a regression's assets to their series and caches the
// dates every referenced series shares. It is immutable once built.
type Definition struct {
	dependent    core.AssetID
	independents []core.AssetID
	sources      Sources
	dates        []core.DayKey
}

// NewDefinition validates in against sources. Failures are reported as
// ErrMissingDependent, ErrMissingIndependent or ErrNoOverlappingDates.
func NewDefinition(in RegressionInput, sources Sources) (*Definition, error) {
	if sources[in.Dependent] == nil {
		return nil, core.WrapError(core.ErrMissingDependent, fmt.Errorf("asset %s", in.Dependent))
	}
	for _, id := range in.Independents {
		if sources[id] == nil {
			return nil, core.WrapError(core.ErrMissingIndependent, fmt.Errorf("asset %s", id))
		}
	}
	if len(in.Independents) == 0 {
		return nil, core.WrapError(core.ErrMissingIndependent, errors.New("no independent assets given"))
	}

	referenced := make([]timeseries.Source, 0, len(in.Independents)+1)
	referenced = append(referenced, sources[in.Dependent])
	for _, id := range in.Independents {
		referenced = append(referenced, sources[id])
	}
	dates := timeseries.Intersect(referenced...)
	if len(dates) == 0 {
		return nil, core.ErrNoOverlappingDates
	}

	independents := make([]core.AssetID, len(in.Independents))
	copy(independents, in.Independents)

	return &Definition{
		dependent:    in.Dependent,
		independents: independents,
		sources:      sources,
		dates:        dates,
	}, nil
}

// Dependent returns the dependent asset
func (d *Definition) Dependent() core.AssetID { return d.dependent }

// Independents returns the independent assets in declared order
func (d *Definition) Independents() []core.AssetID {
	out := make([]core.AssetID, len(d.independents))
	copy(out, d.independents)
	return out
}

// Dates returns the shared date axis, ascending
func (d *Definition) Dates() []core.DayKey {
	out := make([]core.DayKey, len(d.dates))
	copy(out, d.dates)
	return out
}

// AlignedIndependent returns the independent returns on dates, one row per
// date and one column per independent asset. Nil dates mean the full axis.
func (d *Definition) AlignedIndependent(dates []core.DayKey) (*mat.Dense, error) {
	if dates == nil {
		dates = d.dates
	}
	if len(dates) == 0 {
		return nil, core.WrapError(core.ErrInsufficientData, errors.New("no dates to align"))
	}

	x := mat.NewDense(len(dates), len(d.independents), nil)
	for j, id := range d.independents {
		rets, err := d.sources[id].Returns(dates)
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", id, err)
		}
		x.SetCol(j, rets)
	}
	return x, nil
}

// AlignedDependent returns the dependent returns on dates.
// Nil dates mean the full axis.
func (d *Definition) AlignedDependent(dates []core.DayKey) ([]float64, error) {
	if dates == nil {
		dates = d.dates
	}
	rets, err := d.sources[d.dependent].Returns(dates)
	if err != nil {
		return nil, fmt.Errorf("asset %s: %w", d.dependent, err)
	}
	return rets, nil
}

// averages returns the mean return on dates of every independent in order,
// then of the dependent, from already aligned data
func (d *Definition) averages(y []float64, x *mat.Dense) []Average {
	out := make([]Average, 0, len(d.independents)+1)
	for j, id := range d.independents {
		out = append(out, Average{Asset: id, Avg: stat.Mean(mat.Col(nil, j, x), nil)})
	}
	return append(out, Average{Asset: d.dependent, Avg: stat.Mean(y, nil)})
}
