package timeseries

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/newthinker/riskattr/internal/core"
)

// FactorReturn is one period return of a factor series
type FactorReturn struct {
	Date   core.DayKey
	Return float64
}

// FactorSource holds a series that already is a return series,
// such as a published risk factor. Returns are served verbatim.
type FactorSource struct {
	returns series
}

// NewFactorSource builds a factor source from observations in any order
func NewFactorSource(obs []FactorReturn) (*FactorSource, error) {
	if len(obs) == 0 {
		return nil, core.WrapError(core.ErrSeriesInvalid, errors.New("factor series has no observations"))
	}

	sorted := make([]FactorReturn, len(obs))
	copy(sorted, obs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	dates := make([]core.DayKey, len(sorted))
	values := make([]float64, len(sorted))
	for i, o := range sorted {
		if math.IsNaN(o.Return) || math.IsInf(o.Return, 0) {
			return nil, core.WrapError(core.ErrSeriesInvalid,
				fmt.Errorf("non-finite return on %s", o.Date))
		}
		if i > 0 && sorted[i-1].Date == o.Date {
			return nil, core.WrapError(core.ErrSeriesInvalid,
				fmt.Errorf("duplicate observation on %s", o.Date))
		}
		dates[i] = o.Date
		values[i] = o.Return
	}

	return &FactorSource{returns: newSeries(dates, values)}, nil
}

// Kind implements Source
func (f *FactorSource) Kind() Kind { return KindFactor }

// Dates implements Source
func (f *FactorSource) Dates() []core.DayKey { return copyDates(f.returns.dates) }

// ClosePrices returns the factor compounded into an index starting from 1
func (f *FactorSource) ClosePrices() []float64 {
	out := make([]float64, len(f.returns.values))
	level := 1.0
	for i, r := range f.returns.values {
		level *= 1 + r
		out[i] = level
	}
	return out
}

// Observations returns the stored returns with their dates
func (f *FactorSource) Observations() []FactorReturn {
	out := make([]FactorReturn, len(f.returns.dates))
	for i, d := range f.returns.dates {
		out[i] = FactorReturn{Date: d, Return: f.returns.values[i]}
	}
	return out
}

// Returns implements Source
func (f *FactorSource) Returns(dates []core.DayKey) ([]float64, error) {
	return f.returns.pick(dates)
}

// FilteredTo implements Source
func (f *FactorSource) FilteredTo(dates []core.DayKey) (Source, error) {
	pos, err := f.returns.positions(dates)
	if err != nil {
		return nil, err
	}

	kept := make([]core.DayKey, len(pos))
	values := make([]float64, len(pos))
	for i, at := range pos {
		kept[i] = f.returns.dates[at]
		values[i] = f.returns.values[at]
	}
	return &FactorSource{returns: newSeries(kept, values)}, nil
}

// ToMonthly returns f unchanged: factor series are published at their own
// frequency and are not resampled.
func (f *FactorSource) ToMonthly() Source { return f }
