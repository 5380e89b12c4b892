package timeseries

import (
	"fmt"
	"sort"

	"github.com/newthinker/riskattr/internal/core"
)

// Kind distinguishes how a source's returns are obtained
type Kind string

const (
	KindPrice  Kind = "price"
	KindFactor Kind = "factor"
)

// Source is an ordered-by-date series for one asset.
// Implementations are immutable; FilteredTo and ToMonthly return new sources.
type Source interface {
	Kind() Kind

	// Dates returns the ascending observation dates, without duplicates
	Dates() []core.DayKey

	// ClosePrices returns one level per date in Dates
	ClosePrices() []float64

	// Returns returns one return per requested date, in the order requested
	Returns(dates []core.DayKey) ([]float64, error)

	// FilteredTo restricts the source to exactly the given dates,
	// which must all be present in Dates
	FilteredTo(dates []core.DayKey) (Source, error)

	// ToMonthly resamples to month-end observations
	ToMonthly() Source
}

// Intersect returns the sorted dates present in every source.
// It returns nil when no sources are given.
func Intersect(sources ...Source) []core.DayKey {
	if len(sources) == 0 {
		return nil
	}

	counts := make(map[core.DayKey]int)
	for _, s := range sources {
		for _, d := range s.Dates() {
			counts[d]++
		}
	}

	var out []core.DayKey
	for d, n := range counts {
		if n == len(sources) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// series is the date-indexed storage shared by both source kinds
type series struct {
	dates  []core.DayKey
	values []float64
	index  map[core.DayKey]int
}

func newSeries(dates []core.DayKey, values []float64) series {
	index := make(map[core.DayKey]int, len(dates))
	for i, d := range dates {
		index[d] = i
	}
	return series{dates: dates, values: values, index: index}
}

func (s series) pick(dates []core.DayKey) ([]float64, error) {
	out := make([]float64, len(dates))
	for i, d := range dates {
		pos, ok := s.index[d]
		if !ok {
			return nil, core.WrapError(core.ErrSeriesInvalid, fmt.Errorf("no observation on %s", d))
		}
		out[i] = s.values[pos]
	}
	return out, nil
}

// positions maps dates to their indexes in ascending order with repeats
// dropped, failing on the first unknown date.
func (s series) positions(dates []core.DayKey) ([]int, error) {
	out := make([]int, 0, len(dates))
	for _, d := range dates {
		pos, ok := s.index[d]
		if !ok {
			return nil, core.WrapError(core.ErrSeriesInvalid, fmt.Errorf("filter date %s not in source", d))
		}
		out = append(out, pos)
	}
	sort.Ints(out)

	uniq := out[:0]
	for _, pos := range out {
		if len(uniq) == 0 || pos != uniq[len(uniq)-1] {
			uniq = append(uniq, pos)
		}
	}
	return uniq, nil
}

func copyDates(dates []core.DayKey) []core.DayKey {
	out := make([]core.DayKey, len(dates))
	copy(out, dates)
	return out
}

func copyValues(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	return out
}
