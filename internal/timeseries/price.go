package timeseries

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/newthinker/riskattr/internal/core"
)

// Quote is one closing price
type Quote struct {
	Date  core.DayKey
	Close float64
}

// PriceSource derives returns from consecutive closing prices.
//
// The first quote only anchors the first return: a source built from n quotes
// has n-1 observation dates, each carrying the relative change against the
// quote before it. Returns are fixed at construction, so a filtered source
// keeps the unfiltered day-over-day returns of the dates it retains.
type PriceSource struct {
	base    Quote
	closes  series
	returns series
}

// NewPriceSource builds a price source from quotes in any order.
// Duplicate dates and non-positive or non-finite closes are rejected.
func NewPriceSource(quotes []Quote) (*PriceSource, error) {
	if len(quotes) == 0 {
		return nil, core.WrapError(core.ErrSeriesInvalid, errors.New("price series has no quotes"))
	}

	sorted := make([]Quote, len(quotes))
	copy(sorted, quotes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	for i, q := range sorted {
		if math.IsNaN(q.Close) || math.IsInf(q.Close, 0) {
			return nil, core.WrapError(core.ErrSeriesInvalid,
				fmt.Errorf("non-finite close on %s", q.Date))
		}
		if q.Close <= 0 {
			return nil, core.WrapError(core.ErrSeriesInvalid,
				fmt.Errorf("non-positive close %v on %s", q.Close, q.Date))
		}
		if i > 0 && sorted[i-1].Date == q.Date {
			return nil, core.WrapError(core.ErrSeriesInvalid,
				fmt.Errorf("duplicate quote on %s", q.Date))
		}
	}

	return buildPrice(sorted), nil
}

// buildPrice assumes quotes are sorted, unique, finite and positive
func buildPrice(quotes []Quote) *PriceSource {
	n := len(quotes) - 1
	dates := make([]core.DayKey, n)
	closes := make([]float64, n)
	rets := make([]float64, n)

	for i := 1; i < len(quotes); i++ {
		dates[i-1] = quotes[i].Date
		closes[i-1] = quotes[i].Close
		rets[i-1] = quotes[i].Close/quotes[i-1].Close - 1
	}

	return &PriceSource{
		base:    quotes[0],
		closes:  newSeries(dates, closes),
		returns: newSeries(dates, rets),
	}
}

// Kind implements Source
func (p *PriceSource) Kind() Kind { return KindPrice }

// Dates implements Source
func (p *PriceSource) Dates() []core.DayKey { return copyDates(p.closes.dates) }

// ClosePrices implements Source
func (p *PriceSource) ClosePrices() []float64 { return copyValues(p.closes.values) }

// Base returns the quote that anchors the first return
func (p *PriceSource) Base() Quote { return p.base }

// Quotes returns the base quote followed by every observation
func (p *PriceSource) Quotes() []Quote {
	out := make([]Quote, 0, len(p.closes.dates)+1)
	out = append(out, p.base)
	for i, d := range p.closes.dates {
		out = append(out, Quote{Date: d, Close: p.closes.values[i]})
	}
	return out
}

// Returns implements Source
func (p *PriceSource) Returns(dates []core.DayKey) ([]float64, error) {
	return p.returns.pick(dates)
}

// FilteredTo implements Source
func (p *PriceSource) FilteredTo(dates []core.DayKey) (Source, error) {
	pos, err := p.closes.positions(dates)
	if err != nil {
		return nil, err
	}

	kept := make([]core.DayKey, len(pos))
	closes := make([]float64, len(pos))
	rets := make([]float64, len(pos))
	for i, at := range pos {
		kept[i] = p.closes.dates[at]
		closes[i] = p.closes.values[at]
		rets[i] = p.returns.values[at]
	}

	return &PriceSource{
		base:    p.base,
		closes:  newSeries(kept, closes),
		returns: newSeries(kept, rets),
	}, nil
}

// ToMonthly keeps the last quote of every calendar month, base included,
// and derives month-over-month returns from them.
func (p *PriceSource) ToMonthly() Source {
	quotes := p.Quotes()

	var monthEnds []Quote
	for i, q := range quotes {
		if i == len(quotes)-1 || !sameMonth(q.Date, quotes[i+1].Date) {
			monthEnds = append(monthEnds, q)
		}
	}
	return buildPrice(monthEnds)
}

func sameMonth(a, b core.DayKey) bool {
	ay, am, _ := a.Time().Date()
	by, bm, _ := b.Time().Date()
	return ay == by && am == bm
}
