package attribution

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/newthinker/riskattr/internal/core"
)

// Window is one trailing slice of the date axis with its aligned data
type Window struct {
	Index int
	// AsOf is the date the window reports against: the first date after it
	AsOf        core.DayKey
	Dates       []core.DayKey
	Dependent   []float64
	Independent *mat.Dense
}

// WindowIterator yields the trailing windows of a Definition, oldest first.
// Each window is built when Next reaches it. An iterator is consumed once;
// call Windows again to start over.
//
//	it, err := def.Windows(12)
//	for it.Next() {
//		w := it.Window()
//	}
//	if err := it.Err(); err != nil { ... }
type WindowIterator struct {
	def    *Definition
	length int
	next   int
	cur    Window
	err    error
}

// Windows validates the window length and returns an iterator over the
// trailing windows of the shared date axis. With N shared dates, window i
// covers dates[i : i+length] and reports against dates[i+length], so there
// are N-length windows and a length equal to N yields none.
func (d *Definition) Windows(length int) (*WindowIterator, error) {
	if length <= 0 {
		return nil, core.WrapError(core.ErrInvalidWindow, fmt.Errorf("got %d", length))
	}
	if length > len(d.dates) {
		return nil, core.WrapError(core.ErrWindowTooLong,
			fmt.Errorf("window %d, %d observations", length, len(d.dates)))
	}
	return &WindowIterator{def: d, length: length}, nil
}

// Len returns the total number of windows
func (it *WindowIterator) Len() int {
	return len(it.def.dates) - it.length
}

// Next advances to the next window. It returns false when the windows are
// exhausted or a window could not be built.
func (it *WindowIterator) Next() bool {
	if it.err != nil || it.next >= it.Len() {
		return false
	}
	w, err := it.def.window(it.length, it.next)
	if err != nil {
		it.err = err
		return false
	}
	it.cur = w
	it.next++
	return true
}

// Window returns the current window
func (it *WindowIterator) Window() Window {
	return it.cur
}

// Err returns the error that stopped iteration, if any
func (it *WindowIterator) Err() error {
	return it.err
}

// window builds window i of the given length
func (d *Definition) window(length, i int) (Window, error) {
	end := i + length
	dates := make([]core.DayKey, length)
	copy(dates, d.dates[i:end])

	y, err := d.AlignedDependent(dates)
	if err != nil {
		return Window{}, err
	}
	x, err := d.AlignedIndependent(dates)
	if err != nil {
		return Window{}, err
	}

	return Window{
		Index:       i,
		AsOf:        d.dates[end],
		Dates:       dates,
		Dependent:   y,
		Independent: x,
	}, nil
}
