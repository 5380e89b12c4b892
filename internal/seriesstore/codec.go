package seriesstore

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/newthinker/riskattr/internal/core"
	"github.com/newthinker/riskattr/internal/timeseries"
)

// Column headers. The second column decides the source kind.
const (
	colDate   = "date"
	colClose  = "close"
	colReturn = "return"
)

// Encode writes src as a two-column CSV document.
// Price sources are written as date,close including the base quote;
// factor sources as date,return.
func Encode(src timeseries.Source) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	switch s := src.(type) {
	case *timeseries.PriceSource:
		w.Write([]string{colDate, colClose})
		for _, q := range s.Quotes() {
			w.Write([]string{q.Date.String(), formatFloat(q.Close)})
		}
	case *timeseries.FactorSource:
		w.Write([]string{colDate, colReturn})
		for _, o := range s.Observations() {
			w.Write([]string{o.Date.String(), formatFloat(o.Return)})
		}
	default:
		return nil, fmt.Errorf("cannot encode source of type %T", src)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a document written by Encode
func Decode(data []byte) (timeseries.Source, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = 2

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, invalid(errors.New("empty document"))
	}
	if err != nil {
		return nil, invalid(fmt.Errorf("read header: %w", err))
	}
	if !strings.EqualFold(header[0], colDate) {
		return nil, invalid(fmt.Errorf("first column is %q, want %q", header[0], colDate))
	}
	kind := strings.ToLower(header[1])
	if kind != colClose && kind != colReturn {
		return nil, invalid(fmt.Errorf("second column is %q, want %q or %q", header[1], colClose, colReturn))
	}

	var (
		quotes []timeseries.Quote
		obs    []timeseries.FactorReturn
	)
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, invalid(fmt.Errorf("line %d: %w", line, err))
		}

		date, err := core.ParseDayKey(record[0])
		if err != nil {
			return nil, invalid(fmt.Errorf("line %d: %w", line, err))
		}
		v, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, invalid(fmt.Errorf("line %d: %w", line, err))
		}

		if kind == colClose {
			quotes = append(quotes, timeseries.Quote{Date: date, Close: v})
		} else {
			obs = append(obs, timeseries.FactorReturn{Date: date, Return: v})
		}
	}

	if kind == colClose {
		return timeseries.NewPriceSource(quotes)
	}
	return timeseries.NewFactorSource(obs)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func invalid(err error) error {
	return core.WrapError(core.ErrSeriesInvalid, err)
}
