package core

import (
	"fmt"
	"strconv"
	"time"
)

// AssetID identifies a covered security
type AssetID int

// String renders the id the way the backtest kernel keys its maps
func (id AssetID) String() string {
	return strconv.Itoa(int(id))
}

// ParseAssetID parses a kernel map key back into an AssetID
func ParseAssetID(s string) (AssetID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parsing asset id %q: %w", s, err)
	}
	return AssetID(n), nil
}

// DayKey is a day-granularity date: days since 1970-01-01 UTC
type DayKey int64

const secondsPerDay = 24 * 60 * 60

// DayKeyOf truncates t to its UTC calendar day
func DayKeyOf(t time.Time) DayKey {
	y, m, d := t.UTC().Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return DayKey(midnight.Unix() / secondsPerDay)
}

// ParseDayKey parses a YYYY-MM-DD date
func ParseDayKey(s string) (DayKey, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return DayKeyOf(t), nil
}

// Time returns midnight UTC of the day
func (d DayKey) Time() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

// String formats the day as YYYY-MM-DD
func (d DayKey) String() string {
	return d.Time().Format(time.DateOnly)
}

// ToKernelMap converts a typed asset map into the string-keyed form
// the backtest kernel consumes.
func ToKernelMap[V any](m map[AssetID]V) map[string]V {
	out := make(map[string]V, len(m))
	for id, v := range m {
		out[id.String()] = v
	}
	return out
}

// FromKernelMap converts a string-keyed kernel map back into a typed asset map.
// Keys that are not integers are rejected.
func FromKernelMap[V any](m map[string]V) (map[AssetID]V, error) {
	out := make(map[AssetID]V, len(m))
	for key, v := range m {
		id, err := ParseAssetID(key)
		if err != nil {
			return nil, err
		}
		out[id] = v
	}
	return out, nil
}
