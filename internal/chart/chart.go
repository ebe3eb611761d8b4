// Package chart reshapes report rows into the tuples chart renderers consume.
// Every function is pure: the same input yields the same output.
package chart

import (
	"encoding/json"
	"slices"

	"github.com/shopspring/decimal"
)

// Palette is the fixed color cycle for slices and series.
var Palette = []string{
	"#2563eb",
	"#16a34a",
	"#f59e0b",
	"#dc2626",
	"#7c3aed",
	"#0891b2",
	"#db2777",
	"#65a30d",
}

// Color returns the palette entry for index i, cycling.
func Color(i int) string {
	n := len(Palette)
	return Palette[(i%n+n)%n]
}

// Slice is one wedge of a pie or donut chart.
type Slice struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color,omitempty"`
}

// Pie maps rows to slices in row order.
func Pie[T any](rows []T, name func(T) string, value func(T) decimal.Decimal) []Slice {
	out := make([]Slice, len(rows))
	for i, r := range rows {
		out[i] = Slice{Name: name(r), Value: value(r), Color: Color(i)}
	}
	return out
}

// TopN returns the n rows with the largest value, ties kept in input order.
// A non-positive n returns every row sorted.
func TopN[T any](rows []T, n int, value func(T) decimal.Decimal) []T {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return value(b).Cmp(value(a))
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// PieTopN keeps the n largest rows and folds the remainder into an "Other" slice.
func PieTopN[T any](rows []T, n int, name func(T) string, value func(T) decimal.Decimal) []Slice {
	top := TopN(rows, n, value)
	out := Pie(top, name, value)
	if len(rows) <= len(top) {
		return out
	}
	var rest decimal.Decimal
	for _, r := range rows {
		rest = rest.Add(value(r))
	}
	for _, s := range out {
		rest = rest.Sub(s.Value)
	}
	return append(out, Slice{Name: "Other", Value: rest, Color: Color(len(out))})
}

// SeriesKey is one plotted measure of a bar, line or area chart.
type SeriesKey[T any] struct {
	Key   string
	Label string
	Value func(T) decimal.Decimal
}

// Legend entry for a series key.
type Legend struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Point is one x-axis position: a name plus a value per series key.
// It encodes as {"name": ..., "<key>": value, ...}.
type Point struct {
	Name   string
	Values map[string]decimal.Decimal
}

// MarshalJSON flattens the values next to the name.
func (p Point) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Values)+1)
	for k, v := range p.Values {
		m[k] = v
	}
	m["name"] = p.Name
	return json.Marshal(m)
}

// Series is the data and legend for a multi-measure chart.
type Series struct {
	Points []Point  `json:"data"`
	Legend []Legend `json:"legend"`
}

// NewSeries maps rows to points, one per row, in row order.
func NewSeries[T any](rows []T, name func(T) string, keys []SeriesKey[T]) Series {
	s := Series{
		Points: make([]Point, len(rows)),
		Legend: legend(keys),
	}
	for i, r := range rows {
		vals := make(map[string]decimal.Decimal, len(keys))
		for _, k := range keys {
			vals[k.Key] = k.Value(r)
		}
		s.Points[i] = Point{Name: name(r), Values: vals}
	}
	return s
}

func legend[T any](keys []SeriesKey[T]) []Legend {
	out := make([]Legend, len(keys))
	for i, k := range keys {
		out[i] = Legend{Key: k.Key, Label: k.Label, Color: Color(i)}
	}
	return out
}
