package chart

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"stockdesk/internal/domain"
)

// Bucket labels t with the time bucket of size g. Unknown sizes bucket by day.
func Bucket(t time.Time, g domain.GroupBy) string {
	switch g {
	case domain.GroupByHour:
		return t.Format("2006-01-02 15:00")
	case domain.GroupByWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case domain.GroupByMonth:
		return t.Format("2006-01")
	case domain.GroupByQuarter:
		return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	case domain.GroupByYear:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}

// GroupSeries sums each key per time bucket. Buckets appear in the order they
// are first seen in rows.
func GroupSeries[T any](rows []T, at func(T) time.Time, g domain.GroupBy, keys []SeriesKey[T]) Series {
	s := Series{Legend: legend(keys)}
	index := map[string]int{}
	for _, r := range rows {
		label := Bucket(at(r), g)
		i, ok := index[label]
		if !ok {
			i = len(s.Points)
			index[label] = i
			vals := make(map[string]decimal.Decimal, len(keys))
			for _, k := range keys {
				vals[k.Key] = decimal.Zero
			}
			s.Points = append(s.Points, Point{Name: label, Values: vals})
		}
		for _, k := range keys {
			s.Points[i].Values[k.Key] = s.Points[i].Values[k.Key].Add(k.Value(r))
		}
	}
	return s
}
