package table

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Column binds a header to a row field. Cell renders the display text; Value
// supplies the sort key and defaults to the rendered text when nil.
type Column[T any] struct {
	ID       string
	Header   string
	Cell     func(T) string
	Value    func(T) any
	Sortable bool
	Hideable bool
}

func (c Column[T]) sortKey(row T) any {
	if c.Value != nil {
		return c.Value(row)
	}
	return c.Cell(row)
}

// Text is a sortable, hideable string column.
func Text[T any](id, header string, get func(T) string) Column[T] {
	return Column[T]{ID: id, Header: header, Cell: get, Sortable: true, Hideable: true}
}

// Int is a sortable integer column.
func Int[T any](id, header string, get func(T) int) Column[T] {
	return Column[T]{
		ID:       id,
		Header:   header,
		Cell:     func(r T) string { return strconv.Itoa(get(r)) },
		Value:    func(r T) any { return get(r) },
		Sortable: true,
		Hideable: true,
	}
}

// Decimal renders a fixed number of places and sorts numerically.
func Decimal[T any](id, header string, places int32, get func(T) decimal.Decimal) Column[T] {
	return Column[T]{
		ID:       id,
		Header:   header,
		Cell:     func(r T) string { return get(r).StringFixed(places) },
		Value:    func(r T) any { return get(r) },
		Sortable: true,
		Hideable: true,
	}
}

// Date renders yyyy-MM-dd and sorts chronologically. Zero times render empty.
func Date[T any](id, header string, get func(T) time.Time) Column[T] {
	return Column[T]{
		ID:     id,
		Header: header,
		Cell: func(r T) string {
			t := get(r)
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02")
		},
		Value:    func(r T) any { return get(r) },
		Sortable: true,
		Hideable: true,
	}
}

// OptionalDate is Date for nullable timestamps; nil sorts first.
func OptionalDate[T any](id, header string, get func(T) *time.Time) Column[T] {
	return Column[T]{
		ID:     id,
		Header: header,
		Cell: func(r T) string {
			if t := get(r); t != nil {
				return t.Format("2006-01-02")
			}
			return ""
		},
		Value: func(r T) any {
			if t := get(r); t != nil {
				return *t
			}
			return nil
		},
		Sortable: true,
		Hideable: true,
	}
}
