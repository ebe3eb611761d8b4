// Package table renders typed rows through column definitions with sorting,
// column visibility, single-column search and pagination. Pagination is either
// computed in memory or delegated to the caller one server page at a time.
package table

import (
	"fmt"
	"slices"
	"strings"

	"stockdesk/internal/domain"
)

// PageSizes are the selectable client-side page sizes.
var PageSizes = []int{10, 25, 50, 100}

// DefaultPageSize is the client-side page size before the user picks one.
const DefaultPageSize = 10

// placeholderRows is how many skeleton rows a loading table shows.
const placeholderRows = 5

const defaultEmptyMessage = "No results."

// SortDirection orders a sorted column. The empty direction means unsorted.
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sort is the active sort; a zero Sort leaves rows in server order.
type Sort struct {
	Column    string        `json:"column,omitempty"`
	Direction SortDirection `json:"direction,omitempty"`
}

// Search is a case-insensitive substring match on one column.
type Search struct {
	Column string `json:"column,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Options configure a Table at construction.
type Options struct {
	// ServerPagination renders rows exactly as given and delegates paging to OnPageChange.
	ServerPagination bool
	// OnPageChange receives the target page number in server mode.
	OnPageChange func(page int)
	SearchColumn string
	EmptyMessage string
	PageSize     int
}

// Table is the display state for one report table instance.
type Table[T any] struct {
	columns []Column[T]
	byID    map[string]int

	data    []T
	loading bool

	sort      Sort
	hidden    map[string]bool
	search    Search
	pageIndex int
	pageSize  int

	server       bool
	serverPage   domain.Pagination
	onPageChange func(int)
	emptyMessage string
}

// New builds a table over columns. Column ids must be unique.
func New[T any](columns []Column[T], opts Options) (*Table[T], error) {
	byID := make(map[string]int, len(columns))
	for i, c := range columns {
		if c.ID == "" || c.Cell == nil {
			return nil, fmt.Errorf("column %d: id and cell renderer are required", i)
		}
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate column id %q", c.ID)
		}
		byID[c.ID] = i
	}

	t := &Table[T]{
		columns:      columns,
		byID:         byID,
		hidden:       map[string]bool{},
		pageSize:     DefaultPageSize,
		server:       opts.ServerPagination,
		serverPage:   domain.Pagination{CurrentPage: 1},
		onPageChange: opts.OnPageChange,
		emptyMessage: opts.EmptyMessage,
	}
	if t.emptyMessage == "" {
		t.emptyMessage = defaultEmptyMessage
	}
	if opts.SearchColumn != "" {
		if _, ok := byID[opts.SearchColumn]; !ok {
			return nil, fmt.Errorf("%w: search column %q", domain.ErrUnknownColumn, opts.SearchColumn)
		}
		t.search.Column = opts.SearchColumn
	}
	if opts.PageSize != 0 {
		if err := t.SetPageSize(opts.PageSize); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// SetData replaces the rows. Display state is kept.
func (t *Table[T]) SetData(rows []T) {
	t.data = rows
}

// SetLoading toggles the placeholder rendering.
func (t *Table[T]) SetLoading(loading bool) {
	t.loading = loading
}

// SetServerPage records the page the server returned. Ignored in client mode.
func (t *Table[T]) SetServerPage(p domain.Pagination) {
	t.serverPage = p.Normalize()
}

// Sort returns the active sort.
func (t *Table[T]) Sort() Sort {
	return t.sort
}

// SetSort applies a sort directly. Applying the same sort twice is a no-op.
func (t *Table[T]) SetSort(column string, dir SortDirection) error {
	if dir == SortNone {
		t.sort = Sort{}
		t.pageIndex = 0
		return nil
	}
	if dir != SortAsc && dir != SortDesc {
		return fmt.Errorf("invalid sort direction %q", dir)
	}
	c, err := t.column(column)
	if err != nil {
		return err
	}
	if !c.Sortable {
		return fmt.Errorf("column %q is not sortable", column)
	}
	next := Sort{Column: column, Direction: dir}
	if next != t.sort {
		t.sort = next
		t.pageIndex = 0
	}
	return nil
}

// ToggleSort cycles a column through asc, desc and unsorted. Toggling a
// different column starts it at asc.
func (t *Table[T]) ToggleSort(column string) error {
	if t.sort.Column != column {
		return t.SetSort(column, SortAsc)
	}
	switch t.sort.Direction {
	case SortAsc:
		return t.SetSort(column, SortDesc)
	default:
		return t.SetSort(column, SortNone)
	}
}

// SetColumnVisible hides or shows a column without touching data, sort or search.
func (t *Table[T]) SetColumnVisible(column string, visible bool) error {
	c, err := t.column(column)
	if err != nil {
		return err
	}
	if !visible && !c.Hideable {
		return fmt.Errorf("column %q cannot be hidden", column)
	}
	if visible {
		delete(t.hidden, column)
	} else {
		t.hidden[column] = true
	}
	return nil
}

// Hidden returns the hidden column ids in column order.
func (t *Table[T]) Hidden() []string {
	var ids []string
	for _, c := range t.columns {
		if t.hidden[c.ID] {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// SetSearch filters rows by value on column. An empty column keeps the
// designated search column. Changing the search returns to the first page.
func (t *Table[T]) SetSearch(column, value string) error {
	if column == "" {
		column = t.search.Column
	}
	if column == "" && value != "" {
		return fmt.Errorf("%w: no search column", domain.ErrUnknownColumn)
	}
	if column != "" {
		if _, err := t.column(column); err != nil {
			return err
		}
	}
	next := Search{Column: column, Value: value}
	if next != t.search {
		t.search = next
		t.pageIndex = 0
	}
	return nil
}

// SetPageSize picks one of PageSizes and returns to the first page.
func (t *Table[T]) SetPageSize(size int) error {
	if !slices.Contains(PageSizes, size) {
		return fmt.Errorf("%w: %d (allowed: %v)", domain.ErrInvalidPageSize, size, PageSizes)
	}
	if size != t.pageSize {
		t.pageSize = size
		t.pageIndex = 0
	}
	return nil
}

// GoToPage moves to a 1-based page, clamped to the available pages. In server
// mode the clamped target is handed to OnPageChange instead. It returns the
// clamped page.
func (t *Table[T]) GoToPage(page int) int {
	if t.server {
		target := t.serverPage.ClampPage(page)
		if target != t.serverPage.CurrentPage && t.onPageChange != nil {
			t.onPageChange(target)
		}
		return target
	}
	t.pageIndex = clampIndex(page-1, t.pageCount(len(t.filtered())))
	return t.pageIndex + 1
}

// NextPage advances one page.
func (t *Table[T]) NextPage() int {
	return t.GoToPage(t.currentPage() + 1)
}

// PreviousPage goes back one page.
func (t *Table[T]) PreviousPage() int {
	return t.GoToPage(t.currentPage() - 1)
}

func (t *Table[T]) currentPage() int {
	if t.server {
		return t.serverPage.CurrentPage
	}
	return t.pageIndex + 1
}

// Rows returns the rows to display: filtered and sorted, then sliced to the
// current page in client mode.
func (t *Table[T]) Rows() []T {
	rows := t.filtered()
	if t.server {
		return rows
	}
	idx := clampIndex(t.pageIndex, t.pageCount(len(rows)))
	start := idx * t.pageSize
	if start >= len(rows) {
		return nil
	}
	end := min(start+t.pageSize, len(rows))
	return rows[start:end]
}

// filtered applies search then sort to a copy of the data.
func (t *Table[T]) filtered() []T {
	rows := make([]T, 0, len(t.data))
	if t.search.Value == "" || t.search.Column == "" {
		rows = append(rows, t.data...)
	} else {
		c := t.columns[t.byID[t.search.Column]]
		needle := strings.ToLower(t.search.Value)
		for _, r := range t.data {
			if strings.Contains(strings.ToLower(c.Cell(r)), needle) {
				rows = append(rows, r)
			}
		}
	}

	if t.sort.Direction == SortNone {
		return rows
	}
	c := t.columns[t.byID[t.sort.Column]]
	desc := t.sort.Direction == SortDesc
	slices.SortStableFunc(rows, func(a, b T) int {
		r := compareValues(c.sortKey(a), c.sortKey(b))
		if desc {
			return -r
		}
		return r
	})
	return rows
}

func (t *Table[T]) pageCount(total int) int {
	return (total + t.pageSize - 1) / t.pageSize
}

func (t *Table[T]) column(id string) (Column[T], error) {
	i, ok := t.byID[id]
	if !ok {
		return Column[T]{}, fmt.Errorf("%w: %q", domain.ErrUnknownColumn, id)
	}
	return t.columns[i], nil
}

func clampIndex(idx, pages int) int {
	if idx >= pages {
		idx = pages - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
