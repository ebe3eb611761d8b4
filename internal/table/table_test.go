package table_test

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdesk/internal/domain"
	"stockdesk/internal/table"
)

type item struct {
	Name  string
	SKU   string
	Qty   int
	Value decimal.Decimal
}

func itemColumns() []table.Column[item] {
	return []table.Column[item]{
		table.Text("name", "Name", func(i item) string { return i.Name }),
		table.Text("sku", "SKU", func(i item) string { return i.SKU }),
		table.Int("qty", "Qty", func(i item) int { return i.Qty }),
		table.Decimal("value", "Value", 2, func(i item) decimal.Decimal { return i.Value }),
	}
}

func sampleItems() []item {
	return []item{
		{Name: "Bolt", SKU: "B-1", Qty: 30, Value: decimal.NewFromFloat(1.5)},
		{Name: "anchor", SKU: "A-9", Qty: 5, Value: decimal.NewFromFloat(12)},
		{Name: "Cable", SKU: "C-3", Qty: 30, Value: decimal.NewFromFloat(3.25)},
		{Name: "Drill", SKU: "D-7", Qty: 1, Value: decimal.NewFromFloat(99.99)},
	}
}

func newTable(t *testing.T, opts table.Options) *table.Table[item] {
	t.Helper()
	tbl, err := table.New(itemColumns(), opts)
	require.NoError(t, err)
	return tbl
}

func names(rows []item) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func TestNew_RejectsBadColumns(t *testing.T) {
	cols := itemColumns()
	cols = append(cols, cols[0])
	_, err := table.New(cols, table.Options{})
	assert.Error(t, err)

	_, err = table.New(itemColumns(), table.Options{SearchColumn: "nope"})
	assert.ErrorIs(t, err, domain.ErrUnknownColumn)

	_, err = table.New(itemColumns(), table.Options{PageSize: 7})
	assert.ErrorIs(t, err, domain.ErrInvalidPageSize)
}

func TestToggleSort_CyclesBackToOriginalOrder(t *testing.T) {
	tbl := newTable(t, table.Options{})
	tbl.SetData(sampleItems())
	original := names(tbl.Rows())

	require.NoError(t, tbl.ToggleSort("name"))
	assert.Equal(t, []string{"anchor", "Bolt", "Cable", "Drill"}, names(tbl.Rows()))
	assert.Equal(t, table.Sort{Column: "name", Direction: table.SortAsc}, tbl.Sort())

	require.NoError(t, tbl.ToggleSort("name"))
	assert.Equal(t, []string{"Drill", "Cable", "Bolt", "anchor"}, names(tbl.Rows()))

	require.NoError(t, tbl.ToggleSort("name"))
	assert.Equal(t, table.Sort{}, tbl.Sort())
	assert.Equal(t, original, names(tbl.Rows()))
}

func TestSetSort_IsIdempotent(t *testing.T) {
	tbl := newTable(t, table.Options{})
	tbl.SetData(sampleItems())

	require.NoError(t, tbl.SetSort("value", table.SortDesc))
	first := tbl.View()
	require.NoError(t, tbl.SetSort("value", table.SortDesc))
	assert.Equal(t, first, tbl.View())
	assert.Equal(t, []string{"Drill", "anchor", "Cable", "Bolt"}, names(tbl.Rows()))
}

func TestSort_IsStableForTies(t *testing.T) {
	tbl := newTable(t, table.Options{})
	tbl.SetData(sampleItems())

	require.NoError(t, tbl.SetSort("qty", table.SortDesc))
	assert.Equal(t, []string{"Bolt", "Cable", "anchor", "Drill"}, names(tbl.Rows()))
	require.NoError(t, tbl.SetSort("qty", table.SortAsc))
	assert.Equal(t, []string{"Drill", "anchor", "Bolt", "Cable"}, names(tbl.Rows()))
}

func TestSetSort_Errors(t *testing.T) {
	tbl := newTable(t, table.Options{})
	assert.ErrorIs(t, tbl.SetSort("missing", table.SortAsc), domain.ErrUnknownColumn)
	assert.Error(t, tbl.SetSort("name", "sideways"))
}

func TestSearch_MatchesExactlyCaseInsensitiveSubstrings(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []rune("abcABC-")
	randomWord := func(n int) string {
		var sb strings.Builder
		for i := 0; i < n; i++ {
			sb.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
		return sb.String()
	}

	for round := 0; round < 50; round++ {
		rows := make([]item, 30)
		for i := range rows {
			rows[i] = item{Name: randomWord(6), SKU: fmt.Sprintf("S-%d", i)}
		}
		needle := randomWord(2)

		tbl := newTable(t, table.Options{SearchColumn: "name", PageSize: 100})
		tbl.SetData(rows)
		require.NoError(t, tbl.SetSearch("", needle))

		var want []item
		for _, r := range rows {
			if strings.Contains(strings.ToLower(r.Name), strings.ToLower(needle)) {
				want = append(want, r)
			}
		}
		got := tbl.Rows()
		if len(want) == 0 {
			assert.Empty(t, got)
			continue
		}
		assert.Equal(t, want, got)
	}
}

func TestSearch_ResetsToFirstPage(t *testing.T) {
	rows := make([]item, 35)
	for i := range rows {
		rows[i] = item{Name: fmt.Sprintf("item-%02d", i)}
	}
	tbl := newTable(t, table.Options{SearchColumn: "name"})
	tbl.SetData(rows)

	assert.Equal(t, 3, tbl.GoToPage(3))
	require.NoError(t, tbl.SetSearch("name", "item-1"))
	v := tbl.View()
	assert.Equal(t, 1, v.Page.Page)
	assert.Equal(t, 10, v.Page.TotalRows)
}

func TestClientPagination(t *testing.T) {
	rows := make([]item, 45)
	for i := range rows {
		rows[i] = item{Name: fmt.Sprintf("n%02d", i)}
	}
	tbl := newTable(t, table.Options{})
	tbl.SetData(rows)

	v := tbl.View()
	assert.Equal(t, table.PageInfo{Page: 1, PageCount: 5, PageSize: 10, TotalRows: 45, CanNext: true}, v.Page)
	assert.Len(t, v.Rows, 10)

	require.NoError(t, tbl.SetPageSize(25))
	assert.Equal(t, 2, tbl.NextPage())
	assert.Len(t, tbl.Rows(), 20)
	assert.Equal(t, 2, tbl.NextPage(), "next on the last page stays put")

	assert.Equal(t, 1, tbl.GoToPage(0))
	assert.Equal(t, 2, tbl.GoToPage(99))
	assert.ErrorIs(t, tbl.SetPageSize(30), domain.ErrInvalidPageSize)
}

func TestServerPagination_DelegatesPageRequests(t *testing.T) {
	var requested []int
	tbl := newTable(t, table.Options{
		ServerPagination: true,
		OnPageChange:     func(p int) { requested = append(requested, p) },
	})
	rows := make([]item, 20)
	for i := range rows {
		rows[i] = item{Name: fmt.Sprintf("r%d", i)}
	}
	tbl.SetData(rows)
	tbl.SetServerPage(domain.Pagination{Total: 45, CurrentPage: 1, PerPage: 20})

	assert.Len(t, tbl.Rows(), 20, "server mode never slices")

	assert.Equal(t, 2, tbl.NextPage())
	assert.Equal(t, 3, tbl.GoToPage(50))
	assert.Equal(t, 1, tbl.GoToPage(0))
	assert.Equal(t, 1, tbl.PreviousPage())
	assert.Equal(t, []int{2, 3}, requested, "current page and clamped-to-current requests are not delegated")

	v := tbl.View()
	assert.Equal(t, table.PageInfo{Page: 1, PageCount: 3, PageSize: 20, TotalRows: 45, CanNext: true, Server: true}, v.Page)
}

func TestColumnVisibility_KeepsSortAndSearch(t *testing.T) {
	tbl := newTable(t, table.Options{SearchColumn: "name"})
	tbl.SetData(sampleItems())
	require.NoError(t, tbl.SetSort("qty", table.SortAsc))
	require.NoError(t, tbl.SetSearch("", "l"))

	require.NoError(t, tbl.SetColumnVisible("qty", false))
	v := tbl.View()
	require.Len(t, v.Columns, 3)
	assert.Equal(t, []string{"name", "sku", "value"}, []string{v.Columns[0].ID, v.Columns[1].ID, v.Columns[2].ID})
	assert.Equal(t, []string{"qty"}, v.Hidden)
	assert.Equal(t, table.Sort{Column: "qty", Direction: table.SortAsc}, v.Sort)
	assert.Equal(t, [][]string{{"Drill", "D-7", "99.99"}, {"Bolt", "B-1", "1.50"}, {"Cable", "C-3", "3.25"}}, v.Rows)

	require.NoError(t, tbl.SetColumnVisible("qty", true))
	assert.Len(t, tbl.View().Columns, 4)
}

func TestView_LoadingAndEmpty(t *testing.T) {
	tbl := newTable(t, table.Options{EmptyMessage: "No adjustments found."})
	require.NoError(t, tbl.SetColumnVisible("sku", false))

	tbl.SetLoading(true)
	v := tbl.View()
	assert.True(t, v.Loading)
	require.NotEmpty(t, v.Rows)
	for _, r := range v.Rows {
		assert.Len(t, r, 3)
	}

	tbl.SetLoading(false)
	v = tbl.View()
	assert.True(t, v.Empty)
	assert.Equal(t, "No adjustments found.", v.EmptyMessage)
	assert.Empty(t, v.Rows)
}

func TestView_IsDeterministic(t *testing.T) {
	build := func() table.View {
		tbl := newTable(t, table.Options{SearchColumn: "sku"})
		tbl.SetData(sampleItems())
		require.NoError(t, tbl.SetSort("qty", table.SortDesc))
		require.NoError(t, tbl.SetSearch("", "-"))
		return tbl.View()
	}
	assert.Equal(t, build(), build())
}
