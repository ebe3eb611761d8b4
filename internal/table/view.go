package table

// Header is a visible column as rendered.
type Header struct {
	ID       string        `json:"id"`
	Label    string        `json:"label"`
	Sortable bool          `json:"sortable"`
	Sort     SortDirection `json:"sort,omitempty"`
}

// PageInfo is the pager state under a table.
type PageInfo struct {
	Page        int  `json:"page"`
	PageCount   int  `json:"page_count"`
	PageSize    int  `json:"page_size"`
	TotalRows   int  `json:"total_rows"`
	CanPrevious bool `json:"can_previous"`
	CanNext     bool `json:"can_next"`
	Server      bool `json:"server"`
}

// View is a rendered snapshot of a table.
type View struct {
	Columns      []Header   `json:"columns"`
	Rows         [][]string `json:"rows"`
	Loading      bool       `json:"loading"`
	Empty        bool       `json:"empty"`
	EmptyMessage string     `json:"empty_message,omitempty"`
	Page         PageInfo   `json:"page"`
	Sort         Sort       `json:"sort"`
	Search       Search     `json:"search"`
	Hidden       []string   `json:"hidden,omitempty"`
}

// View renders the current state. The same data and state always render the
// same view.
func (t *Table[T]) View() View {
	var visible []Column[T]
	headers := make([]Header, 0, len(t.columns))
	for _, c := range t.columns {
		if t.hidden[c.ID] {
			continue
		}
		visible = append(visible, c)
		h := Header{ID: c.ID, Label: c.Header, Sortable: c.Sortable}
		if t.sort.Column == c.ID {
			h.Sort = t.sort.Direction
		}
		headers = append(headers, h)
	}

	v := View{
		Columns: headers,
		Sort:    t.sort,
		Search:  t.search,
		Hidden:  t.Hidden(),
		Page:    t.pageInfo(),
	}

	if t.loading {
		v.Loading = true
		v.Rows = make([][]string, placeholderRows)
		for i := range v.Rows {
			v.Rows[i] = make([]string, len(visible))
		}
		return v
	}

	v.Rows = render(t.Rows(), visible)
	if len(v.Rows) == 0 {
		v.Empty = true
		v.EmptyMessage = t.emptyMessage
	}
	return v
}

// FullView is View over every filtered and sorted row, ignoring the page.
// Exports use it.
func (t *Table[T]) FullView() View {
	v := t.View()
	if v.Loading {
		return v
	}
	v.Rows = render(t.filtered(), t.visible())
	v.Empty = len(v.Rows) == 0
	if v.Empty {
		v.EmptyMessage = t.emptyMessage
	}
	return v
}

func (t *Table[T]) visible() []Column[T] {
	var out []Column[T]
	for _, c := range t.columns {
		if !t.hidden[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

func render[T any](rows []T, visible []Column[T]) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		cells := make([]string, len(visible))
		for j, c := range visible {
			cells[j] = c.Cell(r)
		}
		out[i] = cells
	}
	return out
}

func (t *Table[T]) pageInfo() PageInfo {
	if t.server {
		p := t.serverPage
		return PageInfo{
			Page:        p.CurrentPage,
			PageCount:   p.LastPage,
			PageSize:    p.PerPage,
			TotalRows:   p.Total,
			CanPrevious: p.CurrentPage > 1,
			CanNext:     p.CurrentPage < p.LastPage,
			Server:      true,
		}
	}
	total := len(t.filtered())
	pages := t.pageCount(total)
	idx := clampIndex(t.pageIndex, pages)
	return PageInfo{
		Page:        idx + 1,
		PageCount:   pages,
		PageSize:    t.pageSize,
		TotalRows:   total,
		CanPrevious: idx > 0,
		CanNext:     idx+1 < pages,
	}
}
