package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"stockdesk/internal/chart"
	"stockdesk/internal/report"
	"stockdesk/internal/service"
	"stockdesk/internal/table"
)

const barWidth = 30

// printView writes a report view as an aligned text table followed by the
// pager, the summary and optionally the chart.
func printView(w io.Writer, v *report.View, withChart bool) error {
	fmt.Fprintf(w, "%s (%s)\n", v.Report.Title, v.Report.Key)
	if v.Error != "" {
		fmt.Fprintf(w, "! %s\n", v.Error)
	}
	if err := printTable(w, v.Table); err != nil {
		return err
	}
	printPager(w, v.Table.Page)

	if v.Summary != nil {
		b, err := json.MarshalIndent(v.Summary, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding summary: %w", err)
		}
		fmt.Fprintf(w, "Summary:\n%s\n", b)
	}
	if withChart && v.Chart != nil {
		printChart(w, v.Chart)
	}
	return nil
}

func printTable(w io.Writer, t table.View) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	labels := make([]string, len(t.Columns))
	for i, h := range t.Columns {
		labels[i] = h.Label + sortMarker(h.Sort)
	}
	fmt.Fprintln(tw, strings.Join(labels, "\t"))

	if t.Loading {
		fmt.Fprintln(tw, "Loading...")
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if t.Empty {
		fmt.Fprintln(w, t.EmptyMessage)
	}
	return nil
}

func sortMarker(d table.SortDirection) string {
	switch d {
	case table.SortAsc:
		return " ^"
	case table.SortDesc:
		return " v"
	default:
		return ""
	}
}

func printPager(w io.Writer, p table.PageInfo) {
	pages := max(p.PageCount, 1)
	fmt.Fprintf(w, "Page %d of %d (%d rows, %d per page)\n", max(p.Page, 1), pages, p.TotalRows, p.PageSize)
}

func printChart(w io.Writer, c *report.ChartView) {
	title := c.Title
	if title == "" {
		title = string(c.Kind) + " chart"
	}
	fmt.Fprintf(w, "%s:\n", title)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer func() { _ = tw.Flush() }()

	if len(c.Slices) > 0 {
		top := decimal.Zero
		for _, s := range c.Slices {
			top = decimal.Max(top, s.Value)
		}
		for _, s := range c.Slices {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.Value.StringFixed(2), bar(s.Value, top))
		}
		return
	}
	if c.Series == nil {
		return
	}
	keys := seriesKeys(c.Series)
	top := decimal.Zero
	for _, p := range c.Series.Points {
		for _, k := range keys {
			top = decimal.Max(top, p.Values[k])
		}
	}
	for _, p := range c.Series.Points {
		for _, k := range keys {
			v := p.Values[k]
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, k, v.String(), bar(v, top))
		}
	}
}

// seriesKeys follows the legend order, falling back to sorted value keys.
func seriesKeys(s *chart.Series) []string {
	if len(s.Legend) > 0 {
		keys := make([]string, len(s.Legend))
		for i, l := range s.Legend {
			keys[i] = l.Key
		}
		return keys
	}
	seen := map[string]bool{}
	var keys []string
	for _, p := range s.Points {
		for k := range p.Values {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func bar(v, top decimal.Decimal) string {
	if !top.IsPositive() || !v.IsPositive() {
		return ""
	}
	n := v.Mul(decimal.NewFromInt(barWidth)).Div(top).Round(0).IntPart()
	return strings.Repeat("#", int(max(n, 1)))
}

func printAdjustment(w io.Writer, v *service.AdjustmentView) {
	fmt.Fprintf(w, "%s  #%d  %s\n", v.ReferenceNo, v.ID, v.Status)
	fmt.Fprintf(w, "Store: %s  Type: %s  Reason: %s\n", v.StoreName, v.Type, v.Reason)
	if v.RejectReason != "" {
		fmt.Fprintf(w, "Rejected: %s\n", v.RejectReason)
	}
	if len(v.Items) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Product\tSKU\tQuantity\tUnit Cost")
		for _, it := range v.Items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.ProductName, it.SKU, it.Quantity.String(), it.UnitCost.StringFixed(2))
		}
		_ = tw.Flush()
	}
	actions := make([]string, len(v.Actions))
	for i, a := range v.Actions {
		actions[i] = string(a)
	}
	if len(actions) == 0 {
		actions = []string{"none"}
	}
	fmt.Fprintf(w, "Actions: %s\n", strings.Join(actions, ", "))
}
