package report

import (
	"time"

	"github.com/shopspring/decimal"

	"stockdesk/internal/chart"
	"stockdesk/internal/domain"
	"stockdesk/internal/policy"
	"stockdesk/internal/table"
)

const topN = 5

// DefaultCatalog holds one primary report per business domain.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		AdjustmentList(),
		DispatchSummary(),
		BreakageSummary(),
		InventoryStockLevels(),
		ProductPerformance(),
		PurchaseOrderSummary(),
		PurchaseTrends(),
		RepairSummary(),
		RequisitionSummary(),
		SupplierPerformance(),
	)
	if err != nil {
		panic(err)
	}
	return c
}

// AdjustmentList is the paginated stock adjustment list.
func AdjustmentList() *Report[domain.StockAdjustment, domain.AdjustmentSummary] {
	type row = domain.StockAdjustment
	return &Report[row, domain.AdjustmentSummary]{
		Domain: "stock-adjustments",
		Name:   "list",
		Title:  "Stock Adjustments",
		Path:   "/stock-adjustments",
		Columns: []table.Column[row]{
			table.Text("reference_no", "Reference", func(r row) string { return r.ReferenceNo }),
			table.Text("store", "Store", func(r row) string { return r.StoreName }),
			table.Text("type", "Type", func(r row) string { return string(r.Type) }),
			table.Text("reason", "Reason", func(r row) string { return string(r.Reason) }),
			table.Text("status", "Status", func(r row) string { return policy.AdjustmentBadge(r.Status).Label }),
			table.Int("total_items", "Items", func(r row) int { return r.TotalItems }),
			table.Decimal("total_quantity", "Quantity", 2, func(r row) decimal.Decimal { return r.TotalQuantity }),
			table.Decimal("total_value", "Value", 2, func(r row) decimal.Decimal { return r.TotalValue }),
			table.Text("created_by", "Created By", func(r row) string { return r.CreatedBy }),
			table.Date("created_at", "Created", func(r row) time.Time { return r.CreatedAt }),
		},
		SearchColumn:     "reference_no",
		ServerPagination: true,
		EmptyMessage:     "No adjustments found.",
		ChartKind:        ChartPie,
		Chart: func(rows []row, _ domain.ReportFilter) *ChartView {
			return &ChartView{
				Kind:   ChartPie,
				Title:  "Adjustments by status",
				Slices: countBy(rows, func(r row) string { return policy.AdjustmentBadge(r.Status).Label }),
			}
		},
	}
}

// DispatchSummary lists dispatches with quantity and value over time.
func DispatchSummary() *Report[domain.DispatchRow, domain.DispatchSummary] {
	type row = domain.DispatchRow
	return &Report[row, domain.DispatchSummary]{
		Domain: "dispatch",
		Name:   "summary",
		Title:  "Dispatch Summary",
		Path:   "/dispatch/summary",
		Columns: []table.Column[row]{
			table.Text("dispatch_no", "Dispatch #", func(r row) string { return r.DispatchNo }),
			table.Text("from_store", "From", func(r row) string { return r.FromStore }),
			table.Text("to_store", "To", func(r row) string { return r.ToStore }),
			statusColumn[row](policy.DomainDispatch, func(r row) string { return r.Status }),
			table.Int("total_items", "Items", func(r row) int { return r.TotalItems }),
			table.Decimal("total_quantity", "Quantity", 2, func(r row) decimal.Decimal { return r.TotalQuantity }),
			table.Decimal("total_value", "Value", 2, func(r row) decimal.Decimal { return r.TotalValue }),
			table.Date("dispatched_at", "Dispatched", func(r row) time.Time { return r.DispatchedAt }),
		},
		SearchColumn: "dispatch_no",
		EmptyMessage: "No dispatches in this period.",
		ChartKind:    ChartBar,
		Chart: func(rows []row, f domain.ReportFilter) *ChartView {
			s := chart.GroupSeries(rows, func(r row) time.Time { return r.DispatchedAt }, f.GroupBy, []chart.SeriesKey[row]{
				{Key: "quantity", Label: "Quantity", Value: func(r row) decimal.Decimal { return r.TotalQuantity }},
				{Key: "value", Label: "Value", Value: func(r row) decimal.Decimal { return r.TotalValue }},
			})
			return &ChartView{Kind: ChartBar, Title: "Dispatched over time", Series: &s}
		},
	}
}

// BreakageSummary lists breakages; the chart shows the costliest products.
func BreakageSummary() *Report[domain.BreakageRow, domain.Totals] {
	type row = domain.BreakageRow
	return &Report[row, domain.Totals]{
		Domain: "breakages",
		Name:   "summary",
		Title:  "Breakages",
		Path:   "/breakages/summary",
		Columns: []table.Column[row]{
			table.Text("product_name", "Product", func(r row) string { return r.ProductName }),
			table.Text("sku", "SKU", func(r row) string { return r.SKU }),
			table.Text("store", "Store", func(r row) string { return r.StoreName }),
			table.Decimal("quantity", "Quantity", 2, func(r row) decimal.Decimal { return r.Quantity }),
			table.Decimal("cost", "Cost", 2, func(r row) decimal.Decimal { return r.Cost }),
			table.Text("reason", "Reason", func(r row) string { return r.Reason }),
			table.Date("reported_at", "Reported", func(r row) time.Time { return r.ReportedAt }),
		},
		SearchColumn: "product_name",
		EmptyMessage: "No breakages recorded.",
		ChartKind:    ChartPie,
		Chart: func(rows []row, _ domain.ReportFilter) *ChartView {
			totals := sumBy(rows, func(r row) string { return r.ProductName }, func(r row) decimal.Decimal { return r.Cost })
			return &ChartView{Kind: ChartPie, Title: "Cost by product", Slices: chart.PieTopN(totals, topN, namedName, namedValue)}
		},
	}
}

// InventoryStockLevels is the paginated stock-on-hand report.
func InventoryStockLevels() *Report[domain.InventoryRow, domain.InventorySummary] {
	type row = domain.InventoryRow
	return &Report[row, domain.InventorySummary]{
		Domain: "inventory",
		Name:   "stock-levels",
		Title:  "Stock Levels",
		Path:   "/inventory/stock-levels",
		Columns: []table.Column[row]{
			table.Text("product_name", "Product", func(r row) string { return r.ProductName }),
			table.Text("sku", "SKU", func(r row) string { return r.SKU }),
			table.Text("category", "Category", func(r row) string { return r.Category }),
			table.Text("store", "Store", func(r row) string { return r.StoreName }),
			table.Decimal("on_hand", "On Hand", 2, func(r row) decimal.Decimal { return r.OnHand }),
			table.Decimal("reorder_level", "Reorder Level", 2, func(r row) decimal.Decimal { return r.ReorderLevel }),
			table.Decimal("stock_value", "Value", 2, func(r row) decimal.Decimal { return r.StockValue }),
			statusColumn[row](policy.DomainInventory, func(r row) string { return r.StockStatus }),
		},
		SearchColumn:     "product_name",
		ServerPagination: true,
		EmptyMessage:     "No stock records.",
		ChartKind:        ChartPie,
		Chart: func(rows []row, _ domain.ReportFilter) *ChartView {
			return &ChartView{
				Kind:   ChartPie,
				Title:  "Products by stock status",
				Slices: countBy(rows, func(r row) string { return policy.StatusBadge(policy.DomainInventory, r.StockStatus).Label }),
			}
		},
	}
}

// ProductPerformance ranks products by revenue.
func ProductPerformance() *Report[domain.ProductRow, domain.Totals] {
	type row = domain.ProductRow
	return &Report[row, domain.Totals]{
		Domain: "products",
		Name:   "performance",
		Title:  "Product Performance",
		Path:   "/products/performance",
		Columns: []table.Column[row]{
			table.Text("product_name", "Product", func(r row) string { return r.ProductName }),
			table.Text("sku", "SKU", func(r row) string { return r.SKU }),
			table.Text("category", "Category", func(r row) string { return r.Category }),
			table.Decimal("units_sold", "Units Sold", 0, func(r row) decimal.Decimal { return r.UnitsSold }),
			table.Decimal("revenue", "Revenue", 2, func(r row) decimal.Decimal { return r.Revenue }),
			table.Decimal("margin", "Margin", 2, func(r row) decimal.Decimal { return r.Margin }),
		},
		SearchColumn: "product_name",
		EmptyMessage: "No product sales in this period.",
		ChartKind:    ChartBar,
		Chart: func(rows []row, _ domain.ReportFilter) *ChartView {
			revenue := func(r row) decimal.Decimal { return r.Revenue }
			s := chart.NewSeries(chart.TopN(rows, 10, revenue), func(r row) string { return r.ProductName }, []chart.SeriesKey[row]{
				{Key: "revenue", Label: "Revenue", Value: revenue},
				{Key: "margin", Label: "Margin", Value: func(r row) decimal.Decimal { return r.Margin }},
			})
			return &ChartView{Kind: ChartBar, Title: "Top products by revenue", Series: &s}
		},
	}
}

// PurchaseOrderSummary is the paginated purchase order list.
func PurchaseOrderSummary() *Report[domain.PurchaseOrderRow, domain.Totals] {
	type row = domain.PurchaseOrderRow
	return &Report[row, domain.Totals]{
		Domain: "purchase-orders",
		Name:   "summary",
		Title:  "Purchase Orders",
		Path:   "/purchase-orders/summary",
		Columns: []table.Column[row]{
			table.Text("po_number", "PO #", func(r row) string { return r.PONumber }),
			table.Text("supplier", "Supplier", func(r row) string { return r.SupplierName }),
			table.Text("store", "Store", func(r row) string { return r.StoreName }),
			statusColumn[row](policy.DomainPurchaseOrder, func(r row) string { return r.Status }),
			table.Decimal("total_amount", "Amount", 2, func(r row) decimal.Decimal { return r.TotalAmount }),
			table.Date("ordered_at", "Ordered", func(r row) time.Time { return r.OrderedAt }),
			table.OptionalDate("expected_at", "Expected", func(r row) *time.Time { return r.ExpectedAt }),
		},
		SearchColumn:     "po_number",
		ServerPagination: true,
		EmptyMessage:     "No purchase orders found.",
		ChartKind:        ChartPie,
		Chart: func(rows []row, _ domain.ReportFilter) *ChartView {
			return &ChartView{
				Kind:   ChartPie,
				Title:  "Orders by status",
				Slices: countBy(rows, func(r row) string { return policy.StatusBadge(policy.DomainPurchaseOrder, r.Status).Label }),
			}
		},
	}
}

// PurchaseTrends shows purchase volume per period bucket.
func PurchaseTrends() *Report[domain.PurchaseRow, domain.PurchaseSummary] {
	type row = domain.PurchaseRow
	return &Report[row, domain.PurchaseSummary]{
		Domain: "purchase",
		Name:   "trends",
		Title:  "Purchase Trends",
		Path:   "/purchase/trends",
		Columns: []table.Column[row]{
			table.Text("period", "Period", func(r row) string { return r.Period }),
			table.Int("orders", "Orders", func(r row) int { return r.Orders }),
			table.Decimal("quantity", "Quantity", 2, func(r row) decimal.Decimal { return r.Quantity }),
			table.Decimal("amount", "Amount", 2, func(r row) decimal.Decimal { return r.Amount }),
		},
		SearchColumn: "period",
		EmptyMessage: "No purchases in this period.",
		ChartKind:    ChartLine,
		Chart: func(rows []row, _ domain.ReportFilter) *ChartView {
			s := chart.NewSeries(rows, func(r row) string { return r.Period }, []chart.SeriesKey[row]{
				{Key: "amount", Label: "Amount", Value: func(r row) decimal.Decimal { return r.Amount }},
				{Key: "quantity", Label: "Quantity", Value: func(r row) decimal.Decimal { return r.Quantity }},
			})
			return &ChartView{Kind: ChartLine, Title: "Purchases", Series: &s}
		},
	}
}

// RepairSummary lists repairs and their costs.
func RepairSummary() *Report[domain.RepairRow, domain.Totals] {
	type row = domain.RepairRow
	return &Report[row, domain.Totals]{
		Domain: "repairs",
		Name:   "summary",
		Title:  "Repairs",
		Path:   "/repairs/summary",
		Columns: []table.Column[row]{
			table.Text("repair_no", "Repair #", func(r row) string { return r.RepairNo }),
			table.Text("product_name", "Product", func(r row) string { return r.ProductName }),
			table.Text("store", "Store", func(r row) string { return r.StoreName }),
			statusColumn[row](policy.DomainRepair, func(r row) string { return r.Status }),
			table.Decimal("cost", "Cost", 2, func(r row) decimal.Decimal { return r.Cost }),
			table.Date("received_at", "Received", func(r row) time.Time { return r.ReceivedAt }),
			table.OptionalDate("completed_at", "Completed", func(r row) *time.Time { return r.CompletedAt }),
		},
		SearchColumn: "repair_no",
		EmptyMessage: "No repairs found.",
		ChartKind:    ChartPie,
		Chart: func(rows []row, _ domain.ReportFilter) *ChartView {
			return &ChartView{
				Kind:   ChartPie,
				Title:  "Repairs by status",
				Slices: countBy(rows, func(r row) string { return policy.StatusBadge(policy.DomainRepair, r.Status).Label }),
			}
		},
	}
}

// RequisitionSummary lists store requisitions over time.
func RequisitionSummary() *Report[domain.RequisitionRow, domain.Totals] {
	type row = domain.RequisitionRow
	return &Report[row, domain.Totals]{
		Domain: "requisitions",
		Name:   "summary",
		Title:  "Requisitions",
		Path:   "/requisitions/summary",
		Columns: []table.Column[row]{
			table.Text("requisition_no", "Requisition #", func(r row) string { return r.RequisitionNo }),
			table.Text("store", "Store", func(r row) string { return r.StoreName }),
			table.Text("requested_by", "Requested By", func(r row) string { return r.RequestedBy }),
			statusColumn[row](policy.DomainRequisition, func(r row) string { return r.Status }),
			table.Int("total_items", "Items", func(r row) int { return r.TotalItems }),
			table.Date("requested_at", "Requested", func(r row) time.Time { return r.RequestedAt }),
		},
		SearchColumn: "requisition_no",
		EmptyMessage: "No requisitions found.",
		ChartKind:    ChartArea,
		Chart: func(rows []row, f domain.ReportFilter) *ChartView {
			s := chart.GroupSeries(rows, func(r row) time.Time { return r.RequestedAt }, f.GroupBy, []chart.SeriesKey[row]{
				{Key: "requisitions", Label: "Requisitions", Value: func(row) decimal.Decimal { return decimal.NewFromInt(1) }},
				{Key: "items", Label: "Items", Value: func(r row) decimal.Decimal { return decimal.NewFromInt(int64(r.TotalItems)) }},
			})
			return &ChartView{Kind: ChartArea, Title: "Requisitions over time", Series: &s}
		},
	}
}

// SupplierPerformance ranks suppliers by spend.
func SupplierPerformance() *Report[domain.SupplierRow, domain.Totals] {
	type row = domain.SupplierRow
	return &Report[row, domain.Totals]{
		Domain: "suppliers",
		Name:   "performance",
		Title:  "Supplier Performance",
		Path:   "/suppliers/performance",
		Columns: []table.Column[row]{
			table.Text("supplier_name", "Supplier", func(r row) string { return r.SupplierName }),
			table.Int("orders", "Orders", func(r row) int { return r.Orders }),
			table.Decimal("total_spend", "Spend", 2, func(r row) decimal.Decimal { return r.TotalSpend }),
			table.Decimal("on_time_rate", "On Time %", 1, func(r row) decimal.Decimal { return r.OnTimeRate }),
			table.Decimal("avg_lead_days", "Avg Lead Days", 1, func(r row) decimal.Decimal { return r.AvgLeadDays }),
		},
		SearchColumn: "supplier_name",
		EmptyMessage: "No supplier activity in this period.",
		ChartKind:    ChartPie,
		Chart: func(rows []row, _ domain.ReportFilter) *ChartView {
			return &ChartView{
				Kind:   ChartPie,
				Title:  "Spend by supplier",
				Slices: chart.PieTopN(rows, topN, func(r row) string { return r.SupplierName }, func(r row) decimal.Decimal { return r.TotalSpend }),
			}
		},
	}
}

// statusColumn renders a lifecycle status through its badge label, falling
// back to the raw value for statuses without a badge.
func statusColumn[T any](d policy.Domain, get func(T) string) table.Column[T] {
	return table.Text("status", "Status", func(r T) string {
		status := get(r)
		if b, ok := policy.LookupStatusBadge(d, status); ok {
			return b.Label
		}
		return status
	})
}

type named struct {
	name  string
	value decimal.Decimal
}

func namedName(n named) string { return n.name }
func namedValue(n named) decimal.Decimal { return n.value }

// sumBy totals value per key in first-seen order.
func sumBy[T any](rows []T, key func(T) string, value func(T) decimal.Decimal) []named {
	var out []named
	index := map[string]int{}
	for _, r := range rows {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, named{name: k})
		}
		out[i].value = out[i].value.Add(value(r))
	}
	return out
}

// countBy is a pie of row counts per key in first-seen order.
func countBy[T any](rows []T, key func(T) string) []chart.Slice {
	one := decimal.NewFromInt(1)
	counts := sumBy(rows, key, func(T) decimal.Decimal { return one })
	return chart.Pie(counts, namedName, namedValue)
}
