package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Meta echoes when and for which period a report was generated.
type Meta struct {
	GeneratedAt time.Time `json:"generated_at"`
	Period      string    `json:"period,omitempty"`
}

// Pagination describes one server-delegated page.
type Pagination struct {
	Total       int `json:"total"`
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	LastPage    int `json:"last_page"`
}

// Normalize derives LastPage when the server omitted it and keeps
// CurrentPage within [1, LastPage].
func (p Pagination) Normalize() Pagination {
	if p.LastPage <= 0 && p.PerPage > 0 {
		p.LastPage = (p.Total + p.PerPage - 1) / p.PerPage
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
	if p.LastPage > 0 && p.CurrentPage > p.LastPage {
		p.CurrentPage = p.LastPage
	}
	return p
}

// ClampPage bounds page to [1, LastPage]. An unknown last page only bounds below.
func (p Pagination) ClampPage(page int) int {
	if page < 1 {
		page = 1
	}
	if p.LastPage > 0 && page > p.LastPage {
		page = p.LastPage
	}
	return page
}

// Result is one report response: ordered rows, optional totals and paging.
type Result[T, S any] struct {
	Data       []T         `json:"data"`
	Summary    *S          `json:"summary,omitempty"`
	Meta       Meta        `json:"meta"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Totals is a summary keyed by metric name, for reports without a dedicated summary type.
type Totals map[string]decimal.Decimal

// Store is a selectable store/warehouse.
type Store struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// Product is a selectable product for adjustment forms.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	SKU      string          `json:"sku"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// StockAdjustment is an adjustment document with its lines.
type StockAdjustment struct {
	ID            int64            `json:"id"`
	ReferenceNo   string           `json:"reference_no"`
	StoreID       int64            `json:"store_id"`
	StoreName     string           `json:"store_name"`
	Type          AdjustmentType   `json:"type"`
	Reason        AdjustmentReason `json:"reason"`
	Status        AdjustmentStatus `json:"status"`
	TotalItems    int              `json:"total_items"`
	TotalQuantity decimal.Decimal  `json:"total_quantity"`
	TotalValue    decimal.Decimal  `json:"total_value"`
	Notes         string           `json:"notes,omitempty"`
	CreatedBy     string           `json:"created_by_name,omitempty"`
	ApprovedBy    string           `json:"approved_by_name,omitempty"`
	RejectReason  string           `json:"rejection_reason,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	Items         []AdjustmentItem `json:"items,omitempty"`
}

// AdjustmentItem is one product line on an adjustment.
type AdjustmentItem struct {
	ID          int64           `json:"id,omitempty"`
	ProductID   int64           `json:"product_id" binding:"required,gt=0"`
	ProductName string          `json:"product_name,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Notes       string          `json:"notes,omitempty"`
}

// AdjustmentActivity is one audit entry on an adjustment's timeline.
type AdjustmentActivity struct {
	ID          int64     `json:"id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	UserName    string    `json:"user_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// AdjustmentSummary aggregates the adjustment list.
type AdjustmentSummary struct {
	TotalAdjustments int             `json:"total_adjustments"`
	Draft            int             `json:"draft"`
	Pending          int             `json:"pending"`
	Approved         int             `json:"approved"`
	Completed        int             `json:"completed"`
	Rejected         int             `json:"rejected"`
	TotalValue       decimal.Decimal `json:"total_value"`
}

// AdjustmentInput is the create/update payload for an adjustment.
type AdjustmentInput struct {
	StoreID int64            `json:"store_id" binding:"required,gt=0"`
	Type    AdjustmentType   `json:"type" binding:"required,adjtype"`
	Reason  AdjustmentReason `json:"reason" binding:"required,adjreason"`
	Notes   string           `json:"notes,omitempty"`
	Items   []AdjustmentItem `json:"items" binding:"required,min=1,dive"`
}

// DispatchRow is a row of the dispatch report.
type DispatchRow struct {
	ID            int64           `json:"id"`
	DispatchNo    string          `json:"dispatch_no"`
	FromStore     string          `json:"from_store"`
	ToStore       string          `json:"to_store"`
	Status        string          `json:"status"`
	TotalItems    int             `json:"total_items"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
	DispatchedAt  time.Time       `json:"dispatched_at"`
}

// DispatchSummary aggregates the dispatch report.
type DispatchSummary struct {
	TotalDispatches int             `json:"total_dispatches"`
	InTransit       int             `json:"in_transit"`
	Delivered       int             `json:"delivered"`
	TotalQuantity   decimal.Decimal `json:"total_quantity"`
	TotalValue      decimal.Decimal `json:"total_value"`
}

// BreakageRow is a row of the breakage report.
type BreakageRow struct {
	ID          int64           `json:"id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	StoreName   string          `json:"store_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Cost        decimal.Decimal `json:"cost"`
	Reason      string          `json:"reason"`
	ReportedAt  time.Time       `json:"reported_at"`
}

// InventoryRow is a row of the stock-on-hand report.
type InventoryRow struct {
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	SKU          string          `json:"sku"`
	Category     string          `json:"category"`
	StoreName    string          `json:"store_name"`
	OnHand       decimal.Decimal `json:"on_hand"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	StockValue   decimal.Decimal `json:"stock_value"`
	StockStatus  string          `json:"stock_status"`
}

// InventorySummary aggregates the stock-on-hand report.
type InventorySummary struct {
	TotalProducts   int             `json:"total_products"`
	TotalValue      decimal.Decimal `json:"total_value"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
}

// ProductRow is a row of the product performance report.
type ProductRow struct {
	ProductID   int64           `json:"product_id" binding:"required,gt=0"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Category    string          `json:"category"`
	UnitsSold   decimal.Decimal `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
	Margin      decimal.Decimal `json:"margin"`
}

// PurchaseOrderRow is a row of the purchase order report.
type PurchaseOrderRow struct {
	ID           int64           `json:"id"`
	PONumber     string          `json:"po_number"`
	SupplierName string          `json:"supplier_name"`
	StoreName    string          `json:"store_name"`
	Status       string          `json:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	OrderedAt    time.Time       `json:"ordered_at"`
	ExpectedAt   *time.Time      `json:"expected_at,omitempty"`
}

// PurchaseRow is a row of the purchase trend report, one per time bucket.
type PurchaseRow struct {
	Period   string          `json:"period"`
	Orders   int             `json:"orders"`
	Quantity decimal.Decimal `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// PurchaseSummary aggregates the purchase trend report.
type PurchaseSummary struct {
	TotalOrders int             `json:"total_orders"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	AvgOrder    decimal.Decimal `json:"average_order_value"`
}

// RepairRow is a row of the repair report.
type RepairRow struct {
	ID          int64           `json:"id"`
	RepairNo    string          `json:"repair_no"`
	ProductName string          `json:"product_name"`
	StoreName   string          `json:"store_name"`
	Status      string          `json:"status"`
	Cost        decimal.Decimal `json:"cost"`
	ReceivedAt  time.Time       `json:"received_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// RequisitionRow is a row of the requisition report.
type RequisitionRow struct {
	ID            int64     `json:"id"`
	RequisitionNo string    `json:"requisition_no"`
	StoreName     string    `json:"store_name"`
	RequestedBy   string    `json:"requested_by"`
	Status        string    `json:"status"`
	TotalItems    int       `json:"total_items"`
	RequestedAt   time.Time `json:"requested_at"`
}

// SupplierRow is a row of the supplier performance report.
type SupplierRow struct {
	SupplierID   int64           `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Orders       int             `json:"orders"`
	TotalSpend   decimal.Decimal `json:"total_spend"`
	OnTimeRate   decimal.Decimal `json:"on_time_rate"`
	AvgLeadDays  decimal.Decimal `json:"avg_lead_days"`
}
