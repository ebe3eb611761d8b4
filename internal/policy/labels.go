package policy

import "stockdesk/internal/domain"

// Badge is how a status renders: its label and a color token.
type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// unknownBadge renders statuses the maps below do not know about.
var unknownBadge = Badge{Label: "Unknown", Color: "gray"}

var adjustmentBadges = map[domain.AdjustmentStatus]Badge{
	domain.AdjustmentDraft:     {Label: "Draft", Color: "gray"},
	domain.AdjustmentPending:   {Label: "Pending Approval", Color: "yellow"},
	domain.AdjustmentApproved:  {Label: "Approved", Color: "blue"},
	domain.AdjustmentCompleted: {Label: "Completed", Color: "green"},
	domain.AdjustmentRejected:  {Label: "Rejected", Color: "red"},
}

// AdjustmentBadge returns the badge for an adjustment status.
func AdjustmentBadge(status domain.AdjustmentStatus) Badge {
	if b, ok := adjustmentBadges[status]; ok {
		return b
	}
	return unknownBadge
}

// Domain names a family of documents with its own status vocabulary.
type Domain string

const (
	DomainDispatch      Domain = "dispatch"
	DomainPurchaseOrder Domain = "purchase-orders"
	DomainRequisition   Domain = "requisitions"
	DomainRepair        Domain = "repairs"
	DomainInventory     Domain = "inventory"
)

var statusBadges = map[Domain]map[string]Badge{
	DomainDispatch: {
		"pending":    {Label: "Pending", Color: "yellow"},
		"in_transit": {Label: "In Transit", Color: "blue"},
		"delivered":  {Label: "Delivered", Color: "green"},
		"cancelled":  {Label: "Cancelled", Color: "red"},
	},
	DomainPurchaseOrder: {
		"draft":     {Label: "Draft", Color: "gray"},
		"sent":      {Label: "Sent", Color: "blue"},
		"partial":   {Label: "Partially Received", Color: "yellow"},
		"received":  {Label: "Received", Color: "green"},
		"cancelled": {Label: "Cancelled", Color: "red"},
	},
	DomainRequisition: {
		"pending":   {Label: "Pending", Color: "yellow"},
		"approved":  {Label: "Approved", Color: "blue"},
		"fulfilled": {Label: "Fulfilled", Color: "green"},
		"rejected":  {Label: "Rejected", Color: "red"},
	},
	DomainRepair: {
		"received":    {Label: "Received", Color: "gray"},
		"in_progress": {Label: "In Progress", Color: "yellow"},
		"completed":   {Label: "Completed", Color: "green"},
		"scrapped":    {Label: "Scrapped", Color: "red"},
	},
	DomainInventory: {
		"in_stock":     {Label: "In Stock", Color: "green"},
		"low_stock":    {Label: "Low Stock", Color: "yellow"},
		"out_of_stock": {Label: "Out of Stock", Color: "red"},
	},
}

// StatusBadge returns the badge for status within a document family.
func StatusBadge(d Domain, status string) Badge {
	if b, ok := LookupStatusBadge(d, status); ok {
		return b
	}
	return unknownBadge
}

// LookupStatusBadge is StatusBadge without the fallback.
func LookupStatusBadge(d Domain, status string) (Badge, bool) {
	b, ok := statusBadges[d][status]
	return b, ok
}
