package domain

// Period is a symbolic reporting range understood by the inventory API.
type Period string

const (
	PeriodToday       Period = "today"
	PeriodYesterday   Period = "yesterday"
	PeriodThisWeek    Period = "this_week"
	PeriodLastWeek    Period = "last_week"
	PeriodLast7Days   Period = "last_7_days"
	PeriodLast30Days  Period = "last_30_days"
	PeriodThisMonth   Period = "this_month"
	PeriodLastMonth   Period = "last_month"
	PeriodThisQuarter Period = "this_quarter"
	PeriodLastQuarter Period = "last_quarter"
	PeriodThisYear    Period = "this_year"
	PeriodLastYear    Period = "last_year"
)

// DefaultPeriod is the period a fresh report filter starts with.
const DefaultPeriod = PeriodThisMonth

// Periods lists the quick-period presets in display order.
var Periods = []Period{
	PeriodToday,
	PeriodYesterday,
	PeriodThisWeek,
	PeriodLastWeek,
	PeriodLast7Days,
	PeriodLast30Days,
	PeriodThisMonth,
	PeriodLastMonth,
	PeriodThisQuarter,
	PeriodLastQuarter,
	PeriodThisYear,
	PeriodLastYear,
}

// PeriodLabels maps presets to their display label.
var PeriodLabels = map[Period]string{
	PeriodToday:       "Today",
	PeriodYesterday:   "Yesterday",
	PeriodThisWeek:    "This Week",
	PeriodLastWeek:    "Last Week",
	PeriodLast7Days:   "Last 7 Days",
	PeriodLast30Days:  "Last 30 Days",
	PeriodThisMonth:   "This Month",
	PeriodLastMonth:   "Last Month",
	PeriodThisQuarter: "This Quarter",
	PeriodLastQuarter: "Last Quarter",
	PeriodThisYear:    "This Year",
	PeriodLastYear:    "Last Year",
}

// Valid reports whether p is a known preset.
func (p Period) Valid() bool {
	_, ok := PeriodLabels[p]
	return ok
}

// GroupBy is the temporal bucket size for time-series reports.
type GroupBy string

const (
	GroupByHour    GroupBy = "hour"
	GroupByDay     GroupBy = "day"
	GroupByWeek    GroupBy = "week"
	GroupByMonth   GroupBy = "month"
	GroupByQuarter GroupBy = "quarter"
	GroupByYear    GroupBy = "year"
)

// validGroupBys defines the allowed group_by values.
var validGroupBys = map[GroupBy]bool{
	GroupByHour:    true,
	GroupByDay:     true,
	GroupByWeek:    true,
	GroupByMonth:   true,
	GroupByQuarter: true,
	GroupByYear:    true,
}

// Valid reports whether g is a known bucket size.
func (g GroupBy) Valid() bool {
	return validGroupBys[g]
}

// AdjustmentStatus represents the lifecycle of a stock adjustment.
type AdjustmentStatus string

const (
	AdjustmentDraft     AdjustmentStatus = "draft"
	AdjustmentPending   AdjustmentStatus = "pending"
	AdjustmentApproved  AdjustmentStatus = "approved"
	AdjustmentCompleted AdjustmentStatus = "completed"
	AdjustmentRejected  AdjustmentStatus = "rejected"
)

// AdjustmentStatuses lists every adjustment status in lifecycle order.
var AdjustmentStatuses = []AdjustmentStatus{
	AdjustmentDraft,
	AdjustmentPending,
	AdjustmentApproved,
	AdjustmentCompleted,
	AdjustmentRejected,
}

// Valid reports whether s is a known adjustment status.
func (s AdjustmentStatus) Valid() bool {
	for _, known := range AdjustmentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// AdjustmentType is the direction of a stock adjustment.
type AdjustmentType string

const (
	AdjustmentIncrease AdjustmentType = "increase"
	AdjustmentDecrease AdjustmentType = "decrease"
)

// AdjustmentReason is the business reason recorded on an adjustment.
type AdjustmentReason string

const (
	ReasonDamaged    AdjustmentReason = "damaged"
	ReasonExpired    AdjustmentReason = "expired"
	ReasonLost       AdjustmentReason = "lost"
	ReasonFound      AdjustmentReason = "found"
	ReasonCorrection AdjustmentReason = "correction"
	ReasonOther      AdjustmentReason = "other"
)

// Valid reports whether t is a known adjustment direction.
func (t AdjustmentType) Valid() bool {
	return t == AdjustmentIncrease || t == AdjustmentDecrease
}

// Valid reports whether r is a known adjustment reason.
func (r AdjustmentReason) Valid() bool {
	switch r {
	case ReasonDamaged, ReasonExpired, ReasonLost, ReasonFound, ReasonCorrection, ReasonOther:
		return true
	}
	return false
}
