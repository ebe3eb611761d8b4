// Package policy decides which actions an entity's lifecycle status permits.
// Every list, detail and mutation path asks these predicates; nothing else
// infers permissible actions.
package policy

import "stockdesk/internal/domain"

// Action is a user-triggerable operation on an adjustment.
type Action string

const (
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionApply   Action = "apply"
)

// Actions lists every adjustment action in button order.
var Actions = []Action{
	ActionEdit,
	ActionSubmit,
	ActionApprove,
	ActionReject,
	ActionApply,
	ActionDelete,
}

// CanEditAdjustment reports whether the adjustment may be edited.
func CanEditAdjustment(status domain.AdjustmentStatus) bool {
	return status == domain.AdjustmentDraft
}

// CanDeleteAdjustment reports whether the adjustment may be deleted.
func CanDeleteAdjustment(status domain.AdjustmentStatus) bool {
	return status == domain.AdjustmentDraft
}

// CanSubmitAdjustment reports whether the adjustment may be submitted for approval.
func CanSubmitAdjustment(status domain.AdjustmentStatus) bool {
	return status == domain.AdjustmentDraft
}

// CanApproveAdjustment reports whether the adjustment may be approved.
func CanApproveAdjustment(status domain.AdjustmentStatus) bool {
	return status == domain.AdjustmentPending
}

// CanRejectAdjustment reports whether the adjustment may be rejected.
func CanRejectAdjustment(status domain.AdjustmentStatus) bool {
	return status == domain.AdjustmentPending
}

// CanApplyAdjustment reports whether the approved quantities may be applied to stock.
func CanApplyAdjustment(status domain.AdjustmentStatus) bool {
	return status == domain.AdjustmentApproved
}

var gates = map[Action]func(domain.AdjustmentStatus) bool{
	ActionEdit:    CanEditAdjustment,
	ActionDelete:  CanDeleteAdjustment,
	ActionSubmit:  CanSubmitAdjustment,
	ActionApprove: CanApproveAdjustment,
	ActionReject:  CanRejectAdjustment,
	ActionApply:   CanApplyAdjustment,
}

// Allows reports whether action is permitted in status. Unknown actions are denied.
func Allows(status domain.AdjustmentStatus, action Action) bool {
	gate, ok := gates[action]
	return ok && gate(status)
}

// AllowedActions returns the permitted actions for status, in button order.
func AllowedActions(status domain.AdjustmentStatus) []Action {
	allowed := make([]Action, 0, 2)
	for _, a := range Actions {
		if gates[a](status) {
			allowed = append(allowed, a)
		}
	}
	return allowed
}

// ParseAction maps a raw action name to an Action.
func ParseAction(raw string) (Action, bool) {
	a := Action(raw)
	_, ok := gates[a]
	return a, ok
}
