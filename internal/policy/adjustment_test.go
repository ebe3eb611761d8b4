package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stockdesk/internal/domain"
	"stockdesk/internal/policy"
)

func TestAdjustmentGates(t *testing.T) {
	type gates struct {
		edit, del, submit, approve, reject, apply bool
	}
	tests := []struct {
		status domain.AdjustmentStatus
		want   gates
	}{
		{domain.AdjustmentDraft, gates{edit: true, del: true, submit: true}},
		{domain.AdjustmentPending, gates{approve: true, reject: true}},
		{domain.AdjustmentApproved, gates{apply: true}},
		{domain.AdjustmentCompleted, gates{}},
		{domain.AdjustmentRejected, gates{}},
		{domain.AdjustmentStatus("archived"), gates{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want.edit, policy.CanEditAdjustment(tt.status))
			assert.Equal(t, tt.want.del, policy.CanDeleteAdjustment(tt.status))
			assert.Equal(t, tt.want.submit, policy.CanSubmitAdjustment(tt.status))
			assert.Equal(t, tt.want.approve, policy.CanApproveAdjustment(tt.status))
			assert.Equal(t, tt.want.reject, policy.CanRejectAdjustment(tt.status))
			assert.Equal(t, tt.want.apply, policy.CanApplyAdjustment(tt.status))
		})
	}
}

func TestAllowedActions(t *testing.T) {
	assert.Equal(t,
		[]policy.Action{policy.ActionEdit, policy.ActionSubmit, policy.ActionDelete},
		policy.AllowedActions(domain.AdjustmentDraft))
	assert.Equal(t,
		[]policy.Action{policy.ActionApprove, policy.ActionReject},
		policy.AllowedActions(domain.AdjustmentPending))
	assert.Equal(t, []policy.Action{policy.ActionApply}, policy.AllowedActions(domain.AdjustmentApproved))
	assert.Empty(t, policy.AllowedActions(domain.AdjustmentCompleted))
}

func TestAllows_AgreesWithPredicates(t *testing.T) {
	for _, s := range domain.AdjustmentStatuses {
		assert.Equal(t, policy.CanApproveAdjustment(s), policy.Allows(s, policy.ActionApprove), s)
		assert.Equal(t, policy.CanApplyAdjustment(s), policy.Allows(s, policy.ActionApply), s)
		assert.False(t, policy.Allows(s, policy.Action("archive")), s)
	}
}

func TestParseAction(t *testing.T) {
	a, ok := policy.ParseAction("approve")
	assert.True(t, ok)
	assert.Equal(t, policy.ActionApprove, a)

	_, ok = policy.ParseAction("archive")
	assert.False(t, ok)
}

func TestBadges(t *testing.T) {
	assert.Equal(t, "Pending Approval", policy.AdjustmentBadge(domain.AdjustmentPending).Label)
	assert.Equal(t, "Unknown", policy.AdjustmentBadge("weird").Label)
	assert.Equal(t, "blue", policy.StatusBadge(policy.DomainDispatch, "in_transit").Color)
	assert.Equal(t, "gray", policy.StatusBadge(policy.DomainRepair, "nope").Color)
}
