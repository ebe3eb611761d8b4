package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"stockdesk/internal/apiclient"
	"stockdesk/internal/domain"
	"stockdesk/internal/policy"
	"stockdesk/internal/port"
)

const adjustmentsPath = "/stock-adjustments"

// AdjustmentView is an adjustment with the actions its status permits.
type AdjustmentView struct {
	domain.StockAdjustment
	Actions []policy.Action `json:"actions"`
}

// AdjustmentListInput filters the adjustment list.
type AdjustmentListInput struct {
	Filter domain.ReportFilter
	Status domain.AdjustmentStatus
	Search string
}

// AdjustmentService manages stock adjustments through the inventory API.
// Every mutation checks the status gate against the current server state and
// returns the adjustment as refetched after the API confirms.
type AdjustmentService interface {
	List(ctx context.Context, input AdjustmentListInput) (*domain.Result[AdjustmentView, domain.AdjustmentSummary], error)
	Get(ctx context.Context, id int64) (*AdjustmentView, error)
	Activities(ctx context.Context, id int64) ([]domain.AdjustmentActivity, error)
	Create(ctx context.Context, input domain.AdjustmentInput) (*AdjustmentView, error)
	Update(ctx context.Context, id int64, input domain.AdjustmentInput) (*AdjustmentView, error)
	Delete(ctx context.Context, id int64) error
	Submit(ctx context.Context, id int64) (*AdjustmentView, error)
	Approve(ctx context.Context, id int64) (*AdjustmentView, error)
	Reject(ctx context.Context, id int64, reason string) (*AdjustmentView, error)
	Apply(ctx context.Context, id int64) (*AdjustmentView, error)
}

type adjustmentService struct {
	api port.InventoryAPI
	log *zap.Logger
}

// NewAdjustmentService creates a new AdjustmentService.
func NewAdjustmentService(api port.InventoryAPI, log *zap.Logger) AdjustmentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &adjustmentService{api: api, log: log}
}

func (s *adjustmentService) List(ctx context.Context, input AdjustmentListInput) (*domain.Result[AdjustmentView, domain.AdjustmentSummary], error) {
	if err := input.Filter.Validate(); err != nil {
		return nil, err
	}
	q := input.Filter.Query()
	if input.Status != "" {
		q.Set("status", string(input.Status))
	}
	if input.Search != "" {
		q.Set("search", input.Search)
	}
	resp, err := s.api.Do(ctx, http.MethodGet, adjustmentsPath, q, nil)
	if err != nil {
		return nil, err
	}
	res, err := apiclient.DecodeResult[domain.StockAdjustment, domain.AdjustmentSummary](resp)
	if err != nil {
		return nil, err
	}
	out := &domain.Result[AdjustmentView, domain.AdjustmentSummary]{
		Data:       make([]AdjustmentView, len(res.Data)),
		Summary:    res.Summary,
		Meta:       res.Meta,
		Pagination: res.Pagination,
	}
	for i, a := range res.Data {
		out.Data[i] = newView(a)
	}
	return out, nil
}

func (s *adjustmentService) Get(ctx context.Context, id int64) (*AdjustmentView, error) {
	var a domain.StockAdjustment
	if err := s.api.Get(ctx, adjustmentPath(id), nil, &a); err != nil {
		return nil, err
	}
	v := newView(a)
	return &v, nil
}

func (s *adjustmentService) Activities(ctx context.Context, id int64) ([]domain.AdjustmentActivity, error) {
	var out []domain.AdjustmentActivity
	if err := s.api.Get(ctx, adjustmentPath(id)+"/activities", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.AdjustmentActivity{}
	}
	return out, nil
}

func (s *adjustmentService) Create(ctx context.Context, input domain.AdjustmentInput) (*AdjustmentView, error) {
	var a domain.StockAdjustment
	if err := s.api.Post(ctx, adjustmentsPath, input, &a); err != nil {
		return nil, err
	}
	s.log.Info("adjustment created", zap.Int64("id", a.ID), zap.String("reference_no", a.ReferenceNo))
	v := newView(a)
	return &v, nil
}

func (s *adjustmentService) Update(ctx context.Context, id int64, input domain.AdjustmentInput) (*AdjustmentView, error) {
	return s.mutate(ctx, id, policy.ActionEdit, func() error {
		return s.api.Patch(ctx, adjustmentPath(id), input, nil)
	})
}

func (s *adjustmentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.gate(ctx, id, policy.ActionDelete); err != nil {
		return err
	}
	if err := s.api.Delete(ctx, adjustmentPath(id)); err != nil {
		return err
	}
	s.log.Info("adjustment deleted", zap.Int64("id", id))
	return nil
}

func (s *adjustmentService) Submit(ctx context.Context, id int64) (*AdjustmentView, error) {
	return s.mutate(ctx, id, policy.ActionSubmit, func() error {
		body := map[string]domain.AdjustmentStatus{"status": domain.AdjustmentPending}
		return s.api.Patch(ctx, adjustmentPath(id), body, nil)
	})
}

func (s *adjustmentService) Approve(ctx context.Context, id int64) (*AdjustmentView, error) {
	return s.mutate(ctx, id, policy.ActionApprove, func() error {
		return s.api.Post(ctx, adjustmentPath(id)+"/approve", struct{}{}, nil)
	})
}

func (s *adjustmentService) Reject(ctx context.Context, id int64, reason string) (*AdjustmentView, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.ErrReasonRequired
	}
	return s.mutate(ctx, id, policy.ActionReject, func() error {
		return s.api.Post(ctx, adjustmentPath(id)+"/reject", map[string]string{"reason": reason}, nil)
	})
}

func (s *adjustmentService) Apply(ctx context.Context, id int64) (*AdjustmentView, error) {
	return s.mutate(ctx, id, policy.ActionApply, func() error {
		return s.api.Post(ctx, adjustmentPath(id)+"/apply", struct{}{}, nil)
	})
}

// mutate gates action on the current status, performs call and refetches.
// A failed call leaves nothing to roll back.
func (s *adjustmentService) mutate(ctx context.Context, id int64, action policy.Action, call func() error) (*AdjustmentView, error) {
	before, err := s.gate(ctx, id, action)
	if err != nil {
		return nil, err
	}
	if err := call(); err != nil {
		s.log.Warn("adjustment action failed",
			zap.Int64("id", id), zap.String("action", string(action)), zap.Error(err))
		return nil, err
	}
	after, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("adjustment action applied",
		zap.Int64("id", id),
		zap.String("action", string(action)),
		zap.String("from", string(before.Status)),
		zap.String("to", string(after.Status)),
	)
	return after, nil
}

func (s *adjustmentService) gate(ctx context.Context, id int64, action policy.Action) (*AdjustmentView, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.Allows(current.Status, action) {
		return nil, fmt.Errorf("%w: cannot %s a %s adjustment", domain.ErrActionNotAllowed, action, current.Status)
	}
	return current, nil
}

func newView(a domain.StockAdjustment) AdjustmentView {
	return AdjustmentView{StockAdjustment: a, Actions: policy.AllowedActions(a.Status)}
}

func adjustmentPath(id int64) string {
	return adjustmentsPath + "/" + strconv.FormatInt(id, 10)
}
