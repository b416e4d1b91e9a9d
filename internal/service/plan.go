package service

import (
	"context"

	"github.com/zandres28/imvcrm/internal/api/dto"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

type PlanService interface {
	CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error)
	GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error)
	UpdatePlan(ctx context.Context, id string, req dto.UpdatePlanRequest) (*dto.PlanResponse, error)
	ListPlans(ctx context.Context, filter *types.QueryFilter) (*dto.ListPlansResponse, error)
}

type planService struct {
	ServiceParams
}

func NewPlanService(params ServiceParams) PlanService {
	return &planService{ServiceParams: params}
}

func (s *planService) CreatePlan(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToPlan(ctx)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.PlanRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("created service plan",
		"plan_id", p.ID,
		"monthly_fee", p.MonthlyFee,
		"speed_mbps", p.SpeedMbps,
	)
	return &dto.PlanResponse{ServicePlan: p}, nil
}

func (s *planService) GetPlan(ctx context.Context, id string) (*dto.PlanResponse, error) {
	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.PlanResponse{ServicePlan: p}, nil
}

// UpdatePlan applies fee changes prospectively. Statements already generated
// keep the amounts they were billed with.
func (s *planService) UpdatePlan(ctx context.Context, id string, req dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.PlanRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.MonthlyFee != nil {
		p.MonthlyFee = *req.MonthlyFee
	}
	if req.InstallationFee != nil {
		p.InstallationFee = *req.InstallationFee
	}
	if req.SpeedMbps != nil {
		p.SpeedMbps = *req.SpeedMbps
	}
	p.UpdatedAt = s.Clock.Now()
	p.UpdatedBy = types.GetUserID(ctx)

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.PlanRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return &dto.PlanResponse{ServicePlan: p}, nil
}

func (s *planService) ListPlans(ctx context.Context, filter *types.QueryFilter) (*dto.ListPlansResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid pagination parameters").
			Mark(ierr.ErrValidation)
	}

	plans, err := s.PlanRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListPlansResponse{Items: make([]*dto.PlanResponse, 0, len(plans))}
	for _, p := range plans {
		resp.Items = append(resp.Items, &dto.PlanResponse{ServicePlan: p})
	}
	return resp, nil
}
