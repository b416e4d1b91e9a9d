package testutil

import (
	"context"

	"github.com/zandres28/imvcrm/internal/domain/plan"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

// InMemoryPlanStore implements plan.Repository
type InMemoryPlanStore struct {
	*InMemoryStore[*plan.ServicePlan]
}

func NewInMemoryPlanStore() *InMemoryPlanStore {
	return &InMemoryPlanStore{
		InMemoryStore: NewInMemoryStore[*plan.ServicePlan](),
	}
}

func (s *InMemoryPlanStore) Create(ctx context.Context, p *plan.ServicePlan) error {
	if p == nil {
		return ierr.NewError("plan cannot be nil").
			WithHint("Plan cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, p.ID, p)
}

func (s *InMemoryPlanStore) Get(ctx context.Context, id string) (*plan.ServicePlan, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("service plan not found").
			WithHintf("Service plan %s does not exist", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryPlanStore) Update(ctx context.Context, p *plan.ServicePlan) error {
	if err := s.InMemoryStore.Update(ctx, p.ID, p); err != nil {
		return ierr.NewError("service plan not found").
			WithHintf("Service plan %s does not exist", p.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryPlanStore) List(ctx context.Context, filter *types.QueryFilter) ([]*plan.ServicePlan, error) {
	return s.InMemoryStore.List(ctx, filter,
		func(ctx context.Context, p *plan.ServicePlan, _ interface{}) bool {
			return p.Status != types.StatusDeleted
		},
		func(i, j *plan.ServicePlan) bool {
			return i.MonthlyFee.LessThan(j.MonthlyFee)
		})
}
