package testutil

import (
	"context"

	"github.com/zandres28/imvcrm/internal/domain/addonservice"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

// InMemoryAdditionalServiceStore implements addonservice.Repository
type InMemoryAdditionalServiceStore struct {
	*InMemoryStore[*addonservice.AdditionalService]
}

func NewInMemoryAdditionalServiceStore() *InMemoryAdditionalServiceStore {
	return &InMemoryAdditionalServiceStore{
		InMemoryStore: NewInMemoryStore[*addonservice.AdditionalService](),
	}
}

func (s *InMemoryAdditionalServiceStore) Create(ctx context.Context, svc *addonservice.AdditionalService) error {
	if svc == nil {
		return ierr.NewError("additional service cannot be nil").
			WithHint("Additional service cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, svc.ID, svc)
}

func (s *InMemoryAdditionalServiceStore) Get(ctx context.Context, id string) (*addonservice.AdditionalService, error) {
	svc, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("additional service not found").
			WithHintf("Additional service %s does not exist", id).
			Mark(ierr.ErrNotFound)
	}
	return svc, nil
}

func (s *InMemoryAdditionalServiceStore) Update(ctx context.Context, svc *addonservice.AdditionalService) error {
	if err := s.InMemoryStore.Update(ctx, svc.ID, svc); err != nil {
		return ierr.NewError("additional service not found").
			WithHintf("Additional service %s does not exist", svc.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryAdditionalServiceStore) ListActiveByClient(ctx context.Context, clientID string) ([]*addonservice.AdditionalService, error) {
	return s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, svc *addonservice.AdditionalService, _ interface{}) bool {
			return svc.ClientID == clientID &&
				svc.Status == types.AdditionalServiceStatusActive &&
				svc.BaseModel.Status != types.StatusDeleted
		},
		func(i, j *addonservice.AdditionalService) bool {
			return i.CreatedAt.Before(j.CreatedAt)
		})
}

func (s *InMemoryAdditionalServiceStore) ListByClient(ctx context.Context, clientID string) ([]*addonservice.AdditionalService, error) {
	return s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, svc *addonservice.AdditionalService, _ interface{}) bool {
			return svc.ClientID == clientID && svc.BaseModel.Status != types.StatusDeleted
		},
		func(i, j *addonservice.AdditionalService) bool {
			return i.CreatedAt.Before(j.CreatedAt)
		})
}
