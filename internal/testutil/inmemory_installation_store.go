package testutil

import (
	"context"

	"github.com/zandres28/imvcrm/internal/domain/installation"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

// InMemoryInstallationStore implements installation.Repository
type InMemoryInstallationStore struct {
	*InMemoryStore[*installation.Installation]
}

func NewInMemoryInstallationStore() *InMemoryInstallationStore {
	return &InMemoryInstallationStore{
		InMemoryStore: NewInMemoryStore[*installation.Installation](),
	}
}

func (s *InMemoryInstallationStore) Create(ctx context.Context, i *installation.Installation) error {
	if i == nil {
		return ierr.NewError("installation cannot be nil").
			WithHint("Installation cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, i.ID, i)
}

func (s *InMemoryInstallationStore) Get(ctx context.Context, id string) (*installation.Installation, error) {
	i, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("installation not found").
			WithHintf("Installation %s does not exist", id).
			Mark(ierr.ErrNotFound)
	}
	return i, nil
}

func (s *InMemoryInstallationStore) Update(ctx context.Context, i *installation.Installation) error {
	if err := s.InMemoryStore.Update(ctx, i.ID, i); err != nil {
		return ierr.NewError("installation not found").
			WithHintf("Installation %s does not exist", i.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryInstallationStore) ListByClient(ctx context.Context, clientID string) ([]*installation.Installation, error) {
	return s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, i *installation.Installation, _ interface{}) bool {
			return i.ClientID == clientID && i.Status != types.StatusDeleted
		},
		func(i, j *installation.Installation) bool {
			return i.InstallationDate.After(j.InstallationDate)
		})
}

func (s *InMemoryInstallationStore) ListActive(ctx context.Context) ([]*installation.Installation, error) {
	return s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, i *installation.Installation, _ interface{}) bool {
			if i.Status == types.StatusDeleted || !i.IsActive {
				return false
			}
			return i.ServiceStatus == types.ServiceStatusActive ||
				i.ServiceStatus == types.ServiceStatusSuspended
		},
		func(i, j *installation.Installation) bool {
			return i.InstallationDate.Before(j.InstallationDate)
		})
}

func (s *InMemoryInstallationStore) List(ctx context.Context, filter *types.QueryFilter) ([]*installation.Installation, error) {
	return s.InMemoryStore.List(ctx, filter,
		func(ctx context.Context, i *installation.Installation, _ interface{}) bool {
			return i.Status != types.StatusDeleted
		},
		func(i, j *installation.Installation) bool {
			return i.CreatedAt.After(j.CreatedAt)
		})
}
