package testutil

import (
	"context"
	"time"

	"github.com/zandres28/imvcrm/internal/domain/installment"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

// InMemoryInstallmentStore implements installment.Repository
type InMemoryInstallmentStore struct {
	*InMemoryStore[*installment.ProductInstallment]
}

func NewInMemoryInstallmentStore() *InMemoryInstallmentStore {
	return &InMemoryInstallmentStore{
		InMemoryStore: NewInMemoryStore[*installment.ProductInstallment](),
	}
}

func (s *InMemoryInstallmentStore) Create(ctx context.Context, i *installment.ProductInstallment) error {
	if i == nil {
		return ierr.NewError("installment cannot be nil").
			WithHint("Installment cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, i.ID, i)
}

func (s *InMemoryInstallmentStore) CreateBulk(ctx context.Context, installments []*installment.ProductInstallment) error {
	for _, i := range installments {
		if err := s.Create(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemoryInstallmentStore) Get(ctx context.Context, id string) (*installment.ProductInstallment, error) {
	i, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("product installment not found").
			WithHintf("Product installment %s does not exist", id).
			Mark(ierr.ErrNotFound)
	}
	return i, nil
}

func (s *InMemoryInstallmentStore) Update(ctx context.Context, i *installment.ProductInstallment) error {
	if err := s.InMemoryStore.Update(ctx, i.ID, i); err != nil {
		return ierr.NewError("product installment not found").
			WithHintf("Product installment %s does not exist", i.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryInstallmentStore) ListPendingDueInWindow(ctx context.Context, clientID string, from, to time.Time) ([]*installment.ProductInstallment, error) {
	return s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, i *installment.ProductInstallment, _ interface{}) bool {
			if i.ClientID != clientID || i.Status == types.StatusDeleted {
				return false
			}
			if i.InstallmentStatus != types.InstallmentStatusPending {
				return false
			}
			due := types.DateOnly(i.DueDate)
			return !due.Before(types.DateOnly(from)) && !due.After(types.DateOnly(to))
		},
		func(i, j *installment.ProductInstallment) bool {
			if i.DueDate.Equal(j.DueDate) {
				return i.InstallmentNumber < j.InstallmentNumber
			}
			return i.DueDate.Before(j.DueDate)
		})
}

func (s *InMemoryInstallmentStore) ListByClient(ctx context.Context, clientID string) ([]*installment.ProductInstallment, error) {
	return s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, i *installment.ProductInstallment, _ interface{}) bool {
			return i.ClientID == clientID && i.Status != types.StatusDeleted
		},
		func(i, j *installment.ProductInstallment) bool {
			if i.DueDate.Equal(j.DueDate) {
				return i.InstallmentNumber < j.InstallmentNumber
			}
			return i.DueDate.Before(j.DueDate)
		})
}
