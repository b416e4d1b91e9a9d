package testutil

import (
	"context"

	"github.com/zandres28/imvcrm/internal/domain/outage"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

// InMemoryOutageStore implements outage.Repository
type InMemoryOutageStore struct {
	*InMemoryStore[*outage.ServiceOutage]
}

func NewInMemoryOutageStore() *InMemoryOutageStore {
	return &InMemoryOutageStore{
		InMemoryStore: NewInMemoryStore[*outage.ServiceOutage](),
	}
}

func (s *InMemoryOutageStore) Create(ctx context.Context, o *outage.ServiceOutage) error {
	if o == nil {
		return ierr.NewError("outage cannot be nil").
			WithHint("Outage cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, o.ID, o)
}

func (s *InMemoryOutageStore) Get(ctx context.Context, id string) (*outage.ServiceOutage, error) {
	o, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("service outage not found").
			WithHintf("Service outage %s does not exist", id).
			Mark(ierr.ErrNotFound)
	}
	return o, nil
}

func (s *InMemoryOutageStore) Update(ctx context.Context, o *outage.ServiceOutage) error {
	if err := s.InMemoryStore.Update(ctx, o.ID, o); err != nil {
		return ierr.NewError("service outage not found").
			WithHintf("Service outage %s does not exist", o.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryOutageStore) ListPendingByInstallation(ctx context.Context, installationID string) ([]*outage.ServiceOutage, error) {
	return s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, o *outage.ServiceOutage, _ interface{}) bool {
			return o.InstallationID == installationID &&
				o.OutageStatus == types.OutageStatusPending &&
				o.Status != types.StatusDeleted
		},
		func(i, j *outage.ServiceOutage) bool {
			return i.StartDate.Before(j.StartDate)
		})
}

// MarkApplied mirrors the guarded SQL transition: only a pending outage can be
// flipped, anything else is an invalid operation.
func (s *InMemoryOutageStore) MarkApplied(ctx context.Context, outageID string, paymentID string) error {
	o, err := s.Get(ctx, outageID)
	if err != nil {
		return err
	}
	if o.OutageStatus != types.OutageStatusPending {
		return ierr.NewError("outage is not pending").
			WithHintf("Outage %s was already applied or cancelled", outageID).
			Mark(ierr.ErrInvalidOperation)
	}

	o.OutageStatus = types.OutageStatusApplied
	o.AppliedToPaymentID = &paymentID
	return s.InMemoryStore.Update(ctx, o.ID, o)
}

func (s *InMemoryOutageStore) List(ctx context.Context, filter *types.OutageFilter) ([]*outage.ServiceOutage, error) {
	return s.InMemoryStore.List(ctx, filter,
		func(ctx context.Context, o *outage.ServiceOutage, f interface{}) bool {
			if o.Status == types.StatusDeleted {
				return false
			}
			of, ok := f.(*types.OutageFilter)
			if !ok || of == nil {
				return true
			}
			if of.ClientID != nil && o.ClientID != *of.ClientID {
				return false
			}
			if of.InstallationID != nil && o.InstallationID != *of.InstallationID {
				return false
			}
			if of.OutageStatus != nil && o.OutageStatus != *of.OutageStatus {
				return false
			}
			if of.From != nil && o.EndDate.Before(*of.From) {
				return false
			}
			if of.To != nil && o.StartDate.After(*of.To) {
				return false
			}
			return true
		},
		func(i, j *outage.ServiceOutage) bool {
			return i.StartDate.After(j.StartDate)
		})
}
