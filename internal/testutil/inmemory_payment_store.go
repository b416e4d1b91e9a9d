package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/zandres28/imvcrm/internal/domain/payment"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

// InMemoryPaymentStore implements payment.Repository, including the unique
// (installation, month, year, type) billing key the postgres index enforces.
type InMemoryPaymentStore struct {
	*InMemoryStore[*payment.Payment]
	mu sync.Mutex
}

func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryStore: NewInMemoryStore[*payment.Payment](),
	}
}

func periodKeyMatches(p *payment.Payment, installationID, month string, year int, paymentType types.PaymentType) bool {
	return p.InstallationID == installationID &&
		p.PaymentMonth == month &&
		p.PaymentYear == year &&
		p.PaymentType == paymentType &&
		p.Status != types.StatusDeleted
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return ierr.NewError("payment cannot be nil").
			WithHint("Payment cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, _ := s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, item *payment.Payment, _ interface{}) bool {
			return periodKeyMatches(item, p.InstallationID, p.PaymentMonth, p.PaymentYear, p.PaymentType)
		}, nil)
	if len(existing) > 0 {
		return ierr.NewError("statement already exists").
			WithHintf("A %s statement already exists for %s %d", p.PaymentType, p.PaymentMonth, p.PaymentYear).
			Mark(ierr.ErrAlreadyExists)
	}

	return s.InMemoryStore.Create(ctx, p.ID, p)
}

func (s *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("statement not found").
			WithHintf("Statement %s does not exist", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryPaymentStore) Update(ctx context.Context, p *payment.Payment) error {
	if err := s.InMemoryStore.Update(ctx, p.ID, p); err != nil {
		return ierr.NewError("statement not found").
			WithHintf("Statement %s does not exist", p.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryPaymentStore) GetByPeriod(ctx context.Context, installationID string, month string, year int, paymentType types.PaymentType) (*payment.Payment, error) {
	matches, err := s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, p *payment.Payment, _ interface{}) bool {
			return periodKeyMatches(p, installationID, month, year, paymentType)
		}, nil)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ierr.NewError("statement not found").
			WithHintf("No %s statement for %s %d", paymentType, month, year).
			Mark(ierr.ErrNotFound)
	}
	return matches[0], nil
}

func paymentFilterMatches(p *payment.Payment, f *types.PaymentFilter) bool {
	if p.Status == types.StatusDeleted {
		return false
	}
	if f == nil {
		return true
	}
	if f.ClientID != nil && p.ClientID != *f.ClientID {
		return false
	}
	if f.InstallationID != nil && p.InstallationID != *f.InstallationID {
		return false
	}
	if f.PaymentStatus != nil && p.PaymentStatus != *f.PaymentStatus {
		return false
	}
	if f.PaymentType != nil && p.PaymentType != *f.PaymentType {
		return false
	}
	if f.PaymentMonth != nil && p.PaymentMonth != *f.PaymentMonth {
		return false
	}
	if f.PaymentYear != nil && p.PaymentYear != *f.PaymentYear {
		return false
	}
	return true
}

func (s *InMemoryPaymentStore) List(ctx context.Context, filter *types.PaymentFilter) ([]*payment.Payment, error) {
	return s.InMemoryStore.List(ctx, filter,
		func(ctx context.Context, p *payment.Payment, f interface{}) bool {
			pf, _ := f.(*types.PaymentFilter)
			return paymentFilterMatches(p, pf)
		},
		func(i, j *payment.Payment) bool {
			if i.PaymentYear != j.PaymentYear {
				return i.PaymentYear > j.PaymentYear
			}
			return i.DueDate.After(j.DueDate)
		})
}

func (s *InMemoryPaymentStore) Count(ctx context.Context, filter *types.PaymentFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter,
		func(ctx context.Context, p *payment.Payment, f interface{}) bool {
			pf, _ := f.(*types.PaymentFilter)
			return paymentFilterMatches(p, pf)
		})
}

func (s *InMemoryPaymentStore) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	pending, err := s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, p *payment.Payment, _ interface{}) bool {
			return p.Status != types.StatusDeleted &&
				p.PaymentStatus == types.PaymentStatusPending &&
				p.DueDate.Before(now)
		}, nil)
	if err != nil {
		return 0, err
	}

	for _, p := range pending {
		p.PaymentStatus = types.PaymentStatusOverdue
		if err := s.InMemoryStore.Update(ctx, p.ID, p); err != nil {
			return 0, err
		}
	}
	return len(pending), nil
}
