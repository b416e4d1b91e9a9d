package installment

import (
	"context"
	"time"
)

// Repository defines the interface for product installment persistence operations
type Repository interface {
	Create(ctx context.Context, installment *ProductInstallment) error
	CreateBulk(ctx context.Context, installments []*ProductInstallment) error
	Get(ctx context.Context, id string) (*ProductInstallment, error)
	Update(ctx context.Context, installment *ProductInstallment) error
	// ListPendingDueInWindow returns pending installments for the client whose
	// due date falls inside the closed window [from, to].
	ListPendingDueInWindow(ctx context.Context, clientID string, from, to time.Time) ([]*ProductInstallment, error)
	ListByClient(ctx context.Context, clientID string) ([]*ProductInstallment, error)
}
