package payment

import (
	"context"
	"time"

	"github.com/zandres28/imvcrm/internal/types"
)

// Repository defines the interface for statement persistence operations
type Repository interface {
	// Create inserts a new statement. Implementations surface a violation of
	// the (installation, month, year, type) unique key as ErrAlreadyExists.
	Create(ctx context.Context, payment *Payment) error
	Get(ctx context.Context, id string) (*Payment, error)
	Update(ctx context.Context, payment *Payment) error
	// GetByPeriod fetches the statement for the unique billing key, or
	// ErrNotFound.
	GetByPeriod(ctx context.Context, installationID string, month string, year int, paymentType types.PaymentType) (*Payment, error)
	List(ctx context.Context, filter *types.PaymentFilter) ([]*Payment, error)
	Count(ctx context.Context, filter *types.PaymentFilter) (int, error)
	// MarkOverdue flips stored pending -> overdue for every statement past due
	// at the given instant and returns how many rows changed. Idempotent:
	// re-running never touches rows already overdue.
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}
