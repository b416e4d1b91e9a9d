package outage

import (
	"context"

	"github.com/zandres28/imvcrm/internal/types"
)

// Repository defines the interface for service outage persistence operations
type Repository interface {
	Create(ctx context.Context, outage *ServiceOutage) error
	Get(ctx context.Context, id string) (*ServiceOutage, error)
	Update(ctx context.Context, outage *ServiceOutage) error
	// ListPendingByInstallation returns every outage still awaiting credit for
	// the installation. Applied and cancelled outages are excluded so a credit
	// can never be consumed twice.
	ListPendingByInstallation(ctx context.Context, installationID string) ([]*ServiceOutage, error)
	// MarkApplied flips pending -> applied and sets the consuming payment id.
	// Implementations must refuse the transition for non-pending rows; callers
	// run it inside the same transaction that creates the payment.
	MarkApplied(ctx context.Context, outageID string, paymentID string) error
	List(ctx context.Context, filter *types.OutageFilter) ([]*ServiceOutage, error)
}
