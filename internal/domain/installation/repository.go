package installation

import (
	"context"

	"github.com/zandres28/imvcrm/internal/types"
)

// Repository defines the interface for installation persistence operations
type Repository interface {
	Create(ctx context.Context, installation *Installation) error
	Get(ctx context.Context, id string) (*Installation, error)
	Update(ctx context.Context, installation *Installation) error
	ListByClient(ctx context.Context, clientID string) ([]*Installation, error)
	// ListActive returns every installation eligible for the monthly billing
	// run (is_active, not cancelled before the run's window).
	ListActive(ctx context.Context) ([]*Installation, error)
	List(ctx context.Context, filter *types.QueryFilter) ([]*Installation, error)
}
