package plan

import (
	"context"

	"github.com/zandres28/imvcrm/internal/types"
)

// Repository defines the interface for service plan persistence operations
type Repository interface {
	Create(ctx context.Context, plan *ServicePlan) error
	Get(ctx context.Context, id string) (*ServicePlan, error)
	Update(ctx context.Context, plan *ServicePlan) error
	List(ctx context.Context, filter *types.QueryFilter) ([]*ServicePlan, error)
}
