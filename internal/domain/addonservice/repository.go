package addonservice

import "context"

// Repository defines the interface for additional service persistence operations
type Repository interface {
	Create(ctx context.Context, service *AdditionalService) error
	Get(ctx context.Context, id string) (*AdditionalService, error)
	Update(ctx context.Context, service *AdditionalService) error
	ListActiveByClient(ctx context.Context, clientID string) ([]*AdditionalService, error)
	ListByClient(ctx context.Context, clientID string) ([]*AdditionalService, error)
}
