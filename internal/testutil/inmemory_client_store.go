package testutil

import (
	"context"

	"github.com/zandres28/imvcrm/internal/domain/client"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

// InMemoryClientStore implements client.Repository
type InMemoryClientStore struct {
	*InMemoryStore[*client.Client]
}

func NewInMemoryClientStore() *InMemoryClientStore {
	return &InMemoryClientStore{
		InMemoryStore: NewInMemoryStore[*client.Client](),
	}
}

func (s *InMemoryClientStore) Create(ctx context.Context, c *client.Client) error {
	if c == nil {
		return ierr.NewError("client cannot be nil").
			WithHint("Client cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, c.ID, c)
}

func (s *InMemoryClientStore) Get(ctx context.Context, id string) (*client.Client, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("client not found").
			WithHintf("Client %s does not exist", id).
			Mark(ierr.ErrNotFound)
	}
	return c, nil
}

func (s *InMemoryClientStore) Update(ctx context.Context, c *client.Client) error {
	if err := s.InMemoryStore.Update(ctx, c.ID, c); err != nil {
		return ierr.NewError("client not found").
			WithHintf("Client %s does not exist", c.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryClientStore) List(ctx context.Context, filter *types.QueryFilter) ([]*client.Client, error) {
	return s.InMemoryStore.List(ctx, filter,
		func(ctx context.Context, c *client.Client, _ interface{}) bool {
			return c.Status != types.StatusDeleted
		},
		func(i, j *client.Client) bool {
			return i.CreatedAt.After(j.CreatedAt)
		})
}

func (s *InMemoryClientStore) Count(ctx context.Context) (int, error) {
	return s.InMemoryStore.Count(ctx, nil,
		func(ctx context.Context, c *client.Client, _ interface{}) bool {
			return c.Status != types.StatusDeleted
		})
}
