package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/zandres28/imvcrm/internal/domain/client"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/logger"
	"github.com/zandres28/imvcrm/internal/postgres"
	"github.com/zandres28/imvcrm/internal/types"
)

type clientRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewClientRepository(db *postgres.DB, log *logger.Logger) client.Repository {
	return &clientRepository{db: db, log: log}
}

func (r *clientRepository) Create(ctx context.Context, c *client.Client) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.NamedExecContext(ctx, `
		INSERT INTO clients (
			id, name, document, email, phone, address, city,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :name, :document, :email, :phone, :address, :city,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`, c)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create client").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id string) (*client.Client, error) {
	q := r.db.GetQuerier(ctx)
	var c client.Client
	err := q.GetContext(ctx, &c, `
		SELECT * FROM clients WHERE id = $1 AND status != $2`,
		id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("client not found").
				WithHintf("Client %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get client").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *clientRepository) Update(ctx context.Context, c *client.Client) error {
	q := r.db.GetQuerier(ctx)
	res, err := q.NamedExecContext(ctx, `
		UPDATE clients SET
			name = :name, document = :document, email = :email,
			phone = :phone, address = :address, city = :city,
			status = :status, updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id`, c)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update client").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("client not found").
			WithHintf("Client %s does not exist", c.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *clientRepository) List(ctx context.Context, filter *types.QueryFilter) ([]*client.Client, error) {
	q := r.db.GetQuerier(ctx)
	clients := []*client.Client{}
	err := q.SelectContext(ctx, &clients, `
		SELECT * FROM clients
		WHERE status != $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		types.StatusDeleted, filter.GetLimit(), filter.GetOffset())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list clients").
			Mark(ierr.ErrDatabase)
	}
	return clients, nil
}

func (r *clientRepository) Count(ctx context.Context) (int, error) {
	q := r.db.GetQuerier(ctx)
	var count int
	err := q.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM clients WHERE status != $1`, types.StatusDeleted)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count clients").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}
