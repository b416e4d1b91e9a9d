package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/zandres28/imvcrm/internal/domain/addonservice"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/logger"
	"github.com/zandres28/imvcrm/internal/postgres"
	"github.com/zandres28/imvcrm/internal/types"
)

type additionalServiceRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewAdditionalServiceRepository(db *postgres.DB, log *logger.Logger) addonservice.Repository {
	return &additionalServiceRepository{db: db, log: log}
}

func (r *additionalServiceRepository) Create(ctx context.Context, s *addonservice.AdditionalService) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.NamedExecContext(ctx, `
		INSERT INTO additional_services (
			id, client_id, name, cost, service_status,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :client_id, :name, :cost, :service_status,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`, s)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create additional service").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *additionalServiceRepository) Get(ctx context.Context, id string) (*addonservice.AdditionalService, error) {
	q := r.db.GetQuerier(ctx)
	var s addonservice.AdditionalService
	err := q.GetContext(ctx, &s, `
		SELECT * FROM additional_services WHERE id = $1 AND status != $2`,
		id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("additional service not found").
				WithHintf("Additional service %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get additional service").
			Mark(ierr.ErrDatabase)
	}
	return &s, nil
}

func (r *additionalServiceRepository) Update(ctx context.Context, s *addonservice.AdditionalService) error {
	q := r.db.GetQuerier(ctx)
	res, err := q.NamedExecContext(ctx, `
		UPDATE additional_services SET
			name = :name, cost = :cost, service_status = :service_status,
			status = :status, updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id`, s)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update additional service").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("additional service not found").
			WithHintf("Additional service %s does not exist", s.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *additionalServiceRepository) ListActiveByClient(ctx context.Context, clientID string) ([]*addonservice.AdditionalService, error) {
	q := r.db.GetQuerier(ctx)
	services := []*addonservice.AdditionalService{}
	err := q.SelectContext(ctx, &services, `
		SELECT * FROM additional_services
		WHERE client_id = $1 AND service_status = $2 AND status != $3
		ORDER BY created_at ASC`,
		clientID, types.AdditionalServiceStatusActive, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list additional services").
			Mark(ierr.ErrDatabase)
	}
	return services, nil
}

func (r *additionalServiceRepository) ListByClient(ctx context.Context, clientID string) ([]*addonservice.AdditionalService, error) {
	q := r.db.GetQuerier(ctx)
	services := []*addonservice.AdditionalService{}
	err := q.SelectContext(ctx, &services, `
		SELECT * FROM additional_services
		WHERE client_id = $1 AND status != $2
		ORDER BY created_at ASC`,
		clientID, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list additional services").
			Mark(ierr.ErrDatabase)
	}
	return services, nil
}
