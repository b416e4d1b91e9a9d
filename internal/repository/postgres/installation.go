package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/zandres28/imvcrm/internal/domain/installation"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/logger"
	"github.com/zandres28/imvcrm/internal/postgres"
	"github.com/zandres28/imvcrm/internal/types"
)

type installationRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewInstallationRepository(db *postgres.DB, log *logger.Logger) installation.Repository {
	return &installationRepository{db: db, log: log}
}

func (r *installationRepository) Create(ctx context.Context, i *installation.Installation) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.NamedExecContext(ctx, `
		INSERT INTO installations (
			id, client_id, service_plan_id, monthly_fee, address,
			installation_date, cancelled_at, service_status, is_active,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :client_id, :service_plan_id, :monthly_fee, :address,
			:installation_date, :cancelled_at, :service_status, :is_active,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`, i)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create installation").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *installationRepository) Get(ctx context.Context, id string) (*installation.Installation, error) {
	q := r.db.GetQuerier(ctx)
	var i installation.Installation
	err := q.GetContext(ctx, &i, `
		SELECT * FROM installations WHERE id = $1 AND status != $2`,
		id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("installation not found").
				WithHintf("Installation %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get installation").
			Mark(ierr.ErrDatabase)
	}
	return &i, nil
}

func (r *installationRepository) Update(ctx context.Context, i *installation.Installation) error {
	q := r.db.GetQuerier(ctx)
	res, err := q.NamedExecContext(ctx, `
		UPDATE installations SET
			service_plan_id = :service_plan_id, monthly_fee = :monthly_fee,
			address = :address, installation_date = :installation_date,
			cancelled_at = :cancelled_at, service_status = :service_status,
			is_active = :is_active, status = :status,
			updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id`, i)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update installation").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("installation not found").
			WithHintf("Installation %s does not exist", i.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *installationRepository) ListByClient(ctx context.Context, clientID string) ([]*installation.Installation, error) {
	q := r.db.GetQuerier(ctx)
	installations := []*installation.Installation{}
	err := q.SelectContext(ctx, &installations, `
		SELECT * FROM installations
		WHERE client_id = $1 AND status != $2
		ORDER BY installation_date DESC`,
		clientID, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list installations").
			Mark(ierr.ErrDatabase)
	}
	return installations, nil
}

func (r *installationRepository) ListActive(ctx context.Context) ([]*installation.Installation, error) {
	q := r.db.GetQuerier(ctx)
	installations := []*installation.Installation{}
	err := q.SelectContext(ctx, &installations, `
		SELECT * FROM installations
		WHERE is_active = TRUE
		  AND service_status IN ($1, $2)
		  AND status != $3
		ORDER BY installation_date ASC`,
		types.ServiceStatusActive, types.ServiceStatusSuspended, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list active installations").
			Mark(ierr.ErrDatabase)
	}
	return installations, nil
}

func (r *installationRepository) List(ctx context.Context, filter *types.QueryFilter) ([]*installation.Installation, error) {
	q := r.db.GetQuerier(ctx)
	installations := []*installation.Installation{}
	err := q.SelectContext(ctx, &installations, `
		SELECT * FROM installations
		WHERE status != $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		types.StatusDeleted, filter.GetLimit(), filter.GetOffset())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list installations").
			Mark(ierr.ErrDatabase)
	}
	return installations, nil
}
