package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/zandres28/imvcrm/internal/domain/outage"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/logger"
	"github.com/zandres28/imvcrm/internal/postgres"
	"github.com/zandres28/imvcrm/internal/types"
)

type outageRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewOutageRepository(db *postgres.DB, log *logger.Logger) outage.Repository {
	return &outageRepository{db: db, log: log}
}

func (r *outageRepository) Create(ctx context.Context, o *outage.ServiceOutage) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.NamedExecContext(ctx, `
		INSERT INTO service_outages (
			id, client_id, installation_id, start_date, end_date, reason,
			discount_amount, outage_status, applied_to_payment_id,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :client_id, :installation_id, :start_date, :end_date, :reason,
			:discount_amount, :outage_status, :applied_to_payment_id,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`, o)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create service outage").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *outageRepository) Get(ctx context.Context, id string) (*outage.ServiceOutage, error) {
	q := r.db.GetQuerier(ctx)
	var o outage.ServiceOutage
	err := q.GetContext(ctx, &o, `
		SELECT * FROM service_outages WHERE id = $1 AND status != $2`,
		id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("service outage not found").
				WithHintf("Service outage %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get service outage").
			Mark(ierr.ErrDatabase)
	}
	return &o, nil
}

func (r *outageRepository) Update(ctx context.Context, o *outage.ServiceOutage) error {
	q := r.db.GetQuerier(ctx)
	res, err := q.NamedExecContext(ctx, `
		UPDATE service_outages SET
			start_date = :start_date, end_date = :end_date, reason = :reason,
			discount_amount = :discount_amount, outage_status = :outage_status,
			applied_to_payment_id = :applied_to_payment_id,
			status = :status, updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id`, o)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update service outage").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("service outage not found").
			WithHintf("Service outage %s does not exist", o.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *outageRepository) ListPendingByInstallation(ctx context.Context, installationID string) ([]*outage.ServiceOutage, error) {
	q := r.db.GetQuerier(ctx)
	outages := []*outage.ServiceOutage{}
	err := q.SelectContext(ctx, &outages, `
		SELECT * FROM service_outages
		WHERE installation_id = $1 AND outage_status = $2 AND status != $3
		ORDER BY start_date ASC`,
		installationID, types.OutageStatusPending, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list pending outages").
			Mark(ierr.ErrDatabase)
	}
	return outages, nil
}

// MarkApplied performs the guarded pending -> applied transition. The WHERE
// clause on outage_status makes the flip at-most-once even under concurrent
// billing runs; zero rows affected means the credit was already consumed.
func (r *outageRepository) MarkApplied(ctx context.Context, outageID string, paymentID string) error {
	q := r.db.GetQuerier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE service_outages SET
			outage_status = $1, applied_to_payment_id = $2, updated_at = NOW()
		WHERE id = $3 AND outage_status = $4`,
		types.OutageStatusApplied, paymentID, outageID, types.OutageStatusPending)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to apply outage discount").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("outage is not pending").
			WithHintf("Outage %s was already applied or cancelled", outageID).
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}

func (r *outageRepository) List(ctx context.Context, filter *types.OutageFilter) ([]*outage.ServiceOutage, error) {
	q := r.db.GetQuerier(ctx)

	query := `SELECT * FROM service_outages WHERE status != $1`
	args := []interface{}{types.StatusDeleted}

	addArg := func(clause string, v interface{}) {
		args = append(args, v)
		query += fmt.Sprintf(" AND %s $%d", clause, len(args))
	}

	if filter != nil {
		if filter.ClientID != nil {
			addArg("client_id =", *filter.ClientID)
		}
		if filter.InstallationID != nil {
			addArg("installation_id =", *filter.InstallationID)
		}
		if filter.OutageStatus != nil {
			addArg("outage_status =", *filter.OutageStatus)
		}
		if filter.From != nil {
			addArg("end_date >=", *filter.From)
		}
		if filter.To != nil {
			addArg("start_date <=", *filter.To)
		}
	}

	query += " ORDER BY start_date DESC"
	args = append(args, filter.GetLimit(), filter.GetOffset())
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	outages := []*outage.ServiceOutage{}
	if err := q.SelectContext(ctx, &outages, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list service outages").
			Mark(ierr.ErrDatabase)
	}
	return outages, nil
}
