package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/zandres28/imvcrm/internal/domain/installment"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/logger"
	"github.com/zandres28/imvcrm/internal/postgres"
	"github.com/zandres28/imvcrm/internal/types"
)

type installmentRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewInstallmentRepository(db *postgres.DB, log *logger.Logger) installment.Repository {
	return &installmentRepository{db: db, log: log}
}

const insertInstallmentQuery = `
	INSERT INTO product_installments (
		id, client_id, product_sold_id, installment_number, amount,
		due_date, installment_status, payment_id,
		status, created_at, updated_at, created_by, updated_by
	) VALUES (
		:id, :client_id, :product_sold_id, :installment_number, :amount,
		:due_date, :installment_status, :payment_id,
		:status, :created_at, :updated_at, :created_by, :updated_by
	)`

func (r *installmentRepository) Create(ctx context.Context, i *installment.ProductInstallment) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.NamedExecContext(ctx, insertInstallmentQuery, i)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create product installment").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *installmentRepository) CreateBulk(ctx context.Context, installments []*installment.ProductInstallment) error {
	if len(installments) == 0 {
		return nil
	}
	q := r.db.GetQuerier(ctx)
	for _, i := range installments {
		if _, err := q.NamedExecContext(ctx, insertInstallmentQuery, i); err != nil {
			return ierr.WithError(err).
				WithHint("Failed to create product installments").
				Mark(ierr.ErrDatabase)
		}
	}
	return nil
}

func (r *installmentRepository) Get(ctx context.Context, id string) (*installment.ProductInstallment, error) {
	q := r.db.GetQuerier(ctx)
	var i installment.ProductInstallment
	err := q.GetContext(ctx, &i, `
		SELECT * FROM product_installments WHERE id = $1 AND status != $2`,
		id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("product installment not found").
				WithHintf("Product installment %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get product installment").
			Mark(ierr.ErrDatabase)
	}
	return &i, nil
}

func (r *installmentRepository) Update(ctx context.Context, i *installment.ProductInstallment) error {
	q := r.db.GetQuerier(ctx)
	res, err := q.NamedExecContext(ctx, `
		UPDATE product_installments SET
			amount = :amount, due_date = :due_date,
			installment_status = :installment_status, payment_id = :payment_id,
			status = :status, updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id`, i)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update product installment").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("product installment not found").
			WithHintf("Product installment %s does not exist", i.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *installmentRepository) ListPendingDueInWindow(ctx context.Context, clientID string, from, to time.Time) ([]*installment.ProductInstallment, error) {
	q := r.db.GetQuerier(ctx)
	installments := []*installment.ProductInstallment{}
	err := q.SelectContext(ctx, &installments, `
		SELECT * FROM product_installments
		WHERE client_id = $1
		  AND installment_status = $2
		  AND due_date >= $3 AND due_date <= $4
		  AND status != $5
		ORDER BY due_date ASC, installment_number ASC`,
		clientID, types.InstallmentStatusPending, from, to, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list product installments").
			Mark(ierr.ErrDatabase)
	}
	return installments, nil
}

func (r *installmentRepository) ListByClient(ctx context.Context, clientID string) ([]*installment.ProductInstallment, error) {
	q := r.db.GetQuerier(ctx)
	installments := []*installment.ProductInstallment{}
	err := q.SelectContext(ctx, &installments, `
		SELECT * FROM product_installments
		WHERE client_id = $1 AND status != $2
		ORDER BY due_date ASC, installment_number ASC`,
		clientID, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list product installments").
			Mark(ierr.ErrDatabase)
	}
	return installments, nil
}
