package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
	"github.com/zandres28/imvcrm/internal/domain/payment"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/logger"
	"github.com/zandres28/imvcrm/internal/postgres"
	"github.com/zandres28/imvcrm/internal/types"
)

const pqUniqueViolation = "23505"

type paymentRepository struct {
	db  *postgres.DB
	log *logger.Logger
}

func NewPaymentRepository(db *postgres.DB, log *logger.Logger) payment.Repository {
	return &paymentRepository{db: db, log: log}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	q := r.db.GetQuerier(ctx)
	_, err := q.NamedExecContext(ctx, `
		INSERT INTO payments (
			id, receipt_number, client_id, installation_id, payment_type,
			payment_month, payment_year, amount, service_plan_amount,
			additional_services_amount, product_installments_amount,
			outage_discount_amount, outage_days, currency, due_date,
			payment_status, payment_date, payment_method, is_prorated,
			billed_days, total_days_in_month,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :receipt_number, :client_id, :installation_id, :payment_type,
			:payment_month, :payment_year, :amount, :service_plan_amount,
			:additional_services_amount, :product_installments_amount,
			:outage_discount_amount, :outage_days, :currency, :due_date,
			:payment_status, :payment_date, :payment_method, :is_prorated,
			:billed_days, :total_days_in_month,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`, p)
	if err != nil {
		// The unique index on (installation_id, payment_month, payment_year,
		// payment_type) is the duplicate-statement guard; surface it as a
		// conflict so the caller can show the existing statement instead.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return ierr.WithError(err).
				WithHintf("A %s statement already exists for %s %d", p.PaymentType, p.PaymentMonth, p.PaymentYear).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create statement").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	q := r.db.GetQuerier(ctx)
	var p payment.Payment
	err := q.GetContext(ctx, &p, `
		SELECT * FROM payments WHERE id = $1 AND status != $2`,
		id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("statement not found").
				WithHintf("Statement %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get statement").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	q := r.db.GetQuerier(ctx)
	res, err := q.NamedExecContext(ctx, `
		UPDATE payments SET
			amount = :amount, payment_status = :payment_status,
			payment_date = :payment_date, payment_method = :payment_method,
			product_installments_amount = :product_installments_amount,
			status = :status, updated_at = :updated_at, updated_by = :updated_by
		WHERE id = :id`, p)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update statement").
			Mark(ierr.ErrDatabase)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ierr.NewError("statement not found").
			WithHintf("Statement %s does not exist", p.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *paymentRepository) GetByPeriod(ctx context.Context, installationID string, month string, year int, paymentType types.PaymentType) (*payment.Payment, error) {
	q := r.db.GetQuerier(ctx)
	var p payment.Payment
	err := q.GetContext(ctx, &p, `
		SELECT * FROM payments
		WHERE installation_id = $1 AND payment_month = $2
		  AND payment_year = $3 AND payment_type = $4
		  AND status != $5`,
		installationID, month, year, paymentType, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("statement not found").
				WithHintf("No %s statement for %s %d", paymentType, month, year).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get statement").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func buildPaymentFilter(filter *types.PaymentFilter) (string, []interface{}) {
	query := `status != $1`
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
		if filter.PaymentStatus != nil {
			addArg("payment_status =", *filter.PaymentStatus)
		}
		if filter.PaymentType != nil {
			addArg("payment_type =", *filter.PaymentType)
		}
		if filter.PaymentMonth != nil {
			addArg("payment_month =", *filter.PaymentMonth)
		}
		if filter.PaymentYear != nil {
			addArg("payment_year =", *filter.PaymentYear)
		}
	}

	return query, args
}

func (r *paymentRepository) List(ctx context.Context, filter *types.PaymentFilter) ([]*payment.Payment, error) {
	q := r.db.GetQuerier(ctx)

	where, args := buildPaymentFilter(filter)
	args = append(args, filter.GetLimit(), filter.GetOffset())
	query := fmt.Sprintf(
		"SELECT * FROM payments WHERE %s ORDER BY payment_year DESC, due_date DESC LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args))

	payments := []*payment.Payment{}
	if err := q.SelectContext(ctx, &payments, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list statements").
			Mark(ierr.ErrDatabase)
	}
	return payments, nil
}

func (r *paymentRepository) Count(ctx context.Context, filter *types.PaymentFilter) (int, error) {
	q := r.db.GetQuerier(ctx)

	where, args := buildPaymentFilter(filter)
	query := fmt.Sprintf("SELECT COUNT(*) FROM payments WHERE %s", where)

	var count int
	if err := q.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count statements").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

// MarkOverdue is the explicit write pass behind the displayed-overdue
// derivation. Re-running is a no-op for rows already flipped.
func (r *paymentRepository) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	q := r.db.GetQuerier(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE payments SET payment_status = $1, updated_at = NOW()
		WHERE payment_status = $2 AND due_date < $3 AND status != $4`,
		types.PaymentStatusOverdue, types.PaymentStatusPending, now, types.StatusDeleted)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to mark overdue statements").
			Mark(ierr.ErrDatabase)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
