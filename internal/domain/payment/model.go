package payment

import (
	"time"

	"github.com/shopspring/decimal"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

// Payment is one month's statement for one installation: the final billed
// amount plus its full component breakdown, kept for audit and display.
// Uniqueness is enforced on (installation_id, payment_month, payment_year,
// payment_type) at the persistence layer; that constraint, not application
// locking, is what prevents duplicate statements from concurrent runs.
type Payment struct {
	ID             string            `db:"id" json:"id"`
	ReceiptNumber  string            `db:"receipt_number" json:"receipt_number"`
	ClientID       string            `db:"client_id" json:"client_id"`
	InstallationID string            `db:"installation_id" json:"installation_id"`
	PaymentType    types.PaymentType `db:"payment_type" json:"payment_type"`
	PaymentMonth   string            `db:"payment_month" json:"payment_month"`
	PaymentYear    int               `db:"payment_year" json:"payment_year"`

	// Billed breakdown. Amount must always equal the component sum minus the
	// discount, floored at zero.
	Amount                    decimal.Decimal `db:"amount" json:"amount"`
	ServicePlanAmount         decimal.Decimal `db:"service_plan_amount" json:"service_plan_amount"`
	AdditionalServicesAmount  decimal.Decimal `db:"additional_services_amount" json:"additional_services_amount"`
	ProductInstallmentsAmount decimal.Decimal `db:"product_installments_amount" json:"product_installments_amount"`
	OutageDiscountAmount      decimal.Decimal `db:"outage_discount_amount" json:"outage_discount_amount"`
	OutageDays                int             `db:"outage_days" json:"outage_days"`

	Currency      string              `db:"currency" json:"currency"`
	DueDate       time.Time           `db:"due_date" json:"due_date"`
	PaymentStatus types.PaymentStatus `db:"payment_status" json:"payment_status"`
	PaymentDate   *time.Time          `db:"payment_date" json:"payment_date,omitempty"`
	PaymentMethod *types.PaymentMethod `db:"payment_method" json:"payment_method,omitempty"`

	IsProrated       bool `db:"is_prorated" json:"is_prorated"`
	BilledDays       *int `db:"billed_days" json:"billed_days,omitempty"`
	TotalDaysInMonth *int `db:"total_days_in_month" json:"total_days_in_month,omitempty"`

	types.BaseModel
}

func (p *Payment) Validate() error {
	if p.ClientID == "" {
		return ierr.NewError("client id is required").
			WithHint("Client is required").
			Mark(ierr.ErrValidation)
	}
	if p.InstallationID == "" {
		return ierr.NewError("installation id is required").
			WithHint("Installation is required").
			Mark(ierr.ErrValidation)
	}
	if err := p.PaymentType.Validate(); err != nil {
		return ierr.WithError(err).
			WithHint("Payment type is invalid").
			Mark(ierr.ErrValidation)
	}
	if _, err := types.MonthFromName(p.PaymentMonth); err != nil {
		return ierr.WithError(err).
			WithHint("Payment month is invalid").
			Mark(ierr.ErrValidation)
	}
	if p.Amount.IsNegative() {
		return ierr.NewError("invalid amount").
			WithHint("Amount must be non negative").
			Mark(ierr.ErrValidation)
	}

	// Breakdown must reconcile: amount == max(0, components - discount)
	expected := p.ServicePlanAmount.
		Add(p.AdditionalServicesAmount).
		Add(p.ProductInstallmentsAmount).
		Sub(p.OutageDiscountAmount)
	if expected.IsNegative() {
		expected = decimal.Zero
	}
	if !p.Amount.Equal(expected) {
		return ierr.NewError("amount does not match breakdown").
			WithHintf("Amount %s does not equal breakdown total %s", p.Amount, expected).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// EffectiveStatus derives the displayed status for the read path: a pending
// statement past its due date reads as overdue even though the stored column
// still says pending. The stored transition happens only in the explicit
// overdue-marking pass; querying must never mutate.
func (p *Payment) EffectiveStatus(now time.Time) types.PaymentStatus {
	if p.PaymentStatus == types.PaymentStatusPending && now.After(p.DueDate) {
		return types.PaymentStatusOverdue
	}
	return p.PaymentStatus
}

func (p *Payment) TableName() string {
	return "payments"
}
