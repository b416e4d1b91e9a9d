package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zandres28/imvcrm/internal/domain/payment"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
	"github.com/zandres28/imvcrm/internal/validator"
)

type GenerateStatementRequest struct {
	InstallationID string `json:"installation_id" validate:"required"`
	Month          string `json:"month" validate:"required"`
	Year           int    `json:"year" validate:"required,min=2000,max=2100"`
}

func (r *GenerateStatementRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if _, err := types.MonthFromName(r.Month); err != nil {
		return ierr.WithError(err).
			WithHint("Month must be a Spanish month name").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type GenerateInstallationStatementRequest struct {
	InstallationID string `json:"installation_id" validate:"required"`
}

func (r *GenerateInstallationStatementRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// GenerateMonthlyStatementsRequest drives the batch billing run over every
// active installation.
type GenerateMonthlyStatementsRequest struct {
	Month string `json:"month" validate:"required"`
	Year  int    `json:"year" validate:"required,min=2000,max=2100"`
}

func (r *GenerateMonthlyStatementsRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if _, err := types.MonthFromName(r.Month); err != nil {
		return ierr.WithError(err).
			WithHint("Month must be a Spanish month name").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type GenerateMonthlyStatementsResponse struct {
	Generated  int      `json:"generated"`
	Skipped    int      `json:"skipped"`
	Failed     int      `json:"failed"`
	PaymentIDs []string `json:"payment_ids"`
}

type RegisterPaymentRequest struct {
	PaymentID     string              `json:"payment_id" validate:"required"`
	PaymentMethod types.PaymentMethod `json:"payment_method" validate:"required"`
	PaymentDate   *time.Time          `json:"payment_date,omitempty"`
	// Amount is the total tendered at the counter. Required when extra
	// installments are settled with the statement, and must cover the
	// statement plus everything settled with it.
	Amount *decimal.Decimal `json:"amount,omitempty"`
	// ExtraInstallmentIDs are pending installments the operator settles
	// together with the statement at the counter.
	ExtraInstallmentIDs []string `json:"extra_installment_ids,omitempty"`
}

func (r *RegisterPaymentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.PaymentMethod.Validate()
}

// PaymentResponse carries the stored statement plus the status as it should be
// displayed right now. DisplayStatus differs from the stored status only for
// pending statements past their due date.
type PaymentResponse struct {
	*payment.Payment
	DisplayStatus types.PaymentStatus `json:"display_status"`
}

func NewPaymentResponse(p *payment.Payment, now time.Time) *PaymentResponse {
	return &PaymentResponse{
		Payment:       p,
		DisplayStatus: p.EffectiveStatus(now),
	}
}

type ListPaymentsResponse struct {
	Items []*PaymentResponse `json:"items"`
	Total int                `json:"total"`
}

type MarkOverdueResponse struct {
	Updated int `json:"updated"`
}
