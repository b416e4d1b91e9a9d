package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zandres28/imvcrm/internal/domain/installment"
	"github.com/zandres28/imvcrm/internal/validator"
)

// CreateInstallmentPlanRequest splits a financed product sale into a monthly
// quota schedule starting at FirstDueDate.
type CreateInstallmentPlanRequest struct {
	ClientID      string          `json:"client_id" validate:"required"`
	ProductSoldID string          `json:"product_sold_id" validate:"required"`
	TotalAmount   decimal.Decimal `json:"total_amount" validate:"required"`
	Installments  int             `json:"installments" validate:"required,min=1,max=60"`
	FirstDueDate  time.Time       `json:"first_due_date" validate:"required"`
}

func (r *CreateInstallmentPlanRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type InstallmentResponse struct {
	*installment.ProductInstallment
}

type InstallmentPlanResponse struct {
	Items []*InstallmentResponse `json:"items"`
	Total decimal.Decimal        `json:"total"`
}
