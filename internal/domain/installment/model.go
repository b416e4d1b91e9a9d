package installment

import (
	"time"

	"github.com/shopspring/decimal"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

// ProductInstallment is one quota of a financed product sale (router, TV box).
// It joins the monthly statement whose billing window contains its due date,
// or any statement the operator explicitly attaches it to as an extra.
type ProductInstallment struct {
	ID                string                  `db:"id" json:"id"`
	ClientID          string                  `db:"client_id" json:"client_id"`
	ProductSoldID     string                  `db:"product_sold_id" json:"product_sold_id"`
	InstallmentNumber int                     `db:"installment_number" json:"installment_number"`
	Amount            decimal.Decimal         `db:"amount" json:"amount"`
	DueDate           time.Time               `db:"due_date" json:"due_date"`
	InstallmentStatus types.InstallmentStatus `db:"installment_status" json:"installment_status"`
	// PaymentID links the installment to the statement that billed it
	PaymentID *string `db:"payment_id" json:"payment_id,omitempty"`

	types.BaseModel
}

func (p *ProductInstallment) Validate() error {
	if p.ClientID == "" {
		return ierr.NewError("client id is required").
			WithHint("Client is required").
			Mark(ierr.ErrValidation)
	}
	if p.ProductSoldID == "" {
		return ierr.NewError("product sold id is required").
			WithHint("Product reference is required").
			Mark(ierr.ErrValidation)
	}
	if p.InstallmentNumber <= 0 {
		return ierr.NewError("invalid installment number").
			WithHint("Installment number must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	if p.Amount.IsNegative() || p.Amount.IsZero() {
		return ierr.NewError("invalid amount").
			WithHint("Amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	if p.DueDate.IsZero() {
		return ierr.NewError("due date is required").
			WithHint("Due date is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (p *ProductInstallment) TableName() string {
	return "product_installments"
}
