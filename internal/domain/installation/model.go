package installation

import (
	"time"

	"github.com/shopspring/decimal"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

// Installation represents one service drop at a client's address. A client
// may have several; only active ones contribute to billing.
type Installation struct {
	ID               string              `db:"id" json:"id"`
	ClientID         string              `db:"client_id" json:"client_id"`
	ServicePlanID    string              `db:"service_plan_id" json:"service_plan_id"`
	// MonthlyFee overrides the plan default when set (negotiated fee);
	// nil means bill the plan fee.
	MonthlyFee       *decimal.Decimal    `db:"monthly_fee" json:"monthly_fee,omitempty"`
	Address          string              `db:"address" json:"address,omitempty"`
	InstallationDate time.Time           `db:"installation_date" json:"installation_date"`
	CancelledAt      *time.Time          `db:"cancelled_at" json:"cancelled_at,omitempty"`
	ServiceStatus    types.ServiceStatus `db:"service_status" json:"service_status"`
	IsActive         bool                `db:"is_active" json:"is_active"`

	types.BaseModel
}

func (i *Installation) Validate() error {
	if i.ClientID == "" {
		return ierr.NewError("client id is required").
			WithHint("Client is required").
			Mark(ierr.ErrValidation)
	}
	if i.ServicePlanID == "" {
		return ierr.NewError("service plan id is required").
			WithHint("Service plan is required").
			Mark(ierr.ErrValidation)
	}
	if i.InstallationDate.IsZero() {
		return ierr.NewError("installation date is required").
			WithHint("Installation date is required").
			Mark(ierr.ErrValidation)
	}
	if i.MonthlyFee != nil && i.MonthlyFee.IsNegative() {
		return ierr.NewError("invalid monthly fee override").
			WithHint("Monthly fee must be non negative").
			Mark(ierr.ErrValidation)
	}
	if err := i.ServiceStatus.Validate(); err != nil {
		return ierr.WithError(err).
			WithHint("Service status is invalid").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// EffectiveMonthlyFee resolves the fee this installation is billed at
func (i *Installation) EffectiveMonthlyFee(planFee decimal.Decimal) decimal.Decimal {
	if i.MonthlyFee != nil {
		return *i.MonthlyFee
	}
	return planFee
}

// IsBillable reports whether the installation had billable service at any
// point inside the closed window [periodStart, periodEnd].
func (i *Installation) IsBillable(periodStart, periodEnd time.Time) bool {
	if !i.IsActive && i.CancelledAt == nil {
		return false
	}
	if types.DateOnly(i.InstallationDate).After(types.DateOnly(periodEnd)) {
		return false
	}
	if i.CancelledAt != nil && types.DateOnly(*i.CancelledAt).Before(types.DateOnly(periodStart)) {
		return false
	}
	if i.ServiceStatus == types.ServiceStatusCancelled && i.CancelledAt == nil {
		return false
	}
	return true
}

func (i *Installation) TableName() string {
	return "installations"
}
