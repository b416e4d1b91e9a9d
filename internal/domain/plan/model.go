package plan

import (
	"github.com/shopspring/decimal"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

// ServicePlan represents a sellable internet plan. Fee changes apply
// prospectively; statements already generated keep the amounts they were
// billed with.
type ServicePlan struct {
	ID              string          `db:"id" json:"id"`
	Name            string          `db:"name" json:"name"`
	MonthlyFee      decimal.Decimal `db:"monthly_fee" json:"monthly_fee"`
	InstallationFee decimal.Decimal `db:"installation_fee" json:"installation_fee"`
	SpeedMbps       int             `db:"speed_mbps" json:"speed_mbps"`

	types.BaseModel
}

func (p *ServicePlan) Validate() error {
	if p.Name == "" {
		return ierr.NewError("plan name is required").
			WithHint("Name is required").
			Mark(ierr.ErrValidation)
	}
	if p.MonthlyFee.IsNegative() {
		return ierr.NewError("invalid monthly fee").
			WithHint("Monthly fee must be non negative").
			Mark(ierr.ErrValidation)
	}
	if p.InstallationFee.IsNegative() {
		return ierr.NewError("invalid installation fee").
			WithHint("Installation fee must be non negative").
			Mark(ierr.ErrValidation)
	}
	if p.SpeedMbps <= 0 {
		return ierr.NewError("invalid speed").
			WithHint("Speed must be greater than 0 Mbps").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (p *ServicePlan) TableName() string {
	return "service_plans"
}
