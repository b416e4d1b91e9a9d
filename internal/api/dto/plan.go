package dto

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/zandres28/imvcrm/internal/domain/plan"
	"github.com/zandres28/imvcrm/internal/types"
	"github.com/zandres28/imvcrm/internal/validator"
)

type CreatePlanRequest struct {
	Name            string          `json:"name" validate:"required"`
	MonthlyFee      decimal.Decimal `json:"monthly_fee" validate:"required"`
	InstallationFee decimal.Decimal `json:"installation_fee"`
	SpeedMbps       int             `json:"speed_mbps" validate:"required,min=1"`
}

func (r *CreatePlanRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreatePlanRequest) ToPlan(ctx context.Context) *plan.ServicePlan {
	return &plan.ServicePlan{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SERVICE_PLAN),
		Name:            r.Name,
		MonthlyFee:      r.MonthlyFee,
		InstallationFee: r.InstallationFee,
		SpeedMbps:       r.SpeedMbps,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
}

// UpdatePlanRequest changes apply prospectively: statements already generated
// keep the fee they were billed with.
type UpdatePlanRequest struct {
	Name            *string          `json:"name,omitempty"`
	MonthlyFee      *decimal.Decimal `json:"monthly_fee,omitempty"`
	InstallationFee *decimal.Decimal `json:"installation_fee,omitempty"`
	SpeedMbps       *int             `json:"speed_mbps,omitempty" validate:"omitempty,min=1"`
}

func (r *UpdatePlanRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type PlanResponse struct {
	*plan.ServicePlan
}

type ListPlansResponse struct {
	Items []*PlanResponse `json:"items"`
}
