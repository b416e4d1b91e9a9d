package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zandres28/imvcrm/internal/domain/installation"
	"github.com/zandres28/imvcrm/internal/types"
	"github.com/zandres28/imvcrm/internal/validator"
)

type CreateInstallationRequest struct {
	ClientID         string           `json:"client_id" validate:"required"`
	ServicePlanID    string           `json:"service_plan_id" validate:"required"`
	MonthlyFee       *decimal.Decimal `json:"monthly_fee,omitempty"`
	Address          string           `json:"address"`
	InstallationDate time.Time        `json:"installation_date" validate:"required"`
	// WithInstallationFee asks for the one-off installation fee statement to be
	// generated alongside the installation itself.
	WithInstallationFee bool `json:"with_installation_fee"`
}

func (r *CreateInstallationRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateInstallationRequest) ToInstallation(ctx context.Context) *installation.Installation {
	return &installation.Installation{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INSTALLATION),
		ClientID:         r.ClientID,
		ServicePlanID:    r.ServicePlanID,
		MonthlyFee:       r.MonthlyFee,
		Address:          r.Address,
		InstallationDate: types.DateOnly(r.InstallationDate),
		ServiceStatus:    types.ServiceStatusActive,
		IsActive:         true,
		BaseModel:        types.GetDefaultBaseModel(ctx),
	}
}

type UpdateInstallationRequest struct {
	ServicePlanID *string          `json:"service_plan_id,omitempty"`
	MonthlyFee    *decimal.Decimal `json:"monthly_fee,omitempty"`
	Address       *string          `json:"address,omitempty"`
}

func (r *UpdateInstallationRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type CancelInstallationRequest struct {
	CancelledAt time.Time `json:"cancelled_at" validate:"required"`
}

func (r *CancelInstallationRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type InstallationResponse struct {
	*installation.Installation
}

type ListInstallationsResponse struct {
	Items []*InstallationResponse `json:"items"`
}
