package dto

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/zandres28/imvcrm/internal/domain/addonservice"
	"github.com/zandres28/imvcrm/internal/types"
	"github.com/zandres28/imvcrm/internal/validator"
)

type CreateAdditionalServiceRequest struct {
	ClientID string          `json:"client_id" validate:"required"`
	Name     string          `json:"name" validate:"required"`
	Cost     decimal.Decimal `json:"cost" validate:"required"`
}

func (r *CreateAdditionalServiceRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateAdditionalServiceRequest) ToAdditionalService(ctx context.Context) *addonservice.AdditionalService {
	return &addonservice.AdditionalService{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ADDITIONAL_SERVICE),
		ClientID:  r.ClientID,
		Name:      r.Name,
		Cost:      r.Cost,
		Status:    types.AdditionalServiceStatusActive,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

type AdditionalServiceResponse struct {
	*addonservice.AdditionalService
}

type ListAdditionalServicesResponse struct {
	Items []*AdditionalServiceResponse `json:"items"`
}
