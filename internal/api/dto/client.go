package dto

import (
	"context"

	"github.com/zandres28/imvcrm/internal/domain/client"
	"github.com/zandres28/imvcrm/internal/types"
	"github.com/zandres28/imvcrm/internal/validator"
)

type CreateClientRequest struct {
	Name     string `json:"name" validate:"required"`
	Document string `json:"document" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
}

func (r *CreateClientRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreateClientRequest) ToClient(ctx context.Context) *client.Client {
	return &client.Client{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		Name:      r.Name,
		Document:  r.Document,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		City:      r.City,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

type UpdateClientRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
}

func (r *UpdateClientRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type ClientResponse struct {
	*client.Client
}

type ListClientsResponse struct {
	Items []*ClientResponse `json:"items"`
	Total int               `json:"total"`
}
