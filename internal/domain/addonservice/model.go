package addonservice

import (
	"github.com/shopspring/decimal"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

// AdditionalService is a recurring extra a client subscribes to on top of the
// plan (static IP, TV package, extra router). Contributes its cost to every
// monthly statement while active.
type AdditionalService struct {
	ID       string                        `db:"id" json:"id"`
	ClientID string                        `db:"client_id" json:"client_id"`
	Name     string                        `db:"name" json:"name"`
	Cost     decimal.Decimal               `db:"cost" json:"cost"`
	Status   types.AdditionalServiceStatus `db:"service_status" json:"service_status"`

	types.BaseModel
}

func (a *AdditionalService) Validate() error {
	if a.ClientID == "" {
		return ierr.NewError("client id is required").
			WithHint("Client is required").
			Mark(ierr.ErrValidation)
	}
	if a.Name == "" {
		return ierr.NewError("service name is required").
			WithHint("Name is required").
			Mark(ierr.ErrValidation)
	}
	if a.Cost.IsNegative() {
		return ierr.NewError("invalid cost").
			WithHint("Cost must be non negative").
			Mark(ierr.ErrValidation)
	}
	if err := a.Status.Validate(); err != nil {
		return ierr.WithError(err).
			WithHint("Status is invalid").
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (a *AdditionalService) TableName() string {
	return "additional_services"
}
