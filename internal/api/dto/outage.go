package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zandres28/imvcrm/internal/domain/outage"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
	"github.com/zandres28/imvcrm/internal/validator"
)

type CreateOutageRequest struct {
	InstallationID string    `json:"installation_id" validate:"required"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required"`
	Reason         string    `json:"reason"`
}

func (r *CreateOutageRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type UpdateOutageRequest struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Reason    *string    `json:"reason,omitempty"`
}

func (r *UpdateOutageRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type OutageResponse struct {
	*outage.ServiceOutage
}

type ListOutagesResponse struct {
	Items []*OutageResponse `json:"items"`
}

// GetPendingDiscountRequest scopes the credit preview to a billing period.
type GetPendingDiscountRequest struct {
	Month string `form:"month" json:"month" validate:"required"`
	Year  int    `form:"year" json:"year" validate:"required,min=2000,max=2100"`
}

func (r *GetPendingDiscountRequest) Validate() error {
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

// PendingDiscountResponse previews the credit a statement for the given
// billing period would carry.
type PendingDiscountResponse struct {
	InstallationID string            `json:"installation_id"`
	Month          string            `json:"month"`
	Year           int               `json:"year"`
	Discount       decimal.Decimal   `json:"discount"`
	OutageDays     int               `json:"outage_days"`
	Outages        []*OutageResponse `json:"outages"`
}
