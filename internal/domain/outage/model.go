package outage

import (
	"time"

	"github.com/shopspring/decimal"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

// ServiceOutage is a recorded interruption of a client's installation,
// eligible for a billing credit exactly once. The discount amount is derived
// at creation time and stored for auditability; it must equal
// (monthlyFee / daysInMonth(startDate)) * days of the outage overlapping the
// start month, rounded to the whole currency unit.
type ServiceOutage struct {
	ID             string             `db:"id" json:"id"`
	ClientID       string             `db:"client_id" json:"client_id"`
	InstallationID string             `db:"installation_id" json:"installation_id"`
	StartDate      time.Time          `db:"start_date" json:"start_date"`
	EndDate        time.Time          `db:"end_date" json:"end_date"`
	Reason         string             `db:"reason" json:"reason,omitempty"`
	DiscountAmount decimal.Decimal    `db:"discount_amount" json:"discount_amount"`
	OutageStatus   types.OutageStatus `db:"outage_status" json:"outage_status"`
	// AppliedToPaymentID back-references the statement that consumed the
	// credit once the status is applied.
	AppliedToPaymentID *string `db:"applied_to_payment_id" json:"applied_to_payment_id,omitempty"`

	types.BaseModel
}

func (o *ServiceOutage) Validate() error {
	if o.ClientID == "" {
		return ierr.NewError("client id is required").
			WithHint("Client is required").
			Mark(ierr.ErrValidation)
	}
	if o.InstallationID == "" {
		return ierr.NewError("installation id is required").
			WithHint("Installation is required").
			Mark(ierr.ErrValidation)
	}
	if o.StartDate.IsZero() || o.EndDate.IsZero() {
		return ierr.NewError("outage dates are required").
			WithHint("Start and end dates are required").
			Mark(ierr.ErrValidation)
	}
	if types.DateOnly(o.EndDate).Before(types.DateOnly(o.StartDate)) {
		return ierr.NewError("outage end date before start date").
			WithHint("End date must not be before start date").
			WithReportableDetails(map[string]any{
				"start_date": o.StartDate.Format(time.DateOnly),
				"end_date":   o.EndDate.Format(time.DateOnly),
			}).
			Mark(ierr.ErrInvalidRange)
	}
	if o.DiscountAmount.IsNegative() {
		return ierr.NewError("invalid discount amount").
			WithHint("Discount must be non negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TotalDays returns the inclusive day count of the outage
func (o *ServiceOutage) TotalDays() int {
	return int(types.DateOnly(o.EndDate).Sub(types.DateOnly(o.StartDate)).Hours()/24) + 1
}

// IsMutable reports whether the outage can still be edited or cancelled
func (o *ServiceOutage) IsMutable() bool {
	return o.OutageStatus == types.OutageStatusPending
}

func (o *ServiceOutage) TableName() string {
	return "service_outages"
}
