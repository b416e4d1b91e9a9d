package types

import (
	"fmt"
	"time"
)

const (
	defaultFilterLimit = 50
	maxFilterLimit     = 1000
)

// QueryFilter carries common pagination parameters for list endpoints
type QueryFilter struct {
	Limit  *int `form:"limit" json:"limit,omitempty"`
	Offset *int `form:"offset" json:"offset,omitempty"`
}

func NewDefaultQueryFilter() *QueryFilter {
	limit := defaultFilterLimit
	offset := 0
	return &QueryFilter{Limit: &limit, Offset: &offset}
}

func NewNoLimitQueryFilter() *QueryFilter {
	return &QueryFilter{}
}

func (f *QueryFilter) GetLimit() int {
	if f == nil || f.Limit == nil {
		return defaultFilterLimit
	}
	return *f.Limit
}

func (f *QueryFilter) GetOffset() int {
	if f == nil || f.Offset == nil {
		return 0
	}
	return *f.Offset
}

func (f *QueryFilter) IsUnlimited() bool {
	return f == nil || f.Limit == nil
}

func (f *QueryFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.Limit != nil && (*f.Limit < 0 || *f.Limit > maxFilterLimit) {
		return fmt.Errorf("limit must be between 0 and %d", maxFilterLimit)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return fmt.Errorf("offset must be non negative")
	}
	return nil
}

// PaymentFilter filters statement listings
type PaymentFilter struct {
	*QueryFilter

	ClientID       *string        `form:"client_id"`
	InstallationID *string        `form:"installation_id"`
	PaymentStatus  *PaymentStatus `form:"payment_status"`
	PaymentType    *PaymentType   `form:"payment_type"`
	PaymentMonth   *string        `form:"payment_month"`
	PaymentYear    *int           `form:"payment_year"`
}

func (f *PaymentFilter) Validate() error {
	if f == nil {
		return nil
	}
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if f.PaymentStatus != nil {
		if err := f.PaymentStatus.Validate(); err != nil {
			return err
		}
	}
	if f.PaymentType != nil {
		if err := f.PaymentType.Validate(); err != nil {
			return err
		}
	}
	if f.PaymentMonth != nil {
		if _, err := MonthFromName(*f.PaymentMonth); err != nil {
			return err
		}
	}
	return nil
}

// OutageFilter filters outage listings
type OutageFilter struct {
	*QueryFilter

	ClientID       *string       `form:"client_id"`
	InstallationID *string       `form:"installation_id"`
	OutageStatus   *OutageStatus `form:"outage_status"`
	From           *time.Time    `form:"from" time_format:"2006-01-02"`
	To             *time.Time    `form:"to" time_format:"2006-01-02"`
}

func (f *OutageFilter) Validate() error {
	if f == nil {
		return nil
	}
	if err := f.QueryFilter.Validate(); err != nil {
		return err
	}
	if f.OutageStatus != nil {
		if err := f.OutageStatus.Validate(); err != nil {
			return err
		}
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return fmt.Errorf("to must not be before from")
	}
	return nil
}
