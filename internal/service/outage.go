package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/zandres28/imvcrm/internal/api/dto"
	"github.com/zandres28/imvcrm/internal/domain/outage"
	"github.com/zandres28/imvcrm/internal/domain/proration"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

type OutageService interface {
	CreateOutage(ctx context.Context, req dto.CreateOutageRequest) (*dto.OutageResponse, error)
	GetOutage(ctx context.Context, id string) (*dto.OutageResponse, error)
	UpdateOutage(ctx context.Context, id string, req dto.UpdateOutageRequest) (*dto.OutageResponse, error)
	CancelOutage(ctx context.Context, id string) (*dto.OutageResponse, error)
	ListOutages(ctx context.Context, filter *types.OutageFilter) (*dto.ListOutagesResponse, error)
	GetPendingDiscount(ctx context.Context, installationID string, req dto.GetPendingDiscountRequest) (*dto.PendingDiscountResponse, error)
}

type outageService struct {
	ServiceParams
}

func NewOutageService(params ServiceParams) OutageService {
	return &outageService{ServiceParams: params}
}

// outageCreditDays returns the day count the outage is credited for: its
// overlap with the month the outage starts in. A multi-month outage is
// credited once, against its start month.
func outageCreditDays(o *outage.ServiceOutage) int {
	start := types.DateOnly(o.StartDate)
	periodStart, periodEnd := types.PeriodBounds(start.Year(), start.Month())
	return proration.DaysInOverlap(o.StartDate, o.EndDate, periodStart, periodEnd)
}

// outageCredit derives the stored billing credit for a single outage: the
// credited days prorated against the monthly fee, rounded to the whole
// currency unit.
func outageCredit(monthlyFee decimal.Decimal, o *outage.ServiceOutage) (decimal.Decimal, int, error) {
	start := types.DateOnly(o.StartDate)
	days := outageCreditDays(o)
	amount, err := proration.Prorate(monthlyFee, start.Year(), start.Month(), days)
	if err != nil {
		return decimal.Zero, 0, err
	}
	return amount, days, nil
}

// overlapping keeps the outages whose dates touch the given billing window.
// An outage in another month is left alone until a statement for a month it
// overlaps is generated.
func overlapping(outages []*outage.ServiceOutage, periodStart, periodEnd time.Time) []*outage.ServiceOutage {
	return lo.Filter(outages, func(o *outage.ServiceOutage, _ int) bool {
		return proration.DaysInOverlap(o.StartDate, o.EndDate, periodStart, periodEnd) > 0
	})
}

// pendingCredit aggregates the stored credits of the given outages. Each
// outage was rounded individually at creation; the aggregate is the sum of
// those rounded amounts, capped at one monthly fee so a statement can never be
// discounted past a free month of plan service.
func pendingCredit(outages []*outage.ServiceOutage, monthlyFee decimal.Decimal) (decimal.Decimal, int) {
	total := decimal.Zero
	days := 0
	for _, o := range outages {
		total = total.Add(o.DiscountAmount)
		days += outageCreditDays(o)
	}
	if total.GreaterThan(monthlyFee) {
		total = monthlyFee
	}
	return total, days
}

func (s *outageService) CreateOutage(ctx context.Context, req dto.CreateOutageRequest) (*dto.OutageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inst, err := s.InstallationRepo.Get(ctx, req.InstallationID)
	if err != nil {
		return nil, err
	}
	pl, err := s.PlanRepo.Get(ctx, inst.ServicePlanID)
	if err != nil {
		return nil, err
	}
	fee := inst.EffectiveMonthlyFee(pl.MonthlyFee)

	o := &outage.ServiceOutage{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SERVICE_OUTAGE),
		ClientID:       inst.ClientID,
		InstallationID: inst.ID,
		StartDate:      types.DateOnly(req.StartDate),
		EndDate:        types.DateOnly(req.EndDate),
		Reason:         req.Reason,
		OutageStatus:   types.OutageStatusPending,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	discount, days, err := outageCredit(fee, o)
	if err != nil {
		return nil, err
	}
	o.DiscountAmount = discount

	if err := s.OutageRepo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.Logger.Infow("registered service outage",
		"outage_id", o.ID,
		"installation_id", o.InstallationID,
		"days", days,
		"discount", o.DiscountAmount,
	)
	return &dto.OutageResponse{ServiceOutage: o}, nil
}

func (s *outageService) GetOutage(ctx context.Context, id string) (*dto.OutageResponse, error) {
	o, err := s.OutageRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.OutageResponse{ServiceOutage: o}, nil
}

// UpdateOutage rewrites the dates or reason of a pending outage and re-derives
// its stored credit. Applied and cancelled outages are immutable.
func (s *outageService) UpdateOutage(ctx context.Context, id string, req dto.UpdateOutageRequest) (*dto.OutageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	o, err := s.OutageRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.IsMutable() {
		return nil, ierr.NewError("outage is not pending").
			WithHintf("Outage %s is %s and cannot be edited", id, o.OutageStatus).
			Mark(ierr.ErrInvalidOperation)
	}

	if req.StartDate != nil {
		o.StartDate = types.DateOnly(*req.StartDate)
	}
	if req.EndDate != nil {
		o.EndDate = types.DateOnly(*req.EndDate)
	}
	if req.Reason != nil {
		o.Reason = *req.Reason
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	inst, err := s.InstallationRepo.Get(ctx, o.InstallationID)
	if err != nil {
		return nil, err
	}
	pl, err := s.PlanRepo.Get(ctx, inst.ServicePlanID)
	if err != nil {
		return nil, err
	}

	discount, _, err := outageCredit(inst.EffectiveMonthlyFee(pl.MonthlyFee), o)
	if err != nil {
		return nil, err
	}
	o.DiscountAmount = discount
	o.UpdatedAt = s.Clock.Now()
	o.UpdatedBy = types.GetUserID(ctx)

	if err := s.OutageRepo.Update(ctx, o); err != nil {
		return nil, err
	}
	return &dto.OutageResponse{ServiceOutage: o}, nil
}

func (s *outageService) CancelOutage(ctx context.Context, id string) (*dto.OutageResponse, error) {
	o, err := s.OutageRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.IsMutable() {
		return nil, ierr.NewError("outage is not pending").
			WithHintf("Outage %s is %s and cannot be cancelled", id, o.OutageStatus).
			Mark(ierr.ErrInvalidOperation)
	}

	o.OutageStatus = types.OutageStatusCancelled
	o.UpdatedAt = s.Clock.Now()
	o.UpdatedBy = types.GetUserID(ctx)
	if err := s.OutageRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	s.Logger.Infow("cancelled service outage", "outage_id", o.ID)
	return &dto.OutageResponse{ServiceOutage: o}, nil
}

func (s *outageService) ListOutages(ctx context.Context, filter *types.OutageFilter) (*dto.ListOutagesResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid outage filter").
			Mark(ierr.ErrValidation)
	}

	outages, err := s.OutageRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListOutagesResponse{Items: make([]*dto.OutageResponse, 0, len(outages))}
	for _, o := range outages {
		resp.Items = append(resp.Items, &dto.OutageResponse{ServiceOutage: o})
	}
	return resp, nil
}

// GetPendingDiscount previews the aggregate credit a statement for the given
// billing period would consume. Pending outages outside the period are not
// counted.
func (s *outageService) GetPendingDiscount(ctx context.Context, installationID string, req dto.GetPendingDiscountRequest) (*dto.PendingDiscountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	month, err := types.MonthFromName(req.Month)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Month must be a Spanish month name").
			Mark(ierr.ErrValidation)
	}

	inst, err := s.InstallationRepo.Get(ctx, installationID)
	if err != nil {
		return nil, err
	}
	pl, err := s.PlanRepo.Get(ctx, inst.ServicePlanID)
	if err != nil {
		return nil, err
	}

	pending, err := s.OutageRepo.ListPendingByInstallation(ctx, installationID)
	if err != nil {
		return nil, err
	}
	periodStart, periodEnd := types.PeriodBounds(req.Year, month)
	pending = overlapping(pending, periodStart, periodEnd)

	discount, days := pendingCredit(pending, inst.EffectiveMonthlyFee(pl.MonthlyFee))

	resp := &dto.PendingDiscountResponse{
		InstallationID: installationID,
		Month:          req.Month,
		Year:           req.Year,
		Discount:       discount,
		OutageDays:     days,
		Outages:        make([]*dto.OutageResponse, 0, len(pending)),
	}
	for _, o := range pending {
		resp.Outages = append(resp.Outages, &dto.OutageResponse{ServiceOutage: o})
	}
	return resp, nil
}
