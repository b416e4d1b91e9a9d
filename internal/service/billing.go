package service

import (
	"context"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
	"github.com/zandres28/imvcrm/internal/api/dto"
	"github.com/zandres28/imvcrm/internal/domain/payment"
	"github.com/zandres28/imvcrm/internal/domain/proration"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/types"
)

// BillingService assembles statements. A monthly statement for an installation
// is the prorated plan charge, plus active additional services at full cost,
// plus pending product installments due in the window, minus the aggregated
// pending outage credit, floored at zero.
type BillingService interface {
	GenerateStatement(ctx context.Context, req dto.GenerateStatementRequest) (*dto.PaymentResponse, error)
	GenerateInstallationStatement(ctx context.Context, req dto.GenerateInstallationStatementRequest) (*dto.PaymentResponse, error)
	GenerateMonthlyStatements(ctx context.Context, req dto.GenerateMonthlyStatementsRequest) (*dto.GenerateMonthlyStatementsResponse, error)
}

type billingService struct {
	ServiceParams
}

func NewBillingService(params ServiceParams) BillingService {
	return &billingService{ServiceParams: params}
}

func (s *billingService) GenerateStatement(ctx context.Context, req dto.GenerateStatementRequest) (*dto.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	month, err := types.MonthFromName(req.Month)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Month must be a Spanish month name").
			Mark(ierr.ErrValidation)
	}

	inst, err := s.InstallationRepo.Get(ctx, req.InstallationID)
	if err != nil {
		return nil, err
	}

	periodStart, periodEnd := types.PeriodBounds(req.Year, month)
	if !inst.IsBillable(periodStart, periodEnd) {
		return nil, ierr.NewError("no billable service in period").
			WithHintf("Installation %s has no billable service in %s %d", inst.ID, req.Month, req.Year).
			Mark(ierr.ErrNoBillableService)
	}

	// Fast duplicate check. The unique index on the billing key remains the
	// authoritative guard for concurrent runs.
	if existing, err := s.PaymentRepo.GetByPeriod(ctx, inst.ID, req.Month, req.Year, types.PaymentTypeMonthly); err == nil {
		return nil, ierr.NewError("statement already exists").
			WithHintf("Statement %s already covers %s %d for installation %s", existing.ID, req.Month, req.Year, inst.ID).
			Mark(ierr.ErrAlreadyExists)
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}

	pl, err := s.PlanRepo.Get(ctx, inst.ServicePlanID)
	if err != nil {
		return nil, err
	}
	fee := inst.EffectiveMonthlyFee(pl.MonthlyFee)

	// Plan charge, prorated to the days service existed inside the window. A
	// mid-month installation starts the count at the installation date; a
	// mid-month cancellation ends it at the cancellation date.
	serviceEnd := periodEnd
	if inst.CancelledAt != nil && types.DateOnly(*inst.CancelledAt).Before(periodEnd) {
		serviceEnd = types.DateOnly(*inst.CancelledAt)
	}
	billedDays := proration.DaysInOverlap(inst.InstallationDate, serviceEnd, periodStart, periodEnd)
	if billedDays == 0 {
		return nil, ierr.NewError("no billable days in period").
			WithHintf("Installation %s has no billable days in %s %d", inst.ID, req.Month, req.Year).
			Mark(ierr.ErrNoBillableService)
	}
	totalDays := proration.DaysInMonth(req.Year, month)

	planAmount, err := proration.Prorate(fee, req.Year, month, billedDays)
	if err != nil {
		return nil, err
	}

	// Additional services bill at full cost regardless of proration
	addons, err := s.AddonRepo.ListActiveByClient(ctx, inst.ClientID)
	if err != nil {
		return nil, err
	}
	addonTotal := decimal.Zero
	for _, svc := range addons {
		addonTotal = addonTotal.Add(svc.Cost)
	}

	installments, err := s.InstallmentRepo.ListPendingDueInWindow(ctx, inst.ClientID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	installmentTotal := decimal.Zero
	for _, q := range installments {
		installmentTotal = installmentTotal.Add(q.Amount)
	}

	pendingOutages, err := s.OutageRepo.ListPendingByInstallation(ctx, inst.ID)
	if err != nil {
		return nil, err
	}
	// Only credits touching the billing window are consumed here. An outage in
	// another month stays pending for the statement of a month it overlaps.
	pendingOutages = overlapping(pendingOutages, periodStart, periodEnd)
	discount, outageDays := pendingCredit(pendingOutages, fee)

	amount := planAmount.Add(addonTotal).Add(installmentTotal).Sub(discount)
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	p := &payment.Payment{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		ReceiptNumber:  types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_RECEIPT),
		ClientID:       inst.ClientID,
		InstallationID: inst.ID,
		PaymentType:    types.PaymentTypeMonthly,
		PaymentMonth:   types.MonthName(month),
		PaymentYear:    req.Year,

		Amount:                    amount,
		ServicePlanAmount:         planAmount,
		AdditionalServicesAmount:  addonTotal,
		ProductInstallmentsAmount: installmentTotal,
		OutageDiscountAmount:      discount,
		OutageDays:                outageDays,

		Currency:      s.Config.Billing.Currency,
		DueDate:       time.Date(req.Year, month, s.Config.Billing.DueDay, 0, 0, 0, 0, time.UTC),
		PaymentStatus: types.PaymentStatusPending,

		IsProrated:       billedDays < totalDays,
		BilledDays:       lo.ToPtr(billedDays),
		TotalDaysInMonth: lo.ToPtr(totalDays),

		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	// The statement row, the outage credit consumption and the installment
	// linkage land or roll back together.
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.PaymentRepo.Create(ctx, p); err != nil {
			return err
		}
		for _, o := range pendingOutages {
			if err := s.OutageRepo.MarkApplied(ctx, o.ID, p.ID); err != nil {
				return err
			}
		}
		for _, q := range installments {
			q.PaymentID = &p.ID
			q.UpdatedAt = s.Clock.Now()
			q.UpdatedBy = types.GetUserID(ctx)
			if err := s.InstallmentRepo.Update(ctx, q); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("generated monthly statement",
		"payment_id", p.ID,
		"installation_id", inst.ID,
		"period", req.Month,
		"year", req.Year,
		"amount", p.Amount,
		"discount", p.OutageDiscountAmount,
		"prorated", p.IsProrated,
	)
	return dto.NewPaymentResponse(p, s.Clock.Now()), nil
}

// GenerateInstallationStatement bills the one-off installation fee of the
// installation's plan. Subject to the same uniqueness key as monthly
// statements, with the installation month as its period.
func (s *billingService) GenerateInstallationStatement(ctx context.Context, req dto.GenerateInstallationStatementRequest) (*dto.PaymentResponse, error) {
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

	installDate := types.DateOnly(inst.InstallationDate)
	monthName := types.MonthName(installDate.Month())
	year := installDate.Year()

	if existing, err := s.PaymentRepo.GetByPeriod(ctx, inst.ID, monthName, year, types.PaymentTypeInstallation); err == nil {
		return nil, ierr.NewError("installation fee already billed").
			WithHintf("Statement %s already bills the installation fee", existing.ID).
			Mark(ierr.ErrAlreadyExists)
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}

	p := &payment.Payment{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		ReceiptNumber:  types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_RECEIPT),
		ClientID:       inst.ClientID,
		InstallationID: inst.ID,
		PaymentType:    types.PaymentTypeInstallation,
		PaymentMonth:   monthName,
		PaymentYear:    year,

		Amount:            pl.InstallationFee,
		ServicePlanAmount: pl.InstallationFee,

		Currency:      s.Config.Billing.Currency,
		DueDate:       installDate,
		PaymentStatus: types.PaymentStatusPending,

		BaseModel: types.GetDefaultBaseModel(ctx),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := s.PaymentRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("generated installation fee statement",
		"payment_id", p.ID,
		"installation_id", inst.ID,
		"amount", p.Amount,
	)
	return dto.NewPaymentResponse(p, s.Clock.Now()), nil
}

// GenerateMonthlyStatements runs statement generation for every active
// installation. Installations already billed for the period or without
// billable service are counted as skipped, not failures.
func (s *billingService) GenerateMonthlyStatements(ctx context.Context, req dto.GenerateMonthlyStatementsRequest) (*dto.GenerateMonthlyStatementsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	installations, err := s.InstallationRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	resp := &dto.GenerateMonthlyStatementsResponse{}

	workers := pool.New().WithMaxGoroutines(s.Config.Billing.StatementWorkers)
	for _, inst := range installations {
		workers.Go(func() {
			stmt, err := s.GenerateStatement(ctx, dto.GenerateStatementRequest{
				InstallationID: inst.ID,
				Month:          req.Month,
				Year:           req.Year,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				resp.Generated++
				resp.PaymentIDs = append(resp.PaymentIDs, stmt.ID)
			case ierr.IsAlreadyExists(err) || ierr.IsNoBillableService(err):
				resp.Skipped++
			default:
				resp.Failed++
				s.Logger.Errorw("statement generation failed",
					"installation_id", inst.ID,
					"period", req.Month,
					"year", req.Year,
					"error", err,
				)
			}
		})
	}
	workers.Wait()

	s.Logger.Infow("monthly billing run finished",
		"period", req.Month,
		"year", req.Year,
		"generated", resp.Generated,
		"skipped", resp.Skipped,
		"failed", resp.Failed,
	)
	return resp, nil
}
