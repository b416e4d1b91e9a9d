package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/zandres28/imvcrm/internal/api/dto"
	"github.com/zandres28/imvcrm/internal/domain/addonservice"
	"github.com/zandres28/imvcrm/internal/domain/client"
	"github.com/zandres28/imvcrm/internal/domain/installation"
	"github.com/zandres28/imvcrm/internal/domain/installment"
	"github.com/zandres28/imvcrm/internal/domain/outage"
	"github.com/zandres28/imvcrm/internal/domain/plan"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/testutil"
	"github.com/zandres28/imvcrm/internal/types"
)

type BillingServiceSuite struct {
	testutil.BaseServiceTestSuite
	billing  BillingService
	testData struct {
		client       *client.Client
		plan         *plan.ServicePlan
		installation *installation.Installation
	}
}

func TestBillingService(t *testing.T) {
	suite.Run(t, new(BillingServiceSuite))
}

func (s *BillingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.billing = NewBillingService(s.params())
	s.setupTestData()
}

func (s *BillingServiceSuite) params() ServiceParams {
	return ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		DB:               s.GetDB(),
		Clock:            s.GetClock(),
		ClientRepo:       s.GetStores().ClientRepo,
		PlanRepo:         s.GetStores().PlanRepo,
		InstallationRepo: s.GetStores().InstallationRepo,
		AddonRepo:        s.GetStores().AddonRepo,
		InstallmentRepo:  s.GetStores().InstallmentRepo,
		OutageRepo:       s.GetStores().OutageRepo,
		PaymentRepo:      s.GetStores().PaymentRepo,
	}
}

func (s *BillingServiceSuite) setupTestData() {
	s.testData.client = &client.Client{
		ID:        "cli_test",
		Name:      "Maria Gomez",
		Document:  "1020304050",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().ClientRepo.Create(s.GetContext(), s.testData.client))

	s.testData.plan = &plan.ServicePlan{
		ID:              "plan_test",
		Name:            "Hogar 20",
		MonthlyFee:      decimal.NewFromInt(90000),
		InstallationFee: decimal.NewFromInt(50000),
		SpeedMbps:       20,
		BaseModel:       types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PlanRepo.Create(s.GetContext(), s.testData.plan))

	s.testData.installation = &installation.Installation{
		ID:               "inst_test",
		ClientID:         s.testData.client.ID,
		ServicePlanID:    s.testData.plan.ID,
		InstallationDate: time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		ServiceStatus:    types.ServiceStatusActive,
		IsActive:         true,
		BaseModel:        types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().InstallationRepo.Create(s.GetContext(), s.testData.installation))
}

func (s *BillingServiceSuite) addOutage(id string, start, end time.Time, discount int64) *outage.ServiceOutage {
	o := &outage.ServiceOutage{
		ID:             id,
		ClientID:       s.testData.client.ID,
		InstallationID: s.testData.installation.ID,
		StartDate:      start,
		EndDate:        end,
		DiscountAmount: decimal.NewFromInt(discount),
		OutageStatus:   types.OutageStatusPending,
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().OutageRepo.Create(s.GetContext(), o))
	return o
}

func (s *BillingServiceSuite) TestGenerateStatementFullMonth() {
	resp, err := s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          "febrero",
		Year:           2025,
	})
	s.NoError(err)
	s.True(decimal.NewFromInt(90000).Equal(resp.Amount))
	s.True(decimal.NewFromInt(90000).Equal(resp.ServicePlanAmount))
	s.False(resp.IsProrated)
	s.Equal(28, *resp.BilledDays)
	s.Equal(28, *resp.TotalDaysInMonth)
	s.Equal(types.PaymentTypeMonthly, resp.PaymentType)
	s.Equal("febrero", resp.PaymentMonth)
	s.Equal(2025, resp.PaymentYear)
	s.Equal("COP", resp.Currency)
	s.Equal(types.PaymentStatusPending, resp.PaymentStatus)
	s.NotEmpty(resp.ReceiptNumber)
}

func (s *BillingServiceSuite) TestGenerateStatementOutageDiscount() {
	// Three outage days against a 90000 fee in a 28 day month credits 9643
	o := s.addOutage("out_feb",
		time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.February, 12, 0, 0, 0, 0, time.UTC),
		9643)

	resp, err := s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          "febrero",
		Year:           2025,
	})
	s.NoError(err)
	s.True(decimal.NewFromInt(9643).Equal(resp.OutageDiscountAmount))
	s.Equal(3, resp.OutageDays)
	s.True(decimal.NewFromInt(80357).Equal(resp.Amount))

	// The credit is consumed with the statement
	applied, err := s.GetStores().OutageRepo.Get(s.GetContext(), o.ID)
	s.NoError(err)
	s.Equal(types.OutageStatusApplied, applied.OutageStatus)
	s.NotNil(applied.AppliedToPaymentID)
	s.Equal(resp.ID, *applied.AppliedToPaymentID)
}

func (s *BillingServiceSuite) TestGenerateStatementDiscountCappedAtMonthlyFee() {
	// A full month outage plus a second one would overshoot the fee; the
	// aggregate credit is capped at one free month of plan service.
	s.addOutage("out_full",
		time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		90000)
	s.addOutage("out_extra",
		time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.February, 7, 0, 0, 0, 0, time.UTC),
		16071)

	resp, err := s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          "febrero",
		Year:           2025,
	})
	s.NoError(err)
	s.True(decimal.NewFromInt(90000).Equal(resp.OutageDiscountAmount))
	s.True(resp.Amount.IsZero())
}

func (s *BillingServiceSuite) TestGenerateStatementDuplicate() {
	_, err := s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          "marzo",
		Year:           2025,
	})
	s.NoError(err)

	_, err = s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          "marzo",
		Year:           2025,
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *BillingServiceSuite) TestGenerateStatementBeforeInstallation() {
	_, err := s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          "enero",
		Year:           2024,
	})
	s.Error(err)
	s.True(ierr.IsNoBillableService(err))
}

func (s *BillingServiceSuite) TestGenerateStatementMidMonthInstallation() {
	s.testData.installation.InstallationDate = time.Date(2025, time.February, 19, 0, 0, 0, 0, time.UTC)
	s.NoError(s.GetStores().InstallationRepo.Update(s.GetContext(), s.testData.installation))

	resp, err := s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          "febrero",
		Year:           2025,
	})
	s.NoError(err)
	// 10 of 28 days: 90000 / 28 * 10 rounds to 32143
	s.True(decimal.NewFromInt(32143).Equal(resp.ServicePlanAmount))
	s.True(resp.IsProrated)
	s.Equal(10, *resp.BilledDays)
}

func (s *BillingServiceSuite) TestGenerateStatementMidMonthCancellation() {
	cancelledAt := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
	s.testData.installation.CancelledAt = &cancelledAt
	s.testData.installation.ServiceStatus = types.ServiceStatusCancelled
	s.testData.installation.IsActive = false
	s.NoError(s.GetStores().InstallationRepo.Update(s.GetContext(), s.testData.installation))

	resp, err := s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          "febrero",
		Year:           2025,
	})
	s.NoError(err)
	// Billed through the cancellation date: 10 of 28 days
	s.True(decimal.NewFromInt(32143).Equal(resp.ServicePlanAmount))
	s.True(resp.IsProrated)
	s.Equal(10, *resp.BilledDays)

	// The month after cancellation is not billable at all
	_, err = s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          "marzo",
		Year:           2025,
	})
	s.Error(err)
	s.True(ierr.IsNoBillableService(err))
}

func (s *BillingServiceSuite) TestGenerateStatementDiscountAppliedOnce() {
	s.addOutage("out_once",
		time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.February, 12, 0, 0, 0, 0, time.UTC),
		9643)

	feb, err := s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          "febrero",
		Year:           2025,
	})
	s.NoError(err)
	s.True(decimal.NewFromInt(9643).Equal(feb.OutageDiscountAmount))

	mar, err := s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          "marzo",
		Year:           2025,
	})
	s.NoError(err)
	s.True(mar.OutageDiscountAmount.IsZero())
	s.Equal(0, mar.OutageDays)
	s.True(decimal.NewFromInt(90000).Equal(mar.Amount))
}

func (s *BillingServiceSuite) TestGenerateStatementIgnoresOutageOutsidePeriod() {
	// 90000 / 31 * 3 rounds to 8710
	o := s.addOutage("out_mar",
		time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC),
		8710)

	// A March outage must not discount the February statement
	feb, err := s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          "febrero",
		Year:           2025,
	})
	s.NoError(err)
	s.True(feb.OutageDiscountAmount.IsZero())
	s.Equal(0, feb.OutageDays)
	s.True(decimal.NewFromInt(90000).Equal(feb.Amount))

	// The credit stays pending for the month it belongs to
	still, err := s.GetStores().OutageRepo.Get(s.GetContext(), o.ID)
	s.NoError(err)
	s.Equal(types.OutageStatusPending, still.OutageStatus)
	s.Nil(still.AppliedToPaymentID)

	mar, err := s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          "marzo",
		Year:           2025,
	})
	s.NoError(err)
	s.True(decimal.NewFromInt(8710).Equal(mar.OutageDiscountAmount))
	s.Equal(3, mar.OutageDays)

	applied, err := s.GetStores().OutageRepo.Get(s.GetContext(), o.ID)
	s.NoError(err)
	s.Equal(types.OutageStatusApplied, applied.OutageStatus)
	s.NotNil(applied.AppliedToPaymentID)
	s.Equal(mar.ID, *applied.AppliedToPaymentID)
}

func (s *BillingServiceSuite) TestGenerateStatementAddonsAndInstallments() {
	s.NoError(s.GetStores().AddonRepo.Create(s.GetContext(), &addonservice.AdditionalService{
		ID:        "asvc_tv",
		ClientID:  s.testData.client.ID,
		Name:      "TV",
		Cost:      decimal.NewFromInt(15000),
		Status:    types.AdditionalServiceStatusActive,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}))
	s.NoError(s.GetStores().AddonRepo.Create(s.GetContext(), &addonservice.AdditionalService{
		ID:        "asvc_old",
		ClientID:  s.testData.client.ID,
		Name:      "IP fija",
		Cost:      decimal.NewFromInt(99999),
		Status:    types.AdditionalServiceStatusCancelled,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}))

	s.NoError(s.GetStores().InstallmentRepo.Create(s.GetContext(), &installment.ProductInstallment{
		ID:                "pinst_feb",
		ClientID:          s.testData.client.ID,
		ProductSoldID:     "router_1",
		InstallmentNumber: 1,
		Amount:            decimal.NewFromInt(20000),
		DueDate:           time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC),
		InstallmentStatus: types.InstallmentStatusPending,
		BaseModel:         types.GetDefaultBaseModel(s.GetContext()),
	}))
	s.NoError(s.GetStores().InstallmentRepo.Create(s.GetContext(), &installment.ProductInstallment{
		ID:                "pinst_mar",
		ClientID:          s.testData.client.ID,
		ProductSoldID:     "router_1",
		InstallmentNumber: 2,
		Amount:            decimal.NewFromInt(20000),
		DueDate:           time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC),
		InstallmentStatus: types.InstallmentStatusPending,
		BaseModel:         types.GetDefaultBaseModel(s.GetContext()),
	}))

	resp, err := s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          "febrero",
		Year:           2025,
	})
	s.NoError(err)
	s.True(decimal.NewFromInt(15000).Equal(resp.AdditionalServicesAmount))
	s.True(decimal.NewFromInt(20000).Equal(resp.ProductInstallmentsAmount))
	s.True(decimal.NewFromInt(125000).Equal(resp.Amount))

	// The billed installment is linked to the statement but stays pending
	// until the payment is registered
	q, err := s.GetStores().InstallmentRepo.Get(s.GetContext(), "pinst_feb")
	s.NoError(err)
	s.NotNil(q.PaymentID)
	s.Equal(resp.ID, *q.PaymentID)
	s.Equal(types.InstallmentStatusPending, q.InstallmentStatus)

	next, err := s.GetStores().InstallmentRepo.Get(s.GetContext(), "pinst_mar")
	s.NoError(err)
	s.Nil(next.PaymentID)
}

func (s *BillingServiceSuite) TestGenerateStatementFlooredAtZero() {
	// Installed on the 19th the plan charge is 32143, while a full month
	// outage credit of 90000 is pending. The amount floors at zero, the
	// breakdown keeps the capped discount.
	s.testData.installation.InstallationDate = time.Date(2025, time.February, 19, 0, 0, 0, 0, time.UTC)
	s.NoError(s.GetStores().InstallationRepo.Update(s.GetContext(), s.testData.installation))
	s.addOutage("out_big",
		time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		90000)

	resp, err := s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          "febrero",
		Year:           2025,
	})
	s.NoError(err)
	s.True(resp.Amount.IsZero())
	s.True(decimal.NewFromInt(32143).Equal(resp.ServicePlanAmount))
	s.True(decimal.NewFromInt(90000).Equal(resp.OutageDiscountAmount))
}

func (s *BillingServiceSuite) TestGenerateStatementInvalidMonth() {
	_, err := s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          "february",
		Year:           2025,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *BillingServiceSuite) TestGenerateInstallationStatement() {
	resp, err := s.billing.GenerateInstallationStatement(s.GetContext(), dto.GenerateInstallationStatementRequest{
		InstallationID: s.testData.installation.ID,
	})
	s.NoError(err)
	s.Equal(types.PaymentTypeInstallation, resp.PaymentType)
	s.True(decimal.NewFromInt(50000).Equal(resp.Amount))
	s.Equal("junio", resp.PaymentMonth)
	s.Equal(2024, resp.PaymentYear)

	_, err = s.billing.GenerateInstallationStatement(s.GetContext(), dto.GenerateInstallationStatementRequest{
		InstallationID: s.testData.installation.ID,
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *BillingServiceSuite) TestGenerateMonthlyStatements() {
	second := &installation.Installation{
		ID:               "inst_second",
		ClientID:         s.testData.client.ID,
		ServicePlanID:    s.testData.plan.ID,
		MonthlyFee:       lo.ToPtr(decimal.NewFromInt(120000)),
		InstallationDate: time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC),
		ServiceStatus:    types.ServiceStatusActive,
		IsActive:         true,
		BaseModel:        types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().InstallationRepo.Create(s.GetContext(), second))

	// Already billed for the period: the run must skip it, not fail
	_, err := s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: second.ID,
		Month:          "febrero",
		Year:           2025,
	})
	s.NoError(err)

	// Installed after the period: also a skip
	future := &installation.Installation{
		ID:               "inst_future",
		ClientID:         s.testData.client.ID,
		ServicePlanID:    s.testData.plan.ID,
		InstallationDate: time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		ServiceStatus:    types.ServiceStatusActive,
		IsActive:         true,
		BaseModel:        types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().InstallationRepo.Create(s.GetContext(), future))

	resp, err := s.billing.GenerateMonthlyStatements(s.GetContext(), dto.GenerateMonthlyStatementsRequest{
		Month: "febrero",
		Year:  2025,
	})
	s.NoError(err)
	s.Equal(1, resp.Generated)
	s.Equal(2, resp.Skipped)
	s.Equal(0, resp.Failed)
	s.Len(resp.PaymentIDs, 1)
}
