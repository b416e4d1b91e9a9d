package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/zandres28/imvcrm/internal/api/dto"
	"github.com/zandres28/imvcrm/internal/domain/client"
	"github.com/zandres28/imvcrm/internal/domain/installation"
	"github.com/zandres28/imvcrm/internal/domain/plan"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/testutil"
	"github.com/zandres28/imvcrm/internal/types"
)

type OutageServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  OutageService
	billing  BillingService
	testData struct {
		client       *client.Client
		plan         *plan.ServicePlan
		installation *installation.Installation
	}
}

func TestOutageService(t *testing.T) {
	suite.Run(t, new(OutageServiceSuite))
}

func (s *OutageServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	params := ServiceParams{
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
	s.service = NewOutageService(params)
	s.billing = NewBillingService(params)
	s.setupTestData()
}

func (s *OutageServiceSuite) setupTestData() {
	s.testData.client = &client.Client{
		ID:        "cli_test",
		Name:      "Pedro Rojas",
		Document:  "900123456",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().ClientRepo.Create(s.GetContext(), s.testData.client))

	s.testData.plan = &plan.ServicePlan{
		ID:         "plan_test",
		Name:       "Hogar 20",
		MonthlyFee: decimal.NewFromInt(90000),
		SpeedMbps:  20,
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
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

func (s *OutageServiceSuite) TestCreateOutageStoresDerivedCredit() {
	resp, err := s.service.CreateOutage(s.GetContext(), dto.CreateOutageRequest{
		InstallationID: s.testData.installation.ID,
		StartDate:      time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, time.February, 12, 0, 0, 0, 0, time.UTC),
		Reason:         "corte de fibra",
	})
	s.NoError(err)
	s.Equal(types.OutageStatusPending, resp.OutageStatus)
	s.Equal(3, resp.TotalDays())
	// 90000 / 28 * 3 rounds to 9643
	s.True(decimal.NewFromInt(9643).Equal(resp.DiscountAmount))
}

func (s *OutageServiceSuite) TestCreateOutageSingleDay() {
	resp, err := s.service.CreateOutage(s.GetContext(), dto.CreateOutageRequest{
		InstallationID: s.testData.installation.ID,
		StartDate:      time.Date(2025, time.April, 5, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, time.April, 5, 0, 0, 0, 0, time.UTC),
	})
	s.NoError(err)
	s.Equal(1, resp.TotalDays())
	// 90000 / 30 rounds to 3000
	s.True(decimal.NewFromInt(3000).Equal(resp.DiscountAmount))
}

func (s *OutageServiceSuite) TestCreateOutageMultiMonthCreditsStartMonthOnly() {
	resp, err := s.service.CreateOutage(s.GetContext(), dto.CreateOutageRequest{
		InstallationID: s.testData.installation.ID,
		StartDate:      time.Date(2025, time.March, 30, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC),
	})
	s.NoError(err)
	// Only the two March days count: 90000 / 31 * 2 rounds to 5806
	s.True(decimal.NewFromInt(5806).Equal(resp.DiscountAmount))
	s.Equal(4, resp.TotalDays())
}

func (s *OutageServiceSuite) TestCreateOutageEndBeforeStart() {
	_, err := s.service.CreateOutage(s.GetContext(), dto.CreateOutageRequest{
		InstallationID: s.testData.installation.ID,
		StartDate:      time.Date(2025, time.February, 12, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
	})
	s.Error(err)
	s.True(ierr.IsInvalidRange(err))
}

func (s *OutageServiceSuite) TestCreateOutageUsesFeeOverride() {
	override := decimal.NewFromInt(140000)
	s.testData.installation.MonthlyFee = &override
	s.NoError(s.GetStores().InstallationRepo.Update(s.GetContext(), s.testData.installation))

	resp, err := s.service.CreateOutage(s.GetContext(), dto.CreateOutageRequest{
		InstallationID: s.testData.installation.ID,
		StartDate:      time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, time.February, 14, 0, 0, 0, 0, time.UTC),
	})
	s.NoError(err)
	// 140000 / 28 * 14 = 70000
	s.True(decimal.NewFromInt(70000).Equal(resp.DiscountAmount))
}

func (s *OutageServiceSuite) TestUpdateOutageRecomputesCredit() {
	created, err := s.service.CreateOutage(s.GetContext(), dto.CreateOutageRequest{
		InstallationID: s.testData.installation.ID,
		StartDate:      time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, time.February, 12, 0, 0, 0, 0, time.UTC),
	})
	s.NoError(err)

	newEnd := time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC)
	updated, err := s.service.UpdateOutage(s.GetContext(), created.ID, dto.UpdateOutageRequest{
		EndDate: &newEnd,
	})
	s.NoError(err)
	s.Equal(6, updated.TotalDays())
	// 90000 / 28 * 6 rounds to 19286
	s.True(decimal.NewFromInt(19286).Equal(updated.DiscountAmount))
}

func (s *OutageServiceSuite) TestCancelOutage() {
	created, err := s.service.CreateOutage(s.GetContext(), dto.CreateOutageRequest{
		InstallationID: s.testData.installation.ID,
		StartDate:      time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, time.February, 12, 0, 0, 0, 0, time.UTC),
	})
	s.NoError(err)

	cancelled, err := s.service.CancelOutage(s.GetContext(), created.ID)
	s.NoError(err)
	s.Equal(types.OutageStatusCancelled, cancelled.OutageStatus)

	// A cancelled credit never reaches the statement
	resp, err := s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          "febrero",
		Year:           2025,
	})
	s.NoError(err)
	s.True(resp.OutageDiscountAmount.IsZero())
}

func (s *OutageServiceSuite) TestAppliedOutageIsImmutable() {
	created, err := s.service.CreateOutage(s.GetContext(), dto.CreateOutageRequest{
		InstallationID: s.testData.installation.ID,
		StartDate:      time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, time.February, 12, 0, 0, 0, 0, time.UTC),
	})
	s.NoError(err)

	_, err = s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          "febrero",
		Year:           2025,
	})
	s.NoError(err)

	newEnd := time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC)
	_, err = s.service.UpdateOutage(s.GetContext(), created.ID, dto.UpdateOutageRequest{EndDate: &newEnd})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	_, err = s.service.CancelOutage(s.GetContext(), created.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *OutageServiceSuite) TestGetPendingDiscount() {
	_, err := s.service.CreateOutage(s.GetContext(), dto.CreateOutageRequest{
		InstallationID: s.testData.installation.ID,
		StartDate:      time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, time.February, 12, 0, 0, 0, 0, time.UTC),
	})
	s.NoError(err)
	_, err = s.service.CreateOutage(s.GetContext(), dto.CreateOutageRequest{
		InstallationID: s.testData.installation.ID,
		StartDate:      time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, time.February, 21, 0, 0, 0, 0, time.UTC),
	})
	s.NoError(err)

	resp, err := s.service.GetPendingDiscount(s.GetContext(), s.testData.installation.ID,
		dto.GetPendingDiscountRequest{Month: "febrero", Year: 2025})
	s.NoError(err)
	s.Equal("febrero", resp.Month)
	s.Equal(2025, resp.Year)
	s.Equal(5, resp.OutageDays)
	// 9643 + 6429, each outage rounded on its own
	s.True(decimal.NewFromInt(16072).Equal(resp.Discount))
	s.Len(resp.Outages, 2)
}

func (s *OutageServiceSuite) TestGetPendingDiscountScopedToPeriod() {
	_, err := s.service.CreateOutage(s.GetContext(), dto.CreateOutageRequest{
		InstallationID: s.testData.installation.ID,
		StartDate:      time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, time.February, 12, 0, 0, 0, 0, time.UTC),
	})
	s.NoError(err)
	_, err = s.service.CreateOutage(s.GetContext(), dto.CreateOutageRequest{
		InstallationID: s.testData.installation.ID,
		StartDate:      time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC),
	})
	s.NoError(err)

	// Each preview only counts the outages touching its period
	feb, err := s.service.GetPendingDiscount(s.GetContext(), s.testData.installation.ID,
		dto.GetPendingDiscountRequest{Month: "febrero", Year: 2025})
	s.NoError(err)
	s.True(decimal.NewFromInt(9643).Equal(feb.Discount))
	s.Len(feb.Outages, 1)

	mar, err := s.service.GetPendingDiscount(s.GetContext(), s.testData.installation.ID,
		dto.GetPendingDiscountRequest{Month: "marzo", Year: 2025})
	s.NoError(err)
	s.True(decimal.NewFromInt(8710).Equal(mar.Discount))
	s.Len(mar.Outages, 1)

	// A quiet month previews no credit at all
	abr, err := s.service.GetPendingDiscount(s.GetContext(), s.testData.installation.ID,
		dto.GetPendingDiscountRequest{Month: "abril", Year: 2025})
	s.NoError(err)
	s.True(abr.Discount.IsZero())
	s.Empty(abr.Outages)

	_, err = s.service.GetPendingDiscount(s.GetContext(), s.testData.installation.ID,
		dto.GetPendingDiscountRequest{Month: "march", Year: 2025})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}
