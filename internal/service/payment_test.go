package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/zandres28/imvcrm/internal/api/dto"
	"github.com/zandres28/imvcrm/internal/domain/client"
	"github.com/zandres28/imvcrm/internal/domain/installation"
	"github.com/zandres28/imvcrm/internal/domain/installment"
	"github.com/zandres28/imvcrm/internal/domain/plan"
	ierr "github.com/zandres28/imvcrm/internal/errors"
	"github.com/zandres28/imvcrm/internal/testutil"
	"github.com/zandres28/imvcrm/internal/types"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  PaymentService
	billing  BillingService
	testData struct {
		client       *client.Client
		plan         *plan.ServicePlan
		installation *installation.Installation
	}
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
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
	s.service = NewPaymentService(params)
	s.billing = NewBillingService(params)
	s.setupTestData()
}

func (s *PaymentServiceSuite) setupTestData() {
	s.testData.client = &client.Client{
		ID:        "cli_test",
		Name:      "Luisa Herrera",
		Document:  "52123456",
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

func (s *PaymentServiceSuite) generateStatement(month string, year int) *dto.PaymentResponse {
	resp, err := s.billing.GenerateStatement(s.GetContext(), dto.GenerateStatementRequest{
		InstallationID: s.testData.installation.ID,
		Month:          month,
		Year:           year,
	})
	s.NoError(err)
	return resp
}

func (s *PaymentServiceSuite) addInstallment(id string, amount int64, due time.Time) *installment.ProductInstallment {
	q := &installment.ProductInstallment{
		ID:                id,
		ClientID:          s.testData.client.ID,
		ProductSoldID:     "router_1",
		InstallmentNumber: 1,
		Amount:            decimal.NewFromInt(amount),
		DueDate:           due,
		InstallmentStatus: types.InstallmentStatusPending,
		BaseModel:         types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().InstallmentRepo.Create(s.GetContext(), q))
	return q
}

func (s *PaymentServiceSuite) TestRegisterPayment() {
	stmt := s.generateStatement("febrero", 2025)

	paid, err := s.service.RegisterPayment(s.GetContext(), dto.RegisterPaymentRequest{
		PaymentID:     stmt.ID,
		PaymentMethod: types.PaymentMethodCash,
	})
	s.NoError(err)
	s.Equal(types.PaymentStatusPaid, paid.PaymentStatus)
	s.Equal(types.PaymentStatusPaid, paid.DisplayStatus)
	s.NotNil(paid.PaymentDate)
	s.Equal(s.GetClock().Now(), *paid.PaymentDate)
	s.NotNil(paid.PaymentMethod)
	s.Equal(types.PaymentMethodCash, *paid.PaymentMethod)
}

func (s *PaymentServiceSuite) TestRegisterPaymentSettlesLinkedInstallments() {
	s.addInstallment("pinst_feb", 20000, time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC))
	stmt := s.generateStatement("febrero", 2025)
	s.True(decimal.NewFromInt(20000).Equal(stmt.ProductInstallmentsAmount))

	_, err := s.service.RegisterPayment(s.GetContext(), dto.RegisterPaymentRequest{
		PaymentID:     stmt.ID,
		PaymentMethod: types.PaymentMethodTransfer,
	})
	s.NoError(err)

	q, err := s.GetStores().InstallmentRepo.Get(s.GetContext(), "pinst_feb")
	s.NoError(err)
	s.Equal(types.InstallmentStatusPaid, q.InstallmentStatus)
}

func (s *PaymentServiceSuite) TestRegisterPaymentWithExtraInstallments() {
	stmt := s.generateStatement("febrero", 2025)
	extra := s.addInstallment("pinst_extra", 25000, time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC))

	tendered := decimal.NewFromInt(115000)
	paid, err := s.service.RegisterPayment(s.GetContext(), dto.RegisterPaymentRequest{
		PaymentID:           stmt.ID,
		PaymentMethod:       types.PaymentMethodCash,
		Amount:              &tendered,
		ExtraInstallmentIDs: []string{extra.ID},
	})
	s.NoError(err)
	s.True(decimal.NewFromInt(115000).Equal(paid.Amount))
	s.True(decimal.NewFromInt(25000).Equal(paid.ProductInstallmentsAmount))

	q, err := s.GetStores().InstallmentRepo.Get(s.GetContext(), extra.ID)
	s.NoError(err)
	s.Equal(types.InstallmentStatusPaid, q.InstallmentStatus)
	s.NotNil(q.PaymentID)
	s.Equal(stmt.ID, *q.PaymentID)
}

func (s *PaymentServiceSuite) TestRegisterPaymentRequiresAmountWithExtras() {
	stmt := s.generateStatement("febrero", 2025)
	extra := s.addInstallment("pinst_extra", 25000, time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC))

	_, err := s.service.RegisterPayment(s.GetContext(), dto.RegisterPaymentRequest{
		PaymentID:           stmt.ID,
		PaymentMethod:       types.PaymentMethodCash,
		ExtraInstallmentIDs: []string{extra.ID},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PaymentServiceSuite) TestRegisterPaymentRejectsInsufficientAmount() {
	stmt := s.generateStatement("febrero", 2025)
	extra := s.addInstallment("pinst_extra", 25000, time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC))

	// 114999 tendered against the 115000 owed with the extra included
	short := decimal.NewFromInt(114999)
	_, err := s.service.RegisterPayment(s.GetContext(), dto.RegisterPaymentRequest{
		PaymentID:           stmt.ID,
		PaymentMethod:       types.PaymentMethodCash,
		Amount:              &short,
		ExtraInstallmentIDs: []string{extra.ID},
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	// Nothing settles on a rejected registration
	got, err := s.GetStores().PaymentRepo.Get(s.GetContext(), stmt.ID)
	s.NoError(err)
	s.Equal(types.PaymentStatusPending, got.PaymentStatus)
	s.True(decimal.NewFromInt(90000).Equal(got.Amount))

	q, err := s.GetStores().InstallmentRepo.Get(s.GetContext(), extra.ID)
	s.NoError(err)
	s.Equal(types.InstallmentStatusPending, q.InstallmentStatus)
	s.Nil(q.PaymentID)

	// A short amount is rejected even without extras
	belowStatement := decimal.NewFromInt(89999)
	_, err = s.service.RegisterPayment(s.GetContext(), dto.RegisterPaymentRequest{
		PaymentID:     stmt.ID,
		PaymentMethod: types.PaymentMethodCash,
		Amount:        &belowStatement,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *PaymentServiceSuite) TestRegisterPaymentRejectsForeignInstallment() {
	other := &client.Client{
		ID:        "cli_other",
		Name:      "Carlos Mesa",
		Document:  "80123456",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().ClientRepo.Create(s.GetContext(), other))

	foreign := &installment.ProductInstallment{
		ID:                "pinst_foreign",
		ClientID:          other.ID,
		ProductSoldID:     "tv_1",
		InstallmentNumber: 1,
		Amount:            decimal.NewFromInt(10000),
		DueDate:           time.Date(2025, time.May, 15, 0, 0, 0, 0, time.UTC),
		InstallmentStatus: types.InstallmentStatusPending,
		BaseModel:         types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().InstallmentRepo.Create(s.GetContext(), foreign))

	stmt := s.generateStatement("febrero", 2025)
	_, err := s.service.RegisterPayment(s.GetContext(), dto.RegisterPaymentRequest{
		PaymentID:           stmt.ID,
		PaymentMethod:       types.PaymentMethodCash,
		ExtraInstallmentIDs: []string{foreign.ID},
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PaymentServiceSuite) TestRegisterPaymentAlreadyPaid() {
	stmt := s.generateStatement("febrero", 2025)

	_, err := s.service.RegisterPayment(s.GetContext(), dto.RegisterPaymentRequest{
		PaymentID:     stmt.ID,
		PaymentMethod: types.PaymentMethodCash,
	})
	s.NoError(err)

	_, err = s.service.RegisterPayment(s.GetContext(), dto.RegisterPaymentRequest{
		PaymentID:     stmt.ID,
		PaymentMethod: types.PaymentMethodCash,
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *PaymentServiceSuite) TestRegisterPaymentExplicitDate() {
	stmt := s.generateStatement("febrero", 2025)
	paidAt := time.Date(2025, time.February, 8, 0, 0, 0, 0, time.UTC)

	paid, err := s.service.RegisterPayment(s.GetContext(), dto.RegisterPaymentRequest{
		PaymentID:     stmt.ID,
		PaymentMethod: types.PaymentMethodCard,
		PaymentDate:   &paidAt,
	})
	s.NoError(err)
	s.NotNil(paid.PaymentDate)
	s.Equal(paidAt, *paid.PaymentDate)
}

func (s *PaymentServiceSuite) TestDisplayStatusDerivesOverdue() {
	stmt := s.generateStatement("febrero", 2025)
	// Statements fall due on the configured day of the billing month
	s.Equal(time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC), stmt.DueDate)

	// Reading past the due date displays overdue without touching the row
	s.SetNow(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	got, err := s.service.GetPayment(s.GetContext(), stmt.ID)
	s.NoError(err)
	s.Equal(types.PaymentStatusOverdue, got.DisplayStatus)
	s.Equal(types.PaymentStatusPending, got.PaymentStatus)

	// Before the due date the stored status stands
	s.SetNow(time.Date(2025, time.February, 5, 0, 0, 0, 0, time.UTC))
	got, err = s.service.GetPayment(s.GetContext(), stmt.ID)
	s.NoError(err)
	s.Equal(types.PaymentStatusPending, got.DisplayStatus)
}

func (s *PaymentServiceSuite) TestMarkOverduePayments() {
	stmt := s.generateStatement("febrero", 2025)

	s.SetNow(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	resp, err := s.service.MarkOverduePayments(s.GetContext())
	s.NoError(err)
	s.Equal(1, resp.Updated)

	got, err := s.GetStores().PaymentRepo.Get(s.GetContext(), stmt.ID)
	s.NoError(err)
	s.Equal(types.PaymentStatusOverdue, got.PaymentStatus)

	// The pass is idempotent
	resp, err = s.service.MarkOverduePayments(s.GetContext())
	s.NoError(err)
	s.Equal(0, resp.Updated)
}

func (s *PaymentServiceSuite) TestListPaymentsFilter() {
	s.generateStatement("febrero", 2025)
	s.generateStatement("marzo", 2025)

	month := "febrero"
	resp, err := s.service.ListPayments(s.GetContext(), &types.PaymentFilter{PaymentMonth: &month})
	s.NoError(err)
	s.Len(resp.Items, 1)
	s.Equal(1, resp.Total)
	s.Equal("febrero", resp.Items[0].PaymentMonth)
}
