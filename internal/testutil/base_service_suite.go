package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/zandres28/imvcrm/internal/clock"
	"github.com/zandres28/imvcrm/internal/config"
	"github.com/zandres28/imvcrm/internal/domain/addonservice"
	"github.com/zandres28/imvcrm/internal/domain/client"
	"github.com/zandres28/imvcrm/internal/domain/installation"
	"github.com/zandres28/imvcrm/internal/domain/installment"
	"github.com/zandres28/imvcrm/internal/domain/outage"
	"github.com/zandres28/imvcrm/internal/domain/payment"
	"github.com/zandres28/imvcrm/internal/domain/plan"
	"github.com/zandres28/imvcrm/internal/logger"
	"github.com/zandres28/imvcrm/internal/postgres"
	"github.com/zandres28/imvcrm/internal/types"
	"github.com/zandres28/imvcrm/internal/validator"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	ClientRepo       client.Repository
	PlanRepo         plan.Repository
	InstallationRepo installation.Repository
	AddonRepo        addonservice.Repository
	InstallmentRepo  installment.Repository
	OutageRepo       outage.Repository
	PaymentRepo      payment.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	db     postgres.IClient
	logger *logger.Logger
	config *config.Configuration
	clock  *clock.Fixed
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()

	var err error
	s.logger, err = logger.NewLogger(s.config)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.clock = &clock.Fixed{Instant: time.Now().UTC()}
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		ClientRepo:       NewInMemoryClientStore(),
		PlanRepo:         NewInMemoryPlanStore(),
		InstallationRepo: NewInMemoryInstallationStore(),
		AddonRepo:        NewInMemoryAdditionalServiceStore(),
		InstallmentRepo:  NewInMemoryInstallmentStore(),
		OutageRepo:       NewInMemoryOutageStore(),
		PaymentRepo:      NewInMemoryPaymentStore(),
	}

	s.db = NewMockPostgresClient(s.logger)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.ClientRepo.(*InMemoryClientStore).Clear()
	s.stores.PlanRepo.(*InMemoryPlanStore).Clear()
	s.stores.InstallationRepo.(*InMemoryInstallationStore).Clear()
	s.stores.AddonRepo.(*InMemoryAdditionalServiceStore).Clear()
	s.stores.InstallmentRepo.(*InMemoryInstallmentStore).Clear()
	s.stores.OutageRepo.(*InMemoryOutageStore).Clear()
	s.stores.PaymentRepo.(*InMemoryPaymentStore).Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the test database client
func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetClock returns the fixed test clock
func (s *BaseServiceTestSuite) GetClock() *clock.Fixed {
	return s.clock
}

// SetNow pins the test clock to the given instant
func (s *BaseServiceTestSuite) SetNow(t time.Time) {
	s.clock.Instant = t
}

// GetUserID returns the test user ID
func (s *BaseServiceTestSuite) GetUserID() string {
	return types.GetUserID(s.ctx)
}
