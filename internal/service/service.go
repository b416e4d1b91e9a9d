package service

import (
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
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient
	Clock  clock.Clock

	ClientRepo       client.Repository
	PlanRepo         plan.Repository
	InstallationRepo installation.Repository
	AddonRepo        addonservice.Repository
	InstallmentRepo  installment.Repository
	OutageRepo       outage.Repository
	PaymentRepo      payment.Repository
}

// NewServiceParams assembles the shared dependency set services are built from
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	clk clock.Clock,
	clientRepo client.Repository,
	planRepo plan.Repository,
	installationRepo installation.Repository,
	addonRepo addonservice.Repository,
	installmentRepo installment.Repository,
	outageRepo outage.Repository,
	paymentRepo payment.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:           logger,
		Config:           config,
		DB:               db,
		Clock:            clk,
		ClientRepo:       clientRepo,
		PlanRepo:         planRepo,
		InstallationRepo: installationRepo,
		AddonRepo:        addonRepo,
		InstallmentRepo:  installmentRepo,
		OutageRepo:       outageRepo,
		PaymentRepo:      paymentRepo,
	}
}
