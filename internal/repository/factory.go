package repository

import (
	"github.com/zandres28/imvcrm/internal/cache"
	"github.com/zandres28/imvcrm/internal/domain/addonservice"
	"github.com/zandres28/imvcrm/internal/domain/client"
	"github.com/zandres28/imvcrm/internal/domain/installation"
	"github.com/zandres28/imvcrm/internal/domain/installment"
	"github.com/zandres28/imvcrm/internal/domain/outage"
	"github.com/zandres28/imvcrm/internal/domain/payment"
	"github.com/zandres28/imvcrm/internal/domain/plan"
	"github.com/zandres28/imvcrm/internal/logger"
	"github.com/zandres28/imvcrm/internal/postgres"
	pgrepo "github.com/zandres28/imvcrm/internal/repository/postgres"
)

// Constructors for the persistence layer. Everything runs on postgres today;
// keeping the indirection lets tests swap in the in-memory stores without
// touching service wiring.

func NewClientRepository(db *postgres.DB, log *logger.Logger) client.Repository {
	return pgrepo.NewClientRepository(db, log)
}

func NewPlanRepository(db *postgres.DB, log *logger.Logger, cache *cache.Cache) plan.Repository {
	return pgrepo.NewPlanRepository(db, log, cache)
}

func NewInstallationRepository(db *postgres.DB, log *logger.Logger) installation.Repository {
	return pgrepo.NewInstallationRepository(db, log)
}

func NewAdditionalServiceRepository(db *postgres.DB, log *logger.Logger) addonservice.Repository {
	return pgrepo.NewAdditionalServiceRepository(db, log)
}

func NewInstallmentRepository(db *postgres.DB, log *logger.Logger) installment.Repository {
	return pgrepo.NewInstallmentRepository(db, log)
}

func NewOutageRepository(db *postgres.DB, log *logger.Logger) outage.Repository {
	return pgrepo.NewOutageRepository(db, log)
}

func NewPaymentRepository(db *postgres.DB, log *logger.Logger) payment.Repository {
	return pgrepo.NewPaymentRepository(db, log)
}
