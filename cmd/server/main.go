package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zandres28/imvcrm/internal/api"
	v1 "github.com/zandres28/imvcrm/internal/api/v1"
	"github.com/zandres28/imvcrm/internal/cache"
	"github.com/zandres28/imvcrm/internal/clock"
	"github.com/zandres28/imvcrm/internal/config"
	"github.com/zandres28/imvcrm/internal/logger"
	"github.com/zandres28/imvcrm/internal/postgres"
	"github.com/zandres28/imvcrm/internal/repository"
	"github.com/zandres28/imvcrm/internal/service"
	"github.com/zandres28/imvcrm/internal/types"
	"github.com/zandres28/imvcrm/internal/validator"
	"go.uber.org/fx"
)

func init() {
	// All billing day arithmetic happens in UTC
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			validator.NewValidator,
			config.NewConfig,
			logger.NewLogger,
			cache.New,
			clock.New,

			postgres.NewDB,
			provideDBClient,

			repository.NewClientRepository,
			repository.NewPlanRepository,
			repository.NewInstallationRepository,
			repository.NewAdditionalServiceRepository,
			repository.NewInstallmentRepository,
			repository.NewOutageRepository,
			repository.NewPaymentRepository,

			service.NewServiceParams,
			service.NewClientService,
			service.NewPlanService,
			service.NewInstallationService,
			service.NewOutageService,
			service.NewBillingService,
			service.NewPaymentService,

			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideDBClient(db *postgres.DB) postgres.IClient {
	return db
}

func provideHandlers(
	logger *logger.Logger,
	clientService service.ClientService,
	planService service.PlanService,
	installationService service.InstallationService,
	outageService service.OutageService,
	billingService service.BillingService,
	paymentService service.PaymentService,
) api.Handlers {
	return api.Handlers{
		Health:       v1.NewHealthHandler(),
		Client:       v1.NewClientHandler(clientService, logger),
		Plan:         v1.NewPlanHandler(planService, logger),
		Installation: v1.NewInstallationHandler(installationService, billingService, logger),
		Outage:       v1.NewOutageHandler(outageService, logger),
		Billing:      v1.NewBillingHandler(billingService, logger),
		Payment:      v1.NewPaymentHandler(paymentService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration) *gin.Engine {
	if cfg.Deployment.Mode == types.ModeProd {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(handlers)
}

func startServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	db *postgres.DB,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			db.Close()
			return nil
		},
	})
}
