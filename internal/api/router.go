package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/zandres28/imvcrm/internal/api/v1"
	"github.com/zandres28/imvcrm/internal/rest/middleware"
)

type Handlers struct {
	Health       *v1.HealthHandler
	Client       *v1.ClientHandler
	Plan         *v1.PlanHandler
	Installation *v1.InstallationHandler
	Outage       *v1.OutageHandler
	Billing      *v1.BillingHandler
	Payment      *v1.PaymentHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	clients := router.Group("/clients")
	{
		clients.POST("", handlers.Client.CreateClient)
		clients.GET("", handlers.Client.ListClients)
		clients.GET("/:id", handlers.Client.GetClient)
		clients.PUT("/:id", handlers.Client.UpdateClient)
		clients.POST("/:id/services", handlers.Client.AddAdditionalService)
		clients.GET("/:id/services", handlers.Client.ListAdditionalServices)
		clients.POST("/:id/installments", handlers.Client.CreateInstallmentPlan)
		clients.GET("/:id/installments", handlers.Client.ListInstallments)
	}

	services := router.Group("/services")
	{
		services.POST("/:service_id/cancel", handlers.Client.CancelAdditionalService)
	}

	plans := router.Group("/plans")
	{
		plans.POST("", handlers.Plan.CreatePlan)
		plans.GET("", handlers.Plan.ListPlans)
		plans.GET("/:id", handlers.Plan.GetPlan)
		plans.PUT("/:id", handlers.Plan.UpdatePlan)
	}

	installations := router.Group("/installations")
	{
		installations.POST("", handlers.Installation.CreateInstallation)
		installations.GET("", handlers.Installation.ListInstallations)
		installations.GET("/:id", handlers.Installation.GetInstallation)
		installations.PUT("/:id", handlers.Installation.UpdateInstallation)
		installations.POST("/:id/suspend", handlers.Installation.SuspendInstallation)
		installations.POST("/:id/resume", handlers.Installation.ResumeInstallation)
		installations.POST("/:id/cancel", handlers.Installation.CancelInstallation)
		installations.GET("/:id/pending-discount", handlers.Outage.GetPendingDiscount)
	}

	outages := router.Group("/outages")
	{
		outages.POST("", handlers.Outage.CreateOutage)
		outages.GET("", handlers.Outage.ListOutages)
		outages.GET("/:id", handlers.Outage.GetOutage)
		outages.PUT("/:id", handlers.Outage.UpdateOutage)
		outages.POST("/:id/cancel", handlers.Outage.CancelOutage)
	}

	billing := router.Group("/billing")
	{
		billing.POST("/statements", handlers.Billing.GenerateStatement)
		billing.POST("/statements/installation", handlers.Billing.GenerateInstallationStatement)
		billing.POST("/statements/run", handlers.Billing.GenerateMonthlyStatements)
	}

	payments := router.Group("/payments")
	{
		payments.GET("", handlers.Payment.ListPayments)
		payments.GET("/:id", handlers.Payment.GetPayment)
		payments.POST("/:id/register", handlers.Payment.RegisterPayment)
		payments.POST("/mark-overdue", handlers.Payment.MarkOverduePayments)
	}
}
