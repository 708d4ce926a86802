// Package router wires repositories, services, handlers and middleware
// into the gin engine. This is the composition root of the API.
package router

import (
	"sproutplan/internal/config"
	"sproutplan/internal/forecast"
	"sproutplan/internal/handler"
	"sproutplan/internal/infra"
	"sproutplan/internal/middleware"
	"sproutplan/internal/repository"
	"sproutplan/internal/service"
	"sproutplan/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

const (
	roleOperator = "operator"
	roleManager  = "manager"
	roleAdmin    = "admin"
)

func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) (*gin.Engine, *worker.WorkerHandlers) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewSalesOrderRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	forecastRepo := repository.NewForecastRepository(db)
	adjustmentRepo := repository.NewAdjustmentRepository(db)
	suggestionRepo := repository.NewSuggestionRepository(db)
	seedBatchRepo := repository.NewSeedBatchRepository(db)
	lotRepo := repository.NewLotRepository(db)
	capacityRepo := repository.NewCapacityRepository(db)
	accuracyRepo := repository.NewAccuracyRepository(db)

	// Background job dispatcher (recompute + ops notifications)
	dispatcher := worker.NewDispatcher(rdb)

	// Forecast strategy stack: seasonal trend primary, weekday average
	// fallback for short histories or singular fits.
	selector := forecast.NewSelector(
		forecast.NewSeasonalTrend(),
		forecast.NewWeekdayAverage(cfg.ForecastMarginPct),
		cfg.ForecastMinPoints,
	)

	// Services. The scheduler doubles as the suggestion refresher for the
	// adjustment service, so it is built first.
	forecastSvc := service.NewForecastService(
		orderRepo, subscriptionRepo, forecastRepo, productRepo,
		adjustmentRepo, suggestionRepo, selector, cfg.ForecastLookbackDays,
	)
	schedulerSvc := service.NewSchedulerService(
		forecastRepo, productRepo, suggestionRepo, capacityRepo, cfg.CapacityResourceKind,
	)
	adjustmentSvc := service.NewAdjustmentService(forecastRepo, adjustmentRepo, schedulerSvc, dispatcher)
	approvalSvc := service.NewApprovalService(
		suggestionRepo, productRepo, seedBatchRepo, lotRepo, capacityRepo,
		cfg.CapacityResourceKind, dispatcher,
	)
	accuracySvc := service.NewAccuracyService(forecastRepo, orderRepo, accuracyRepo)
	authSvc := service.NewAuthService(userRepo, cfg)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	forecastHandler := handler.NewForecastHandler(forecastSvc)
	adjustmentHandler := handler.NewAdjustmentHandler(adjustmentSvc)
	suggestionHandler := handler.NewSuggestionHandler(schedulerSvc, approvalSvc)
	accuracyHandler := handler.NewAccuracyHandler(accuracySvc)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())

	r.GET("/health", handler.Health(db, rdb))

	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	authed := v1.Group("")
	authed.Use(middleware.JWTAuth(cfg.JWTSecret))

	anyRole := middleware.RequireRole(roleOperator, roleManager, roleAdmin)
	managerUp := middleware.RequireRole(roleManager, roleAdmin)

	forecasts := authed.Group("/forecasts")
	{
		forecasts.POST("/generate", anyRole, forecastHandler.Generate)
		forecasts.GET("", anyRole, forecastHandler.List)
		forecasts.GET("/:id", anyRole, forecastHandler.Detail)
		forecasts.POST("/:id/adjustments", anyRole, adjustmentHandler.Add)
	}

	adjustments := authed.Group("/adjustments")
	{
		adjustments.POST("/:id/revert", anyRole, adjustmentHandler.Revert)
	}

	suggestions := authed.Group("/suggestions")
	{
		suggestions.POST("/generate", anyRole, suggestionHandler.Generate)
		suggestions.GET("", anyRole, suggestionHandler.List)
		suggestions.POST("/:id/approve", managerUp, suggestionHandler.Approve)
		suggestions.POST("/:id/reject", managerUp, suggestionHandler.Reject)
	}

	accuracy := authed.Group("/accuracy")
	{
		accuracy.POST("/evaluate", anyRole, accuracyHandler.Evaluate)
		accuracy.GET("", anyRole, accuracyHandler.List)
	}

	handlers := &worker.WorkerHandlers{
		Recompute: worker.NewRecomputeWorker(adjustmentSvc),
		Notify:    worker.NewNotifyWorker(mailer),
	}
	return r, handlers
}
