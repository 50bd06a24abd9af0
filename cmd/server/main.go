package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Psychotichub/panel/internal/handler"
	"github.com/Psychotichub/panel/internal/identity"
	"github.com/Psychotichub/panel/internal/middleware"
	"github.com/Psychotichub/panel/internal/tenant"
	"github.com/Psychotichub/panel/pkg/config"
	"github.com/Psychotichub/panel/pkg/database"
	"github.com/Psychotichub/panel/pkg/hash"
	"github.com/Psychotichub/panel/pkg/jwtutil"
	"github.com/Psychotichub/panel/pkg/logger"
	"github.com/Psychotichub/panel/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting panel service...", zap.String("environment", cfg.Server.Env))

	// Initialize database. An unreachable store at bootstrap is fatal:
	// no tenant can be resolved without it.
	if err := database.Initialize(&cfg.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Tenant registry and identity store
	registry := tenant.NewRegistry(database.GetDB(), cfg.Tenant, log)
	identityStore := identity.NewStore(database.GetDB(), hash.NewBcrypt(), log)

	// Handlers
	authHandler := handler.NewAuthHandler(identityStore)
	panelHandler := handler.NewPanelHandler(registry)
	materialHandler := handler.NewMaterialHandler(registry)
	reportHandler := handler.NewReportHandler(registry)
	priceHandler := handler.NewPriceHandler(registry)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	api.POST("/change-password", authHandler.ChangePassword)

	// Account registration inside the caller's tenant (admin only)
	api.POST("/register", authHandler.Register, middleware.RequireTenantContext, middleware.RequireAdmin)

	// Tenant-scoped routes - the caller's token must carry site/company
	user := api.Group("/user", middleware.RequireTenantContext)

	user.GET("/panels", panelHandler.List)
	user.GET("/panels/search/:panelName", panelHandler.Search)
	user.GET("/panels/exists/:panelName", panelHandler.Exists)
	user.POST("/panels", panelHandler.Create, middleware.RequireAdmin)
	user.PUT("/panels", panelHandler.Update, middleware.RequireAdmin)
	user.DELETE("/panels/:panelName", panelHandler.Delete, middleware.RequireAdmin)

	user.GET("/materials", materialHandler.List)
	user.POST("/materials", materialHandler.Create, middleware.RequireAdmin)
	user.DELETE("/materials/:materialName", materialHandler.Delete, middleware.RequireAdmin)

	user.GET("/daily-reports", reportHandler.ListByDate)
	user.POST("/daily-reports", reportHandler.Create)
	user.DELETE("/daily-reports/:id", reportHandler.Delete)

	user.GET("/total-prices", priceHandler.ListRange, middleware.RequireAdmin)
	user.POST("/total-prices", priceHandler.Save, middleware.RequireAdmin)

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
