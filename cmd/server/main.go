package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"tickops/internal/access"
	"tickops/internal/credential"
	"tickops/internal/entitlement"
	"tickops/internal/handler"
	"tickops/internal/middleware"
	"tickops/internal/session"
	"tickops/internal/tenancy"
	"tickops/pkg/config"
	"tickops/pkg/database"
	"tickops/pkg/logger"
	"tickops/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting tickops...", cfg.LogConfig()...)

	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	prometheus.InitMetrics()

	// Core wiring: stores, services, resolver
	db := database.GetDB()
	sessions := session.NewManager(session.NewGormStore(db), cfg.Session.Lifetime)
	directory := tenancy.NewDirectory(tenancy.NewGormStore(db))
	entitlements := entitlement.NewStore(entitlement.NewGormRepo(db))
	auth := credential.NewAuthenticator(credential.NewGormStore(db), sessions, cfg.Session.BcryptCost)
	resolver := access.NewResolver(sessions, directory)

	h := handler.New(cfg, auth, sessions, directory, entitlements, resolver)
	accessMW := middleware.NewAccessMiddleware(resolver, cfg)

	e := echo.New()
	e.HideBanner = true

	// Global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes
	e.GET("/health", h.HealthCheck)
	e.GET("/health/db", h.HealthDB)
	e.GET("/metrics", h.Metrics)

	auth_ := e.Group("/auth")
	auth_.POST("/login", h.Login)
	auth_.POST("/logout", h.Logout)

	// Protected routes: resolve the access context once, then layer
	// requirements per group.
	api := e.Group("")
	api.Use(accessMW.Resolve)
	api.Use(middleware.RequireAuthenticated)

	api.GET("/me", h.WhoAmI)
	api.POST("/me/change-password", h.ChangePassword)
	api.GET("/workspaces", h.ListMemberships)
	api.POST("/workspaces/select", h.SelectWorkspace)

	// Tenant-scoped operations require a selected workspace.
	scoped := e.Group("/modules")
	scoped.Use(accessMW.Resolve)
	scoped.Use(middleware.RequireSelected)
	scoped.GET("", h.ListModules)
	scoped.GET("/:key", h.OpenModule)

	// Admin provisioning requires the SUPER_ADMIN global role.
	admin := e.Group("/admin")
	admin.Use(accessMW.Resolve)
	admin.Use(middleware.RequireSuperAdmin)
	admin.GET("/workspaces", h.AdminListWorkspaces)
	admin.POST("/workspaces", h.AdminCreateWorkspace)
	admin.GET("/users", h.AdminListUsers)
	admin.POST("/users", h.AdminCreateUser)
	admin.POST("/modules", h.AdminSetModule)

	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
