package handler

import (
	"wager-ledger-analytics/internal/adapter/http/middleware"
	"wager-ledger-analytics/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	PipelineSvc    ports.PipelineService
	ReportingSvc   ports.ReportingService
	TokenSvc       ports.TokenService
	AdminKey       string
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.TokenSvc, deps.AdminKey)
	auth := v1.Group("/auth")
	{
		auth.POST("/token", authHandler.Token)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	reportHandler := NewReportHandler(deps.ReportingSvc)

	reports := v1.Group("/reports", jwtAuth)
	{
		reports.GET("/summary", reportHandler.GetSummary)
		reports.GET("/customers", reportHandler.GetCustomers)
		reports.GET("/countries", reportHandler.GetCountries)
	}

	if deps.PipelineSvc != nil {
		runHandler := NewRunHandler(deps.PipelineSvc)
		runs := v1.Group("/runs", jwtAuth)
		{
			runs.POST("", runHandler.Run)
		}
	}

	return r
}
