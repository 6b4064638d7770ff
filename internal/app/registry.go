package app

import (
	"go-employee-gateway/internal/config"
	"go-employee-gateway/internal/employee"
	"go-employee-gateway/internal/middleware"
	"go-employee-gateway/internal/resilience"
	"go-employee-gateway/internal/upstream"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func registerModules(
	router *gin.Engine,
	cfg *config.AppConfig,
	publisher employee.EventPublisher,
	logger *zap.Logger,
) {
	// --- Resilience ---
	limiter := resilience.NewLimiter(resilience.RateLimitPolicy{
		LimitForPeriod: cfg.RateLimit.LimitForPeriod,
		RefreshPeriod:  cfg.RateLimit.LimitRefreshPeriod,
		AcquireTimeout: cfg.RateLimit.TimeoutDuration,
	})
	executor := resilience.NewExecutor(
		resilience.RetryPolicy{
			MaxAttempts: cfg.Retry.MaxAttempts,
			InitialWait: cfg.Retry.WaitTime,
			MaxWait:     cfg.Retry.MaxWaitTime,
		},
		limiter,
		resilience.IsTransientStatus,
		logger,
	)

	// --- Clients ---
	employeeClient := upstream.NewClient(upstream.Config{
		BaseURL:        cfg.Upstream.BaseURL,
		ConnectTimeout: cfg.Upstream.ConnectTimeout,
		ReadTimeout:    cfg.Upstream.ReadTimeout,
		WriteTimeout:   cfg.Upstream.WriteTimeout,
	}, executor, logger)

	// --- Services ---
	employeeService := employee.NewServiceWithPublisher(employeeClient, publisher, logger)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, logger)

	// --- Routes Registration ---
	var extra []gin.HandlerFunc
	if cfg.Inbound.RPS > 0 {
		extra = append(extra, middleware.RateLimitByIP(rate.Limit(cfg.Inbound.RPS), cfg.Inbound.Burst))
	}

	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, logger, extra...)
	}
}
