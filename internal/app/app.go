package app

import (
	"context"
	"net/http"
	"time"

	"go-employee-gateway/internal/config"
	"go-employee-gateway/internal/employee"
	"go-employee-gateway/internal/middleware"
	"go-employee-gateway/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const serviceName = "employee-gateway"

const (
	kafkaConnectRetries  = 5
	kafkaConnectInterval = 2 * time.Second
)

// BuildApp wires infrastructure and routes onto router. The returned cleanup
// releases whatever was opened and must be called on shutdown.
func BuildApp(
	ctx context.Context,
	router *gin.Engine,
	cfg *config.AppConfig,
	logger *zap.Logger,
) (func(), error) {
	log := logger.Named("app")
	cleanup := func() {}

	// 1. Setup Infrastructure
	var publisher employee.EventPublisher
	if cfg.Kafka.Broker != "" {
		writer, err := connection.ConnectKafkaWithRetry(
			ctx,
			cfg.Kafka.Broker,
			kafkaConnectRetries,
			kafkaConnectInterval,
			logger,
		)
		if err != nil {
			return cleanup, err
		}
		cleanup = func() {
			if err := writer.Close(); err != nil {
				log.Error("close kafka writer failed", zap.Error(err))
			}
		}
		publisher = employee.NewKafkaEventPublisher(writer, cfg.Kafka.Topic)
		log.Info("employee lifecycle events enabled", zap.String("topic", cfg.Kafka.Topic))
	} else {
		log.Info("KAFKA_BROKER not set, employee lifecycle events disabled")
	}

	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.RequestID())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 2. Register Modules & Routes
	registerModules(router, cfg, publisher, logger)

	return cleanup, nil
}
