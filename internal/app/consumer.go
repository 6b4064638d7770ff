package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"go-employee-gateway/internal/bootstrap"
	"go-employee-gateway/internal/config"
	"go-employee-gateway/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer tails the employee lifecycle topic into the audit log until
// SIGINT or SIGTERM.
func RunConsumer(cfg *config.AppConfig, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	if cfg.Kafka.Broker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          cfg.Kafka.Topic,
		GroupID:        cfg.Kafka.ConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("consumer starting",
		zap.String("broker", cfg.Kafka.Broker),
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group", cfg.Kafka.ConsumerGroup),
	)
	consumer.ConsumeEmployeeLifecycle(ctx, reader, bootstrap.NewStdoutAuditLogger(logger), logger)
	log.Info("consumer shutting down")

	return nil
}
