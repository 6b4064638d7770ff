package connection

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// dialBroker checks that the broker accepts connections.
var dialBroker = func(ctx context.Context, addr string) error {
	conn, err := kafka.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return conn.Close()
}

// ConnectKafkaWithRetry waits for the broker to come up and returns a writer
// for it. Messages carry their own topic, so the writer has none.
func ConnectKafkaWithRetry(
	ctx context.Context,
	broker string,
	maxRetries int,
	interval time.Duration,
	logger *zap.Logger,
) (*kafka.Writer, error) {
	if logger == nil {
		logger = zap.L()
	}
	log := logger.Named("connection.kafka")

	if maxRetries < 1 {
		maxRetries = 1
	}

	attempt := 0
	op := func() error {
		attempt++
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := dialBroker(dialCtx, broker); err != nil {
			log.Warn("kafka dial failed",
				zap.String("broker", broker),
				zap.Int("attempt", attempt),
				zap.Int("max_retries", maxRetries),
				zap.Error(err),
			)
			return err
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(maxRetries-1)),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, fmt.Errorf("kafka connection failed after %d attempts: %w", attempt, err)
	}

	log.Info("connected to kafka", zap.String("broker", broker))
	return &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}, nil
}
