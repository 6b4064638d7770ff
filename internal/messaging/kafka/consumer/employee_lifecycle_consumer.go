package consumer

import (
	"context"
	"encoding/json"
	"strings"

	"go-employee-gateway/internal/bootstrap"
	"go-employee-gateway/internal/events"
	"go-employee-gateway/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeEmployeeLifecycle turns lifecycle events into audit entries until
// ctx is done. Undecodable messages are committed and skipped.
func ConsumeEmployeeLifecycle(
	ctx context.Context,
	reader MessageReader,
	auditLogger bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.employee_lifecycle")
	log.Info("employee lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("employee lifecycle consumer stopped")
				return
			}
			log.Error("fetch employee lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.EmployeeLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode employee lifecycle event failed",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		eventCtx := contextutil.WithRequestID(ctx, event.RequestID)
		auditLogger.Log(eventCtx, bootstrap.AuditLog{
			Action:  strings.ToUpper(event.EventType),
			Message: "employee " + strings.TrimPrefix(event.EventType, "employee_"),
			Meta: map[string]any{
				"employee_id":   event.EmployeeID,
				"employee_name": event.EmployeeName,
				"occurred_at":   event.OccurredAt,
				"partition":     msg.Partition,
				"offset":        msg.Offset,
			},
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit employee lifecycle message failed", zap.Error(err))
			continue
		}

		log.Debug("employee lifecycle event audited",
			zap.String("event_type", event.EventType),
			zap.String("employee_id", event.EmployeeID),
		)
	}
}
