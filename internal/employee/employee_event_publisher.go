package employee

import (
	"context"
	"encoding/json"
	"go-employee-gateway/internal/events"

	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=employee_event_publisher.go -destination=mock/employee_event_publisher_mock.go -package=mock
type EventPublisher interface {
	Publish(ctx context.Context, event events.EmployeeLifecycleEvent) error
}

type noopEventPublisher struct{}

func (noopEventPublisher) Publish(context.Context, events.EmployeeLifecycleEvent) error {
	return nil
}

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type kafkaEventPublisher struct {
	writer MessageWriter
	topic  string
}

func NewKafkaEventPublisher(writer MessageWriter, topic string) EventPublisher {
	if topic == "" {
		topic = events.EmployeeLifecycleTopic
	}
	return &kafkaEventPublisher{writer: writer, topic: topic}
}

func (p *kafkaEventPublisher) Publish(
	ctx context.Context,
	event events.EmployeeLifecycleEvent,
) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.EmployeeID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte("employee")},
		},
	})
}
