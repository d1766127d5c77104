package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// OrderStatusEvent is emitted after an order status change is committed.
type OrderStatusEvent struct {
	OrderID        int64             `json:"orderId"`
	UserID         int64             `json:"userId"`
	PreviousStatus model.OrderStatus `json:"previousStatus"`
	NewStatus      model.OrderStatus `json:"newStatus"`
	ActorRole      model.Role        `json:"actorRole"`
	Note           string            `json:"note,omitempty"`
	OccurredAt     time.Time         `json:"occurredAt"`
}

// NewOrderStatusEvent builds an event from the committed audit row.
func NewOrderStatusEvent(order *model.Order, entry model.StatusHistoryEntry) OrderStatusEvent {
	event := OrderStatusEvent{
		OrderID:    order.ID,
		UserID:     order.UserID,
		NewStatus:  entry.NewStatus,
		ActorRole:  entry.CreatedByRole,
		Note:       entry.Note,
		OccurredAt: entry.CreatedAt,
	}
	if entry.PreviousStatus != nil {
		event.PreviousStatus = *entry.PreviousStatus
	}
	return event
}

// Publisher delivers order events to downstream consumers.
type Publisher interface {
	PublishOrderStatus(ctx context.Context, event OrderStatusEvent) error
}

// NopPublisher drops events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderStatus(context.Context, OrderStatusEvent) error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// publishTimeout bounds a single synchronous event write.
const publishTimeout = 2 * time.Second

// KafkaPublisher writes events as JSON messages keyed by order id.
type KafkaPublisher struct {
	writer  messageWriter
	logger  *slog.Logger
	timeout time.Duration
}

// NewKafkaWriter creates a writer acknowledged by the partition leader only.
// Every event is flushed on its own instead of waiting for a batch to fill.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  3,
		WriteTimeout: publishTimeout,
	}
}

// NewKafkaPublisher wraps writer.
func NewKafkaPublisher(writer messageWriter, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, logger: logger, timeout: publishTimeout}
}

// PublishOrderStatus serializes and writes the event, giving up after the publish timeout.
func (p *KafkaPublisher) PublishOrderStatus(ctx context.Context, event OrderStatusEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID, 10)),
		Value: value,
		Time:  event.OccurredAt,
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write order event: %w", err)
	}
	p.logger.Debug("order event published",
		slog.Int64("order_id", event.OrderID),
		slog.String("status", string(event.NewStatus)),
	)
	return nil
}

// Close flushes pending messages.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
