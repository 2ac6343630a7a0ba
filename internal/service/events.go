package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"coffee-shop/internal/entity"
	"coffee-shop/internal/sharding"

	"github.com/segmentio/kafka-go"
)

const (
	OrderEventCreated   = "created"
	OrderEventUpdated   = "updated"
	OrderEventCancelled = "cancelled"
)

// EventPublisher announces order lifecycle changes to other services.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, order *entity.Order, kind string) error
}

// KafkaPublisher writes order events as JSON to a Kafka topic.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, order *entity.Order, kind string) error {
	msg, err := orderEventMessage(order, kind)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

// order.created.12, order.updated.12 or order.cancelled.12
func orderEventMessage(order *entity.Order, kind string) (kafka.Message, error) {
	payload, err := json.Marshal(entity.OrderEvent{Type: kind, Order: *order})
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(fmt.Sprintf("order.%s.%d", kind, order.ID)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: sharding.CustomerIDHeader, Value: []byte(strconv.FormatUint(uint64(order.CustomerID), 10))},
		},
	}, nil
}
