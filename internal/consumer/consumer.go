package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"coffee-shop/internal/entity"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// StockApplier applies an order event to inventory.
type StockApplier interface {
	ApplyOrderEvent(ctx context.Context, event entity.OrderEvent) error
}

// MessageReader is the part of *kafka.Reader the consumer needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	reader MessageReader
	stock  StockApplier
}

func NewConsumer(reader MessageReader, stock StockApplier) *Consumer {
	return &Consumer{reader: reader, stock: stock}
}

// StartKafkaConsumer reads order events until ctx is cancelled.
func (c *Consumer) StartKafkaConsumer(ctx context.Context) {
	defer func() {
		if err := c.reader.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing Kafka reader")
		}
	}()

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				logger.Info().Msg("Stock consumer stopped")
				return
			}
			logger.Error().Err(err).Msg("Error reading message")
			continue
		}
		c.processMessage(ctx, msg)
	}
}

// processMessage handles one message keyed "order.<kind>.<id>".
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	parts := strings.Split(string(msg.Key), ".")
	if len(parts) != 3 || parts[0] != "order" {
		logger.Warn().Msgf("Skipping message with unexpected key %q", string(msg.Key))
		return
	}

	var event entity.OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Error().Err(err).Msgf("Error unmarshalling message %s", string(msg.Key))
		return
	}
	event.Type = parts[1]

	if err := c.stock.ApplyOrderEvent(ctx, event); err != nil {
		logger.Error().Err(err).Msgf("Error applying %s to stock", string(msg.Key))
	}
}
