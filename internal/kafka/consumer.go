package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"storefront-service/internal/config"
)

// Invalidator is the slice of the inventory service the consumer needs.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Consumer listens for inventory-change events published by the POS
// integration and invalidates the snapshot so the next read refreshes
// instead of waiting out the TTL. Optional; the TTL alone is sufficient
// for correctness.
type Consumer struct {
	consumerGroup sarama.ConsumerGroup
	invalidator   Invalidator
	logger        *zap.Logger
	topics        []string
}

// NewConsumer creates a new Kafka consumer for snapshot invalidation
func NewConsumer(cfg *config.Config, invalidator Invalidator, logger *zap.Logger) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Version = sarama.V2_8_0_0
	saramaConfig.Net.DialTimeout = 10 * time.Second
	saramaConfig.Net.ReadTimeout = 10 * time.Second
	saramaConfig.Net.WriteTimeout = 10 * time.Second

	consumerGroup, err := sarama.NewConsumerGroup(cfg.KafkaBrokers, cfg.KafkaGroupID, saramaConfig)
	if err != nil {
		logger.Error("Failed to create Kafka consumer group",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	logger.Info("Kafka consumer group created",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("group_id", cfg.KafkaGroupID),
		zap.String("topic", cfg.KafkaTopicInventory),
	)

	return &Consumer{
		consumerGroup: consumerGroup,
		invalidator:   invalidator,
		logger:        logger,
		topics:        []string{cfg.KafkaTopicInventory},
	}, nil
}

// Start consumes until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	handler := &invalidationHandler{
		invalidator: c.invalidator,
		logger:      c.logger,
	}

	go func() {
		for {
			if err := c.consumerGroup.Consume(ctx, c.topics, handler); err != nil {
				c.logger.Error("Error from consumer", zap.Error(err))
				return
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	go func() {
		for err := range c.consumerGroup.Errors() {
			c.logger.Error("Consumer error", zap.Error(err))
		}
	}()
}

// Close closes the consumer group
func (c *Consumer) Close() error {
	return c.consumerGroup.Close()
}

// invalidationHandler implements sarama.ConsumerGroupHandler. The message
// payload is irrelevant: any inventory event means the cached catalog may
// be out of date.
type invalidationHandler struct {
	invalidator Invalidator
	logger      *zap.Logger
}

func (h *invalidationHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *invalidationHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *invalidationHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		h.logger.Debug("Inventory event received",
			zap.String("topic", message.Topic),
			zap.Int32("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		h.invalidator.Invalidate(session.Context())
		session.MarkMessage(message, "")
	}
	return nil
}
