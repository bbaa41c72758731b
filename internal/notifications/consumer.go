package notifications

import (
	"context"
	"fmt"
	"time"

	"darshan/pkg/logger"

	"github.com/IBM/sarama"
)

// Consumer drains the notification topic and delivers emails
type Consumer interface {
	Start(ctx context.Context) error
	Stop() error
}

// ConsumerConfig contains configuration for the Kafka consumer group
type ConsumerConfig struct {
	Brokers        []string
	GroupID        string
	Topics         []string
	SessionTimeout time.Duration
	Heartbeat      time.Duration
	OffsetOldest   bool
}

// DefaultConsumerConfig returns a default consumer configuration
func DefaultConsumerConfig(brokers []string, groupID, topic string) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topics:         []string{topic},
		SessionTimeout: 30 * time.Second,
		Heartbeat:      3 * time.Second,
		OffsetOldest:   false,
	}
}

type kafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	emailService  EmailService
	cancel        context.CancelFunc
	log           *logger.Logger
}

// NewKafkaConsumer creates a Kafka notification consumer
func NewKafkaConsumer(config *ConsumerConfig, emailService EmailService) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = config.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = config.Heartbeat
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second
	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &kafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		emailService:  emailService,
		log:           logger.GetDefault(),
	}, nil
}

func (c *kafkaConsumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		for err := range c.consumerGroup.Errors() {
			c.log.ErrorWithContext(ctx, "Notification consumer error", err, nil)
		}
	}()

	go func() {
		handler := &groupHandler{consumer: c}
		for {
			// Consume returns on rebalance; loop until cancelled
			if err := c.consumerGroup.Consume(ctx, c.config.Topics, handler); err != nil {
				c.log.ErrorWithContext(ctx, "Notification consume loop failed", err, nil)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	c.log.InfoWithContext(ctx, "Notification consumer started", map[string]interface{}{
		"group":  c.config.GroupID,
		"topics": c.config.Topics,
	})
	return nil
}

func (c *kafkaConsumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	return c.consumerGroup.Close()
}

type groupHandler struct {
	consumer *kafkaConsumer
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		h.handleMessage(session.Context(), message)
		session.MarkMessage(message, "")
	}
	return nil
}

func (h *groupHandler) handleMessage(ctx context.Context, message *sarama.ConsumerMessage) {
	notification, err := FromJSON(message.Value)
	if err != nil {
		h.consumer.log.ErrorWithContext(ctx, "Dropping malformed notification", err,
			map[string]interface{}{"offset": message.Offset})
		return
	}

	// Only email delivery is wired; a mobile-only contact has no address
	// to send to
	if notification.Channel != "EMAIL" {
		notification.Status = NotificationStatusSkipped
		return
	}

	if err := h.consumer.emailService.SendNotification(ctx, notification); err != nil {
		notification.Status = NotificationStatusFailed
		notification.LastError = err.Error()
		h.consumer.log.ErrorWithContext(ctx, "Notification delivery failed", err,
			map[string]interface{}{"booking_ref": notification.BookingRef})
		return
	}

	notification.Status = NotificationStatusSent
	h.consumer.log.InfoWithContext(ctx, "Notification delivered", map[string]interface{}{
		"booking_ref": notification.BookingRef,
		"type":        string(notification.Type),
	})
}
