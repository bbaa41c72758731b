package notifications

import (
	"context"

	"darshan/internal/booking"
	"darshan/internal/shared/config"
	"darshan/pkg/logger"
)

// Service owns the notification pipeline: it implements booking.Notifier on
// the producing side and runs the consuming side when started.
type Service struct {
	producer Producer
	consumer Consumer
	log      *logger.Logger
}

var _ booking.Notifier = (*Service)(nil)

// NewService wires the pipeline from configuration. Returns nil without
// error when the pipeline is disabled; callers treat a nil service as
// "notifications off".
func NewService(cfg *config.Config) (*Service, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := NewKafkaProducer(DefaultProducerConfig(cfg.Kafka.Brokers, cfg.Kafka.Topic))
	if err != nil {
		return nil, err
	}

	svc := &Service{
		producer: producer,
		log:      logger.GetDefault(),
	}

	// The consumer needs a sending backend; without SMTP the service still
	// produces, and another deployment drains the topic
	emailService, err := NewSMTPEmailService(&cfg.Email)
	if err != nil {
		svc.log.InfoWithContext(context.Background(), "Email delivery disabled", map[string]interface{}{
			"reason": err.Error(),
		})
		return svc, nil
	}

	consumer, err := NewKafkaConsumer(
		DefaultConsumerConfig(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic), emailService)
	if err != nil {
		producer.Close()
		return nil, err
	}
	svc.consumer = consumer

	return svc, nil
}

// NotifyBookingHandoff queues the post-handoff message for one booking
func (s *Service) NotifyBookingHandoff(ctx context.Context, record *booking.HandoffRecord) error {
	notification := NewBookingHandoffNotification(
		record.Contact,
		record.Channel,
		record.BookingRef,
		record.PlaceName,
		record.VisitDate,
		record.TicketCount,
		record.TotalAmount,
	)
	return s.producer.Publish(ctx, notification)
}

// Start begins draining the topic, if this deployment consumes
func (s *Service) Start(ctx context.Context) error {
	if s.consumer == nil {
		return nil
	}
	return s.consumer.Start(ctx)
}

// Stop shuts the pipeline down
func (s *Service) Stop() error {
	var firstErr error
	if s.consumer != nil {
		if err := s.consumer.Stop(); err != nil {
			firstErr = err
		}
	}
	if s.producer != nil {
		if err := s.producer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
