package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/itemshare/service-sharing/internal/application"
	"github.com/itemshare/service-sharing/internal/domain"
	"github.com/itemshare/service-sharing/internal/events"
	"github.com/itemshare/service-sharing/internal/kafka"
)

// CancelCommandConsumer listens on the booking commands topic and cancels
// bookings on behalf of the rest of the platform. This is the only path that
// moves a booking to CANCELED.
type CancelCommandConsumer struct {
	consumer *kafka.Consumer
	service  *application.BookingService
	logger   *zap.Logger
}

// NewCancelCommandConsumer creates a new CancelCommandConsumer.
func NewCancelCommandConsumer(
	brokers []string,
	groupID string,
	service *application.BookingService,
	logger *zap.Logger,
) *CancelCommandConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, events.TopicBookingCommands, logger)
	return &CancelCommandConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming commands. This blocks until the context is cancelled.
func (c *CancelCommandConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *CancelCommandConsumer) Close() error {
	return c.consumer.Close()
}

func (c *CancelCommandConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from commands topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case events.BookingCancelRequested:
		return c.handleCancelRequested(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled command type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *CancelCommandConsumer) handleCancelRequested(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var cmd events.CancelBookingCommand
	if err := cloudEvent.ParseData(&cmd); err != nil {
		c.logger.Error("failed to parse CancelBookingCommand data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing booking cancel command",
		zap.Int64("booking_id", cmd.BookingID),
	)

	if _, err := c.service.CancelBooking(ctx, cmd.BookingID, cmd.Reason); err != nil {
		// Business-rule rejections (already decided, unknown id) are final;
		// committing them avoids a redelivery loop.
		if domain.IsNotFound(err) {
			c.logger.Warn("cancel command for unknown booking",
				zap.Int64("booking_id", cmd.BookingID),
			)
			return nil
		}
		if code := domain.CodeOf(err); code != "" {
			c.logger.Warn("cancel command rejected",
				zap.Int64("booking_id", cmd.BookingID),
				zap.String("code", code),
				zap.Error(err),
			)
			return nil
		}
		return err
	}
	return nil
}
