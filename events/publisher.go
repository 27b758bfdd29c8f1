package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yashrajoria/storefront-service/models"
	aws_pkg "github.com/yashrajoria/storefront-service/pkg/aws"
	"go.uber.org/zap"
)

// EventTypeOrderPlaced is the event_type of OrderPlacedEvent.
const EventTypeOrderPlaced = "order_placed"

// MessageProducer is satisfied by KafkaProducer.
type MessageProducer interface {
	Publish(ctx context.Context, key, value []byte) error
}

// OrderPublisher fans order events out to Kafka and SNS. Either sink may be
// nil; a nil sink is skipped.
type OrderPublisher struct {
	producer    MessageProducer
	snsClient   aws_pkg.SNSPublisher
	snsTopicArn string
	logger      *zap.Logger
}

func NewOrderPublisher(producer MessageProducer, snsClient aws_pkg.SNSPublisher, snsTopicArn string, logger *zap.Logger) *OrderPublisher {
	return &OrderPublisher{
		producer:    producer,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		logger:      logger,
	}
}

// PublishOrderPlaced sends evt to every configured sink. Every sink is
// attempted; the returned error joins the individual failures.
func (p *OrderPublisher) PublishOrderPlaced(ctx context.Context, evt *models.OrderPlacedEvent) error {
	if evt.EventType == "" {
		evt.EventType = EventTypeOrderPlaced
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", evt.EventType, err)
	}

	var errs []error

	if p.producer != nil {
		if err := p.producer.Publish(ctx, []byte(evt.OrderID), payload); err != nil {
			errs = append(errs, fmt.Errorf("kafka: %w", err))
		} else {
			p.logger.Info("Published order event to Kafka", zap.String("order_id", evt.OrderID))
		}
	}

	if p.snsClient != nil && p.snsTopicArn != "" {
		attrs := map[string]string{"event_type": evt.EventType}
		if err := p.snsClient.Publish(ctx, p.snsTopicArn, payload, attrs); err != nil {
			errs = append(errs, fmt.Errorf("sns: %w", err))
		} else {
			p.logger.Info("Published order event to SNS", zap.String("order_id", evt.OrderID))
		}
	}

	return errors.Join(errs...)
}
