package ledger

import (
	"context"
	"time"

	"seatlock-coordinator/internal/pkg/config"
	"seatlock-coordinator/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher delivers conversion events to the broker the external booking
// ledger consumes from.
type Publisher interface {
	Publish(ctx context.Context, topic string, body []byte) error
}

type AMQPPublisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewAMQPPublisher(cfg config.BrokerConfig) (*AMQPPublisher, func(), error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to dial broker")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "failed to open channel")
	}

	// Durable so queued conversions survive broker restarts.
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, errs.Wrap(err, "failed to declare queue")
	}

	cleanup := func() {
		_ = ch.Close()
		_ = conn.Close()
	}
	return &AMQPPublisher{conn: conn, ch: ch, queue: cfg.Queue}, cleanup, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, topic string, body []byte) error {
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         topic,
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return errs.Wrap(err, "failed to publish conversion event")
	}
	return nil
}
