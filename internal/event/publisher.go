// Package event publishes ledger change notifications to RabbitMQ.
// The publisher is optional: a nil *Publisher is a no-op, so callers
// never branch on whether messaging is configured.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"fintrack/internal/core"
)

const publishTimeout = 5 * time.Second

type Publisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
}

func NewPublisher(url, exchange, queue string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p := &Publisher{conn: conn, channel: channel, exchange: exchange, queue: queue}
	if err := p.setup(); err != nil {
		p.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}
	return p, nil
}

func (p *Publisher) setup() error {
	if err := p.channel.ExchangeDeclare(p.exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := p.channel.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := p.channel.QueueBind(p.queue, p.queue, p.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// RecordCreated publishes a record-created event. Publish failures are
// logged, not returned: the record is already committed and the
// request must not fail after the fact.
func (p *Publisher) RecordCreated(ctx context.Context, rec core.Record) {
	if p == nil {
		return
	}
	msg := RecordCreated{
		OwnerID:   rec.OwnerID,
		RecordID:  rec.ID,
		Kind:      string(rec.Kind),
		Timestamp: time.Now(),
	}
	body, err := msg.toJSON()
	if err != nil {
		slog.ErrorContext(ctx, "Marshal record event", "error", err)
		return
	}
	p.publish(ctx, body, "record created", "record_id", rec.ID)
}

// ImportCompleted publishes an import-completed event after the batch
// commit.
func (p *Publisher) ImportCompleted(ctx context.Context, ownerID int64, accepted, rejected int) {
	if p == nil {
		return
	}
	msg := ImportCompleted{
		OwnerID:   ownerID,
		Accepted:  accepted,
		Rejected:  rejected,
		Timestamp: time.Now(),
	}
	body, err := msg.toJSON()
	if err != nil {
		slog.ErrorContext(ctx, "Marshal import event", "error", err)
		return
	}
	p.publish(ctx, body, "import completed", "owner_id", ownerID)
}

func (p *Publisher) publish(ctx context.Context, body []byte, what string, args ...any) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := p.channel.PublishWithContext(ctx,
		p.exchange,
		p.queue, // routing key matches the queue on a direct exchange
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		slog.ErrorContext(ctx, "Publish ledger event failed",
			append([]any{"event", what, "error", err}, args...)...)
		return
	}
	slog.DebugContext(ctx, "Published ledger event",
		append([]any{"event", what, "exchange", p.exchange, "queue", p.queue}, args...)...)
}
