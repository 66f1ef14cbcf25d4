package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/DinithaNawanjana/paylanka-devops/internal/payments"
)

const (
	EventsExchange            = "paylanka.events"
	PaymentRecordedRoutingKey = "payment.recorded.v1"
	EventTypePaymentRecorded  = "PaymentRecorded"

	producerName = "payments-api"
)

// PaymentRecorded is the wire shape published after a successful insert.
type PaymentRecorded struct {
	EventName  string           `json:"eventName"`
	EventID    string           `json:"eventId"`
	Producer   string           `json:"producer"`
	OccurredAt time.Time        `json:"occurredAt"`
	Payment    payments.Payment `json:"payment"`
}

// NewPaymentRecorded builds the event for a stored payment.
func NewPaymentRecorded(p payments.Payment) PaymentRecorded {
	return PaymentRecorded{
		EventName:  EventTypePaymentRecorded,
		EventID:    uuid.NewString(),
		Producer:   producerName,
		OccurredAt: time.Now().UTC(),
		Payment:    p,
	}
}

// Publisher pushes recorded payments onto the events exchange. The ledger
// works identically without it; it exists for downstream consumers.
type Publisher struct {
	ch *amqp.Channel
}

func DialRabbit(url string) (*amqp.Connection, error) {
	return amqp.Dial(url)
}

func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	return &Publisher{ch: ch}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishPaymentRecorded(ctx context.Context, pay payments.Payment) error {
	body, err := json.Marshal(NewPaymentRecorded(pay))
	if err != nil {
		return fmt.Errorf("marshal PaymentRecorded: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		PaymentRecordedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
