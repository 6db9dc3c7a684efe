package events

import (
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys событий бронирований
const (
	RoutingKeyReserved = "booking.reserved"
	RoutingKeyReleased = "booking.released"
	RoutingKeyMoved    = "booking.moved"
)

// BookingEvent событие жизненного цикла бронирования
// Публикуется после коммита транзакции для конвейера уведомлений
// (доставка email/WhatsApp вне зоны ответственности этого сервиса)
type BookingEvent struct {
	BookingID    int64     `json:"booking_id"`
	TenantID     int64     `json:"tenant_id"`
	ServiceID    int64     `json:"service_id"`
	SlotID       int64     `json:"slot_id"`
	PrevSlotID   *int64    `json:"prev_slot_id,omitempty"` // заполнено для booking.moved
	VisitorCount int       `json:"visitor_count"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher публикует события бронирований в RabbitMQ
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewPublisher подключается к RabbitMQ и объявляет topic exchange
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events: rabbitmq dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("events: rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("events: rabbitmq exchange declare: %w", err)
	}

	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish публикует событие с указанным routing key
func (p *Publisher) Publish(routingKey string, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal payload: %w", err)
	}

	if err := p.channel.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		return fmt.Errorf("events: publish message: %w", err)
	}

	return nil
}

// Close закрывает канал и соединение
func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
