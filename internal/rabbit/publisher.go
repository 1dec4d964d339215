package rabbit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"storefront/internal/model"
)

// Publishing es el subconjunto de *amqp091.Channel que usa el publisher.
type Publishing interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

type OrderPlacedPublisher struct {
	ch       Publishing
	exchange string
}

func NewOrderPlacedPublisher(ch Publishing, exchange string) *OrderPlacedPublisher {
	return &OrderPlacedPublisher{ch: ch, exchange: exchange}
}

type PlacedOrderMessage struct {
	CorrelationID string `json:"correlation_id"`
	Exchange      string `json:"exchange"`
	RoutingKey    string `json:"routing_key"`
	Message       struct {
		OrderID       string              `json:"orderId"`
		OrderNumber   string              `json:"orderNumber"`
		UserID        string              `json:"userId"`
		PaymentMethod model.PaymentMethod `json:"paymentMethod"`
		PlacedAt      time.Time           `json:"placedAt"`
	} `json:"message"`
}

// PublishOrderPlaced avisa al fanout order_placed. Devuelve el correlation id usado.
func (p *OrderPlacedPublisher) PublishOrderPlaced(ctx context.Context, userID, orderID, orderNumber string, method model.PaymentMethod) (string, error) {
	var event PlacedOrderMessage
	event.CorrelationID = uuid.NewString()
	event.Exchange = p.exchange
	event.Message.OrderID = orderID
	event.Message.OrderNumber = orderNumber
	event.Message.UserID = userID
	event.Message.PaymentMethod = method
	event.Message.PlacedAt = time.Now().UTC()

	body, err := json.Marshal(event)
	if err != nil {
		return "", err
	}

	msg := amqp091.Publishing{
		DeliveryMode:  amqp091.Persistent,
		Timestamp:     time.Now(),
		ContentType:   "application/json",
		CorrelationId: event.CorrelationID,
		Body:          body,
	}
	// fanout ignora routing key
	return event.CorrelationID, p.ch.PublishWithContext(ctx, p.exchange, "", false, false, msg)
}
