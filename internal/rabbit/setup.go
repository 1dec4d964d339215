// setup.go
package rabbit

import (
	"context"

	"github.com/rabbitmq/amqp091-go"

	"storefront/internal/logger"
)

// DeclareExchanges declara los fanouts que usa el servicio.
func DeclareExchanges(ch *amqp091.Channel, exchanges ...string) error {
	for _, name := range exchanges {
		if err := ch.ExchangeDeclare(
			name,
			"fanout",
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,
		); err != nil {
			return err
		}
	}
	return nil
}

// SetupConsumers suscribe la cola queue al fanout exchange y despacha cada mensaje al consumer
// hasta que ctx se cancele o el canal se cierre.
func SetupConsumers(ctx context.Context, ch *amqp091.Channel, consumer *StatusChangedConsumer, queue, exchange string, l logger.Logger) error {
	// 1. Declarar la queue
	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		l.Error("declaring queue failed", "queue", queue, "error", err)
		return err
	}

	// 2. Bindear al exchange fanout
	if err := ch.QueueBind(q.Name, "", exchange, false, nil); err != nil {
		l.Error("binding queue failed", "queue", q.Name, "exchange", exchange, "error", err)
		return err
	}

	// 3. Consumir
	msgs, err := ch.Consume(
		q.Name,
		"",
		true,  // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		l.Error("consuming queue failed", "queue", q.Name, "error", err)
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					l.Warn("rabbit delivery channel closed", "queue", q.Name)
					return
				}
				consumer.Handle(ctx, m.Body)
			}
		}
	}()

	l.Info("subscribed to fanout exchange", "exchange", exchange, "queue", q.Name)
	return nil
}
