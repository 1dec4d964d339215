package rabbit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"storefront/internal/logger"
	"storefront/internal/model"
)

// StatusRecorder es lo que el consumer necesita del servicio de notificaciones.
type StatusRecorder interface {
	RecordStatusChange(ctx context.Context, c model.StatusChange) error
}

type StatusChangedConsumer struct {
	Recorder StatusRecorder
	Logger   logger.Logger
}

func NewStatusChangedConsumer(r StatusRecorder, l logger.Logger) *StatusChangedConsumer {
	return &StatusChangedConsumer{Recorder: r, Logger: l}
}

// Mismo sobre que order_placed: correlation_id + exchange + routing_key + message.
type StatusChangedMessage struct {
	CorrelationID string `json:"correlation_id"`
	Exchange      string `json:"exchange"`
	RoutingKey    string `json:"routing_key"`
	Message       struct {
		OrderID     string `json:"orderId"`
		OrderNumber string `json:"orderNumber"`
		UserID      string `json:"userId"`
		Status      string `json:"status"`
		Reason      string `json:"reason"`
		// Si no viene, se usa la hora de llegada.
		Timestamp *time.Time `json:"timestamp"`
	} `json:"message"`
}

var errIncompleteEvent = errors.New("evento de estado sin orderId, userId o status")

func (c *StatusChangedConsumer) Handle(ctx context.Context, msg []byte) error {
	var event StatusChangedMessage
	if err := json.Unmarshal(msg, &event); err != nil {
		c.Logger.Warn("unparseable status event", "error", err)
		return err
	}

	m := event.Message
	if m.OrderID == "" || m.UserID == "" || m.Status == "" {
		c.Logger.Warn("dropping status event", "correlationId", event.CorrelationID, "error", errIncompleteEvent)
		return errIncompleteEvent
	}

	change := model.StatusChange{
		OrderID:     m.OrderID,
		OrderNumber: m.OrderNumber,
		UserID:      m.UserID,
		Status:      string(model.ParseStage(m.Status)),
		Reason:      m.Reason,
		Timestamp:   time.Now().UTC(),
	}
	if m.Timestamp != nil {
		change.Timestamp = m.Timestamp.UTC()
	}

	if err := c.Recorder.RecordStatusChange(ctx, change); err != nil {
		c.Logger.Error("recording status change failed", "orderId", change.OrderID, "error", err)
		return err
	}

	c.Logger.Info("status change received",
		"correlationId", event.CorrelationID,
		"orderId", change.OrderID,
		"status", change.Status)
	return nil
}
