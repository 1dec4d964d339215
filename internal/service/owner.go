package service

import (
	"context"
	"strings"

	"storefront/internal/apiclient"
	"storefront/internal/logger"
	"storefront/internal/model"
)

type OwnerService struct {
	backendFor BackendFor
	logger     logger.Logger
}

func NewOwnerService(b BackendFor, l logger.Logger) *OwnerService {
	return &OwnerService{backendFor: b, logger: l}
}

// GetOrder completa NextStatuses localmente si el backend no las manda.
func (s *OwnerService) GetOrder(ctx context.Context, user *AuthUser, orderID string) (*apiclient.OwnerOrder, error) {
	o, err := s.backendFor(user.Token).GetOwnerOrder(ctx, orderID)
	if err != nil {
		return nil, mapBackendErr(err)
	}
	if len(o.NextStatuses) == 0 {
		o.NextStatuses = model.NextStages(model.ParseStage(o.Status))
	}
	return o, nil
}

// ListOrders devuelve las órdenes de la tienda con sus próximas etapas.
func (s *OwnerService) ListOrders(ctx context.Context, user *AuthUser) ([]apiclient.OwnerOrder, error) {
	orders, err := s.backendFor(user.Token).ListOwnerOrders(ctx)
	if err != nil {
		return nil, mapBackendErr(err)
	}
	for i := range orders {
		if len(orders[i].NextStatuses) == 0 {
			orders[i].NextStatuses = model.NextStages(model.ParseStage(orders[i].Status))
		}
	}
	return orders, nil
}

// UpdateStatus valida la transición antes de mandarla al backend.
func (s *OwnerService) UpdateStatus(ctx context.Context, user *AuthUser, orderID, status, reason string) (*apiclient.OwnerOrder, error) {
	b := s.backendFor(user.Token)
	o, err := b.GetOwnerOrder(ctx, orderID)
	if err != nil {
		return nil, mapBackendErr(err)
	}

	current := model.ParseStage(o.Status)
	target := model.ParseStage(status)

	// Si el estado nuevo es el mismo que ya está, no hacemos nada
	if current == target {
		o.NextStatuses = model.NextStages(current)
		return o, nil
	}
	if current.Final() {
		return nil, ErrFinalState
	}
	if !model.CanTransition(current, target) {
		return nil, ErrInvalidTransition
	}
	// el motivo es opcional, también al cancelar
	req := model.StatusUpdateRequest{Status: target, Reason: strings.TrimSpace(reason)}
	if err := b.UpdateOrderStatus(ctx, orderID, req); err != nil {
		return nil, mapBackendErr(err)
	}

	s.logger.Info("order status updated", "orderId", orderID, "from", current, "to", target, "ownerId", user.ID)
	o.Status = string(target)
	o.NextStatuses = model.NextStages(target)
	return o, nil
}
