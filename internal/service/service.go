package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/apiclient"
	"storefront/internal/model"
)

// Backend es el cliente del backend de la tienda ya ligado al token de un usuario.
// *apiclient.Client lo implementa.
type Backend interface {
	HasSession() bool

	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)

	GetSummary(ctx context.Context, claimNewUser bool) (*model.CheckoutSummary, error)
	SetCartQuantity(ctx context.Context, productID string, quantity int) error
	RemoveFromCart(ctx context.Context, productID string) error
	CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.CreateOrderResponse, error)
	UpdateProfile(ctx context.Context, p model.Profile) error
	CreatePayment(ctx context.Context, orderID string) (*model.PaymentSession, error)

	GetOwnerOrder(ctx context.Context, orderID string) (*apiclient.OwnerOrder, error)
	ListOwnerOrders(ctx context.Context) ([]apiclient.OwnerOrder, error)
	UpdateOrderStatus(ctx context.Context, orderID string, req model.StatusUpdateRequest) error

	ListNotifications(ctx context.Context, owner bool) ([]model.Notification, error)
	MarkNotification(ctx context.Context, id string, read, owner bool) error
}

// BackendFor arma un Backend que reenvía el token del usuario.
type BackendFor func(token string) Backend

// Interfaces que debe implementar repository
type DraftRepository interface {
	SaveDraft(ctx context.Context, d *model.Draft) error
	FindDraft(ctx context.Context, userID string) (*model.Draft, error)
}

type EventRepository interface {
	AppendEvent(ctx context.Context, c model.StatusChange) error
	FindEventsByUserID(ctx context.Context, userID string, limit int64) ([]model.StatusChange, error)
}

// Errores de negocio exportados (los usa el controller)
var (
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("orden no encontrada")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrFinalState        = errors.New("no se puede cambiar el estado de una orden en estado final")
)

// mapBackendErr traduce 404/403 del backend a los errores de negocio sin perder la causa.
func mapBackendErr(err error) error {
	switch {
	case apiclient.IsNotFound(err):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case apiclient.StatusOf(err) == http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrForbidden, err)
	}
	return err
}
