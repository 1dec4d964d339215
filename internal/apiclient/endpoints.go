package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/model"
)

func (c *Client) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	var w orderWire
	if err := c.Do(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, &w); err != nil {
		return nil, err
	}
	o := w.toModel()
	return &o, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	var ws []orderWire
	if err := c.Do(ctx, http.MethodGet, "/orders/", nil, &ws); err != nil {
		return nil, err
	}
	out := make([]model.Order, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toModel())
	}
	return out, nil
}

func (c *Client) GetSummary(ctx context.Context, claimNewUser bool) (*model.CheckoutSummary, error) {
	path := "/checkout/summary?claim_new_user=" + strconv.FormatBool(claimNewUser)
	var s model.CheckoutSummary
	if err := c.Do(ctx, http.MethodGet, path, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	var res model.CreateOrderResponse
	if err := c.Do(ctx, http.MethodPost, "/order/create", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) UpdateProfile(ctx context.Context, p model.Profile) error {
	return c.Do(ctx, http.MethodPost, "/profile/update", p, nil)
}

func (c *Client) CreatePayment(ctx context.Context, orderID string) (*model.PaymentSession, error) {
	var s model.PaymentSession
	if err := c.Do(ctx, http.MethodPost, "/pay/create/"+url.PathEscape(orderID), nil, &s); err != nil {
		return nil, err
	}
	if s.Currency == "" {
		s.Currency = "INR"
	}
	return &s, nil
}

func (c *Client) SetCartQuantity(ctx context.Context, productID string, quantity int) error {
	q := url.Values{}
	q.Set("product_id", productID)
	q.Set("quantity", strconv.Itoa(quantity))
	return c.Do(ctx, http.MethodPut, "/cart/update-quantity?"+q.Encode(), nil, nil)
}

func (c *Client) RemoveFromCart(ctx context.Context, productID string) error {
	return c.Do(ctx, http.MethodDelete, "/cart/remove/"+url.PathEscape(productID), nil, nil)
}

func (c *Client) GetOwnerOrder(ctx context.Context, orderID string) (*OwnerOrder, error) {
	var w orderWire
	if err := c.Do(ctx, http.MethodGet, "/shop-owner/orders/"+url.PathEscape(orderID), nil, &w); err != nil {
		return nil, err
	}
	return &OwnerOrder{Order: w.toModel(), NextStatuses: w.NextStatuses}, nil
}

func (c *Client) ListOwnerOrders(ctx context.Context) ([]OwnerOrder, error) {
	var ws []orderWire
	if err := c.Do(ctx, http.MethodGet, "/shop-owner/orders/", nil, &ws); err != nil {
		return nil, err
	}
	out := make([]OwnerOrder, 0, len(ws))
	for _, w := range ws {
		out = append(out, OwnerOrder{Order: w.toModel(), NextStatuses: w.NextStatuses})
	}
	return out, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, req model.StatusUpdateRequest) error {
	return c.Do(ctx, http.MethodPut, "/order/"+url.PathEscape(orderID)+"/status", req, nil)
}

// ListNotifications trae las notificaciones del comprador, o del dueño si owner es true.
func (c *Client) ListNotifications(ctx context.Context, owner bool) ([]model.Notification, error) {
	path := "/orders/notifications/me"
	if owner {
		path = "/notifications/owner/me"
	}
	var ws []notificationWire
	if err := c.Do(ctx, http.MethodGet, path, nil, &ws); err != nil {
		return nil, err
	}
	out := make([]model.Notification, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toModel())
	}
	return out, nil
}

// MarkNotification marca una notificación. Las del dueño viven en /notifications y sólo
// se pueden marcar como leídas.
func (c *Client) MarkNotification(ctx context.Context, id string, read, owner bool) error {
	action := "mark-unread"
	if read {
		action = "mark-read"
	}
	prefix := "/orders/notifications"
	if owner {
		if !read {
			return ErrOwnerMarkUnread
		}
		prefix = "/notifications"
	}
	path := fmt.Sprintf("%s/%s/%s", prefix, action, url.PathEscape(id))
	return c.Do(ctx, http.MethodPut, path, nil, nil)
}
