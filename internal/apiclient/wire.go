package apiclient

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/model"
)

// wireTime acepta los formatos que emite el backend (con y sin zona horaria).
type wireTime struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (t *wireTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var lastErr error
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed.UTC()
			return nil
		}
		lastErr = err
	}
	return lastErr
}

type orderWire struct {
	OrderID       string              `json:"order_id"`
	ID            string              `json:"id"`
	OrderNumber   string              `json:"order_number"`
	Status        string              `json:"status"`
	CreatedAt     wireTime            `json:"created_at"`
	Items         []model.OrderItem   `json:"items"`
	CartTotal     decimal.Decimal     `json:"cart_total"`
	DeliveryFee   decimal.NullDecimal `json:"delivery_fee"`
	Delivery      decimal.NullDecimal `json:"delivery"`
	Total         decimal.Decimal     `json:"total"`
	Note          string              `json:"note"`
	PaymentMethod string              `json:"payment_method"`
	PaymentStatus string              `json:"payment_status"`
	PaidAmount    decimal.Decimal     `json:"paid_amount"`
	UserProfile   *model.CustomerRef  `json:"user_profile"`
	User          *model.CustomerRef  `json:"user"`
	NextStatuses  []model.Stage       `json:"next_statuses"`

	ShopLocation    *model.Location `json:"shop_location"`
	UserLocation    *model.Location `json:"user_location"`
	DeliveryAddress *model.Location `json:"delivery_address"`
}

func (w orderWire) toModel() model.Order {
	o := model.Order{
		ID:          w.OrderID,
		OrderNumber: w.OrderNumber,
		Status:      w.Status,
		CreatedAt:   w.CreatedAt.Time,
		Items:       w.Items,
		CartTotal:   w.CartTotal,
		Total:       w.Total,
		Note:        w.Note,
		Payment: model.PaymentInfo{
			Method:     model.PaymentMethod(w.PaymentMethod),
			Status:     w.PaymentStatus,
			PaidAmount: w.PaidAmount,
		},
		ShopLocation: w.ShopLocation,
		UserLocation: w.UserLocation,
	}
	if o.ID == "" {
		o.ID = w.ID
	}
	// registros viejos sólo traen "delivery"
	switch {
	case w.DeliveryFee.Valid:
		o.DeliveryFee = w.DeliveryFee.Decimal
	case w.Delivery.Valid:
		o.DeliveryFee = w.Delivery.Decimal
	}
	if o.UserLocation == nil {
		o.UserLocation = w.DeliveryAddress
	}
	switch {
	case w.UserProfile != nil:
		o.User = *w.UserProfile
	case w.User != nil:
		o.User = *w.User
	}
	return o
}

// OwnerOrder es la vista del dueño: la orden más las etapas a las que puede pasar.
type OwnerOrder struct {
	model.Order
	NextStatuses []model.Stage `json:"next_statuses"`
}

// notificationWire cubre los dos feeds: el del comprador (message/timestamp) y el del
// dueño (title/body/created_at).
type notificationWire struct {
	ID        string   `json:"_id"`
	AltID     string   `json:"id"`
	OrderID   string   `json:"order_id"`
	Message   string   `json:"message"`
	Timestamp wireTime `json:"timestamp"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	CreatedAt wireTime `json:"created_at"`
	Read      bool     `json:"read"`
}

func (w notificationWire) toModel() model.Notification {
	n := model.Notification{
		ID:        w.ID,
		OrderID:   w.OrderID,
		Title:     w.Title,
		Message:   w.Message,
		Timestamp: w.Timestamp.Time,
		Read:      w.Read,
	}
	if n.ID == "" {
		n.ID = w.AltID
	}
	if n.Message == "" {
		n.Message = w.Body
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = w.CreatedAt.Time
	}
	return n
}
