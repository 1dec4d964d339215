// models.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID          string          `bson:"order_id" json:"order_id"`
	OrderNumber string          `bson:"order_number" json:"order_number"`
	Status      string          `bson:"status" json:"status"` // estado actual, sin historial
	CreatedAt   time.Time       `bson:"created_at" json:"created_at"`
	Items       []OrderItem     `bson:"items" json:"items"`
	Payment     PaymentInfo     `bson:"payment" json:"payment"`
	User        CustomerRef     `bson:"user" json:"user"`
	CartTotal   decimal.Decimal `bson:"cart_total" json:"cart_total"`
	DeliveryFee decimal.Decimal `bson:"delivery_fee" json:"delivery_fee"`
	Total       decimal.Decimal `bson:"total" json:"total"`
	Note        string          `bson:"note" json:"note"`

	ShopLocation *Location `bson:"shop_location,omitempty" json:"shop_location,omitempty"`
	UserLocation *Location `bson:"user_location,omitempty" json:"user_location,omitempty"`
}

type OrderItem struct {
	ProductID string          `bson:"product_id" json:"product_id"`
	Title     string          `bson:"title" json:"title"`
	Price     decimal.Decimal `bson:"price" json:"price"`
	Quantity  int             `bson:"quantity" json:"quantity"`
	Image     string          `bson:"image" json:"image"`
}

// LineTotal es precio × cantidad, sólo para mostrar.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type PaymentInfo struct {
	Method     PaymentMethod   `bson:"method" json:"method"`
	Status     string          `bson:"status" json:"status"`
	PaidAmount decimal.Decimal `bson:"paid_amount" json:"paid_amount"`
}

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentOnline PaymentMethod = "online"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCOD || m == PaymentOnline
}

// CustomerRef es la foto del perfil del comprador guardada en la orden.
type CustomerRef struct {
	Name    string `bson:"name" json:"name"`
	Phone   string `bson:"phone" json:"phone"`
	Address string `bson:"address" json:"address"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Pincode string `bson:"pincode" json:"pincode"`
}

type Location struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Profile es lo que junta el modal de "perfil incompleto".
type Profile struct {
	Name    string `bson:"name" json:"name"`
	Phone   string `bson:"phone" json:"phone"`
	Address string `bson:"address" json:"address"`
	Pincode string `bson:"pincode" json:"pincode"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
}

// Draft guarda los últimos valores escritos en el formulario de checkout.
type Draft struct {
	UserID          string    `bson:"user_id" json:"userId"`
	Note            string    `bson:"note" json:"note"`
	DeliveryAddress *Location `bson:"delivery_address,omitempty" json:"deliveryAddress,omitempty"`
	Profile         Profile   `bson:"profile" json:"profile"`
	ClaimNewUser    bool      `bson:"claim_new_user" json:"claimNewUser"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updatedAt"`
}

type Notification struct {
	ID        string    `json:"_id"`
	OrderID   string    `json:"order_id"`
	Title     string    `json:"title,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// StatusChange llega por Rabbit cuando el backend mueve una orden de etapa.
type StatusChange struct {
	OrderID     string    `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	UserID      string    `json:"userId"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason"`
	Timestamp   time.Time `json:"timestamp"`
}
