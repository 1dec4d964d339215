package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CheckoutSummary es el desglose calculado por el backend. El cliente no recalcula nada.
type CheckoutSummary struct {
	Items             []OrderItem         `json:"items"`
	CartSubtotal      decimal.Decimal     `json:"cart_subtotal"`
	DeliveryFee       decimal.Decimal     `json:"delivery_fee"`
	DeliveryBreakdown string              `json:"delivery_breakdown,omitempty"`
	Discount          decimal.Decimal     `json:"discount"`
	DiscountCode      string              `json:"discount_code,omitempty"`
	DiscountMsg       string              `json:"discount_msg,omitempty"`
	FinalTotal        decimal.NullDecimal `json:"final_total"`
}

// Versiones viejas del backend usan subtotal/delivery/total.
type legacySummary struct {
	Subtotal *decimal.Decimal `json:"subtotal"`
	Delivery *decimal.Decimal `json:"delivery"`
	Total    *decimal.Decimal `json:"total"`
}

func (s *CheckoutSummary) UnmarshalJSON(data []byte) error {
	type plain CheckoutSummary
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var legacy legacySummary
	if err := json.Unmarshal(data, &legacy); err != nil {
		return err
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if _, ok := raw["cart_subtotal"]; !ok && legacy.Subtotal != nil {
		p.CartSubtotal = *legacy.Subtotal
	}
	if _, ok := raw["delivery_fee"]; !ok && legacy.Delivery != nil {
		p.DeliveryFee = *legacy.Delivery
	}
	if !p.FinalTotal.Valid && legacy.Total != nil {
		p.FinalTotal = decimal.NewNullDecimal(*legacy.Total)
	}

	*s = CheckoutSummary(p)
	return nil
}

// ExpectedTotal es subtotal + envío - descuento.
func (s *CheckoutSummary) ExpectedTotal() decimal.Decimal {
	return s.CartSubtotal.Add(s.DeliveryFee).Sub(s.Discount)
}

type CreateOrderRequest struct {
	PaymentMethod   PaymentMethod `json:"payment_method"`
	Note            *string       `json:"note"`
	DeliveryAddress *Location     `json:"delivery_address,omitempty"`
	ClaimNewUser    bool          `json:"claim_new_user"`
}

type CreateOrderResponse struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
}

// PaymentSession es lo que devuelve /pay/create para abrir el popup del procesador.
type PaymentSession struct {
	Key            string          `json:"razorpay_key"`
	GatewayOrderID string          `json:"razorpay_order_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency,omitempty"`
}

// AmountMinor devuelve el monto en paise.
func (p PaymentSession) AmountMinor() int64 {
	return p.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

type StatusUpdateRequest struct {
	Status Stage  `json:"status"`
	Reason string `json:"reason,omitempty"`
}
