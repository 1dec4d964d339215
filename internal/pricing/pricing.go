// Package pricing decide qué mostrar del resumen de checkout. No calcula precios: el backend manda.
package pricing

import (
	"storefront/internal/model"

	"github.com/shopspring/decimal"
)

type Style string

const (
	StyleSuccess Style = "success"
	StyleWarning Style = "warning"
)

const (
	defaultDiscountCode = "OFFER"
	offerNotApplicable  = "Offer not applicable"
	emptyCartMessage    = "Your cart is empty."
	unavailableMessage  = "Unable to load checkout."
)

type DiscountRow struct {
	Visible bool            `json:"visible"`
	Code    string          `json:"code,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
	Message string          `json:"message,omitempty"`
	Style   Style           `json:"style,omitempty"`
}

// OfferNotice es el aviso de "oferta no aplicable" cuando el usuario marcó la casilla.
type OfferNotice struct {
	Visible bool   `json:"visible"`
	Message string `json:"message,omitempty"`
	Style   Style  `json:"style,omitempty"`
}

type Delivery struct {
	Fee       decimal.Decimal `json:"fee"`
	Breakdown string          `json:"breakdown,omitempty"`
}

type Controls struct {
	COD    bool `json:"cod"`
	Online bool `json:"online"`
}

type View struct {
	Available  bool              `json:"available"`
	Message    string            `json:"message,omitempty"`
	Items      []model.OrderItem `json:"items"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
	Delivery   Delivery          `json:"delivery"`
	Discount   DiscountRow       `json:"discount"`
	Offer      OfferNotice       `json:"offer"`
	Total      decimal.Decimal   `json:"total"`
	Consistent bool              `json:"consistent"`
	Controls   Controls          `json:"controls"`
}

// Present arma la vista a partir del resumen del servidor.
func Present(s *model.CheckoutSummary, claimNewUser bool) View {
	if s == nil {
		return Unavailable()
	}

	v := View{
		Available: true,
		Items:     s.Items,
		Subtotal:  s.CartSubtotal,
		Delivery: Delivery{
			Fee:       s.DeliveryFee,
			Breakdown: s.DeliveryBreakdown,
		},
		Discount: DiscountRow{Amount: decimal.Zero},
		Controls: Controls{COD: true, Online: true},
	}

	switch {
	case s.Discount.IsPositive():
		code := s.DiscountCode
		if code == "" {
			code = defaultDiscountCode
		}
		v.Discount = DiscountRow{
			Visible: true,
			Code:    code,
			Amount:  s.Discount,
			Message: s.DiscountMsg,
			Style:   StyleSuccess,
		}
	case claimNewUser:
		msg := s.DiscountMsg
		if msg == "" {
			msg = offerNotApplicable
		}
		v.Offer = OfferNotice{Visible: true, Message: msg, Style: StyleWarning}
	}

	expected := s.ExpectedTotal()
	if s.FinalTotal.Valid {
		v.Total = s.FinalTotal.Decimal
		v.Consistent = s.FinalTotal.Decimal.Equal(expected)
	} else {
		v.Total = expected
		v.Consistent = true
	}

	if len(s.Items) == 0 {
		v.Message = emptyCartMessage
		v.Controls = Controls{}
	}
	return v
}

// Unavailable es la vista cuando falló la carga: sin resumen y sin botones de pago.
func Unavailable() View {
	return View{
		Available: false,
		Message:   unavailableMessage,
		Controls:  Controls{},
	}
}
