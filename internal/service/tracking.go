package service

import (
	"context"
	"strings"

	"storefront/internal/geo"
	"storefront/internal/logger"
	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/timeline"
)

const placedOnLayout = "02 Jan 2006, 03:04 PM"

type ItemLine struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	LineTotal string `json:"lineTotal"`
}

// TrackingView es la página de seguimiento de una orden.
type TrackingView struct {
	OrderID       string              `json:"orderId"`
	Header        string              `json:"header"`
	PlacedOn      string              `json:"placedOn,omitempty"`
	Status        string              `json:"status"`
	Badge         string              `json:"badge"`
	Segments      []timeline.Segment  `json:"segments"`
	StagesDone    int                 `json:"stagesDone"`
	StagesTotal   int                 `json:"stagesTotal"`
	Items         []ItemLine          `json:"items"`
	Subtotal      string              `json:"subtotal"`
	DeliveryFee   string              `json:"deliveryFee"`
	Total         string              `json:"total"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	Note          string              `json:"note,omitempty"`
	AddressLine   string              `json:"addressLine,omitempty"`
	DistanceKm    *float64            `json:"distanceKm,omitempty"`
}

type OrderRow struct {
	OrderID  string `json:"orderId"`
	Header   string `json:"header"`
	PlacedOn string `json:"placedOn,omitempty"`
	Status   string `json:"status"`
	Badge    string `json:"badge"`
	Total    string `json:"total"`
}

type TrackingService struct {
	backendFor BackendFor
	logger     logger.Logger
}

func NewTrackingService(b BackendFor, l logger.Logger) *TrackingService {
	return &TrackingService{backendFor: b, logger: l}
}

func (s *TrackingService) Track(ctx context.Context, user *AuthUser, orderID string) (*TrackingView, error) {
	o, err := s.backendFor(user.Token).GetOrder(ctx, orderID)
	if err != nil {
		return nil, mapBackendErr(err)
	}

	segments := timeline.RenderDefault(o.Status)
	done, total := timeline.Progress(segments)
	if !model.ParseStage(o.Status).Known() {
		s.logger.Warn("unknown order status, rendering all stages upcoming", "orderId", o.ID, "status", o.Status)
	}

	v := &TrackingView{
		OrderID:       o.ID,
		Header:        orderHeader(o),
		PlacedOn:      placedOn(o),
		Status:        o.Status,
		Badge:         timeline.Badge(o.Status),
		Segments:      segments,
		StagesDone:    done,
		StagesTotal:   total,
		Subtotal:      pricing.FormatINR(o.CartTotal),
		DeliveryFee:   pricing.FormatINR(o.DeliveryFee),
		Total:         pricing.FormatINR(o.Total),
		PaymentMethod: o.Payment.Method,
		Note:          o.Note,
		AddressLine:   addressLine(o.User),
		DistanceKm:    geo.Distance(o.ShopLocation, o.UserLocation),
	}
	for _, it := range o.Items {
		v.Items = append(v.Items, ItemLine{
			ProductID: it.ProductID,
			Title:     it.Title,
			Quantity:  it.Quantity,
			Price:     pricing.FormatINR(it.Price),
			LineTotal: pricing.FormatINR(it.LineTotal()),
		})
	}
	return v, nil
}

func (s *TrackingService) ListOrders(ctx context.Context, user *AuthUser) ([]OrderRow, error) {
	orders, err := s.backendFor(user.Token).ListOrders(ctx)
	if err != nil {
		return nil, mapBackendErr(err)
	}
	rows := make([]OrderRow, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		rows = append(rows, OrderRow{
			OrderID:  o.ID,
			Header:   orderHeader(o),
			PlacedOn: placedOn(o),
			Status:   o.Status,
			Badge:    timeline.Badge(o.Status),
			Total:    pricing.FormatINR(o.Total),
		})
	}
	return rows, nil
}

func orderHeader(o *model.Order) string {
	ref := o.OrderNumber
	if ref == "" {
		ref = o.ID
	}
	return "Order #" + ref
}

func placedOn(o *model.Order) string {
	if o.CreatedAt.IsZero() {
		return ""
	}
	return o.CreatedAt.Format(placedOnLayout)
}

func addressLine(c model.CustomerRef) string {
	var parts []string
	for _, p := range []string{c.Address, c.City, c.State, c.Pincode} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
