// dto.go
package dto

import "storefront/internal/model"

// PlaceOrderRequest es el cuerpo de POST /checkout/place
type PlaceOrderRequest struct {
	PaymentMethod   string       `json:"payment_method" binding:"required,oneof=cod online"`
	Note            string       `json:"note"`
	DeliveryAddress *LocationDTO `json:"delivery_address"`
	ClaimNewUser    bool         `json:"claim_new_user"`
	// Se manda sólo después de que el backend pidió completar el perfil.
	Profile *ProfileDTO `json:"profile"`
}

// LocationDTO para el pin de entrega
type LocationDTO struct {
	Lat float64 `json:"lat" binding:"gte=-90,lte=90"`
	Lng float64 `json:"lng" binding:"gte=-180,lte=180"`
}

// ProfileDTO es el formulario del modal de perfil
type ProfileDTO struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Pincode string `json:"pincode"`
	City    string `json:"city"`
	State   string `json:"state"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

type SetQuantityRequest struct {
	Quantity     int  `json:"quantity"`
	ClaimNewUser bool `json:"claim_new_user"`
}

func (l *LocationDTO) ToModel() *model.Location {
	if l == nil {
		return nil
	}
	return &model.Location{Lat: l.Lat, Lng: l.Lng}
}

func (p *ProfileDTO) ToModel() *model.Profile {
	if p == nil {
		return nil
	}
	return &model.Profile{
		Name:    p.Name,
		Phone:   p.Phone,
		Address: p.Address,
		Pincode: p.Pincode,
		City:    p.City,
		State:   p.State,
	}
}
