package geo

import (
	"math"

	"storefront/internal/model"
)

const earthRadiusKm = 6371.0

// HaversineKm devuelve la distancia en línea recta entre dos puntos, en kilómetros.
func HaversineKm(a, b model.Location) float64 {
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Distance es nil cuando falta alguna de las dos ubicaciones.
func Distance(shop, buyer *model.Location) *float64 {
	if shop == nil || buyer == nil {
		return nil
	}
	km := math.Round(HaversineKm(*shop, *buyer)*100) / 100
	return &km
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
