package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/model"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name string
		a, b model.Location
		want float64
	}{
		{"same point", model.Location{Lat: 12.97, Lng: 77.59}, model.Location{Lat: 12.97, Lng: 77.59}, 0},
		{"one degree of latitude", model.Location{Lat: 0, Lng: 0}, model.Location{Lat: 1, Lng: 0}, 111.19},
		{"bengaluru to chennai", model.Location{Lat: 12.9716, Lng: 77.5946}, model.Location{Lat: 13.0827, Lng: 80.2707}, 290.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, HaversineKm(tt.a, tt.b), 1.0)
		})
	}
}

func TestDistance(t *testing.T) {
	assert.Nil(t, Distance(nil, &model.Location{}))
	assert.Nil(t, Distance(&model.Location{}, nil))

	km := Distance(&model.Location{Lat: 0, Lng: 0}, &model.Location{Lat: 1, Lng: 0})
	require.NotNil(t, km)
	assert.Equal(t, 111.19, *km)
}
