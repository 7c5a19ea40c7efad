package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivity_HasValidLocation(t *testing.T) {
	tests := []struct {
		name     string
		location *Location
		want     bool
	}{
		{"valid", &Location{Lat: 39.7, Lng: -104.9}, true},
		{"nil", nil, false},
		{"nan latitude", &Location{Lat: math.NaN(), Lng: -104.9}, false},
		{"infinite longitude", &Location{Lat: 39.7, Lng: math.Inf(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Activity{Location: tt.location}
			assert.Equal(t, tt.want, a.HasValidLocation())
		})
	}
}

func TestActivity_StoreEligible(t *testing.T) {
	base := Activity{
		Location:    &Location{Lat: 39.7, Lng: -104.9},
		Address:     "123 Main St",
		ActionItems: []string{"Book ahead"},
	}

	t.Run("complete record is eligible", func(t *testing.T) {
		assert.True(t, base.StoreEligible())
	})

	t.Run("missing address", func(t *testing.T) {
		a := base
		a.Address = ""
		assert.False(t, a.StoreEligible())
	})

	t.Run("no action items", func(t *testing.T) {
		a := base
		a.ActionItems = nil
		assert.False(t, a.StoreEligible())
	})

	t.Run("no location", func(t *testing.T) {
		a := base
		a.Location = nil
		assert.False(t, a.StoreEligible())
	})
}

func TestGoogleMapsURL(t *testing.T) {
	assert.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=39.7539,-105.0002",
		GoogleMapsURL(39.7539, -105.0002))
}
