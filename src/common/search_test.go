package common

import (
	"testing"

	"wayfinder/src/types"

	"github.com/stretchr/testify/assert"
)

func TestNights(t *testing.T) {
	assert.Equal(t, 4, Nights("2030-05-01", "2030-05-05"))
	assert.Equal(t, 1, Nights("2030-05-01", "2030-05-02"))

	// same day and reversed ranges collapse to one night
	assert.Equal(t, 1, Nights("2030-05-01", "2030-05-01"))
	assert.Equal(t, 1, Nights("2030-05-05", "2030-05-01"))

	assert.Equal(t, 1, Nights("garbage", "2030-05-05"))
}

func TestSimulateVehicles(t *testing.T) {
	vehicles := SimulateVehicles("MAD", 5)
	assert.Len(t, vehicles, 5)
	for i, v := range vehicles {
		assert.Equal(t, "MAD", v.CityCode)
		assert.True(t, v.Available)
		assert.GreaterOrEqual(t, v.PricePerDay, 30.0)
		assert.LessOrEqual(t, v.PricePerDay, 120.0)
		assert.Equal(t, "EUR", v.Currency)
		assert.NotEmpty(t, v.Model)
		if i == 0 {
			assert.Equal(t, "MAD-001", v.VehicleID)
		}
	}
}

func TestSimulateVehiclesUnknownCity(t *testing.T) {
	vehicles := SimulateVehicles("XXX", 2)
	assert.Len(t, vehicles, 2)
	assert.Equal(t, "XXX-001", vehicles[0].VehicleID)
	assert.NotEmpty(t, vehicles[0].Model)
}

func TestSimulateVehiclesTruncatesLocation(t *testing.T) {
	vehicles := SimulateVehicles("MADRID", 1)
	assert.Equal(t, "MAD", vehicles[0].CityCode)
}

func TestSearchVehiclesDefaultLimit(t *testing.T) {
	result := SearchVehicles(&types.VehicleSearchQuery{Location: "BCN"})
	assert.Equal(t, 5, result.Count)
	assert.Len(t, result.Data, 5)
}

func TestCheapestFlightTotal(t *testing.T) {
	offers := []types.FlightOffer{
		{Price: types.FlightPrice{Total: "250.00", Currency: "EUR"}},
		{Price: types.FlightPrice{Total: "199.50", Currency: "EUR"}},
		{Price: types.FlightPrice{Total: "not-a-number", Currency: "EUR"}},
	}
	assert.Equal(t, 199.5, cheapestFlightTotal(offers))

	assert.Equal(t, 0.0, cheapestFlightTotal(nil))
}
