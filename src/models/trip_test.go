package models

import (
	"testing"

	"wayfinder/src/types"

	"github.com/stretchr/testify/assert"
)

func strptr(s string) *string { return &s }

func TestHasSelections(t *testing.T) {
	trip := Trip{
		FlightID:  strptr("FL-1"),
		HotelID:   strptr("HL-1"),
		VehicleID: strptr("MAD-001"),
	}
	assert.True(t, trip.HasSelections())

	trip.VehicleID = nil
	assert.False(t, trip.HasSelections())

	trip.VehicleID = strptr("")
	assert.False(t, trip.HasSelections())

	trip.VehicleID = strptr("MAD-001")
	trip.HotelID = nil
	assert.False(t, trip.HasSelections())
}

func TestTerminal(t *testing.T) {
	trip := Trip{Status: types.TRIP_PENDING}
	assert.False(t, trip.Terminal())

	trip.Status = types.TRIP_ACCEPTED
	assert.True(t, trip.Terminal())

	trip.Status = types.TRIP_REJECTED
	assert.True(t, trip.Terminal())
}
