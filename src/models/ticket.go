package models

import "wayfinder/src/types"

// Ticket is issued exactly once, when a trip is accepted. The unique index on
// trip_id keeps the relation one-to-one at the schema level.
type Ticket struct {
	ID        string  `gorm:"primarykey;type:varchar(255)" json:"id"`
	TripID    string  `gorm:"uniqueIndex;not null" json:"trip_id"`
	UserID    string  `gorm:"index;not null" json:"user_id"`
	FlightID  *string `json:"flight_id,omitempty"`
	HotelID   *string `json:"hotel_id,omitempty"`
	VehicleID *string `json:"vehicle_id,omitempty"`

	types.Timestamps
}
