package models

import (
	"time"

	"wayfinder/src/types"
)

type Trip struct {
	ID        string `gorm:"primarykey;type:varchar(255)" json:"id"`
	UserID    string `gorm:"index;not null" json:"user_id"`
	UserEmail string `json:"user_email,omitempty"`
	UserName  string `json:"user_name,omitempty"`

	Origin        string     `gorm:"not null" json:"origin"`
	Destination   string     `gorm:"not null" json:"destination"`
	DepartureDate time.Time  `gorm:"type:date;not null" json:"departure_date"`
	ReturnDate    *time.Time `gorm:"type:date" json:"return_date,omitempty"`

	Adults   int `gorm:"default:1" json:"adults"`
	Children int `gorm:"default:0" json:"children"`

	HotelLimit   int `gorm:"default:5" json:"hotel_limit,omitempty"`
	VehicleLimit int `gorm:"default:5" json:"vehicle_limit,omitempty"`

	MaxPrice *float64 `json:"max_price,omitempty"`

	FlightID    *string  `json:"flight_id,omitempty"`
	FlightName  *string  `json:"flight_name,omitempty"`
	FlightPrice *float64 `json:"flight_price,omitempty"`

	HotelID     *string  `json:"hotel_id,omitempty"`
	HotelName   *string  `json:"hotel_name,omitempty"`
	HotelPrice  *float64 `json:"hotel_price,omitempty"`
	HotelNights *int     `json:"hotel_nights,omitempty"`

	VehicleID    *string  `json:"vehicle_id,omitempty"`
	VehicleModel *string  `json:"vehicle_model,omitempty"`
	VehiclePrice *float64 `json:"vehicle_price,omitempty"`
	VehicleDays  *int     `json:"vehicle_days,omitempty"`

	TotalPrice float64 `json:"total_price"`
	Currency   string  `gorm:"type:varchar(10);default:'EUR'" json:"currency,omitempty"`

	Confirmed bool             `gorm:"default:false" json:"confirmed"`
	Status    types.TripStatus `gorm:"type:varchar(20);default:'pending';not null" json:"status"`

	User   *User   `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Ticket *Ticket `gorm:"foreignKey:trip_id" json:"ticket,omitempty"`

	types.Timestamps
}

// HasSelections reports whether all three services were chosen. A trip can
// only be accepted once it references a flight, a hotel and a vehicle.
func (t *Trip) HasSelections() bool {
	return t.FlightID != nil && *t.FlightID != "" &&
		t.HotelID != nil && *t.HotelID != "" &&
		t.VehicleID != nil && *t.VehicleID != ""
}

// Terminal reports whether the trip reached a final state.
func (t *Trip) Terminal() bool {
	return t.Status == types.TRIP_ACCEPTED || t.Status == types.TRIP_REJECTED
}
