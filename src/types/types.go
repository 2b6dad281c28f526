package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type TripStatus string

const (
	TRIP_PENDING  TripStatus = "pending"
	TRIP_ACCEPTED TripStatus = "accepted"
	TRIP_REJECTED TripStatus = "rejected"
)

type TransactionStatus string

const (
	TRANSACTION_PENDING  TransactionStatus = "pending"
	TRANSACTION_PAID     TransactionStatus = "paid"
	TRANSACTION_CANCELED TransactionStatus = "canceled"
)

// ErrorKind is the closed set of error categories the API exposes to clients.
// Raw upstream or database error text never leaves the server log.
type ErrorKind string

const (
	ErrNotFound   ErrorKind = "not_found"
	ErrValidation ErrorKind = "validation"
	ErrConflict   ErrorKind = "conflict"
	ErrUpstream   ErrorKind = "upstream"
	ErrInternal   ErrorKind = "internal"
)

type APIError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	cause   error
}

func NewAPIError(kind ErrorKind, message string, cause error) *APIError {
	return &APIError{Kind: kind, Message: message, cause: cause}
}

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.cause }

func (e *APIError) Status() int {
	switch e.Kind {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrValidation:
		return http.StatusBadRequest
	case ErrConflict:
		return http.StatusConflict
	case ErrUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AsAPIError normalizes any error into the closed taxonomy. Unknown errors
// come back as ErrInternal with a generic client message.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return NewAPIError(ErrInternal, "something went wrong", err)
}

type CreateTripRequestBody struct {
	Origin        string   `json:"origin" binding:"required,len=3"`
	Destination   string   `json:"destination" binding:"required,len=3"`
	DepartureDate string   `json:"departure_date" binding:"required,traveldate"`
	ReturnDate    *string  `json:"return_date,omitempty" binding:"omitempty,traveldate,gtdate=DepartureDate"`
	Adults        int      `json:"adults" binding:"required,min=1"`
	Children      int      `json:"children,omitempty" binding:"omitempty,min=0"`
	HotelLimit    int      `json:"hotel_limit,omitempty"`
	VehicleLimit  int      `json:"vehicle_limit,omitempty"`
	MaxPrice      *float64 `json:"max_price,omitempty"`

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

	Currency string `json:"currency,omitempty"`
}

// UpdateTripRequestBody carries the mutable selection fields of a pending
// trip. Identity and itinerary fields are fixed at creation.
type UpdateTripRequestBody struct {
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

	MaxPrice *float64 `json:"max_price,omitempty"`
}

type TripURIParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type ConfirmTripQueryParams struct {
	TripID    string `form:"trip_id" binding:"required,uuid"`
	UserEmail string `form:"user_email" binding:"required,email"`
}

type RegisterUserRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginUserRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreatePaymentIntentRequestBody struct {
	TripID string `json:"trip_id" binding:"required,uuid"`
}

type FlightSearchQuery struct {
	OriginLocationCode      string  `json:"originLocationCode" binding:"required,len=3"`
	DestinationLocationCode string  `json:"destinationLocationCode" binding:"required,len=3"`
	DepartureDate           string  `json:"departureDate" binding:"required,traveldate"`
	ReturnDate              *string `json:"returnDate,omitempty" binding:"omitempty,traveldate"`
	Adults                  int     `json:"adults" binding:"required,min=1"`
	Max                     int     `json:"max,omitempty" binding:"omitempty,min=1,max=50"`
}

type FlightSegment struct {
	DepartureAirport string  `json:"departureAirport"`
	DepartureTime    string  `json:"departureTime"`
	ArrivalAirport   string  `json:"arrivalAirport"`
	ArrivalTime      string  `json:"arrivalTime"`
	CarrierCode      string  `json:"carrierCode"`
	FlightNumber     string  `json:"flightNumber"`
	AircraftCode     *string `json:"aircraftCode,omitempty"`
	Duration         string  `json:"duration"`
}

type FlightItinerary struct {
	Duration string          `json:"duration"`
	Segments []FlightSegment `json:"segments"`
}

type FlightPrice struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type FlightOffer struct {
	ID          string            `json:"id"`
	Source      string            `json:"source"`
	Price       FlightPrice       `json:"price"`
	Itineraries []FlightItinerary `json:"itineraries"`
}

type FlightSearchResponse struct {
	Success  bool          `json:"success"`
	Offers   []FlightOffer `json:"offers"`
	Count    int           `json:"count"`
	Currency string        `json:"currency"`
}

type HotelSearchQuery struct {
	CityCode     string   `json:"cityCode" binding:"required,len=3"`
	CheckInDate  *string  `json:"checkInDate,omitempty" binding:"omitempty,traveldate"`
	CheckOutDate *string  `json:"checkOutDate,omitempty" binding:"omitempty,traveldate"`
	Limit        int      `json:"limit,omitempty" binding:"omitempty,min=1,max=50"`
	DefaultPrice *float64 `json:"defaultPrice,omitempty"`
}

type HotelInfo struct {
	HotelID   string  `json:"hotelId"`
	Name      string  `json:"name"`
	CityCode  string  `json:"cityCode"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Available bool    `json:"available"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Nights    *int    `json:"nights,omitempty"`
}

type HotelSearchResponse struct {
	Data  []HotelInfo `json:"data"`
	Count int         `json:"count"`
}

type VehicleSearchQuery struct {
	Location    string `json:"location" binding:"required,min=3"`
	VehicleType string `json:"vehicleType,omitempty"`
	Limit       int    `json:"limit,omitempty" binding:"omitempty,min=1,max=50"`
}

type VehicleInfo struct {
	VehicleID    string  `json:"vehicleId"`
	Name         string  `json:"name"`
	CityCode     string  `json:"cityCode"`
	Available    bool    `json:"available"`
	PricePerDay  float64 `json:"pricePerDay"`
	Currency     string  `json:"currency"`
	VehicleType  string  `json:"vehicleType,omitempty"`
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	Seats        int     `json:"seats"`
	Doors        int     `json:"doors"`
	Transmission string  `json:"transmission"`
	FuelType     string  `json:"fuelType"`
}

type VehicleSearchResponse struct {
	Data  []VehicleInfo `json:"data"`
	Count int           `json:"count"`
}

type TripSearchQuery struct {
	OriginLocationCode      string  `json:"originLocationCode" binding:"required,len=3"`
	DestinationLocationCode string  `json:"destinationLocationCode" binding:"required,len=3"`
	DepartureDate           string  `json:"departureDate" binding:"required,traveldate"`
	ReturnDate              *string `json:"returnDate,omitempty" binding:"omitempty,traveldate"`
	Adults                  int     `json:"adults" binding:"required,min=1"`
	Max                     int     `json:"max,omitempty" binding:"omitempty,min=1,max=50"`

	CityCode          string   `json:"cityCode" binding:"required,len=3"`
	CheckInDate       string   `json:"checkInDate" binding:"required,traveldate"`
	CheckOutDate      string   `json:"checkOutDate" binding:"required,traveldate"`
	HotelLimit        int      `json:"hotelLimit,omitempty" binding:"omitempty,min=1,max=50"`
	DefaultHotelPrice *float64 `json:"defaultHotelPrice,omitempty"`

	VehicleLocation string `json:"vehicleLocation" binding:"required,min=3"`
	VehicleLimit    int    `json:"vehicleLimit,omitempty" binding:"omitempty,min=1,max=50"`
}

type TripCostSummary struct {
	FlightTotal  float64 `json:"flightTotal"`
	HotelTotal   float64 `json:"hotelTotal"`
	VehicleTotal float64 `json:"vehicleTotal"`
	Currency     string  `json:"currency"`
	GrandTotal   float64 `json:"grandTotal"`
}

type TripSearchResponse struct {
	Flights  []FlightOffer   `json:"flights"`
	Hotels   []HotelInfo     `json:"hotels"`
	Vehicles []VehicleInfo   `json:"vehicles"`
	Summary  TripCostSummary `json:"summary"`
}
