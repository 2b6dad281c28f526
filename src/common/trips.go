package common

import (
	"errors"
	"log"
	"strings"

	"wayfinder/src/db"
	"wayfinder/src/lib/mailer"
	"wayfinder/src/models"
	"wayfinder/src/types"
	"wayfinder/src/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransitionResult reports what a state-machine call did. Changed is false
// when the trip was already in a terminal state and the call was a no-op.
type TransitionResult struct {
	Trip    *models.Trip   `json:"trip"`
	Ticket  *models.Ticket `json:"ticket,omitempty"`
	Changed bool           `json:"changed"`
	Detail  string         `json:"detail"`
}

// AcceptTrip moves a pending trip to accepted and issues its ticket. The row
// is locked for the duration of the transaction so concurrent accept and
// reject calls cannot both win. Calling it on a trip that already reached a
// terminal state reports the current state without touching anything.
func AcceptTrip(tripId string) (*TransitionResult, error) {
	var trip models.Trip
	var ticket *models.Ticket
	changed := false

	database := db.GetDb()
	err := database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&trip, "id = ?", tripId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewAPIError(types.ErrNotFound, "trip not found", err)
			}
			return err
		}
		if trip.Terminal() {
			return nil
		}
		if !trip.HasSelections() {
			return types.NewAPIError(types.ErrValidation, "trip is missing flight, hotel or vehicle selection", nil)
		}

		trip.Status = types.TRIP_ACCEPTED
		trip.Confirmed = true
		if err := tx.Save(&trip).Error; err != nil {
			return err
		}

		t := models.Ticket{
			ID:        uuid.NewString(),
			TripID:    trip.ID,
			UserID:    trip.UserID,
			FlightID:  trip.FlightID,
			HotelID:   trip.HotelID,
			VehicleID: trip.VehicleID,
		}
		if err := tx.Create(&t).Error; err != nil {
			if strings.Contains(err.Error(), "duplicate") {
				return types.NewAPIError(types.ErrConflict, "ticket already issued for trip", err)
			}
			return err
		}
		ticket = &t
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &TransitionResult{Trip: &trip, Ticket: ticket, Changed: changed}
	if !changed {
		res.Detail = "trip already " + string(trip.Status)
		return res, nil
	}
	res.Detail = "trip accepted"

	go func(trip models.Trip, ticket models.Ticket) {
		qrPath := utils.GenerateTicketQR(&trip, &ticket)
		if err := mailer.SendTicketEmail(&trip, &ticket, qrPath); err != nil {
			log.Printf("Error sending ticket email for trip %s: %s\n", trip.ID, err.Error())
		}
	}(trip, *ticket)

	return res, nil
}

// RejectTrip moves a pending trip to rejected. No ticket is issued and the
// call is a no-op on terminal trips.
func RejectTrip(tripId string) (*TransitionResult, error) {
	var trip models.Trip
	changed := false

	database := db.GetDb()
	err := database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&trip, "id = ?", tripId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewAPIError(types.ErrNotFound, "trip not found", err)
			}
			return err
		}
		if trip.Terminal() {
			return nil
		}
		trip.Status = types.TRIP_REJECTED
		trip.Confirmed = false
		if err := tx.Save(&trip).Error; err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &TransitionResult{Trip: &trip, Changed: changed}
	if !changed {
		res.Detail = "trip already " + string(trip.Status)
		return res, nil
	}
	res.Detail = "trip rejected"

	go func(trip models.Trip) {
		if err := mailer.SendTripRejectedEmail(&trip); err != nil {
			log.Printf("Error sending rejection email for trip %s: %s\n", trip.ID, err.Error())
		}
	}(trip)

	return res, nil
}

// UpdateTrip replaces the selection fields of a pending trip and recomputes
// the total. Terminal trips cannot be edited.
func UpdateTrip(tripId string, userId string, body *types.UpdateTripRequestBody) (*models.Trip, error) {
	var trip models.Trip
	database := db.GetDb()
	err := database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", tripId, userId).
			First(&trip).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewAPIError(types.ErrNotFound, "trip not found", err)
			}
			return err
		}
		if trip.Terminal() {
			return types.NewAPIError(types.ErrConflict, "trip already "+string(trip.Status), nil)
		}

		trip.FlightID = body.FlightID
		trip.FlightName = body.FlightName
		trip.FlightPrice = body.FlightPrice
		trip.HotelID = body.HotelID
		trip.HotelName = body.HotelName
		trip.HotelPrice = body.HotelPrice
		trip.HotelNights = body.HotelNights
		trip.VehicleID = body.VehicleID
		trip.VehicleModel = body.VehicleModel
		trip.VehiclePrice = body.VehiclePrice
		trip.VehicleDays = body.VehicleDays
		if body.MaxPrice != nil {
			trip.MaxPrice = body.MaxPrice
		}

		var total float64
		if trip.FlightPrice != nil {
			total += *trip.FlightPrice
		}
		if trip.HotelPrice != nil {
			total += *trip.HotelPrice
		}
		if trip.VehiclePrice != nil {
			total += *trip.VehiclePrice
		}
		trip.TotalPrice = total

		return tx.Save(&trip).Error
	})
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

// ConfirmTrip is the email-link entry point. It verifies the address the link
// was sent to and then runs the same accept transition, so a confirmed trip
// and an accepted trip are indistinguishable.
func ConfirmTrip(tripId string, userEmail string) (*TransitionResult, error) {
	var trip models.Trip
	database := db.GetDb()
	if err := database.First(&trip, "id = ?", tripId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewAPIError(types.ErrNotFound, "trip not found", err)
		}
		return nil, err
	}
	if !strings.EqualFold(trip.UserEmail, userEmail) {
		return nil, types.NewAPIError(types.ErrValidation, "email does not match trip reservation", nil)
	}
	return AcceptTrip(tripId)
}
