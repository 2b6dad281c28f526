package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"time"

	"wayfinder/src/config"
	"wayfinder/src/db"
	"wayfinder/src/lib/mailer"
	"wayfinder/src/models"
	"wayfinder/src/types"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yeqown/go-qrcode"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func GenerateJWT(email string, userId string, name string) (string, error) {
	claims := types.Claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString(jwtKey)
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func EncryptMessage(key []byte, message string) (string, error) {
	plaintext := []byte(message)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	cipherText := gcm.Seal(nonce, nonce, plaintext, nil)
	encodedString := hex.EncodeToString(cipherText)

	return encodedString, nil
}

func DecryptMessage(key []byte, message string) (*string, error) {
	cipherText, err := hex.DecodeString(message)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	decryptedData, err := gcm.Open(nil, cipherText[:gcm.NonceSize()], cipherText[gcm.NonceSize():], nil)
	if err != nil {
		return nil, err
	}
	decodedString := string(decryptedData)

	return &decodedString, nil
}

func ParseDate(value string) (time.Time, error) {
	return time.Parse(config.DATE_PARSE_FORMAT, value)
}

// TotalPrice sums the selected service prices. Unselected services count as
// zero, so a partially built trip still carries a meaningful total.
func TotalPrice(params *types.CreateTripRequestBody) float64 {
	var total float64
	if params.FlightPrice != nil {
		total += *params.FlightPrice
	}
	if params.HotelPrice != nil {
		total += *params.HotelPrice
	}
	if params.VehiclePrice != nil {
		total += *params.VehiclePrice
	}
	return total
}

// CreateNewTrip persists a pending reservation and sends the confirmation
// email carrying the accept/reject links. A mail failure is logged but never
// fails the request.
func CreateNewTrip(params *types.CreateTripRequestBody, userId string, userEmail string, userName string) (*models.Trip, error) {
	departureDate, err := ParseDate(params.DepartureDate)
	if err != nil {
		return nil, types.NewAPIError(types.ErrValidation, "invalid departure_date", err)
	}
	var returnDate *time.Time
	if params.ReturnDate != nil {
		rd, err := ParseDate(*params.ReturnDate)
		if err != nil {
			return nil, types.NewAPIError(types.ErrValidation, "invalid return_date", err)
		}
		returnDate = &rd
	}

	currency := params.Currency
	if currency == "" {
		currency = "EUR"
	}
	hotelLimit := params.HotelLimit
	if hotelLimit == 0 {
		hotelLimit = 5
	}
	vehicleLimit := params.VehicleLimit
	if vehicleLimit == 0 {
		vehicleLimit = 5
	}

	trip := models.Trip{
		ID:            uuid.NewString(),
		UserID:        userId,
		UserEmail:     userEmail,
		UserName:      userName,
		Origin:        params.Origin,
		Destination:   params.Destination,
		DepartureDate: departureDate,
		ReturnDate:    returnDate,
		Adults:        params.Adults,
		Children:      params.Children,
		HotelLimit:    hotelLimit,
		VehicleLimit:  vehicleLimit,
		MaxPrice:      params.MaxPrice,
		FlightID:      params.FlightID,
		FlightName:    params.FlightName,
		FlightPrice:   params.FlightPrice,
		HotelID:       params.HotelID,
		HotelName:     params.HotelName,
		HotelPrice:    params.HotelPrice,
		HotelNights:   params.HotelNights,
		VehicleID:     params.VehicleID,
		VehicleModel:  params.VehicleModel,
		VehiclePrice:  params.VehiclePrice,
		VehicleDays:   params.VehicleDays,
		TotalPrice:    TotalPrice(params),
		Currency:      currency,
		Confirmed:     false,
		Status:        types.TRIP_PENDING,
	}

	database := db.GetDb()
	err = database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&trip).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("Error creating trip: %s\n", err.Error())
		return nil, types.NewAPIError(types.ErrInternal, "could not create trip", err)
	}

	go func() {
		if err := mailer.SendTripConfirmationEmail(&trip); err != nil {
			log.Printf("Error sending confirmation email for trip %s: %s\n", trip.ID, err.Error())
		}
	}()

	return &trip, nil
}

// GenerateTicketQR writes the encrypted ticket reference as a QR image and
// returns the file path. An empty path means generation failed; callers send
// the ticket email without the attachment.
func GenerateTicketQR(trip *models.Trip, ticket *models.Ticket) string {
	rawData := map[string]any{
		"ticketId": ticket.ID,
		"tripId":   trip.ID,
	}
	rawBytes, _ := json.Marshal(rawData)
	rawText := string(rawBytes)

	keyEnv := os.Getenv("API_QRC_SECRET")
	key, err := hex.DecodeString(keyEnv)
	if err != nil {
		log.Printf("Could not read key from string: %s\n", err.Error())
		return ""
	}

	encryptedMessage, err := EncryptMessage(key, rawText)
	if err != nil {
		log.Printf("Error encrypting message: %s\n", err.Error())
		return ""
	}
	qrc, err := qrcode.New(encryptedMessage)
	if err != nil {
		log.Printf("Could not generate qrcode for ticket %s: %s\n", ticket.ID, err.Error())
		return ""
	}
	tempdir := os.Getenv("TEMP_DIR")
	filepath := path.Join(tempdir, fmt.Sprintf("ticketcode_%s.jpeg", ticket.ID))
	if err := qrc.Save(filepath); err != nil {
		log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
		return ""
	}
	return filepath
}
