package utils

import (
	"crypto/rand"
	"testing"

	"wayfinder/src/types"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestGenerateJWT(t *testing.T) {
	token, err := GenerateJWT("someone@example.com", "11111111-1111-1111-1111-111111111111", "Test User")
	assert.Nil(t, err)
	assert.NotEmpty(t, token)

	claims := &types.Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tk *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	assert.Nil(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "someone@example.com", claims.Email)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", claims.Subject)
	assert.Equal(t, "Test User", claims.Name)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	assert.Nil(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
}

func TestEncryptDecryptRoundtrip(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	assert.Nil(t, err)

	enc, err := EncryptMessage(key, `{"ticketId":"abc","tripId":"def"}`)
	assert.Nil(t, err)
	assert.NotEmpty(t, enc)

	dec, err := DecryptMessage(key, enc)
	assert.Nil(t, err)
	assert.Equal(t, `{"ticketId":"abc","tripId":"def"}`, *dec)
}

func TestDecryptWithWrongKey(t *testing.T) {
	key := make([]byte, 32)
	rand.Read(key)
	enc, err := EncryptMessage(key, "payload")
	assert.Nil(t, err)

	other := make([]byte, 32)
	rand.Read(other)
	_, err = DecryptMessage(other, enc)
	assert.NotNil(t, err)
}

func fptr(f float64) *float64 { return &f }

func TestTotalPrice(t *testing.T) {
	body := types.CreateTripRequestBody{
		FlightPrice:  fptr(199.5),
		HotelPrice:   fptr(400),
		VehiclePrice: fptr(120),
	}
	assert.Equal(t, 719.5, TotalPrice(&body))

	body.VehiclePrice = nil
	assert.Equal(t, 599.5, TotalPrice(&body))

	empty := types.CreateTripRequestBody{}
	assert.Equal(t, 0.0, TotalPrice(&empty))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2030-05-01")
	assert.Nil(t, err)
	assert.Equal(t, 2030, d.Year())
	assert.Equal(t, 5, int(d.Month()))

	_, err = ParseDate("01/05/2030")
	assert.NotNil(t, err)
}
