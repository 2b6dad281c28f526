package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"wayfinder/src/common"
	"wayfinder/src/db"
	"wayfinder/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type TestSuite struct {
	suite.Suite
	DB   *gorm.DB
	Mock *sqlmock.Sqlmock
}

// authStub stands in for the JWT middleware so handler behavior can be
// exercised without a user row in the database.
func authStub(ctx *gin.Context) {
	ctx.Set("id", "11111111-1111-1111-1111-111111111111")
	ctx.Set("email", "someone@example.com")
	ctx.Set("name", "Test User")
}

type fakeProvider struct{}

func (fakeProvider) SearchFlightOffers(ctx context.Context, params *types.FlightSearchQuery) ([]types.FlightOffer, error) {
	return []types.FlightOffer{
		{
			ID:     "1",
			Source: "GDS",
			Price:  types.FlightPrice{Total: "199.50", Currency: "EUR"},
			Itineraries: []types.FlightItinerary{
				{
					Duration: "PT2H30M",
					Segments: []types.FlightSegment{
						{
							DepartureAirport: params.OriginLocationCode,
							ArrivalAirport:   params.DestinationLocationCode,
							CarrierCode:      "IB",
							FlightNumber:     "3170",
							Duration:         "PT2H30M",
						},
					},
				},
			},
		},
	}, nil
}

func (fakeProvider) HotelsByCity(ctx context.Context, cityCode string) ([]types.HotelInfo, error) {
	return []types.HotelInfo{
		{HotelID: "HLMAD123", Name: "Hotel Centro", CityCode: cityCode, Available: true},
		{HotelID: "HLMAD456", Name: "Gran Plaza", CityCode: cityCode, Available: true},
	}, nil
}

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DisableAutomaticPing: true,
	})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

func (s *TestSuite) SetupSuite() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("traveldate", travelDateValidatorFunc)
		v.RegisterValidation("gtdate", gtdate)
	}

	d, mock := NewMockDB()
	db.NewDB(d)
	s.DB = d
	s.Mock = &mock
}

func (s *TestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *TestSuite) TestMaintenanceMode() {
	os.Setenv("MAINTENANCE_MODE", "true")
	defer os.Setenv("MAINTENANCE_MODE", "false")

	router := setupRouter()
	router = maintenanceModeMiddleware(router)
	apiv1Group(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 503, w.Code)
}

func (s *TestSuite) TestAuthRequired() {
	router := setupRouter()
	authorized := apiv1Group(router)
	authorized.Use(authorizedOnly)
	tripHandlers(authorized)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/v1/trips", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 401, w.Code)
}

// authorizedOnly rejects requests without a bearer header the way the real
// middleware does, without the user lookup.
func authorizedOnly(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
}

func (s *TestSuite) TestTripValidation() {
	router := setupRouter()
	authorized := apiv1Group(router)
	authorized.Use(authStub)
	tripHandlers(authorized)

	s.Run("Should reject a trip with no destination", func() {
		w := httptest.NewRecorder()
		body := map[string]any{
			"origin":         "MAD",
			"departure_date": "2030-05-01",
			"adults":         1,
		}
		sbody, _ := json.Marshal(&body)
		req, _ := http.NewRequest("POST", "/api/v1/trips", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		errMsg := gjson.GetBytes(rbytes, "error").String()
		assert.NotEmpty(s.T(), errMsg)
	})

	s.Run("Should reject a departure date in the past", func() {
		w := httptest.NewRecorder()
		body := map[string]any{
			"origin":         "MAD",
			"destination":    "BCN",
			"departure_date": "2019-05-01",
			"adults":         1,
		}
		sbody, _ := json.Marshal(&body)
		req, _ := http.NewRequest("POST", "/api/v1/trips", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should reject a return date before departure", func() {
		w := httptest.NewRecorder()
		body := map[string]any{
			"origin":         "MAD",
			"destination":    "BCN",
			"departure_date": "2030-05-10",
			"return_date":    "2030-05-01",
			"adults":         1,
		}
		sbody, _ := json.Marshal(&body)
		req, _ := http.NewRequest("POST", "/api/v1/trips", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestTripLinkParams() {
	router := setupRouter()
	tripLinkRoutes(apiv1Group(router))

	s.Run("Should reject a malformed trip id on accept", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/trips/reservas/not-a-uuid/aceptar", nil)
		router.ServeHTTP(w, req)
		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should reject a confirm call without query params", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/trips/confirm-trip", nil)
		router.ServeHTTP(w, req)
		assert.Equal(s.T(), 400, w.Code)
	})
}

func (s *TestSuite) TestSearchRoutes() {
	router := setupRouter()
	authorized := apiv1Group(router)
	authorized.Use(authStub)
	searchHandlers(authorized, fakeProvider{})

	s.Run("Should return flight offers with count and currency", func() {
		w := httptest.NewRecorder()
		body := types.FlightSearchQuery{
			OriginLocationCode:      "MAD",
			DestinationLocationCode: "BCN",
			DepartureDate:           "2030-05-01",
			Adults:                  1,
		}
		sbody, _ := json.Marshal(&body)
		req, _ := http.NewRequest("POST", "/api/v1/flight-search", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		sjson := string(rbytes)
		assert.Equal(s.T(), int64(1), gjson.Get(sjson, "count").Int())
		assert.Equal(s.T(), "EUR", gjson.Get(sjson, "currency").String())
	})

	s.Run("Should reject a flight search without adults", func() {
		w := httptest.NewRecorder()
		body := map[string]any{
			"originLocationCode":      "MAD",
			"destinationLocationCode": "BCN",
			"departureDate":           "2030-05-01",
		}
		sbody, _ := json.Marshal(&body)
		req, _ := http.NewRequest("POST", "/api/v1/flight-search", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should return simulated vehicles", func() {
		w := httptest.NewRecorder()
		body := types.VehicleSearchQuery{Location: "MAD", Limit: 3}
		sbody, _ := json.Marshal(&body)
		req, _ := http.NewRequest("POST", "/api/v1/vehicle-search", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		sjson := string(rbytes)
		assert.Equal(s.T(), int64(3), gjson.Get(sjson, "count").Int())
		assert.True(s.T(), strings.HasPrefix(gjson.Get(sjson, "data.0.vehicleId").String(), "MAD-"))
	})

	s.Run("Should reject a trip search with reversed hotel dates", func() {
		w := httptest.NewRecorder()
		body := types.TripSearchQuery{
			OriginLocationCode:      "MAD",
			DestinationLocationCode: "BCN",
			DepartureDate:           "2030-05-01",
			Adults:                  1,
			CityCode:                "BCN",
			CheckInDate:             "2030-05-05",
			CheckOutDate:            "2030-05-01",
			VehicleLocation:         "BCN",
		}
		sbody, _ := json.Marshal(&body)
		req, _ := http.NewRequest("POST", "/api/v1/trip-search", strings.NewReader(string(sbody)))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		assert.Equal(s.T(), string(types.ErrValidation), gjson.GetBytes(rbytes, "kind").String())
	})
}

func (s *TestSuite) TestAcceptMissingTrip() {
	mock := *s.Mock
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.*)").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := common.AcceptTrip("22222222-2222-2222-2222-222222222222")
	assert.NotNil(s.T(), err)
	apiErr := types.AsAPIError(err)
	assert.Equal(s.T(), types.ErrNotFound, apiErr.Kind)
	assert.Equal(s.T(), http.StatusNotFound, apiErr.Status())

	if err := mock.ExpectationsWereMet(); err != nil {
		s.T().Errorf("unmet expectations: %s", err)
	}
}

func (s *TestSuite) TestAcceptTerminalTrip() {
	mock := *s.Mock
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.*)").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "user_email", "origin", "destination", "status", "confirmed", "total_price", "currency"}).
			AddRow("33333333-3333-3333-3333-333333333333", "11111111-1111-1111-1111-111111111111", "someone@example.com", "MAD", "BCN", "accepted", true, 350.0, "EUR"))
	mock.ExpectCommit()

	res, err := common.AcceptTrip("33333333-3333-3333-3333-333333333333")
	assert.Nil(s.T(), err)
	assert.False(s.T(), res.Changed)
	assert.Nil(s.T(), res.Ticket)
	assert.Equal(s.T(), types.TRIP_ACCEPTED, res.Trip.Status)
	assert.Equal(s.T(), "trip already accepted", res.Detail)

	if err := mock.ExpectationsWereMet(); err != nil {
		s.T().Errorf("unmet expectations: %s", err)
	}
}

func (s *TestSuite) TestAcceptWithoutSelections() {
	mock := *s.Mock
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.*)").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "user_email", "origin", "destination", "status"}).
			AddRow("44444444-4444-4444-4444-444444444444", "11111111-1111-1111-1111-111111111111", "someone@example.com", "MAD", "BCN", "pending"))
	mock.ExpectRollback()

	res, err := common.AcceptTrip("44444444-4444-4444-4444-444444444444")
	assert.Nil(s.T(), res)
	assert.NotNil(s.T(), err)
	apiErr := types.AsAPIError(err)
	assert.Equal(s.T(), types.ErrValidation, apiErr.Kind)
	assert.Equal(s.T(), http.StatusBadRequest, apiErr.Status())

	if err := mock.ExpectationsWereMet(); err != nil {
		s.T().Errorf("unmet expectations: %s", err)
	}
}

func (s *TestSuite) TestRejectMissingTrip() {
	mock := *s.Mock
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.*)").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := common.RejectTrip("22222222-2222-2222-2222-222222222222")
	assert.NotNil(s.T(), err)
	apiErr := types.AsAPIError(err)
	assert.Equal(s.T(), types.ErrNotFound, apiErr.Kind)

	if err := mock.ExpectationsWereMet(); err != nil {
		s.T().Errorf("unmet expectations: %s", err)
	}
}

func (s *TestSuite) TestRejectTerminalTrip() {
	mock := *s.Mock
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.*)").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "user_email", "origin", "destination", "status", "confirmed"}).
			AddRow("55555555-5555-5555-5555-555555555555", "11111111-1111-1111-1111-111111111111", "someone@example.com", "MAD", "BCN", "rejected", false))
	mock.ExpectCommit()

	res, err := common.RejectTrip("55555555-5555-5555-5555-555555555555")
	assert.Nil(s.T(), err)
	assert.False(s.T(), res.Changed)
	assert.Equal(s.T(), types.TRIP_REJECTED, res.Trip.Status)
	assert.Equal(s.T(), "trip already rejected", res.Detail)

	if err := mock.ExpectationsWereMet(); err != nil {
		s.T().Errorf("unmet expectations: %s", err)
	}
}

func (s *TestSuite) TestWebhookSignature() {
	router := setupRouter()
	stripeWebhookRoute(router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/webhook/stripe", strings.NewReader(`{"type":"payment_intent.succeeded"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=bad")
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 400, w.Code, fmt.Sprintf("unsigned webhook payload must be rejected, got %d", w.Code))
}

func TestRunner(t *testing.T) {
	suite.Run(t, new(TestSuite))
}
