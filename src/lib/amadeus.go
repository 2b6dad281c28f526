package lib

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"wayfinder/src/config"
	"wayfinder/src/types"

	"github.com/tidwall/gjson"
)

// ProviderError is returned when the search provider answers with a non-2xx
// status. The body stays server-side; callers map it to an upstream error.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Body)
}

// AmadeusClient talks to the travel-inventory API. Credentials come from the
// injected config, never from package state.
type AmadeusClient struct {
	cfg  config.AmadeusConfig
	http *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func NewAmadeusClient(cfg config.AmadeusConfig) *AmadeusClient {
	return &AmadeusClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *AmadeusClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExp) {
		return c.token, nil
	}
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", &ProviderError{StatusCode: res.StatusCode, Body: string(body)}
	}
	c.token = gjson.GetBytes(body, "access_token").String()
	expiresIn := gjson.GetBytes(body, "expires_in").Int()
	if expiresIn == 0 {
		expiresIn = 1799
	}
	c.tokenExp = time.Now().Add(time.Duration(expiresIn-60) * time.Second)
	return c.token, nil
}

func (c *AmadeusClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, &ProviderError{StatusCode: res.StatusCode, Body: string(body)}
	}
	return body, nil
}

// SearchFlightOffers queries the flight-offers endpoint and maps the provider
// payload into local offer records.
func (c *AmadeusClient) SearchFlightOffers(ctx context.Context, params *types.FlightSearchQuery) ([]types.FlightOffer, error) {
	query := url.Values{}
	query.Set("originLocationCode", params.OriginLocationCode)
	query.Set("destinationLocationCode", params.DestinationLocationCode)
	query.Set("departureDate", params.DepartureDate)
	if params.ReturnDate != nil {
		query.Set("returnDate", *params.ReturnDate)
	}
	query.Set("adults", strconv.Itoa(params.Adults))
	max := params.Max
	if max == 0 {
		max = 5
	}
	query.Set("max", strconv.Itoa(max))

	body, err := c.get(ctx, "/v2/shopping/flight-offers", query)
	if err != nil {
		return nil, err
	}

	offers := []types.FlightOffer{}
	gjson.GetBytes(body, "data").ForEach(func(_, offer gjson.Result) bool {
		itineraries := []types.FlightItinerary{}
		offer.Get("itineraries").ForEach(func(_, itinerary gjson.Result) bool {
			segments := []types.FlightSegment{}
			itinerary.Get("segments").ForEach(func(_, segment gjson.Result) bool {
				var aircraftCode *string
				if code := segment.Get("aircraft.code"); code.Exists() {
					s := code.String()
					aircraftCode = &s
				}
				segments = append(segments, types.FlightSegment{
					DepartureAirport: segment.Get("departure.iataCode").String(),
					DepartureTime:    segment.Get("departure.at").String(),
					ArrivalAirport:   segment.Get("arrival.iataCode").String(),
					ArrivalTime:      segment.Get("arrival.at").String(),
					CarrierCode:      segment.Get("carrierCode").String(),
					FlightNumber:     segment.Get("number").String(),
					AircraftCode:     aircraftCode,
					Duration:         segment.Get("duration").String(),
				})
				return true
			})
			itineraries = append(itineraries, types.FlightItinerary{
				Duration: itinerary.Get("duration").String(),
				Segments: segments,
			})
			return true
		})
		offers = append(offers, types.FlightOffer{
			ID:     offer.Get("id").String(),
			Source: offer.Get("source").String(),
			Price: types.FlightPrice{
				Total:    offer.Get("price.total").String(),
				Currency: offer.Get("price.currency").String(),
			},
			Itineraries: itineraries,
		})
		return true
	})
	return offers, nil
}

// HotelsByCity queries the hotels-by-city reference endpoint.
func (c *AmadeusClient) HotelsByCity(ctx context.Context, cityCode string) ([]types.HotelInfo, error) {
	query := url.Values{}
	query.Set("cityCode", cityCode)

	body, err := c.get(ctx, "/v1/reference-data/locations/hotels/by-city", query)
	if err != nil {
		return nil, err
	}

	hotels := []types.HotelInfo{}
	gjson.GetBytes(body, "data").ForEach(func(_, hotel gjson.Result) bool {
		hotels = append(hotels, types.HotelInfo{
			HotelID:   hotel.Get("hotelId").String(),
			Name:      hotel.Get("name").String(),
			CityCode:  hotel.Get("cityCode").String(),
			Latitude:  hotel.Get("geoCode.latitude").Float(),
			Longitude: hotel.Get("geoCode.longitude").Float(),
			Available: true,
		})
		return true
	})
	return hotels, nil
}
