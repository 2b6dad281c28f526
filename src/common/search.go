package common

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"wayfinder/src/config"
	"wayfinder/src/lib"
	"wayfinder/src/types"
)

// FlightProvider is the slice of the travel API the search layer needs.
// *lib.AmadeusClient satisfies it.
type FlightProvider interface {
	SearchFlightOffers(ctx context.Context, params *types.FlightSearchQuery) ([]types.FlightOffer, error)
	HotelsByCity(ctx context.Context, cityCode string) ([]types.HotelInfo, error)
}

const searchCacheTTL = 5 * time.Minute

// mapProviderError folds transport and provider failures into the upstream
// error category so clients never see raw provider payloads.
func mapProviderError(err error) error {
	var perr *lib.ProviderError
	if errors.As(err, &perr) {
		if perr.StatusCode == 400 {
			return types.NewAPIError(types.ErrValidation, "travel provider rejected the search parameters", err)
		}
		return types.NewAPIError(types.ErrUpstream, "travel provider request failed", err)
	}
	return types.NewAPIError(types.ErrUpstream, "travel provider unreachable", err)
}

// SearchFlights proxies a flight-offers search through the provider, caching
// result sets briefly to spare the provider quota.
func SearchFlights(ctx context.Context, provider FlightProvider, params *types.FlightSearchQuery) (*types.FlightSearchResponse, error) {
	returnDate := ""
	if params.ReturnDate != nil {
		returnDate = *params.ReturnDate
	}
	cacheKey := fmt.Sprintf("search:flights:%s:%s:%s:%s:%d:%d",
		params.OriginLocationCode, params.DestinationLocationCode,
		params.DepartureDate, returnDate, params.Adults, params.Max)

	var cached types.FlightSearchResponse
	if lib.GetCachedJSON(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	offers, err := provider.SearchFlightOffers(ctx, params)
	if err != nil {
		return nil, mapProviderError(err)
	}

	currency := ""
	if len(offers) > 0 {
		currency = offers[0].Price.Currency
	}
	response := types.FlightSearchResponse{
		Success:  true,
		Offers:   offers,
		Count:    len(offers),
		Currency: currency,
	}
	lib.CacheJSON(ctx, cacheKey, &response, searchCacheTTL)
	return &response, nil
}

// Nights counts whole nights between check-in and check-out. Anything
// non-positive or unparseable collapses to a single night.
func Nights(checkInDate string, checkOutDate string) int {
	in, errIn := time.Parse(config.DATE_PARSE_FORMAT, checkInDate)
	out, errOut := time.Parse(config.DATE_PARSE_FORMAT, checkOutDate)
	if errIn != nil || errOut != nil {
		return 1
	}
	nights := int(out.Sub(in).Hours() / 24)
	if nights < 1 {
		return 1
	}
	return nights
}

// SearchHotels lists hotels for a city. The provider's reference data carries
// no rates, so each hotel is priced at a flat default rate per night.
func SearchHotels(ctx context.Context, provider FlightProvider, params *types.HotelSearchQuery) (*types.HotelSearchResponse, error) {
	limit := params.Limit
	if limit == 0 {
		limit = 5
	}
	defaultPrice := 100.0
	if params.DefaultPrice != nil {
		defaultPrice = *params.DefaultPrice
	}
	nights := 1
	if params.CheckInDate != nil && params.CheckOutDate != nil {
		nights = Nights(*params.CheckInDate, *params.CheckOutDate)
	}

	cacheKey := fmt.Sprintf("search:hotels:%s", params.CityCode)
	hotels := []types.HotelInfo{}
	if !lib.GetCachedJSON(ctx, cacheKey, &hotels) {
		found, err := provider.HotelsByCity(ctx, params.CityCode)
		if err != nil {
			return nil, mapProviderError(err)
		}
		hotels = found
		lib.CacheJSON(ctx, cacheKey, &hotels, searchCacheTTL)
	}

	if len(hotels) > limit {
		hotels = hotels[:limit]
	}
	n := nights
	for i := range hotels {
		hotels[i].Price = defaultPrice * float64(nights)
		hotels[i].Currency = "EUR"
		hotels[i].Nights = &n
	}
	return &types.HotelSearchResponse{Data: hotels, Count: len(hotels)}, nil
}

var vehicleBrandPools = map[string][]string{
	"MAD": {"Seat Ibiza", "Seat Leon", "Renault Clio", "Peugeot 208", "Toyota Corolla"},
	"BCN": {"Seat Arona", "Fiat 500", "Volkswagen Polo", "Renault Captur", "Hyundai i20"},
	"PAR": {"Peugeot 308", "Renault Megane", "Citroen C3", "DS 4", "Peugeot 2008"},
	"ROM": {"Fiat Panda", "Fiat Tipo", "Alfa Romeo Giulietta", "Lancia Ypsilon", "Fiat 500X"},
}

var vehicleFallbackPool = []string{"Toyota Yaris", "Ford Focus", "Opel Corsa", "Kia Ceed", "Skoda Fabia"}

var vehicleTransmissions = []string{"manual", "automatic"}
var vehicleFuelTypes = []string{"petrol", "diesel", "hybrid"}

// SimulateVehicles synthesizes a rental fleet for a location. There is no
// vehicle endpoint on the provider's test tier, so availability and pricing
// are generated locally with per-city model pools.
func SimulateVehicles(location string, limit int) []types.VehicleInfo {
	if limit == 0 {
		limit = 5
	}
	city := location
	if len(city) > 3 {
		city = city[:3]
	}
	pool, ok := vehicleBrandPools[city]
	if !ok {
		pool = vehicleFallbackPool
	}

	vehicles := make([]types.VehicleInfo, 0, limit)
	for i := 0; i < limit; i++ {
		model := pool[i%len(pool)]
		vehicles = append(vehicles, types.VehicleInfo{
			VehicleID:    fmt.Sprintf("%s-%03d", city, i+1),
			Name:         model,
			CityCode:     city,
			Available:    true,
			PricePerDay:  float64(30 + rand.Intn(91)),
			Currency:     "EUR",
			Brand:        model,
			Model:        model,
			Year:         2019 + rand.Intn(6),
			Seats:        4 + rand.Intn(2),
			Doors:        3 + 2*rand.Intn(2),
			Transmission: vehicleTransmissions[rand.Intn(len(vehicleTransmissions))],
			FuelType:     vehicleFuelTypes[rand.Intn(len(vehicleFuelTypes))],
		})
	}
	return vehicles
}

// SearchVehicles wraps the simulator behind the same response shape the other
// searches use.
func SearchVehicles(params *types.VehicleSearchQuery) *types.VehicleSearchResponse {
	vehicles := SimulateVehicles(params.Location, params.Limit)
	if params.VehicleType != "" {
		filtered := vehicles[:0]
		for _, v := range vehicles {
			if v.VehicleType == "" || v.VehicleType == params.VehicleType {
				v.VehicleType = params.VehicleType
				filtered = append(filtered, v)
			}
		}
		vehicles = filtered
	}
	return &types.VehicleSearchResponse{Data: vehicles, Count: len(vehicles)}
}

func cheapestFlightTotal(offers []types.FlightOffer) float64 {
	best := 0.0
	found := false
	for _, offer := range offers {
		total, err := strconv.ParseFloat(offer.Price.Total, 64)
		if err != nil {
			continue
		}
		if !found || total < best {
			best = total
			found = true
		}
	}
	return best
}

// SearchTrip runs the three searches for one itinerary and sums the cheapest
// option of each into a cost estimate.
func SearchTrip(ctx context.Context, provider FlightProvider, params *types.TripSearchQuery) (*types.TripSearchResponse, error) {
	flights, err := SearchFlights(ctx, provider, &types.FlightSearchQuery{
		OriginLocationCode:      params.OriginLocationCode,
		DestinationLocationCode: params.DestinationLocationCode,
		DepartureDate:           params.DepartureDate,
		ReturnDate:              params.ReturnDate,
		Adults:                  params.Adults,
		Max:                     params.Max,
	})
	if err != nil {
		return nil, err
	}

	hotels, err := SearchHotels(ctx, provider, &types.HotelSearchQuery{
		CityCode:     params.CityCode,
		CheckInDate:  &params.CheckInDate,
		CheckOutDate: &params.CheckOutDate,
		Limit:        params.HotelLimit,
		DefaultPrice: params.DefaultHotelPrice,
	})
	if err != nil {
		return nil, err
	}

	vehicles := SearchVehicles(&types.VehicleSearchQuery{
		Location: params.VehicleLocation,
		Limit:    params.VehicleLimit,
	})

	nights := Nights(params.CheckInDate, params.CheckOutDate)

	summary := types.TripCostSummary{Currency: "EUR"}
	summary.FlightTotal = cheapestFlightTotal(flights.Offers)
	if len(hotels.Data) > 0 {
		cheapest := hotels.Data[0].Price
		for _, h := range hotels.Data[1:] {
			if h.Price < cheapest {
				cheapest = h.Price
			}
		}
		summary.HotelTotal = cheapest
	}
	if len(vehicles.Data) > 0 {
		cheapest := vehicles.Data[0].PricePerDay
		for _, v := range vehicles.Data[1:] {
			if v.PricePerDay < cheapest {
				cheapest = v.PricePerDay
			}
		}
		summary.VehicleTotal = cheapest * float64(nights)
	}
	summary.GrandTotal = summary.FlightTotal + summary.HotelTotal + summary.VehicleTotal

	return &types.TripSearchResponse{
		Flights:  flights.Offers,
		Hotels:   hotels.Data,
		Vehicles: vehicles.Data,
		Summary:  summary,
	}, nil
}
