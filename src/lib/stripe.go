package lib

import (
	"context"
	"fmt"
	"math"
	"os"

	"wayfinder/src/models"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

// NewStripeClient Replace stripe instance with custom client implementation
func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// MinorUnits converts a decimal amount to the currency's minor unit,
// rounding to the nearest cent so float representation error cannot
// understate the charge.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateTripPaymentIntent creates a card PaymentIntent for the trip's total
// price. Amounts are sent in the currency's minor unit.
func CreateTripPaymentIntent(trip *models.Trip) (clientSecret string, intentId string, err error) {
	sc := GetStripeClient()
	params := stripe.PaymentIntentCreateParams{
		Amount:             stripe.Int64(MinorUnits(trip.TotalPrice)),
		Currency:           stripe.String(trip.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Metadata: map[string]string{
			"trip_id": trip.ID,
		},
	}
	intent, err := sc.V1PaymentIntents.Create(context.Background(), &params)
	if err != nil {
		return "", "", fmt.Errorf("error creating payment intent for trip %s: %w", trip.ID, err)
	}
	return intent.ClientSecret, intent.ID, nil
}
