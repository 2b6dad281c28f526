package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"

	"wayfinder/src/db"
	"wayfinder/src/lib"
	"wayfinder/src/models"
	"wayfinder/src/types"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/gorm"
)

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/payments/payment-intent", func(ctx *gin.Context) {
			var body types.CreatePaymentIntentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetString("id")
			var trip models.Trip
			database := db.GetDb()
			if err := database.
				Model(&models.Trip{}).
				Where("id = ? AND user_id = ?", body.TripID, userId).
				First(&trip).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					respondAPIError(ctx, types.NewAPIError(types.ErrNotFound, "trip not found", err))
					return
				}
				respondAPIError(ctx, err)
				return
			}
			if trip.TotalPrice <= 0 {
				respondAPIError(ctx, types.NewAPIError(types.ErrValidation, "trip has no payable amount", nil))
				return
			}

			clientSecret, intentId, err := lib.CreateTripPaymentIntent(&trip)
			if err != nil {
				respondAPIError(ctx, types.NewAPIError(types.ErrUpstream, "could not create payment intent", err))
				return
			}

			txn := models.Transaction{
				TripID:          trip.ID,
				Amount:          trip.TotalPrice,
				Currency:        trip.Currency,
				PaymentIntentId: &intentId,
				Status:          types.TRANSACTION_PENDING,
				Metadata: &types.JSONB{
					"trip_id":    trip.ID,
					"user_email": trip.UserEmail,
				},
			}
			err = database.Transaction(func(tx *gorm.DB) error {
				return tx.Create(&txn).Error
			})
			if err != nil {
				log.Printf("Error recording transaction for trip %s: %s\n", trip.ID, err.Error())
				respondAPIError(ctx, err)
				return
			}

			ctx.JSON(http.StatusOK, gin.H{
				"clientSecret": clientSecret,
				"amount":       lib.MinorUnits(trip.TotalPrice),
				"currency":     trip.Currency,
			})
		})
	return g
}

func stripeWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		switch event.Type {
		case "payment_intent.succeeded":
			var pi stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
				log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
				break
			}
			tripId := pi.Metadata["trip_id"]
			go func() {
				db := db.GetDb()
				err := db.Transaction(func(tx *gorm.DB) error {
					return tx.
						Model(&models.Transaction{}).
						Where("payment_intent_id = ? AND trip_id = ? AND status = ?", pi.ID, tripId, types.TRANSACTION_PENDING).
						Update("status", types.TRANSACTION_PAID).
						Error
				})
				if err != nil {
					log.Printf("Error marking transaction paid for trip %s: %s\n", tripId, err.Error())
				}
			}()
		case "payment_intent.payment_failed", "payment_intent.canceled":
			var pi stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
				log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
				break
			}
			tripId := pi.Metadata["trip_id"]
			go func() {
				db := db.GetDb()
				err := db.Transaction(func(tx *gorm.DB) error {
					return tx.
						Model(&models.Transaction{}).
						Where("payment_intent_id = ? AND status = ?", pi.ID, types.TRANSACTION_PENDING).
						Update("status", types.TRANSACTION_CANCELED).
						Error
				})
				if err != nil {
					log.Printf("Error canceling transaction for trip %s: %s\n", tripId, err.Error())
				}
			}()
		}
		ctx.Status(http.StatusNoContent)
	})
	return apiv1
}
