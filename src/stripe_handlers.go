package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"bucketlistt/src/lib"
	"bucketlistt/src/types"
	"bucketlistt/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

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
		case "checkout.session.completed":
			var cs stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				break
			}
			id := cs.Metadata["bookingId"]
			atoi, err := strconv.Atoi(id)
			if err != nil {
				log.Printf("Could not retrieve booking id for session %s: %s\n", cs.ID, err.Error())
				break
			}
			bookingID := uint(atoi)
			go func() {
				booking, err := utils.ConfirmBooking(bookingID, &cs.ID)
				if err != nil {
					log.Printf("Error confirming booking %d: %s\n", bookingID, err.Error())
					return
				}
				notifyBookingConfirmed(booking.ID)
			}()
		case "checkout.session.expired":
			var cs stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				break
			}
			id := cs.Metadata["bookingId"]
			atoi, err := strconv.Atoi(id)
			if err != nil {
				break
			}
			go utils.ExpirePendingBooking(uint(atoi), "")
		}
		ctx.Status(http.StatusOK)
	})
	return apiv1
}

func stripeCheckoutHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings/:id/checkout", func(ctx *gin.Context) {
			booking, ok := ownBooking(ctx)
			if !ok {
				return
			}
			if booking.Status != types.BOOKING_PENDING {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "booking is not awaiting payment"})
				return
			}
			appHost := os.Getenv("APP_HOST")
			sc := lib.GetStripeClient()
			amount := int64(booking.DueAmount * 100)
			params := stripe.CheckoutSessionCreateParams{
				Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
				LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
					{
						PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
							Currency:   stripe.String(booking.Currency),
							UnitAmount: stripe.Int64(amount),
							ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
								Name: stripe.String(fmt.Sprintf("%s - %s", booking.Experience.Title, booking.Activity.Name)),
							},
						},
						Quantity: stripe.Int64(1),
					},
				},
				SuccessURL: stripe.String(fmt.Sprintf("%s/bookings/%d?payment=success", appHost, booking.ID)),
				CancelURL:  stripe.String(fmt.Sprintf("%s/bookings/%d?payment=canceled", appHost, booking.ID)),
				Metadata: map[string]string{
					"bookingId": fmt.Sprint(booking.ID),
				},
			}
			session, err := sc.V1CheckoutSessions.Create(context.Background(), &params)
			if err != nil {
				log.Printf("Error creating checkout session for booking %d: %s\n", booking.ID, err.Error())
				ctx.JSON(http.StatusBadGateway, gin.H{"error": "could not start payment"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"url": session.URL, "session_id": session.ID})
		})
	return g
}
