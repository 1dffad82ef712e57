package main

import (
	"errors"
	"log"
	"net/http"
	"ngocms/src/common"
	"ngocms/src/db"
	"ngocms/src/models"
	"ngocms/src/models/scopes"
	"ngocms/src/types"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// publicDonationRoutes exposes the donation intake and payment verification
// flow. None of these routes require authentication: donors are anonymous
// visitors, and the gateway callback carries its own HMAC signature.
func publicDonationRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/donations", func(ctx *gin.Context) {
			var body types.CreateDonationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			donationId, err := common.CreateDonation(&body)
			if err != nil {
				log.Printf("Error creating Donation: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"donationId": donationId, "status": types.DONATION_PENDING}})
		}).
		POST("/payment/create-order", func(ctx *gin.Context) {
			var body types.CreateOrderRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			donationId, err := uuid.Parse(body.DonationID)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid donation id"})
				return
			}
			orderId, amount, err := common.CreateGatewayOrder(donationId, body.Currency, body.Notes)
			if err != nil {
				switch {
				case errors.Is(err, common.ErrDonationNotFound):
					ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
				case errors.Is(err, common.ErrDonationCompleted),
					errors.Is(err, common.ErrDonationCancelled),
					errors.Is(err, common.ErrDonationFailed):
					ctx.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
				default:
					log.Printf("Error creating gateway order: %s\n", err.Error())
					ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not create payment order"})
				}
				return
			}
			currency := body.Currency
			if currency == "" {
				currency = "INR"
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
				"orderId":  orderId,
				"amount":   amount,
				"currency": currency,
				"keyId":    os.Getenv("RAZORPAY_KEY_ID"),
			}})
		}).
		POST("/payment/verify", func(ctx *gin.Context) {
			var body types.VerifyPaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			donation, err := common.VerifyPayment(body.OrderID, body.PaymentID, body.Signature)
			if err != nil {
				switch {
				case errors.Is(err, common.ErrSignatureMismatch):
					ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				case errors.Is(err, common.ErrDonationNotFound):
					ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
				case errors.Is(err, common.ErrDonationCompleted),
					errors.Is(err, common.ErrDonationCancelled),
					errors.Is(err, common.ErrDonationFailed):
					ctx.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
				default:
					log.Printf("Error verifying payment: %s\n", err.Error())
					ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Payment verification failed"})
				}
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"donationId": donation.ID, "status": donation.Status}})
		}).
		GET("/payment/donations/:id", func(ctx *gin.Context) {
			var params types.UUIDRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			view, err := common.GetDonationForCheckout(uuid.MustParse(params.ID))
			if err != nil {
				switch {
				case errors.Is(err, common.ErrDonationNotFound):
					ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
				case errors.Is(err, common.ErrDonationCompleted):
					ctx.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
				default:
					ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not load donation"})
				}
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": view})
		})
	return g
}

func adminDonationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/donations", func(ctx *gin.Context) {
			var query struct {
				Status string `form:"status"`
				Limit  int    `form:"limit,default=50"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tx := db.GetDb().Model(&models.Donation{}).Order("created_at desc").Limit(query.Limit)
			if query.Status != "" {
				tx = tx.Scopes(scopes.WithStatus(query.Status))
			}
			var donations []models.Donation
			if err := tx.Find(&donations).Error; err != nil {
				log.Printf("Error listing Donations: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list donations"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": donations})
		})
	return g
}
