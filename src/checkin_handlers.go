package main

import (
	"errors"
	"log"
	"net/http"
	"ngocms/src/common"
	"ngocms/src/middlewares"
	"ngocms/src/models"
	"ngocms/src/types"
	"ngocms/src/utils"

	"github.com/gin-gonic/gin"
)

func checkInError(ctx *gin.Context, err error, ticket *models.Ticket) {
	switch {
	case errors.Is(err, common.ErrTicketNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, common.ErrWrongEvent):
		ctx.JSON(http.StatusForbidden, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, common.ErrTicketCancelled):
		ctx.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, common.ErrAlreadyCheckedIn):
		payload := gin.H{"success": false, "error": err.Error()}
		if ticket != nil {
			payload["attendeeName"] = ticket.AttendeeName
			payload["checkedInAt"] = ticket.CheckedInAt
		}
		ctx.JSON(http.StatusBadRequest, payload)
	default:
		log.Printf("Error on Ticket check-in: %s\n", err.Error())
		ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Check-in failed"})
	}
}

// publicCheckInRoutes serves the QR scanning stations. The route is guarded
// by a scoped station token whenever CHECKIN_STATION_SECRET is configured.
func publicCheckInRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events/:id/check-in", middlewares.StationTokenGuard, func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			var body types.QRCheckInRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			key, err := utils.QRCodeKey()
			if err != nil {
				log.Printf("Could not read QR secret: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Check-in failed"})
				return
			}
			ticketId, err := utils.DecodeTicketCode(key, body.QRData)
			if err != nil {
				log.Printf("Error decoding scan payload: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid QR code"})
				return
			}
			ticket, err := common.CheckInTicket(params.ID, ticketId, "qr-station")
			if err != nil {
				checkInError(ctx, err, ticket)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": ticket})
		})
	return g
}

func adminCheckInHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/events/:id/check-in/manual", middlewares.RequireRole(types.ROLE_EDITOR), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			var body types.ManualCheckInRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			actor := ctx.GetString("email")
			ticket, err := common.CheckInTicket(params.ID, body.TicketID, actor)
			if err != nil {
				checkInError(ctx, err, ticket)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": ticket})
		}).
		GET("/events/:id/check-in/search", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var query struct {
				Q string `form:"q" binding:"required"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			tickets, err := common.SearchTickets(params.ID, query.Q)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tickets})
		}).
		GET("/events/:id/check-in/stats", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			stats, err := common.GetCheckInStats(params.ID)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not compute stats"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": stats})
		})
	return g
}
