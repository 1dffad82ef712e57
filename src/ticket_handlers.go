package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"ngocms/src/db"
	"ngocms/src/lib"
	"ngocms/src/middlewares"
	"ngocms/src/models"
	"ngocms/src/types"
	"ngocms/src/utils"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeqown/go-qrcode"
	"gorm.io/gorm"
)

func adminTicketHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/tickets", middlewares.RequireRole(types.ROLE_EDITOR), func(ctx *gin.Context) {
			var body types.IssueTicketRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var tt models.TicketType
			if err := db.GetDb().
				Where("id = ? AND event_id = ?", body.TicketTypeID, body.EventID).
				First(&tt).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "Ticket type not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not issue ticket"})
				return
			}
			ticket := models.Ticket{
				EventID:       body.EventID,
				TicketTypeID:  body.TicketTypeID,
				OrderNumber:   utils.NewOrderNumber(),
				AttendeeName:  body.AttendeeName,
				AttendeeEmail: body.AttendeeEmail,
				AttendeePhone: body.AttendeePhone,
				Status:        types.TICKET_PENDING,
			}
			if err := db.GetDb().Transaction(func(tx *gorm.DB) error {
				if tt.Quantity > 0 {
					var issued int64
					if err := tx.Model(&models.Ticket{}).
						Where("ticket_type_id = ? AND status <> ?", tt.ID, types.TICKET_CANCELLED).
						Count(&issued).Error; err != nil {
						return err
					}
					if issued >= int64(tt.Quantity) {
						return errors.New("Ticket type sold out")
					}
				}
				return tx.Create(&ticket).Error
			}); err != nil {
				log.Printf("Error issuing Ticket: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": ticket})
		}).
		GET("/tickets/:id/code", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var ticket models.Ticket
			if err := db.GetDb().First(&ticket, params.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "Ticket not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load ticket"})
				return
			}
			rdb := lib.GetRedisClient()
			cacheKey := fmt.Sprintf("ticket:%d:code", ticket.ID)
			if url, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
				ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"url": url}})
				return
			}
			key, err := utils.QRCodeKey()
			if err != nil {
				log.Printf("Could not read QR secret: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate code"})
				return
			}
			payload, err := utils.EncodeTicketCode(key, ticket.ID)
			if err != nil {
				log.Printf("Error encoding ticket payload: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate code"})
				return
			}
			qrc, err := qrcode.New(payload)
			if err != nil {
				log.Printf("Error building QR code: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate code"})
				return
			}
			name := fmt.Sprintf("ticket-%s", ticket.OrderNumber)
			file := fmt.Sprintf("%s/%s.jpeg", os.Getenv("TEMP_DIR"), name)
			if err := qrc.Save(file); err != nil {
				log.Printf("Error rendering QR code: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate code"})
				return
			}
			url, err := lib.S3UploadAsset(name, file)
			if err != nil {
				log.Printf("Error uploading QR code: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate code"})
				return
			}
			rdb.Set(ctx, cacheKey, *url, 45*time.Minute)
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"url": *url}})
		}).
		GET("/events/:id/tickets", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var tickets []models.Ticket
			if err := db.GetDb().
				Preload("TicketType").
				Where("event_id = ?", params.ID).
				Order("created_at desc").
				Find(&tickets).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list tickets"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": tickets})
		}).
		POST("/tickets/:id/cancel", middlewares.RequireRole(types.ROLE_EDITOR), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			result := db.GetDb().
				Model(&models.Ticket{}).
				Where("id = ? AND status = ?", params.ID, types.TICKET_PENDING).
				Update("status", types.TICKET_CANCELLED)
			if result.Error != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not cancel ticket"})
				return
			}
			if result.RowsAffected == 0 {
				ctx.JSON(http.StatusConflict, gin.H{"error": "Ticket cannot be cancelled"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"cancelled": true}})
		})
	return g
}
