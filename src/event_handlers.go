package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"ngocms/src/db"
	"ngocms/src/lib"
	"ngocms/src/middlewares"
	"ngocms/src/models"
	"ngocms/src/models/scopes"
	"ngocms/src/types"
	"ngocms/src/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const eventListCacheKey = "events:published"

func invalidateEventCache() {
	rdb := lib.GetRedisClient()
	if err := rdb.Del(context.Background(), eventListCacheKey).Err(); err != nil {
		log.Printf("Error invalidating event cache: %s\n", err.Error())
	}
}

// publicEventRoutes lists published events. The list is cached in redis for
// a minute; writes from the admin surface invalidate it.
func publicEventRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			rdb := lib.GetRedisClient()
			if cached, err := rdb.Get(ctx, eventListCacheKey).Result(); err == nil {
				var events []models.Event
				if err := json.Unmarshal([]byte(cached), &events); err == nil {
					ctx.JSON(http.StatusOK, gin.H{"data": events})
					return
				}
			}
			var events []models.Event
			if err := db.GetDb().
				Scopes(scopes.Published).
				Preload("TicketTypes").
				Order("starts_at asc").
				Find(&events).Error; err != nil {
				log.Printf("Error listing Events: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list events"})
				return
			}
			if raw, err := json.Marshal(events); err == nil {
				rdb.Set(ctx, eventListCacheKey, raw, time.Minute)
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events})
		}).
		GET("/events/:slug", func(ctx *gin.Context) {
			var params types.SlugRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var event models.Event
			if err := db.GetDb().
				Scopes(scopes.Published).
				Preload("TicketTypes", func(tx *gorm.DB) *gorm.DB { return tx.Order("rank asc") }).
				Where("slug = ?", params.Slug).
				First(&event).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load event"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		})
	return g
}

func adminEventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			var events []models.Event
			if err := db.GetDb().Preload("TicketTypes").Order("created_at desc").Find(&events).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list events"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events})
		}).
		POST("/events", middlewares.RequireRole(types.ROLE_EDITOR), func(ctx *gin.Context) {
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			startsAt, err := utils.ParseEventTime(body.StartsAt)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			status := types.EVENT_DRAFT
			if body.Publish {
				status = types.EVENT_PUBLISHED
			}
			event := models.Event{
				Title:       body.Title,
				Slug:        slug.Make(body.Title),
				Description: &body.Description,
				Location:    body.Location,
				StartsAt:    startsAt,
				Status:      status,
				CreatedBy:   ctx.GetUint("id"),
			}
			if body.EndsAt != nil {
				endsAt, err := utils.ParseEventTime(*body.EndsAt)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				event.EndsAt = endsAt
			}
			if err := db.GetDb().Create(&event).Error; err != nil {
				log.Printf("Error creating Event: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Could not create event"})
				return
			}
			invalidateEventCache()
			ctx.JSON(http.StatusCreated, gin.H{"data": event})
		}).
		PATCH("/events/:id", middlewares.RequireRole(types.ROLE_EDITOR), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			updates := map[string]any{}
			if body.Title != nil {
				updates["title"] = *body.Title
			}
			if body.Description != nil {
				updates["description"] = *body.Description
			}
			if body.Location != nil {
				updates["location"] = *body.Location
			}
			if body.Status != nil {
				status := types.EventStatus(*body.Status)
				switch status {
				case types.EVENT_DRAFT, types.EVENT_PUBLISHED, types.EVENT_COMPLETED, types.EVENT_CANCELED:
					updates["status"] = status
				default:
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown event status"})
					return
				}
			}
			if len(updates) == 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
				return
			}
			result := db.GetDb().Model(&models.Event{}).Scopes(scopes.WithID(params.ID)).Updates(updates)
			if result.Error != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update event"})
				return
			}
			if result.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
				return
			}
			invalidateEventCache()
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"updated": true}})
		}).
		POST("/events/:id/ticket-types", middlewares.RequireRole(types.ROLE_EDITOR), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.CreateTicketTypeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var event models.Event
			if err := db.GetDb().Scopes(scopes.WithID(params.ID)).First(&event).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
				return
			}
			tt := models.TicketType{
				EventID:     event.ID,
				Name:        body.Name,
				Price:       body.Price,
				MinDonation: body.MinDonation,
				MaxDonation: body.MaxDonation,
				Quantity:    body.Quantity,
				Rank:        body.Rank,
			}
			if body.SalesStart != nil {
				t, err := utils.ParseEventTime(*body.SalesStart)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				tt.SalesStart = t
			}
			if body.SalesEnd != nil {
				t, err := utils.ParseEventTime(*body.SalesEnd)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				tt.SalesEnd = t
			}
			if err := db.GetDb().Create(&tt).Error; err != nil {
				log.Printf("Error creating TicketType: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Could not create ticket type"})
				return
			}
			invalidateEventCache()
			ctx.JSON(http.StatusCreated, gin.H{"data": tt})
		}).
		DELETE("/events/:id/ticket-types/:typeId", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			var params struct {
				ID     uint `uri:"id" binding:"required"`
				TypeID uint `uri:"typeId" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var sold int64
			if err := db.GetDb().
				Model(&models.Ticket{}).
				Where("ticket_type_id = ?", params.TypeID).
				Count(&sold).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not check ticket type"})
				return
			}
			if sold > 0 {
				ctx.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Ticket type has %d issued tickets", sold)})
				return
			}
			result := db.GetDb().
				Where("id = ? AND event_id = ?", params.TypeID, params.ID).
				Delete(&models.TicketType{})
			if result.Error != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete ticket type"})
				return
			}
			if result.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Ticket type not found"})
				return
			}
			invalidateEventCache()
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
		})
	return g
}
