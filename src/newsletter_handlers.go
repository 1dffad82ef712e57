package main

import (
	"errors"
	"log"
	"net/http"
	"ngocms/src/common"
	"ngocms/src/db"
	"ngocms/src/middlewares"
	"ngocms/src/models"
	"ngocms/src/types"

	"github.com/gin-gonic/gin"
)

func publicNewsletterRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/newsletter/subscribe", func(ctx *gin.Context) {
			var body types.SubscribeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			if err := common.Subscribe(body.Email, body.Name); err != nil {
				log.Printf("Error subscribing [%s]: %s\n", body.Email, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not subscribe"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true})
		}).
		POST("/newsletter/unsubscribe", func(ctx *gin.Context) {
			var body types.SubscribeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			if err := common.Unsubscribe(body.Email); err != nil {
				if errors.Is(err, common.ErrSubscriberNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not unsubscribe"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true})
		})
	return g
}

func adminNewsletterHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/newsletter/subscribers", func(ctx *gin.Context) {
			var subscribers []models.Subscriber
			if err := db.GetDb().Order("subscribed_at desc").Find(&subscribers).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list subscribers"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": subscribers})
		}).
		DELETE("/newsletter/subscribers/:id", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			result := db.GetDb().Delete(&models.Subscriber{}, params.ID)
			if result.Error != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete subscriber"})
				return
			}
			if result.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Subscriber not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
		}).
		POST("/newsletter/send", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			var body types.SendNewsletterRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			result, err := common.SendNewsletter(body.Subject, body.Content, body.TestEmail)
			if err != nil {
				log.Printf("Error sending newsletter: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not send newsletter"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": result})
		})
	return g
}
