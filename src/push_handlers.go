package main

import (
	"log"
	"net/http"
	"ngocms/src/common"
	"ngocms/src/middlewares"
	"ngocms/src/types"

	"github.com/gin-gonic/gin"
)

func publicPushRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/push/register", func(ctx *gin.Context) {
			var body types.RegisterDeviceRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			if err := common.RegisterDevice(body.Token, body.Topics); err != nil {
				log.Printf("Error registering device: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not register device"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true})
		})
	return g
}

func adminPushHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/push/send", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			var body types.SendPushRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			result, err := common.BroadcastPush(body.Title, body.Body, body.Topic)
			if err != nil {
				log.Printf("Error broadcasting push: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not send push"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": result})
		})
	return g
}
