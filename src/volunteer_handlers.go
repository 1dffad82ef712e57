package main

import (
	"log"
	"net/http"
	"ngocms/src/db"
	"ngocms/src/middlewares"
	"ngocms/src/models"
	"ngocms/src/types"

	"github.com/gin-gonic/gin"
)

func publicVolunteerRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/volunteers", func(ctx *gin.Context) {
			var body types.VolunteerRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			interests := types.JSONB{}
			for _, i := range body.Interests {
				interests[i] = true
			}
			volunteer := models.Volunteer{
				Name:      body.Name,
				Email:     body.Email,
				Phone:     body.Phone,
				Interests: interests,
				Message:   body.Message,
			}
			if err := db.GetDb().Create(&volunteer).Error; err != nil {
				log.Printf("Error creating Volunteer: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Could not submit application"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"id": volunteer.ID}})
		})
	return g
}

func adminVolunteerHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/volunteers", func(ctx *gin.Context) {
			var volunteers []models.Volunteer
			if err := db.GetDb().Order("created_at desc").Find(&volunteers).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list volunteers"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": volunteers})
		}).
		PATCH("/volunteers/:id", middlewares.RequireRole(types.ROLE_EDITOR), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body struct {
				Status string `json:"status" binding:"required,oneof=new contacted active inactive"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			result := db.GetDb().
				Model(&models.Volunteer{}).
				Where("id = ?", params.ID).
				Update("status", body.Status)
			if result.Error != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update volunteer"})
				return
			}
			if result.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Volunteer not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"updated": true}})
		})
	return g
}
