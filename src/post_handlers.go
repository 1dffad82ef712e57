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
	"ngocms/src/types"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func postListCacheKey(kind types.ContentKind) string {
	return fmt.Sprintf("posts:%s:published", kind)
}

func invalidatePostCache(kind types.ContentKind) {
	rdb := lib.GetRedisClient()
	if err := rdb.Del(context.Background(), postListCacheKey(kind)).Err(); err != nil {
		log.Printf("Error invalidating post cache: %s\n", err.Error())
	}
}

func publicPostRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/posts", func(ctx *gin.Context) {
			var query struct {
				Kind types.ContentKind `form:"kind,default=post"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if !query.Kind.Valid() {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown content kind"})
				return
			}
			rdb := lib.GetRedisClient()
			if cached, err := rdb.Get(ctx, postListCacheKey(query.Kind)).Result(); err == nil {
				var posts []models.Post
				if err := json.Unmarshal([]byte(cached), &posts); err == nil {
					ctx.JSON(http.StatusOK, gin.H{"data": posts})
					return
				}
			}
			var posts []models.Post
			if err := db.GetDb().
				Where("kind = ? AND published_at IS NOT NULL", query.Kind).
				Order("published_at desc").
				Find(&posts).Error; err != nil {
				log.Printf("Error listing Posts: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list posts"})
				return
			}
			if raw, err := json.Marshal(posts); err == nil {
				rdb.Set(ctx, postListCacheKey(query.Kind), raw, time.Minute)
			}
			ctx.JSON(http.StatusOK, gin.H{"data": posts})
		}).
		GET("/posts/:slug", func(ctx *gin.Context) {
			var params types.SlugRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var post models.Post
			if err := db.GetDb().
				Where("slug = ? AND published_at IS NOT NULL", params.Slug).
				First(&post).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load post"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": post})
		})
	return g
}

func adminPostHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/posts", func(ctx *gin.Context) {
			var posts []models.Post
			if err := db.GetDb().Order("created_at desc").Find(&posts).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list posts"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": posts})
		}).
		POST("/posts", middlewares.RequireRole(types.ROLE_EDITOR), func(ctx *gin.Context) {
			var body types.CreatePostRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if !body.Kind.Valid() {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Unknown content kind"})
				return
			}
			post := models.Post{
				Title:    body.Title,
				Slug:     slug.Make(body.Title),
				Kind:     body.Kind,
				Body:     body.Body,
				Excerpt:  body.Excerpt,
				AuthorID: ctx.GetUint("id"),
			}
			if body.Publish {
				now := time.Now()
				post.PublishedAt = &now
			}
			if err := db.GetDb().Create(&post).Error; err != nil {
				log.Printf("Error creating Post: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Could not create post"})
				return
			}
			invalidatePostCache(post.Kind)
			ctx.JSON(http.StatusCreated, gin.H{"data": post})
		}).
		POST("/posts/:id/publish", middlewares.RequireRole(types.ROLE_EDITOR), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var post models.Post
			if err := db.GetDb().First(&post, params.ID).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
				return
			}
			if post.PublishedAt != nil {
				ctx.JSON(http.StatusConflict, gin.H{"error": "Post already published"})
				return
			}
			now := time.Now()
			if err := db.GetDb().Model(&post).Update("published_at", &now).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not publish post"})
				return
			}
			invalidatePostCache(post.Kind)
			ctx.JSON(http.StatusOK, gin.H{"data": post})
		}).
		DELETE("/posts/:id", middlewares.RequireRole(types.ROLE_ADMIN), func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var post models.Post
			if err := db.GetDb().First(&post, params.ID).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
				return
			}
			if err := db.GetDb().Delete(&post).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete post"})
				return
			}
			invalidatePostCache(post.Kind)
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
		})
	return g
}
