package main

import (
	"errors"
	"net/http"

	"bucketlistt/src/db"
	"bucketlistt/src/models"
	"bucketlistt/src/types"
	"bucketlistt/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func blogPublicHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/blogs", func(ctx *gin.Context) {
			db := db.GetDb()
			var blogs []models.Blog
			if err := db.
				Where("published = ?", true).
				Order("created_at DESC").
				Limit(50).
				Find(&blogs).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": blogs, "count": len(blogs)})
		}).
		GET("/blogs/:slug", func(ctx *gin.Context) {
			var params struct {
				Slug string `uri:"slug" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var blog models.Blog
			if err := db.
				Where("slug = ? AND published = ?", params.Slug, true).
				First(&blog).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": blog})
		})
	return g
}

func blogAdminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/blogs", func(ctx *gin.Context) {
			var body types.CreateBlogRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			blog := models.Blog{
				Title:     body.Title,
				Content:   body.Content,
				AuthorID:  ctx.GetUint("id"),
				Published: body.Publish,
				Slug: utils.UniqueSlug(body.Title, func(s string) bool {
					var count int64
					db.Model(&models.Blog{}).Where("slug = ?", s).Count(&count)
					return count > 0
				}),
			}
			if err := db.Create(&blog).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": blog})
		}).
		PUT("/blogs/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body struct {
				Title     *string `json:"title,omitempty"`
				Content   *string `json:"content,omitempty"`
				Published *bool   `json:"published,omitempty"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			updates := map[string]any{}
			if body.Title != nil {
				updates["title"] = *body.Title
			}
			if body.Content != nil {
				updates["content"] = *body.Content
			}
			if body.Published != nil {
				updates["published"] = *body.Published
			}
			db := db.GetDb()
			res := db.Model(&models.Blog{}).Where("id = ?", params.ID).Updates(updates)
			if res.Error != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": res.Error.Error()})
				return
			}
			if res.RowsAffected == 0 {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.Status(http.StatusOK)
		}).
		DELETE("/blogs/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			if err := db.Delete(&models.Blog{}, params.ID).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
