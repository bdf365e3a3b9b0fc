package main

import (
	"errors"
	"log"
	"net/http"

	"bucketlistt/src/db"
	"bucketlistt/src/models"
	"bucketlistt/src/models/scopes"
	"bucketlistt/src/types"
	"bucketlistt/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func destinationPublicHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/destinations", func(ctx *gin.Context) {
			db := db.GetDb()
			var destinations []models.Destination
			if err := db.
				Scopes(scopes.Active).
				Order("name ASC").
				Find(&destinations).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": destinations, "count": len(destinations)})
		}).
		GET("/destinations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var destination models.Destination
			if err := db.
				Scopes(scopes.WithID(params.ID)).
				Preload("Experiences", scopes.Active).
				First(&destination).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": destination})
		})
	return g
}

func destinationAdminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/destinations", func(ctx *gin.Context) {
			var body types.CreateDestinationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			destination := models.Destination{
				Name:        body.Name,
				Description: body.Description,
				ImageURL:    body.ImageURL,
				Slug: utils.UniqueSlug(body.Name, func(s string) bool {
					var count int64
					db.Model(&models.Destination{}).Where("slug = ?", s).Count(&count)
					return count > 0
				}),
			}
			if err := db.Create(&destination).Error; err != nil {
				log.Printf("Error creating Destination: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": destination})
		}).
		PUT("/destinations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body struct {
				Name        *string `json:"name,omitempty"`
				Description *string `json:"description,omitempty"`
				ImageURL    *string `json:"image_url,omitempty"`
				IsActive    *bool   `json:"is_active,omitempty"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			updates := map[string]any{}
			if body.Name != nil {
				updates["name"] = *body.Name
			}
			if body.Description != nil {
				updates["description"] = *body.Description
			}
			if body.ImageURL != nil {
				updates["image_url"] = *body.ImageURL
			}
			if body.IsActive != nil {
				updates["is_active"] = *body.IsActive
			}
			db := db.GetDb()
			res := db.Model(&models.Destination{}).Scopes(scopes.WithID(params.ID)).Updates(updates)
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
		DELETE("/destinations/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			if err := db.Scopes(scopes.WithID(params.ID)).Delete(&models.Destination{}).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
