package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path"

	"bucketlistt/src/db"
	awslib "bucketlistt/src/lib/aws"
	"bucketlistt/src/models"
	"bucketlistt/src/models/scopes"
	"bucketlistt/src/types"
	"bucketlistt/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func experiencePublicHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/experiences", func(ctx *gin.Context) {
			var query struct {
				DestinationID *uint   `form:"destination_id"`
				Location      *string `form:"location"`
			}
			if err := ctx.BindQuery(&query); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			q := db.Scopes(scopes.Active).Preload("Images").Order("title ASC")
			if query.DestinationID != nil {
				q = q.Where("destination_id = ?", *query.DestinationID)
			}
			if query.Location != nil {
				q = q.Where("location ILIKE ?", fmt.Sprintf("%%%s%%", *query.Location))
			}
			var experiences []models.Experience
			if err := q.Find(&experiences).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			for i := range experiences {
				quote := utils.ResolvePricing(&experiences[i], nil)
				experiences[i].Pricing = &quote
			}
			ctx.JSON(http.StatusOK, gin.H{"data": experiences, "count": len(experiences)})
		}).
		GET("/experiences/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var experience models.Experience
			if err := db.
				Scopes(scopes.WithID(params.ID)).
				Preload("Images").
				Preload("Destination").
				Preload("Activities", scopes.Active).
				Preload("Activities.TimeSlots").
				First(&experience).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			quote := utils.ResolvePricing(&experience, nil)
			experience.Pricing = &quote
			for i := range experience.Activities {
				aq := utils.ResolvePricing(&experience, &experience.Activities[i])
				experience.Activities[i].Pricing = &aq
			}
			ctx.JSON(http.StatusOK, gin.H{"data": experience})
		})
	return g
}

func experienceVendorHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/experiences", func(ctx *gin.Context) {
			var body types.CreateExperienceRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			vendorID := ctx.GetUint("id")
			db := db.GetDb()
			experience := models.Experience{
				Title:         body.Title,
				Description:   body.Description,
				Location:      body.Location,
				Price:         body.Price,
				OriginalPrice: body.OriginalPrice,
				Currency:      body.Currency,
				VendorID:      vendorID,
				DestinationID: body.DestinationID,
				Slug: utils.UniqueSlug(body.Title, func(s string) bool {
					var count int64
					db.Model(&models.Experience{}).Where("slug = ?", s).Count(&count)
					return count > 0
				}),
			}
			if err := db.Create(&experience).Error; err != nil {
				log.Printf("Error creating Experience: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": experience})
		}).
		PUT("/experiences/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateExperienceRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			experience, ok := vendorOwnedExperience(ctx, params.ID)
			if !ok {
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
			if body.Price != nil {
				updates["price"] = *body.Price
			}
			if body.OriginalPrice != nil {
				updates["original_price"] = *body.OriginalPrice
			}
			if body.IsActive != nil {
				updates["is_active"] = *body.IsActive
			}
			db := db.GetDb()
			if err := db.
				Model(&models.Experience{}).
				Scopes(scopes.WithID(experience.ID)).
				Updates(updates).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusOK)
		}).
		DELETE("/experiences/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			experience, ok := vendorOwnedExperience(ctx, params.ID)
			if !ok {
				return
			}
			db := db.GetDb()
			if err := db.Delete(&models.Experience{}, experience.ID).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/experiences/:id/images", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			experience, ok := vendorOwnedExperience(ctx, params.ID)
			if !ok {
				return
			}
			file, err := ctx.FormFile("image")
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			src, err := file.Open()
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			defer src.Close()
			ext := path.Ext(file.Filename)
			name := fmt.Sprintf("experiences/%d/%s%s", experience.ID, uuid.NewString(), ext)
			url, err := awslib.S3UploadAsset(name, src, file.Header.Get("Content-Type"))
			if err != nil {
				log.Printf("Error uploading asset to S3 bucket: %s\n", err.Error())
				ctx.JSON(http.StatusBadGateway, gin.H{"error": "could not store image"})
				return
			}
			db := db.GetDb()
			var position int64
			db.Model(&models.ExperienceImage{}).Where("experience_id = ?", experience.ID).Count(&position)
			image := models.ExperienceImage{
				ExperienceID: experience.ID,
				URL:          name,
				Position:     uint(position),
			}
			if err := db.Create(&image).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": image, "url": url})
		})
	return g
}

// vendorOwnedExperience loads the experience and aborts unless the
// caller owns it or is an admin.
func vendorOwnedExperience(ctx *gin.Context, id uint) (*models.Experience, bool) {
	db := db.GetDb()
	var experience models.Experience
	if err := db.Scopes(scopes.WithID(id)).First(&experience).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Status(http.StatusNotFound)
			return nil, false
		}
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return nil, false
	}
	userID := ctx.GetUint("id")
	roles := ctx.GetStringSlice("roles")
	isAdmin := false
	for _, r := range roles {
		if r == types.ROLE_ADMIN {
			isAdmin = true
		}
	}
	if experience.VendorID != userID && !isAdmin {
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return nil, false
	}
	return &experience, true
}
