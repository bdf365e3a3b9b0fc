package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"bucketlistt/src/config"
	"bucketlistt/src/db"
	"bucketlistt/src/models"
	"bucketlistt/src/models/scopes"
	"bucketlistt/src/types"
	"bucketlistt/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func activityPublicHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/activities/:id/availability", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var query struct {
				Date      string `form:"date" binding:"required"`
				PartySize uint   `form:"party_size" binding:"required,gt=0"`
			}
			if err := ctx.BindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			date, err := time.ParseInLocation(config.DATE_FORMAT, query.Date, config.IST)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
				return
			}
			slots, err := utils.GetActivityAvailability(params.ID, date, query.PartySize)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": slots, "count": len(slots)})
		}).
		GET("/time-slots", func(ctx *gin.Context) {
			var query struct {
				Name string `form:"name" binding:"required"`
				Date string `form:"date"`
			}
			if err := ctx.BindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			date := utils.TodayIST(time.Now())
			if query.Date != "" {
				parsed, err := time.ParseInLocation(config.DATE_FORMAT, query.Date, config.IST)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
					return
				}
				date = parsed
			}
			options, err := utils.GetTimeSlotOptions(query.Name, date)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("Error retrieving time slots for [%s]: %s\n", query.Name, err.Error())
			}
			// unknown activities answer with an empty list, not an error
			ctx.JSON(http.StatusOK, gin.H{"options": options})
		})
	return g
}

func activityVendorHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/experiences/:id/activities", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.CreateActivityRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			experience, ok := vendorOwnedExperience(ctx, params.ID)
			if !ok {
				return
			}
			db := db.GetDb()
			activity := models.Activity{
				ExperienceID:    experience.ID,
				Name:            body.Name,
				Price:           body.Price,
				DiscountedPrice: body.DiscountedPrice,
			}
			if err := db.Create(&activity).Error; err != nil {
				log.Printf("Error creating Activity: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": activity})
		}).
		PUT("/activities/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body struct {
				Name            *string  `json:"name,omitempty"`
				Price           *float64 `json:"price,omitempty" binding:"omitempty,gt=0"`
				DiscountedPrice *float64 `json:"discounted_price,omitempty" binding:"omitempty,gt=0"`
				IsActive        *bool    `json:"is_active,omitempty"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			activity, ok := vendorOwnedActivity(ctx, params.ID)
			if !ok {
				return
			}
			updates := map[string]any{}
			if body.Name != nil {
				updates["name"] = *body.Name
			}
			if body.Price != nil {
				updates["price"] = *body.Price
			}
			if body.DiscountedPrice != nil {
				updates["discounted_price"] = *body.DiscountedPrice
			}
			if body.IsActive != nil {
				updates["is_active"] = *body.IsActive
			}
			db := db.GetDb()
			if err := db.
				Model(&models.Activity{}).
				Scopes(scopes.WithID(activity.ID)).
				Updates(updates).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusOK)
		}).
		DELETE("/activities/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			activity, ok := vendorOwnedActivity(ctx, params.ID)
			if !ok {
				return
			}
			db := db.GetDb()
			if err := db.Delete(&models.Activity{}, activity.ID).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/activities/:id/time-slots", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.CreateTimeSlotRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if body.EndTime <= body.StartTime {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be after start_time"})
				return
			}
			activity, ok := vendorOwnedActivity(ctx, params.ID)
			if !ok {
				return
			}
			db := db.GetDb()
			slot := models.TimeSlot{
				ActivityID:   activity.ID,
				ExperienceID: activity.ExperienceID,
				StartTime:    body.StartTime,
				EndTime:      body.EndTime,
				Capacity:     body.Capacity,
			}
			if err := db.Create(&slot).Error; err != nil {
				log.Printf("Error creating TimeSlot: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": slot})
		}).
		PUT("/time-slots/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body struct {
				StartTime *string `json:"start_time,omitempty" binding:"omitempty,slottime"`
				EndTime   *string `json:"end_time,omitempty" binding:"omitempty,slottime"`
				Capacity  *uint   `json:"capacity,omitempty" binding:"omitempty,gt=0"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var slot models.TimeSlot
			if err := db.Scopes(scopes.WithID(params.ID)).First(&slot).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			if _, ok := vendorOwnedActivity(ctx, slot.ActivityID); !ok {
				return
			}
			start, end := slot.StartTime, slot.EndTime
			updates := map[string]any{}
			if body.StartTime != nil {
				start = *body.StartTime
				updates["start_time"] = start
			}
			if body.EndTime != nil {
				end = *body.EndTime
				updates["end_time"] = end
			}
			if body.Capacity != nil {
				updates["capacity"] = *body.Capacity
			}
			if end <= start {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be after start_time"})
				return
			}
			if len(updates) == 0 {
				ctx.Status(http.StatusOK)
				return
			}
			if err := db.
				Model(&models.TimeSlot{}).
				Scopes(scopes.WithID(slot.ID)).
				Updates(updates).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusOK)
		}).
		DELETE("/time-slots/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var slot models.TimeSlot
			if err := db.Scopes(scopes.WithID(params.ID)).First(&slot).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			if _, ok := vendorOwnedActivity(ctx, slot.ActivityID); !ok {
				return
			}
			if err := db.Delete(&models.TimeSlot{}, slot.ID).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

func vendorOwnedActivity(ctx *gin.Context, id uint) (*models.Activity, bool) {
	db := db.GetDb()
	var activity models.Activity
	if err := db.Scopes(scopes.WithID(id)).First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Status(http.StatusNotFound)
			return nil, false
		}
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return nil, false
	}
	if _, ok := vendorOwnedExperience(ctx, activity.ExperienceID); !ok {
		return nil, false
	}
	return &activity, true
}
