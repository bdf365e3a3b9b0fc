package main

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"bucketlistt/src/config"
	"bucketlistt/src/db"
	"bucketlistt/src/models"
	"bucketlistt/src/types"
	"bucketlistt/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func couponPublicHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/coupons/validate", func(ctx *gin.Context) {
			var body types.ValidateCouponRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			coupon, err := utils.LookupCoupon(body.Code, &body.ExperienceID)
			if err != nil {
				status := http.StatusUnprocessableEntity
				if errors.Is(err, utils.ErrCouponNotFound) {
					status = http.StatusNotFound
				}
				ctx.JSON(status, gin.H{"valid": false, "error": err.Error()})
				return
			}
			discount := utils.ApplyCoupon(coupon, body.Amount)
			ctx.JSON(http.StatusOK, gin.H{
				"valid":        true,
				"code":         coupon.Code,
				"type":         coupon.Type,
				"discount":     discount,
				"final_amount": body.Amount - discount,
			})
		})
	return g
}

func couponVendorHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/experiences/:id/coupons", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if _, ok := vendorOwnedExperience(ctx, params.ID); !ok {
				return
			}
			db := db.GetDb()
			var coupons []models.DiscountCoupon
			if err := db.
				Where("experience_id = ?", params.ID).
				Order("created_at DESC").
				Find(&coupons).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": coupons, "count": len(coupons)})
		}).
		POST("/coupons", func(ctx *gin.Context) {
			var body types.CreateCouponRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if body.Type == types.COUPON_PERCENTAGE && body.DiscountValue > 100 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "percentage discount cannot exceed 100"})
				return
			}
			if _, ok := vendorOwnedExperience(ctx, body.ExperienceID); !ok {
				return
			}
			coupon := models.DiscountCoupon{
				ExperienceID:  &body.ExperienceID,
				Code:          strings.ToUpper(strings.TrimSpace(body.Code)),
				Type:          body.Type,
				DiscountValue: body.DiscountValue,
				MaxUses:       body.MaxUses,
			}
			if body.ValidUntil != nil {
				validUntil, err := time.ParseInLocation(config.DATE_FORMAT, *body.ValidUntil, config.IST)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid valid_until date"})
					return
				}
				// valid through the end of that day
				endOfDay := validUntil.Add(24*time.Hour - time.Second)
				coupon.ValidUntil = &endOfDay
			}
			db := db.GetDb()
			if err := db.Create(&coupon).Error; err != nil {
				log.Printf("Error creating DiscountCoupon: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": coupon})
		}).
		PUT("/coupons/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body struct {
				DiscountValue *float64 `json:"discount_value,omitempty" binding:"omitempty,gt=0"`
				MaxUses       *uint    `json:"max_uses,omitempty" binding:"omitempty,gt=0"`
				IsActive      *bool    `json:"is_active,omitempty"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			coupon, ok := vendorOwnedCoupon(ctx, params.ID)
			if !ok {
				return
			}
			updates := map[string]any{}
			if body.DiscountValue != nil {
				updates["discount_value"] = *body.DiscountValue
			}
			if body.MaxUses != nil {
				updates["max_uses"] = *body.MaxUses
			}
			if body.IsActive != nil {
				updates["is_active"] = *body.IsActive
			}
			db := db.GetDb()
			if err := db.
				Model(&models.DiscountCoupon{}).
				Where("id = ?", coupon.ID).
				Updates(updates).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusOK)
		}).
		DELETE("/coupons/:id", func(ctx *gin.Context) {
			// soft delete, the row stays for reporting
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			coupon, ok := vendorOwnedCoupon(ctx, params.ID)
			if !ok {
				return
			}
			db := db.GetDb()
			if err := db.
				Model(&models.DiscountCoupon{}).
				Where("id = ?", coupon.ID).
				Update("is_active", false).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

func vendorOwnedCoupon(ctx *gin.Context, id uint) (*models.DiscountCoupon, bool) {
	db := db.GetDb()
	var coupon models.DiscountCoupon
	if err := db.Where("id = ?", id).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Status(http.StatusNotFound)
			return nil, false
		}
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return nil, false
	}
	if coupon.ExperienceID != nil {
		if _, ok := vendorOwnedExperience(ctx, *coupon.ExperienceID); !ok {
			return nil, false
		}
	}
	return &coupon, true
}
