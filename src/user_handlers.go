package main

import (
	"errors"
	"log"
	"net/http"

	"bucketlistt/src/db"
	"bucketlistt/src/models"
	"bucketlistt/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func userHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/users/me", func(ctx *gin.Context) {
			userID := ctx.GetUint("id")
			db := db.GetDb()
			var user models.User
			if err := db.
				Preload("Roles").
				Where("id = ?", userID).
				First(&user).
				Error; err != nil {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": user})
		}).
		PUT("/users/me", func(ctx *gin.Context) {
			var body struct {
				Name      *string `json:"name,omitempty"`
				AvatarURL *string `json:"avatar_url,omitempty"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := ctx.GetUint("id")
			updates := map[string]any{}
			if body.Name != nil {
				updates["name"] = *body.Name
			}
			if body.AvatarURL != nil {
				updates["avatar_url"] = *body.AvatarURL
			}
			if len(updates) == 0 {
				ctx.Status(http.StatusOK)
				return
			}
			db := db.GetDb()
			if err := db.
				Model(&models.User{}).
				Where("id = ?", userID).
				Updates(updates).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusOK)
		})
	return g
}

func userAdminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/admin/users", func(ctx *gin.Context) {
			db := db.GetDb()
			var users []models.User
			if err := db.
				Preload("Roles").
				Order("created_at DESC").
				Limit(100).
				Find(&users).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": users, "count": len(users)})
		}).
		POST("/admin/roles", func(ctx *gin.Context) {
			var body types.AssignRoleRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var user models.User
			if err := db.Where("id = ?", body.UserID).First(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			role := models.UserRole{UserID: body.UserID, Role: body.Role}
			if err := db.Create(&role).Error; err != nil {
				log.Printf("Error assigning role [%s] to user %d: %s\n", body.Role, body.UserID, err.Error())
				ctx.JSON(http.StatusConflict, gin.H{"error": "role is already assigned"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": role})
		}).
		DELETE("/admin/users/:id/roles/:role", func(ctx *gin.Context) {
			var params struct {
				ID   uint   `uri:"id" binding:"required"`
				Role string `uri:"role" binding:"required,oneof=customer vendor agent admin"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			res := db.
				Where(&models.UserRole{UserID: params.ID, Role: params.Role}).
				Delete(&models.UserRole{})
			if res.Error != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": res.Error.Error()})
				return
			}
			if res.RowsAffected == 0 {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
