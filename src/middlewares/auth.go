package middlewares

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"bucketlistt/src/db"
	"bucketlistt/src/models"
	"bucketlistt/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtKey = []byte(os.Getenv("API_SECRET"))

func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		ctx.AbortWithStatus(401)
		return
	}
	reqToken := strings.Split(bearerToken, " ")[1]
	if reqToken == "" {
		ctx.AbortWithStatus(401)
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		ctx.AbortWithStatus(401)
		return
	}
	if !tkn.Valid {
		ctx.AbortWithStatus(401)
		return
	}

	db := db.GetDb()
	var user models.User
	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		log.Println("error parsing claims:", err.Error())
		ctx.AbortWithStatus(401)
		return
	}
	db.Model(&models.User{}).Preload("Roles").Where(&models.User{ID: uint(uid)}).Find(&user)

	if uint(uid) != user.ID || user.ID < 1 {
		ctx.AbortWithStatus(401)
		return
	}
	if user.Email != nil {
		ctx.Set("email", *user.Email)
	}
	ctx.Set("id", user.ID)
	ctx.Set("roles", roleNames(&user))
}

func roleNames(user *models.User) []string {
	names := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		names = append(names, r.Role)
	}
	if len(names) == 0 {
		names = append(names, types.ROLE_CUSTOMER)
	}
	return names
}

// RequireRoles gates a route group to users holding any listed role.
// Authorization is decided here, never from request payloads.
func RequireRoles(wanted ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		roles := ctx.GetStringSlice("roles")
		for _, have := range roles {
			for _, want := range wanted {
				if have == want {
					return
				}
			}
		}
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	}
}
