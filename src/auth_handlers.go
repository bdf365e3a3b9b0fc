package main

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"bucketlistt/src/config"
	"bucketlistt/src/db"
	"bucketlistt/src/lib"
	"bucketlistt/src/lib/mailer"
	"bucketlistt/src/models"
	"bucketlistt/src/types"
	"bucketlistt/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gookit/goutil/dump"
	"github.com/grokify/go-pkce"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	otpSendLimit      = 5
	otpSendWindow     = time.Hour
	magicLinkValidity = 5 * time.Minute
)

func otpStatusCode(err error) int {
	switch {
	case errors.Is(err, utils.ErrOTPNotFound), errors.Is(err, utils.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, utils.ErrOTPExpired), errors.Is(err, utils.ErrInvalidCode), errors.Is(err, utils.ErrInvalidIdentifier):
		return http.StatusBadRequest
	case errors.Is(err, utils.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, utils.ErrUserExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func dispatchOTP(identifier string, authMethod string, code string) error {
	if authMethod == types.AUTH_METHOD_PHONE {
		return lib.SendWhatsAppOTP(identifier, code)
	}
	input := &lib.SendMailInput{
		From:     os.Getenv("EMAIL_FROM"),
		FromName: "bucketlistt",
		To:       []string{identifier},
		Subject:  "Your bucketlistt verification code",
		Body:     fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", code),
	}
	return mailer.NewMailerMessage(input)
}

func issueMagicLink(user *models.User) (string, error) {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	rd := lib.GetRedisClient()
	key := fmt.Sprintf("magic:%s", token)
	if err := rd.SetEx(context.Background(), key, fmt.Sprint(user.ID), magicLinkValidity).Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/api/v1/auth/magic/%s", config.API_HOST, token), nil
}

type verifyMode int

const (
	verifyAny verifyMode = iota
	verifySignup
	verifySignin
)

func verifyAndIssue(ctx *gin.Context, mode verifyMode) {
	var body types.VerifyOTPRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	identifier, err := utils.NormalizeIdentifier(body.Identifier, body.AuthMethod)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	verified := false
	if mode == verifySignup {
		if _, err := utils.FindUserByIdentifier(identifier, body.AuthMethod); err == nil {
			// A client retrying a signup that already went through still
			// holds the code it just verified. Inside the re-verify
			// window the retry succeeds idempotently, anything else is a
			// conflict with the existing account.
			if utils.ReverifyOTP(identifier, body.AuthMethod, body.OTP) != nil {
				ctx.JSON(http.StatusConflict, gin.H{"error": utils.ErrUserExists.Error()})
				return
			}
			verified = true
		}
	}
	if mode == verifySignin {
		if _, err := utils.FindUserByIdentifier(identifier, body.AuthMethod); err != nil {
			ctx.JSON(otpStatusCode(err), gin.H{"error": err.Error()})
			return
		}
	}
	if !verified {
		if err := utils.VerifyOTP(identifier, body.AuthMethod, body.OTP); err != nil {
			ctx.JSON(otpStatusCode(err), gin.H{"error": err.Error()})
			return
		}
	}
	user, isNew, err := utils.GetOrCreateUser(identifier, body.AuthMethod, body.Name, body.Role)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	magicLink, err := issueMagicLink(user)
	if err != nil {
		log.Printf("Error issuing magic link for user %d: %s\n", user.ID, err.Error())
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success":     true,
		"is_new_user": isNew,
		"magic_link":  magicLink,
	})
}

func guestAuthRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	guest := apiv1.Group("/auth")
	guest.
		POST("/otp/send", func(ctx *gin.Context) {
			var body types.SendOTPRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			identifier, err := utils.NormalizeIdentifier(body.Identifier, body.AuthMethod)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			rd := lib.GetRedisClient()
			rateKey := fmt.Sprintf("otp:rate:%s", identifier)
			sends, err := rd.Incr(context.Background(), rateKey).Result()
			if err == nil && sends == 1 {
				rd.Expire(context.Background(), rateKey, otpSendWindow)
			}
			if sends > otpSendLimit {
				ctx.JSON(http.StatusTooManyRequests, gin.H{"error": "too many codes requested, try again later"})
				return
			}
			row, err := utils.CreateOTP(identifier, body.AuthMethod)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if err := dispatchOTP(identifier, body.AuthMethod, row.OTPCode); err != nil {
				log.Printf("Error delivering code to %s: %s\n", identifier, err.Error())
				ctx.JSON(http.StatusBadGateway, gin.H{"error": "could not deliver verification code"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "expires_at": row.ExpiresAt})
		}).
		POST("/otp/verify", func(ctx *gin.Context) {
			verifyAndIssue(ctx, verifyAny)
		}).
		POST("/otp/signup", func(ctx *gin.Context) {
			verifyAndIssue(ctx, verifySignup)
		}).
		POST("/otp/signin", func(ctx *gin.Context) {
			verifyAndIssue(ctx, verifySignin)
		}).
		GET("/magic/:token", func(ctx *gin.Context) {
			var params struct {
				Token string `uri:"token" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			rd := lib.GetRedisClient()
			key := fmt.Sprintf("magic:%s", params.Token)
			val, err := rd.GetDel(context.Background(), key).Result()
			if err != nil || val == "" {
				ctx.JSON(http.StatusUnauthorized, gin.H{"error": "magic link is invalid or has expired"})
				return
			}
			var user models.User
			d := db.GetDb()
			if err := d.Preload("Roles").Where("id = ?", val).First(&user).Error; err != nil {
				ctx.JSON(http.StatusUnauthorized, gin.H{"error": "magic link is invalid or has expired"})
				return
			}
			email := ""
			if user.Email != nil {
				email = *user.Email
			}
			role := types.ROLE_CUSTOMER
			if len(user.Roles) > 0 {
				role = user.Roles[0].Role
			}
			token, err := utils.GenerateJWT(email, user.ID, role)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			now := time.Now()
			d.Model(&models.User{}).Where("id = ?", user.ID).Update("last_active", now)
			ctx.JSON(http.StatusOK, gin.H{"token": token})
		})

	guest.
		POST("/google/connect", func(ctx *gin.Context) {
			var body struct {
				Redirect string `json:"redirect" binding:"required"`
				Role     string `json:"role,omitempty" binding:"omitempty,oneof=customer vendor"`
			}
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			// Generate nonce
			nonce := make([]byte, 32)
			rand.Read(nonce)
			hnonce := hex.EncodeToString(nonce)
			// Create code challenge and verifier
			cv := pkce.NewCodeVerifierBytes(nonce)
			challenge := pkce.CodeChallengeS256(cv)
			flowID := uuid.NewString()
			rd := lib.GetRedisClient()
			nonceKey := fmt.Sprintf("oauth:nonce:%s", flowID)
			if err := rd.SetEx(context.Background(), nonceKey, hnonce, 10*time.Minute).Err(); err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			state := types.Oauth2FlowState{
				FlowID:   flowID,
				Nonce:    hnonce,
				Redirect: body.Redirect,
				Role:     body.Role,
			}
			stateBytes, _ := json.Marshal(&state)
			key, err := hex.DecodeString(config.API_SECRET)
			if err != nil {
				log.Printf("Error while retrieving key: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			enc, err := utils.EncryptMessage(key, string(stateBytes))
			if err != nil {
				log.Printf("Error encrypting message: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			oauthcfg := googleOauthConfig()
			url := oauthcfg.AuthCodeURL(
				enc,
				oauth2.SetAuthURLParam(pkce.ParamCodeChallenge, challenge),
				oauth2.SetAuthURLParam(pkce.ParamCodeChallengeMethod, pkce.MethodS256),
			)
			ctx.JSON(http.StatusOK, gin.H{"url": url})
		}).
		GET("/google/callback", func(ctx *gin.Context) {
			var query struct {
				State *string `form:"state" binding:"required"`
				Code  *string `form:"code" binding:"required"`
				Scope *string `form:"scope"`
			}
			if err := ctx.BindQuery(&query); err != nil {
				log.Printf("Error while parsing request params: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			key, err := hex.DecodeString(config.API_SECRET)
			if err != nil {
				log.Printf("Error while retrieving key: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			dec, err := utils.DecryptMessage(key, *query.State)
			if err != nil {
				log.Printf("Error while decrypting message: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			var state types.Oauth2FlowState
			if err := json.Unmarshal([]byte(*dec), &state); err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			dump.P(state)
			// Decode nonce
			dnonce, err := hex.DecodeString(state.Nonce)
			if err != nil {
				log.Printf("Could not read nonce: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			// Read generated nonce
			rd := lib.GetRedisClient()
			nonceKey := fmt.Sprintf("oauth:nonce:%s", state.FlowID)
			cache := rd.Get(context.Background(), nonceKey).Val()
			nonce, err := hex.DecodeString(cache)
			if err != nil || len(nonce) == 0 {
				log.Println("OAuth flow state not found or expired")
				ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Access denied"})
				return
			}
			// Subtle compare
			if subtle.ConstantTimeCompare(dnonce, nonce) != 1 {
				log.Println("Data mismatch: the supplied values do not match")
				ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Access denied"})
				return
			}
			oauthcfg := googleOauthConfig()
			// Create code challenge and verifier
			cv := pkce.NewCodeVerifierBytes(nonce)
			token, err := oauthcfg.Exchange(
				context.Background(),
				*query.Code,
				oauth2.SetAuthURLParam(pkce.ParamCodeVerifier, cv),
			)
			if err != nil {
				log.Printf("Error while exchanging authorization code for token: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			profile, err := fetchGoogleProfile(token)
			if err != nil {
				log.Printf("Error retrieving profile: %s\n", err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
			user, _, err := utils.GetOrCreateUser(strings.ToLower(profile.Email), types.AUTH_METHOD_EMAIL, profile.Name, state.Role)
			if err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			magicLink, err := issueMagicLink(user)
			if err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
			go rd.Del(context.Background(), nonceKey)
			redirect := fmt.Sprintf("%s?magic=%s", state.Redirect, magicLink)
			ctx.Redirect(http.StatusTemporaryRedirect, redirect)
		})
	return guest
}

type googleProfile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func googleOauthConfig() *oauth2.Config {
	return &oauth2.Config{
		RedirectURL:  config.API_HOST + "/api/v1/auth/google/callback",
		ClientID:     config.OAUTH_CLIENT_ID,
		ClientSecret: config.OAUTH_CLIENT_SECRET,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

func fetchGoogleProfile(token *oauth2.Token) (*googleProfile, error) {
	client := googleOauthConfig().Client(context.Background(), token)
	res, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	var profile googleProfile
	if err := json.NewDecoder(res.Body).Decode(&profile); err != nil {
		return nil, err
	}
	if profile.Email == "" {
		return nil, errors.New("profile has no email address")
	}
	return &profile, nil
}
