package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"bucketlistt/src/common"
	"bucketlistt/src/db"
	"bucketlistt/src/lib"
	awslib "bucketlistt/src/lib/aws"
	"bucketlistt/src/models"
	"bucketlistt/src/models/scopes"
	"bucketlistt/src/types"
	"bucketlistt/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// cached invoice links must die before the presigned URL does
const invoiceURLCacheTTL = awslib.PresignExpiry / 2

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userID := ctx.GetUint("id")
			booking, err := utils.CreateBooking(&body, userID)
			if err != nil {
				status := http.StatusUnprocessableEntity
				if errors.Is(err, utils.ErrSlotFull) {
					status = http.StatusConflict
				}
				if errors.Is(err, utils.ErrSlotNotFound) {
					status = http.StatusNotFound
				}
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		GET("/bookings", func(ctx *gin.Context) {
			userID := ctx.GetUint("id")
			db := db.GetDb()
			var bookings []models.Booking
			if err := db.
				Model(&models.Booking{}).
				Where(&models.Booking{UserID: userID}).
				Preload("Experience").
				Preload("Activity").
				Preload("TimeSlot").
				Order("created_at DESC").
				Limit(100).
				Find(&bookings).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			booking, ok := ownBooking(ctx)
			if !ok {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		PUT("/bookings/:id/cancel", func(ctx *gin.Context) {
			booking, ok := ownBooking(ctx)
			if !ok {
				return
			}
			if err := utils.CancelBooking(booking.ID, ctx.GetUint("id")); err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusOK)
		}).
		POST("/bookings/:id/invoice", func(ctx *gin.Context) {
			booking, ok := ownBooking(ctx)
			if !ok {
				return
			}
			if booking.Status != types.BOOKING_CONFIRMED {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invoice is available once the booking is confirmed"})
				return
			}
			filename := fmt.Sprintf("invoices/%s.pdf", booking.ReferenceID)
			rd := lib.GetRedisClient()
			cached := rd.Get(context.Background(), filename).Val()
			if cached != "" {
				ctx.JSON(http.StatusOK, gin.H{"url": cached})
				return
			}
			filepath, err := utils.RenderInvoicePDF(booking)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			file, err := os.Open(filepath)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			defer file.Close()
			defer os.Remove(filepath)
			url, err := awslib.S3UploadAsset(filename, file, "application/pdf")
			if err != nil {
				log.Printf("Error uploading asset to S3 bucket: %s\n", err.Error())
				ctx.JSON(http.StatusBadGateway, gin.H{"error": "could not store invoice"})
				return
			}
			rd.SetEx(context.Background(), filename, *url, invoiceURLCacheTTL)
			ctx.JSON(http.StatusOK, gin.H{"url": *url})
		})
	return g
}

// vendor and admin views over bookings for their experiences
func bookingVendorHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/vendor/bookings", func(ctx *gin.Context) {
			vendorID := ctx.GetUint("id")
			db := db.GetDb()
			var bookings []models.Booking
			if err := db.
				Model(&models.Booking{}).
				Joins("JOIN experiences ON experiences.id = bookings.experience_id").
				Where("experiences.vendor_id = ?", vendorID).
				Preload("Experience").
				Preload("Activity").
				Preload("TimeSlot").
				Preload("User").
				Order("bookings.created_at DESC").
				Limit(100).
				Find(&bookings).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		PUT("/bookings/:id/note", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.AdminNoteRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if _, ok := vendorOwnedBooking(ctx, params.ID); !ok {
				return
			}
			actorID := ctx.GetUint("id")
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				res := tx.
					Model(&models.Booking{}).
					Where("id = ?", params.ID).
					Update("admin_note", body.Note)
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return gorm.ErrRecordNotFound
				}
				logRow := models.BookingLog{
					BookingID: params.ID,
					Action:    "note_updated",
					ActorID:   &actorID,
					Metadata:  types.JSONB{"note": body.Note},
				}
				return tx.Create(&logRow).Error
			})
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.Status(http.StatusNotFound)
					return
				}
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.Status(http.StatusOK)
		}).
		PUT("/bookings/:id/confirm", func(ctx *gin.Context) {
			// offline payments (agent desk, bank transfer)
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if _, ok := vendorOwnedBooking(ctx, params.ID); !ok {
				return
			}
			booking, err := utils.ConfirmBooking(params.ID, nil)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			go notifyBookingConfirmed(booking.ID)
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		})
	return g
}

// vendorOwnedBooking loads the booking and aborts unless its
// experience belongs to the caller or the caller is an admin.
func vendorOwnedBooking(ctx *gin.Context, id uint) (*models.Booking, bool) {
	db := db.GetDb()
	var booking models.Booking
	if err := db.Scopes(scopes.WithID(id)).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Status(http.StatusNotFound)
			return nil, false
		}
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return nil, false
	}
	if _, ok := vendorOwnedExperience(ctx, booking.ExperienceID); !ok {
		return nil, false
	}
	return &booking, true
}

func ownBooking(ctx *gin.Context) (*models.Booking, bool) {
	var params types.SimpleRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.Status(http.StatusBadRequest)
		return nil, false
	}
	userID := ctx.GetUint("id")
	db := db.GetDb()
	var booking models.Booking
	if err := db.
		Model(&models.Booking{}).
		Where(&models.Booking{ID: params.ID, UserID: userID}).
		Preload("Experience").
		Preload("Activity").
		Preload("TimeSlot").
		Preload("User").
		Preload("Participants").
		First(&booking).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.Status(http.StatusNotFound)
			return nil, false
		}
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return nil, false
	}
	return &booking, true
}

// notifyBookingConfirmed reloads the booking with its relations and
// queues the confirmation email.
func notifyBookingConfirmed(bookingID uint) {
	db := db.GetDb()
	var booking models.Booking
	if err := db.
		Preload("Experience").
		Preload("Activity").
		Preload("TimeSlot").
		Preload("User").
		Where("id = ?", bookingID).
		First(&booking).
		Error; err != nil {
		log.Printf("Error loading booking %d for notification: %s\n", bookingID, err.Error())
		return
	}
	common.SendBookingConfirmationEmail(&booking)
}
