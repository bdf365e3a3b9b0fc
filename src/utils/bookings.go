package utils

import (
	"errors"
	"fmt"
	"log"
	"time"

	"bucketlistt/src/config"
	"bucketlistt/src/db"
	"bucketlistt/src/lib"
	"bucketlistt/src/models"
	"bucketlistt/src/models/scopes"
	"bucketlistt/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSlotFull     = errors.New("not enough seats left for this time slot")
	ErrSlotNotFound = errors.New("time slot not found")
	ErrPastDate     = errors.New("booking date is in the past")
)

// CreateBooking reserves seats for a slot on a date. The slot row is
// locked FOR UPDATE and capacity is re-checked inside the transaction
// so two concurrent requests cannot oversubscribe a slot.
func CreateBooking(params *types.CreateBookingRequestBody, userID uint) (*models.Booking, error) {
	d := db.GetDb()
	date, err := time.ParseInLocation(config.DATE_FORMAT, params.Date, config.IST)
	if err != nil {
		return nil, fmt.Errorf("invalid booking date: %s", err.Error())
	}
	if date.Before(TodayIST(time.Now())) {
		return nil, ErrPastDate
	}
	partySize := uint(len(params.Participants))
	var booking models.Booking
	err = d.Transaction(func(tx *gorm.DB) error {
		var slot models.TimeSlot
		if err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
				Table:    clause.Table{Name: clause.CurrentTable},
			}).
			Where(&models.TimeSlot{ID: params.TimeSlotID, ActivityID: params.ActivityID}).
			First(&slot).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSlotNotFound
			}
			return err
		}
		var activity models.Activity
		if err := tx.
			Preload("Experience").
			Where(&models.Activity{ID: slot.ActivityID}).
			First(&activity).
			Error; err != nil {
			return err
		}
		var occupied int64
		if err := tx.
			Model(&models.Booking{}).
			Select("COALESCE(SUM(total_participants), 0)").
			Scopes(scopes.OccupyingCapacity(slot.ID, date)).
			Scan(&occupied).
			Error; err != nil {
			return err
		}
		if uint(occupied)+partySize > slot.Capacity {
			return ErrSlotFull
		}
		quote := ResolvePricing(&activity.Experience, &activity)
		amount := quote.DisplayPrice * float64(partySize)
		dueAmount := amount
		if params.CouponCode != nil && *params.CouponCode != "" {
			coupon, err := LookupCoupon(*params.CouponCode, &activity.ExperienceID)
			if err != nil {
				return err
			}
			dueAmount = amount - ApplyCoupon(coupon, amount)
		}
		expiresAt := time.Now().Add(config.BOOKING_HOLD_EXPIRY)
		booking = models.Booking{
			ReferenceID:       NewBookingReference(),
			ExperienceID:      activity.ExperienceID,
			ActivityID:        activity.ID,
			TimeSlotID:        slot.ID,
			UserID:            userID,
			Date:              date,
			TotalParticipants: partySize,
			BookingAmount:     amount,
			DueAmount:         dueAmount,
			Currency:          quote.Currency,
			Status:            types.BOOKING_PENDING,
			CouponCode:        params.CouponCode,
			ExpiresAt:         &expiresAt,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		for _, p := range params.Participants {
			participant := models.BookingParticipant{
				BookingID: booking.ID,
				Name:      p.Name,
			}
			if p.Email != "" {
				participant.Email = &p.Email
			}
			if p.Phone != "" {
				participant.Phone = &p.Phone
			}
			if err := tx.Create(&participant).Error; err != nil {
				return err
			}
		}
		logRow := models.BookingLog{
			BookingID: booking.ID,
			Action:    "created",
			ActorID:   &userID,
			Metadata: types.JSONB{
				"participants": partySize,
				"amount":       amount,
				"due_amount":   dueAmount,
			},
		}
		return tx.Create(&logRow).Error
	})
	if err != nil {
		log.Printf("CreateBooking failed: %s\n", err.Error())
		return nil, err
	}
	scheduleBookingExpiry(booking.ID, *booking.ExpiresAt)
	return &booking, nil
}

func scheduleBookingExpiry(bookingID uint, runsAt time.Time) {
	go func() {
		jobTask := models.JobTask{
			Name:      fmt.Sprintf("Booking_%d_ExpireHold", bookingID),
			JobType:   "OneTimeJobStartDateTime",
			RunsAt:    runsAt,
			PayloadID: uuid.NewString(),
			Payload: types.JSONB{
				"id":    bookingID,
				"table": "bookings",
			},
			Source:     "Booking",
			SourceType: "table",
		}
		id, err := jobTask.CreateJobTask(jobTask, func(jobID uuid.UUID) error {
			_, err := lib.ScheduleAt(runsAt, func(bookingID uint, jobID string) {
				ExpirePendingBooking(bookingID, jobID)
			}, bookingID, jobID.String())
			return err
		})
		if err != nil {
			log.Printf("Error creating job for Booking: id=%d error=%s\n", bookingID, err.Error())
			return
		}
		log.Printf("Created job for Booking[%d] with ID %s\n", bookingID, id)
	}()
}

// ExpirePendingBooking releases the hold if payment never arrived.
func ExpirePendingBooking(bookingID uint, jobID string) {
	d := db.GetDb()
	err := d.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
				Table:    clause.Table{Name: clause.CurrentTable},
			}).
			Where(&models.Booking{ID: bookingID}).
			First(&booking).
			Error; err != nil {
			return err
		}
		if booking.Status != types.BOOKING_PENDING {
			return nil
		}
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingID}).
			Update("status", types.BOOKING_EXPIRED).
			Error; err != nil {
			return err
		}
		if jobID != "" {
			if err := tx.
				Model(&models.JobTask{}).
				Where("id = ?", jobID).
				Update("status", "done").
				Error; err != nil {
				return err
			}
		}
		logRow := models.BookingLog{
			BookingID: bookingID,
			Action:    "expired",
			Metadata:  types.JSONB{"job_id": jobID},
		}
		return tx.Create(&logRow).Error
	})
	if err != nil {
		log.Printf("Error expiring booking %d: %s\n", bookingID, err.Error())
		return
	}
	log.Printf("Booking %d hold released\n", bookingID)
}

// ConfirmBooking marks the booking paid, redeems its coupon and
// appends the audit row. paymentRef is the checkout session id.
func ConfirmBooking(bookingID uint, paymentRef *string) (*models.Booking, error) {
	d := db.GetDb()
	var booking models.Booking
	err := d.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
				Table:    clause.Table{Name: clause.CurrentTable},
			}).
			Where(&models.Booking{ID: bookingID}).
			First(&booking).
			Error; err != nil {
			return err
		}
		if booking.Status == types.BOOKING_CONFIRMED {
			return nil
		}
		if booking.Status != types.BOOKING_PENDING {
			return fmt.Errorf("booking %d is %s and cannot be confirmed", bookingID, booking.Status)
		}
		now := time.Now()
		updates := map[string]any{
			"status":       types.BOOKING_CONFIRMED,
			"due_amount":   0,
			"confirmed_at": now,
		}
		if paymentRef != nil {
			updates["checkout_session_id"] = *paymentRef
		}
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingID}).
			Updates(updates).
			Error; err != nil {
			return err
		}
		if booking.CouponCode != nil && *booking.CouponCode != "" {
			if err := RedeemCoupon(tx, *booking.CouponCode); err != nil {
				return err
			}
		}
		booking.Status = types.BOOKING_CONFIRMED
		booking.ConfirmedAt = &now
		booking.DueAmount = 0
		logRow := models.BookingLog{
			BookingID: bookingID,
			Action:    "confirmed",
			Metadata:  types.JSONB{"payment_ref": paymentRef},
		}
		return tx.Create(&logRow).Error
	})
	if err != nil {
		log.Printf("Error confirming booking %d: %s\n", bookingID, err.Error())
		return nil, err
	}
	return &booking, nil
}

// CancelBooking is allowed for the owner while pending or confirmed.
func CancelBooking(bookingID uint, actorID uint) error {
	d := db.GetDb()
	return d.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Where(&models.Booking{ID: bookingID}).
			First(&booking).
			Error; err != nil {
			return err
		}
		if booking.Status != types.BOOKING_PENDING && booking.Status != types.BOOKING_CONFIRMED {
			return fmt.Errorf("booking %d is %s and cannot be canceled", bookingID, booking.Status)
		}
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingID}).
			Update("status", types.BOOKING_CANCELED).
			Error; err != nil {
			return err
		}
		logRow := models.BookingLog{
			BookingID: bookingID,
			Action:    "canceled",
			ActorID:   &actorID,
		}
		return tx.Create(&logRow).Error
	})
}
