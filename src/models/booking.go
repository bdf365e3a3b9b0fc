package models

import (
	"time"

	"bucketlistt/src/types"
)

type Booking struct {
	ID                uint       `gorm:"primarykey" json:"id"`
	ReferenceID       string     `gorm:"uniqueIndex" json:"reference_id,omitempty"`
	ExperienceID      uint       `json:"experience_id,omitempty"`
	ActivityID        uint       `json:"activity_id,omitempty"`
	TimeSlotID        uint       `json:"time_slot_id,omitempty"`
	UserID            uint       `json:"user_id,omitempty"`
	Date              time.Time  `gorm:"type:date" json:"date"`
	TotalParticipants uint       `json:"total_participants"`
	BookingAmount     float64    `json:"booking_amount"`
	DueAmount         float64    `json:"due_amount"`
	Currency          string     `gorm:"default:inr" json:"currency,omitempty"`
	Status            string     `gorm:"default:pending" json:"status,omitempty"`
	AdminNote         *string    `json:"admin_note,omitempty"`
	CouponCode        *string    `json:"coupon_code,omitempty"`
	CheckoutSessionID *string    `json:"-"`
	ConfirmedAt       *time.Time `json:"confirmed_at,omitempty"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`

	Experience   Experience           `json:"experience,omitempty"`
	Activity     Activity             `json:"activity,omitempty"`
	TimeSlot     TimeSlot             `json:"time_slot,omitempty"`
	User         User                 `json:"user,omitempty"`
	Participants []BookingParticipant `gorm:"foreignKey:booking_id" json:"participants,omitempty"`
	Logs         []BookingLog         `gorm:"foreignKey:booking_id" json:"-"`

	types.Timestamps
}

type BookingParticipant struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	BookingID uint    `json:"booking_id,omitempty"`
	Name      string  `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`

	types.Timestamps
}

// BookingLog records every status transition for audit.
type BookingLog struct {
	ID        uint        `gorm:"primarykey" json:"id"`
	BookingID uint        `json:"booking_id,omitempty"`
	Action    string      `json:"action,omitempty"`
	ActorID   *uint       `json:"actor_id,omitempty"`
	Metadata  types.JSONB `gorm:"type:jsonb" json:"metadata,omitempty"`

	types.Timestamps
}
