package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Metadata = JSONB

type Handler func(body string)

type BookingStatus = string
type CouponType = string
type AuthMethod = string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_CANCELED  BookingStatus = "canceled"
	BOOKING_EXPIRED   BookingStatus = "expired"

	COUPON_FLAT       CouponType = "flat"
	COUPON_PERCENTAGE CouponType = "percentage"

	AUTH_METHOD_EMAIL AuthMethod = "email"
	AUTH_METHOD_PHONE AuthMethod = "phone"

	ROLE_CUSTOMER = "customer"
	ROLE_VENDOR   = "vendor"
	ROLE_AGENT    = "agent"
	ROLE_ADMIN    = "admin"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type SendOTPRequestBody struct {
	Identifier string `json:"identifier" binding:"required"`
	AuthMethod string `json:"authMethod" binding:"required,oneof=email phone"`
}

type VerifyOTPRequestBody struct {
	Identifier string `json:"identifier" binding:"required"`
	OTP        string `json:"otp" binding:"required,len=6,numeric"`
	AuthMethod string `json:"authMethod" binding:"required,oneof=email phone"`
	Name       string `json:"name,omitempty"`
	Role       string `json:"role,omitempty" binding:"omitempty,oneof=customer vendor agent"`
}

type CreateDestinationRequestBody struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

type CreateExperienceRequestBody struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description,omitempty"`
	Location      string   `json:"location" binding:"required"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	OriginalPrice *float64 `json:"original_price,omitempty" binding:"omitempty,gt=0"`
	Currency      string   `json:"currency" binding:"required"`
	DestinationID *uint    `json:"destination_id,omitempty"`
}

type UpdateExperienceRequestBody struct {
	Title         *string  `json:"title,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Location      *string  `json:"location,omitempty"`
	Price         *float64 `json:"price,omitempty" binding:"omitempty,gt=0"`
	OriginalPrice *float64 `json:"original_price,omitempty" binding:"omitempty,gt=0"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

type CreateActivityRequestBody struct {
	Name            string   `json:"name" binding:"required"`
	Price           float64  `json:"price" binding:"required,gt=0"`
	DiscountedPrice *float64 `json:"discounted_price,omitempty" binding:"omitempty,gt=0"`
}

type CreateTimeSlotRequestBody struct {
	StartTime string `json:"start_time" binding:"required,slottime"`
	EndTime   string `json:"end_time" binding:"required,slottime"`
	Capacity  uint   `json:"capacity" binding:"required,gt=0"`
}

type BookingParticipantInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email,omitempty" binding:"omitempty,email"`
	Phone string `json:"phone,omitempty"`
}

type CreateBookingRequestBody struct {
	ExperienceID uint                      `json:"experience_id" binding:"required"`
	ActivityID   uint                      `json:"activity_id" binding:"required"`
	TimeSlotID   uint                      `json:"time_slot_id" binding:"required"`
	Date         string                    `json:"date" binding:"required,bookabledate"`
	Participants []BookingParticipantInput `json:"participants" binding:"required,min=1,dive"`
	CouponCode   *string                   `json:"coupon_code,omitempty"`
}

type CreateCouponRequestBody struct {
	ExperienceID  uint    `json:"experience_id" binding:"required"`
	Code          string  `json:"code" binding:"required"`
	Type          string  `json:"type" binding:"required,oneof=flat percentage"`
	DiscountValue float64 `json:"discount_value" binding:"required,gt=0"`
	MaxUses       *uint   `json:"max_uses,omitempty" binding:"omitempty,gt=0"`
	ValidUntil    *string `json:"valid_until,omitempty" binding:"omitempty,bookabledate"`
}

type ValidateCouponRequestBody struct {
	ExperienceID uint    `json:"experience_id" binding:"required"`
	Code         string  `json:"code" binding:"required"`
	Amount       float64 `json:"amount" binding:"required,gt=0"`
}

type CreateBlogRequestBody struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Publish bool   `json:"publish,omitempty"`
}

type AdminNoteRequestBody struct {
	Note string `json:"note" binding:"required"`
}

type AssignRoleRequestBody struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=customer vendor agent admin"`
}

type Oauth2FlowState struct {
	FlowID   string `json:"flow_id"`
	Nonce    string `json:"nonce"`
	Redirect string `json:"redirect"`
	Role     string `json:"role,omitempty"`
}

type SlotOption struct {
	Label     string `json:"label"`
	Value     string `json:"value"`
	SlotID    uint   `json:"slot_id,omitempty"`
	Available int    `json:"available"`
}
