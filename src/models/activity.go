package models

import "bucketlistt/src/types"

type Activity struct {
	ID              uint     `gorm:"primarykey" json:"id"`
	ExperienceID    uint     `json:"experience_id,omitempty"`
	Name            string   `json:"name,omitempty"`
	Price           float64  `json:"price"`
	DiscountedPrice *float64 `json:"discounted_price,omitempty"`
	IsActive        bool     `gorm:"default:true" json:"is_active"`

	Experience Experience `json:"experience,omitempty"`
	TimeSlots  []TimeSlot `gorm:"foreignKey:activity_id" json:"time_slots,omitempty"`

	Pricing *PriceQuote `gorm:"-" json:"pricing,omitempty"`

	types.Timestamps
}

// TimeSlot is a daily recurring window. StartTime and EndTime are
// wall-clock strings ("15:04") interpreted in IST; availability is
// always computed per slot per calendar date, never stored.
type TimeSlot struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	ActivityID   uint   `json:"activity_id,omitempty"`
	ExperienceID uint   `json:"experience_id,omitempty"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	Capacity     uint   `json:"capacity"`

	Activity Activity  `json:"-"`
	Bookings []Booking `gorm:"foreignKey:time_slot_id" json:"bookings,omitempty"`

	types.Timestamps
}
