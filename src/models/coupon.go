package models

import (
	"strings"
	"time"

	"bucketlistt/src/types"

	"gorm.io/gorm"
)

type DiscountCoupon struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	ExperienceID  *uint      `json:"experience_id,omitempty"`
	Code          string     `gorm:"uniqueIndex" json:"code,omitempty"`
	Type          string     `json:"type,omitempty"`
	DiscountValue float64    `json:"discount_value"`
	MaxUses       *uint      `json:"max_uses,omitempty"`
	UsedCount     uint       `json:"used_count"`
	ValidUntil    *time.Time `json:"valid_until,omitempty"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`

	Experience *Experience `json:"experience,omitempty"`

	types.Timestamps
}

func (c *DiscountCoupon) BeforeSave(tx *gorm.DB) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	return nil
}

// Usable reports whether the coupon can still be redeemed at the given
// instant. Deactivated coupons stay in the table for reporting.
func (c *DiscountCoupon) Usable(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}
	if c.MaxUses != nil && c.UsedCount >= *c.MaxUses {
		return false
	}
	return true
}
