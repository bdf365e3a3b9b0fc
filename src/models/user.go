package models

import (
	"bucketlistt/src/types"
	"time"
)

type User struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Name          string          `json:"name,omitempty"`
	Email         *string         `gorm:"uniqueIndex" json:"email,omitempty"`
	Phone         *string         `gorm:"uniqueIndex" json:"phone,omitempty"`
	Password      string          `json:"-"`
	EmailVerified bool            `json:"email_verified,omitempty"`
	PhoneVerified bool            `json:"phone_verified,omitempty"`
	VerifiedAt    *time.Time      `json:"verified_at,omitempty"`
	LastActive    *time.Time      `json:"last_active,omitempty"`
	AvatarURL     *string         `json:"avatar_url,omitempty"`
	Metadata      *types.Metadata `gorm:"type:jsonb" json:"-"`

	Roles       []UserRole   `gorm:"foreignKey:user_id" json:"roles,omitempty"`
	Bookings    []Booking    `gorm:"foreignKey:user_id" json:"bookings,omitempty"`
	Experiences []Experience `gorm:"foreignKey:vendor_id" json:"experiences,omitempty"`

	types.Timestamps
}

type UserRole struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	UserID uint   `gorm:"uniqueIndex:user_role" json:"user_id,omitempty"`
	Role   string `gorm:"uniqueIndex:user_role;default:'customer'" json:"role"`

	User User `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}

// HasRole reports whether any of the wanted roles is assigned.
func (u *User) HasRole(wanted ...string) bool {
	for _, r := range u.Roles {
		for _, w := range wanted {
			if r.Role == w {
				return true
			}
		}
	}
	return false
}
