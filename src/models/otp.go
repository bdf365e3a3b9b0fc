package models

import (
	"time"

	"bucketlistt/src/types"
)

// OTPVerification is one outstanding code for an identifier. A new
// send replaces any previous unexpired row for the same identifier so
// only the latest code is ever valid.
type OTPVerification struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	Identifier string     `gorm:"index" json:"identifier,omitempty"`
	AuthMethod string     `json:"auth_method,omitempty"`
	OTPCode    string     `json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	Verified   bool       `json:"verified"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	Attempts   uint       `json:"attempts"`

	types.Timestamps
}
