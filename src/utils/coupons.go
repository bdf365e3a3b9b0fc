package utils

import (
	"errors"
	"math"
	"strings"
	"time"

	"bucketlistt/src/db"
	"bucketlistt/src/models"
	"bucketlistt/src/types"

	"gorm.io/gorm"
)

var (
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponInactive  = errors.New("coupon is no longer active")
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponExhausted = errors.New("coupon has reached its usage limit")
	ErrCouponScope     = errors.New("coupon does not apply to this experience")
)

// ApplyCoupon returns the discount amount for the given order amount.
// Flat coupons never discount more than the amount itself.
func ApplyCoupon(coupon *models.DiscountCoupon, amount float64) float64 {
	var discount float64
	switch coupon.Type {
	case types.COUPON_PERCENTAGE:
		discount = amount * coupon.DiscountValue / 100
	case types.COUPON_FLAT:
		discount = coupon.DiscountValue
	}
	discount = math.Round(discount*100) / 100
	if discount > amount {
		discount = amount
	}
	return discount
}

// LookupCoupon fetches a usable coupon by code, optionally scoped to
// an experience, and reports the precise reason it cannot be used.
func LookupCoupon(code string, experienceID *uint) (*models.DiscountCoupon, error) {
	d := db.GetDb()
	var coupon models.DiscountCoupon
	err := d.
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&coupon).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	if !coupon.IsActive {
		return nil, ErrCouponInactive
	}
	now := time.Now()
	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		return nil, ErrCouponExpired
	}
	if coupon.MaxUses != nil && coupon.UsedCount >= *coupon.MaxUses {
		return nil, ErrCouponExhausted
	}
	if coupon.ExperienceID != nil && experienceID != nil && *coupon.ExperienceID != *experienceID {
		return nil, ErrCouponScope
	}
	return &coupon, nil
}

// RedeemCoupon increments used_count inside the caller's transaction.
func RedeemCoupon(tx *gorm.DB, code string) error {
	return tx.
		Model(&models.DiscountCoupon{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Update("used_count", gorm.Expr("used_count + 1")).
		Error
}
