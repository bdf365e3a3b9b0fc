package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCouponCodeNormalizedOnSave(t *testing.T) {
	coupon := DiscountCoupon{Code: "  summer20 "}

	assert.Nil(t, coupon.BeforeSave(nil))
	assert.Equal(t, "SUMMER20", coupon.Code)
}

func TestCouponUsable(t *testing.T) {
	now := time.Now()

	coupon := DiscountCoupon{IsActive: true}
	assert.True(t, coupon.Usable(now))

	coupon.IsActive = false
	assert.False(t, coupon.Usable(now))

	yesterday := now.Add(-24 * time.Hour)
	coupon = DiscountCoupon{IsActive: true, ValidUntil: &yesterday}
	assert.False(t, coupon.Usable(now))

	tomorrow := now.Add(24 * time.Hour)
	coupon = DiscountCoupon{IsActive: true, ValidUntil: &tomorrow}
	assert.True(t, coupon.Usable(now))

	max := uint(5)
	coupon = DiscountCoupon{IsActive: true, MaxUses: &max, UsedCount: 5}
	assert.False(t, coupon.Usable(now))

	coupon.UsedCount = 4
	assert.True(t, coupon.Usable(now))
}
