package utils

import (
	"testing"

	"bucketlistt/src/models"
	"bucketlistt/src/types"

	"github.com/stretchr/testify/assert"
)

func TestApplyCouponPercentage(t *testing.T) {
	coupon := &models.DiscountCoupon{Type: types.COUPON_PERCENTAGE, DiscountValue: 10}

	assert.Equal(t, 250.0, ApplyCoupon(coupon, 2500))
	assert.Equal(t, 99.9, ApplyCoupon(coupon, 999))
}

func TestApplyCouponFlat(t *testing.T) {
	coupon := &models.DiscountCoupon{Type: types.COUPON_FLAT, DiscountValue: 500}

	assert.Equal(t, 500.0, ApplyCoupon(coupon, 2500))
}

func TestApplyCouponFlatNeverExceedsAmount(t *testing.T) {
	coupon := &models.DiscountCoupon{Type: types.COUPON_FLAT, DiscountValue: 500}

	assert.Equal(t, 300.0, ApplyCoupon(coupon, 300))
}

func TestApplyCouponRoundsToPaise(t *testing.T) {
	coupon := &models.DiscountCoupon{Type: types.COUPON_PERCENTAGE, DiscountValue: 15}

	assert.Equal(t, 149.85, ApplyCoupon(coupon, 999))
}
