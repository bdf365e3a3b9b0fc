package utils

import (
	"testing"

	"bucketlistt/src/models"

	"github.com/stretchr/testify/assert"
)

func TestResolvePricingActivityDiscountWins(t *testing.T) {
	discounted := 80.0
	exp := &models.Experience{Price: 100, Currency: "INR"}
	act := &models.Activity{Price: 100, DiscountedPrice: &discounted}

	quote := ResolvePricing(exp, act)

	assert.Equal(t, 80.0, quote.DisplayPrice)
	assert.Equal(t, 100.0, quote.OriginalPrice)
	assert.Equal(t, 20, quote.DiscountPercent)
	assert.Equal(t, "INR", quote.Currency)
}

func TestResolvePricingExperienceAnchor(t *testing.T) {
	original := 120.0
	exp := &models.Experience{Price: 100, OriginalPrice: &original, Currency: "INR"}
	act := &models.Activity{Price: 100}

	quote := ResolvePricing(exp, act)

	assert.Equal(t, 100.0, quote.DisplayPrice)
	assert.Equal(t, 120.0, quote.OriginalPrice)
	assert.Equal(t, 17, quote.DiscountPercent)
}

func TestResolvePricingNoDiscount(t *testing.T) {
	exp := &models.Experience{Price: 100, Currency: "USD"}
	act := &models.Activity{Price: 150}

	quote := ResolvePricing(exp, act)

	assert.Equal(t, 150.0, quote.DisplayPrice)
	assert.Equal(t, 150.0, quote.OriginalPrice)
	assert.Equal(t, 0, quote.DiscountPercent)
	assert.Equal(t, "USD", quote.Currency)
}

func TestResolvePricingDiscountEqualToPriceIgnored(t *testing.T) {
	same := 100.0
	exp := &models.Experience{Price: 100, Currency: "INR"}
	act := &models.Activity{Price: 100, DiscountedPrice: &same}

	quote := ResolvePricing(exp, act)

	assert.Equal(t, 100.0, quote.DisplayPrice)
	assert.Equal(t, 0, quote.DiscountPercent)
}

func TestResolvePricingExperienceOnly(t *testing.T) {
	quote := ResolvePricing(&models.Experience{Price: 2500, Currency: "INR"}, nil)

	assert.Equal(t, 2500.0, quote.DisplayPrice)
	assert.Equal(t, "INR", quote.Currency)
}
