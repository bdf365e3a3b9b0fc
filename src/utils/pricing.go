package utils

import (
	"math"

	"bucketlistt/src/models"
)

// ResolvePricing picks the displayed price for an activity within its
// experience. An activity-level discounted price wins when present and
// actually lower than the activity price; otherwise the experience's
// original price is the strike-through anchor for the base price.
func ResolvePricing(exp *models.Experience, act *models.Activity) models.PriceQuote {
	currency := "INR"
	if exp != nil && exp.Currency != "" {
		currency = exp.Currency
	}
	base := 0.0
	if exp != nil {
		base = exp.Price
	}
	if act != nil {
		base = act.Price
	}
	final := base
	original := base
	if act != nil && act.DiscountedPrice != nil && *act.DiscountedPrice != act.Price {
		final = *act.DiscountedPrice
		original = act.Price
	} else if exp != nil && exp.OriginalPrice != nil && *exp.OriginalPrice > final {
		original = *exp.OriginalPrice
	}
	quote := models.PriceQuote{
		DisplayPrice:  final,
		OriginalPrice: original,
		Currency:      currency,
	}
	if original > final && original > 0 {
		quote.DiscountPercent = int(math.Round((original - final) / original * 100))
	}
	return quote
}
