package models

import "bucketlistt/src/types"

type Experience struct {
	ID            uint     `gorm:"primarykey" json:"id"`
	Title         string   `json:"title,omitempty"`
	Slug          string   `gorm:"uniqueIndex" json:"slug,omitempty"`
	Description   string   `json:"description,omitempty"`
	Location      string   `json:"location,omitempty"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Currency      string   `gorm:"default:'INR'" json:"currency,omitempty"`
	VendorID      uint     `json:"vendor_id,omitempty"`
	DestinationID *uint    `json:"destination_id,omitempty"`
	IsActive      bool     `gorm:"default:true" json:"is_active"`

	Vendor      User              `gorm:"foreignKey:vendor_id" json:"-"`
	Destination *Destination      `gorm:"foreignKey:destination_id" json:"destination,omitempty"`
	Activities  []Activity        `gorm:"foreignKey:experience_id" json:"activities,omitempty"`
	Images      []ExperienceImage `gorm:"foreignKey:experience_id" json:"images,omitempty"`

	// Computed on reads, never stored.
	Pricing *PriceQuote `gorm:"-" json:"pricing,omitempty"`

	types.Timestamps
}

type ExperienceImage struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	ExperienceID uint   `json:"experience_id,omitempty"`
	URL          string `json:"url,omitempty"`
	Position     uint   `json:"position,omitempty"`

	Experience Experience `json:"-"`

	types.Timestamps
}

// PriceQuote is the resolved display price for an experience or activity.
type PriceQuote struct {
	DisplayPrice    float64 `json:"display_price"`
	OriginalPrice   float64 `json:"original_price"`
	DiscountPercent int     `json:"discount_percent"`
	Currency        string  `json:"currency,omitempty"`
}
