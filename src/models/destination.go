package models

import "bucketlistt/src/types"

type Destination struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Name        string `json:"name,omitempty"`
	Slug        string `gorm:"uniqueIndex" json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	Experiences []Experience `gorm:"foreignKey:destination_id" json:"experiences,omitempty"`

	types.Timestamps
}

type Blog struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	Title     string `json:"title,omitempty"`
	Slug      string `gorm:"uniqueIndex" json:"slug,omitempty"`
	Content   string `json:"content,omitempty"`
	AuthorID  uint   `json:"author_id,omitempty"`
	Published bool   `gorm:"default:false" json:"published"`

	Author User `gorm:"foreignKey:author_id" json:"-"`

	types.Timestamps
}
