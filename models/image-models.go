package models

import (
	"gorm.io/gorm"
)

// GeneratedImage is the durable record of one generation. ID and CreatedAt
// are assigned by the store; rows are never updated after insert.
type GeneratedImage struct {
	gorm.Model
	UserID      uint   `json:"user_id" gorm:"not null;index"`
	ImageURL    string `json:"image_url" gorm:"not null"`
	ObjectName  string `json:"-"`
	Prompt      string `json:"prompt" gorm:"not null"`
	ModelID     string `json:"model" gorm:"column:model;not null"`
	AspectRatio string `json:"aspect_ratio" gorm:"not null"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// FavoriteMark flags one of the owner's own generated images. Removed when
// the underlying image is deleted.
type FavoriteMark struct {
	gorm.Model
	UserID  uint `json:"user_id" gorm:"not null;uniqueIndex:idx_fav_user_image"`
	ImageID uint `json:"image_id" gorm:"not null;uniqueIndex:idx_fav_user_image"`
}
