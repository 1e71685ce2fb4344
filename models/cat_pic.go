package models

import "time"

// CatPic is one photo in the gallery wall.
type CatPic struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:128;not null" json:"title"`
	ImageURL  string    `gorm:"size:512;not null" json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
