package models

import "time"

// CatProfile is one cat's card in the profile list.
type CatProfile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:128;not null" json:"title"`
	Age         string    `gorm:"size:32" json:"age"`
	Personality string    `gorm:"size:128" json:"personality"`
	Description string    `gorm:"type:text" json:"description"`
	AvatarURL   string    `gorm:"size:512" json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
