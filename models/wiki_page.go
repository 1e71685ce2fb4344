package models

import "time"

// WikiPage holds sanitized HTML for the in-app wiki viewer.
type WikiPage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	Title     string    `gorm:"size:128;not null" json:"title"`
	HTML      string    `gorm:"type:mediumtext" json:"html"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
