package models

import "time"

// FmTrack is one entry in the Meow FM audio list.
type FmTrack struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:128;not null" json:"title"`
	Subtitle  string    `gorm:"size:255" json:"subtitle"`
	AudioURL  string    `gorm:"size:512" json:"audio_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
