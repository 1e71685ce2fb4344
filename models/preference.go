package models

import "time"

// Preference is one key-value row of a named preference store. The column is
// pref_key because key is reserved in MySQL.
type Preference struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Store     string    `gorm:"size:64;not null;uniqueIndex:idx_pref_store_key" json:"store"`
	Key       string    `gorm:"column:pref_key;size:191;not null;uniqueIndex:idx_pref_store_key" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
