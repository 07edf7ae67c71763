package models

import "time"

// BaseModel is the common embed for every table. Version is the optimistic
// concurrency token: mutations bump it and guarded updates compare it.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Version   int       `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
